package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/intent"
	"todo/internal/output"
)

func init() {
	Register(&ProgressCmd{})
}

// ProgressCmd implements the progress command.
type ProgressCmd struct{}

func (c *ProgressCmd) Name() string      { return "progress" }
func (c *ProgressCmd) Aliases() []string { return nil }
func (c *ProgressCmd) Synopsis() string  { return "Print the completion bar" }
func (c *ProgressCmd) Usage() string     { return "todo progress" }
func (c *ProgressCmd) NeedsStore() bool  { return true }
func (c *ProgressCmd) NeedsAuth() bool   { return false }

func (c *ProgressCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProgressCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	output.FormatProgress(out, intent.ProgressOf(env.Store))
	return exitcode.Success
}
