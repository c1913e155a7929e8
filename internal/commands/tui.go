package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/tui"
)

func init() {
	Register(&TUICmd{})
}

// TUICmd implements the tui command.
type TUICmd struct{}

func (c *TUICmd) Name() string      { return "tui" }
func (c *TUICmd) Aliases() []string { return nil }
func (c *TUICmd) Synopsis() string  { return "Open the interactive list" }
func (c *TUICmd) Usage() string     { return "todo tui" }
func (c *TUICmd) NeedsStore() bool  { return true }
func (c *TUICmd) NeedsAuth() bool   { return false }

func (c *TUICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TUICmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	err := tui.Run(ctx, env.Store,
		tui.WithCelebrate(cfg.Settings.Celebrate.Enabled),
		tui.WithLogger(env.logger()),
	)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
