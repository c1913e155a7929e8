package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
)

func init() {
	Register(&ClearCmd{})
}

// ClearCmd implements the clear command.
type ClearCmd struct {
	force bool
}

// SetForce sets the force flag (for testing).
func (c *ClearCmd) SetForce(force bool) {
	c.force = force
}

func (c *ClearCmd) Name() string      { return "clear" }
func (c *ClearCmd) Aliases() []string { return nil }
func (c *ClearCmd) Synopsis() string  { return "Delete every task and reset ids" }
func (c *ClearCmd) Usage() string     { return "todo clear [--force]" }
func (c *ClearCmd) NeedsStore() bool  { return true }
func (c *ClearCmd) NeedsAuth() bool   { return false }

func (c *ClearCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *ClearCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if n := env.Store.Len(); n > 0 && !c.force {
		fmt.Fprintf(errOut, "error: list has %d tasks (use --force)\n", n)
		return exitcode.UserError
	}

	if err := env.Store.Clear(); err != nil {
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.StorageError
	}
	env.logger().Info("store cleared", "session", env.Store.Session())

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
