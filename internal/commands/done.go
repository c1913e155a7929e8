package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/intent"
)

func init() {
	Register(&DoneCmd{completed: true})
	Register(&DoneCmd{completed: false})
}

// DoneCmd implements the done and undone commands.
type DoneCmd struct {
	completed bool
}

func (c *DoneCmd) Name() string {
	if c.completed {
		return "done"
	}
	return "undone"
}

func (c *DoneCmd) Aliases() []string { return nil }

func (c *DoneCmd) Synopsis() string {
	if c.completed {
		return "Mark a task completed"
	}
	return "Mark a task pending"
}

func (c *DoneCmd) Usage() string    { return "todo " + c.Name() + " <id>" }
func (c *DoneCmd) NeedsStore() bool { return true }
func (c *DoneCmd) NeedsAuth() bool  { return false }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	task, _, code := lookupTask(env.Store, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if _, code := apply(cfg, env, intent.Toggle{ID: task.ID, Completed: c.completed}, out, errOut); code != exitcode.Success {
		return code
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
