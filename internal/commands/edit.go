package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/intent"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
//
// Editing takes the task out of the list and hands its text back. With no
// replacement text the staged text is printed so it can be re-added; with
// replacement text the new task is appended at the end under a new id.
type EditCmd struct{}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Take a pending task back for re-entry" }
func (c *EditCmd) Usage() string     { return "todo edit <id> [new text...]" }
func (c *EditCmd) NeedsStore() bool  { return true }
func (c *EditCmd) NeedsAuth() bool   { return false }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	task, rest, code := lookupTask(env.Store, args, errOut)
	if code != exitcode.Success {
		return code
	}
	if task.Completed {
		fmt.Fprintf(errOut, "error: cannot edit completed task: %d\n", task.ID)
		return exitcode.UserError
	}

	replacement := strings.TrimSpace(strings.Join(rest, " "))
	if len(rest) > 0 && replacement == "" {
		fmt.Fprintln(errOut, "error: task text required")
		return exitcode.UserError
	}

	res, code := apply(cfg, env, intent.Edit{ID: task.ID}, out, errOut)
	if code != exitcode.Success {
		return code
	}
	if replacement == "" {
		fmt.Fprintln(out, res.Staged)
		return exitcode.Success
	}

	added, code := apply(cfg, env, intent.Add{Text: replacement}, out, errOut)
	if code != exitcode.Success {
		return code
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "added %d\n", added.Task.ID)
	}
	return exitcode.Success
}
