package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command.
// Every local task is copied, in order, into a Google Tasks list. The list
// is created when it does not exist yet.
type ExportCmd struct {
	listName string
}

// SetListName sets the list name (for testing).
func (c *ExportCmd) SetListName(name string) {
	c.listName = name
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Copy tasks to Google Tasks" }
func (c *ExportCmd) Usage() string     { return "todo export [--list <list-name>]" }
func (c *ExportCmd) NeedsStore() bool  { return true }
func (c *ExportCmd) NeedsAuth() bool   { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	listName := c.listName
	if listName == "" {
		listName = cfg.Settings.Export.List
	}
	if strings.TrimSpace(listName) == "" {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}

	tasks := env.Store.Tasks()
	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks")
		}
		return exitcode.Success
	}

	list, err := env.Exporter.ResolveList(ctx, listName)
	if err != nil {
		switch {
		case strings.Contains(err.Error(), "not found"):
			list, err = env.Exporter.CreateList(ctx, listName)
			if err != nil {
				fmt.Fprintf(errOut, "error: backend error: %v\n", err)
				return exitcode.BackendError
			}
			env.logger().Info("created remote list", "list", listName, "id", list.ID)
		case strings.Contains(err.Error(), "ambiguous"):
			fmt.Fprintf(errOut, "error: ambiguous list name: %s\n", listName)
			return exitcode.UserError
		default:
			fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			return exitcode.BackendError
		}
	}

	previous := ""
	for _, task := range tasks {
		id, err := env.Exporter.CreateTask(ctx, list.ID, previous, service.RemoteTask{
			Title:     task.Text,
			Completed: task.Completed,
		})
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			return exitcode.BackendError
		}
		env.logger().Debug("exported task", "id", task.ID, "remote", id)
		previous = id
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "exported %d tasks to %s\n", len(tasks), list.Title)
	}
	return exitcode.Success
}
