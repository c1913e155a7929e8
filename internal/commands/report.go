package commands

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/intent"
	"todo/internal/report"
)

func init() {
	Register(&ReportCmd{})
}

// ReportCmd implements the report command.
type ReportCmd struct {
	title string
	now   func() time.Time
}

// SetTitle sets the report title (for testing).
func (c *ReportCmd) SetTitle(title string) {
	c.title = title
}

func (c *ReportCmd) Name() string      { return "report" }
func (c *ReportCmd) Aliases() []string { return nil }
func (c *ReportCmd) Synopsis() string  { return "Write a printable PDF checklist" }
func (c *ReportCmd) Usage() string     { return "todo report [--title <title>] <file.pdf|->" }
func (c *ReportCmd) NeedsStore() bool  { return true }
func (c *ReportCmd) NeedsAuth() bool   { return false }

func (c *ReportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "Todo", "")
}

func (c *ReportCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: output file required")
		return exitcode.UserError
	}
	path := args[0]

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	title := c.title
	if title == "" {
		title = "Todo"
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, title, env.Store.Tasks(), intent.ProgressOf(env.Store), now()); err != nil {
		fmt.Fprintf(errOut, "error: render report: %v\n", err)
		return exitcode.UserError
	}

	if path == "-" {
		if _, err := out.Write(buf.Bytes()); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return exitcode.Success
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		fmt.Fprintf(errOut, "error: write report: %v\n", err)
		return exitcode.UserError
	}
	env.logger().Debug("report written", "path", path, "bytes", buf.Len())

	if !cfg.Quiet {
		fmt.Fprintf(out, "wrote %s\n", path)
	}
	return exitcode.Success
}
