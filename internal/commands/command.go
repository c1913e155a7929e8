// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"github.com/charmbracelet/log"

	"todo/internal/config"
	"todo/internal/service"
	"todo/internal/taskstore"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command reads or mutates tasks.
	NeedsStore() bool

	// NeedsAuth returns true if the command talks to Google Tasks.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths, settings).
	// env.Store is nil unless NeedsStore() and env.Exporter is nil unless
	// NeedsAuth().
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int
}

// Env carries the dependencies the dispatcher opened for a command.
type Env struct {
	Store    *taskstore.Store
	Exporter service.Exporter
	Logger   *log.Logger
}

// logger returns env's logger or a discarding one.
func (e *Env) logger() *log.Logger {
	if e == nil || e.Logger == nil {
		return log.New(io.Discard)
	}
	return e.Logger
}
