// Package cli parses the command line and runs commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/kv"
	"todo/internal/logging"
	"todo/internal/service"
	"todo/internal/taskstore"
)

// StoreFactory opens the task store for cfg.
// Used to inject storage during dispatch.
type StoreFactory func(cfg *config.Config, logger *log.Logger) (*taskstore.Store, error)

// ExporterFactory creates an Exporter from config.
// Used to inject the remote backend during dispatch.
type ExporterFactory func(ctx context.Context, cfg *config.Config) (service.Exporter, error)

// OpenStore is the default StoreFactory: it opens the configured key-value
// backend and loads the store from it.
func OpenStore(cfg *config.Config, logger *log.Logger) (*taskstore.Store, error) {
	opts := cfg.StorageOptions()
	storage, err := kv.Open(opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("storage opened", "backend", opts.Backend)

	store, err := taskstore.Open(storage, taskstore.WithLogger(logger))
	if err != nil {
		storage.Close()
		return nil, err
	}
	return store, nil
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry  *commands.Registry
	stores    StoreFactory
	exporters ExporterFactory
}

// NewDispatcher creates a new dispatcher. A nil stores factory uses
// OpenStore; a nil exporters factory makes auth commands fail their
// pre-flight credential checks.
func NewDispatcher(registry *commands.Registry, stores StoreFactory, exporters ExporterFactory) *Dispatcher {
	if stores == nil {
		stores = OpenStore
	}
	return &Dispatcher{
		registry:  registry,
		stores:    stores,
		exporters: exporters,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> list
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // errors are reported below

	var (
		configDir string
		quiet     bool
		debug     bool
	)
	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A leading '-' after parsing is a flag the set did not consume.
	positional := fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") && positional[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positional[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	env := &commands.Env{Logger: logging.New(errOut, cfg)}

	if cmd.NeedsAuth() {
		if d.exporters == nil {
			if !cfg.HasOAuthClient() {
				fmt.Fprintf(errOut, "error: %s not found in %s\n", config.OAuthClientFile, cfg.Dir)
				return exitcode.AuthError
			}
			if !cfg.HasToken() {
				fmt.Fprintln(errOut, "error: not logged in (run: todo login)")
				return exitcode.AuthError
			}
			fmt.Fprintln(errOut, "error: no export backend configured")
			return exitcode.BackendError
		}
		env.Exporter, err = d.exporters(ctx, cfg)
		if err != nil {
			if strings.Contains(err.Error(), "token") || strings.Contains(err.Error(), "oauth") {
				fmt.Fprintf(errOut, "error: auth error: %s\n", err)
				return exitcode.AuthError
			}
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
	}

	if cmd.NeedsStore() {
		env.Store, err = d.stores(cfg, env.Logger)
		if err != nil {
			fmt.Fprintf(errOut, "error: storage error: %s\n", err)
			return exitcode.StorageError
		}
		defer func() {
			if err := env.Store.Close(); err != nil {
				env.Logger.Warn("close storage", "err", err)
			}
		}()
	}

	return cmd.Run(ctx, cfg, env, positional, out, errOut)
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "flag needs an argument:"):
		return "flag needs an argument: " + strings.TrimSpace(strings.TrimPrefix(msg, "flag needs an argument:"))
	case strings.HasPrefix(msg, "flag provided but not defined:"):
		return "unknown flag: " + strings.TrimSpace(strings.TrimPrefix(msg, "flag provided but not defined:"))
	default:
		return msg
	}
}
