package commands

import (
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/intent"
	"todo/internal/taskstore"
)

// celebrationLine is printed when a command completes the whole list.
const celebrationLine = "*** all tasks complete! ***"

// apply dispatches in against env.Store. On a storage failure it prints the
// error and returns a non-success exit code.
func apply(cfg *config.Config, env *Env, in intent.Intent, out, errOut io.Writer) (intent.Outcome, int) {
	res, err := intent.NewDispatcher(env.Store, nil).Dispatch(in)
	if err != nil {
		env.logger().Error("persist failed", "intent", fmt.Sprintf("%T", in), "err", err)
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return res, exitcode.StorageError
	}
	if res.Celebrate && cfg.Settings.Celebrate.Enabled && !cfg.Quiet {
		fmt.Fprintln(out, celebrationLine)
	}
	return res, exitcode.Success
}

// lookupTask parses the task id from args and finds it in the store.
// It prints the error and returns a non-success exit code on failure.
func lookupTask(store *taskstore.Store, args []string, errOut io.Writer) (taskstore.Task, []string, int) {
	id, rest, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return taskstore.Task{}, nil, exitcode.UserError
	}
	task, ok := store.Get(id)
	if !ok {
		fmt.Fprintf(errOut, "error: task not found: %d\n", id)
		return taskstore.Task{}, nil, exitcode.UserError
	}
	return task, rest, exitcode.Success
}
