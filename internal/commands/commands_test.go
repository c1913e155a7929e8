package commands_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/kv"
	"todo/internal/output"
	"todo/internal/taskstore"
	"todo/internal/testutil"
)

// runCommand is a helper to run a command against store and exp.
func runCommand(t *testing.T, cmd commands.Command, store *taskstore.Store, exp *testutil.FakeExporter, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:      t.TempDir(),
		Quiet:    quiet,
		Settings: config.DefaultSettings(),
	}
	env := &commands.Env{Store: store}
	if exp != nil {
		env.Exporter = exp
	}

	code = cmd.Run(context.Background(), cfg, env, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func assertResult(t *testing.T, gotCode, wantCode int, gotOut, wantOut, gotErr, wantErr string) {
	t.Helper()
	if gotCode != wantCode {
		t.Errorf("expected exit code %d, got %d", wantCode, gotCode)
	}
	if gotOut != wantOut {
		t.Errorf("expected stdout %q, got %q", wantOut, gotOut)
	}
	if gotErr != wantErr {
		t.Errorf("expected stderr %q, got %q", wantErr, gotErr)
	}
}

// failingStorage fails every write once fail is set.
type failingStorage struct {
	kv.Storage
	fail bool
}

func (f *failingStorage) SetItem(key, value string) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Storage.SetItem(key, value)
}

func (f *failingStorage) SetItems(items map[string]string) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Storage.SetItems(items)
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, nil, false)
	assertResult(t, code, exitcode.Success, stdout, "todo 0.1.0\n", stderr, "")
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	reg := commands.NewRegistry()
	reg.Register(&commands.AddCmd{})
	reg.Register(&commands.VersionCmd{})
	cmd := &commands.HelpCmd{}
	cmd.SetRegistry(reg)

	stdout, stderr, code := runCommand(t, cmd, nil, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	lines := strings.Split(stdout, "\n")
	if lines[0] != "Usage:" {
		t.Errorf("first line = %q, want Usage:", lines[0])
	}
	// Commands follow the bare invocation in name order.
	if !strings.HasPrefix(strings.TrimSpace(lines[2]), "todo add <text...>") ||
		!strings.HasPrefix(strings.TrimSpace(lines[3]), "todo version") {
		t.Errorf("unexpected command lines:\n%s", stdout)
	}
	if !strings.Contains(stdout, "--quiet") {
		t.Error("help output should list common flags")
	}
}

// Tests for list command
func TestListCommand_Text(t *testing.T) {
	store := testutil.NewStore(t, "Buy milk", "Walk dog")
	testutil.Complete(t, store, 1)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, store, nil, nil, false)

	if code != exitcode.Success || stderr != "" {
		t.Fatalf("code %d, stderr %q", code, stderr)
	}
	testutil.GoldenString(t, "list_text", stdout)
}

func TestListCommand_JSON(t *testing.T) {
	store := testutil.NewStore(t, "Buy milk", "Walk dog")
	testutil.Complete(t, store, 1)

	cmd := &commands.ListCmd{}
	cmd.SetFormat(output.FormatJSON)
	stdout, stderr, code := runCommand(t, cmd, store, nil, nil, false)

	if code != exitcode.Success || stderr != "" {
		t.Fatalf("code %d, stderr %q", code, stderr)
	}
	testutil.GoldenString(t, "list_json", stdout)
}

func TestListCommand_YAML(t *testing.T) {
	store := testutil.NewStore(t, "Buy milk", "Walk dog")
	testutil.Complete(t, store, 2)

	cmd := &commands.ListCmd{}
	cmd.SetFormat(output.FormatYAML)
	stdout, _, code := runCommand(t, cmd, store, nil, nil, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	var got output.Listing
	if err := yaml.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, stdout)
	}
	if len(got.Tasks) != 2 || got.Tasks[1].Text != "Walk dog" || !got.Tasks[1].Completed {
		t.Errorf("tasks = %+v", got.Tasks)
	}
	if got.Progress.Completed != 1 || got.Progress.Total != 2 {
		t.Errorf("progress = %+v", got.Progress)
	}
}

func TestListCommand_Empty(t *testing.T) {
	tests := []struct {
		quiet bool
		want  string
	}{
		{false, "no tasks\n"},
		{true, ""},
	}
	for _, tt := range tests {
		stdout, stderr, code := runCommand(t, &commands.ListCmd{}, testutil.NewStore(t), nil, nil, tt.quiet)
		assertResult(t, code, exitcode.Success, stdout, tt.want, stderr, "")
	}
}

func TestListCommand_UnknownFormat(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetFormat("xml")

	stdout, stderr, code := runCommand(t, cmd, testutil.NewStore(t, "A"), nil, nil, false)
	assertResult(t, code, exitcode.UserError, stdout, "", stderr, "error: unknown format: xml\n")
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	store := testutil.NewStore(t)

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, store, nil, []string{"Buy", " milk "}, false)

	assertResult(t, code, exitcode.Success, stdout, "added 1\n", stderr, "")
	task, ok := store.Get(1)
	if !ok || task.Text != "Buy  milk" || task.Completed {
		t.Errorf("stored task = %+v, %v", task, ok)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, testutil.NewStore(t), nil, []string{"A"}, true)
	assertResult(t, code, exitcode.Success, stdout, "", stderr, "")
}

func TestAddCommand_NoText(t *testing.T) {
	for _, args := range [][]string{nil, {""}, {"  ", "\t"}} {
		store := testutil.NewStore(t)
		stdout, stderr, code := runCommand(t, &commands.AddCmd{}, store, nil, args, false)

		assertResult(t, code, exitcode.UserError, stdout, "", stderr, "error: task text required\n")
		if store.Len() != 0 || store.NextID() != 1 {
			t.Errorf("blank add changed the store: len %d, next %d", store.Len(), store.NextID())
		}
	}
}

func TestAddCommand_UncompletesList(t *testing.T) {
	store := testutil.NewStore(t, "A")
	testutil.Complete(t, store, 1)

	stdout, _, code := runCommand(t, &commands.AddCmd{}, store, nil, []string{"B"}, false)

	assertResult(t, code, exitcode.Success, stdout, "added 2\n", "", "")
	if store.IsComplete() {
		t.Error("adding a pending task should make the list incomplete")
	}
}

func TestAddCommand_StorageError(t *testing.T) {
	storage := &failingStorage{Storage: kv.NewMemory()}
	store := testutil.NewStoreOn(t, storage)
	storage.fail = true

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, store, nil, []string{"A"}, false)

	if code != exitcode.StorageError {
		t.Errorf("expected exit code %d, got %d", exitcode.StorageError, code)
	}
	if stdout != "" || !strings.HasPrefix(stderr, "error: storage error:") {
		t.Errorf("stdout %q, stderr %q", stdout, stderr)
	}
}

// Tests for done and undone commands
func TestDoneCommand_Success(t *testing.T) {
	store := testutil.NewStore(t, "A", "B")
	done, _ := commands.DefaultRegistry.Find("done")

	stdout, stderr, code := runCommand(t, done, store, nil, []string{"#1"}, false)

	assertResult(t, code, exitcode.Success, stdout, "ok\n", stderr, "")
	if task, _ := store.Get(1); !task.Completed {
		t.Error("task 1 should be completed")
	}
}

func TestDoneCommand_CelebratesOnce(t *testing.T) {
	store := testutil.NewStore(t, "A", "B")
	testutil.Complete(t, store, 1)
	done, _ := commands.DefaultRegistry.Find("done")

	stdout, _, code := runCommand(t, done, store, nil, []string{"2"}, false)
	assertResult(t, code, exitcode.Success, stdout, "*** all tasks complete! ***\nok\n", "", "")

	// Already complete: marking again does not celebrate.
	stdout, _, _ = runCommand(t, done, store, nil, []string{"2"}, false)
	if stdout != "ok\n" {
		t.Errorf("expected plain ok, got %q", stdout)
	}
}

func TestDoneCommand_CelebrationDisabled(t *testing.T) {
	store := testutil.NewStore(t, "A")
	done, _ := commands.DefaultRegistry.Find("done")

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir(), Settings: config.DefaultSettings()}
	cfg.Settings.Celebrate.Enabled = false
	code := done.Run(context.Background(), cfg, &commands.Env{Store: store}, []string{"1"}, &outBuf, &errBuf)

	assertResult(t, code, exitcode.Success, outBuf.String(), "ok\n", errBuf.String(), "")
}

func TestUndoneCommand(t *testing.T) {
	store := testutil.NewStore(t, "A")
	testutil.Complete(t, store, 1)
	undone, _ := commands.DefaultRegistry.Find("undone")

	stdout, stderr, code := runCommand(t, undone, store, nil, []string{"1"}, false)

	assertResult(t, code, exitcode.Success, stdout, "ok\n", stderr, "")
	if store.IsComplete() {
		t.Error("list should no longer be complete")
	}
}

func TestDoneCommand_BadRefs(t *testing.T) {
	done, _ := commands.DefaultRegistry.Find("done")
	tests := []struct {
		args    []string
		wantErr string
	}{
		{nil, "error: task id required\n"},
		{[]string{"x"}, "error: invalid task id: x\n"},
		{[]string{"9"}, "error: task not found: 9\n"},
	}
	for _, tt := range tests {
		stdout, stderr, code := runCommand(t, done, testutil.NewStore(t, "A"), nil, tt.args, false)
		assertResult(t, code, exitcode.UserError, stdout, "", stderr, tt.wantErr)
	}
}

// Tests for rm command
func TestRmCommand_Success(t *testing.T) {
	store := testutil.NewStore(t, "A", "B", "C")

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, store, nil, []string{"2"}, false)

	assertResult(t, code, exitcode.Success, stdout, "ok\n", stderr, "")
	tasks := store.Tasks()
	if len(tasks) != 2 || tasks[0].ID != 1 || tasks[1].ID != 3 {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestRmCommand_CompletesList(t *testing.T) {
	store := testutil.NewStore(t, "A", "B")
	testutil.Complete(t, store, 1)

	stdout, _, code := runCommand(t, &commands.RmCmd{}, store, nil, []string{"2"}, false)
	assertResult(t, code, exitcode.Success, stdout, "*** all tasks complete! ***\nok\n", "", "")
}

func TestRmCommand_NotFound(t *testing.T) {
	store := testutil.NewStore(t, "A")

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, store, nil, []string{"5"}, false)

	assertResult(t, code, exitcode.UserError, stdout, "", stderr, "error: task not found: 5\n")
	if store.Len() != 1 {
		t.Error("store should be unchanged")
	}
}

// Tests for edit command
func TestEditCommand_Stage(t *testing.T) {
	store := testutil.NewStore(t, "Buy milk", "Walk dog")

	stdout, stderr, code := runCommand(t, &commands.EditCmd{}, store, nil, []string{"1"}, true)

	// The staged text is the payload and prints even in quiet mode.
	assertResult(t, code, exitcode.Success, stdout, "Buy milk\n", stderr, "")
	if _, ok := store.Get(1); ok {
		t.Error("edited task should be removed")
	}
}

func TestEditCommand_Replace(t *testing.T) {
	store := testutil.NewStore(t, "Buy milk", "Walk dog")

	stdout, stderr, code := runCommand(t, &commands.EditCmd{}, store, nil, []string{"1", "Buy", "oat", "milk"}, false)

	assertResult(t, code, exitcode.Success, stdout, "added 3\n", stderr, "")
	tasks := store.Tasks()
	if len(tasks) != 2 || tasks[0].ID != 2 || tasks[1].Text != "Buy oat milk" || tasks[1].ID != 3 {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestEditCommand_Completed(t *testing.T) {
	store := testutil.NewStore(t, "A")
	testutil.Complete(t, store, 1)

	stdout, stderr, code := runCommand(t, &commands.EditCmd{}, store, nil, []string{"1", "B"}, false)

	assertResult(t, code, exitcode.UserError, stdout, "", stderr, "error: cannot edit completed task: 1\n")
	if store.Len() != 1 {
		t.Error("completed task must stay")
	}
}

func TestEditCommand_BlankReplacement(t *testing.T) {
	store := testutil.NewStore(t, "A")

	stdout, stderr, code := runCommand(t, &commands.EditCmd{}, store, nil, []string{"1", " "}, false)

	assertResult(t, code, exitcode.UserError, stdout, "", stderr, "error: task text required\n")
	if store.Len() != 1 {
		t.Error("task must stay when the replacement is blank")
	}
}

func TestEditCommand_NeverCelebrates(t *testing.T) {
	store := testutil.NewStore(t, "A", "B")
	testutil.Complete(t, store, 1)

	stdout, _, code := runCommand(t, &commands.EditCmd{}, store, nil, []string{"2"}, false)

	assertResult(t, code, exitcode.Success, stdout, "B\n", "", "")
	if !store.IsComplete() {
		t.Error("remaining list should be complete")
	}
}

// Tests for progress command
func TestProgressCommand(t *testing.T) {
	store := testutil.NewStore(t, "A", "B", "C", "D")
	testutil.Complete(t, store, 1, 3, 4)

	stdout, stderr, code := runCommand(t, &commands.ProgressCmd{}, store, nil, nil, false)
	assertResult(t, code, exitcode.Success, stdout, "[###############-----]  3 / 4  75%\n", stderr, "")

	stdout, _, _ = runCommand(t, &commands.ProgressCmd{}, testutil.NewStore(t), nil, nil, false)
	if stdout != "[--------------------]  0 / 0  0%\n" {
		t.Errorf("empty progress = %q", stdout)
	}
}

func TestProgressCommand_UnexpectedArgument(t *testing.T) {
	store := testutil.NewStore(t, "A")

	stdout, stderr, code := runCommand(t, &commands.ProgressCmd{}, store, nil, []string{"extra"}, false)
	assertResult(t, code, exitcode.UserError, stdout, "", stderr, "error: unexpected argument: extra\n")
}

// Tests for clear command
func TestClearCommand_NeedsForce(t *testing.T) {
	store := testutil.NewStore(t, "A", "B")

	stdout, stderr, code := runCommand(t, &commands.ClearCmd{}, store, nil, nil, false)

	assertResult(t, code, exitcode.UserError, stdout, "", stderr, "error: list has 2 tasks (use --force)\n")
	if store.Len() != 2 {
		t.Error("store should be unchanged")
	}
}

func TestClearCommand_Force(t *testing.T) {
	store := testutil.NewStore(t, "A", "B")
	cmd := &commands.ClearCmd{}
	cmd.SetForce(true)

	stdout, stderr, code := runCommand(t, cmd, store, nil, nil, false)

	assertResult(t, code, exitcode.Success, stdout, "ok\n", stderr, "")
	if store.Len() != 0 || store.NextID() != 1 {
		t.Errorf("len %d, next %d after clear", store.Len(), store.NextID())
	}
}

func TestClearCommand_EmptyWithoutForce(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ClearCmd{}, testutil.NewStore(t), nil, nil, false)
	assertResult(t, code, exitcode.Success, stdout, "ok\n", stderr, "")
}

// Tests for report command
func TestReportCommand_File(t *testing.T) {
	store := testutil.NewStore(t, "Buy milk", "Walk dog")
	path := filepath.Join(t.TempDir(), "todo.pdf")

	stdout, stderr, code := runCommand(t, &commands.ReportCmd{}, store, nil, []string{path}, false)

	assertResult(t, code, exitcode.Success, stdout, "wrote "+path+"\n", stderr, "")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("report is not a PDF")
	}
}

func TestReportCommand_Stdout(t *testing.T) {
	cmd := &commands.ReportCmd{}
	cmd.SetTitle("Chores")

	stdout, _, code := runCommand(t, cmd, testutil.NewStore(t, "A"), nil, []string{"-"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.HasPrefix(stdout, "%PDF-") {
		t.Error("stdout is not a PDF")
	}
}

func TestReportCommand_NoPath(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ReportCmd{}, testutil.NewStore(t), nil, nil, false)
	assertResult(t, code, exitcode.UserError, stdout, "", stderr, "error: output file required\n")
}

// Tests for export command
func TestExportCommand_CreatesList(t *testing.T) {
	store := testutil.NewStore(t, "A", "B", "C")
	testutil.Complete(t, store, 2)
	exp := testutil.NewFakeExporter()

	stdout, stderr, code := runCommand(t, &commands.ExportCmd{}, store, exp, nil, false)

	assertResult(t, code, exitcode.Success, stdout, "exported 3 tasks to Todo\n", stderr, "")
	lists := exp.Lists()
	if len(lists) != 1 || lists[0].Title != "Todo" {
		t.Fatalf("lists = %+v", lists)
	}
	got := exp.Tasks(lists[0].ID)
	want := []testutil.FakeTask{
		{ID: "task1", Title: "A"},
		{ID: "task2", Title: "B", Completed: true},
		{ID: "task3", Title: "C"},
	}
	if len(got) != len(want) {
		t.Fatalf("exported %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("task %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestExportCommand_ExistingList(t *testing.T) {
	exp := testutil.NewFakeExporter()
	exp.AddList("chores", "Chores")
	cmd := &commands.ExportCmd{}
	cmd.SetListName("  chores ")

	stdout, _, code := runCommand(t, cmd, testutil.NewStore(t, "A"), exp, nil, false)

	assertResult(t, code, exitcode.Success, stdout, "exported 1 tasks to Chores\n", "", "")
	if len(exp.Lists()) != 1 || len(exp.Tasks("chores")) != 1 {
		t.Error("task should land in the existing list")
	}
}

func TestExportCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*testutil.FakeExporter)
		wantCode int
		wantErr  string
	}{
		{
			name:     "ambiguous",
			setup:    func(f *testutil.FakeExporter) { f.AddList("a", "Todo"); f.AddList("b", "todo") },
			wantCode: exitcode.UserError,
			wantErr:  "error: ambiguous list name: Todo\n",
		},
		{
			name:     "resolve fails",
			setup:    func(f *testutil.FakeExporter) { f.ResolveListErr = errors.New("boom") },
			wantCode: exitcode.BackendError,
			wantErr:  "error: backend error: boom\n",
		},
		{
			name:     "create list fails",
			setup:    func(f *testutil.FakeExporter) { f.CreateListErr = errors.New("quota") },
			wantCode: exitcode.BackendError,
			wantErr:  "error: backend error: quota\n",
		},
		{
			name:     "create task fails",
			setup:    func(f *testutil.FakeExporter) { f.CreateTaskErr = errors.New("quota") },
			wantCode: exitcode.BackendError,
			wantErr:  "error: backend error: quota\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := testutil.NewFakeExporter()
			tt.setup(exp)

			stdout, stderr, code := runCommand(t, &commands.ExportCmd{}, testutil.NewStore(t, "A"), exp, nil, false)
			assertResult(t, code, tt.wantCode, stdout, "", stderr, tt.wantErr)
		})
	}
}

func TestExportCommand_NoTasks(t *testing.T) {
	exp := testutil.NewFakeExporter()

	stdout, _, code := runCommand(t, &commands.ExportCmd{}, testutil.NewStore(t), exp, nil, false)

	assertResult(t, code, exitcode.Success, stdout, "no tasks\n", "", "")
	if len(exp.Lists()) != 0 {
		t.Error("no list should be created for an empty export")
	}
}

func TestRegistry_Aliases(t *testing.T) {
	for alias, name := range map[string]string{"create": "add", "ls": "list", "delete": "rm"} {
		cmd, ok := commands.DefaultRegistry.Find(alias)
		if !ok || cmd.Name() != name {
			t.Errorf("Find(%q) = %v, want %s", alias, cmd, name)
		}
	}

	reg := commands.NewRegistry()
	if err := reg.Register(&commands.AddCmd{}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(&commands.AddCmd{}); err == nil {
		t.Error("duplicate registration should fail")
	}
}
