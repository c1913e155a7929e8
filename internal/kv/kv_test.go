package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStorage runs the common Storage contract against s.
func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()

	_, ok, err := s.GetItem("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetItem("tasks", "[]"))
	v, ok, err := s.GetItem("tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	require.NoError(t, s.SetItems(map[string]string{
		"tasks":      `[{"id":1,"text":"A","completed":false}]`,
		"nextTaskId": "2",
	}))
	v, _, err = s.GetItem("tasks")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1,"text":"A","completed":false}]`, v)
	v, _, err = s.GetItem("nextTaskId")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	require.NoError(t, s.RemoveItem("nextTaskId"))
	require.NoError(t, s.RemoveItem("nextTaskId"))
	_, ok, err = s.GetItem("nextTaskId")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Clear())
	_, ok, err = s.GetItem("tasks")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	exerciseStorage(t, m)

	require.NoError(t, m.Close())
	_, _, err := m.GetItem("tasks")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.SetItem("tasks", "[]"), ErrClosed)
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	f, err := OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	exerciseStorage(t, f)
}

func TestFile_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.SetItem("nextTaskId", "7"))
	require.NoError(t, f.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := OpenFile(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.GetItem("nextTaskId")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "7", v)
}

func TestFile_CorruptReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	f, err := OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	_, ok, err := f.GetItem("tasks")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.SetItem("tasks", "[]"))
	v, ok, err := f.GetItem("tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}

func TestFile_Closed(t *testing.T) {
	f, err := OpenFile(filepath.Join(t.TempDir(), "storage.json"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.ErrorIs(t, f.SetItem("k", "v"), ErrClosed)
}

func TestSQLite(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "todo.db"))
	require.NoError(t, err)
	defer s.Close()

	exerciseStorage(t, s)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{name: "memory", opts: Options{Backend: "memory"}},
		{name: "default file", opts: Options{Path: filepath.Join(dir, "a.json")}},
		{name: "file upper case", opts: Options{Backend: "FILE", Path: filepath.Join(dir, "b.json")}},
		{name: "sqlite", opts: Options{Backend: "sqlite", Path: filepath.Join(dir, "c.db")}},
		{name: "file without path", opts: Options{Backend: "file"}, wantErr: "file storage: path required"},
		{name: "sqlite without path", opts: Options{Backend: "sqlite"}, wantErr: "sqlite storage: path required"},
		{name: "mysql without dsn", opts: Options{Backend: "mysql"}, wantErr: "mysql storage: dsn required"},
		{name: "unknown", opts: Options{Backend: "redis"}, wantErr: "unknown storage backend: redis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.opts)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, s.Close())
		})
	}
}
