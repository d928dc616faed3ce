package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/castkit-project/castkit/pkg/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWrite_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "install-id")

	require.NoError(t, fsutil.AtomicWrite(path, []byte("abc"), 0600))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestAtomicWrite_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.cast")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	require.NoError(t, fsutil.AtomicWrite(path, []byte("new"), 0644))

	content, _ := os.ReadFile(path)
	assert.Equal(t, "new", string(content))
}

func TestAtomicFile_TargetUntouchedUntilCommit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.cast")

	f, err := fsutil.CreateAtomic(path, 0644)
	require.NoError(t, err)
	_, err = f.Write([]byte("line 1\n"))
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, f.Commit())
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line 1\n", string(content))

	entries, _ := os.ReadDir(dir)
	assert.Len(t, entries, 1, "only the target file should exist")
	assert.Error(t, f.Commit())
}

func TestAtomicFile_Abort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.cast")
	require.NoError(t, os.WriteFile(path, []byte("keep"), 0644))

	f, err := fsutil.CreateAtomic(path, 0644)
	require.NoError(t, err)
	_, err = f.Write([]byte("discard"))
	require.NoError(t, err)
	f.Abort()
	f.Abort()

	content, _ := os.ReadFile(path)
	assert.Equal(t, "keep", string(content))
	entries, _ := os.ReadDir(dir)
	assert.Len(t, entries, 1)
}

func TestCreateAtomic_MissingDir(t *testing.T) {
	_, err := fsutil.CreateAtomic(filepath.Join(t.TempDir(), "nope", "out.cast"), 0644)
	assert.Error(t, err)
}

func TestFsyncDir(t *testing.T) {
	assert.NoError(t, fsutil.FsyncDir(t.TempDir()))
	assert.Error(t, fsutil.FsyncDir(filepath.Join(t.TempDir(), "missing")))
}
