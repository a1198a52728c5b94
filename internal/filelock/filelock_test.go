package filelock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.cast")

	require.NoError(t, AtomicWrite(path, []byte("first\n")))
	require.NoError(t, AtomicWrite(path, []byte("second\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestAtomicWrite_MissingParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.cast")

	err := AtomicWrite(path, []byte("x"))
	assert.Error(t, err)
}

func TestLockAndWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.cast")

	require.NoError(t, LockAndWrite(path, []byte("data\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data\n", string(data))

	_, err = os.Stat(path + ".lock")
	assert.NoError(t, err, "lock file stays in place for later writers")
}

func TestLockAndWrite_MissingParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.cast")

	err := LockAndWrite(path, []byte("x"))
	assert.Error(t, err)
}

func TestFileLock_ExcludesOtherHolders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.cast.lock")
	first := NewFileLock(path)
	second := NewFileLock(path)

	require.NoError(t, first.Lock())

	acquired, err := second.TryLock()
	require.NoError(t, err)
	assert.False(t, acquired, "lock must be exclusive while held")

	require.NoError(t, first.Unlock())
	_, err = os.Stat(path)
	require.NoError(t, err, "unlock must not remove the lock file")

	// a writer arriving after the release must contend on the same file
	acquired, err = second.TryLock()
	require.NoError(t, err)
	require.True(t, acquired)

	third := NewFileLock(path)
	acquired, err = third.TryLock()
	require.NoError(t, err)
	assert.False(t, acquired, "new writers must not lock a fresh file")

	require.NoError(t, second.Unlock())
}

func TestAtomicWrite_KeepsExistingMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.cast")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0600))
	require.NoError(t, os.Chmod(path, 0600))

	require.NoError(t, AtomicWrite(path, []byte("new\n")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestAtomicWrite_NewFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.cast")

	require.NoError(t, AtomicWrite(path, []byte("new\n")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestAtomicWrite_WritesThroughSymlink(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real.cast")
	link := filepath.Join(dir, "link.cast")
	require.NoError(t, os.WriteFile(real, []byte("old\n"), 0644))
	require.NoError(t, os.Symlink("real.cast", link))

	require.NoError(t, AtomicWrite(link, []byte("new\n")))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "symlink must be kept")

	data, err := os.ReadFile(real)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))
}

func TestAtomicWrite_DanglingSymlink(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "link.cast")
	require.NoError(t, os.Symlink("later.cast", link))

	require.NoError(t, AtomicWrite(link, []byte("new\n")))

	data, err := os.ReadFile(filepath.Join(dir, "later.cast"))
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))
}

func TestAtomicWrite_Directory(t *testing.T) {
	assert.Error(t, AtomicWrite(t.TempDir(), []byte("x")))
}
