// Package filelock serializes writers of the same output file and replaces
// the file atomically.
package filelock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileLock wraps a flock file lock for coordinating access to an output file.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock at path.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Lock acquires an exclusive lock, blocking until it is available.
func (fl *FileLock) Lock() error {
	if err := fl.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	return nil
}

// TryLock attempts to acquire an exclusive lock without blocking.
// Returns false if the lock is held elsewhere.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock. The lock file stays in place: removing it would
// let a new writer lock a fresh file while a waiter holds the unlinked one.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// AtomicWrite writes data to path through a temporary file in the same
// directory followed by a rename. The parent directory must exist.
// A symlinked path is written through to its target, and an existing
// file keeps its permissions. If the write fails the previous content
// of path is left unchanged.
func AtomicWrite(path string, data []byte) error {
	target, mode, regular, err := resolveTarget(path)
	if err != nil {
		return err
	}
	if !regular {
		// devices and pipes cannot be replaced by rename
		if err := os.WriteFile(target, data, mode); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		return nil
	}
	dir := filepath.Dir(target)

	tempFile, err := os.CreateTemp(dir, ".castclean-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tempPath, mode); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, target); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", target, err)
	}

	tempFile = nil

	return nil
}

// resolveTarget follows symlinks at path and returns the file to replace,
// the permissions it should get and whether it is a regular file. A path
// that does not exist yet is created with 0644.
func resolveTarget(path string) (string, os.FileMode, bool, error) {
	target, err := filepath.EvalSymlinks(path)
	if errors.Is(err, fs.ErrNotExist) {
		// dangling symlink or new file
		target = path
		if link, lerr := os.Readlink(path); lerr == nil {
			if !filepath.IsAbs(link) {
				link = filepath.Join(filepath.Dir(path), link)
			}
			target = link
		}
		return target, 0644, true, nil
	}
	if err != nil {
		return "", 0, false, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return "", 0, false, fmt.Errorf("failed to stat %s: %w", target, err)
	}
	if info.IsDir() {
		return "", 0, false, fmt.Errorf("%s is a directory", target)
	}
	return target, info.Mode().Perm(), info.Mode().IsRegular(), nil
}

// LockAndWrite acquires "<path>.lock", writes data atomically and releases the lock.
func LockAndWrite(path string, data []byte) (err error) {
	lock := NewFileLock(path + ".lock")

	if err := lock.Lock(); err != nil {
		return err
	}
	defer func() {
		if uerr := lock.Unlock(); uerr != nil && err == nil {
			err = uerr
		}
	}()

	return AtomicWrite(path, data)
}
