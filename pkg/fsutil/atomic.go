// Package fsutil provides atomic file replacement.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// AtomicFile collects writes in a temporary file next to the target and
// renames it into place on Commit. Until then the target is untouched.
type AtomicFile struct {
	tmp  *os.File
	path string
	perm os.FileMode
	done bool
}

// CreateAtomic starts an atomic write of path.
func CreateAtomic(path string, perm os.FileMode) (*AtomicFile, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".castkit-tmp-*")
	if err != nil {
		return nil, fmt.Errorf("atomic write create tmp: %w", err)
	}
	return &AtomicFile{tmp: tmp, path: path, perm: perm}, nil
}

func (f *AtomicFile) Write(p []byte) (int, error) {
	return f.tmp.Write(p)
}

// Commit fsyncs the data and renames it over the target path.
func (f *AtomicFile) Commit() error {
	if f.done {
		return fmt.Errorf("atomic write: already finished")
	}
	f.done = true

	if err := f.tmp.Chmod(f.perm); err != nil {
		f.cleanup()
		return fmt.Errorf("atomic write chmod: %w", err)
	}
	if err := f.tmp.Sync(); err != nil {
		f.cleanup()
		return fmt.Errorf("atomic write fsync: %w", err)
	}
	if err := f.tmp.Close(); err != nil {
		os.Remove(f.tmp.Name())
		return fmt.Errorf("atomic write close: %w", err)
	}
	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		os.Remove(f.tmp.Name())
		return fmt.Errorf("atomic write rename: %w", err)
	}
	if err := FsyncDir(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("atomic write fsync dir: %w", err)
	}
	return nil
}

// Abort discards everything written. It is a no-op after Commit.
func (f *AtomicFile) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.cleanup()
}

func (f *AtomicFile) cleanup() {
	f.tmp.Close()
	os.Remove(f.tmp.Name())
}

// AtomicWrite writes data to path through an AtomicFile.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	f, err := CreateAtomic(path, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Abort()
		return fmt.Errorf("atomic write: %w", err)
	}
	return f.Commit()
}

// FsyncDir fsyncs a directory so a rename inside it is durable.
func FsyncDir(dirPath string) error {
	d, err := os.Open(dirPath)
	if err != nil {
		return fmt.Errorf("fsync dir open: %w", err)
	}
	defer d.Close()
	return d.Sync()
}
