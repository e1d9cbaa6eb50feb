package sink

import (
	"os"
	"path/filepath"
)

// AtomicFile stages writes in a temp file next to dest and renames it
// over dest on Commit. Abort removes the temp file; dest is untouched.
type AtomicFile struct {
	dest string
	perm os.FileMode
	tmp  *os.File
}

func CreateAtomic(dest string, perm os.FileMode) (*AtomicFile, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return nil, err
	}
	return &AtomicFile{dest: dest, perm: perm, tmp: tmp}, nil
}

func (a *AtomicFile) Write(p []byte) (int, error) { return a.tmp.Write(p) }

func (a *AtomicFile) Commit() error {
	tmpPath := a.tmp.Name()
	if err := a.tmp.Sync(); err != nil {
		_ = a.tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := a.tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, a.perm); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, a.dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	// best effort: persist the rename
	if d, err := os.Open(filepath.Dir(a.dest)); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

func (a *AtomicFile) Abort() error {
	_ = a.tmp.Close()
	return os.Remove(a.tmp.Name())
}
