package matchstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

func newStoreLock(path string) *flock.Flock {
	return flock.New(path + ".lock")
}

// readStoreFile reads the backing file under a shared file lock. The second
// return value reports whether the file existed; absence is not an error.
func readStoreFile(path string, lock *flock.Flock) ([]byte, bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("stat store file: %w", err)
	}

	if err := lock.RLock(); err != nil {
		return nil, false, fmt.Errorf("lock store file: %w", err)
	}
	defer lock.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read store file: %w", err)
	}
	return data, true, nil
}

// writeStoreFile overwrites the backing file under an exclusive file lock,
// creating the parent directory if necessary. The write goes through a temp
// file and rename so readers never observe a partial file.
func writeStoreFile(path string, lock *flock.Flock, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock store file: %w", err)
	}
	defer lock.Unlock()

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
