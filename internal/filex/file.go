// Package filex writes downloaded card artifacts to the local filesystem.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) if needed and returns its absolute path.
// A relative dir is resolved against the working directory.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}

// WriteAtomic writes data to dir/name through a temp file and rename, so a
// failed write never leaves a partial artifact behind.
func WriteAtomic(dir, name string, data []byte) (string, error) {
	dir, err := EnsureDir(dir)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	target := filepath.Join(dir, name)
	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("rename %s: %w", name, err)
	}
	return target, nil
}
