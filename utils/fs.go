package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// EnsureDirectory ensures that the given directory exists with the given
// permissions. Missing parents are created with the same permissions.
// An existing file at path is an error and is never removed.
func EnsureDirectory(path string, perm os.FileMode) error {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(path, perm); err != nil {
			return fmt.Errorf("could not create dir %s: %w", path, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("failed to access %s: %w", path, err)
	case !info.IsDir():
		return fmt.Errorf("%s exists and is not a directory", path)
	}

	if info.Mode().Perm() != perm && runtime.GOOS != "windows" {
		return os.Chmod(path, perm)
	}
	return nil
}

// EnsureParentDirectory ensures the directory containing file exists.
// Existing directories keep their permissions.
func EnsureParentDirectory(file string, perm os.FileMode) error {
	dir := filepath.Dir(file)
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	return EnsureDirectory(dir, perm)
}
