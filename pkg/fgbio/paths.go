package fgbio

import (
	"os"
	"path/filepath"
)

// ValidatePath checks a caller-supplied file path without touching it.
// With mustExist the path has to reference an existing regular file; for
// output paths (mustExist=false) the parent directory has to exist so the
// tool has somewhere to write.
func ValidatePath(path string, mustExist bool) error {
	if mustExist {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return Errorf(InvalidPath, "file does not exist: %s", path)
			}
			return Errorf(InvalidPath, "cannot access %s: %v", path, err)
		}
		if !info.Mode().IsRegular() {
			return Errorf(InvalidPath, "path is not a file: %s", path)
		}
		return nil
	}

	parent := filepath.Dir(path)
	info, err := os.Stat(parent)
	if err != nil || !info.IsDir() {
		return Errorf(InvalidPath, "output directory does not exist: %s", parent)
	}
	return nil
}
