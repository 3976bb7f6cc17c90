package utils

import "path/filepath"

// GetAbsolutePath returns path if it was absolute, otherwise joins it with baseDir.
// The result is always cleaned.
func GetAbsolutePath(path, baseDir string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(baseDir, path))
}
