package utils

import (
	"io"
	"os"

	"github.com/maksimkurb/hostconf/src/internal/log"
)

// CloseOrWarn closes c and logs a failure instead of returning it.
func CloseOrWarn(c io.Closer) {
	if err := c.Close(); err != nil {
		log.Warnf("Failed to close file: %v", err)
	}
}

// RemoveOrWarn removes path, logging any failure other than the file being absent.
// It reports whether path is gone.
func RemoveOrWarn(path string) bool {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warnf("Failed to remove %s: %v", path, err)
		return false
	}
	return true
}
