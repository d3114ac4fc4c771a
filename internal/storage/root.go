package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// UserRoot returns the storage directory for one user's files, creating it
// on first use. Every article file, the instruction file and the task ledger
// for the session live under this directory.
func UserRoot(baseDir, userID string) (string, error) {
	root := filepath.Join(baseDir, userID)
	if err := os.MkdirAll(root, 0700); err != nil {
		return "", fmt.Errorf("failed to create user storage root: %w", err)
	}
	return root, nil
}
