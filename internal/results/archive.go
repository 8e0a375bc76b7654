package results

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Archive moves the results directory to archive/results-<timestamp> next
// to it and returns the archive path
func (m *Manager) Archive() (string, error) {
	if _, err := os.Stat(m.BaseDir); os.IsNotExist(err) {
		return "", fmt.Errorf("results directory does not exist: %s", m.BaseDir)
	}

	archiveDir := filepath.Join(filepath.Dir(m.BaseDir), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	now := m.now()
	archivePath := filepath.Join(archiveDir, "results-"+now.Format("20060102-150405"))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir, "results-"+now.Format("20060102-150405.000000"))
	}

	if err := os.Rename(m.BaseDir, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive results directory: %w", err)
	}

	slog.Info("results directory archived", "path", archivePath)
	return archivePath, nil
}
