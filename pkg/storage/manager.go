package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	errs "unsplashdl/pkg/errors"
)

// Manager writes files into a single destination directory
type Manager struct {
	outputDir string
	saved     map[string]int64
	mu        sync.RWMutex
}

// NewManager creates a storage manager for outputDir.
// The directory is not created; writing into a missing directory fails.
func NewManager(outputDir string) *Manager {
	return &Manager{
		outputDir: outputDir,
		saved:     make(map[string]int64),
	}
}

// Path returns where a file called name is stored
func (m *Manager) Path(name string) string {
	return filepath.Join(m.outputDir, name)
}

// Save writes everything read from r to outputDir/name, replacing any
// existing file. The data goes to a temporary file in the same directory
// first and is renamed into place, so readers never observe a partial file.
func (m *Manager) Save(name string, r io.Reader) (int64, string, error) {
	op := "save " + name
	filename := m.Path(name)

	out, err := os.CreateTemp(m.outputDir, "."+name+".*.tmp")
	if err != nil {
		return 0, "", errs.Filesystem(op, fmt.Errorf("failed to create temporary file: %w", err))
	}
	tempFile := out.Name()

	n, err := io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return 0, "", errs.Filesystem(op, fmt.Errorf("failed to write data: %w", err))
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return 0, "", errs.Filesystem(op, fmt.Errorf("failed to close file: %w", closeErr))
	}

	// CreateTemp uses 0600
	if err := os.Chmod(tempFile, 0644); err != nil {
		os.Remove(tempFile)
		return 0, "", errs.Filesystem(op, fmt.Errorf("failed to set permissions: %w", err))
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return 0, "", errs.Filesystem(op, fmt.Errorf("failed to rename temporary file: %w", err))
	}

	m.mu.Lock()
	m.saved[name] = n
	m.mu.Unlock()

	return n, filename, nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetSavedCount returns how many distinct files this manager has written
func (m *Manager) GetSavedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.saved)
}

// GetSavedBytes returns the total size of the files this manager has written
func (m *Manager) GetSavedBytes() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total int64
	for _, n := range m.saved {
		total += n
	}
	return total
}
