// Package archive keeps an audit copy of every fetched photograph on local
// disk.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
)

// Local stores media files under a base directory.
type Local struct {
	basePath string
}

// NewLocal creates a new Local archive rooted at basePath
func NewLocal(basePath string) (*Local, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	return &Local{basePath: basePath}, nil
}

// Save writes a media file and returns its filename
func (l *Local) Save(filename string, data []byte) (string, error) {
	path := filepath.Join(l.basePath, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return filename, nil
}

// Get retrieves a stored media file
func (l *Local) Get(filename string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.basePath, filename))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}
