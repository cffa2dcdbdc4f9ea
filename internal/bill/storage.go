package bill

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Storage defines the interface for receipt file storage.
type Storage interface {
	// Save stores a receipt file and returns the name it was stored under.
	Save(filename string, data []byte) (string, error)

	// Get retrieves a stored receipt by name.
	Get(name string) ([]byte, error)

	// Delete removes a stored receipt.
	Delete(name string) error
}

// LocalStorage implements Storage on the local filesystem, flat under one
// base directory.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates the base directory if needed and returns a
// LocalStorage rooted there.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Save stores a receipt file. Path separators in the name are rejected so a
// caller-supplied filename cannot escape the base directory.
func (l *LocalStorage) Save(filename string, data []byte) (string, error) {
	if strings.ContainsAny(filename, `/\`) {
		return "", fmt.Errorf("invalid storage filename: %q", filename)
	}
	if err := os.WriteFile(filepath.Join(l.basePath, filename), data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return filename, nil
}

// Get retrieves a stored receipt by name.
func (l *LocalStorage) Get(name string) ([]byte, error) {
	if strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid storage filename: %q", name)
	}
	data, err := os.ReadFile(filepath.Join(l.basePath, name))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// Delete removes a stored receipt.
func (l *LocalStorage) Delete(name string) error {
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid storage filename: %q", name)
	}
	if err := os.Remove(filepath.Join(l.basePath, name)); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}
