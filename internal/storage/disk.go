package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// FileStore persists uploaded spreadsheets and serves image existence checks
// for the validator.
type FileStore interface {
	// Save writes data under name and returns the storage path it is
	// addressable by in Exists and Delete.
	Save(name string, data []byte) (string, error)
	// Exists reports whether a stored path is present.
	Exists(path string) bool
	// Delete removes a stored file. Deleting a missing file is not an error.
	Delete(path string) error
}

// DiskStore keeps files on the local filesystem under a base directory.
type DiskStore struct {
	baseDir string
}

// NewDiskStore creates the base directory if needed.
func NewDiskStore(baseDir string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &DiskStore{baseDir: baseDir}, nil
}

func (s *DiskStore) Save(name string, data []byte) (string, error) {
	key := filepath.Base(name)
	if err := os.WriteFile(filepath.Join(s.baseDir, key), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store file: %w", err)
	}
	return key, nil
}

func (s *DiskStore) Exists(path string) bool {
	full, ok := s.resolve(path)
	if !ok {
		return false
	}
	_, err := os.Stat(full)
	return err == nil
}

func (s *DiskStore) Delete(path string) error {
	full, ok := s.resolve(path)
	if !ok {
		return fmt.Errorf("path %q escapes the storage directory", path)
	}
	err := os.Remove(full)
	if os.IsNotExist(err) {
		logrus.WithField("path", path).Warn("File already removed")
		return nil
	}
	return err
}

// resolve maps a storage path to its on-disk location. Catalog image paths
// look absolute ("/Uploads/PS-1/a.jpg") but are keys relative to the base
// directory: the leading slash is stripped and the rest of the path, supplier
// subdirectories included, joins under baseDir. Paths that clean outside the
// base directory are refused.
func (s *DiskStore) resolve(path string) (string, bool) {
	rel := filepath.Clean(strings.TrimPrefix(filepath.ToSlash(path), "/"))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(rel)), true
}
