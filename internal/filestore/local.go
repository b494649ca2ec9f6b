// Package filestore is the object-storage collaborator of the file
// registry: upload bytes under a path, list a prefix, delete a path.
package filestore

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Store is the capability surface the registry needs from object storage.
type Store interface {
	Upload(data []byte, path string) (string, error)
	Read(path string) ([]byte, error)
	List(prefix string) ([]string, error)
	Delete(path string) error
}

// LocalStore keeps objects on the local filesystem under a root
// directory. The returned URL is the store-relative path.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create file store root: %w", err)
	}

	return &LocalStore{root: root}, nil
}

// clean guards against paths escaping the root.
func (s *LocalStore) clean(path string) (string, error) {
	cleaned := filepath.Clean("/" + path)
	if cleaned == "/" {
		return "", fmt.Errorf("empty object path")
	}

	return filepath.Join(s.root, cleaned), nil
}

func (s *LocalStore) Upload(data []byte, path string) (string, error) {
	full, err := s.clean(path)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}

	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	return path, nil
}

func (s *LocalStore) Read(path string) ([]byte, error) {
	full, err := s.clean(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	return data, nil
}

func (s *LocalStore) List(prefix string) ([]string, error) {
	var entries []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}

		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(rel, strings.TrimPrefix(prefix, "/")) {
			entries = append(entries, rel)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	return entries, nil
}

func (s *LocalStore) Delete(path string) error {
	full, err := s.clean(path)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}
