package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskStore keeps generated files under a single directory. Names are flat:
// separators and parent references are rejected.
type DiskStore struct {
	dir string
}

// NewDiskStore creates dir when missing.
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		dir = "./exports"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save writes data under name, replacing any previous file.
func (s *DiskStore) Save(name string, data []byte) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("store %s: %w", name, err)
	}
	return nil
}

// Open returns a read handle for name.
func (s *DiskStore) Open(name string) (*os.File, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return file, nil
}

// Prune removes files last modified before now minus ttl and returns their names.
func (s *DiskStore) Prune(ttl time.Duration) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list storage directory: %w", err)
	}
	cutoff := time.Now().Add(-ttl)
	removed := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
		removed = append(removed, entry.Name())
	}
	return removed, nil
}

func (s *DiskStore) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}
