package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store holds the blob bytes behind File rows.
type Store interface {
	Save(storedName string, r io.Reader) error
	Open(storedName string) (io.ReadCloser, error)
	Remove(storedName string) error
}

// DiskStore keeps blobs as flat files under a root directory.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (d *DiskStore) path(storedName string) string {
	return filepath.Join(d.root, filepath.Base(storedName))
}

func (d *DiskStore) Save(storedName string, r io.Reader) error {
	f, err := os.Create(d.path(storedName))
	if err != nil {
		return fmt.Errorf("create blob: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	return nil
}

func (d *DiskStore) Open(storedName string) (io.ReadCloser, error) {
	f, err := os.Open(d.path(storedName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

func (d *DiskStore) Remove(storedName string) error {
	err := os.Remove(d.path(storedName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}
