package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FSStore keeps blobs as plain files under a root directory. Keys are UUIDs
// generated by the service layer, so no sanitisation beyond joining is
// needed.
type FSStore struct {
	root string
}

// NewFSStore creates the root directory if missing and returns a store
// rooted there.
func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating blob root: %w", err)
	}
	return &FSStore{root: root}, nil
}

func (s *FSStore) Write(ctx context.Context, key string, data []byte) error {
	path := filepath.Join(s.root, key)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("writing %s: %w", key, ErrDenied)
		}
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *FSStore) Read(ctx context.Context, key string) ([]byte, error) {
	path := filepath.Join(s.root, key)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", key, ErrNotFound)
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("reading %s: %w", key, ErrDenied)
		}
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, nil
}
