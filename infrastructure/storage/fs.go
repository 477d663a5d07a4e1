package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/prasetyowira/etiqueta/constant"
	"github.com/prasetyowira/etiqueta/infrastructure/logger"
)

// FSStore is a BlobStore backed by a local directory.
type FSStore struct {
	root string
}

// NewFSStore creates a filesystem store rooted at dir
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	logger.Debug("Filesystem blob store ready", logger.LoggerInfo{
		ContextFunction: constant.CtxStorage,
		Data: map[string]interface{}{
			constant.DataPath: dir,
		},
	})

	return &FSStore{root: dir}, nil
}

func (s *FSStore) localPath(path string) string {
	return filepath.Join(s.root, filepath.FromSlash(path))
}

// Put writes an object, creating parent directories as needed
func (s *FSStore) Put(ctx context.Context, path string, data []byte, contentType string) error {
	full := s.localPath(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		logger.CtxError(ctx, "Failed to create asset directory", logger.LoggerInfo{
			ContextFunction: constant.CtxStorage,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeStoragePut,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
			Data: map[string]interface{}{
				constant.DataPath: path,
			},
		})
		return err
	}

	return os.WriteFile(full, data, 0o644)
}

// Get reads an object, mapping missing files to ErrNotFound
func (s *FSStore) Get(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(s.localPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Delete removes an object; deleting a missing object is not an error
func (s *FSStore) Delete(ctx context.Context, path string) error {
	err := os.Remove(s.localPath(path))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
