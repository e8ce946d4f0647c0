package session

import (
	"os"
	"path/filepath"
)

// Store is the durable client-side home of the session record. Load returns
// (nil, nil) when nothing is stored.
type Store interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Clear() error
}

// FileStore keeps the session record in a single file named "user.json",
// mirroring the browser's localStorage entry under the "user" key.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, "user.json")}
}

func (s *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (s *FileStore) Save(data []byte) error {
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
