package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// JSONStore keeps the snapshot in a single file.
type JSONStore struct {
	Path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{Path: path}
}

func (s *JSONStore) Load(_ context.Context) (Snapshot, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return Snapshot{}, ErrNotExists
	}
	if err != nil {
		return Snapshot{}, errors.Wrapf(err, "read snapshot %s", s.Path)
	}
	if len(data) == 0 {
		return Snapshot{}, ErrNotExists
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, errors.Wrapf(err, "decode snapshot %s", s.Path)
	}
	return snap, nil
}

// Save writes to a temporary file first and renames it over the target.
func (s *JSONStore) Save(_ context.Context, snap Snapshot) error {
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create snapshot directory")
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "write snapshot %s", tmp)
	}
	return errors.Wrap(os.Rename(tmp, s.Path), "replace snapshot")
}

func (s *JSONStore) Reset(_ context.Context) error {
	err := os.Remove(s.Path)
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	return errors.Wrapf(err, "remove snapshot %s", s.Path)
}
