// Package filestore is a one-file-per-key KV backend on an afero
// filesystem. Keys are hex-encoded into filenames, so any string key is
// safe; values land as plain files a human can inspect.
//
// Expiry is not supported: a Set with ttl > 0 fails with ErrTTLUnsupported.
package filestore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/on-the-ground/react_ive_go/store"
)

// ErrTTLUnsupported is returned by Set when a ttl is requested.
var ErrTTLUnsupported = errors.New("filestore: ttl not supported")

const suffix = ".kv"

// Store implements store.KV as files under one directory.
type Store struct {
	fs  afero.Fs
	dir string
}

var _ store.KV = (*Store)(nil)

// New stores entries under dir on fs, creating it if needed. Pass
// afero.NewOsFs() for a real directory or afero.NewMemMapFs() in tests.
func New(fs afero.Fs, dir string) (*Store, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %q: %w", dir, err)
	}
	return &Store{fs: fs, dir: dir}, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl > 0 {
		return ErrTTLUnsupported
	}
	path := s.path(key)
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, value, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		return fmt.Errorf("publish %q: %w", key, err)
	}
	return nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	value, err := afero.ReadFile(s.fs, s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	err := s.fs.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	ok, err := afero.Exists(s.fs, s.path(key))
	if err != nil {
		return false, fmt.Errorf("stat %q: %w", key, err)
	}
	return ok, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, hex.EncodeToString([]byte(key))+suffix)
}
