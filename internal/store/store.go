// Package store provides the durable key-value mirror shared by every
// attached hub: string keys, JSON-serialized values, one file per key.
// Any writer may overwrite any key; last writer wins, no versioning.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"leadfunnel/internal/common/fsutil"
	"leadfunnel/pkg/types"
)

// Well-known keys.
const (
	KeyLeads              = "solarLeads"
	KeyAdminAuthenticated = "adminAuthenticated"
)

// Store is a file-backed JSON key-value store rooted at one directory.
type Store struct {
	mu  sync.Mutex
	dir string
}

// Open prepares the backing directory and returns a Store.
func Open(dir string) (*Store, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("store dir: %w", err)
	}
	return &Store{dir: abs}, nil
}

// Set marshals v and durably writes it under key. The write goes through a
// temp file and a rename so readers never observe a torn value.
func (s *Store) Set(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Get unmarshals the value under key into v. The second return is false when
// the key is absent.
func (s *Store) Get(key string, v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

// Delete removes the key; absent keys are a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Leads returns the mirrored submission list, empty when never written.
func (s *Store) Leads() ([]types.Lead, error) {
	var leads []types.Lead
	if _, err := s.Get(KeyLeads, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// AppendLead appends one lead to the mirrored list and returns the updated
// list without writing it back; the caller decides how the write is
// broadcast.
func (s *Store) AppendLead(lead types.Lead) ([]types.Lead, error) {
	leads, err := s.Leads()
	if err != nil {
		return nil, err
	}
	return append(leads, lead), nil
}

// SetAdminAuthenticated stores the client-side admin flag: "true" when set,
// absent otherwise. This is explicitly not a security boundary.
func (s *Store) SetAdminAuthenticated(ok bool) error {
	if !ok {
		return s.Delete(KeyAdminAuthenticated)
	}
	return s.Set(KeyAdminAuthenticated, "true")
}

// AdminAuthenticated reports whether the admin flag is present and "true".
func (s *Store) AdminAuthenticated() bool {
	var v string
	ok, err := s.Get(KeyAdminAuthenticated, &v)
	return err == nil && ok && v == "true"
}

// path maps a key to its backing file, replacing separators so a key can
// never escape the store directory.
func (s *Store) path(key string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(key)
	return filepath.Join(s.dir, name+".json")
}
