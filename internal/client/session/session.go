// Package session persists the CLI's access and refresh tokens between
// invocations.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/gophchat/internal/filex"
)

const fileName = "session.json"

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (t Tokens) Empty() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

// Store keeps Tokens in a 0600 file inside its directory.
type Store struct {
	path string
}

// NewStore creates dir if needed and returns a Store backed by it.
func NewStore(dir string) (*Store, error) {
	d, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &Store{path: filepath.Join(d, fileName)}, nil
}

func (s *Store) Path() string { return s.path }

// Load returns the saved tokens, or zero Tokens when nothing is saved.
func (s *Store) Load() (Tokens, error) {
	var t Tokens
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return t, fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse session: %w", err)
	}
	return t, nil
}

func (s *Store) Save(t Tokens) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return filex.WritePrivate(s.path, data)
}

// Clear forgets the saved tokens. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
