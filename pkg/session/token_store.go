package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// StoredTokens is what survives between runs of the client.
type StoredTokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	Email   string `json:"email,omitempty"`
}

func (t StoredTokens) complete() bool {
	return t.Access != "" && t.Refresh != ""
}

type TokenStore interface {
	// Load returns the persisted tokens; ok is false when nothing is stored.
	Load() (tokens StoredTokens, ok bool, err error)
	Save(tokens StoredTokens) error
	Clear() error
}

// FileTokenStore keeps the tokens in a JSON file readable by the owner only.
type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Load() (StoredTokens, bool, error) {
	content, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return StoredTokens{}, false, nil
	}
	if err != nil {
		return StoredTokens{}, false, fmt.Errorf("failed to read token file: %w", err)
	}
	var tokens StoredTokens
	if err := json.Unmarshal(content, &tokens); err != nil {
		return StoredTokens{}, false, fmt.Errorf("failed to parse token file %s: %w", s.path, err)
	}
	return tokens, tokens.complete(), nil
}

func (s *FileTokenStore) Save(tokens StoredTokens) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	content, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens *StoredTokens
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load() (StoredTokens, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens == nil {
		return StoredTokens{}, false, nil
	}
	return *s.tokens, s.tokens.complete(), nil
}

func (s *MemoryTokenStore) Save(tokens StoredTokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = &tokens
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = nil
	return nil
}
