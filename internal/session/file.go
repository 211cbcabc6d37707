package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"woopm.dev/internal/obs"
)

const (
	tokenDirName  = ".woopm"
	tokenFileName = "token"
)

// FileStore persists the token in a single file so it survives process
// restarts. Unreadable or missing files read as absent.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ TokenStore = (*FileStore)(nil)

// NewFileStore returns a store writing to path. An empty path resolves to
// ~/.woopm/token.
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, tokenDirName, tokenFileName)
	}
	return &FileStore{path: filepath.Clean(path)}, nil
}

// Path returns the backing file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			obs.Warn("token file unreadable", map[string]any{"path": s.path, "error": err})
		}
		return "", false
	}
	token := strings.TrimSpace(string(data))
	return token, token != ""
}

func (s *FileStore) Set(token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		s.Clear()
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		obs.Error("token dir create failed", map[string]any{"path": s.path, "error": err})
		return
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		obs.Error("token write failed", map[string]any{"path": s.path, "error": err})
	}
}

func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		obs.Error("token remove failed", map[string]any{"path": s.path, "error": err})
	}
}
