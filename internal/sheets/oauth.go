package sheets

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// LoadToken reads a cached OAuth2 token from file.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, err
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &token, nil
}

// SaveToken persists an OAuth2 token to file with owner-only permissions,
// creating the parent directory if needed.
func SaveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// persistingTokenSource wraps a token source and writes every freshly
// refreshed token back to the cache file, so the next run starts from a
// valid access token instead of refreshing again.
type persistingTokenSource struct {
	src  oauth2.TokenSource
	path string

	mu        sync.Mutex
	lastSaved string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken != s.lastSaved {
		if saveErr := SaveToken(s.path, token); saveErr != nil {
			// The token still works for this run, only the cache is stale.
			slog.Warn("failed to persist oauth token", "path", s.path, "error", saveErr)
		} else {
			s.lastSaved = token.AccessToken
		}
	}
	return token, nil
}
