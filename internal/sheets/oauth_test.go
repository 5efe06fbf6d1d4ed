package sheets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/oauth2"
)

func TestTokenRoundTrip(t *testing.T) {
	// The parent directory does not exist yet; SaveToken must create it.
	path := filepath.Join(t.TempDir(), "splitsage", "token.json")

	token := &oauth2.Token{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).UTC(),
	}
	require.NoError(t, SaveToken(path, token))

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "access-1", loaded.AccessToken)
	assert.Equal(t, "refresh-1", loaded.RefreshToken)
	assert.Equal(t, "Bearer", loaded.TokenType)
}

func TestLoadTokenMissingFile(t *testing.T) {
	_, err := LoadToken(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestLoadTokenMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, SaveToken(path, &oauth2.Token{AccessToken: "x"}))

	// Corrupt the file in place.
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := LoadToken(path)
	require.Error(t, err)
}

type staticTokenSource struct {
	token *oauth2.Token
}

func (s *staticTokenSource) Token() (*oauth2.Token, error) {
	return s.token, nil
}

func TestPersistingTokenSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	src := &staticTokenSource{token: &oauth2.Token{AccessToken: "access-1", TokenType: "Bearer"}}
	ts := &persistingTokenSource{src: src, path: path}

	token, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "access-1", token.AccessToken)

	cached, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "access-1", cached.AccessToken)

	// A refreshed token replaces the cached one.
	src.token = &oauth2.Token{AccessToken: "access-2", TokenType: "Bearer"}
	_, err = ts.Token()
	require.NoError(t, err)

	cached, err = LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "access-2", cached.AccessToken)
}
