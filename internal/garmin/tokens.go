package garmin

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
)

// TokenFile is the OAuth2 token cache written by garth.
const TokenFile = "oauth2_token.json"

// ErrNoTokens means the token cache is missing or no longer usable.
var ErrNoTokens = errors.New("no usable Garmin Connect tokens")

type cachedToken struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresAt    int64  `json:"expires_at"`
}

// LoadToken reads the cached OAuth2 token from dir. An expired token is
// reported as ErrNoTokens.
func LoadToken(dir string, now time.Time) (*oauth2.Token, error) {
	path := filepath.Join(dir, TokenFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s not found", ErrNoTokens, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}

	var ct cachedToken
	if err := json.Unmarshal(data, &ct); err != nil {
		return nil, fmt.Errorf("failed to parse token cache %s: %w", path, err)
	}
	if ct.AccessToken == "" {
		return nil, fmt.Errorf("%w: %s has no access token", ErrNoTokens, path)
	}

	tok := &oauth2.Token{
		AccessToken:  ct.AccessToken,
		RefreshToken: ct.RefreshToken,
		TokenType:    ct.TokenType,
	}
	if ct.ExpiresAt > 0 {
		tok.Expiry = time.Unix(ct.ExpiresAt, 0)
		if !tok.Expiry.After(now) {
			return nil, fmt.Errorf("%w: token expired at %s", ErrNoTokens, tok.Expiry.Format(time.RFC3339))
		}
	}
	return tok, nil
}
