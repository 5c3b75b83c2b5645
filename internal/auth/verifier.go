// Package auth handles portal token exchange and session cookie signing.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ErrInvalidToken is returned when the identity portal rejects a token.
var ErrInvalidToken = errors.New("auth: invalid access token")

const exchangePath = "/webman/sso/SSOAccessToken.cgi"

// VerifierConfig wires a Verifier.
type VerifierConfig struct {
	BaseURL    string
	AppID      string
	HTTPClient *http.Client
	CacheTTL   time.Duration
	CacheSize  int
}

// Verifier exchanges portal access tokens for user IDs. Successful exchanges
// are cached with a TTL so repeated requests in one session do not hammer the
// portal.
type Verifier struct {
	baseURL    string
	appID      string
	httpClient *http.Client
	cache      *expirable.LRU[string, string]
}

// NewVerifier constructs a Verifier from cfg.
func NewVerifier(cfg VerifierConfig) *Verifier {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = 128
	}

	return &Verifier{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		appID:      cfg.AppID,
		httpClient: httpClient,
		cache:      expirable.NewLRU[string, string](size, nil, ttl),
	}
}

// VerifyToken exchanges an access token for the user ID it belongs to.
// Returns ErrInvalidToken when the portal does not recognise the token.
func (v *Verifier) VerifyToken(ctx context.Context, accessToken string) (string, error) {
	if accessToken == "" {
		return "", ErrInvalidToken
	}
	if uid, ok := v.cache.Get(accessToken); ok {
		return uid, nil
	}

	query := url.Values{}
	query.Set("action", "exchange")
	query.Set("app_id", v.appID)
	query.Set("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+exchangePath+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("auth: build exchange request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth: token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth: token exchange: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			UserID string `json:"user_id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("auth: token exchange: decode response: %w", err)
	}
	if !payload.Success || payload.Data.UserID == "" {
		return "", ErrInvalidToken
	}

	v.cache.Add(accessToken, payload.Data.UserID)
	return payload.Data.UserID, nil
}
