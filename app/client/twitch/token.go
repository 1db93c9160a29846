package twitch

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"twdl/app/apperr"
	"twdl/pkg/config"

	"github.com/samber/do"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenManager exchanges client credentials for an app access token and keeps the first
// token it gets for the rest of the process.
type TokenManager struct {
	cfg        *config.Config
	httpClient *http.Client

	mutex sync.Mutex
	token *AccessToken
}

func NewTokenManager(di *do.Injector) (*TokenManager, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &TokenManager{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Twitch.Timeout},
	}, nil
}

// Acquire returns the cached token, performing a single exchange on first use.
func (m *TokenManager) Acquire(ctx context.Context, creds *config.Credentials) (*AccessToken, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.token != nil {
		return m.token, nil
	}

	if creds == nil {
		return nil, fmt.Errorf("%w: no credentials provided", apperr.ErrAuth)
	}

	ccConfig := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     m.cfg.Twitch.AuthURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)

	token, err := ccConfig.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: could not fetch app access token: %w", apperr.ErrAuth, err)
	}

	accessToken := &AccessToken{
		Value:    token.AccessToken,
		ClientID: creds.ClientID,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		accessToken.ExpiresAt = &expiry
	}

	m.token = accessToken

	return accessToken, nil
}
