package social

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// TokenRefresher 用刷新令牌换取新的访问令牌
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	// BasicAuth 为 true 时客户端凭据放在 Authorization 头（X 的要求）
	BasicAuth bool
	Timeout   time.Duration
}

type OAuthRefresher struct {
	cfg        *oauth2.Config
	httpClient *http.Client
	timeout    time.Duration
}

func NewOAuthRefresher(c OAuthConfig) *OAuthRefresher {
	style := oauth2.AuthStyleInParams
	if c.BasicAuth {
		style = oauth2.AuthStyleInHeader
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &OAuthRefresher{
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  c.TokenURL,
				AuthStyle: style,
			},
		},
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
}

func (s *OAuthRefresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token stored", ErrRefreshRejected)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	token, err := s.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil && retrieveErr.Response.StatusCode < 500 {
			return nil, fmt.Errorf("%w: %s", ErrRefreshRejected, retrieveErr.Error())
		}
		return nil, transient("refresh oauth token", err)
	}
	return token, nil
}
