package zoho

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
)

// RefreshStatus is the outcome of a refresh attempt
type RefreshStatus string

const (
	RefreshStatusSuccess RefreshStatus = "success"
	RefreshStatusError   RefreshStatus = "error"
)

// RefreshResult reports a refresh attempt without raising. Err carries the
// classified cause when Status is error.
type RefreshResult struct {
	Status      RefreshStatus
	AccessToken string
	Message     string
	Err         error
}

// OK reports whether the refresh produced a new access token
func (r RefreshResult) OK() bool {
	return r.Status == RefreshStatusSuccess
}

func refreshFailed(err error) RefreshResult {
	return RefreshResult{
		Status:  RefreshStatusError,
		Message: "Token refresh failed: " + err.Error(),
		Err:     err,
	}
}

// TokenRefresher owns the OAuth token lifecycle of the connector: code
// exchange, refresh, revocation and the graceful token getter.
type TokenRefresher struct {
	config     *Config
	store      integration.CredentialStore
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

// NewTokenRefresher creates a TokenRefresher backed by store
func NewTokenRefresher(config *Config, store integration.CredentialStore, httpClient *http.Client, logger *zap.Logger) (*TokenRefresher, error) {
	if config == nil {
		config = &Config{}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenRefresher{
		config:     config,
		store:      store,
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}, nil
}

func (r *TokenRefresher) oauthConfig(cred *integration.Credential) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cred.ClientID,
		ClientSecret: cred.ClientSecret,
		RedirectURL:  cred.RedirectURI,
		Scopes:       []string{r.config.Scope},
		Endpoint: oauth2.Endpoint{
			AuthURL:   r.config.AuthURL(),
			TokenURL:  r.config.TokenURL(),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func (r *TokenRefresher) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
}

// Refresh exchanges the stored refresh token for a new access token and
// persists it. Failures are reported in the result, never raised.
func (r *TokenRefresher) Refresh(ctx context.Context) RefreshResult {
	cred, err := r.store.Load(ctx)
	if err != nil {
		r.logger.Error("Failed to load zoho credentials", zap.Error(err))
		return refreshFailed(err)
	}
	if err := cred.CanRefresh(); err != nil {
		return refreshFailed(err)
	}

	start := r.now()
	src := r.oauthConfig(cred).TokenSource(r.clientContext(ctx), &oauth2.Token{RefreshToken: cred.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		classified := r.classify(err, r.config.TokenURL())
		r.logger.Error("Zoho token refresh failed",
			zap.String("url", r.config.TokenURL()),
			zap.Duration("latency", r.now().Sub(start)),
			zap.Error(classified))
		return refreshFailed(classified)
	}

	cred.ApplyRefreshedAccessToken(tok.AccessToken, expiryOf(tok), r.now())
	if err := r.store.Save(ctx, cred); err != nil {
		r.logger.Error("Failed to persist refreshed zoho token", zap.Error(err))
		return refreshFailed(err)
	}

	r.logger.Info("Zoho access token refreshed", zap.Duration("latency", r.now().Sub(start)))
	return RefreshResult{
		Status:      RefreshStatusSuccess,
		AccessToken: tok.AccessToken,
		Message:     "Access token refreshed successfully",
	}
}

// ExchangeCode trades an authorization code for a token pair. It does not
// persist anything.
func (r *TokenRefresher) ExchangeCode(ctx context.Context, cred *integration.Credential, code string) (*integration.TokenPair, error) {
	if code == "" {
		return nil, integration.ErrMissingCode
	}
	if cred == nil || cred.ClientID == "" || cred.ClientSecret == "" {
		return nil, integration.NewConfigurationError("client_id", "Client ID and Client Secret are not configured")
	}

	tok, err := r.oauthConfig(cred).Exchange(r.clientContext(ctx), code)
	if err != nil {
		classified := r.classify(err, r.config.TokenURL())
		r.logger.Error("Zoho authorization code exchange failed",
			zap.String("url", r.config.TokenURL()),
			zap.Error(classified))
		return nil, classified
	}

	pair := &integration.TokenPair{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expiryOf(tok),
	}
	if domain, ok := tok.Extra("api_domain").(string); ok {
		pair.APIDomain = domain
	}
	return pair, nil
}

// AuthCodeURL builds the consent URL the operator visits to connect
func (r *TokenRefresher) AuthCodeURL(cred *integration.Credential, state string) (string, error) {
	if cred == nil || cred.ClientID == "" {
		return "", integration.NewConfigurationError("client_id", "Client ID is not configured")
	}
	if cred.RedirectURI == "" {
		return "", integration.NewConfigurationError("redirect_uri", "Redirect URL is not configured")
	}
	return r.oauthConfig(cred).AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

// Revoke invalidates token at the provider
func (r *TokenRefresher) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	form := url.Values{"token": {token}}
	endpoint := r.config.RevokeURL()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("zoho: failed to create revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return &integration.NetworkError{Op: "revoke", URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &integration.HTTPError{Status: resp.StatusCode, Body: string(body), URL: endpoint}
	}
	return nil
}

// ValidAccessToken returns a usable access token. A token near expiry is
// refreshed; when the refresh fails the stored token is returned as-is and
// the provider gets to decide.
func (r *TokenRefresher) ValidAccessToken(ctx context.Context) (string, error) {
	cred, err := r.store.Load(ctx)
	if err != nil {
		return "", err
	}
	if !cred.HasAccessToken() {
		return "", integration.NewConfigurationError("access_token",
			"Access token not available. Please complete OAuth setup first.")
	}
	if cred.AccessTokenFresh(r.now()) {
		return cred.AccessToken, nil
	}

	result := r.Refresh(ctx)
	if result.OK() {
		return result.AccessToken, nil
	}
	r.logger.Warn("Using stored zoho access token after failed refresh", zap.String("reason", result.Message))
	return cred.AccessToken, nil
}

// classify maps oauth2 and transport failures onto the error taxonomy
func (r *TokenRefresher) classify(err error, endpoint string) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		status := http.StatusOK
		if re.Response != nil {
			status = re.Response.StatusCode
		}
		body := string(re.Body)
		if body == "" && re.ErrorCode != "" {
			body = re.ErrorCode
		}
		return &integration.HTTPError{Status: status, Body: body, URL: endpoint}
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return &integration.NetworkError{Op: "token", URL: endpoint, Err: ue.Err}
	}
	return &integration.HTTPError{Status: http.StatusOK, Body: err.Error(), URL: endpoint}
}

func expiryOf(tok *oauth2.Token) *time.Time {
	if tok.Expiry.IsZero() {
		return nil
	}
	expiry := tok.Expiry
	return &expiry
}
