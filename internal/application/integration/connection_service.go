package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/zoho"
	"go.uber.org/zap"
)

// OAuthProvider is the OAuth half of the Zoho adapter.
type OAuthProvider interface {
	AuthCodeURL(cred *integration.Credential, state string) (string, error)
	ExchangeCode(ctx context.Context, cred *integration.Credential, code string) (*integration.TokenPair, error)
	Refresh(ctx context.Context) zoho.RefreshResult
	Revoke(ctx context.Context, token string) error
}

// OrganizationLister lists the organizations the access token can reach.
type OrganizationLister interface {
	ListOrganizations(ctx context.Context) ([]integration.RemoteOrganization, error)
}

// OAuthSettings are the operator-supplied OAuth client settings.
type OAuthSettings struct {
	ClientID       string
	ClientSecret   string
	RedirectURI    string
	OrganizationID string
	// Enabled is applied only when set.
	Enabled *bool
}

// ConnectionStatus summarises the stored credential without exposing tokens.
type ConnectionStatus struct {
	Enabled        bool       `json:"enabled"`
	Configured     bool       `json:"configured"`
	Connected      bool       `json:"connected"`
	OrganizationID string     `json:"organization_id,omitempty"`
	ExpiresAt      *time.Time `json:"access_token_expires_at,omitempty"`
}

// CallbackResult reports a completed authorization.
type CallbackResult struct {
	Status    string     `json:"status"`
	Message   string     `json:"message"`
	ExpiresAt *time.Time `json:"access_token_expires_at,omitempty"`
}

// TestConnectionResult lists the reachable organizations.
type TestConnectionResult struct {
	Status         string                           `json:"status"`
	Message        string                           `json:"message"`
	OrganizationID string                           `json:"organization_id"`
	Organizations  []integration.RemoteOrganization `json:"organizations"`
}

// ConnectionServiceImpl manages the connector's OAuth connection.
type ConnectionServiceImpl struct {
	store  integration.CredentialStore
	oauth  OAuthProvider
	orgs   OrganizationLister
	logger *zap.Logger
	now    func() time.Time
}

// NewConnectionService creates a new ConnectionServiceImpl
func NewConnectionService(
	store integration.CredentialStore,
	oauth OAuthProvider,
	orgs OrganizationLister,
	logger *zap.Logger,
) *ConnectionServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnectionServiceImpl{
		store:  store,
		oauth:  oauth,
		orgs:   orgs,
		logger: logger,
		now:    time.Now,
	}
}

// Configure merges non-empty settings into the stored credential and
// validates it. Enabled changes only when the caller sets it. Tokens are
// left untouched.
func (s *ConnectionServiceImpl) Configure(ctx context.Context, settings OAuthSettings) error {
	cred, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if settings.ClientID != "" {
		cred.ClientID = settings.ClientID
	}
	if settings.ClientSecret != "" {
		cred.ClientSecret = settings.ClientSecret
	}
	if settings.RedirectURI != "" {
		cred.RedirectURI = settings.RedirectURI
	}
	if settings.OrganizationID != "" {
		cred.OrganizationID = settings.OrganizationID
	}
	if settings.Enabled != nil {
		cred.Enabled = *settings.Enabled
	}
	if err := cred.Validate(); err != nil {
		return err
	}
	cred.UpdatedAt = s.now()
	return s.store.Save(ctx, cred)
}

// Status reports whether the connector holds usable credentials.
func (s *ConnectionServiceImpl) Status(ctx context.Context) (*ConnectionStatus, error) {
	cred, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &ConnectionStatus{
		Enabled:        cred.Enabled,
		Configured:     cred.ClientID != "" && cred.ClientSecret != "",
		Connected:      cred.HasAccessToken() && cred.RefreshToken != "",
		OrganizationID: cred.OrganizationID,
		ExpiresAt:      cred.AccessTokenExpiresAt,
	}, nil
}

// ---------------------------------------------------------------------------
// OAuth flow
// ---------------------------------------------------------------------------

// AuthorizationURL returns the consent URL the operator visits to connect.
func (s *ConnectionServiceImpl) AuthorizationURL(ctx context.Context) (string, error) {
	cred, err := s.store.Load(ctx)
	if err != nil {
		return "", err
	}
	return s.oauth.AuthCodeURL(cred, uuid.NewString())
}

// HandleCallback completes the authorization-code flow and stores both
// tokens. providerErr is the error parameter Zoho appends on denial.
func (s *ConnectionServiceImpl) HandleCallback(ctx context.Context, code, providerErr string) (*CallbackResult, error) {
	if providerErr != "" {
		return nil, fmt.Errorf("%w: %s", integration.ErrAuthorizationDenied, providerErr)
	}
	if code == "" {
		return nil, integration.ErrMissingCode
	}

	cred, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	pair, err := s.oauth.ExchangeCode(ctx, cred, code)
	if err != nil {
		return nil, err
	}
	if pair.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response carried no access token", integration.ErrInvalidResponse)
	}

	cred.ApplyTokens(*pair, s.now())
	if err := s.store.Save(ctx, cred); err != nil {
		return nil, err
	}
	s.logger.Info("zoho oauth setup completed",
		zap.Bool("refresh_token_issued", pair.RefreshToken != ""),
		zap.String("api_domain", pair.APIDomain),
	)
	return &CallbackResult{
		Status:    "success",
		Message:   "OAuth setup completed successfully",
		ExpiresAt: pair.ExpiresAt,
	}, nil
}

// RefreshAccessToken forces a refresh and fails hard when it does not
// succeed.
func (s *ConnectionServiceImpl) RefreshAccessToken(ctx context.Context) (*zoho.RefreshResult, error) {
	result := s.oauth.Refresh(ctx)
	if !result.OK() {
		return nil, result.Err
	}
	return &result, nil
}

// TestConnection lists organizations with the current token and adopts the
// first one when no organization is configured.
func (s *ConnectionServiceImpl) TestConnection(ctx context.Context) (*TestConnectionResult, error) {
	orgs, err := s.orgs.ListOrganizations(ctx)
	if err != nil {
		s.logger.Error("zoho connection test failed", zap.Error(err))
		return nil, err
	}

	cred, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if cred.OrganizationID == "" && len(orgs) > 0 {
		cred.OrganizationID = orgs[0].OrganizationID
		cred.UpdatedAt = s.now()
		if err := s.store.Save(ctx, cred); err != nil {
			return nil, err
		}
		s.logger.Info("adopted zoho organization", zap.String("organization_id", cred.OrganizationID))
	}

	return &TestConnectionResult{
		Status:         "success",
		Message:        "Connection successful",
		OrganizationID: cred.OrganizationID,
		Organizations:  orgs,
	}, nil
}

// Disconnect revokes the refresh token at Zoho and forgets both tokens. The
// local tokens are cleared even when revocation fails.
func (s *ConnectionServiceImpl) Disconnect(ctx context.Context) error {
	cred, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	token := cred.RefreshToken
	if token == "" {
		token = cred.AccessToken
	}
	if err := s.oauth.Revoke(ctx, token); err != nil {
		s.logger.Warn("zoho token revocation failed", zap.Error(err))
	}
	cred.ClearTokens(s.now())
	return s.store.Save(ctx, cred)
}
