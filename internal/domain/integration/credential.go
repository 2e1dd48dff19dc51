package integration

import (
	"context"
	"time"
)

// Credential is the OAuth state of the connector. It is loaded from a
// CredentialStore, mutated by the token refresher, and saved back; callers
// pass it explicitly rather than reading process-wide state.
type Credential struct {
	ClientID             string
	ClientSecret         string
	RedirectURI          string
	AccessToken          string
	RefreshToken         string
	AccessTokenExpiresAt *time.Time
	OrganizationID       string
	Enabled              bool
	UpdatedAt            time.Time
}

// expiryLeeway is how early an access token is treated as expired.
const expiryLeeway = 5 * time.Minute

// HasAccessToken reports whether an access token was ever issued.
func (c *Credential) HasAccessToken() bool {
	return c != nil && c.AccessToken != ""
}

// AccessTokenFresh reports whether the access token can be used at now
// without a refresh. A token without a recorded expiry counts as fresh; if
// it has lapsed, the 401 retry in the executor refreshes it.
func (c *Credential) AccessTokenFresh(now time.Time) bool {
	if !c.HasAccessToken() {
		return false
	}
	if c.AccessTokenExpiresAt == nil {
		return true
	}
	return now.Add(expiryLeeway).Before(*c.AccessTokenExpiresAt)
}

// CanRefresh checks the fields a refresh_token grant needs.
func (c *Credential) CanRefresh() error {
	switch {
	case c == nil:
		return NewConfigurationError("", "credentials not configured")
	case c.RefreshToken == "":
		return NewConfigurationError("refresh_token", "refresh token not available")
	case c.ClientID == "":
		return NewConfigurationError("client_id", "client id not configured")
	case c.ClientSecret == "":
		return NewConfigurationError("client_secret", "client secret not configured")
	}
	return nil
}

// Validate enforces the OAuth settings an enabled integration must have.
func (c *Credential) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.ClientID == "" {
		return NewConfigurationError("client_id", "Client ID is required when integration is enabled")
	}
	if c.ClientSecret == "" {
		return NewConfigurationError("client_secret", "Client Secret is required when integration is enabled")
	}
	if c.RedirectURI == "" {
		return NewConfigurationError("redirect_uri", "Redirect URL is required when integration is enabled")
	}
	return nil
}

// ApplyTokens stores a token pair from an authorization-code exchange.
func (c *Credential) ApplyTokens(pair TokenPair, now time.Time) {
	c.AccessToken = pair.AccessToken
	if pair.RefreshToken != "" {
		c.RefreshToken = pair.RefreshToken
	}
	c.AccessTokenExpiresAt = pair.ExpiresAt
	c.UpdatedAt = now
}

// ApplyRefreshedAccessToken stores the result of a refresh_token grant. The
// refresh token is kept as-is.
func (c *Credential) ApplyRefreshedAccessToken(accessToken string, expiresAt *time.Time, now time.Time) {
	c.AccessToken = accessToken
	c.AccessTokenExpiresAt = expiresAt
	c.UpdatedAt = now
}

// ClearTokens forgets both tokens after a revocation.
func (c *Credential) ClearTokens(now time.Time) {
	c.AccessToken = ""
	c.RefreshToken = ""
	c.AccessTokenExpiresAt = nil
	c.UpdatedAt = now
}

// TokenPair is the provider's answer to an authorization-code exchange.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
	APIDomain    string
}

// CredentialStore persists the singleton credential record.
type CredentialStore interface {
	// Load returns the stored credential, or an empty credential if none was
	// saved yet.
	Load(ctx context.Context) (*Credential, error)
	Save(ctx context.Context, cred *Credential) error
}
