package zoho

import (
	"strings"
	"time"
)

const (
	// DefaultAccountsURL is the OAuth server of the .com data center
	DefaultAccountsURL = "https://accounts.zoho.com"
	// DefaultAPIBaseURL is the Books v3 API of the .com data center
	DefaultAPIBaseURL = "https://www.zohoapis.com/books/v3"
	// DefaultScope grants full Books access
	DefaultScope = "ZohoBooks.fullaccess.all"

	// OrganizationHeader scopes every API call to a tenant
	OrganizationHeader = "X-com-zoho-books-organizationid"

	tokenPath  = "/oauth/v2/token"
	authPath   = "/oauth/v2/auth"
	revokePath = "/oauth/v2/token/revoke"

	// maxResponseSize bounds how much of a response body is read
	maxResponseSize = 10 * 1024 * 1024
	// maxLoggedBody bounds how much of a body is written to logs
	maxLoggedBody = 500
)

// Config holds the Zoho Books endpoints and transport settings
type Config struct {
	// AccountsURL is the OAuth server, e.g. https://accounts.zoho.eu
	AccountsURL string
	// APIBaseURL is the Books API root, e.g. https://www.zohoapis.eu/books/v3
	APIBaseURL string
	// Scope requested during authorization
	Scope string
	// Timeout bounds each outbound HTTP call
	Timeout time.Duration
}

// Validate fills in defaults
func (c *Config) Validate() error {
	if c.AccountsURL == "" {
		c.AccountsURL = DefaultAccountsURL
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if c.Scope == "" {
		c.Scope = DefaultScope
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	c.AccountsURL = strings.TrimRight(c.AccountsURL, "/")
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	return nil
}

// TokenURL is the token endpoint
func (c *Config) TokenURL() string {
	return c.AccountsURL + tokenPath
}

// AuthURL is the authorization endpoint
func (c *Config) AuthURL() string {
	return c.AccountsURL + authPath
}

// RevokeURL is the token revocation endpoint
func (c *Config) RevokeURL() string {
	return c.AccountsURL + revokePath
}
