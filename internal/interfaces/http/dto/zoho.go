package dto

import (
	"time"

	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
)

// SyncRequest is the body of a customer or item pull sync. All fields are
// optional; zero values fall back to the connector settings.
type SyncRequest struct {
	Page         int     `json:"page" form:"page" binding:"omitempty,min=1"`
	PerPage      int     `json:"per_page" form:"per_page" binding:"omitempty,min=1,max=200"`
	OnlyNew      *bool   `json:"only_new" form:"only_new"`
	SyncFromDate *string `json:"sync_from_date" form:"sync_from_date" binding:"omitempty,datetime=2006-01-02"`
}

// ToDomain converts the request. only_new defaults to true.
func (r SyncRequest) ToDomain() integration.SyncRequest {
	req := integration.SyncRequest{
		Page:    r.Page,
		PerPage: r.PerPage,
		OnlyNew: true,
	}
	if r.OnlyNew != nil {
		req.OnlyNew = *r.OnlyNew
	}
	if r.SyncFromDate != nil && *r.SyncFromDate != "" {
		// Format already checked by the binding tag.
		if t, err := time.Parse(time.DateOnly, *r.SyncFromDate); err == nil {
			req.SyncFromDate = &t
		}
	}
	return req
}

// SyncResponse is the result of one synced page.
type SyncResponse struct {
	*integration.SyncRunResult
	Message string `json:"message"`
}

// NewSyncResponse wraps a run result with its operator summary.
func NewSyncResponse(result *integration.SyncRunResult) SyncResponse {
	return SyncResponse{SyncRunResult: result, Message: result.Message()}
}

// ConfigureConnectionRequest updates the OAuth client settings. Empty
// strings and an omitted enabled flag leave the stored value unchanged.
type ConfigureConnectionRequest struct {
	ClientID       string `json:"client_id" binding:"omitempty,max=200"`
	ClientSecret   string `json:"client_secret" binding:"omitempty,max=200"`
	RedirectURI    string `json:"redirect_uri" binding:"omitempty,url"`
	OrganizationID string `json:"organization_id" binding:"omitempty,numeric"`
	Enabled        *bool  `json:"enabled,omitempty"`
}

// AuthorizationURLResponse carries the Zoho consent URL.
type AuthorizationURLResponse struct {
	AuthorizationURL string `json:"authorization_url"`
}

// RefreshResponse reports a forced token refresh. The token itself is never
// returned.
type RefreshResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// RunSyncJobRequest triggers an immediate scheduled job.
type RunSyncJobRequest struct {
	OnlyNew *bool `json:"only_new"`
}

// SyncJobQuery filters the scheduler history.
type SyncJobQuery struct {
	Entity string `form:"entity" binding:"omitempty,oneof=customer item"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}
