package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	integrationapp "github.com/itsyosefali/zoho-integration/internal/application/integration"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/zoho"
	"github.com/itsyosefali/zoho-integration/internal/interfaces/http/dto"
)

// ConnectionService is the OAuth connection use case
type ConnectionService interface {
	Configure(ctx context.Context, settings integrationapp.OAuthSettings) error
	Status(ctx context.Context) (*integrationapp.ConnectionStatus, error)
	AuthorizationURL(ctx context.Context) (string, error)
	HandleCallback(ctx context.Context, code, providerErr string) (*integrationapp.CallbackResult, error)
	RefreshAccessToken(ctx context.Context) (*zoho.RefreshResult, error)
	TestConnection(ctx context.Context) (*integrationapp.TestConnectionResult, error)
	Disconnect(ctx context.Context) error
}

// ZohoConnectionHandler serves the OAuth flow and connection management
type ZohoConnectionHandler struct {
	BaseHandler
	service ConnectionService
}

// NewZohoConnectionHandler creates a new ZohoConnectionHandler
func NewZohoConnectionHandler(service ConnectionService) *ZohoConnectionHandler {
	return &ZohoConnectionHandler{service: service}
}

// Callback godoc
//
//	@ID				callbackZohoConnection
//	@Summary		Complete Zoho OAuth
//	@Description	Exchange the authorization code Zoho redirected with for tokens. Called by the browser, no authentication.
//	@Tags			zoho-connection
//	@Produce		json
//	@Param			code	query		string	false	"Authorization code"
//	@Param			error	query		string	false	"Provider error"
//	@Success		200		{object}	dto.Response
//	@Failure		400		{object}	dto.Response
//	@Router			/zoho/oauth/callback [get]
func (h *ZohoConnectionHandler) Callback(c *gin.Context) {
	result, err := h.service.HandleCallback(c.Request.Context(), c.Query("code"), c.Query("error"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AuthorizationURL godoc
//
//	@ID				authorizationURLZohoConnection
//	@Summary		Get Zoho consent URL
//	@Description	Build the URL that starts the authorization-code flow
//	@Tags			zoho-connection
//	@Produce		json
//	@Success		200	{object}	dto.Response{data=dto.AuthorizationURLResponse}
//	@Router			/zoho/oauth/authorize-url [get]
func (h *ZohoConnectionHandler) AuthorizationURL(c *gin.Context) {
	url, err := h.service.AuthorizationURL(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.AuthorizationURLResponse{AuthorizationURL: url})
}

// Refresh godoc
//
//	@ID				refreshZohoConnection
//	@Summary		Refresh access token
//	@Description	Force a token refresh. Fails when Zoho does not issue a new token.
//	@Tags			zoho-connection
//	@Produce		json
//	@Success		200	{object}	dto.Response{data=dto.RefreshResponse}
//	@Failure		502	{object}	dto.Response
//	@Router			/zoho/oauth/refresh [post]
func (h *ZohoConnectionHandler) Refresh(c *gin.Context) {
	result, err := h.service.RefreshAccessToken(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.RefreshResponse{Status: string(result.Status), Message: result.Message})
}

// Status godoc
//
//	@ID				statusZohoConnection
//	@Summary		Get connection status
//	@Description	Report whether the connector is configured and connected
//	@Tags			zoho-connection
//	@Produce		json
//	@Success		200	{object}	dto.Response
//	@Router			/zoho/connection [get]
func (h *ZohoConnectionHandler) Status(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// Configure godoc
//
//	@ID				configureZohoConnection
//	@Summary		Configure connection
//	@Description	Store OAuth client settings. Empty fields keep their stored value.
//	@Tags			zoho-connection
//	@Produce		json
//	@Param			request	body		dto.ConfigureConnectionRequest	true	"OAuth settings"
//	@Success		200		{object}	dto.Response
//	@Failure		400		{object}	dto.Response
//	@Router			/zoho/connection [put]
func (h *ZohoConnectionHandler) Configure(c *gin.Context) {
	var req dto.ConfigureConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	err := h.service.Configure(c.Request.Context(), integrationapp.OAuthSettings{
		ClientID:       req.ClientID,
		ClientSecret:   req.ClientSecret,
		RedirectURI:    req.RedirectURI,
		OrganizationID: req.OrganizationID,
		Enabled:        req.Enabled,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Status(c)
}

// Test godoc
//
//	@ID				testZohoConnection
//	@Summary		Test connection
//	@Description	List the organizations reachable with the stored token and adopt the first one when none is set
//	@Tags			zoho-connection
//	@Produce		json
//	@Success		200	{object}	dto.Response
//	@Failure		412	{object}	dto.Response
//	@Router			/zoho/connection/test [post]
func (h *ZohoConnectionHandler) Test(c *gin.Context) {
	result, err := h.service.TestConnection(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Disconnect godoc
//
//	@ID				disconnectZohoConnection
//	@Summary		Disconnect
//	@Description	Revoke the refresh token at Zoho and forget both tokens
//	@Tags			zoho-connection
//	@Produce		json
//	@Success		204
//	@Router			/zoho/connection [delete]
func (h *ZohoConnectionHandler) Disconnect(c *gin.Context) {
	if err := h.service.Disconnect(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
