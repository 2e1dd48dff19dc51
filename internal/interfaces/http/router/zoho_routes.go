package router

import (
	"github.com/gin-gonic/gin"

	"github.com/itsyosefali/zoho-integration/internal/interfaces/http/handler"
)

// ZohoRoutes registers the connector endpoints under /zoho
type ZohoRoutes struct {
	connection *handler.ZohoConnectionHandler
	sync       *handler.ZohoSyncHandler
}

// NewZohoRoutes creates the /zoho route registrar
func NewZohoRoutes(connection *handler.ZohoConnectionHandler, sync *handler.ZohoSyncHandler) *ZohoRoutes {
	return &ZohoRoutes{connection: connection, sync: sync}
}

// RegisterRoutes implements RouteRegistrar
func (r *ZohoRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	zoho := rg.Group("/zoho")

	oauth := zoho.Group("/oauth")
	oauth.GET("/callback", r.connection.Callback)
	oauth.GET("/authorize-url", r.connection.AuthorizationURL)
	oauth.POST("/refresh", r.connection.Refresh)

	connection := zoho.Group("/connection")
	connection.GET("", r.connection.Status)
	connection.PUT("", r.connection.Configure)
	connection.DELETE("", r.connection.Disconnect)
	connection.POST("/test", r.connection.Test)

	sync := zoho.Group("/sync")
	sync.POST("/customers", r.sync.SyncCustomers)
	sync.POST("/items", r.sync.SyncItems)
	sync.GET("/jobs", r.sync.ListJobs)
	sync.POST("/jobs/:entity", r.sync.RunJob)

	zoho.POST("/invoices/:id/push", r.sync.PushInvoice)
}
