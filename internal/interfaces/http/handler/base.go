package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/itsyosefali/zoho-integration/internal/infrastructure/logger"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/scheduler"
	"github.com/itsyosefali/zoho-integration/internal/interfaces/http/dto"
	"github.com/itsyosefali/zoho-integration/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Accepted sends a 202 accepted response
func (h *BaseHandler) Accepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts connector and domain errors to HTTP responses.
// Unknown errors are logged and answered with a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	if errors.Is(err, scheduler.ErrSyncAlreadyInProgress) {
		h.ErrorWithCode(c, dto.ErrCodeSyncInProgress, err.Error())
		return
	}
	if errors.Is(err, scheduler.ErrUnknownEntity) {
		h.ErrorWithCode(c, dto.ErrCodeNotFound, err.Error())
		return
	}
	if code, ok := dto.IntegrationErrorCode(err); ok {
		h.ErrorWithCode(c, code, err.Error())
		return
	}

	logger.FromContext(c.Request.Context()).Error("unhandled request error", zap.Error(err))
	h.InternalError(c, "An unexpected error occurred")
}
