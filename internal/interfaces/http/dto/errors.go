package dto

import (
	"errors"
	"net/http"

	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/domain/shared"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// Integration error codes
const (
	// ErrCodeNotConnected is used when no usable credential is stored
	ErrCodeNotConnected = "ERR_INTEGRATION_NOT_CONNECTED"
	// ErrCodeIntegrationDisabled is used when the connector is switched off
	ErrCodeIntegrationDisabled = "ERR_INTEGRATION_DISABLED"
	// ErrCodeConfiguration is used for missing or invalid connector settings
	ErrCodeConfiguration = "ERR_INTEGRATION_CONFIGURATION"
	// ErrCodeAuthorizationDenied is used when the OAuth consent was refused
	ErrCodeAuthorizationDenied = "ERR_INTEGRATION_AUTHORIZATION_DENIED"
	// ErrCodeUpstream is used when Zoho Books answered with an error
	ErrCodeUpstream = "ERR_INTEGRATION_UPSTREAM"
	// ErrCodeUpstreamUnavailable is used when Zoho Books could not be reached
	ErrCodeUpstreamUnavailable = "ERR_INTEGRATION_UPSTREAM_UNAVAILABLE"
	// ErrCodeSyncInProgress is used when a run for the same entity is active
	ErrCodeSyncInProgress = "ERR_INTEGRATION_SYNC_IN_PROGRESS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeNotConnected:        http.StatusPreconditionFailed,
	ErrCodeIntegrationDisabled: http.StatusPreconditionFailed,
	ErrCodeConfiguration:       http.StatusBadRequest,
	ErrCodeAuthorizationDenied: http.StatusBadRequest,
	ErrCodeUpstream:            http.StatusBadGateway,
	ErrCodeUpstreamUnavailable: http.StatusServiceUnavailable,
	ErrCodeSyncInProgress:      http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to standardized codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"UPSTREAM_UNAVAILABLE": ErrCodeUpstreamUnavailable,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}

// IntegrationErrorCode maps the connector's error taxonomy to an error code.
// ok is false for errors outside the taxonomy.
func IntegrationErrorCode(err error) (code string, ok bool) {
	var (
		configErr     *integration.ConfigurationError
		httpErr       *integration.HTTPError
		networkErr    *integration.NetworkError
		validationErr *integration.ValidationError
		conflict      *integration.ReconciliationConflict
	)
	switch {
	case errors.Is(err, integration.ErrNotConnected):
		return ErrCodeNotConnected, true
	case errors.Is(err, integration.ErrIntegrationDisabled):
		return ErrCodeIntegrationDisabled, true
	case errors.Is(err, integration.ErrAuthorizationDenied):
		return ErrCodeAuthorizationDenied, true
	case errors.Is(err, integration.ErrMissingCode):
		return ErrCodeValidationRequired, true
	case errors.Is(err, integration.ErrInvoiceNotFound):
		return ErrCodeNotFound, true
	case errors.Is(err, integration.ErrInvoiceNotSubmitted):
		return ErrCodeInvalidState, true
	case errors.Is(err, integration.ErrNoOrganization):
		return ErrCodeConfiguration, true
	case errors.As(err, &configErr):
		return ErrCodeConfiguration, true
	case errors.As(err, &validationErr):
		return ErrCodeValidation, true
	case errors.As(err, &conflict):
		return ErrCodeConflict, true
	case errors.As(err, &networkErr):
		return ErrCodeUpstreamUnavailable, true
	case errors.As(err, &httpErr), errors.Is(err, integration.ErrInvalidResponse),
		errors.Is(err, integration.ErrContactUnresolved):
		return ErrCodeUpstream, true
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return NormalizeErrorCode(domainErr.Code), true
	}
	return "", false
}
