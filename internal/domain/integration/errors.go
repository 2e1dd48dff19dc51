package integration

import (
	"errors"
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrNotConnected        = errors.New("integration: zoho books is not connected")
	ErrIntegrationDisabled = errors.New("integration: zoho books integration is disabled")
	ErrInvalidResponse     = errors.New("integration: invalid zoho books response")
	ErrAuthorizationDenied = errors.New("integration: authorization denied by provider")
	ErrMissingCode         = errors.New("integration: authorization code missing")
	ErrNoOrganization      = errors.New("integration: no organization available for this account")
	ErrInvoiceNotFound     = errors.New("integration: sales invoice not found")
	ErrInvoiceNotSubmitted = errors.New("integration: sales invoice is not submitted")
	ErrContactUnresolved   = errors.New("integration: could not find or create zoho contact")
)

// ---------------------------------------------------------------------------
// Error taxonomy
// ---------------------------------------------------------------------------

// ConfigurationError reports missing credentials or organization settings.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "integration: configuration error: " + e.Message
	}
	return fmt.Sprintf("integration: configuration error: %s: %s", e.Field, e.Message)
}

// NewConfigurationError creates a ConfigurationError for field.
func NewConfigurationError(field, message string) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: message}
}

// HTTPError is a non-success answer from the provider.
type HTTPError struct {
	Status int
	Body   string
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("integration: zoho books returned HTTP %d: %s", e.Status, Truncate(e.Body, 300))
}

// IsUnauthorized reports whether the provider rejected the access token.
func (e *HTTPError) IsUnauthorized() bool {
	return e.Status == 401
}

// NetworkError is a transport failure: timeout, DNS, connection reset.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("integration: network error during %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError reports an unsupported method or a missing required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "integration: validation error: " + e.Message
	}
	return fmt.Sprintf("integration: validation error: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ReconciliationConflict is an ambiguous match between a remote record and
// local records.
type ReconciliationConflict struct {
	ExternalID  string
	DisplayName string
	Reason      string
}

func (e *ReconciliationConflict) Error() string {
	return fmt.Sprintf("integration: reconciliation conflict for %q (%s): %s",
		e.DisplayName, e.ExternalID, e.Reason)
}

// ---------------------------------------------------------------------------
// Classification
// ---------------------------------------------------------------------------

// ErrorKind is the user-facing category of a per-record failure.
type ErrorKind string

const (
	ErrorKindMissingField ErrorKind = "missing_required_field"
	ErrorKindDuplicate    ErrorKind = "duplicate"
	ErrorKindUOM          ErrorKind = "unit_of_measure"
	ErrorKindOther        ErrorKind = "other"
)

// ClassifyError assigns a per-record failure to an ErrorKind.
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return ErrorKindOther
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ErrorKindMissingField
	}
	var rc *ReconciliationConflict
	if errors.As(err, &rc) {
		return ErrorKindDuplicate
	}
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "stock_uom") || strings.Contains(msg, "UOM"):
		return ErrorKindUOM
	case strings.Contains(lower, "required"):
		return ErrorKindMissingField
	case strings.Contains(lower, "duplicate"):
		return ErrorKindDuplicate
	default:
		return ErrorKindOther
	}
}

// DescribeRecordError renders the message shown to users for a failed record.
func DescribeRecordError(entity, name string, err error) string {
	switch ClassifyError(err) {
	case ErrorKindMissingField:
		return fmt.Sprintf("Error with %s %s: Required field missing - %v", entity, name, err)
	case ErrorKindDuplicate:
		return fmt.Sprintf("Error with %s %s: Duplicate entry - %v", entity, name, err)
	case ErrorKindUOM:
		return fmt.Sprintf("Error with %s %s: Unit of Measure issue - %v", entity, name, err)
	default:
		return fmt.Sprintf("Error with %s %s: %v", entity, name, err)
	}
}

// Truncate shortens s to at most n bytes for logging.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
