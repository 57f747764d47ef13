package provider

import "fmt"

// ProviderErrorType represents the type of provider error.
type ProviderErrorType int

const (
	// ProviderFetchFailed indicates the template could not be fetched.
	ProviderFetchFailed ProviderErrorType = iota
	// ProviderNotFound indicates the project or template was not found.
	ProviderNotFound
	// ProviderAuthFailed indicates authentication or authorization failed.
	ProviderAuthFailed
	// ProviderTimeout indicates the operation timed out.
	ProviderTimeout
	// ProviderInvalidResponse indicates the store returned an unreadable response.
	ProviderInvalidResponse
	// ProviderPublishFailed indicates publishing failed for a reason other than
	// validation or a stale etag.
	ProviderPublishFailed
	// ProviderInvalidCredentials indicates the credentials file could not be used.
	ProviderInvalidCredentials
)

// String returns the string representation of the error type.
func (t ProviderErrorType) String() string {
	switch t {
	case ProviderFetchFailed:
		return "FetchFailed"
	case ProviderNotFound:
		return "NotFound"
	case ProviderAuthFailed:
		return "AuthFailed"
	case ProviderTimeout:
		return "Timeout"
	case ProviderInvalidResponse:
		return "InvalidResponse"
	case ProviderPublishFailed:
		return "PublishFailed"
	case ProviderInvalidCredentials:
		return "InvalidCredentials"
	default:
		return "Unknown"
	}
}

// ProviderError represents a provider-specific error.
type ProviderError struct {
	// Type is the error type classification.
	Type ProviderErrorType
	// Message is the human-readable error message.
	Message string
	// Provider is the provider name (e.g., "firebase").
	Provider string
	// Project is the project the request targeted.
	Project string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s provider error [%s] for project '%s': %s (caused by: %v)",
			e.Provider, e.Type.String(), e.Project, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s provider error [%s] for project '%s': %s",
		e.Provider, e.Type.String(), e.Project, e.Message)
}

// Unwrap returns the underlying cause for error wrapping.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new ProviderError.
func NewProviderError(typ ProviderErrorType, provider, project, message string, cause error) *ProviderError {
	return &ProviderError{
		Type:     typ,
		Message:  message,
		Provider: provider,
		Project:  project,
		Cause:    cause,
	}
}

// SchemaValidationError reports a template the store rejected as invalid.
// Message is the store's explanation, verbatim.
type SchemaValidationError struct {
	// Status is the HTTP status code.
	Status int
	// Message is the store's error message.
	Message string
}

// Error implements the error interface.
func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("template rejected by remote validation: %s", e.Message)
}

// ConcurrencyConflictError reports a publish rejected because the etag is stale:
// the remote template changed after it was fetched.
type ConcurrencyConflictError struct {
	// ETag is the token that was submitted.
	ETag string
	// Status is the HTTP status code.
	Status int
	// Message is the store's error message.
	Message string
}

// Error implements the error interface.
func (e *ConcurrencyConflictError) Error() string {
	msg := fmt.Sprintf("remote template changed since it was fetched (etag %s)", e.ETag)
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	return msg + "; re-run the command to diff against the latest version"
}
