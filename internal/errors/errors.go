package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

const (
	// Authentication & Authorization
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeInvalidToken  ErrorCode = "INVALID_TOKEN"
	ErrCodeWrongPassword ErrorCode = "WRONG_PASSWORD"

	// Validation
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrCodeMissingRequired   ErrorCode = "MISSING_REQUIRED"
	ErrCodeMissingParameters ErrorCode = "MISSING_PARAMETERS"
	ErrCodeParse             ErrorCode = "PARSE_ERROR"
	ErrCodeBodyDeserialize   ErrorCode = "BODY_DESERIALIZE"

	// Resource
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeRouteNotFound ErrorCode = "ROUTE_NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Request size
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"

	// Rate Limiting
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"

	// Moderation
	ErrCodeModerationClient    ErrorCode = "MODERATION_CLIENT_ERROR"
	ErrCodeModerationServer    ErrorCode = "MODERATION_SERVER_ERROR"
	ErrCodeModerationTransport ErrorCode = "MODERATION_TRANSPORT_ERROR"
	ErrCodeExternal            ErrorCode = "EXTERNAL_API_ERROR"

	// Internal
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabase ErrorCode = "DATABASE_ERROR"
)

// Upstream carries the status and message returned by a failing third-party
// call. It is kept out of the JSON response.
type Upstream struct {
	Status  int
	Message string
}

func (u Upstream) String() string {
	return fmt.Sprintf("status: %d, message: %s", u.Status, u.Message)
}

// AppError is a structured error that can be returned to clients
type AppError struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	Details  any       `json:"details,omitempty"`
	upstream *Upstream
	cause    error
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.upstream != nil {
		msg += fmt.Sprintf(" (upstream %s)", e.upstream)
	}
	if e.cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.cause
}

// Upstream returns the third-party failure payload, if any.
func (e *AppError) Upstream() (Upstream, bool) {
	if e.upstream == nil {
		return Upstream{}, false
	}
	return *e.upstream, true
}

// WithCause adds a cause to the error
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common error constructors

func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return New(ErrCodeForbidden, message)
}

func InvalidToken(message string) *AppError {
	return New(ErrCodeInvalidToken, message)
}

func WrongPassword() *AppError {
	return New(ErrCodeWrongPassword, "Incorrect credentials")
}

func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func AlreadyExists(resource string) *AppError {
	return New(ErrCodeAlreadyExists, fmt.Sprintf("%s already exists", resource))
}

func ValidationError(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func InvalidInput(field string, reason string) *AppError {
	return New(ErrCodeInvalidInput, fmt.Sprintf("Invalid %s: %s", field, reason))
}

func MissingRequired(field string) *AppError {
	return New(ErrCodeMissingRequired, fmt.Sprintf("%s is required", field))
}

func MissingParameters() *AppError {
	return New(ErrCodeMissingParameters, "Missing parameters")
}

// ParseError reports a query parameter that is not a valid number.
func ParseError(param string, cause error) *AppError {
	return Wrap(ErrCodeParse, fmt.Sprintf("Cannot parse parameter: %s", param), cause).
		WithDetails(map[string]string{"parameter": param})
}

func BodyDeserialize(cause error) *AppError {
	return Wrap(ErrCodeBodyDeserialize, "Bad parameters", cause)
}

func PayloadTooLarge(limit int64) *AppError {
	return New(ErrCodePayloadTooLarge, "Request body too large").
		WithDetails(map[string]int64{"max_bytes": limit})
}

func RateLimitExceeded() *AppError {
	return New(ErrCodeRateLimitExceeded, "Rate limit exceeded")
}

// Moderation failures never expose the vendor's message to API clients.
const moderationPublicMessage = "Internal server error"

func ModerationClient(status int, message string) *AppError {
	return &AppError{
		Code:     ErrCodeModerationClient,
		Message:  moderationPublicMessage,
		upstream: &Upstream{Status: status, Message: message},
	}
}

func ModerationServer(status int, message string) *AppError {
	return &AppError{
		Code:     ErrCodeModerationServer,
		Message:  moderationPublicMessage,
		upstream: &Upstream{Status: status, Message: message},
	}
}

func ModerationTransport(cause error) *AppError {
	return Wrap(ErrCodeModerationTransport, moderationPublicMessage, cause)
}

func External(service string, cause error) *AppError {
	return Wrap(ErrCodeExternal, moderationPublicMessage, fmt.Errorf("%s: %w", service, cause))
}

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

func Database(cause error) *AppError {
	return Wrap(ErrCodeDatabase, "Database error", cause)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetCode returns the error code if the error is an AppError, otherwise returns ErrCodeInternal
func GetCode(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// IsModeration reports whether err came from the moderation pipeline.
func IsModeration(err error) bool {
	switch GetCode(err) {
	case ErrCodeModerationClient, ErrCodeModerationServer, ErrCodeModerationTransport, ErrCodeExternal:
		return true
	}
	return false
}
