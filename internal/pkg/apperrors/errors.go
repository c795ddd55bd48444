package apperrors

import "errors"

// Error kinds. Every error leaving the service layer wraps exactly one of these.
var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrResourceNotFound   = errors.New("resource not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStore              = errors.New("store failure")
	ErrPermissionDenied   = errors.New("permission denied")
)

// Token errors
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
)

// Record lookup errors returned by the stores. They wrap ErrResourceNotFound.
var (
	ErrUserNotFound         = NewCustomError(ErrResourceNotFound, "user not found")
	ErrPlayerNotFound       = NewCustomError(ErrResourceNotFound, "player not found")
	ErrCoachNotFound        = NewCustomError(ErrResourceNotFound, "coach not found")
	ErrRegistrationNotFound = NewCustomError(ErrResourceNotFound, "registration not found")
	ErrCategoryNotFound     = NewCustomError(ErrResourceNotFound, "category not found")
)

// Uniqueness errors returned by the stores. They wrap ErrConflict.
var (
	ErrEmailAlreadyExists    = NewCustomError(ErrConflict, "email already exists")
	ErrPlayerAlreadyClaimed  = NewCustomError(ErrConflict, "player already has an account")
	ErrCategoryAlreadyExists = NewCustomError(ErrConflict, "category already exists")
	ErrClaimInProgress       = NewCustomError(ErrConflict, "another claim for this email is in progress")
)

// Error codes carried in API responses
const (
	CodeValidation        = "VAL_001"
	CodeNotFound          = "RES_001"
	CodeConflict          = "RES_004"
	CodeLinkConflict      = "RES_005"
	CodeAccountExists     = "RES_006"
	CodeInvalidCredential = "AUTH_001"
	CodeTokenInvalid      = "AUTH_002"
	CodeTokenExpired      = "AUTH_003"
	CodeForbidden         = "AUTH_004"
	CodeInternal          = "SRV_001"
	CodeStore             = "SRV_002"
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// NewValidationError reports a malformed or incomplete request
func NewValidationError(message string) *CustomError {
	return NewCustomError(ErrValidationFailed, message).WithCode(CodeValidation)
}

// NewNotFoundError reports that no operational record matches the claim
func NewNotFoundError(message string) *CustomError {
	return NewCustomError(ErrResourceNotFound, message).WithCode(CodeNotFound)
}

// NewConflictError reports an existing account or a link pointing elsewhere
func NewConflictError(message string) *CustomError {
	return NewCustomError(ErrConflict, message).WithCode(CodeConflict)
}

// NewStoreError wraps a persistence failure. The cause is kept for logs only.
func NewStoreError(cause error) *CustomError {
	return &CustomError{
		Err:     errors.Join(ErrStore, cause),
		Message: "internal storage error",
		Code:    CodeStore,
	}
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// Code returns the most specific error code found in the chain
func Code(err error) string {
	var ce *CustomError
	for errors.As(err, &ce) {
		if ce.Code != "" {
			return ce.Code
		}
		err = ce.Err
		if err == nil {
			break
		}
	}
	return ""
}

// Message returns the first user-facing message in the chain
func Message(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	return ""
}
