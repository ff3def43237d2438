package usecase

import "errors"

var (
	ErrForbidden          = errors.New("administrator privileges required")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrSessionInvalid     = errors.New("session is invalid or expired")

	ErrSuggestionInvalid  = errors.New("invalid suggestion")
	ErrSuggestionNotFound = errors.New("suggestion not found")
	ErrNotPending         = errors.New("suggestion is not pending")

	ErrContentInvalid  = errors.New("invalid content")
	ErrContentNotFound = errors.New("content not found")
	ErrUploadInvalid   = errors.New("invalid upload")
	ErrUploadDisabled  = errors.New("asset storage is not configured")

	ErrLeadInvalid       = errors.New("invalid lead")
	ErrAlreadyRegistered = errors.New("email already registered")
	ErrLeadRetry         = errors.New("lead could not be stored")
)

// ValidationError carries a message meant for the person filling the form.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error, field, message string) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}
