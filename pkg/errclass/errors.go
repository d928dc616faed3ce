// Package errclass defines the stable error classes reported by castkit.
package errclass

import "fmt"

// CastError is a stable, machine-readable error class.
type CastError struct {
	Code    string
	Message string
	Err     error
}

func (e *CastError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any CastError carrying the same code.
func (e *CastError) Is(target error) bool {
	t, ok := target.(*CastError)
	return ok && e.Code == t.Code
}

func (e *CastError) Unwrap() error {
	return e.Err
}

// WithMessage returns a new CastError with the same Code but a specific message.
func (e *CastError) WithMessage(msg string) *CastError {
	return &CastError{Code: e.Code, Message: msg}
}

// WithMessagef returns a new CastError with a formatted message.
func (e *CastError) WithMessagef(format string, args ...any) *CastError {
	return &CastError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a new CastError whose message is the cause's text. The cause
// stays reachable through errors.As.
func (e *CastError) Wrap(err error) *CastError {
	return &CastError{Code: e.Code, Message: err.Error(), Err: err}
}

var (
	ErrEmptyInput         = &CastError{Code: "E_EMPTY_INPUT"}
	ErrUnsupportedVersion = &CastError{Code: "E_UNSUPPORTED_VERSION"}
	ErrInvalidTimeFormat  = &CastError{Code: "E_INVALID_TIME_FORMAT"}
	ErrMissingEventCode   = &CastError{Code: "E_MISSING_EVENT_CODE"}
	ErrDecode             = &CastError{Code: "E_DECODE"}
	ErrConfigInvalid      = &CastError{Code: "E_CONFIG_INVALID"}
)
