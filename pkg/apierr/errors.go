package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds returned by provider clients
var (
	ErrAuth       = errors.New("authentication failed")
	ErrPermission = errors.New("permission denied")
	ErrRateLimit  = errors.New("rate limit exceeded")
	ErrProvider   = errors.New("provider error")
	ErrNetwork    = errors.New("network error")
	ErrParse      = errors.New("parse error")
)

// Error describes a classified provider failure
type Error struct {
	Provider string
	Kind     error // one of the Err* sentinels
	Status   int   // HTTP status, 0 when no response was received
	Message  string
	Err      error // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (%d)", msg, e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is/As
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// New builds a classified error
func New(provider string, kind error, msg string) *Error {
	return &Error{Provider: provider, Kind: kind, Message: msg}
}

// Wrap builds a classified error around a cause
func Wrap(provider string, kind error, err error) *Error {
	return &Error{Provider: provider, Kind: kind, Err: err}
}

// FromStatus maps a non-success HTTP status onto an error kind
func FromStatus(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrAuth
	case http.StatusForbidden:
		return ErrPermission
	case http.StatusTooManyRequests:
		return ErrRateLimit
	default:
		return ErrProvider
	}
}

// KindOf reports the kind of err, or nil when err is not classified
func KindOf(err error) error {
	for _, kind := range []error{ErrAuth, ErrPermission, ErrRateLimit, ErrNetwork, ErrParse, ErrProvider} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Label returns a short metric/log friendly name for the kind of err
func Label(err error) string {
	switch KindOf(err) {
	case ErrAuth:
		return "auth"
	case ErrPermission:
		return "permission"
	case ErrRateLimit:
		return "rate_limit"
	case ErrNetwork:
		return "network"
	case ErrParse:
		return "parse"
	case ErrProvider:
		return "provider"
	default:
		return "unknown"
	}
}
