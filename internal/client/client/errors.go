package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Match them with errors.Is on any error returned by Client.
var (
	ErrNetwork          = errors.New("network error")
	ErrBadRequest       = errors.New("bad request")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrServer           = errors.New("server error")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrEmptyResponse    = errors.New("empty response")
	ErrDecode           = errors.New("decode error")
)

// APIError is the concrete error returned by HTTPClient. Kind is one of the
// sentinels above; Err is the underlying cause, if any. StatusCode and Body
// are set whenever a response was received.
type APIError struct {
	Kind       error
	StatusCode int
	Body       []byte
	Err        error
}

func (e *APIError) Error() string {
	msg := e.Kind.Error()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// mapStatus returns the error kind for a non-2xx status, or nil for 2xx.
func mapStatus(code int) error {
	switch {
	case code >= 200 && code <= 299:
		return nil
	case code == http.StatusBadRequest:
		return ErrBadRequest
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500 && code <= 599:
		return ErrServer
	default:
		return ErrUnexpectedStatus
	}
}

// Message returns the text shown to the user for err. Errors that did not
// come from the client get their own Error() text.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNetwork):
		return "Network error, check your connection"
	case errors.Is(err, ErrBadRequest):
		return "Bad request"
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, ErrForbidden):
		return "Forbidden"
	case errors.Is(err, ErrNotFound):
		return "Resource not found"
	case errors.Is(err, ErrServer):
		return "Server error"
	case errors.Is(err, ErrUnexpectedStatus):
		return "Unexpected error"
	case errors.Is(err, ErrEmptyResponse):
		return "No data received"
	case errors.Is(err, ErrDecode):
		return "Invalid response from server"
	default:
		return err.Error()
	}
}
