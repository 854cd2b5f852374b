package fediapi

import (
	"errors"
	"fmt"
)

var (
	// ErrHTTPStatus is wrapped by every StatusError.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrDecode reports a response body that is not the expected JSON.
	ErrDecode = errors.New("cannot decode response")

	// ErrInvalidHandle reports a user handle that is not @name or @name@host.
	ErrInvalidHandle = errors.New("invalid user handle")
)

// StatusError is returned for non-2xx responses other than 429.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.URL, e.Code)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.URL, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrHTTPStatus }
