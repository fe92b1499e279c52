package api

import (
	"errors"
	"fmt"
)

// NetworkError wraps a transport failure or a response the client could
// not interpret (including 5xx bodies).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError means the server rejected the credentials or the session
// token (HTTP 401).
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string {
	if e.Detail == "" {
		return "authentication failed"
	}
	return e.Detail
}

// ValidationError is a server-validated business rule violation (e.g.
// duplicate username, unknown friend). Detail carries the server's
// human-readable message verbatim.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return "request rejected"
	}
	return e.Detail
}

// IsAuth reports whether err is (or wraps) an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Detail extracts the server-provided message from an error, falling back
// to the given default when there is none.
func Detail(err error, fallback string) string {
	var ae *AuthError
	if errors.As(err, &ae) && ae.Detail != "" {
		return ae.Detail
	}
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Detail != "" {
		return ve.Detail
	}
	return fallback
}
