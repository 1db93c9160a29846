// Package apperr defines the error kinds shared by the clients, the clip services and the CLI.
//
// Errors are wrapped with fmt.Errorf("%w: ...") so callers classify them with errors.Is.
package apperr

import (
	"errors"
)

var (
	// ErrConfig covers bad flags, malformed credential files and invalid requests.
	ErrConfig = errors.New("config error")
	// ErrAuth is returned when the client credentials exchange fails.
	ErrAuth = errors.New("auth error")
	// ErrAPI is a transport failure or a non-2xx API response.
	ErrAPI = errors.New("api error")
	// ErrParse is a malformed API payload.
	ErrParse = errors.New("parse error")
	// ErrNotFound is returned when the API has no record for the requested clip or user.
	ErrNotFound = errors.New("not found")
	// ErrDerivation is returned when a source URL cannot be derived from a thumbnail URL.
	ErrDerivation = errors.New("derivation error")
	// ErrIO is a local filesystem failure.
	ErrIO = errors.New("io error")
	// ErrBatchFailed marks a run that completed but had at least one failed item.
	ErrBatchFailed = errors.New("one or more clips failed")
)

