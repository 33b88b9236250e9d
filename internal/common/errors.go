package common

import (
	"github.com/cockroachdb/errors"
)

// ErrTransient marks failures that are worth retrying: network problems,
// rate limits and server side errors of a remote API.
// Anything not marked is considered fatal.
var ErrTransient = errors.New("transient failure")

// Mark the error as transient
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, ErrTransient)
}

func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// Classify an HTTP status code received from a remote API.
// Rate limits and server errors are transient, everything else is fatal
func StatusError(statusCode int, err error) error {
	if statusCode == RATE_LIMIT_EXCEEDED || statusCode >= INTERNAL_SERVER_ERROR {
		return Transient(err)
	}
	return err
}
