package errors

import "errors"

var (
	// ErrNetwork marks a request to a feed backend that could not complete
	// or came back with a non-success status.
	ErrNetwork = errors.New("feed request failed")
	// ErrParse marks a feed backend response that was not valid JSON or
	// did not have the expected shape.
	ErrParse = errors.New("feed response could not be parsed")

	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrDetached        = errors.New("controller is not attached")
	ErrAlreadyAttached = errors.New("controller is already attached")
)
