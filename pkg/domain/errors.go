package domain

import "errors"

// ErrUnknownAction is returned when a request names an action that is not registered.
var ErrUnknownAction = errors.New("unknown action")

// ErrInvalidArguments is returned when the arguments of a request cannot be decoded.
var ErrInvalidArguments = errors.New("invalid arguments")

// ErrMissingCredential is returned at startup when no provider API key is configured.
var ErrMissingCredential = errors.New("provider API key is not set")
