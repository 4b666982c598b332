package domain

import "errors"

var (
	// Common domain errors
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrMalformedPayload   = errors.New("malformed webhook payload")
	ErrMissingCredentials = errors.New("missing channel credentials")
)
