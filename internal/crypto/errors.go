package crypto

import "errors"

var (
	// ErrInvalidKey reports a malformed public or private key.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidInput reports a missing or empty message.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidSignature reports a signature of the wrong shape.
	ErrInvalidSignature = errors.New("invalid signature")
)
