package sigs

import "github.com/iov-one/tipjar/errors"

var (
	// ErrInvalidSequence is returned when a signature nonce does not match
	// the expected value.
	ErrInvalidSequence = errors.Register(120, "invalid sequence number")
)
