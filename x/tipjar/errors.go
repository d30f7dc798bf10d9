package tipjar

import "github.com/iov-one/tipjar/errors"

var (
	// ErrZeroAmount is returned when a tip does not carry any value.
	ErrZeroAmount = errors.Register(1500, "zero amount")

	// ErrNothingToWithdraw is returned when the custody wallet of a jar is
	// empty.
	ErrNothingToWithdraw = errors.Register(1501, "nothing to withdraw")

	// ErrAllocation is returned when a jar cannot be created.
	ErrAllocation = errors.Register(1502, "cannot allocate jar")

	// ErrTransferFailed is returned when moving value failed.
	ErrTransferFailed = errors.Register(1503, "transfer failed")
)
