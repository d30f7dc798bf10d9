package cash

import "github.com/iov-one/tipjar/errors"

var (
	// ErrInsufficientFunds is returned when a wallet cannot fund a transfer.
	ErrInsufficientFunds = errors.Register(1100, "insufficient funds")
)
