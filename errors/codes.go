package errors

// Root errors shared by all extensions. Codes below 100 are reserved for this
// package, extensions register their own from 1000 up.
var (
	// ErrUnauthorized is returned when a required signature is missing.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is returned when requested data does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned for a message that cannot be handled.
	ErrMsg = Register(4, "invalid message")

	// ErrModel is returned for an entity that cannot be persisted.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when a unique key or index is taken.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman is returned from code paths that are unreachable unless
	// there is a programming mistake.
	ErrHuman = Register(7, "coding error")

	// ErrEmpty is returned when a required value is missing.
	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned when an entity is not in the state an operation
	// requires.
	ErrState = Register(10, "invalid state")

	// ErrType is returned when a value is not of the expected type.
	ErrType = Register(11, "invalid type")

	// ErrAmount is returned for an unacceptable coin amount.
	ErrAmount = Register(13, "invalid amount")

	// ErrInput is returned for malformed input.
	ErrInput = Register(14, "invalid input")

	// ErrOverflow is returned when a result does not fit its type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrDatabase is returned when a storage backend fails.
	ErrDatabase = Register(18, "database")

	// ErrIteratorDone is returned by an iterator that has no more elements.
	ErrIteratorDone = Register(19, "iterator done")

	// ErrPanic is the result of a recovered panic. Its details are never
	// exposed to clients.
	ErrPanic = Register(111222, "panic")
)
