package ledger

import "errors"

var (
	// ErrMissingID is returned when a transaction has no ID
	ErrMissingID = errors.New("transaction id is required")

	// ErrInvalidType is returned for unknown transaction types
	ErrInvalidType = errors.New("invalid transaction type")

	// ErrMissingSymbol is returned when a transaction has no symbol
	ErrMissingSymbol = errors.New("transaction symbol is required")

	// ErrInvalidDate is returned when a transaction date cannot be parsed
	ErrInvalidDate = errors.New("invalid transaction date")

	// ErrNotFound is returned when a transaction does not exist in the ledger
	ErrNotFound = errors.New("transaction not found")

	// ErrDuplicateID is returned when appending a transaction whose ID is taken
	ErrDuplicateID = errors.New("transaction id already exists")
)
