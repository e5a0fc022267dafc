package ledger

import "errors"

var (
	// ErrInvalidQuantity rejects a refill or sale carrying a negative unit
	// count. The whole transaction is refused before any stock math runs.
	ErrInvalidQuantity = errors.New("invalid quantity: unit counts must be non-negative integers")

	// ErrInsufficientStock is returned by ApplySale only when strict stock
	// checking is enabled. The default policy floors stock at zero instead.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidStatus rejects an unknown payment status value.
	ErrInvalidStatus = errors.New("invalid payment status")

	// ErrNegativeAmount rejects a negative amount received.
	ErrNegativeAmount = errors.New("amount received must be non-negative")
)
