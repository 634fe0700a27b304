package core

import "errors"

var (
	// Period construction and parsing.
	ErrInvalidMonth  = errors.New("invalid month")
	ErrInvalidFormat = errors.New("invalid period format")
	ErrInvalidRange  = errors.New("invalid period range: start after end")

	// Money construction and arithmetic.
	ErrPrecisionLoss = errors.New("amount has more than two fractional digits")
	ErrOverflow      = errors.New("money arithmetic overflow")
	ErrInvalidRate   = errors.New("rate must be non-negative")

	// Classification.
	ErrMissingParty  = errors.New("journal entry is missing a required party id")
	ErrMissingAmount = errors.New("journal entry is missing a required amount")

	// Accrual.
	ErrMissingTaxParameters = errors.New("no tax parameters for period")

	// Store and directory lookups.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)
