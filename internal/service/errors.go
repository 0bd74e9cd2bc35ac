package service

import "errors"

// Sentinel domain errors. Handlers map each kind to a distinct HTTP status;
// services wrap them with context via fmt.Errorf("...: %w", Err...) so both
// errors.Is matching and a human-readable detail survive.
var (
	// ErrNotFound — missing order, detail, or inventory item.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition — status cascade rule violated (skip, reversion,
	// same-status, or leaving Completed).
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInsufficientStock — remove exceeds on-hand.
	ErrInsufficientStock = errors.New("not enough items in inventory")

	// ErrInvalidArgument — non-positive quantity, unknown status literal,
	// malformed date, or a BOM edge that would close a cycle.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrBOMCycle — explosion depth guard tripped; the BOM graph has a cycle
	// (or is pathologically deep). The whole transaction is rolled back.
	ErrBOMCycle = errors.New("bill of materials cycle detected")

	// ErrUnauthorized — login with unknown email or wrong password. The
	// message is identical for both cases.
	ErrUnauthorized = errors.New("invalid credentials")
)
