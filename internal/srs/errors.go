package srs

import "errors"

// Sentinel errors for the srs package.
// Use errors.Is to check: errors.Is(err, srs.ErrUnknownState)
var (
	// ErrUnknownState is returned when a card carries a scheduler state
	// outside the known enum. Such cards are never coerced into a default
	// bucket; mastery would silently display wrong.
	ErrUnknownState = errors.New("srs: unknown scheduler state")

	// ErrNoStatus is returned when synthesis is asked to build a card for
	// "no classification". Deletion is reconciliation's job, not synthesis'.
	ErrNoStatus = errors.New("srs: cannot synthesize card without a status")
)
