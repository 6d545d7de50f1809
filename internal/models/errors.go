package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the catalog, booking and promo services.
// Handlers map these to HTTP statuses and user-facing messages; anything
// not matching one of them is a transient store failure.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("experience not found")
	ErrInvalidSlot    = errors.New("invalid slot")
	ErrSlotsExhausted = errors.New("not enough slots left")
)

// ErrPricingMismatch is a specialization of ErrInvalidRequest raised when
// caller-supplied totals disagree with the server-side recomputation.
var ErrPricingMismatch = fmt.Errorf("%w: pricing mismatch", ErrInvalidRequest)
