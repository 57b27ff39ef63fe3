package service

import (
	"errors"

	"github.com/samidev/credit-service/internal/repository"
)

// Business-rule errors surfaced to the transport layer. They are
// rejections, not transient faults, and are never retried internally.
var (
	// ErrValidation reports invalid loan or payment parameters.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound reports an unknown customer or loan id.
	ErrNotFound = repository.ErrNotFound
	// ErrInsufficientCredit reports a failed credit capacity check.
	ErrInsufficientCredit = errors.New("insufficient credit limit")
	// ErrInvalidState reports a ledger mutation that would violate the
	// used-credit-limit invariant.
	ErrInvalidState = errors.New("invalid ledger state")
)
