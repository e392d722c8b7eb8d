package domain

import (
	"fmt"

	"github.com/SscSPs/sett_auction/internal/apperrors"
)

// Validation errors. No state is mutated when one of these is returned and
// the caller may resubmit.
var (
	ErrBidTooLow         = fmt.Errorf("%w: bid does not improve on the current best bid", apperrors.ErrValidation)
	ErrInsufficientFunds = fmt.Errorf("%w: insufficient funds", apperrors.ErrValidation)
	ErrAuctionNotOpen    = fmt.Errorf("%w: auction is not open", apperrors.ErrValidation)
	ErrExpired           = fmt.Errorf("%w: auction has expired", apperrors.ErrValidation)
)

// Lifecycle errors. These are caller errors and are never retried.
var (
	ErrNotFound          = apperrors.ErrNotFound
	ErrValidation        = apperrors.ErrValidation
	ErrInvalidDuration   = fmt.Errorf("%w: auction duration must be positive", apperrors.ErrValidation)
	ErrAlreadyClosed     = fmt.Errorf("%w: auction is already closed", apperrors.ErrConflict)
	ErrAuctionNotExpired = fmt.Errorf("%w: auction has not reached its end time", apperrors.ErrConflict)
	ErrInvalidTransition = fmt.Errorf("%w: invalid auction status transition", apperrors.ErrConflict)
	ErrStaleAuction      = fmt.Errorf("%w: auction was modified concurrently", apperrors.ErrConflict)
)

// Settlement errors.
var (
	ErrTransferFailed       = fmt.Errorf("%w: currency transfer failed", apperrors.ErrConflict)
	ErrSettlementInProgress = fmt.Errorf("%w: settlement already in progress", apperrors.ErrConflict)
	ErrLockHeld             = fmt.Errorf("%w: lock already held", apperrors.ErrConflict)
)
