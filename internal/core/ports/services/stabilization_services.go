package services

import (
	"context"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	"github.com/SscSPs/sett_auction/internal/dto"
)

// StabilizationControllerSvc is the pure issuance policy.
type StabilizationControllerSvc interface {
	// Evaluate returns the auction to open for deviation, or nil.
	Evaluate(deviation domain.PegDeviation, state domain.CurrencyAuctionState) *domain.AuctionRequest
}

// StabilizationSchedulerSvc feeds observations to the controller and opens
// the auctions it asks for.
type StabilizationSchedulerSvc interface {
	Observe(ctx context.Context, deviation domain.PegDeviation, userID string) (*dto.ObservationResponse, error)
}
