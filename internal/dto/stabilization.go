package dto

import (
	"time"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PegObservationRequest reports the market price of the stable currency.
// It is also the message format of the peg price topic.
type PegObservationRequest struct {
	Currency    string          `json:"currency" binding:"required,uppercase"`
	MarketPrice decimal.Decimal `json:"marketPrice" binding:"gte=0" swaggertype:"string"`
	TargetPrice decimal.Decimal `json:"targetPrice" swaggertype:"string"`
	Supply      decimal.Decimal `json:"supply" binding:"gte=0" swaggertype:"string"`
	ObservedAt  *time.Time      `json:"observedAt,omitempty"`
}

// ToPegDeviation converts the request, stamping now when ObservedAt is unset.
func (r PegObservationRequest) ToPegDeviation(now time.Time) domain.PegDeviation {
	observedAt := now
	if r.ObservedAt != nil {
		observedAt = *r.ObservedAt
	}
	return domain.PegDeviation{
		Currency:    r.Currency,
		MarketPrice: r.MarketPrice,
		TargetPrice: r.TargetPrice,
		Supply:      r.Supply,
		ObservedAt:  observedAt,
	}
}

// ObservationResponse reports what the controller decided for an observation.
type ObservationResponse struct {
	Request   *domain.AuctionRequest `json:"request,omitempty"`
	AuctionID *domain.AuctionID      `json:"auctionID,omitempty"`
}
