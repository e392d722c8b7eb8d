package dto

import (
	"time"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PlaceBidRequest defines the data needed to bid on an auction. The bidder is
// the authenticated caller.
type PlaceBidRequest struct {
	Amount   decimal.Decimal `json:"amount" swaggertype:"string"`
	Currency string          `json:"currency" binding:"required,uppercase"`
}

// BidResponse defines the data returned for an accepted bid.
type BidResponse struct {
	BidID           string           `json:"bidID"`
	AuctionID       domain.AuctionID `json:"auctionID"`
	BidderAccountID string           `json:"bidderAccountID"`
	Amount          decimal.Decimal  `json:"amount" swaggertype:"string"`
	Currency        string           `json:"currency"`
	SubmittedAt     time.Time        `json:"submittedAt"`
}

// ToBidResponse converts a domain.Bid to BidResponse DTO.
func ToBidResponse(b *domain.Bid) BidResponse {
	return BidResponse{
		BidID:           b.BidID,
		AuctionID:       b.AuctionID,
		BidderAccountID: b.BidderAccountID,
		Amount:          b.Amount,
		Currency:        b.Currency,
		SubmittedAt:     b.SubmittedAt,
	}
}

// ToBidResponses converts a slice of domain.Bid to []BidResponse.
func ToBidResponses(bids []domain.Bid) []BidResponse {
	res := make([]BidResponse, len(bids))
	for i := range bids {
		res[i] = ToBidResponse(&bids[i])
	}
	return res
}
