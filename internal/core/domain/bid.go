package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid is an offer of Amount units of the auction's bid currency.
// Only accepted bids are persisted.
type Bid struct {
	BidID           string          `json:"bidID"`
	AuctionID       AuctionID       `json:"auctionID"`
	BidderAccountID string          `json:"bidderAccountID"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	SubmittedAt     time.Time       `json:"submittedAt"`
}
