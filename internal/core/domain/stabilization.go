package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PegDeviation is one observation of the stable currency's market price
// against its target.
type PegDeviation struct {
	Currency    string          `json:"currency"`
	MarketPrice decimal.Decimal `json:"marketPrice"`
	TargetPrice decimal.Decimal `json:"targetPrice"`
	Supply      decimal.Decimal `json:"supply"`
	ObservedAt  time.Time       `json:"observedAt"`
}

// Ratio returns (market - target) / target. TargetPrice must be positive.
func (d PegDeviation) Ratio() decimal.Decimal {
	return d.MarketPrice.Sub(d.TargetPrice).Div(d.TargetPrice)
}

// AuctionDirection says whether an auction expands or contracts supply.
type AuctionDirection string

const (
	// Expansion sells newly issued stable currency for reserve currency (price above peg).
	Expansion AuctionDirection = "EXPANSION"
	// Contraction sells reserve currency for stable currency (price below peg).
	Contraction AuctionDirection = "CONTRACTION"
)

// AuctionRequest describes an auction the scheduler should open.
type AuctionRequest struct {
	Direction     AuctionDirection `json:"direction"`
	AssetCurrency string           `json:"assetCurrency"`
	BidCurrency   string           `json:"bidCurrency"`
	AssetAmount   decimal.Decimal  `json:"assetAmount"`
	Duration      time.Duration    `json:"duration"`
	ReservePrice  decimal.Decimal  `json:"reservePrice"`
}

// CurrencyAuctionState is the auction history the controller needs for its
// cool-down rule.
type CurrencyAuctionState struct {
	HasOpenAuction   bool
	LastAuctionStart *time.Time
}
