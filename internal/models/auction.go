package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Auction is a row of the auctions table. The best bid is flattened into
// nullable columns and the settlement outcome is stored as JSONB.
type Auction struct {
	AuctionID          int64               `db:"auction_id"`
	AssetCurrency      string              `db:"asset_currency"`
	AssetAmount        decimal.Decimal     `db:"asset_amount"`
	BidCurrency        string              `db:"bid_currency"`
	ReservePrice       decimal.Decimal     `db:"reserve_price"`
	IssuerAccountID    string              `db:"issuer_account_id"`
	StartTime          time.Time           `db:"start_time"`
	EndTime            time.Time           `db:"end_time"`
	Status             string              `db:"status"`
	BestBidderID       *string             `db:"best_bidder_account_id"`
	BestBidAmount      decimal.NullDecimal `db:"best_bid_amount"`
	BestBidAt          *time.Time          `db:"best_bid_at"`
	SettlementAttempts int                 `db:"settlement_attempts"`
	Outcome            []byte              `db:"outcome"`
	Version            int64               `db:"version"`
	AuditFields
}

// Bid is a row of the bids table.
type Bid struct {
	BidID           string          `db:"bid_id"`
	AuctionID       int64           `db:"auction_id"`
	BidderAccountID string          `db:"bidder_account_id"`
	Amount          decimal.Decimal `db:"amount"`
	Currency        string          `db:"currency"`
	SubmittedAt     time.Time       `db:"submitted_at"`
}

// LedgerBalance is a row of the ledger_balances table.
type LedgerBalance struct {
	AccountID string          `db:"account_id"`
	Currency  string          `db:"currency"`
	Free      decimal.Decimal `db:"free"`
	Reserved  decimal.Decimal `db:"reserved"`
}
