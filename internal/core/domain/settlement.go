package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transfer is one leg of a settlement instruction handed to the currency ledger.
type Transfer struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	FromReserved bool            `json:"fromReserved"` // debit the sender's reserved balance
}

// SettlementOutcome is the recorded result of closing an auction.
type SettlementOutcome struct {
	AuctionID   AuctionID       `json:"auctionID"`
	Status      AuctionStatus   `json:"status"`
	Winner      string          `json:"winner,omitempty"`
	BidAmount   decimal.Decimal `json:"bidAmount"`
	AssetAmount decimal.Decimal `json:"assetAmount"`
	Transfers   []Transfer      `json:"transfers,omitempty"`
	SettledAt   time.Time       `json:"settledAt"`
}

// SettlementReference is the idempotency key the ledger uses to recognise a
// settlement instruction it has already applied.
func SettlementReference(id AuctionID) string {
	return fmt.Sprintf("auction-%d", id)
}

// SettlementTransfers builds the two legs of the asset-for-currency exchange.
// The caller must ensure a.BestBid is set.
func SettlementTransfers(a Auction) []Transfer {
	return []Transfer{
		{
			From:     a.IssuerAccountID,
			To:       a.BestBid.BidderAccountID,
			Currency: a.AssetCurrency,
			Amount:   a.AssetAmount,
		},
		{
			From:         a.BestBid.BidderAccountID,
			To:           a.IssuerAccountID,
			Currency:     a.BidCurrency,
			Amount:       a.BestBid.Amount,
			FromReserved: true,
		},
	}
}

// BlockReport summarises one pass of the block processor.
type BlockReport struct {
	ProcessedAt time.Time            `json:"processedAt"`
	Outcomes    []SettlementOutcome  `json:"outcomes"`
	Failures    map[AuctionID]string `json:"failures,omitempty"`
}
