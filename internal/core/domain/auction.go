package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// AuctionID identifies an auction. IDs are assigned in strictly increasing order.
type AuctionID uint64

func (id AuctionID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseAuctionID parses the decimal form produced by AuctionID.String.
func ParseAuctionID(s string) (AuctionID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: invalid auction id %q", ErrNotFound, s)
	}
	return AuctionID(v), nil
}

// AuctionStatus is the lifecycle state of an auction.
type AuctionStatus string

const (
	AuctionOpen             AuctionStatus = "OPEN"
	AuctionClosing          AuctionStatus = "CLOSING"
	AuctionSettled          AuctionStatus = "SETTLED"
	AuctionCancelled        AuctionStatus = "CANCELLED"
	AuctionSettlementFailed AuctionStatus = "SETTLEMENT_FAILED"
)

// IsTerminal reports whether no further transition is allowed.
func (s AuctionStatus) IsTerminal() bool {
	switch s {
	case AuctionSettled, AuctionCancelled, AuctionSettlementFailed:
		return true
	}
	return false
}

// Valid reports whether s is one of the known statuses.
func (s AuctionStatus) Valid() bool {
	switch s {
	case AuctionOpen, AuctionClosing, AuctionSettled, AuctionCancelled, AuctionSettlementFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether s -> next is a legal lifecycle step.
//
//	OPEN    -> CLOSING | SETTLED | CANCELLED
//	CLOSING -> SETTLED | CANCELLED | SETTLEMENT_FAILED
func (s AuctionStatus) CanTransitionTo(next AuctionStatus) bool {
	switch s {
	case AuctionOpen:
		return next == AuctionClosing || next == AuctionSettled || next == AuctionCancelled
	case AuctionClosing:
		return next == AuctionSettled || next == AuctionCancelled || next == AuctionSettlementFailed
	}
	return false
}

// BestBid is the highest accepted bid on an auction.
type BestBid struct {
	BidderAccountID string          `json:"bidderAccountID"`
	Amount          decimal.Decimal `json:"amount"`
	SubmittedAt     time.Time       `json:"submittedAt"`
}

// Auction sells AssetAmount of AssetCurrency for BidCurrency. The issuer
// dispenses the asset and receives the winning bid.
type Auction struct {
	AuctionID          AuctionID          `json:"auctionID"`
	AssetCurrency      string             `json:"assetCurrency"`
	AssetAmount        decimal.Decimal    `json:"assetAmount"`
	BidCurrency        string             `json:"bidCurrency"`
	ReservePrice       decimal.Decimal    `json:"reservePrice"`
	IssuerAccountID    string             `json:"issuerAccountID"`
	StartTime          time.Time          `json:"startTime"`
	EndTime            time.Time          `json:"endTime"`
	Status             AuctionStatus      `json:"status"`
	BestBid            *BestBid           `json:"bestBid,omitempty"`
	SettlementAttempts int                `json:"settlementAttempts"`
	Outcome            *SettlementOutcome `json:"outcome,omitempty"`
	Version            int64              `json:"version"` // optimistic concurrency token
	AuditFields
}

// Validate checks the structural invariants of a new auction.
func (a *Auction) Validate() error {
	if !a.EndTime.After(a.StartTime) {
		return ErrInvalidDuration
	}
	if a.AssetCurrency == "" || a.BidCurrency == "" {
		return fmt.Errorf("%w: asset and bid currencies are required", ErrValidation)
	}
	if a.AssetCurrency == a.BidCurrency {
		return fmt.Errorf("%w: asset and bid currencies must differ", ErrValidation)
	}
	if !a.AssetAmount.IsPositive() {
		return fmt.Errorf("%w: asset amount must be positive", ErrValidation)
	}
	if a.ReservePrice.IsNegative() {
		return fmt.Errorf("%w: reserve price must not be negative", ErrValidation)
	}
	if a.IssuerAccountID == "" {
		return fmt.Errorf("%w: issuer account is required", ErrValidation)
	}
	return nil
}

// AcceptsBidsAt returns nil if a bid submitted at now may be recorded.
func (a *Auction) AcceptsBidsAt(now time.Time) error {
	if a.Status != AuctionOpen || now.Before(a.StartTime) {
		return fmt.Errorf("%w: auction %s status %s", ErrAuctionNotOpen, a.AuctionID, a.Status)
	}
	if !now.Before(a.EndTime) {
		return fmt.Errorf("%w: auction %s ended at %s", ErrExpired, a.AuctionID, a.EndTime.Format(time.RFC3339))
	}
	return nil
}

// IsExpiredAt reports whether the bidding window has closed at now.
func (a *Auction) IsExpiredAt(now time.Time) bool {
	return !now.Before(a.EndTime)
}

// TransitionTo moves the auction to next, enforcing monotonic lifecycle rules.
func (a *Auction) TransitionTo(next AuctionStatus) error {
	if a.Status.IsTerminal() {
		return fmt.Errorf("%w: auction %s is %s", ErrAlreadyClosed, a.AuctionID, a.Status)
	}
	if !a.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, next)
	}
	a.Status = next
	return nil
}

// ApplyBid makes bid the best bid and, when extension is positive and the bid
// lands inside the final extension window, pushes the end time out so the
// auction always runs for at least extension after the latest bid.
// It returns true if the end time moved.
func (a *Auction) ApplyBid(bid Bid, extension time.Duration) bool {
	a.BestBid = &BestBid{
		BidderAccountID: bid.BidderAccountID,
		Amount:          bid.Amount,
		SubmittedAt:     bid.SubmittedAt,
	}
	if extension <= 0 {
		return false
	}
	extended := bid.SubmittedAt.Add(extension)
	if extended.After(a.EndTime) {
		a.EndTime = extended
		return true
	}
	return false
}

// AuctionFilter narrows auction listings. Zero values match everything.
type AuctionFilter struct {
	Statuses       []AuctionStatus
	AssetCurrency  string
	EndsAtOrBefore *time.Time
}

// Matches reports whether a satisfies the filter.
func (f AuctionFilter) Matches(a Auction) bool {
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if a.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.AssetCurrency != "" && a.AssetCurrency != f.AssetCurrency {
		return false
	}
	if f.EndsAtOrBefore != nil && a.EndTime.After(*f.EndsAtOrBefore) {
		return false
	}
	return true
}
