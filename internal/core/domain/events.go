package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType names an auction lifecycle event published for indexers and audit logs.
type EventType string

const (
	EventAuctionOpened    EventType = "AuctionOpened"
	EventBidAccepted      EventType = "BidAccepted"
	EventAuctionSettled   EventType = "AuctionSettled"
	EventAuctionCancelled EventType = "AuctionCancelled"
	EventSettlementFailed EventType = "SettlementFailed"
)

// AuctionEvent is the payload published for every lifecycle event. Bidder
// is set for BidAccepted, Winner for AuctionSettled; Amount for both.
type AuctionEvent struct {
	Type       EventType        `json:"type"`
	AuctionID  AuctionID        `json:"auctionID"`
	Bidder     string           `json:"bidder,omitempty"`
	Winner     string           `json:"winner,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	OccurredAt time.Time        `json:"occurredAt"`
}

func NewAuctionOpened(id AuctionID, at time.Time) AuctionEvent {
	return AuctionEvent{Type: EventAuctionOpened, AuctionID: id, OccurredAt: at}
}

func NewBidAccepted(id AuctionID, bidder string, amount decimal.Decimal, at time.Time) AuctionEvent {
	return AuctionEvent{Type: EventBidAccepted, AuctionID: id, Bidder: bidder, Amount: &amount, OccurredAt: at}
}

func NewAuctionSettled(id AuctionID, winner string, amount decimal.Decimal, at time.Time) AuctionEvent {
	return AuctionEvent{Type: EventAuctionSettled, AuctionID: id, Winner: winner, Amount: &amount, OccurredAt: at}
}

func NewAuctionCancelled(id AuctionID, at time.Time) AuctionEvent {
	return AuctionEvent{Type: EventAuctionCancelled, AuctionID: id, OccurredAt: at}
}

func NewSettlementFailed(id AuctionID, at time.Time) AuctionEvent {
	return AuctionEvent{Type: EventSettlementFailed, AuctionID: id, OccurredAt: at}
}
