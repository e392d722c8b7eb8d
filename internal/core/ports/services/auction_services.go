package services

import (
	"context"
	"time"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	"github.com/SscSPs/sett_auction/internal/dto"
)

// AuctionReaderSvc defines read operations for auctions
type AuctionReaderSvc interface {
	// Get retrieves an auction by ID.
	Get(ctx context.Context, id domain.AuctionID) (*domain.Auction, error)

	// List retrieves a page of auctions.
	List(ctx context.Context, params dto.ListAuctionsParams) (*dto.ListAuctionsResponse, error)

	// ListBids retrieves the accepted bid history of an auction.
	ListBids(ctx context.Context, id domain.AuctionID) ([]domain.Bid, error)
}

// AuctionWriterSvc defines lifecycle operations for auctions
type AuctionWriterSvc interface {
	// Create opens a new auction.
	Create(ctx context.Context, req dto.CreateAuctionRequest, creatorUserID string) (domain.AuctionID, error)

	// RecordBid stores an accepted bid as the auction's new best bid.
	RecordBid(ctx context.Context, id domain.AuctionID, bid domain.Bid) (*domain.Auction, error)

	// MarkClosing moves an auction into CLOSING and counts a settlement attempt.
	MarkClosing(ctx context.Context, id domain.AuctionID) (*domain.Auction, error)

	// Close moves an auction into the terminal status carried by outcome.
	Close(ctx context.Context, id domain.AuctionID, outcome domain.SettlementOutcome) (*domain.Auction, error)

	// Remove deletes a terminal auction.
	Remove(ctx context.Context, id domain.AuctionID) error
}

// AuctionLedgerSvcFacade combines all auction ledger operations
type AuctionLedgerSvcFacade interface {
	AuctionReaderSvc
	AuctionWriterSvc
}

// BidValidatorSvc decides whether a candidate bid may be accepted
type BidValidatorSvc interface {
	Validate(ctx context.Context, auction domain.Auction, candidate domain.Bid) error
}

// BidSvc places bids end to end: validation, reservation, recording.
type BidSvc interface {
	PlaceBid(ctx context.Context, id domain.AuctionID, req dto.PlaceBidRequest, bidderAccountID string) (*domain.Bid, error)
}

// SettlementSvc closes expired auctions.
type SettlementSvc interface {
	// Settle determines the outcome of an expired auction. Calling it again on a
	// closed auction returns the recorded outcome without moving funds.
	Settle(ctx context.Context, id domain.AuctionID) (*domain.SettlementOutcome, error)
}

// BlockProcessorSvc settles due auctions in a deterministic order.
type BlockProcessorSvc interface {
	ProcessBlock(ctx context.Context) (*domain.BlockReport, error)

	// Run processes a block every interval until ctx is cancelled.
	Run(ctx context.Context, interval time.Duration) error
}
