package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/sett_auction/internal/core/domain"
)

// AuctionReader defines read operations for auction data
type AuctionReader interface {
	// FindAuctionByID retrieves an auction by its identifier. Returns apperrors.ErrNotFound if absent.
	FindAuctionByID(ctx context.Context, id domain.AuctionID) (*domain.Auction, error)

	// ListAuctions returns auctions matching filter in ascending AuctionID order,
	// starting after afterID when it is non-zero.
	ListAuctions(ctx context.Context, filter domain.AuctionFilter, afterID domain.AuctionID, limit int) ([]domain.Auction, error)

	// LastAuctionStart returns the latest start time of any auction ever created
	// for the currency, including auctions deleted since. Returns
	// apperrors.ErrNotFound if none was.
	LastAuctionStart(ctx context.Context, currency string) (time.Time, error)
}

// AuctionWriter defines write operations for auction data
type AuctionWriter interface {
	// CreateAuction persists a new auction and returns the assigned identifier.
	CreateAuction(ctx context.Context, auction domain.Auction) (domain.AuctionID, error)

	// UpdateAuction persists auction if its Version still matches the stored one
	// and increments the stored version. Returns domain.ErrStaleAuction otherwise.
	UpdateAuction(ctx context.Context, auction domain.Auction) error

	// DeleteAuction removes an auction and its bid history. The currency's
	// LastAuctionStart is left as it was.
	DeleteAuction(ctx context.Context, id domain.AuctionID) error
}

// BidRepository defines operations on an auction's bid history
type BidRepository interface {
	// SaveBid records an accepted bid and persists the updated auction (best bid,
	// end time) in one unit, subject to the same version check as UpdateAuction.
	SaveBid(ctx context.Context, bid domain.Bid, auction domain.Auction) error

	// FindBidsByAuctionID returns accepted bids in submission order.
	FindBidsByAuctionID(ctx context.Context, id domain.AuctionID) ([]domain.Bid, error)
}

// AuctionRepositoryFacade combines all auction-related repository interfaces
type AuctionRepositoryFacade interface {
	AuctionReader
	AuctionWriter
	BidRepository
}
