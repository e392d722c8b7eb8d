// Package memory provides in-process implementations of the repository
// ports. They back the service when no database is configured and are used
// throughout the tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	portsrepo "github.com/SscSPs/sett_auction/internal/core/ports/repositories"
)

type auctionRepository struct {
	mu       sync.RWMutex
	lastID   domain.AuctionID
	auctions map[domain.AuctionID]domain.Auction
	bids     map[domain.AuctionID][]domain.Bid
	starts   map[string]time.Time // latest start per asset currency, kept across deletes
}

// NewAuctionRepository returns an empty in-memory auction store.
func NewAuctionRepository() portsrepo.AuctionRepositoryFacade {
	return &auctionRepository{
		auctions: make(map[domain.AuctionID]domain.Auction),
		bids:     make(map[domain.AuctionID][]domain.Bid),
		starts:   make(map[string]time.Time),
	}
}

// clone copies the pointer fields so callers never share state with the store.
func clone(a domain.Auction) domain.Auction {
	if a.BestBid != nil {
		bb := *a.BestBid
		a.BestBid = &bb
	}
	if a.Outcome != nil {
		o := *a.Outcome
		o.Transfers = append([]domain.Transfer(nil), a.Outcome.Transfers...)
		a.Outcome = &o
	}
	return a
}

func (r *auctionRepository) CreateAuction(_ context.Context, auction domain.Auction) (domain.AuctionID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	auction.AuctionID = r.lastID
	auction.Version = 1
	r.auctions[auction.AuctionID] = clone(auction)
	if last, ok := r.starts[auction.AssetCurrency]; !ok || auction.StartTime.After(last) {
		r.starts[auction.AssetCurrency] = auction.StartTime
	}
	return auction.AuctionID, nil
}

func (r *auctionRepository) FindAuctionByID(_ context.Context, id domain.AuctionID) (*domain.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.auctions[id]
	if !ok {
		return nil, fmt.Errorf("%w: auction %s", domain.ErrNotFound, id)
	}
	a = clone(a)
	return &a, nil
}

func (r *auctionRepository) ListAuctions(_ context.Context, filter domain.AuctionFilter, afterID domain.AuctionID, limit int) ([]domain.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]domain.AuctionID, 0, len(r.auctions))
	for id := range r.auctions {
		if id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []domain.Auction{}
	for _, id := range ids {
		a := r.auctions[id]
		if !filter.Matches(a) {
			continue
		}
		out = append(out, clone(a))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *auctionRepository) LastAuctionStart(_ context.Context, currency string) (time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start, ok := r.starts[currency]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: no auction for currency %s", domain.ErrNotFound, currency)
	}
	return start, nil
}

// checkVersion must be called with the write lock held.
func (r *auctionRepository) checkVersion(auction domain.Auction) error {
	stored, ok := r.auctions[auction.AuctionID]
	if !ok {
		return fmt.Errorf("%w: auction %s", domain.ErrNotFound, auction.AuctionID)
	}
	if stored.Version != auction.Version {
		return fmt.Errorf("%w: auction %s version %d, stored %d", domain.ErrStaleAuction, auction.AuctionID, auction.Version, stored.Version)
	}
	return nil
}

func (r *auctionRepository) UpdateAuction(_ context.Context, auction domain.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkVersion(auction); err != nil {
		return err
	}
	auction.Version++
	r.auctions[auction.AuctionID] = clone(auction)
	return nil
}

func (r *auctionRepository) DeleteAuction(_ context.Context, id domain.AuctionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[id]; !ok {
		return fmt.Errorf("%w: auction %s", domain.ErrNotFound, id)
	}
	delete(r.auctions, id)
	delete(r.bids, id)
	return nil
}

func (r *auctionRepository) SaveBid(_ context.Context, bid domain.Bid, auction domain.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkVersion(auction); err != nil {
		return err
	}
	auction.Version++
	r.auctions[auction.AuctionID] = clone(auction)
	r.bids[auction.AuctionID] = append(r.bids[auction.AuctionID], bid)
	return nil
}

func (r *auctionRepository) FindBidsByAuctionID(_ context.Context, id domain.AuctionID) ([]domain.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.auctions[id]; !ok {
		return nil, fmt.Errorf("%w: auction %s", domain.ErrNotFound, id)
	}
	return append([]domain.Bid{}, r.bids[id]...), nil
}
