package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/sett_auction/internal/apperrors"
	"github.com/SscSPs/sett_auction/internal/core/domain"
	portsrepo "github.com/SscSPs/sett_auction/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sett_auction/internal/core/ports/services"
	"github.com/SscSPs/sett_auction/internal/dto"
	"github.com/SscSPs/sett_auction/internal/platform/metrics"
	"github.com/avast/retry-go"
	"github.com/google/uuid"
)

const (
	bidLockTTL      = 10 * time.Second
	bidLockAttempts = 5
	bidLockDelay    = 20 * time.Millisecond
)

func bidLockKey(id domain.AuctionID) string {
	return "auction-bids:" + id.String()
}

// bidService places bids: validate, reserve the bid amount, record the bid,
// then release the outbid reservation. Bids on one auction are serialised
// through the lock manager so the released reservation is always the one the
// new bid replaced.
type bidService struct {
	BaseService
	auctions  portssvc.AuctionLedgerSvcFacade
	validator portssvc.BidValidatorSvc
	ledger    portsrepo.CurrencyLedger
	locker    portssvc.LockManager
	clock     portssvc.Clock
}

// NewBidService creates the bid orchestrator.
func NewBidService(
	auctions portssvc.AuctionLedgerSvcFacade,
	validator portssvc.BidValidatorSvc,
	ledger portsrepo.CurrencyLedger,
	locker portssvc.LockManager,
	clock portssvc.Clock,
	publisher portssvc.EventPublisher,
) portssvc.BidSvc {
	return &bidService{
		BaseService: BaseService{Publisher: publisher},
		auctions:    auctions,
		validator:   validator,
		ledger:      ledger,
		locker:      locker,
		clock:       clock,
	}
}

func (s *bidService) PlaceBid(ctx context.Context, id domain.AuctionID, req dto.PlaceBidRequest, bidderAccountID string) (*domain.Bid, error) {
	bid, err := s.placeBid(ctx, id, req, bidderAccountID)
	metrics.BidSubmitted(err)
	return bid, err
}

func (s *bidService) placeBid(ctx context.Context, id domain.AuctionID, req dto.PlaceBidRequest, bidderAccountID string) (*domain.Bid, error) {
	logger := s.GetLogger(ctx).With(slog.String("auction_id", id.String()), slog.String("bidder", bidderAccountID))
	if bidderAccountID == "" {
		return nil, fmt.Errorf("%w: bidder account is required", apperrors.ErrValidation)
	}

	var unlock func()
	err := retry.Do(func() error {
		var acquireErr error
		unlock, acquireErr = s.locker.Acquire(ctx, bidLockKey(id), bidLockTTL)
		return acquireErr
	},
		retry.Attempts(bidLockAttempts),
		retry.Delay(bidLockDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return errors.Is(err, domain.ErrLockHeld) }),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to lock auction %s for bidding: %w", id, err)
	}
	defer unlock()

	auction, err := s.auctions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	bid := domain.Bid{
		BidID:           uuid.NewString(),
		AuctionID:       id,
		BidderAccountID: bidderAccountID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		SubmittedAt:     s.clock.Now(),
	}
	if err := s.validator.Validate(ctx, *auction, bid); err != nil {
		logger.Info("Bid rejected", slog.String("amount", bid.Amount.String()), slog.String("reason", err.Error()))
		return nil, err
	}

	previous := auction.BestBid
	raisingOwnBid := previous != nil && previous.BidderAccountID == bidderAccountID
	toReserve := bid.Amount
	if raisingOwnBid {
		toReserve = bid.Amount.Sub(previous.Amount)
	}

	if err := s.ledger.Reserve(ctx, bidderAccountID, auction.BidCurrency, toReserve); err != nil {
		logger.Info("Bid reservation failed", slog.String("amount", toReserve.String()), slog.String("error", err.Error()))
		return nil, err
	}

	if _, err := s.auctions.RecordBid(ctx, id, bid); err != nil {
		if rerr := s.ledger.Unreserve(ctx, bidderAccountID, auction.BidCurrency, toReserve); rerr != nil {
			s.LogError(ctx, rerr, "Failed to release reservation of unrecorded bid",
				slog.String("auction_id", id.String()),
				slog.String("bidder", bidderAccountID),
				slog.String("amount", toReserve.String()))
		}
		return nil, err
	}

	if previous != nil && !raisingOwnBid {
		if err := s.ledger.Unreserve(ctx, previous.BidderAccountID, auction.BidCurrency, previous.Amount); err != nil {
			s.LogError(ctx, err, "Failed to release outbid reservation",
				slog.String("auction_id", id.String()),
				slog.String("bidder", previous.BidderAccountID),
				slog.String("amount", previous.Amount.String()))
		}
	}

	logger.Info("Bid accepted", slog.String("amount", bid.Amount.String()))
	s.Emit(ctx, domain.NewBidAccepted(id, bidderAccountID, bid.Amount, bid.SubmittedAt))
	return &bid, nil
}
