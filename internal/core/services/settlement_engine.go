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
	"github.com/SscSPs/sett_auction/internal/platform/config"
	"github.com/SscSPs/sett_auction/internal/platform/metrics"
	"github.com/avast/retry-go"
)

func settlementLockKey(id domain.AuctionID) string {
	return "auction-settlement:" + id.String()
}

// settlementEngine closes expired auctions and moves the funds.
type settlementEngine struct {
	BaseService
	auctions portssvc.AuctionLedgerSvcFacade
	ledger   portsrepo.CurrencyLedger
	locker   portssvc.LockManager
	clock    portssvc.Clock
	cfg      config.SettlementConfig
}

// NewSettlementEngine creates the settlement engine.
func NewSettlementEngine(
	auctions portssvc.AuctionLedgerSvcFacade,
	ledger portsrepo.CurrencyLedger,
	locker portssvc.LockManager,
	clock portssvc.Clock,
	publisher portssvc.EventPublisher,
	cfg config.SettlementConfig,
) portssvc.SettlementSvc {
	return &settlementEngine{
		BaseService: BaseService{Publisher: publisher},
		auctions:    auctions,
		ledger:      ledger,
		locker:      locker,
		clock:       clock,
		cfg:         cfg,
	}
}

func (s *settlementEngine) Settle(ctx context.Context, id domain.AuctionID) (*domain.SettlementOutcome, error) {
	start := time.Now()
	outcome, err := s.settle(ctx, id)
	status := "error"
	if err == nil && outcome != nil {
		status = string(outcome.Status)
	}
	metrics.SettlementObserved(status, time.Since(start))
	return outcome, err
}

func (s *settlementEngine) settle(ctx context.Context, id domain.AuctionID) (*domain.SettlementOutcome, error) {
	unlock, err := s.locker.Acquire(ctx, settlementLockKey(id), s.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrLockHeld) {
			return nil, fmt.Errorf("%w: auction %s", domain.ErrSettlementInProgress, id)
		}
		return nil, fmt.Errorf("failed to acquire settlement lock: %w", err)
	}
	defer unlock()

	auction, err := s.auctions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if auction.Status.IsTerminal() {
		return recordedOutcome(auction), nil
	}

	now := s.clock.Now()
	if auction.Status == domain.AuctionOpen && !auction.IsExpiredAt(now) {
		return nil, fmt.Errorf("%w: auction %s ends at %s", domain.ErrAuctionNotExpired, id, auction.EndTime.Format(time.RFC3339))
	}

	if auction.BestBid == nil {
		outcome := domain.SettlementOutcome{
			Status:      domain.AuctionCancelled,
			AssetAmount: auction.AssetAmount,
			SettledAt:   now,
		}
		closed, err := s.auctions.Close(ctx, id, outcome)
		if err != nil {
			return nil, err
		}
		s.Emit(ctx, domain.NewAuctionCancelled(id, now))
		return closed.Outcome, nil
	}

	// The auction returned here is re-read under the version check, so its
	// best bid is final.
	auction, err = s.auctions.MarkClosing(ctx, id)
	if err != nil {
		return nil, err
	}
	winner := auction.BestBid
	legs := domain.SettlementTransfers(*auction)

	transferErr := retry.Do(func() error {
		return s.ledger.ApplyTransfers(ctx, domain.SettlementReference(id), legs)
	},
		retry.Attempts(s.cfg.RetryAttempts),
		retry.Delay(s.cfg.RetryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return !errors.Is(err, apperrors.ErrValidation) }),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			s.LogDebug(ctx, "Retrying settlement transfer",
				slog.String("auction_id", id.String()),
				slog.Uint64("retry", uint64(n)),
				slog.String("error", err.Error()))
		}),
	)

	if transferErr == nil {
		outcome := domain.SettlementOutcome{
			Status:      domain.AuctionSettled,
			Winner:      winner.BidderAccountID,
			BidAmount:   winner.Amount,
			AssetAmount: auction.AssetAmount,
			Transfers:   legs,
			SettledAt:   now,
		}
		closed, err := s.auctions.Close(ctx, id, outcome)
		if err != nil {
			// Transfers are applied; a later attempt re-applies the same
			// reference as a no-op and then closes.
			s.LogError(ctx, err, "Failed to close settled auction", slog.String("auction_id", id.String()))
			return nil, err
		}
		s.LogInfo(ctx, "Auction settled",
			slog.String("auction_id", id.String()),
			slog.String("winner", winner.BidderAccountID),
			slog.String("amount", winner.Amount.String()))
		s.Emit(ctx, domain.NewAuctionSettled(id, winner.BidderAccountID, winner.Amount, now))
		return closed.Outcome, nil
	}

	s.LogError(ctx, transferErr, "Settlement transfer failed",
		slog.String("auction_id", id.String()),
		slog.Int("attempt", auction.SettlementAttempts),
		slog.Int("max_attempts", s.cfg.MaxSettlementAttempts))

	if auction.SettlementAttempts < s.cfg.MaxSettlementAttempts {
		return nil, fmt.Errorf("%w: auction %s attempt %d: %w", domain.ErrTransferFailed, id, auction.SettlementAttempts, transferErr)
	}

	outcome := domain.SettlementOutcome{
		Status:      domain.AuctionSettlementFailed,
		Winner:      winner.BidderAccountID,
		BidAmount:   winner.Amount,
		AssetAmount: auction.AssetAmount,
		SettledAt:   now,
	}
	closed, err := s.auctions.Close(ctx, id, outcome)
	if err != nil {
		return nil, err
	}
	// Nothing moved, so the winner's funds go back to free balance.
	if err := s.ledger.Unreserve(ctx, winner.BidderAccountID, auction.BidCurrency, winner.Amount); err != nil {
		s.LogError(ctx, err, "Failed to release reservation of failed settlement", slog.String("auction_id", id.String()))
	}
	s.Emit(ctx, domain.NewSettlementFailed(id, now))
	return closed.Outcome, fmt.Errorf("%w: auction %s flagged after %d attempts: %w", domain.ErrTransferFailed, id, auction.SettlementAttempts, transferErr)
}

// recordedOutcome returns the stored outcome of a closed auction.
func recordedOutcome(a *domain.Auction) *domain.SettlementOutcome {
	if a.Outcome != nil {
		o := *a.Outcome
		return &o
	}
	return &domain.SettlementOutcome{AuctionID: a.AuctionID, Status: a.Status, AssetAmount: a.AssetAmount}
}
