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
	"github.com/SscSPs/sett_auction/internal/platform/config"
)

// stabilizationScheduler turns peg observations into auctions.
type stabilizationScheduler struct {
	BaseService
	controller portssvc.StabilizationControllerSvc
	auctions   portssvc.AuctionLedgerSvcFacade
	repo       portsrepo.AuctionReader
	clock      portssvc.Clock
	cfg        config.StabilizationConfig
}

// NewStabilizationScheduler creates the scheduler.
func NewStabilizationScheduler(
	controller portssvc.StabilizationControllerSvc,
	auctions portssvc.AuctionLedgerSvcFacade,
	repo portsrepo.AuctionReader,
	clock portssvc.Clock,
	cfg config.StabilizationConfig,
) portssvc.StabilizationSchedulerSvc {
	return &stabilizationScheduler{
		controller: controller,
		auctions:   auctions,
		repo:       repo,
		clock:      clock,
		cfg:        cfg,
	}
}

func (s *stabilizationScheduler) Observe(ctx context.Context, deviation domain.PegDeviation, userID string) (*dto.ObservationResponse, error) {
	if deviation.Currency != s.cfg.StableCurrency {
		return nil, fmt.Errorf("%w: observations are accepted for %s only", apperrors.ErrValidation, s.cfg.StableCurrency)
	}
	if !deviation.TargetPrice.IsPositive() || deviation.MarketPrice.IsNegative() || deviation.Supply.IsNegative() {
		return nil, fmt.Errorf("%w: target price must be positive, market price and supply not negative", apperrors.ErrValidation)
	}
	// The cool-down is measured against ObservedAt, so it must not run ahead of the clock.
	if now := s.clock.Now(); deviation.ObservedAt.After(now) {
		return nil, fmt.Errorf("%w: observation time %s is after the current time %s",
			apperrors.ErrValidation, deviation.ObservedAt.Format(time.RFC3339), now.Format(time.RFC3339))
	}

	state, err := s.currencyState(ctx)
	if err != nil {
		return nil, err
	}

	req := s.controller.Evaluate(deviation, state)
	if req == nil {
		s.LogDebug(ctx, "No stabilization auction required",
			slog.String("market_price", deviation.MarketPrice.String()),
			slog.Bool("has_open_auction", state.HasOpenAuction))
		return &dto.ObservationResponse{}, nil
	}

	reservePrice := req.ReservePrice
	id, err := s.auctions.Create(ctx, dto.CreateAuctionRequest{
		AssetCurrency:   req.AssetCurrency,
		AssetAmount:     req.AssetAmount,
		BidCurrency:     req.BidCurrency,
		ReservePrice:    &reservePrice,
		DurationSeconds: int64(req.Duration / time.Second),
	}, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to open stabilization auction: %w", err)
	}

	s.LogInfo(ctx, "Stabilization auction opened",
		slog.String("auction_id", id.String()),
		slog.String("direction", string(req.Direction)),
		slog.String("amount", req.AssetAmount.String()))
	return &dto.ObservationResponse{Request: req, AuctionID: &id}, nil
}

// currencyState looks at auctions of both directions, since either one
// moves the stable currency's supply.
func (s *stabilizationScheduler) currencyState(ctx context.Context) (domain.CurrencyAuctionState, error) {
	var state domain.CurrencyAuctionState
	for _, currency := range []string{s.cfg.StableCurrency, s.cfg.ReserveCurrency} {
		active, err := s.repo.ListAuctions(ctx, domain.AuctionFilter{
			Statuses:      []domain.AuctionStatus{domain.AuctionOpen, domain.AuctionClosing},
			AssetCurrency: currency,
		}, 0, 1)
		if err != nil {
			return state, fmt.Errorf("failed to list active auctions: %w", err)
		}
		if len(active) > 0 {
			state.HasOpenAuction = true
		}

		start, err := s.repo.LastAuctionStart(ctx, currency)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return state, fmt.Errorf("failed to read last auction start: %w", err)
		}
		if state.LastAuctionStart == nil || start.After(*state.LastAuctionStart) {
			state.LastAuctionStart = &start
		}
	}
	return state, nil
}
