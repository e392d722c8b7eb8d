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
	"github.com/SscSPs/sett_auction/internal/utils/pagination"
	"github.com/google/uuid"
)

const (
	defaultListLimit = 20
	auctionTokenKind = "auction"
)

// auctionLedgerService owns auction records and their lifecycle.
type auctionLedgerService struct {
	BaseService
	repo  portsrepo.AuctionRepositoryFacade
	clock portssvc.Clock
	cfg   config.AuctionConfig
}

// NewAuctionLedgerService creates the auction ledger.
func NewAuctionLedgerService(
	repo portsrepo.AuctionRepositoryFacade,
	clock portssvc.Clock,
	publisher portssvc.EventPublisher,
	cfg config.AuctionConfig,
) portssvc.AuctionLedgerSvcFacade {
	return &auctionLedgerService{
		BaseService: BaseService{Publisher: publisher},
		repo:        repo,
		clock:       clock,
		cfg:         cfg,
	}
}

// Create opens a new auction. A StartTime in the future schedules it.
func (s *auctionLedgerService) Create(ctx context.Context, req dto.CreateAuctionRequest, creatorUserID string) (domain.AuctionID, error) {
	duration := time.Duration(req.DurationSeconds) * time.Second
	if duration <= 0 {
		return 0, domain.ErrInvalidDuration
	}

	now := s.clock.Now()
	start := now
	if req.StartTime != nil {
		start = req.StartTime.UTC()
	}

	auction := domain.Auction{
		AssetCurrency:   req.AssetCurrency,
		AssetAmount:     req.AssetAmount,
		BidCurrency:     req.BidCurrency,
		ReservePrice:    s.cfg.DefaultReservePrice,
		IssuerAccountID: s.cfg.IssuerAccountID,
		StartTime:       start,
		EndTime:         start.Add(duration),
		Status:          domain.AuctionOpen,
		AuditFields:     domain.NewAuditFields(creatorUserID, now),
	}
	if auction.BidCurrency == "" {
		auction.BidCurrency = s.cfg.DefaultBidCurrency
	}
	if req.ReservePrice != nil {
		auction.ReservePrice = *req.ReservePrice
	}
	if err := auction.Validate(); err != nil {
		return 0, err
	}

	id, err := s.repo.CreateAuction(ctx, auction)
	if err != nil {
		s.LogError(ctx, err, "Failed to save auction in repository", slog.String("asset_currency", auction.AssetCurrency))
		return 0, fmt.Errorf("failed to create auction: %w", err)
	}

	s.LogInfo(ctx, "Auction opened",
		slog.String("auction_id", id.String()),
		slog.String("asset_currency", auction.AssetCurrency),
		slog.String("asset_amount", auction.AssetAmount.String()),
		slog.String("bid_currency", auction.BidCurrency),
		slog.Time("end_time", auction.EndTime))
	s.Emit(ctx, domain.NewAuctionOpened(id, now))
	return id, nil
}

func (s *auctionLedgerService) Get(ctx context.Context, id domain.AuctionID) (*domain.Auction, error) {
	auction, err := s.repo.FindAuctionByID(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find auction by ID in repository", slog.String("auction_id", id.String()))
		}
		return nil, err
	}
	return auction, nil
}

// List returns a page of auctions in ascending ID order.
func (s *auctionLedgerService) List(ctx context.Context, params dto.ListAuctionsParams) (*dto.ListAuctionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var afterID domain.AuctionID
	if params.NextToken != nil && *params.NextToken != "" {
		raw, err := pagination.DecodeIDToken(*params.NextToken, auctionTokenKind)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		afterID = domain.AuctionID(raw)
	}

	filter := domain.AuctionFilter{AssetCurrency: params.AssetCurrency}
	if params.Status != "" {
		status := domain.AuctionStatus(params.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, params.Status)
		}
		filter.Statuses = []domain.AuctionStatus{status}
	}

	// Fetch one extra row to learn whether another page exists.
	auctions, err := s.repo.ListAuctions(ctx, filter, afterID, limit+1)
	if err != nil {
		s.LogError(ctx, err, "Failed to list auctions from repository")
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}

	resp := &dto.ListAuctionsResponse{}
	if len(auctions) > limit {
		auctions = auctions[:limit]
		token := pagination.EncodeIDToken(auctionTokenKind, uint64(auctions[limit-1].AuctionID))
		resp.NextToken = &token
	}
	resp.Auctions = dto.ToAuctionResponses(auctions)

	s.LogDebug(ctx, "Auctions listed", slog.Int("count", len(auctions)))
	return resp, nil
}

func (s *auctionLedgerService) ListBids(ctx context.Context, id domain.AuctionID) ([]domain.Bid, error) {
	bids, err := s.repo.FindBidsByAuctionID(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to list bids from repository", slog.String("auction_id", id.String()))
		}
		return nil, err
	}
	return bids, nil
}

// RecordBid stores bid as the new best bid. Admissibility against the
// bidder's funds is the validator's job; here only the lifecycle and the
// monotonic best bid are enforced.
func (s *auctionLedgerService) RecordBid(ctx context.Context, id domain.AuctionID, bid domain.Bid) (*domain.Auction, error) {
	auction, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := auction.AcceptsBidsAt(now); err != nil {
		return nil, err
	}
	if auction.BestBid != nil && !bid.Amount.GreaterThan(auction.BestBid.Amount) {
		return nil, fmt.Errorf("%w: %s does not exceed %s", domain.ErrBidTooLow, bid.Amount, auction.BestBid.Amount)
	}

	bid.AuctionID = id
	if bid.BidID == "" {
		bid.BidID = uuid.NewString()
	}
	if bid.SubmittedAt.IsZero() {
		bid.SubmittedAt = now
	}
	if bid.Currency == "" {
		bid.Currency = auction.BidCurrency
	}

	extended := auction.ApplyBid(bid, s.cfg.BidExtension)
	auction.Touch(bid.BidderAccountID, now)
	if err := s.repo.SaveBid(ctx, bid, *auction); err != nil {
		if !errors.Is(err, domain.ErrStaleAuction) {
			s.LogError(ctx, err, "Failed to save bid in repository", slog.String("auction_id", id.String()))
		}
		return nil, err
	}
	auction.Version++

	if extended {
		s.LogInfo(ctx, "Auction end time extended by late bid",
			slog.String("auction_id", id.String()),
			slog.Time("end_time", auction.EndTime))
	}
	return auction, nil
}

// MarkClosing moves an auction into CLOSING. Calling it again on a CLOSING
// auction only counts another settlement attempt.
func (s *auctionLedgerService) MarkClosing(ctx context.Context, id domain.AuctionID) (*domain.Auction, error) {
	auction, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if auction.Status != domain.AuctionClosing {
		if err := auction.TransitionTo(domain.AuctionClosing); err != nil {
			return nil, err
		}
	}
	auction.SettlementAttempts++
	auction.Touch(domain.SystemUserID, s.clock.Now())

	if err := s.repo.UpdateAuction(ctx, *auction); err != nil {
		return nil, err
	}
	auction.Version++
	return auction, nil
}

// Close records outcome and moves the auction into outcome.Status, which
// must be terminal.
func (s *auctionLedgerService) Close(ctx context.Context, id domain.AuctionID, outcome domain.SettlementOutcome) (*domain.Auction, error) {
	if !outcome.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: cannot close with status %s", domain.ErrInvalidTransition, outcome.Status)
	}
	auction, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auction.TransitionTo(outcome.Status); err != nil {
		return nil, err
	}

	outcome.AuctionID = id
	auction.Outcome = &outcome
	auction.Touch(domain.SystemUserID, s.clock.Now())
	if err := s.repo.UpdateAuction(ctx, *auction); err != nil {
		return nil, err
	}
	auction.Version++

	s.LogInfo(ctx, "Auction closed",
		slog.String("auction_id", id.String()),
		slog.String("status", string(outcome.Status)))
	return auction, nil
}

// Remove deletes a closed auction and its bid history. Auctions whose
// settlement failed stay for operator follow-up.
func (s *auctionLedgerService) Remove(ctx context.Context, id domain.AuctionID) error {
	auction, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !auction.Status.IsTerminal() {
		return fmt.Errorf("%w: auction %s is %s, only closed auctions can be removed", apperrors.ErrConflict, id, auction.Status)
	}
	if auction.Status == domain.AuctionSettlementFailed {
		return fmt.Errorf("%w: auction %s failed settlement and needs manual resolution", apperrors.ErrConflict, id)
	}
	if err := s.repo.DeleteAuction(ctx, id); err != nil {
		s.LogError(ctx, err, "Failed to delete auction", slog.String("auction_id", id.String()))
		return err
	}
	s.LogInfo(ctx, "Auction removed", slog.String("auction_id", id.String()))
	return nil
}
