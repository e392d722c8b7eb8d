package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	portsrepo "github.com/SscSPs/sett_auction/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sett_auction/internal/core/ports/services"
	"github.com/SscSPs/sett_auction/internal/platform/metrics"
)

const blockPageSize = 100

// blockProcessor runs the per-block settlement pass.
type blockProcessor struct {
	BaseService
	repo       portsrepo.AuctionReader
	settlement portssvc.SettlementSvc
	clock      portssvc.Clock
}

// NewBlockProcessor creates the block processor.
func NewBlockProcessor(repo portsrepo.AuctionReader, settlement portssvc.SettlementSvc, clock portssvc.Clock) portssvc.BlockProcessorSvc {
	return &blockProcessor{repo: repo, settlement: settlement, clock: clock}
}

// ProcessBlock settles every expired OPEN auction and retries every CLOSING
// one in ascending AuctionID order. A failing auction does not stop the pass.
func (p *blockProcessor) ProcessBlock(ctx context.Context) (*domain.BlockReport, error) {
	now := p.clock.Now()
	due, err := p.dueAuctions(ctx, now)
	if err != nil {
		p.LogError(ctx, err, "Failed to list due auctions")
		return nil, err
	}
	metrics.BlockDueAuctions(len(due))

	report := &domain.BlockReport{
		ProcessedAt: now,
		Outcomes:    []domain.SettlementOutcome{},
		Failures:    map[domain.AuctionID]string{},
	}
	for _, id := range due {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		outcome, err := p.settlement.Settle(ctx, id)
		if outcome != nil {
			report.Outcomes = append(report.Outcomes, *outcome)
		}
		if err != nil {
			report.Failures[id] = err.Error()
			p.LogError(ctx, err, "Settlement failed in block", slog.String("auction_id", id.String()))
		}
	}

	if len(due) > 0 {
		p.LogInfo(ctx, "Block processed",
			slog.Int("due", len(due)),
			slog.Int("closed", len(report.Outcomes)),
			slog.Int("failed", len(report.Failures)))
	}
	return report, nil
}

func (p *blockProcessor) dueAuctions(ctx context.Context, now time.Time) ([]domain.AuctionID, error) {
	filters := []domain.AuctionFilter{
		{Statuses: []domain.AuctionStatus{domain.AuctionOpen}, EndsAtOrBefore: &now},
		{Statuses: []domain.AuctionStatus{domain.AuctionClosing}},
	}
	var ids []domain.AuctionID
	for _, filter := range filters {
		var after domain.AuctionID
		for {
			page, err := p.repo.ListAuctions(ctx, filter, after, blockPageSize)
			if err != nil {
				return nil, err
			}
			for _, a := range page {
				ids = append(ids, a.AuctionID)
			}
			if len(page) < blockPageSize {
				break
			}
			after = page[len(page)-1].AuctionID
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Run processes a block on every tick until ctx is cancelled.
func (p *blockProcessor) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	p.LogInfo(ctx, "Block processor started", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			p.LogInfo(ctx, "Block processor stopped")
			return nil
		case <-ticker.C:
			if _, err := p.ProcessBlock(ctx); err != nil && !errors.Is(err, context.Canceled) {
				p.LogError(ctx, err, "Block processing failed")
			}
		}
	}
}
