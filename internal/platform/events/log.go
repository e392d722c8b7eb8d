// Package events implements EventPublisher sinks for auction lifecycle events.
package events

import (
	"context"
	"log/slog"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	portssvc "github.com/SscSPs/sett_auction/internal/core/ports/services"
	"github.com/SscSPs/sett_auction/internal/middleware"
)

// LogPublisher writes every event to the request-scoped logger. It is the
// audit sink and is always installed.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, event domain.AuctionEvent) error {
	attrs := []any{
		slog.String("event", string(event.Type)),
		slog.String("auction_id", event.AuctionID.String()),
		slog.Time("occurred_at", event.OccurredAt),
	}
	if event.Bidder != "" {
		attrs = append(attrs, slog.String("bidder", event.Bidder))
	}
	if event.Winner != "" {
		attrs = append(attrs, slog.String("winner", event.Winner))
	}
	if event.Amount != nil {
		attrs = append(attrs, slog.String("amount", event.Amount.String()))
	}
	middleware.GetLoggerFromCtx(ctx).Info("Auction event", attrs...)
	return nil
}

var _ portssvc.EventPublisher = LogPublisher{}
