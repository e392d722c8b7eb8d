package events

import (
	"context"
	"errors"
	"sync"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	portssvc "github.com/SscSPs/sett_auction/internal/core/ports/services"
	"github.com/SscSPs/sett_auction/internal/platform/metrics"
)

// Fanout delivers each event to every sink and joins their errors.
type Fanout []portssvc.EventPublisher

func (f Fanout) Publish(ctx context.Context, event domain.AuctionEvent) error {
	var errs []error
	for _, sink := range f {
		if err := sink.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Metered counts published events by type and result.
type Metered struct {
	Next portssvc.EventPublisher
}

func (m Metered) Publish(ctx context.Context, event domain.AuctionEvent) error {
	err := m.Next.Publish(ctx, event)
	metrics.EventPublished(string(event.Type), err)
	return err
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []domain.AuctionEvent
}

func (r *Recorder) Publish(_ context.Context, event domain.AuctionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []domain.AuctionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuctionEvent(nil), r.events...)
}

// Types returns the recorded event types in publication order.
func (r *Recorder) Types() []domain.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]domain.EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}

var (
	_ portssvc.EventPublisher = Fanout(nil)
	_ portssvc.EventPublisher = Metered{}
	_ portssvc.EventPublisher = (*Recorder)(nil)
)
