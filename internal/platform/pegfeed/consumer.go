package pegfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/sett_auction/internal/apperrors"
	"github.com/SscSPs/sett_auction/internal/core/domain"
	portssvc "github.com/SscSPs/sett_auction/internal/core/ports/services"
	"github.com/SscSPs/sett_auction/internal/dto"
	"github.com/segmentio/kafka-go"
)

// messageReader is the subset of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer feeds peg price observations from a Kafka topic into the
// stabilization scheduler.
type Consumer struct {
	reader    messageReader
	scheduler portssvc.StabilizationSchedulerSvc
	clock     portssvc.Clock
	logger    *slog.Logger
}

// NewConsumer creates a consumer group reader on topic.
func NewConsumer(brokers []string, topic, groupID string, scheduler portssvc.StabilizationSchedulerSvc, clock portssvc.Clock) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       1 << 20,
		CommitInterval: 0,
		StartOffset:    kafka.LastOffset,
	})
	return newConsumer(reader, scheduler, clock)
}

func newConsumer(reader messageReader, scheduler portssvc.StabilizationSchedulerSvc, clock portssvc.Clock) *Consumer {
	return &Consumer{
		reader:    reader,
		scheduler: scheduler,
		clock:     clock,
		logger:    slog.Default().With(slog.String("component", "pegfeed")),
	}
}

// Run consumes until ctx is cancelled. Malformed or rejected observations are
// logged and committed; scheduler failures stop the consumer without
// committing so the observation is redelivered.
func (c *Consumer) Run(ctx context.Context) error {
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.logger.Warn("Failed to close peg feed reader", slog.String("error", err.Error()))
		}
	}()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("pegfeed: fetch: %w", err)
		}

		if err := c.handle(ctx, msg); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("pegfeed: commit offset %d: %w", msg.Offset, err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) error {
	logger := c.logger.With(slog.Int("partition", msg.Partition), slog.Int64("offset", msg.Offset))

	deviation, err := Decode(msg.Value, c.now())
	if err != nil {
		logger.Warn("Skipping malformed peg observation", slog.String("error", err.Error()))
		return nil
	}

	resp, err := c.scheduler.Observe(ctx, deviation, domain.SystemUserID)
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Peg observation rejected", slog.String("currency", deviation.Currency), slog.String("error", err.Error()))
		return nil
	case err != nil:
		return fmt.Errorf("pegfeed: observe: %w", err)
	}

	if resp != nil && resp.AuctionID != nil {
		logger.Info("Stabilization auction opened from peg feed",
			slog.String("auction_id", resp.AuctionID.String()),
			slog.String("direction", string(resp.Request.Direction)))
	}
	return nil
}

func (c *Consumer) now() time.Time {
	if c.clock == nil {
		return time.Now().UTC()
	}
	return c.clock.Now()
}

// Decode parses one peg price message, stamping now when the message carries
// no observation time.
func Decode(value []byte, now time.Time) (domain.PegDeviation, error) {
	var req dto.PegObservationRequest
	if err := json.Unmarshal(value, &req); err != nil {
		return domain.PegDeviation{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if req.Currency == "" {
		return domain.PegDeviation{}, fmt.Errorf("%w: currency is required", apperrors.ErrValidation)
	}
	return req.ToPegDeviation(now), nil
}
