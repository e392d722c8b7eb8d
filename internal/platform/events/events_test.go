package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

var at = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestBuildMessage(t *testing.T) {
	event := domain.NewAuctionSettled(42, "bob", decimal.NewFromInt(120), at)

	msg, err := buildMessage("auction-events", event)
	require.NoError(t, err)

	assert.Equal(t, "auction-events", msg.Topic)
	assert.Equal(t, []byte("42"), msg.Key)
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "AuctionSettled", string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "AuctionSettled", decoded["type"])
	assert.Equal(t, "bob", decoded["winner"])
	assert.Equal(t, "120", decoded["amount"])
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := new(mockWriter)
	p := &KafkaPublisher{writer: w, topic: "auction-events"}
	ctx := context.Background()

	w.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
		return len(msgs) == 1 && string(msgs[0].Key) == "7"
	})).Return(nil).Once()
	require.NoError(t, p.Publish(ctx, domain.NewAuctionOpened(7, at)))

	w.On("WriteMessages", ctx, mock.Anything).Return(assert.AnError).Once()
	err := p.Publish(ctx, domain.NewAuctionCancelled(7, at))
	assert.ErrorIs(t, err, assert.AnError)

	w.On("Close").Return(nil).Once()
	assert.NoError(t, p.Close())
	w.AssertExpectations(t)
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, domain.AuctionEvent) error { return assert.AnError }

func TestFanout_DeliversToAllSinks(t *testing.T) {
	first, second := &Recorder{}, &Recorder{}
	f := Fanout{first, failingPublisher{}, Metered{Next: second}, LogPublisher{}}

	err := f.Publish(context.Background(), domain.NewAuctionOpened(1, at))
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []domain.EventType{domain.EventAuctionOpened}, first.Types())
	assert.Equal(t, []domain.EventType{domain.EventAuctionOpened}, second.Types())
}
