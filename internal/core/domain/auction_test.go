package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/sett_auction/internal/apperrors"
	"github.com/SscSPs/sett_auction/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newAuction(status domain.AuctionStatus) domain.Auction {
	return domain.Auction{
		AuctionID:       7,
		AssetCurrency:   "SETT",
		AssetAmount:     decimal.NewFromInt(100),
		BidCurrency:     "DNAR",
		ReservePrice:    decimal.NewFromInt(100),
		IssuerAccountID: "issuer",
		StartTime:       t0,
		EndTime:         t0.Add(10 * time.Minute),
		Status:          status,
	}
}

func TestAuctionStatus_Transitions(t *testing.T) {
	all := []domain.AuctionStatus{
		domain.AuctionOpen,
		domain.AuctionClosing,
		domain.AuctionSettled,
		domain.AuctionCancelled,
		domain.AuctionSettlementFailed,
	}
	allowed := map[domain.AuctionStatus][]domain.AuctionStatus{
		domain.AuctionOpen:    {domain.AuctionClosing, domain.AuctionSettled, domain.AuctionCancelled},
		domain.AuctionClosing: {domain.AuctionSettled, domain.AuctionCancelled, domain.AuctionSettlementFailed},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestAuction_TransitionTo_TerminalStatesAreFinal(t *testing.T) {
	for _, terminal := range []domain.AuctionStatus{domain.AuctionSettled, domain.AuctionCancelled, domain.AuctionSettlementFailed} {
		t.Run(string(terminal), func(t *testing.T) {
			a := newAuction(terminal)
			for _, next := range []domain.AuctionStatus{domain.AuctionOpen, domain.AuctionClosing, domain.AuctionSettled, domain.AuctionCancelled} {
				err := a.TransitionTo(next)
				assert.ErrorIs(t, err, domain.ErrAlreadyClosed)
				assert.ErrorIs(t, err, apperrors.ErrConflict)
				assert.Equal(t, terminal, a.Status)
			}
		})
	}
}

func TestAuction_TransitionTo_RejectsRegression(t *testing.T) {
	a := newAuction(domain.AuctionClosing)
	err := a.TransitionTo(domain.AuctionOpen)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.AuctionClosing, a.Status)
}

func TestAuction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *domain.Auction)
		wantErr error
	}{
		{name: "valid", mutate: func(a *domain.Auction) {}},
		{name: "end equals start", mutate: func(a *domain.Auction) { a.EndTime = a.StartTime }, wantErr: domain.ErrInvalidDuration},
		{name: "end before start", mutate: func(a *domain.Auction) { a.EndTime = a.StartTime.Add(-time.Second) }, wantErr: domain.ErrInvalidDuration},
		{name: "zero asset amount", mutate: func(a *domain.Auction) { a.AssetAmount = decimal.Zero }, wantErr: apperrors.ErrValidation},
		{name: "same currencies", mutate: func(a *domain.Auction) { a.BidCurrency = a.AssetCurrency }, wantErr: apperrors.ErrValidation},
		{name: "missing bid currency", mutate: func(a *domain.Auction) { a.BidCurrency = "" }, wantErr: apperrors.ErrValidation},
		{name: "negative reserve", mutate: func(a *domain.Auction) { a.ReservePrice = decimal.NewFromInt(-1) }, wantErr: apperrors.ErrValidation},
		{name: "missing issuer", mutate: func(a *domain.Auction) { a.IssuerAccountID = "" }, wantErr: apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAuction(domain.AuctionOpen)
			tt.mutate(&a)
			err := a.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAuction_AcceptsBidsAt(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.AuctionStatus
		now     time.Time
		wantErr error
	}{
		{name: "open inside window", status: domain.AuctionOpen, now: t0.Add(time.Minute)},
		{name: "open at start", status: domain.AuctionOpen, now: t0},
		{name: "before start", status: domain.AuctionOpen, now: t0.Add(-time.Second), wantErr: domain.ErrAuctionNotOpen},
		{name: "at end", status: domain.AuctionOpen, now: t0.Add(10 * time.Minute), wantErr: domain.ErrExpired},
		{name: "closing", status: domain.AuctionClosing, now: t0.Add(time.Minute), wantErr: domain.ErrAuctionNotOpen},
		{name: "settled", status: domain.AuctionSettled, now: t0.Add(time.Minute), wantErr: domain.ErrAuctionNotOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAuction(tt.status)
			err := a.AcceptsBidsAt(tt.now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			}
		})
	}
}

func TestAuction_ApplyBid_Extension(t *testing.T) {
	a := newAuction(domain.AuctionOpen)
	early := domain.Bid{BidderAccountID: "alice", Amount: decimal.NewFromInt(110), SubmittedAt: t0.Add(time.Minute)}
	assert.False(t, a.ApplyBid(early, 2*time.Minute))
	assert.Equal(t, t0.Add(10*time.Minute), a.EndTime)

	late := domain.Bid{BidderAccountID: "bob", Amount: decimal.NewFromInt(120), SubmittedAt: t0.Add(9 * time.Minute)}
	assert.True(t, a.ApplyBid(late, 2*time.Minute))
	assert.Equal(t, t0.Add(11*time.Minute), a.EndTime)
	require.NotNil(t, a.BestBid)
	assert.Equal(t, "bob", a.BestBid.BidderAccountID)
	assert.True(t, decimal.NewFromInt(120).Equal(a.BestBid.Amount))

	noExt := newAuction(domain.AuctionOpen)
	assert.False(t, noExt.ApplyBid(late, 0))
	assert.Equal(t, t0.Add(10*time.Minute), noExt.EndTime)
}

func TestParseAuctionID(t *testing.T) {
	id, err := domain.ParseAuctionID("42")
	require.NoError(t, err)
	assert.Equal(t, domain.AuctionID(42), id)
	assert.Equal(t, "42", id.String())

	for _, bad := range []string{"", "0", "-1", "abc"} {
		_, err := domain.ParseAuctionID(bad)
		assert.ErrorIs(t, err, apperrors.ErrNotFound, bad)
	}
}

func TestSettlementTransfers(t *testing.T) {
	a := newAuction(domain.AuctionClosing)
	a.BestBid = &domain.BestBid{BidderAccountID: "bob", Amount: decimal.NewFromInt(120)}

	legs := domain.SettlementTransfers(a)
	require.Len(t, legs, 2)
	assert.Equal(t, domain.Transfer{From: "issuer", To: "bob", Currency: "SETT", Amount: decimal.NewFromInt(100)}, legs[0])
	assert.Equal(t, domain.Transfer{From: "bob", To: "issuer", Currency: "DNAR", Amount: decimal.NewFromInt(120), FromReserved: true}, legs[1])
	assert.Equal(t, "auction-7", domain.SettlementReference(a.AuctionID))
}

func TestAuctionFilter_Matches(t *testing.T) {
	a := newAuction(domain.AuctionOpen)
	cutoff := t0.Add(10 * time.Minute)
	early := t0.Add(time.Minute)

	assert.True(t, domain.AuctionFilter{}.Matches(a))
	assert.True(t, domain.AuctionFilter{Statuses: []domain.AuctionStatus{domain.AuctionClosing, domain.AuctionOpen}}.Matches(a))
	assert.False(t, domain.AuctionFilter{Statuses: []domain.AuctionStatus{domain.AuctionSettled}}.Matches(a))
	assert.False(t, domain.AuctionFilter{AssetCurrency: "DNAR"}.Matches(a))
	assert.True(t, domain.AuctionFilter{EndsAtOrBefore: &cutoff}.Matches(a))
	assert.False(t, domain.AuctionFilter{EndsAtOrBefore: &early}.Matches(a))
}
