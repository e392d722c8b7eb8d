package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	"github.com/SscSPs/sett_auction/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuctionMapping_BestBidAndOutcome(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	d := domain.Auction{
		AuctionID:       9,
		AssetCurrency:   "SETT",
		AssetAmount:     decimal.NewFromInt(100),
		BidCurrency:     "DNAR",
		ReservePrice:    decimal.NewFromInt(1),
		IssuerAccountID: "issuer",
		StartTime:       now,
		EndTime:         now.Add(time.Hour),
		Status:          domain.AuctionSettled,
		BestBid:         &domain.BestBid{BidderAccountID: "bob", Amount: decimal.NewFromInt(120), SubmittedAt: now},
		Outcome:         &domain.SettlementOutcome{AuctionID: 9, Status: domain.AuctionSettled, Winner: "bob", BidAmount: decimal.NewFromInt(120)},
		Version:         4,
		AuditFields:     domain.NewAuditFields("creator", now),
	}

	m, err := ToModelAuction(d)
	require.NoError(t, err)
	require.NotNil(t, m.BestBidderID)
	assert.Equal(t, "bob", *m.BestBidderID)
	assert.True(t, m.BestBidAmount.Valid)
	assert.NotEmpty(t, m.Outcome)

	back, err := ToDomainAuction(m)
	require.NoError(t, err)
	require.NotNil(t, back.BestBid)
	assert.Equal(t, "bob", back.BestBid.BidderAccountID)
	assert.True(t, decimal.NewFromInt(120).Equal(back.BestBid.Amount))
	require.NotNil(t, back.Outcome)
	assert.Equal(t, "bob", back.Outcome.Winner)
	assert.Equal(t, int64(4), back.Version)
	assert.Equal(t, "creator", back.CreatedBy)
}

func TestAuctionMapping_NoBid(t *testing.T) {
	m, err := ToModelAuction(domain.Auction{AuctionID: 1, Status: domain.AuctionOpen})
	require.NoError(t, err)
	assert.Nil(t, m.BestBidderID)
	assert.False(t, m.BestBidAmount.Valid)
	assert.Nil(t, m.Outcome)

	back, err := ToDomainAuction(m)
	require.NoError(t, err)
	assert.Nil(t, back.BestBid)
	assert.Nil(t, back.Outcome)
}

func TestToDomainAuction_AuditFieldsInUTC(t *testing.T) {
	zone := time.FixedZone("UTC+3", 3*60*60)
	created := time.Date(2024, 3, 1, 15, 0, 0, 0, zone)
	m := models.Auction{
		AuctionID: 3,
		AuditFields: models.AuditFields{
			CreatedAt:     created,
			CreatedBy:     "creator",
			LastUpdatedAt: created.Add(time.Minute),
			LastUpdatedBy: domain.SystemUserID,
		},
	}

	d, err := ToDomainAuction(m)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, d.CreatedAt.Location())
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), d.CreatedAt)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 1, 0, 0, time.UTC), d.LastUpdatedAt)
	assert.Equal(t, domain.SystemUserID, d.LastUpdatedBy)
}

func TestToDomainAuction_BadOutcome(t *testing.T) {
	_, err := ToDomainAuction(modelsAuctionWithOutcome([]byte("{")))
	assert.Error(t, err)
}

func modelsAuctionWithOutcome(raw []byte) models.Auction {
	return models.Auction{AuctionID: 2, Outcome: raw}
}
