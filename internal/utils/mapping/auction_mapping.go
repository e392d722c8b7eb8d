package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	"github.com/SscSPs/sett_auction/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelAuction converts a domain Auction to a model Auction.
func ToModelAuction(d domain.Auction) (models.Auction, error) {
	m := models.Auction{
		AuctionID:          int64(d.AuctionID),
		AssetCurrency:      d.AssetCurrency,
		AssetAmount:        d.AssetAmount,
		BidCurrency:        d.BidCurrency,
		ReservePrice:       d.ReservePrice,
		IssuerAccountID:    d.IssuerAccountID,
		StartTime:          d.StartTime,
		EndTime:            d.EndTime,
		Status:             string(d.Status),
		SettlementAttempts: d.SettlementAttempts,
		Version:            d.Version,
		AuditFields:        models.AuditFields(d.AuditFields),
	}
	if d.BestBid != nil {
		bidder := d.BestBid.BidderAccountID
		at := d.BestBid.SubmittedAt
		m.BestBidderID = &bidder
		m.BestBidAmount = decimal.NewNullDecimal(d.BestBid.Amount)
		m.BestBidAt = &at
	}
	if d.Outcome != nil {
		raw, err := json.Marshal(d.Outcome)
		if err != nil {
			return models.Auction{}, fmt.Errorf("failed to encode settlement outcome: %w", err)
		}
		m.Outcome = raw
	}
	return m, nil
}

// ToDomainAuction converts a model Auction to a domain Auction.
func ToDomainAuction(m models.Auction) (domain.Auction, error) {
	d := domain.Auction{
		AuctionID:          domain.AuctionID(m.AuctionID),
		AssetCurrency:      m.AssetCurrency,
		AssetAmount:        m.AssetAmount,
		BidCurrency:        m.BidCurrency,
		ReservePrice:       m.ReservePrice,
		IssuerAccountID:    m.IssuerAccountID,
		StartTime:          m.StartTime.UTC(),
		EndTime:            m.EndTime.UTC(),
		Status:             domain.AuctionStatus(m.Status),
		SettlementAttempts: m.SettlementAttempts,
		Version:            m.Version,
		AuditFields:        auditFieldsUTC(m.AuditFields),
	}
	if m.BestBidderID != nil && m.BestBidAmount.Valid {
		best := &domain.BestBid{BidderAccountID: *m.BestBidderID, Amount: m.BestBidAmount.Decimal}
		if m.BestBidAt != nil {
			best.SubmittedAt = m.BestBidAt.UTC()
		}
		d.BestBid = best
	}
	if len(m.Outcome) > 0 {
		var outcome domain.SettlementOutcome
		if err := json.Unmarshal(m.Outcome, &outcome); err != nil {
			return domain.Auction{}, fmt.Errorf("failed to decode settlement outcome of auction %d: %w", m.AuctionID, err)
		}
		d.Outcome = &outcome
	}
	return d, nil
}

// auditFieldsUTC converts audit columns read from TIMESTAMPTZ, which pgx
// returns in the session's zone.
func auditFieldsUTC(m models.AuditFields) domain.AuditFields {
	a := domain.AuditFields(m)
	a.CreatedAt = a.CreatedAt.UTC()
	a.LastUpdatedAt = a.LastUpdatedAt.UTC()
	return a
}

// ToModelBid converts a domain Bid to a model Bid.
func ToModelBid(d domain.Bid) models.Bid {
	return models.Bid{
		BidID:           d.BidID,
		AuctionID:       int64(d.AuctionID),
		BidderAccountID: d.BidderAccountID,
		Amount:          d.Amount,
		Currency:        d.Currency,
		SubmittedAt:     d.SubmittedAt,
	}
}

// ToDomainBid converts a model Bid to a domain Bid.
func ToDomainBid(m models.Bid) domain.Bid {
	return domain.Bid{
		BidID:           m.BidID,
		AuctionID:       domain.AuctionID(m.AuctionID),
		BidderAccountID: m.BidderAccountID,
		Amount:          m.Amount,
		Currency:        m.Currency,
		SubmittedAt:     m.SubmittedAt.UTC(),
	}
}

// ToDomainBidSlice converts a slice of model Bids to domain Bids.
func ToDomainBidSlice(ms []models.Bid) []domain.Bid {
	if ms == nil {
		return nil
	}
	ds := make([]domain.Bid, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBid(m)
	}
	return ds
}
