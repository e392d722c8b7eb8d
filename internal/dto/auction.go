package dto

import (
	"time"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAuctionRequest defines the data needed to open an auction.
// BidCurrency and ReservePrice fall back to configured defaults. The issuer
// is always the configured issuer account.
type CreateAuctionRequest struct {
	AssetCurrency   string           `json:"assetCurrency" binding:"required,uppercase,min=3,max=8"`
	AssetAmount     decimal.Decimal  `json:"assetAmount" binding:"gt=0" swaggertype:"string"`
	BidCurrency     string           `json:"bidCurrency,omitempty" binding:"omitempty,uppercase,min=3,max=8"`
	ReservePrice    *decimal.Decimal `json:"reservePrice,omitempty" binding:"omitempty,gte=0" swaggertype:"string"`
	DurationSeconds int64            `json:"durationSeconds"`
	StartTime       *time.Time       `json:"startTime,omitempty"` // nil opens immediately
}

// CreateAuctionResponse is returned after an auction was opened.
type CreateAuctionResponse struct {
	AuctionID domain.AuctionID `json:"auctionID"`
}

// BestBidResponse mirrors domain.BestBid.
type BestBidResponse struct {
	BidderAccountID string          `json:"bidderAccountID"`
	Amount          decimal.Decimal `json:"amount" swaggertype:"string"`
	SubmittedAt     time.Time       `json:"submittedAt"`
}

// AuctionResponse defines the data returned for an auction.
type AuctionResponse struct {
	AuctionID          domain.AuctionID          `json:"auctionID"`
	AssetCurrency      string                    `json:"assetCurrency"`
	AssetAmount        decimal.Decimal           `json:"assetAmount" swaggertype:"string"`
	BidCurrency        string                    `json:"bidCurrency"`
	ReservePrice       decimal.Decimal           `json:"reservePrice" swaggertype:"string"`
	IssuerAccountID    string                    `json:"issuerAccountID"`
	StartTime          time.Time                 `json:"startTime"`
	EndTime            time.Time                 `json:"endTime"`
	Status             domain.AuctionStatus      `json:"status"`
	BestBid            *BestBidResponse          `json:"bestBid,omitempty"`
	SettlementAttempts int                       `json:"settlementAttempts"`
	Outcome            *domain.SettlementOutcome `json:"outcome,omitempty"`
	CreatedAt          time.Time                 `json:"createdAt"`
	CreatedBy          string                    `json:"createdBy"`
	LastUpdatedAt      time.Time                 `json:"lastUpdatedAt"`
	LastUpdatedBy      string                    `json:"lastUpdatedBy"`
}

// ListAuctionsParams holds parameters for listing auctions.
type ListAuctionsParams struct {
	Status        string  `form:"status" binding:"omitempty,oneof=OPEN CLOSING SETTLED CANCELLED SETTLEMENT_FAILED"`
	AssetCurrency string  `form:"assetCurrency"`
	Limit         int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken     *string `form:"nextToken"`
}

// ListAuctionsResponse is a page of auctions.
type ListAuctionsResponse struct {
	Auctions  []AuctionResponse `json:"auctions"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToAuctionResponse converts a domain.Auction to AuctionResponse DTO.
func ToAuctionResponse(a *domain.Auction) AuctionResponse {
	resp := AuctionResponse{
		AuctionID:          a.AuctionID,
		AssetCurrency:      a.AssetCurrency,
		AssetAmount:        a.AssetAmount,
		BidCurrency:        a.BidCurrency,
		ReservePrice:       a.ReservePrice,
		IssuerAccountID:    a.IssuerAccountID,
		StartTime:          a.StartTime,
		EndTime:            a.EndTime,
		Status:             a.Status,
		SettlementAttempts: a.SettlementAttempts,
		Outcome:            a.Outcome,
		CreatedAt:          a.CreatedAt,
		CreatedBy:          a.CreatedBy,
		LastUpdatedAt:      a.LastUpdatedAt,
		LastUpdatedBy:      a.LastUpdatedBy,
	}
	if a.BestBid != nil {
		resp.BestBid = &BestBidResponse{
			BidderAccountID: a.BestBid.BidderAccountID,
			Amount:          a.BestBid.Amount,
			SubmittedAt:     a.BestBid.SubmittedAt,
		}
	}
	return resp
}

// ToAuctionResponses converts a slice of domain.Auction to []AuctionResponse.
func ToAuctionResponses(auctions []domain.Auction) []AuctionResponse {
	res := make([]AuctionResponse, len(auctions))
	for i := range auctions {
		res[i] = ToAuctionResponse(&auctions[i])
	}
	return res
}
