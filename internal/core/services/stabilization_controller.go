package services

import (
	"time"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	portssvc "github.com/SscSPs/sett_auction/internal/core/ports/services"
	"github.com/SscSPs/sett_auction/internal/platform/config"
	"github.com/shopspring/decimal"
)

// stabilizationController is the issuance policy. It has no side effects
// and reads time only from the observation.
type stabilizationController struct {
	cfg          config.StabilizationConfig
	duration     time.Duration
	reservePrice decimal.Decimal
}

// NewStabilizationController creates the policy. duration and reservePrice
// parametrise every auction it requests.
func NewStabilizationController(cfg config.StabilizationConfig, duration time.Duration, reservePrice decimal.Decimal) portssvc.StabilizationControllerSvc {
	return &stabilizationController{cfg: cfg, duration: duration, reservePrice: reservePrice}
}

func (c *stabilizationController) Evaluate(deviation domain.PegDeviation, state domain.CurrencyAuctionState) *domain.AuctionRequest {
	if deviation.Currency != c.cfg.StableCurrency || !deviation.TargetPrice.IsPositive() {
		return nil
	}

	ratio := deviation.Ratio()
	if ratio.Abs().LessThan(c.cfg.PegThreshold) || ratio.IsZero() {
		return nil
	}
	if state.HasOpenAuction {
		return nil
	}
	if state.LastAuctionStart != nil && deviation.ObservedAt.Sub(*state.LastAuctionStart) < c.cfg.Cooldown {
		return nil
	}

	amount := deviation.Supply.Mul(ratio.Abs()).Truncate(c.cfg.AmountPrecision)
	if c.cfg.MaxAuctionAmount.IsPositive() && amount.GreaterThan(c.cfg.MaxAuctionAmount) {
		amount = c.cfg.MaxAuctionAmount
	}
	if !amount.IsPositive() {
		return nil
	}

	req := &domain.AuctionRequest{
		AssetAmount:  amount,
		Duration:     c.duration,
		ReservePrice: c.reservePrice,
	}
	if ratio.IsPositive() {
		// Above peg: sell new stable supply for reserve currency.
		req.Direction = domain.Expansion
		req.AssetCurrency = c.cfg.StableCurrency
		req.BidCurrency = c.cfg.ReserveCurrency
	} else {
		// Below peg: buy stable currency back with reserve currency.
		req.Direction = domain.Contraction
		req.AssetCurrency = c.cfg.ReserveCurrency
		req.BidCurrency = c.cfg.StableCurrency
	}
	return req
}
