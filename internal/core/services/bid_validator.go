package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	portsrepo "github.com/SscSPs/sett_auction/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sett_auction/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// bidValidator decides whether a candidate bid may be accepted. It reads
// the ledger but never mutates anything.
type bidValidator struct {
	ledger       portsrepo.CurrencyLedger
	clock        portssvc.Clock
	minIncrement decimal.Decimal
}

// NewBidValidator creates a validator requiring each bid after the first to
// beat the best bid by at least minIncrement.
func NewBidValidator(ledger portsrepo.CurrencyLedger, clock portssvc.Clock, minIncrement decimal.Decimal) portssvc.BidValidatorSvc {
	return &bidValidator{ledger: ledger, clock: clock, minIncrement: minIncrement}
}

func (v *bidValidator) Validate(ctx context.Context, auction domain.Auction, candidate domain.Bid) error {
	if err := auction.AcceptsBidsAt(v.clock.Now()); err != nil {
		return err
	}
	if candidate.Currency != auction.BidCurrency {
		return fmt.Errorf("%w: auction accepts %s, bid is in %s", domain.ErrValidation, auction.BidCurrency, candidate.Currency)
	}
	if !candidate.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", domain.ErrBidTooLow)
	}

	best := auction.BestBid
	if best == nil {
		if candidate.Amount.LessThan(auction.ReservePrice) {
			return fmt.Errorf("%w: %s is below the reserve price %s", domain.ErrBidTooLow, candidate.Amount, auction.ReservePrice)
		}
	} else {
		// Equal bids never improve on the best bid, even with a zero increment.
		if !candidate.Amount.GreaterThan(best.Amount) {
			return fmt.Errorf("%w: %s does not exceed %s", domain.ErrBidTooLow, candidate.Amount, best.Amount)
		}
		if candidate.Amount.Sub(best.Amount).LessThan(v.minIncrement) {
			return fmt.Errorf("%w: increment below minimum %s", domain.ErrBidTooLow, v.minIncrement)
		}
	}

	available, err := v.ledger.Balance(ctx, candidate.BidderAccountID, auction.BidCurrency)
	if err != nil {
		return fmt.Errorf("failed to read balance: %w", err)
	}
	// A bidder raising their own bid can reuse the amount already reserved.
	if best != nil && best.BidderAccountID == candidate.BidderAccountID {
		available = available.Add(best.Amount)
	}
	if available.LessThan(candidate.Amount) {
		return fmt.Errorf("%w: %s available, %s bid", domain.ErrInsufficientFunds, available, candidate.Amount)
	}
	return nil
}
