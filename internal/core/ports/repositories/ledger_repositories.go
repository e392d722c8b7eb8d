package repositories

import (
	"context"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyLedger is the capability the auction core needs from a currency
// implementation. Every mutation either fully succeeds or leaves balances unchanged.
type CurrencyLedger interface {
	// Balance returns the free (unreserved) balance.
	Balance(ctx context.Context, accountID, currency string) (decimal.Decimal, error)

	// ReservedBalance returns the balance currently held in reserve.
	ReservedBalance(ctx context.Context, accountID, currency string) (decimal.Decimal, error)

	// Reserve moves amount from free to reserved. Returns domain.ErrInsufficientFunds
	// if the free balance is too small.
	Reserve(ctx context.Context, accountID, currency string, amount decimal.Decimal) error

	// Unreserve moves amount from reserved back to free.
	Unreserve(ctx context.Context, accountID, currency string, amount decimal.Decimal) error

	// Transfer moves amount of free balance between accounts.
	Transfer(ctx context.Context, from, to, currency string, amount decimal.Decimal) error

	// ApplyTransfers applies every leg atomically. A reference that was already
	// applied is a no-op returning nil.
	ApplyTransfers(ctx context.Context, reference string, transfers []domain.Transfer) error
}

// LedgerFunder credits free balance to an account. Used for deposits and tests.
type LedgerFunder interface {
	Deposit(ctx context.Context, accountID, currency string, amount decimal.Decimal) error
}

// CurrencyLedgerFacade is a ledger adapter that can also be funded.
type CurrencyLedgerFacade interface {
	CurrencyLedger
	LedgerFunder
}
