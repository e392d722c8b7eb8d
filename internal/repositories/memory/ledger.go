package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	portsrepo "github.com/SscSPs/sett_auction/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type balanceKey struct {
	account  string
	currency string
}

type balance struct {
	free     decimal.Decimal
	reserved decimal.Decimal
}

// Ledger is an in-memory currency ledger. Minting accounts may run a negative
// free balance; they model the issuer creating new supply.
type Ledger struct {
	mu       sync.Mutex
	balances map[balanceKey]balance
	applied  map[string]struct{}
	minting  map[string]struct{}
}

// NewLedger creates an empty ledger. mintingAccounts are allowed to go negative.
func NewLedger(mintingAccounts ...string) *Ledger {
	l := &Ledger{
		balances: make(map[balanceKey]balance),
		applied:  make(map[string]struct{}),
		minting:  make(map[string]struct{}),
	}
	for _, acc := range mintingAccounts {
		l.minting[acc] = struct{}{}
	}
	return l
}

func (l *Ledger) Balance(_ context.Context, accountID, currency string) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[balanceKey{accountID, currency}].free, nil
}

func (l *Ledger) ReservedBalance(_ context.Context, accountID, currency string) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[balanceKey{accountID, currency}].reserved, nil
}

func (l *Ledger) Deposit(_ context.Context, accountID, currency string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit amount must be positive", domain.ErrValidation)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	k := balanceKey{accountID, currency}
	b := l.balances[k]
	b.free = b.free.Add(amount)
	l.balances[k] = b
	return nil
}

func (l *Ledger) Reserve(_ context.Context, accountID, currency string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	staged := stage{l: l, pending: map[balanceKey]balance{}}
	if err := staged.reserve(accountID, currency, amount); err != nil {
		return err
	}
	staged.commit()
	return nil
}

func (l *Ledger) Unreserve(_ context.Context, accountID, currency string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	staged := stage{l: l, pending: map[balanceKey]balance{}}
	if err := staged.unreserve(accountID, currency, amount); err != nil {
		return err
	}
	staged.commit()
	return nil
}

func (l *Ledger) Transfer(_ context.Context, from, to, currency string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	staged := stage{l: l, pending: map[balanceKey]balance{}}
	if err := staged.transfer(domain.Transfer{From: from, To: to, Currency: currency, Amount: amount}); err != nil {
		return err
	}
	staged.commit()
	return nil
}

func (l *Ledger) ApplyTransfers(_ context.Context, reference string, transfers []domain.Transfer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, done := l.applied[reference]; done {
		return nil
	}
	staged := stage{l: l, pending: map[balanceKey]balance{}}
	for i, t := range transfers {
		if err := staged.transfer(t); err != nil {
			return fmt.Errorf("transfer %d of %s: %w", i, reference, err)
		}
	}
	staged.commit()
	l.applied[reference] = struct{}{}
	return nil
}

// stage accumulates balance changes so a failing leg leaves the ledger untouched.
type stage struct {
	l       *Ledger
	pending map[balanceKey]balance
}

func (s stage) get(k balanceKey) balance {
	if b, ok := s.pending[k]; ok {
		return b
	}
	return s.l.balances[k]
}

func (s stage) reserve(account, currency string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: reserve amount must not be negative", domain.ErrValidation)
	}
	k := balanceKey{account, currency}
	b := s.get(k)
	if b.free.LessThan(amount) {
		return fmt.Errorf("%w: %s holds %s %s, needs %s", domain.ErrInsufficientFunds, account, b.free, currency, amount)
	}
	b.free = b.free.Sub(amount)
	b.reserved = b.reserved.Add(amount)
	s.pending[k] = b
	return nil
}

func (s stage) unreserve(account, currency string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: unreserve amount must not be negative", domain.ErrValidation)
	}
	k := balanceKey{account, currency}
	b := s.get(k)
	if b.reserved.LessThan(amount) {
		return fmt.Errorf("%w: %s has %s %s reserved, cannot release %s", domain.ErrValidation, account, b.reserved, currency, amount)
	}
	b.reserved = b.reserved.Sub(amount)
	b.free = b.free.Add(amount)
	s.pending[k] = b
	return nil
}

func (s stage) transfer(t domain.Transfer) error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: transfer amount must be positive", domain.ErrValidation)
	}
	fromKey := balanceKey{t.From, t.Currency}
	from := s.get(fromKey)
	_, minting := s.l.minting[t.From]
	if t.FromReserved {
		if from.reserved.LessThan(t.Amount) {
			return fmt.Errorf("%w: %s has %s %s reserved, needs %s", domain.ErrInsufficientFunds, t.From, from.reserved, t.Currency, t.Amount)
		}
		from.reserved = from.reserved.Sub(t.Amount)
	} else {
		if !minting && from.free.LessThan(t.Amount) {
			return fmt.Errorf("%w: %s holds %s %s, needs %s", domain.ErrInsufficientFunds, t.From, from.free, t.Currency, t.Amount)
		}
		from.free = from.free.Sub(t.Amount)
	}
	s.pending[fromKey] = from

	toKey := balanceKey{t.To, t.Currency}
	to := s.get(toKey)
	to.free = to.free.Add(t.Amount)
	s.pending[toKey] = to
	return nil
}

func (s stage) commit() {
	for k, b := range s.pending {
		s.l.balances[k] = b
	}
}

var _ portsrepo.CurrencyLedgerFacade = (*Ledger)(nil)
