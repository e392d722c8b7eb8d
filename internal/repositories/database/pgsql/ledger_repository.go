package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	portsrepo "github.com/SscSPs/sett_auction/internal/core/ports/repositories"
	"github.com/SscSPs/sett_auction/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
	minting map[string]struct{}
}

// newPgxLedgerRepository creates the currency ledger. mintingAccounts may
// carry a negative free balance.
func newPgxLedgerRepository(pool *pgxpool.Pool, mintingAccounts ...string) portsrepo.CurrencyLedgerFacade {
	minting := make(map[string]struct{}, len(mintingAccounts))
	for _, acc := range mintingAccounts {
		minting[acc] = struct{}{}
	}
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		minting:        minting,
	}
}

// Ensure implementation matches interface
var _ portsrepo.CurrencyLedgerFacade = (*PgxLedgerRepository)(nil)

type balanceKey struct {
	account  string
	currency string
}

func (r *PgxLedgerRepository) readBalance(ctx context.Context, accountID, currency string) (models.LedgerBalance, error) {
	b := models.LedgerBalance{AccountID: accountID, Currency: currency}
	err := r.Pool.QueryRow(ctx,
		`SELECT free, reserved FROM ledger_balances WHERE account_id = $1 AND currency = $2;`,
		accountID, currency,
	).Scan(&b.Free, &b.Reserved)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return b, fmt.Errorf("failed to read balance of %s %s: %w", accountID, currency, err)
	}
	return b, nil
}

func (r *PgxLedgerRepository) Balance(ctx context.Context, accountID, currency string) (decimal.Decimal, error) {
	b, err := r.readBalance(ctx, accountID, currency)
	return b.Free, err
}

func (r *PgxLedgerRepository) ReservedBalance(ctx context.Context, accountID, currency string) (decimal.Decimal, error) {
	b, err := r.readBalance(ctx, accountID, currency)
	return b.Reserved, err
}

// lockBalances creates missing rows and locks all of keys in a fixed order
// so concurrent mutations cannot deadlock.
func lockBalances(ctx context.Context, tx pgx.Tx, keys []balanceKey) (map[balanceKey]*models.LedgerBalance, error) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].account != keys[j].account {
			return keys[i].account < keys[j].account
		}
		return keys[i].currency < keys[j].currency
	})

	locked := make(map[balanceKey]*models.LedgerBalance, len(keys))
	for _, k := range keys {
		if _, ok := locked[k]; ok {
			continue
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO ledger_balances (account_id, currency, free, reserved)
			VALUES ($1, $2, 0, 0)
			ON CONFLICT (account_id, currency) DO NOTHING;
		`, k.account, k.currency)
		if err != nil {
			return nil, fmt.Errorf("failed to create balance row %s %s: %w", k.account, k.currency, err)
		}

		b := &models.LedgerBalance{AccountID: k.account, Currency: k.currency}
		err = tx.QueryRow(ctx,
			`SELECT free, reserved FROM ledger_balances WHERE account_id = $1 AND currency = $2 FOR UPDATE;`,
			k.account, k.currency,
		).Scan(&b.Free, &b.Reserved)
		if err != nil {
			return nil, fmt.Errorf("failed to lock balance %s %s: %w", k.account, k.currency, err)
		}
		locked[k] = b
	}
	return locked, nil
}

func writeBalances(ctx context.Context, tx pgx.Tx, balances map[balanceKey]*models.LedgerBalance) error {
	batch := &pgx.Batch{}
	for _, b := range balances {
		batch.Queue(`UPDATE ledger_balances SET free = $3, reserved = $4 WHERE account_id = $1 AND currency = $2;`,
			b.AccountID, b.Currency, b.Free, b.Reserved)
	}
	results := tx.SendBatch(ctx, batch)
	for range balances {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to update balance: %w", err)
		}
	}
	return results.Close()
}

// mutate locks the balances in keys, lets fn adjust them and writes them back.
func (r *PgxLedgerRepository) mutate(ctx context.Context, keys []balanceKey, fn func(map[balanceKey]*models.LedgerBalance) error) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		balances, err := lockBalances(ctx, tx, keys)
		if err != nil {
			return err
		}
		if err := fn(balances); err != nil {
			return err
		}
		return writeBalances(ctx, tx, balances)
	})
}

func (r *PgxLedgerRepository) Deposit(ctx context.Context, accountID, currency string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit amount must be positive", domain.ErrValidation)
	}
	k := balanceKey{accountID, currency}
	return r.mutate(ctx, []balanceKey{k}, func(b map[balanceKey]*models.LedgerBalance) error {
		b[k].Free = b[k].Free.Add(amount)
		return nil
	})
}

func (r *PgxLedgerRepository) Reserve(ctx context.Context, accountID, currency string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: reserve amount must not be negative", domain.ErrValidation)
	}
	k := balanceKey{accountID, currency}
	return r.mutate(ctx, []balanceKey{k}, func(b map[balanceKey]*models.LedgerBalance) error {
		if b[k].Free.LessThan(amount) {
			return fmt.Errorf("%w: %s holds %s %s, needs %s", domain.ErrInsufficientFunds, accountID, b[k].Free, currency, amount)
		}
		b[k].Free = b[k].Free.Sub(amount)
		b[k].Reserved = b[k].Reserved.Add(amount)
		return nil
	})
}

func (r *PgxLedgerRepository) Unreserve(ctx context.Context, accountID, currency string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: unreserve amount must not be negative", domain.ErrValidation)
	}
	k := balanceKey{accountID, currency}
	return r.mutate(ctx, []balanceKey{k}, func(b map[balanceKey]*models.LedgerBalance) error {
		if b[k].Reserved.LessThan(amount) {
			return fmt.Errorf("%w: %s has %s %s reserved, cannot release %s", domain.ErrValidation, accountID, b[k].Reserved, currency, amount)
		}
		b[k].Reserved = b[k].Reserved.Sub(amount)
		b[k].Free = b[k].Free.Add(amount)
		return nil
	})
}

func (r *PgxLedgerRepository) Transfer(ctx context.Context, from, to, currency string, amount decimal.Decimal) error {
	t := domain.Transfer{From: from, To: to, Currency: currency, Amount: amount}
	return r.mutate(ctx, transferKeys([]domain.Transfer{t}), func(b map[balanceKey]*models.LedgerBalance) error {
		return r.applyLeg(b, t)
	})
}

func transferKeys(transfers []domain.Transfer) []balanceKey {
	keys := make([]balanceKey, 0, 2*len(transfers))
	for _, t := range transfers {
		keys = append(keys, balanceKey{t.From, t.Currency}, balanceKey{t.To, t.Currency})
	}
	return keys
}

func (r *PgxLedgerRepository) applyLeg(b map[balanceKey]*models.LedgerBalance, t domain.Transfer) error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: transfer amount must be positive", domain.ErrValidation)
	}
	from := b[balanceKey{t.From, t.Currency}]
	to := b[balanceKey{t.To, t.Currency}]
	if t.FromReserved {
		if from.Reserved.LessThan(t.Amount) {
			return fmt.Errorf("%w: %s has %s %s reserved, needs %s", domain.ErrInsufficientFunds, t.From, from.Reserved, t.Currency, t.Amount)
		}
		from.Reserved = from.Reserved.Sub(t.Amount)
	} else {
		if _, minting := r.minting[t.From]; !minting && from.Free.LessThan(t.Amount) {
			return fmt.Errorf("%w: %s holds %s %s, needs %s", domain.ErrInsufficientFunds, t.From, from.Free, t.Currency, t.Amount)
		}
		from.Free = from.Free.Sub(t.Amount)
	}
	to.Free = to.Free.Add(t.Amount)
	return nil
}

// ApplyTransfers records reference and applies every leg in one
// transaction. A reference already recorded makes the call a no-op.
func (r *PgxLedgerRepository) ApplyTransfers(ctx context.Context, reference string, transfers []domain.Transfer) error {
	legs, err := json.Marshal(transfers)
	if err != nil {
		return fmt.Errorf("failed to encode transfers of %s: %w", reference, err)
	}

	return r.InTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO ledger_transfers (reference, transfers, applied_at)
			VALUES ($1, $2, now())
			ON CONFLICT (reference) DO NOTHING;
		`, reference, legs)
		if err != nil {
			return fmt.Errorf("failed to record transfer %s: %w", reference, err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		balances, err := lockBalances(ctx, tx, transferKeys(transfers))
		if err != nil {
			return err
		}
		for i, t := range transfers {
			if err := r.applyLeg(balances, t); err != nil {
				return fmt.Errorf("transfer %d of %s: %w", i, reference, err)
			}
		}
		return writeBalances(ctx, tx, balances)
	})
}
