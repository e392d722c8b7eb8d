package memory

import (
	"context"
	"testing"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertBalances(t *testing.T, l *Ledger, account, currency string, free, reserved int64) {
	t.Helper()
	ctx := context.Background()
	gotFree, err := l.Balance(ctx, account, currency)
	require.NoError(t, err)
	gotReserved, err := l.ReservedBalance(ctx, account, currency)
	require.NoError(t, err)
	assert.True(t, d(free).Equal(gotFree), "%s free: want %d got %s", account, free, gotFree)
	assert.True(t, d(reserved).Equal(gotReserved), "%s reserved: want %d got %s", account, reserved, gotReserved)
}

func TestLedger_ReserveAndUnreserve(t *testing.T) {
	l := NewLedger()
	ctx := context.Background()
	require.NoError(t, l.Deposit(ctx, "alice", "DNAR", d(200)))

	require.NoError(t, l.Reserve(ctx, "alice", "DNAR", d(150)))
	assertBalances(t, l, "alice", "DNAR", 50, 150)

	assert.ErrorIs(t, l.Reserve(ctx, "alice", "DNAR", d(51)), domain.ErrInsufficientFunds)
	assertBalances(t, l, "alice", "DNAR", 50, 150)

	require.NoError(t, l.Unreserve(ctx, "alice", "DNAR", d(100)))
	assertBalances(t, l, "alice", "DNAR", 150, 50)

	assert.ErrorIs(t, l.Unreserve(ctx, "alice", "DNAR", d(60)), domain.ErrValidation)
	assert.ErrorIs(t, l.Deposit(ctx, "alice", "DNAR", d(0)), domain.ErrValidation)
}

func TestLedger_Transfer(t *testing.T) {
	l := NewLedger("issuer")
	ctx := context.Background()
	require.NoError(t, l.Deposit(ctx, "alice", "DNAR", d(10)))

	assert.ErrorIs(t, l.Transfer(ctx, "alice", "bob", "DNAR", d(11)), domain.ErrInsufficientFunds)
	require.NoError(t, l.Transfer(ctx, "alice", "bob", "DNAR", d(10)))
	assertBalances(t, l, "bob", "DNAR", 10, 0)

	// minting account may go negative
	require.NoError(t, l.Transfer(ctx, "issuer", "bob", "SETT", d(100)))
	assertBalances(t, l, "issuer", "SETT", -100, 0)
	assertBalances(t, l, "bob", "SETT", 100, 0)
}

func TestLedger_ApplyTransfers_AtomicAndIdempotent(t *testing.T) {
	l := NewLedger("issuer")
	ctx := context.Background()
	require.NoError(t, l.Deposit(ctx, "bob", "DNAR", d(120)))
	require.NoError(t, l.Reserve(ctx, "bob", "DNAR", d(120)))

	legs := []domain.Transfer{
		{From: "issuer", To: "bob", Currency: "SETT", Amount: d(100)},
		{From: "bob", To: "issuer", Currency: "DNAR", Amount: d(121), FromReserved: true},
	}
	err := l.ApplyTransfers(ctx, "auction-1", legs)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assertBalances(t, l, "bob", "SETT", 0, 0)
	assertBalances(t, l, "bob", "DNAR", 0, 120)

	legs[1].Amount = d(120)
	require.NoError(t, l.ApplyTransfers(ctx, "auction-1", legs))
	require.NoError(t, l.ApplyTransfers(ctx, "auction-1", legs))

	assertBalances(t, l, "bob", "SETT", 100, 0)
	assertBalances(t, l, "bob", "DNAR", 0, 0)
	assertBalances(t, l, "issuer", "DNAR", 120, 0)
	assertBalances(t, l, "issuer", "SETT", -100, 0)
}
