package pgsql

import (
	portsrepo "github.com/SscSPs/sett_auction/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres adapters. mintingAccounts are
// ledger accounts allowed to issue new supply.
func NewRepositoryProvider(dbPool *pgxpool.Pool, mintingAccounts ...string) portsrepo.RepositoryProvider {
	auctionRepo := newPgxAuctionRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool, mintingAccounts...)

	return portsrepo.RepositoryProvider{
		AuctionRepo: auctionRepo,
		Ledger:      ledgerRepo,
	}
}
