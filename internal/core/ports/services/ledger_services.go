package services

import (
	"context"

	"github.com/SscSPs/sett_auction/internal/dto"
)

// LedgerReaderSvc exposes balances held by the currency ledger
type LedgerReaderSvc interface {
	GetBalance(ctx context.Context, accountID, currency string) (*dto.BalanceResponse, error)
}

// LedgerWriterSvc credits accounts
type LedgerWriterSvc interface {
	Deposit(ctx context.Context, accountID string, req dto.DepositRequest, userID string) (*dto.BalanceResponse, error)
}

// LedgerSvcFacade combines ledger operations
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
