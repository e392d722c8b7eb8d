package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/sett_auction/internal/apperrors"
	portsrepo "github.com/SscSPs/sett_auction/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sett_auction/internal/core/ports/services"
	"github.com/SscSPs/sett_auction/internal/dto"
)

// ledgerService exposes the currency ledger over the API.
type ledgerService struct {
	BaseService
	ledger portsrepo.CurrencyLedgerFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledger portsrepo.CurrencyLedgerFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledger: ledger}
}

func (s *ledgerService) GetBalance(ctx context.Context, accountID, currency string) (*dto.BalanceResponse, error) {
	free, err := s.ledger.Balance(ctx, accountID, currency)
	if err != nil {
		s.LogError(ctx, err, "Failed to read free balance", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	reserved, err := s.ledger.ReservedBalance(ctx, accountID, currency)
	if err != nil {
		s.LogError(ctx, err, "Failed to read reserved balance", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to read reserved balance: %w", err)
	}
	return &dto.BalanceResponse{AccountID: accountID, Currency: currency, Free: free, Reserved: reserved}, nil
}

func (s *ledgerService) Deposit(ctx context.Context, accountID string, req dto.DepositRequest, userID string) (*dto.BalanceResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: deposit amount must be positive", apperrors.ErrValidation)
	}
	if err := s.ledger.Deposit(ctx, accountID, req.Currency, req.Amount); err != nil {
		s.LogError(ctx, err, "Failed to deposit", slog.String("account_id", accountID))
		return nil, err
	}
	s.LogInfo(ctx, "Deposit credited",
		slog.String("account_id", accountID),
		slog.String("currency", req.Currency),
		slog.String("amount", req.Amount.String()),
		slog.String("by", userID))
	return s.GetBalance(ctx, accountID, req.Currency)
}
