package dto

import (
	"github.com/shopspring/decimal"
)

// DepositRequest credits free balance to an account.
type DepositRequest struct {
	Currency string          `json:"currency" binding:"required,uppercase"`
	Amount   decimal.Decimal `json:"amount" binding:"gt=0" swaggertype:"string"`
}

// BalanceResponse defines the data returned for an account balance.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	Currency  string          `json:"currency"`
	Free      decimal.Decimal `json:"free" swaggertype:"string"`
	Reserved  decimal.Decimal `json:"reserved" swaggertype:"string"`
}
