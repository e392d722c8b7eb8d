package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/sett_auction/internal/core/ports/services"
	"github.com/SscSPs/sett_auction/internal/dto"
	"github.com/SscSPs/sett_auction/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler exposes account balances of the currency ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// RegisterLedgerRoutes registers the balance route, and the deposit route
// when allowDeposits is set. Deposits mint funds out of nothing, so they only
// exist outside production.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, allowDeposits bool) {
	h := &ledgerHandler{ledgerService: ledgerService}

	accounts := rg.Group("/ledger/accounts/:accountID")
	accounts.GET("/balances/:currency", h.getBalance)
	if allowDeposits {
		accounts.POST("/deposits", h.deposit)
	}
}

// getBalance godoc
// @Summary Get an account balance
// @Description Returns the free and reserved balance of an account in one currency
// @Tags ledger
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   currency path string true "Currency code"
// @Success 200 {object} dto.BalanceResponse
// @Failure 500 {object} map[string]string "Failed to retrieve balance"
// @Security BearerAuth
// @Router /ledger/accounts/{accountID}/balances/{currency} [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	currency := strings.ToUpper(c.Param("currency"))

	resp, err := h.ledgerService.GetBalance(c.Request.Context(), accountID, currency)
	if err != nil {
		respondServiceError(c, logger.With(slog.String("account_id", accountID)), err, "Failed to retrieve balance")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// deposit godoc
// @Summary Deposit funds
// @Description Credits free balance to an account
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   deposit body dto.DepositRequest true "Deposit details"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to deposit"
// @Security BearerAuth
// @Router /ledger/accounts/{accountID}/deposits [post]
func (h *ledgerHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.ledgerService.Deposit(c.Request.Context(), accountID, req, userID)
	if err != nil {
		respondServiceError(c, logger.With(slog.String("account_id", accountID)), err, "Failed to deposit")
		return
	}
	c.JSON(http.StatusOK, resp)
}
