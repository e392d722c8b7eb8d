package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/sett_auction/internal/apperrors"
	"github.com/SscSPs/sett_auction/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondServiceError writes the error response for err. Internal failures
// are logged with their cause and reported with failureMsg only.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, failureMsg string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error(failureMsg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": failureMsg})
		return
	}
	logger.Warn(failureMsg, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

// auctionIDParam parses the :auctionID path parameter, answering 404 when it
// cannot name an auction.
func auctionIDParam(c *gin.Context) (domain.AuctionID, bool) {
	id, err := domain.ParseAuctionID(c.Param("auctionID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Auction not found"})
		return 0, false
	}
	return id, true
}
