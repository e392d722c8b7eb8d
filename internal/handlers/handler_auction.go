package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/sett_auction/internal/core/ports/services"
	"github.com/SscSPs/sett_auction/internal/dto"
	"github.com/SscSPs/sett_auction/internal/middleware"
	"github.com/gin-gonic/gin"
)

// auctionHandler handles HTTP requests related to auctions, bids and settlement.
type auctionHandler struct {
	auctionService    portssvc.AuctionLedgerSvcFacade
	bidService        portssvc.BidSvc
	settlementService portssvc.SettlementSvc
}

// newAuctionHandler creates a new auctionHandler.
func newAuctionHandler(as portssvc.AuctionLedgerSvcFacade, bs portssvc.BidSvc, ss portssvc.SettlementSvc) *auctionHandler {
	return &auctionHandler{
		auctionService:    as,
		bidService:        bs,
		settlementService: ss,
	}
}

// RegisterAuctionRoutes registers routes related to auctions. bidLimit guards
// bid submission and may be nil.
func RegisterAuctionRoutes(
	rg *gin.RouterGroup,
	auctionService portssvc.AuctionLedgerSvcFacade,
	bidService portssvc.BidSvc,
	settlementService portssvc.SettlementSvc,
	bidLimit gin.HandlerFunc,
) {
	h := newAuctionHandler(auctionService, bidService, settlementService)

	bidChain := []gin.HandlerFunc{h.placeBid}
	if bidLimit != nil {
		bidChain = append([]gin.HandlerFunc{bidLimit}, bidChain...)
	}

	auctions := rg.Group("/auctions")
	{
		auctions.POST("", h.createAuction)
		auctions.GET("", h.listAuctions)
		auctions.GET("/:auctionID", h.getAuction)
		auctions.DELETE("/:auctionID", h.deleteAuction)
		auctions.GET("/:auctionID/bids", h.listBids)
		auctions.POST("/:auctionID/bids", bidChain...)
		auctions.POST("/:auctionID/settle", h.settleAuction)
	}
}

// createAuction godoc
// @Summary Open a new auction
// @Description Opens an auction selling an amount of one currency for another. A future startTime schedules it.
// @Tags auctions
// @Accept  json
// @Produce  json
// @Param   auction body dto.CreateAuctionRequest true "Auction details"
// @Success 201 {object} dto.CreateAuctionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create auction"
// @Security BearerAuth
// @Router /auctions [post]
func (h *auctionHandler) createAuction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAuction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := h.auctionService.Create(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create auction")
		return
	}

	logger.Info("Auction created successfully", slog.String("auction_id", id.String()))
	c.JSON(http.StatusCreated, dto.CreateAuctionResponse{AuctionID: id})
}

// listAuctions godoc
// @Summary List auctions
// @Description Lists auctions in ascending ID order with keyset pagination
// @Tags auctions
// @Produce  json
// @Param   status query string false "Filter by status" Enums(OPEN, CLOSING, SETTLED, CANCELLED, SETTLEMENT_FAILED)
// @Param   assetCurrency query string false "Filter by asset currency"
// @Param   limit query int false "Page size (1-100, default 20)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListAuctionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list auctions"
// @Security BearerAuth
// @Router /auctions [get]
func (h *auctionHandler) listAuctions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAuctionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListAuctions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.auctionService.List(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list auctions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getAuction godoc
// @Summary Get an auction
// @Description Retrieves an auction with its best bid and, once closed, its settlement outcome
// @Tags auctions
// @Produce  json
// @Param   auctionID path int true "Auction ID"
// @Success 200 {object} dto.AuctionResponse
// @Failure 404 {object} map[string]string "Auction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve auction"
// @Security BearerAuth
// @Router /auctions/{auctionID} [get]
func (h *auctionHandler) getAuction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := auctionIDParam(c)
	if !ok {
		return
	}

	auction, err := h.auctionService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, logger.With(slog.String("auction_id", id.String())), err, "Failed to retrieve auction")
		return
	}
	c.JSON(http.StatusOK, dto.ToAuctionResponse(auction))
}

// deleteAuction godoc
// @Summary Delete a closed auction
// @Description Removes a settled, cancelled or failed auction and its bid history
// @Tags auctions
// @Param   auctionID path int true "Auction ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Auction not found"
// @Failure 409 {object} map[string]string "Auction is not closed"
// @Failure 500 {object} map[string]string "Failed to delete auction"
// @Security BearerAuth
// @Router /auctions/{auctionID} [delete]
func (h *auctionHandler) deleteAuction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := auctionIDParam(c)
	if !ok {
		return
	}
	logger = logger.With(slog.String("auction_id", id.String()))

	if err := h.auctionService.Remove(c.Request.Context(), id); err != nil {
		respondServiceError(c, logger, err, "Failed to delete auction")
		return
	}

	logger.Info("Auction deleted successfully")
	c.Status(http.StatusNoContent)
}

// listBids godoc
// @Summary List accepted bids
// @Description Lists the accepted bids of an auction in submission order
// @Tags bids
// @Produce  json
// @Param   auctionID path int true "Auction ID"
// @Success 200 {array} dto.BidResponse
// @Failure 404 {object} map[string]string "Auction not found"
// @Failure 500 {object} map[string]string "Failed to list bids"
// @Security BearerAuth
// @Router /auctions/{auctionID}/bids [get]
func (h *auctionHandler) listBids(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := auctionIDParam(c)
	if !ok {
		return
	}

	bids, err := h.auctionService.ListBids(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, logger.With(slog.String("auction_id", id.String())), err, "Failed to list bids")
		return
	}
	c.JSON(http.StatusOK, dto.ToBidResponses(bids))
}

// placeBid godoc
// @Summary Place a bid
// @Description Bids on an open auction as the authenticated account. The amount is reserved until the bid is outbid or settled.
// @Tags bids
// @Accept  json
// @Produce  json
// @Param   auctionID path int true "Auction ID"
// @Param   bid body dto.PlaceBidRequest true "Bid details"
// @Success 201 {object} dto.BidResponse
// @Failure 400 {object} map[string]string "Bid rejected"
// @Failure 402 {object} map[string]string "Insufficient funds"
// @Failure 404 {object} map[string]string "Auction not found"
// @Failure 409 {object} map[string]string "Concurrent bid"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Failed to place bid"
// @Security BearerAuth
// @Router /auctions/{auctionID}/bids [post]
func (h *auctionHandler) placeBid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := auctionIDParam(c)
	if !ok {
		return
	}

	var req dto.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PlaceBid", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	bidderID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Bidder user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bid, err := h.bidService.PlaceBid(c.Request.Context(), id, req, bidderID)
	if err != nil {
		respondServiceError(c, logger.With(slog.String("auction_id", id.String())), err, "Failed to place bid")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBidResponse(bid))
}

// settleAuction godoc
// @Summary Settle an expired auction
// @Description Settles or cancels an auction whose end time has passed. Settling a closed auction returns its recorded outcome.
// @Tags auctions
// @Produce  json
// @Param   auctionID path int true "Auction ID"
// @Success 200 {object} domain.SettlementOutcome
// @Failure 404 {object} map[string]string "Auction not found"
// @Failure 409 {object} map[string]string "Auction not expired or settlement in progress"
// @Failure 500 {object} map[string]string "Failed to settle auction"
// @Security BearerAuth
// @Router /auctions/{auctionID}/settle [post]
func (h *auctionHandler) settleAuction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := auctionIDParam(c)
	if !ok {
		return
	}
	logger = logger.With(slog.String("auction_id", id.String()))

	outcome, err := h.settlementService.Settle(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to settle auction")
		return
	}

	logger.Info("Auction settlement completed", slog.String("status", string(outcome.Status)))
	c.JSON(http.StatusOK, outcome)
}
