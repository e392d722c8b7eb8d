package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/sett_auction/internal/core/ports/services"
	"github.com/SscSPs/sett_auction/internal/dto"
	"github.com/SscSPs/sett_auction/internal/middleware"
	"github.com/gin-gonic/gin"
)

// stabilizationHandler handles peg observations and manual block runs.
type stabilizationHandler struct {
	stabilizationService portssvc.StabilizationSchedulerSvc
	blockService         portssvc.BlockProcessorSvc
	clock                portssvc.Clock
}

// RegisterStabilizationRoutes registers the stabilization and block routes.
func RegisterStabilizationRoutes(
	rg *gin.RouterGroup,
	stabilizationService portssvc.StabilizationSchedulerSvc,
	blockService portssvc.BlockProcessorSvc,
	clock portssvc.Clock,
) {
	h := &stabilizationHandler{
		stabilizationService: stabilizationService,
		blockService:         blockService,
		clock:                clock,
	}

	rg.POST("/stabilization/observations", h.observe)
	rg.POST("/blocks/process", h.processBlock)
}

// observe godoc
// @Summary Submit a peg observation
// @Description Reports the stable currency's market price. Opens a stabilization auction when the deviation warrants one.
// @Tags stabilization
// @Accept  json
// @Produce  json
// @Param   observation body dto.PegObservationRequest true "Price observation"
// @Success 200 {object} dto.ObservationResponse
// @Failure 400 {object} map[string]string "Invalid observation"
// @Failure 500 {object} map[string]string "Failed to process observation"
// @Security BearerAuth
// @Router /stabilization/observations [post]
func (h *stabilizationHandler) observe(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PegObservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PegObservation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.stabilizationService.Observe(c.Request.Context(), req.ToPegDeviation(h.now()), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to process observation")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// processBlock godoc
// @Summary Run a settlement block
// @Description Settles every expired auction and retries auctions stuck in CLOSING
// @Tags stabilization
// @Produce  json
// @Success 200 {object} domain.BlockReport
// @Failure 500 {object} map[string]string "Failed to process block"
// @Security BearerAuth
// @Router /blocks/process [post]
func (h *stabilizationHandler) processBlock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	report, err := h.blockService.ProcessBlock(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to process block")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *stabilizationHandler) now() time.Time {
	if h.clock == nil {
		return time.Now().UTC()
	}
	return h.clock.Now()
}
