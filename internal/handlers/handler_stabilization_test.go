package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/sett_auction/internal/apperrors"
	"github.com/SscSPs/sett_auction/internal/core/domain"
	portssvc "github.com/SscSPs/sett_auction/internal/core/ports/services"
	"github.com/SscSPs/sett_auction/internal/dto"
	"github.com/SscSPs/sett_auction/internal/handlers"
	"github.com/SscSPs/sett_auction/internal/middleware"
	"github.com/SscSPs/sett_auction/internal/platform/clock"
	"github.com/SscSPs/sett_auction/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStabilizationService struct {
	mock.Mock
}

func (m *MockStabilizationService) Observe(ctx context.Context, deviation domain.PegDeviation, userID string) (*dto.ObservationResponse, error) {
	args := m.Called(ctx, deviation, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ObservationResponse), args.Error(1)
}

type MockBlockService struct {
	mock.Mock
}

func (m *MockBlockService) ProcessBlock(ctx context.Context) (*domain.BlockReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BlockReport), args.Error(1)
}

func (m *MockBlockService) Run(ctx context.Context, interval time.Duration) error {
	return m.Called(ctx, interval).Error(0)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetBalance(ctx context.Context, accountID, currency string) (*dto.BalanceResponse, error) {
	args := m.Called(ctx, accountID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BalanceResponse), args.Error(1)
}

func (m *MockLedgerService) Deposit(ctx context.Context, accountID string, req dto.DepositRequest, userID string) (*dto.BalanceResponse, error) {
	args := m.Called(ctx, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BalanceResponse), args.Error(1)
}

var (
	_ portssvc.StabilizationSchedulerSvc = (*MockStabilizationService)(nil)
	_ portssvc.BlockProcessorSvc         = (*MockBlockService)(nil)
	_ portssvc.LedgerSvcFacade           = (*MockLedgerService)(nil)
)

const testSecret = "test-secret-key-that-is-long-enough"

func newTestRouter(register func(v1 *gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.AuthMiddleware(testSecret))
	register(r.Group("/api/v1"))
	return r
}

func serve(t *testing.T, r *gin.Engine, method, url, userID string, body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, _ := http.NewRequest(method, url, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+generateTestToken(t, testSecret, userID))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStabilizationHandler_Observe(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	stab := new(MockStabilizationService)
	r := newTestRouter(func(v1 *gin.RouterGroup) {
		handlers.RegisterStabilizationRoutes(v1, stab, new(MockBlockService), clock.NewManualClock(now))
	})

	id := domain.AuctionID(4)
	stab.On("Observe", mock.Anything, mock.MatchedBy(func(d domain.PegDeviation) bool {
		return d.Currency == "SETT" && d.MarketPrice.Equal(decimal.RequireFromString("1.05")) && d.ObservedAt.Equal(now)
	}), "oracle").Return(&dto.ObservationResponse{
		Request:   &domain.AuctionRequest{Direction: domain.Expansion, AssetCurrency: "SETT", BidCurrency: "DNAR", AssetAmount: decimal.NewFromInt(50)},
		AuctionID: &id,
	}, nil).Once()

	w := serve(t, r, http.MethodPost, "/api/v1/stabilization/observations", "oracle", map[string]any{
		"currency": "SETT", "marketPrice": "1.05", "targetPrice": "1", "supply": "1000",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.ObservationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.AuctionID)
	assert.Equal(t, id, *resp.AuctionID)
	assert.Equal(t, domain.Expansion, resp.Request.Direction)

	stab.On("Observe", mock.Anything, mock.Anything, "oracle").Return(nil, apperrors.ErrValidation).Once()
	w = serve(t, r, http.MethodPost, "/api/v1/stabilization/observations", "oracle", map[string]any{
		"currency": "DNAR", "marketPrice": "1", "targetPrice": "1", "supply": "1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	stab.AssertExpectations(t)
}

func TestStabilizationHandler_ProcessBlock(t *testing.T) {
	blocks := new(MockBlockService)
	r := newTestRouter(func(v1 *gin.RouterGroup) {
		handlers.RegisterStabilizationRoutes(v1, new(MockStabilizationService), blocks, nil)
	})

	blocks.On("ProcessBlock", mock.Anything).Return(&domain.BlockReport{
		Outcomes: []domain.SettlementOutcome{{AuctionID: 1, Status: domain.AuctionCancelled}},
		Failures: map[domain.AuctionID]string{2: "ledger unavailable"},
	}, nil).Once()

	w := serve(t, r, http.MethodPost, "/api/v1/blocks/process", "admin", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var report domain.BlockReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Len(t, report.Outcomes, 1)
	assert.Equal(t, "ledger unavailable", report.Failures[2])
}

func TestLedgerHandler(t *testing.T) {
	ledger := new(MockLedgerService)
	r := newTestRouter(func(v1 *gin.RouterGroup) {
		handlers.RegisterLedgerRoutes(v1, ledger, true)
	})

	ledger.On("GetBalance", mock.Anything, "alice", "DNAR").Return(&dto.BalanceResponse{
		AccountID: "alice", Currency: "DNAR", Free: decimal.NewFromInt(90), Reserved: decimal.NewFromInt(110),
	}, nil).Once()
	w := serve(t, r, http.MethodGet, "/api/v1/ledger/accounts/alice/balances/dnar", "alice", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var bal dto.BalanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bal))
	assert.True(t, decimal.NewFromInt(110).Equal(bal.Reserved))

	ledger.On("Deposit", mock.Anything, "alice", mock.MatchedBy(func(req dto.DepositRequest) bool {
		return req.Currency == "DNAR" && req.Amount.Equal(decimal.NewFromInt(50))
	}), "admin").Return(&dto.BalanceResponse{AccountID: "alice", Currency: "DNAR", Free: decimal.NewFromInt(140)}, nil).Once()
	w = serve(t, r, http.MethodPost, "/api/v1/ledger/accounts/alice/deposits", "admin", map[string]any{"currency": "DNAR", "amount": "50"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(t, r, http.MethodPost, "/api/v1/ledger/accounts/alice/deposits", "admin", map[string]any{"amount": "50"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, amount := range []string{"0", "-3"} {
		w = serve(t, r, http.MethodPost, "/api/v1/ledger/accounts/alice/deposits", "admin", map[string]any{"currency": "DNAR", "amount": amount})
		assert.Equal(t, http.StatusBadRequest, w.Code, amount)
	}
	ledger.AssertExpectations(t)
}

func TestRegisterRoutes_DepositsOutsideProductionOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	newRouter := func(production bool, ledger *MockLedgerService) *gin.Engine {
		r := gin.New()
		handlers.RegisterRoutes(r, &config.Config{JWTSecret: testSecret, IsProduction: production}, &portssvc.ServiceContainer{
			Auction:       new(MockAuctionService),
			Bid:           new(MockBidService),
			Settlement:    new(MockSettlementService),
			Stabilization: new(MockStabilizationService),
			Blocks:        new(MockBlockService),
			Ledger:        ledger,
		}, clock.NewManualClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)), nil)
		return r
	}
	deposit := map[string]any{"currency": "DNAR", "amount": "1000000"}

	t.Run("production", func(t *testing.T) {
		ledger := new(MockLedgerService)
		r := newRouter(true, ledger)

		w := serve(t, r, http.MethodPost, "/api/v1/ledger/accounts/mallory/deposits", "mallory", deposit)
		assert.Equal(t, http.StatusNotFound, w.Code)

		ledger.On("GetBalance", mock.Anything, "mallory", "DNAR").Return(&dto.BalanceResponse{AccountID: "mallory", Currency: "DNAR"}, nil).Once()
		w = serve(t, r, http.MethodGet, "/api/v1/ledger/accounts/mallory/balances/DNAR", "mallory", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		ledger.AssertExpectations(t)
		ledger.AssertNotCalled(t, "Deposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("development", func(t *testing.T) {
		ledger := new(MockLedgerService)
		r := newRouter(false, ledger)

		ledger.On("Deposit", mock.Anything, "alice", mock.Anything, "admin").
			Return(&dto.BalanceResponse{AccountID: "alice", Currency: "DNAR", Free: decimal.NewFromInt(1000000)}, nil).Once()
		w := serve(t, r, http.MethodPost, "/api/v1/ledger/accounts/alice/deposits", "admin", deposit)
		assert.Equal(t, http.StatusOK, w.Code)
		ledger.AssertExpectations(t)
	})
}
