package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/sett_auction/internal/apperrors"
	"github.com/SscSPs/sett_auction/internal/core/domain"
	"github.com/SscSPs/sett_auction/internal/core/services"
	"github.com/SscSPs/sett_auction/internal/repositories/memory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// flakyLedger fails ApplyTransfers for the first failures calls, or always
// when failures is negative.
type flakyLedger struct {
	*memory.Ledger
	mu       sync.Mutex
	failures int
	calls    int
}

var errLedgerDown = errors.New("ledger unavailable")

func (l *flakyLedger) ApplyTransfers(ctx context.Context, reference string, transfers []domain.Transfer) error {
	l.mu.Lock()
	l.calls++
	fail := l.failures < 0 || l.calls <= l.failures
	l.mu.Unlock()
	if fail {
		return errLedgerDown
	}
	return l.Ledger.ApplyTransfers(ctx, reference, transfers)
}

// --- Test Suite ---
type SettlementEngineTestSuite struct {
	suite.Suite
	ctx context.Context
	f   *fixture
}

func (suite *SettlementEngineTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.f = newFixture(testConfig())
}

func (suite *SettlementEngineTestSuite) assertBalance(f *fixture, account, currency string, free, reserved int64) {
	gotFree, gotReserved := f.balances(suite.ctx, account, currency)
	suite.True(dec(free).Equal(gotFree), "%s %s free: want %d, got %s", account, currency, free, gotFree)
	suite.True(dec(reserved).Equal(gotReserved), "%s %s reserved: want %d, got %s", account, currency, reserved, gotReserved)
}

// contestedAuction runs the alice/bob bidding scenario and expires the auction.
func (suite *SettlementEngineTestSuite) contestedAuction(f *fixture) domain.AuctionID {
	id := f.openAuction(suite.ctx, 100)
	f.fund(suite.ctx, "alice", 200)
	f.fund(suite.ctx, "bob", 200)
	_, err := f.bid(suite.ctx, id, "alice", 110)
	suite.Require().NoError(err)
	_, err = f.bid(suite.ctx, id, "bob", 120)
	suite.Require().NoError(err)
	f.clock.Advance(10 * time.Minute)
	return id
}

func (suite *SettlementEngineTestSuite) TestSettle_NotExpired() {
	id := suite.f.openAuction(suite.ctx, 0)
	suite.f.clock.Advance(9 * time.Minute)

	_, err := suite.f.svc.Settlement.Settle(suite.ctx, id)
	suite.ErrorIs(err, domain.ErrAuctionNotExpired)

	a, err := suite.f.svc.Auction.Get(suite.ctx, id)
	suite.Require().NoError(err)
	suite.Equal(domain.AuctionOpen, a.Status)
}

func (suite *SettlementEngineTestSuite) TestSettle_NotFound() {
	_, err := suite.f.svc.Settlement.Settle(suite.ctx, 77)
	suite.ErrorIs(err, domain.ErrNotFound)
}

func (suite *SettlementEngineTestSuite) TestSettle_NoBidsCancels() {
	id := suite.f.openAuction(suite.ctx, 0)
	suite.f.clock.Advance(10 * time.Minute)

	outcome, err := suite.f.svc.Settlement.Settle(suite.ctx, id)
	suite.Require().NoError(err)
	suite.Equal(domain.AuctionCancelled, outcome.Status)
	suite.Equal(id, outcome.AuctionID)
	suite.Empty(outcome.Transfers)
	suite.Empty(outcome.Winner)

	suite.assertBalance(suite.f, issuer, "SETT", 0, 0)
	suite.assertBalance(suite.f, issuer, "DNAR", 0, 0)
	suite.Equal([]domain.EventType{domain.EventAuctionOpened, domain.EventAuctionCancelled}, suite.f.events.Types())

	again, err := suite.f.svc.Settlement.Settle(suite.ctx, id)
	suite.Require().NoError(err)
	suite.Equal(domain.AuctionCancelled, again.Status)
	suite.Len(suite.f.events.Types(), 2)
}

func (suite *SettlementEngineTestSuite) TestSettle_WinnerExchangesFunds() {
	id := suite.contestedAuction(suite.f)

	outcome, err := suite.f.svc.Settlement.Settle(suite.ctx, id)
	suite.Require().NoError(err)
	suite.Equal(domain.AuctionSettled, outcome.Status)
	suite.Equal("bob", outcome.Winner)
	suite.True(dec(120).Equal(outcome.BidAmount))
	suite.True(dec(100).Equal(outcome.AssetAmount))
	suite.Len(outcome.Transfers, 2)

	suite.assertBalance(suite.f, "bob", "SETT", 100, 0)
	suite.assertBalance(suite.f, "bob", "DNAR", 80, 0)
	suite.assertBalance(suite.f, "alice", "DNAR", 200, 0)
	suite.assertBalance(suite.f, issuer, "DNAR", 120, 0)
	suite.assertBalance(suite.f, issuer, "SETT", -100, 0)

	a, err := suite.f.svc.Auction.Get(suite.ctx, id)
	suite.Require().NoError(err)
	suite.Equal(domain.AuctionSettled, a.Status)
	suite.Require().NotNil(a.Outcome)
	suite.Equal("bob", a.Outcome.Winner)

	events := suite.f.events.Events()
	settled := events[len(events)-1]
	suite.Equal(domain.EventAuctionSettled, settled.Type)
	suite.Equal("bob", settled.Winner)
	suite.True(dec(120).Equal(*settled.Amount))
}

func (suite *SettlementEngineTestSuite) TestSettle_IsIdempotent() {
	id := suite.contestedAuction(suite.f)

	first, err := suite.f.svc.Settlement.Settle(suite.ctx, id)
	suite.Require().NoError(err)
	eventCount := len(suite.f.events.Events())

	for i := 0; i < 3; i++ {
		again, err := suite.f.svc.Settlement.Settle(suite.ctx, id)
		suite.Require().NoError(err)
		suite.Equal(first.Status, again.Status)
		suite.Equal(first.Winner, again.Winner)
		suite.True(first.BidAmount.Equal(again.BidAmount))
	}

	suite.assertBalance(suite.f, "bob", "SETT", 100, 0)
	suite.assertBalance(suite.f, issuer, "DNAR", 120, 0)
	suite.Len(suite.f.events.Events(), eventCount)

	// Closed auctions take no more bids
	_, err = suite.f.bid(suite.ctx, id, "alice", 150)
	suite.ErrorIs(err, domain.ErrAuctionNotOpen)
}

func (suite *SettlementEngineTestSuite) TestSettle_LockHeld() {
	id := suite.contestedAuction(suite.f)
	unlock, err := suite.f.locker.Acquire(suite.ctx, "auction-settlement:"+id.String(), time.Minute)
	suite.Require().NoError(err)

	_, err = suite.f.svc.Settlement.Settle(suite.ctx, id)
	suite.ErrorIs(err, domain.ErrSettlementInProgress)
	suite.ErrorIs(err, apperrors.ErrConflict)

	unlock()
	outcome, err := suite.f.svc.Settlement.Settle(suite.ctx, id)
	suite.Require().NoError(err)
	suite.Equal(domain.AuctionSettled, outcome.Status)
}

func (suite *SettlementEngineTestSuite) TestSettle_ConcurrentCallsTransferOnce() {
	id := suite.contestedAuction(suite.f)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = suite.f.svc.Settlement.Settle(suite.ctx, id)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			suite.ErrorIs(err, domain.ErrSettlementInProgress)
		}
	}
	suite.assertBalance(suite.f, "bob", "SETT", 100, 0)
	suite.assertBalance(suite.f, issuer, "DNAR", 120, 0)

	settledEvents := 0
	for _, t := range suite.f.events.Types() {
		if t == domain.EventAuctionSettled {
			settledEvents++
		}
	}
	suite.Equal(1, settledEvents)
}

func (suite *SettlementEngineTestSuite) TestSettle_TransientFailureRetried() {
	base := memory.NewLedger(issuer)
	ledger := &flakyLedger{Ledger: base, failures: 1}
	f := newFixtureWithLedger(testConfig(), base, ledger)
	id := suite.contestedAuction(f)

	outcome, err := f.svc.Settlement.Settle(suite.ctx, id)
	suite.Require().NoError(err)
	suite.Equal(domain.AuctionSettled, outcome.Status)
	suite.Equal(2, ledger.calls)
	suite.assertBalance(f, "bob", "SETT", 100, 0)
}

func (suite *SettlementEngineTestSuite) TestSettle_PersistentFailureFlagsAuction() {
	base := memory.NewLedger(issuer)
	ledger := &flakyLedger{Ledger: base, failures: -1}
	f := newFixtureWithLedger(testConfig(), base, ledger)
	id := suite.contestedAuction(f)

	_, err := f.svc.Settlement.Settle(suite.ctx, id)
	suite.ErrorIs(err, domain.ErrTransferFailed)
	suite.ErrorIs(err, errLedgerDown)

	a, err := f.svc.Auction.Get(suite.ctx, id)
	suite.Require().NoError(err)
	suite.Equal(domain.AuctionClosing, a.Status)
	suite.Equal(1, a.SettlementAttempts)
	suite.assertBalance(f, "bob", "DNAR", 80, 120)

	// CLOSING auctions reject bids
	_, err = f.bid(suite.ctx, id, "alice", 150)
	suite.ErrorIs(err, domain.ErrAuctionNotOpen)

	outcome, err := f.svc.Settlement.Settle(suite.ctx, id)
	suite.ErrorIs(err, domain.ErrTransferFailed)
	suite.Require().NotNil(outcome)
	suite.Equal(domain.AuctionSettlementFailed, outcome.Status)
	suite.Equal("bob", outcome.Winner)
	suite.Empty(outcome.Transfers)

	suite.assertBalance(f, "bob", "DNAR", 200, 0)
	suite.assertBalance(f, "bob", "SETT", 0, 0)
	suite.assertBalance(f, issuer, "DNAR", 0, 0)
	suite.Contains(f.events.Types(), domain.EventSettlementFailed)

	// Terminal: later calls return the recorded outcome
	again, err := f.svc.Settlement.Settle(suite.ctx, id)
	suite.Require().NoError(err)
	suite.Equal(domain.AuctionSettlementFailed, again.Status)
}

func (suite *SettlementEngineTestSuite) TestSettle_ValidationFailureNotRetried() {
	cfg := testConfig()
	cfg.Settlement.RetryAttempts = 3
	cfg.Settlement.MaxSettlementAttempts = 5
	id := suite.contestedAuction(suite.f)

	ledger := new(MockCurrencyLedger)
	ledger.On("ApplyTransfers", suite.ctx, domain.SettlementReference(id), mock.Anything).Return(apperrors.ErrValidation).Once()
	engine := services.NewSettlementEngine(suite.f.svc.Auction, ledger, suite.f.locker, suite.f.clock, suite.f.events, cfg.Settlement)

	_, err := engine.Settle(suite.ctx, id)
	suite.ErrorIs(err, domain.ErrTransferFailed)
	ledger.AssertNumberOfCalls(suite.T(), "ApplyTransfers", 1)
	ledger.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestSettlementEngine(t *testing.T) {
	suite.Run(t, new(SettlementEngineTestSuite))
}
