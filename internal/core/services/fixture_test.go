package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/sett_auction/internal/core/domain"
	portsrepo "github.com/SscSPs/sett_auction/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sett_auction/internal/core/ports/services"
	"github.com/SscSPs/sett_auction/internal/core/services"
	"github.com/SscSPs/sett_auction/internal/dto"
	"github.com/SscSPs/sett_auction/internal/platform/clock"
	"github.com/SscSPs/sett_auction/internal/platform/config"
	"github.com/SscSPs/sett_auction/internal/platform/events"
	"github.com/SscSPs/sett_auction/internal/platform/lock"
	"github.com/SscSPs/sett_auction/internal/repositories/memory"
	"github.com/shopspring/decimal"
)

const issuer = "issuer"

var genesis = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func testConfig() *config.Config {
	return &config.Config{
		Auction: config.AuctionConfig{
			IssuerAccountID:     issuer,
			DefaultBidCurrency:  "DNAR",
			DefaultReservePrice: decimal.Zero,
			MinBidIncrement:     dec(10),
			DefaultDuration:     10 * time.Minute,
		},
		Stabilization: config.StabilizationConfig{
			StableCurrency:  "SETT",
			ReserveCurrency: "DNAR",
			PegThreshold:    decimal.RequireFromString("0.01"),
			Cooldown:        30 * time.Minute,
			AmountPrecision: 8,
		},
		Settlement: config.SettlementConfig{
			RetryAttempts:         2,
			RetryDelay:            time.Millisecond,
			MaxSettlementAttempts: 2,
			LockTTL:               time.Minute,
		},
	}
}

// fixture wires the real services to in-memory adapters and a manual clock.
type fixture struct {
	cfg    *config.Config
	repo   portsrepo.AuctionRepositoryFacade
	ledger *memory.Ledger
	clock  *clock.ManualClock
	events *events.Recorder
	locker *lock.LocalLockManager
	svc    *portssvc.ServiceContainer
}

func newFixture(cfg *config.Config) *fixture {
	return newFixtureWithLedger(cfg, memory.NewLedger(issuer), nil)
}

// newFixtureWithLedger lets a test substitute the ledger the services use
// while keeping base for funding and balance assertions.
func newFixtureWithLedger(cfg *config.Config, base *memory.Ledger, override portsrepo.CurrencyLedgerFacade) *fixture {
	f := &fixture{
		cfg:    cfg,
		repo:   memory.NewAuctionRepository(),
		ledger: base,
		clock:  clock.NewManualClock(genesis),
		events: &events.Recorder{},
		locker: lock.NewLocalLockManager(),
	}
	var ledger portsrepo.CurrencyLedgerFacade = base
	if override != nil {
		ledger = override
	}
	f.svc = services.NewServiceContainer(cfg, repoProvider(f, ledger), f.clock, f.events, f.locker)
	return f
}

func (f *fixture) openAuction(ctx context.Context, reserve int64) domain.AuctionID {
	r := dec(reserve)
	id, err := f.svc.Auction.Create(ctx, dto.CreateAuctionRequest{
		AssetCurrency:   "SETT",
		AssetAmount:     dec(100),
		BidCurrency:     "DNAR",
		ReservePrice:    &r,
		DurationSeconds: 600,
	}, "creator")
	if err != nil {
		panic(err)
	}
	return id
}

func (f *fixture) fund(ctx context.Context, account string, amount int64) {
	if err := f.ledger.Deposit(ctx, account, "DNAR", dec(amount)); err != nil {
		panic(err)
	}
}

func (f *fixture) bid(ctx context.Context, id domain.AuctionID, bidder string, amount int64) (*domain.Bid, error) {
	return f.svc.Bid.PlaceBid(ctx, id, dto.PlaceBidRequest{Amount: dec(amount), Currency: "DNAR"}, bidder)
}

func (f *fixture) balances(ctx context.Context, account, currency string) (free, reserved decimal.Decimal) {
	free, _ = f.ledger.Balance(ctx, account, currency)
	reserved, _ = f.ledger.ReservedBalance(ctx, account, currency)
	return free, reserved
}

func repoProvider(f *fixture, ledger portsrepo.CurrencyLedgerFacade) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{AuctionRepo: f.repo, Ledger: ledger}
}
