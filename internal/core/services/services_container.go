package services

import (
	portsrepo "github.com/SscSPs/sett_auction/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sett_auction/internal/core/ports/services"
	"github.com/SscSPs/sett_auction/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	clock portssvc.Clock,
	publisher portssvc.EventPublisher,
	locker portssvc.LockManager,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The auction ledger comes first since every other auction service uses it
	container.Auction = NewAuctionLedgerService(repos.AuctionRepo, clock, publisher, cfg.Auction)

	validator := NewBidValidator(repos.Ledger, clock, cfg.Auction.MinBidIncrement)
	container.Bid = NewBidService(container.Auction, validator, repos.Ledger, locker, clock, publisher)
	container.Settlement = NewSettlementEngine(container.Auction, repos.Ledger, locker, clock, publisher, cfg.Settlement)

	controller := NewStabilizationController(cfg.Stabilization, cfg.Auction.DefaultDuration, cfg.Auction.DefaultReservePrice)
	container.Stabilization = NewStabilizationScheduler(controller, container.Auction, repos.AuctionRepo, clock, cfg.Stabilization)

	container.Blocks = NewBlockProcessor(repos.AuctionRepo, container.Settlement, clock)
	container.Ledger = NewLedgerService(repos.Ledger)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AuctionLedgerSvcFacade     = (*auctionLedgerService)(nil)
	_ portssvc.BidValidatorSvc            = (*bidValidator)(nil)
	_ portssvc.BidSvc                     = (*bidService)(nil)
	_ portssvc.SettlementSvc              = (*settlementEngine)(nil)
	_ portssvc.StabilizationControllerSvc = (*stabilizationController)(nil)
	_ portssvc.StabilizationSchedulerSvc  = (*stabilizationScheduler)(nil)
	_ portssvc.BlockProcessorSvc          = (*blockProcessor)(nil)
	_ portssvc.LedgerSvcFacade            = (*ledgerService)(nil)
)
