package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/sett_auction/internal/apperrors"
	"github.com/SscSPs/sett_auction/internal/core/domain"
	portsrepo "github.com/SscSPs/sett_auction/internal/core/ports/repositories"
	"github.com/SscSPs/sett_auction/internal/models"
	"github.com/SscSPs/sett_auction/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const auctionColumns = `auction_id, asset_currency, asset_amount, bid_currency, reserve_price, issuer_account_id,
	start_time, end_time, status, best_bidder_account_id, best_bid_amount, best_bid_at,
	settlement_attempts, outcome, version, created_at, created_by, last_updated_at, last_updated_by`

type PgxAuctionRepository struct {
	BaseRepository
}

// newPgxAuctionRepository creates a new repository for auctions and their bids.
func newPgxAuctionRepository(pool *pgxpool.Pool) portsrepo.AuctionRepositoryFacade {
	return &PgxAuctionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.AuctionRepositoryFacade = (*PgxAuctionRepository)(nil)

func scanAuction(row pgx.Row) (models.Auction, error) {
	var m models.Auction
	err := row.Scan(
		&m.AuctionID,
		&m.AssetCurrency,
		&m.AssetAmount,
		&m.BidCurrency,
		&m.ReservePrice,
		&m.IssuerAccountID,
		&m.StartTime,
		&m.EndTime,
		&m.Status,
		&m.BestBidderID,
		&m.BestBidAmount,
		&m.BestBidAt,
		&m.SettlementAttempts,
		&m.Outcome,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// CreateAuction inserts a new auction and advances its currency's start
// anchor in the same transaction. The database assigns the identifier.
func (r *PgxAuctionRepository) CreateAuction(ctx context.Context, auction domain.Auction) (domain.AuctionID, error) {
	m, err := mapping.ToModelAuction(auction)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO auctions (
			asset_currency, asset_amount, bid_currency, reserve_price, issuer_account_id,
			start_time, end_time, status, settlement_attempts, version,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, $9, $10, $11, $12)
		RETURNING auction_id;
	`
	anchorQuery := `
		INSERT INTO auction_start_anchors (asset_currency, last_start_time)
		VALUES ($1, $2)
		ON CONFLICT (asset_currency) DO UPDATE
		SET last_start_time = GREATEST(auction_start_anchors.last_start_time, EXCLUDED.last_start_time);
	`
	var id int64
	err = r.InTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, query,
			m.AssetCurrency,
			m.AssetAmount,
			m.BidCurrency,
			m.ReservePrice,
			m.IssuerAccountID,
			m.StartTime,
			m.EndTime,
			m.Status,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert auction: %w", err)
		}
		if _, err := tx.Exec(ctx, anchorQuery, m.AssetCurrency, m.StartTime); err != nil {
			return fmt.Errorf("failed to record %s auction start: %w", m.AssetCurrency, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return domain.AuctionID(id), nil
}

// FindAuctionByID retrieves an auction by its identifier.
func (r *PgxAuctionRepository) FindAuctionByID(ctx context.Context, id domain.AuctionID) (*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE auction_id = $1;`
	m, err := scanAuction(r.Pool.QueryRow(ctx, query, int64(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: auction %s", apperrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find auction %s: %w", id, err)
	}
	auction, err := mapping.ToDomainAuction(m)
	if err != nil {
		return nil, err
	}
	return &auction, nil
}

// ListAuctions returns auctions matching filter in ascending ID order.
func (r *PgxAuctionRepository) ListAuctions(ctx context.Context, filter domain.AuctionFilter, afterID domain.AuctionID, limit int) ([]domain.Auction, error) {
	var (
		conditions = []string{"auction_id > $1"}
		args       = []any{int64(afterID)}
	)
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if filter.AssetCurrency != "" {
		args = append(args, filter.AssetCurrency)
		conditions = append(conditions, fmt.Sprintf("asset_currency = $%d", len(args)))
	}
	if filter.EndsAtOrBefore != nil {
		args = append(args, *filter.EndsAtOrBefore)
		conditions = append(conditions, fmt.Sprintf("end_time <= $%d", len(args)))
	}
	args = append(args, limit)

	query := fmt.Sprintf(`SELECT %s FROM auctions WHERE %s ORDER BY auction_id LIMIT $%d;`,
		auctionColumns, strings.Join(conditions, " AND "), len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query auctions: %w", err)
	}
	defer rows.Close()

	modelAuctions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Auction, error) {
		return scanAuction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan auctions: %w", err)
	}

	auctions := make([]domain.Auction, 0, len(modelAuctions))
	for _, m := range modelAuctions {
		a, err := mapping.ToDomainAuction(m)
		if err != nil {
			return nil, err
		}
		auctions = append(auctions, a)
	}
	return auctions, nil
}

// LastAuctionStart reads the start anchor of currency, which outlives deleted auctions.
func (r *PgxAuctionRepository) LastAuctionStart(ctx context.Context, currency string) (time.Time, error) {
	var start time.Time
	err := r.Pool.QueryRow(ctx,
		`SELECT last_start_time FROM auction_start_anchors WHERE asset_currency = $1;`, currency,
	).Scan(&start)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, fmt.Errorf("%w: no auction for currency %s", apperrors.ErrNotFound, currency)
		}
		return time.Time{}, fmt.Errorf("failed to read last %s auction start: %w", currency, err)
	}
	return start.UTC(), nil
}

// updateAuctionInTx writes every mutable column if the stored version still
// matches auction.Version.
func (r *PgxAuctionRepository) updateAuctionInTx(ctx context.Context, tx pgx.Tx, auction domain.Auction) error {
	m, err := mapping.ToModelAuction(auction)
	if err != nil {
		return err
	}

	query := `
		UPDATE auctions SET
			end_time = $3,
			status = $4,
			best_bidder_account_id = $5,
			best_bid_amount = $6,
			best_bid_at = $7,
			settlement_attempts = $8,
			outcome = $9,
			last_updated_at = $10,
			last_updated_by = $11,
			version = version + 1
		WHERE auction_id = $1 AND version = $2;
	`
	tag, err := tx.Exec(ctx, query,
		m.AuctionID,
		m.Version,
		m.EndTime,
		m.Status,
		m.BestBidderID,
		m.BestBidAmount,
		m.BestBidAt,
		m.SettlementAttempts,
		m.Outcome,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update auction %d: %w", m.AuctionID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM auctions WHERE auction_id = $1);`, m.AuctionID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check auction %d: %w", m.AuctionID, err)
	}
	if !exists {
		return fmt.Errorf("%w: auction %d", apperrors.ErrNotFound, m.AuctionID)
	}
	return fmt.Errorf("%w: auction %d version %d", domain.ErrStaleAuction, m.AuctionID, m.Version)
}

// UpdateAuction persists auction subject to the optimistic version check.
func (r *PgxAuctionRepository) UpdateAuction(ctx context.Context, auction domain.Auction) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		return r.updateAuctionInTx(ctx, tx, auction)
	})
}

// DeleteAuction removes an auction; its bids go with it through ON DELETE CASCADE.
// auction_start_anchors is not touched.
func (r *PgxAuctionRepository) DeleteAuction(ctx context.Context, id domain.AuctionID) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM auctions WHERE auction_id = $1;`, int64(id))
	if err != nil {
		return fmt.Errorf("failed to delete auction %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: auction %s", apperrors.ErrNotFound, id)
	}
	return nil
}

// SaveBid inserts bid and updates the auction in a single transaction.
func (r *PgxAuctionRepository) SaveBid(ctx context.Context, bid domain.Bid, auction domain.Auction) error {
	m := mapping.ToModelBid(bid)
	return r.InTx(ctx, func(tx pgx.Tx) error {
		if err := r.updateAuctionInTx(ctx, tx, auction); err != nil {
			return err
		}
		query := `
			INSERT INTO bids (bid_id, auction_id, bidder_account_id, amount, currency, submitted_at)
			VALUES ($1, $2, $3, $4, $5, $6);
		`
		if _, err := tx.Exec(ctx, query, m.BidID, m.AuctionID, m.BidderAccountID, m.Amount, m.Currency, m.SubmittedAt); err != nil {
			return fmt.Errorf("failed to insert bid %s: %w", m.BidID, err)
		}
		return nil
	})
}

// FindBidsByAuctionID returns the accepted bids of an auction in submission order.
func (r *PgxAuctionRepository) FindBidsByAuctionID(ctx context.Context, id domain.AuctionID) ([]domain.Bid, error) {
	if _, err := r.FindAuctionByID(ctx, id); err != nil {
		return nil, err
	}

	query := `
		SELECT bid_id, auction_id, bidder_account_id, amount, currency, submitted_at
		FROM bids
		WHERE auction_id = $1
		ORDER BY submitted_at, bid_id;
	`
	rows, err := r.Pool.Query(ctx, query, int64(id))
	if err != nil {
		return nil, fmt.Errorf("failed to query bids of auction %s: %w", id, err)
	}
	defer rows.Close()

	modelBids, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Bid, error) {
		var b models.Bid
		err := row.Scan(&b.BidID, &b.AuctionID, &b.BidderAccountID, &b.Amount, &b.Currency, &b.SubmittedAt)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan bids: %w", err)
	}
	return mapping.ToDomainBidSlice(modelBids), nil
}
