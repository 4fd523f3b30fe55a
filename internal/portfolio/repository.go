package portfolio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/alphadesk/internal/contracts"
)

// Repository persists daily portfolio snapshots
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// InitSchema creates the portfolio_history table if it does not exist
func (r *Repository) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS portfolio_history (
			date       DATE NOT NULL,
			ticker     TEXT NOT NULL,
			rank       INTEGER NOT NULL,
			weight     DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (date, ticker)
		)
	`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("create portfolio_history: %w", err)
	}
	return nil
}

// SaveSnapshot stores one run's portfolio. Snapshots are append-only: a
// date that already has rows is never overwritten and the call returns
// contracts.ErrAlreadyRecorded.
func (r *Repository) SaveSnapshot(ctx context.Context, snapshot *contracts.PortfolioSnapshot) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var existing int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM portfolio_history WHERE date = $1`, snapshot.Date,
	).Scan(&existing)
	if err != nil {
		return fmt.Errorf("check existing snapshot: %w", err)
	}
	if existing > 0 {
		return contracts.ErrAlreadyRecorded
	}

	batch := &pgx.Batch{}
	for _, pos := range snapshot.Positions {
		batch.Queue(
			`INSERT INTO portfolio_history (date, ticker, rank, weight) VALUES ($1, $2, $3, $4)`,
			snapshot.Date, pos.Ticker, pos.Rank, pos.Weight,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert positions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// GetSnapshotByDate retrieves the snapshot for one date, ordered by
// rank. Returns nil without an error when the date has no snapshot.
func (r *Repository) GetSnapshotByDate(ctx context.Context, date time.Time) (*contracts.PortfolioSnapshot, error) {
	rows, err := r.db.Query(ctx,
		`SELECT ticker, rank, weight FROM portfolio_history WHERE date = $1 ORDER BY rank`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	var positions []contracts.Position
	for rows.Next() {
		var p contracts.Position
		if err := rows.Scan(&p.Ticker, &p.Rank, &p.Weight); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate positions: %w", err)
	}
	if len(positions) == 0 {
		return nil, nil
	}
	return &contracts.PortfolioSnapshot{Date: date, Positions: positions}, nil
}

// GetLatestSnapshotDate returns the most recent snapshot date strictly
// before the given date. The boolean is false when no prior snapshot
// exists.
func (r *Repository) GetLatestSnapshotDate(ctx context.Context, before time.Time) (time.Time, bool, error) {
	var latest time.Time
	err := r.db.QueryRow(ctx,
		`SELECT date FROM portfolio_history WHERE date < $1 ORDER BY date DESC LIMIT 1`,
		before,
	).Scan(&latest)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query latest snapshot date: %w", err)
	}
	return latest, true, nil
}
