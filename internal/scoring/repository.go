package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/alphadesk/internal/contracts"
)

// Repository persists daily cross-section scores
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// InitSchema creates the daily_scores table if it does not exist
func (r *Repository) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS daily_scores (
			date             DATE NOT NULL,
			ticker           TEXT NOT NULL,
			price            DOUBLE PRECISION NOT NULL,
			total_score      DOUBLE PRECISION NOT NULL,
			value_score      DOUBLE PRECISION NOT NULL,
			growth_score     DOUBLE PRECISION NOT NULL,
			quality_score    DOUBLE PRECISION NOT NULL,
			momentum_score   DOUBLE PRECISION NOT NULL,
			bounce_score     DOUBLE PRECISION NOT NULL,
			analyst_score    DOUBLE PRECISION NOT NULL,
			liquidity_score  DOUBLE PRECISION NOT NULL,
			volatility_score DOUBLE PRECISION NOT NULL,
			rank             INTEGER NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (date, ticker)
		)
	`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("create daily_scores: %w", err)
	}
	return nil
}

// SaveDailyScores stores one run's full ranked cross-section. Score rows
// are append-only: a date that already has rows is never overwritten and
// the call returns contracts.ErrAlreadyRecorded.
func (r *Repository) SaveDailyScores(ctx context.Context, date time.Time, entries []contracts.RankEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var existing int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM daily_scores WHERE date = $1`, date,
	).Scan(&existing)
	if err != nil {
		return fmt.Errorf("check existing scores: %w", err)
	}
	if existing > 0 {
		return contracts.ErrAlreadyRecorded
	}

	batch := &pgx.Batch{}
	insert := `
		INSERT INTO daily_scores (
			date, ticker, price, total_score,
			value_score, growth_score, quality_score, momentum_score,
			bounce_score, analyst_score, liquidity_score, volatility_score,
			rank
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	for _, e := range entries {
		batch.Queue(insert,
			date, e.Ticker, e.Price, e.TotalScore,
			e.Scores.Value, e.Scores.Growth, e.Scores.Quality, e.Scores.Momentum,
			e.Scores.Bounce, e.Scores.Analyst, e.Scores.Liquidity, e.Scores.Volatility,
			e.Rank,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert scores: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit scores: %w", err)
	}
	return nil
}

// GetScoresByDate retrieves the full ranked cross-section for one date,
// ordered by rank. Returns an empty slice when the date has no rows.
func (r *Repository) GetScoresByDate(ctx context.Context, date time.Time) ([]contracts.RankEntry, error) {
	query := `
		SELECT
			date, ticker, price, total_score,
			value_score, growth_score, quality_score, momentum_score,
			bounce_score, analyst_score, liquidity_score, volatility_score,
			rank
		FROM daily_scores
		WHERE date = $1
		ORDER BY rank
	`
	rows, err := r.db.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var entries []contracts.RankEntry
	for rows.Next() {
		var e contracts.RankEntry
		err := rows.Scan(
			&e.Date, &e.Ticker, &e.Price, &e.TotalScore,
			&e.Scores.Value, &e.Scores.Growth, &e.Scores.Quality, &e.Scores.Momentum,
			&e.Scores.Bounce, &e.Scores.Analyst, &e.Scores.Liquidity, &e.Scores.Volatility,
			&e.Rank,
		)
		if err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate score rows: %w", err)
	}
	return entries, nil
}

// GetLatestRunDate returns the most recent scored date strictly before
// the given date. The boolean is false when no prior run exists.
func (r *Repository) GetLatestRunDate(ctx context.Context, before time.Time) (time.Time, bool, error) {
	var latest time.Time
	err := r.db.QueryRow(ctx,
		`SELECT date FROM daily_scores WHERE date < $1 ORDER BY date DESC LIMIT 1`,
		before,
	).Scan(&latest)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query latest run date: %w", err)
	}
	return latest, true, nil
}
