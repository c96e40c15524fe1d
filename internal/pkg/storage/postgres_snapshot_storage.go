// Package storage persists pipeline snapshots to PostgreSQL. The CSV files
// stay the source of truth for downstream training; the database copy
// exists for ad-hoc querying across runs.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/dkoromyslov/tennispipe/internal/pkg/config"
	"github.com/dkoromyslov/tennispipe/internal/pkg/models"
)

// PostgresSnapshotStorage upserts the flattened roster and match tables.
type PostgresSnapshotStorage struct {
	db *sql.DB
}

// NewPostgresSnapshotStorage opens the connection and creates the schema.
func NewPostgresSnapshotStorage(cfg *config.PostgresConfig) (*PostgresSnapshotStorage, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresSnapshotStorage{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL snapshot storage initialized successfully")
	return s, nil
}

func (s *PostgresSnapshotStorage) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS participants (
		id BIGINT PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		slug VARCHAR(200) NOT NULL DEFAULT '',
		short_name VARCHAR(200) NOT NULL DEFAULT '',
		gender VARCHAR(10) NOT NULL DEFAULT '',
		name_code VARCHAR(20) NOT NULL DEFAULT '',
		ranking INT NOT NULL DEFAULT 0,
		disabled BOOLEAN NOT NULL DEFAULT FALSE,
		national BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS matches (
		id BIGINT PRIMARY KEY,
		finished BOOLEAN NOT NULL,
		result VARCHAR(50) NOT NULL DEFAULT '',
		home_team_score VARCHAR(10) NOT NULL DEFAULT '',
		away_team_score VARCHAR(10) NOT NULL DEFAULT '',
		home_id BIGINT NOT NULL,
		away_id BIGINT,
		round_stage VARCHAR(10) NOT NULL DEFAULT '',
		series_start_date DATE,
		tournament_name VARCHAR(200) NOT NULL DEFAULT '',
		unique_tournament VARCHAR(200) NOT NULL DEFAULT '',
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_matches_series_start_date ON matches(series_start_date);
	CREATE INDEX IF NOT EXISTS idx_matches_unique_tournament ON matches(unique_tournament);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// StoreParticipants upserts the roster. One row per player id, refreshed
// on every run.
func (s *PostgresSnapshotStorage) StoreParticipants(ctx context.Context, roster []models.ParticipantRecord) error {
	query := `
	INSERT INTO participants (
		id, name, slug, short_name, gender, name_code, ranking, disabled, national, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		slug = EXCLUDED.slug,
		short_name = EXCLUDED.short_name,
		gender = EXCLUDED.gender,
		name_code = EXCLUDED.name_code,
		ranking = EXCLUDED.ranking,
		disabled = EXCLUDED.disabled,
		national = EXCLUDED.national,
		updated_at = NOW()
	`
	for _, p := range roster {
		_, err := s.db.ExecContext(ctx, query,
			p.ID, p.Name, p.Slug, p.ShortName, p.Gender,
			p.NameCode, p.Ranking, p.Disabled, p.National,
		)
		if err != nil {
			return fmt.Errorf("failed to store participant %d: %w", p.ID, err)
		}
	}
	slog.Info("stored participants snapshot", "count", len(roster))
	return nil
}

// StoreMatches upserts the flattened match list.
func (s *PostgresSnapshotStorage) StoreMatches(ctx context.Context, matches []models.MatchRecord) error {
	query := `
	INSERT INTO matches (
		id, finished, result, home_team_score, away_team_score,
		home_id, away_id, round_stage, series_start_date,
		tournament_name, unique_tournament, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	ON CONFLICT (id) DO UPDATE SET
		finished = EXCLUDED.finished,
		result = EXCLUDED.result,
		home_team_score = EXCLUDED.home_team_score,
		away_team_score = EXCLUDED.away_team_score,
		home_id = EXCLUDED.home_id,
		away_id = EXCLUDED.away_id,
		round_stage = EXCLUDED.round_stage,
		series_start_date = EXCLUDED.series_start_date,
		tournament_name = EXCLUDED.tournament_name,
		unique_tournament = EXCLUDED.unique_tournament,
		updated_at = NOW()
	`
	for _, m := range matches {
		var awayID sql.NullInt64
		if m.AwayID != nil {
			awayID = sql.NullInt64{Int64: *m.AwayID, Valid: true}
		}
		var startDate sql.NullTime
		if !m.SeriesStartDate.IsZero() {
			startDate = sql.NullTime{Time: m.SeriesStartDate, Valid: true}
		}
		_, err := s.db.ExecContext(ctx, query,
			m.ID, m.Finished, m.Result, m.HomeTeamScore, m.AwayTeamScore,
			m.HomeID, awayID, string(m.RoundStage), startDate,
			m.TournamentName, m.UniqueTournament,
		)
		if err != nil {
			return fmt.Errorf("failed to store match %d: %w", m.ID, err)
		}
	}
	slog.Info("stored matches snapshot", "count", len(matches))
	return nil
}

// Close closes the underlying connection pool.
func (s *PostgresSnapshotStorage) Close() error {
	return s.db.Close()
}
