package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// schema is applied in order by Migrate. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS players (
		id UUID PRIMARY KEY,
		source_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		position VARCHAR(8) NOT NULL,
		team VARCHAR(8) NOT NULL,
		age INTEGER,
		experience INTEGER,
		height TEXT,
		weight INTEGER,
		college TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_players_position ON players (position)`,
	`CREATE TABLE IF NOT EXISTS player_stats (
		id UUID PRIMARY KEY,
		player_id UUID NOT NULL REFERENCES players (id) ON DELETE CASCADE,
		season INTEGER NOT NULL,
		week INTEGER NOT NULL,
		passing_yards INTEGER,
		passing_tds INTEGER,
		interceptions INTEGER,
		passing_attempts INTEGER,
		passing_completions INTEGER,
		rushing_yards INTEGER,
		rushing_tds INTEGER,
		rushing_attempts INTEGER,
		receptions INTEGER,
		receiving_yards INTEGER,
		receiving_tds INTEGER,
		targets INTEGER,
		fantasy_points DOUBLE PRECISION,
		fantasy_points_ppr DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_player_stats_player ON player_stats (player_id, season, week)`,
	`CREATE TABLE IF NOT EXISTS player_predictions (
		id UUID PRIMARY KEY,
		player_id UUID NOT NULL REFERENCES players (id) ON DELETE CASCADE,
		season INTEGER NOT NULL,
		predicted_points DOUBLE PRECISION NOT NULL,
		confidence DOUBLE PRECISION NOT NULL CHECK (confidence >= 0 AND confidence <= 1),
		reasoning TEXT NOT NULL,
		projected_stats JSONB NOT NULL DEFAULT '{}'::jsonb,
		breakout_score DOUBLE PRECISION NOT NULL CHECK (breakout_score >= 0 AND breakout_score <= 1),
		bust_risk DOUBLE PRECISION NOT NULL CHECK (bust_risk >= 0 AND bust_risk <= 1),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (player_id, season)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_player_predictions_season ON player_predictions (season)`,
}

// Migrate creates the tables and indexes the repositories rely on.
func Migrate(ctx context.Context, pool DatabasePool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	logrus.WithField("statements", len(schema)).Info("Database schema is up to date")
	return nil
}
