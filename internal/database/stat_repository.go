package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/samparkk13/fantasyedge-ai/internal/models"
	"github.com/samparkk13/fantasyedge-ai/internal/utils"
)

const statColumns = `id, player_id, season, week,
	passing_yards, passing_tds, interceptions, passing_attempts, passing_completions,
	rushing_yards, rushing_tds, rushing_attempts,
	receptions, receiving_yards, receiving_tds, targets,
	fantasy_points, fantasy_points_ppr, created_at`

const (
	listStatsByPlayerQuery = `SELECT ` + statColumns + ` FROM player_stats WHERE player_id = $1 ORDER BY season, week, created_at`

	insertStatQuery = `
		INSERT INTO player_stats (id, player_id, season, week,
			passing_yards, passing_tds, interceptions, passing_attempts, passing_completions,
			rushing_yards, rushing_tds, rushing_attempts,
			receptions, receiving_yards, receiving_tds, targets,
			fantasy_points, fantasy_points_ppr)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at`
)

// StatRepository reads and appends weekly stat history. Rows are never
// updated.
type StatRepository struct {
	pool DatabasePool
}

func NewStatRepository(pool DatabasePool) *StatRepository {
	return &StatRepository{pool: pool}
}

// ListByPlayer returns the player's history in chronological order.
func (r *StatRepository) ListByPlayer(ctx context.Context, playerID string) ([]models.PlayerStat, error) {
	rows, err := r.pool.Query(ctx, listStatsByPlayerQuery, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats for player %s: %w", playerID, err)
	}
	defer rows.Close()

	stats := make([]models.PlayerStat, 0)
	for rows.Next() {
		var s models.PlayerStat
		if err := rows.Scan(
			&s.ID, &s.PlayerID, &s.Season, &s.Week,
			&s.PassingYards, &s.PassingTDs, &s.Interceptions, &s.PassingAttempts, &s.PassingCompletions,
			&s.RushingYards, &s.RushingTDs, &s.RushingAttempts,
			&s.Receptions, &s.ReceivingYards, &s.ReceivingTDs, &s.Targets,
			&s.FantasyPoints, &s.FantasyPointsPPR, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stats: %w", err)
	}
	return stats, nil
}

// Create appends one stat row and returns it with its generated id.
func (r *StatRepository) Create(ctx context.Context, s models.PlayerStat) (*models.PlayerStat, error) {
	s.ID = uuid.NewString()
	err := r.pool.QueryRow(ctx, insertStatQuery,
		s.ID, s.PlayerID, s.Season, s.Week,
		s.PassingYards, s.PassingTDs, s.Interceptions, s.PassingAttempts, s.PassingCompletions,
		s.RushingYards, s.RushingTDs, s.RushingAttempts,
		s.Receptions, s.ReceivingYards, s.ReceivingTDs, s.Targets,
		s.FantasyPoints, s.FantasyPointsPPR,
	).Scan(&s.CreatedAt)
	if err != nil {
		return nil, utils.NewPersistenceError("insert stat for player "+s.PlayerID, err)
	}
	return &s, nil
}
