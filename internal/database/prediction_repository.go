package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samparkk13/fantasyedge-ai/internal/models"
	"github.com/samparkk13/fantasyedge-ai/internal/utils"
)

const predictionColumns = `id, player_id, season, predicted_points, confidence, reasoning, projected_stats, breakout_score, bust_risk, created_at, updated_at`

const (
	getPredictionQuery = `SELECT ` + predictionColumns + ` FROM player_predictions WHERE player_id = $1 AND season = $2`

	insertPredictionQuery = `
		INSERT INTO player_predictions (id, player_id, season, predicted_points, confidence, reasoning, projected_stats, breakout_score, bust_risk)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (player_id, season) DO NOTHING
		RETURNING ` + predictionColumns

	listPredictionViewsQuery = `
		SELECT pp.id, pp.player_id, pp.season, pp.predicted_points, pp.confidence, pp.reasoning,
			pp.projected_stats, pp.breakout_score, pp.bust_risk, pp.created_at, pp.updated_at,
			p.name, p.position, p.team
		FROM player_predictions pp
		JOIN players p ON p.id = pp.player_id
		WHERE pp.season = $1
		ORDER BY pp.predicted_points DESC, p.name`
)

// PredictionRepository stores at most one prediction per player and season.
type PredictionRepository struct {
	pool DatabasePool
}

func NewPredictionRepository(pool DatabasePool) *PredictionRepository {
	return &PredictionRepository{pool: pool}
}

// GetByPlayerSeason returns the stored prediction or a NotFoundError.
func (r *PredictionRepository) GetByPlayerSeason(ctx context.Context, playerID string, season int) (*models.PlayerPrediction, error) {
	if _, err := uuid.Parse(playerID); err != nil {
		return nil, utils.NewNotFoundError("prediction", playerID)
	}

	p, err := scanPrediction(r.pool.QueryRow(ctx, getPredictionQuery, playerID, season))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.NewNotFoundError("prediction", fmt.Sprintf("%s/%d", playerID, season))
		}
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return p, nil
}

// InsertIfAbsent stores p unless a prediction for the same player and season
// exists, in which case the stored row is returned and the flag is false.
// The unique key makes concurrent callers converge on one row.
func (r *PredictionRepository) InsertIfAbsent(ctx context.Context, p models.PlayerPrediction) (*models.PlayerPrediction, bool, error) {
	projected, err := json.Marshal(p.ProjectedStats)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode projected stats: %w", err)
	}

	stored, err := scanPrediction(r.pool.QueryRow(ctx, insertPredictionQuery,
		uuid.NewString(), p.PlayerID, p.Season, p.PredictedPoints, p.Confidence,
		p.Reasoning, projected, p.BreakoutScore, p.BustRisk,
	))
	if err == nil {
		return stored, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, utils.NewPersistenceError("insert prediction for player "+p.PlayerID, err)
	}

	existing, err := r.GetByPlayerSeason(ctx, p.PlayerID, p.Season)
	if err != nil {
		return nil, false, utils.NewPersistenceError("read back prediction for player "+p.PlayerID, err)
	}
	return existing, false, nil
}

// ListBySeason returns the season's predictions joined with player identity,
// best projection first.
func (r *PredictionRepository) ListBySeason(ctx context.Context, season int) ([]models.PredictionView, error) {
	rows, err := r.pool.Query(ctx, listPredictionViewsQuery, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions for season %d: %w", season, err)
	}
	defer rows.Close()

	views := make([]models.PredictionView, 0)
	for rows.Next() {
		var v models.PredictionView
		var name, position, team string
		p, err := scanPrediction(rows, &name, &position, &team)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		v.PlayerPrediction = *p
		v.PlayerName = name
		v.PlayerPosition = models.Position(position)
		v.PlayerTeam = team
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate predictions: %w", err)
	}
	return views, nil
}

func scanPrediction(row rowScanner, extra ...interface{}) (*models.PlayerPrediction, error) {
	var p models.PlayerPrediction
	var projected []byte
	dest := []interface{}{
		&p.ID, &p.PlayerID, &p.Season, &p.PredictedPoints, &p.Confidence, &p.Reasoning,
		&projected, &p.BreakoutScore, &p.BustRisk, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	p.ProjectedStats = models.ProjectedStats{}
	if len(projected) > 0 {
		if err := json.Unmarshal(projected, &p.ProjectedStats); err != nil {
			return nil, fmt.Errorf("failed to decode projected stats: %w", err)
		}
	}
	return &p, nil
}
