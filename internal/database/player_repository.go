package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samparkk13/fantasyedge-ai/internal/models"
	"github.com/samparkk13/fantasyedge-ai/internal/utils"
)

const playerColumns = `id, source_id, name, position, team, age, experience, height, weight, college, created_at, updated_at`

const (
	listPlayersQuery = `SELECT ` + playerColumns + ` FROM players ORDER BY name, id`

	getPlayerQuery = `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	upsertPlayerQuery = `
		INSERT INTO players (id, source_id, name, position, team, age, experience, height, weight, college)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (source_id) DO UPDATE SET
			name = EXCLUDED.name,
			position = EXCLUDED.position,
			team = EXCLUDED.team,
			age = EXCLUDED.age,
			experience = EXCLUDED.experience,
			height = EXCLUDED.height,
			weight = EXCLUDED.weight,
			college = EXCLUDED.college,
			updated_at = NOW()
		RETURNING ` + playerColumns + `, (xmax = 0) AS inserted`

	insertPlayerIfAbsentQuery = `
		INSERT INTO players (id, source_id, name, position, team, age, experience, height, weight, college)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (source_id) DO NOTHING
		RETURNING ` + playerColumns
)

// rowScanner is implemented by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// PlayerRepository handles database operations for players.
type PlayerRepository struct {
	pool DatabasePool
}

func NewPlayerRepository(pool DatabasePool) *PlayerRepository {
	return &PlayerRepository{pool: pool}
}

// List returns every stored player ordered by name.
func (r *PlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	rows, err := r.pool.Query(ctx, listPlayersQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}
	return players, nil
}

// GetByID returns the player or a NotFoundError. Malformed ids are reported
// as not found since they cannot name a stored row.
func (r *PlayerRepository) GetByID(ctx context.Context, id string) (*models.Player, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.NewNotFoundError("player", id)
	}

	p, err := scanPlayer(r.pool.QueryRow(ctx, getPlayerQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.NewNotFoundError("player", id)
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// Upsert inserts the player or overwrites every mapped field of the row with
// the same source id. The flag reports whether a new row was created.
func (r *PlayerRepository) Upsert(ctx context.Context, in models.PlayerUpsert) (*models.Player, bool, error) {
	var inserted bool
	row := r.pool.QueryRow(ctx, upsertPlayerQuery, upsertArgs(in)...)
	p, err := scanPlayer(row, &inserted)
	if err != nil {
		return nil, false, utils.NewPersistenceError("upsert player "+in.SourceID, err)
	}
	return p, inserted, nil
}

// CreateIfAbsent inserts the player only when no row has its source id. It
// returns nil and false when the player already exists.
func (r *PlayerRepository) CreateIfAbsent(ctx context.Context, in models.PlayerUpsert) (*models.Player, bool, error) {
	p, err := scanPlayer(r.pool.QueryRow(ctx, insertPlayerIfAbsentQuery, upsertArgs(in)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, utils.NewPersistenceError("create player "+in.SourceID, err)
	}
	return p, true, nil
}

func upsertArgs(in models.PlayerUpsert) []interface{} {
	return []interface{}{
		uuid.NewString(),
		in.SourceID,
		in.Name,
		string(in.Position),
		in.Team,
		in.Age,
		in.Experience,
		in.Height,
		in.Weight,
		in.College,
	}
}

func scanPlayer(row rowScanner, extra ...interface{}) (*models.Player, error) {
	var p models.Player
	var position string
	dest := []interface{}{
		&p.ID, &p.SourceID, &p.Name, &position, &p.Team,
		&p.Age, &p.Experience, &p.Height, &p.Weight, &p.College,
		&p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	p.Position = models.Position(position)
	return &p, nil
}
