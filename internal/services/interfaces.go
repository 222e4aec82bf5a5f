package services

import (
	"context"
	"encoding/json"

	"github.com/samparkk13/fantasyedge-ai/internal/models"
	"github.com/samparkk13/fantasyedge-ai/pkg/espn"
)

// PlayerStore is the player persistence used by the services.
// database.PlayerRepository implements it.
type PlayerStore interface {
	List(ctx context.Context) ([]models.Player, error)
	GetByID(ctx context.Context, id string) (*models.Player, error)
	Upsert(ctx context.Context, in models.PlayerUpsert) (*models.Player, bool, error)
	CreateIfAbsent(ctx context.Context, in models.PlayerUpsert) (*models.Player, bool, error)
}

// StatStore is the append-only stat history.
type StatStore interface {
	ListByPlayer(ctx context.Context, playerID string) ([]models.PlayerStat, error)
	Create(ctx context.Context, s models.PlayerStat) (*models.PlayerStat, error)
}

// PredictionStore persists at most one prediction per player and season.
type PredictionStore interface {
	GetByPlayerSeason(ctx context.Context, playerID string, season int) (*models.PlayerPrediction, error)
	InsertIfAbsent(ctx context.Context, p models.PlayerPrediction) (*models.PlayerPrediction, bool, error)
	ListBySeason(ctx context.Context, season int) ([]models.PredictionView, error)
}

// RunRecorder keeps the last report of each batch run kind.
type RunRecorder interface {
	Save(ctx context.Context, kind models.RunKind, report interface{}) error
	Latest(ctx context.Context, kind models.RunKind) (json.RawMessage, error)
}

// RosterSource lists teams and their rosters from an external provider.
type RosterSource interface {
	GetTeams(ctx context.Context) ([]espn.Team, error)
	GetRoster(ctx context.Context, teamID string) ([]espn.Athlete, error)
}
