// Package testutil holds test doubles shared by the service, handler and
// MCP tests.
package testutil

import (
	"context"
	"encoding/json"

	"github.com/samparkk13/fantasyedge-ai/internal/models"
	"github.com/samparkk13/fantasyedge-ai/pkg/espn"
	"github.com/stretchr/testify/mock"
)

// MockPlayerStore is a testify mock of services.PlayerStore.
type MockPlayerStore struct {
	mock.Mock
}

func (m *MockPlayerStore) List(ctx context.Context) ([]models.Player, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Player), args.Error(1)
}

func (m *MockPlayerStore) GetByID(ctx context.Context, id string) (*models.Player, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerStore) Upsert(ctx context.Context, in models.PlayerUpsert) (*models.Player, bool, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Player), args.Bool(1), args.Error(2)
}

func (m *MockPlayerStore) CreateIfAbsent(ctx context.Context, in models.PlayerUpsert) (*models.Player, bool, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Player), args.Bool(1), args.Error(2)
}

// MockStatStore is a testify mock of services.StatStore.
type MockStatStore struct {
	mock.Mock
}

func (m *MockStatStore) ListByPlayer(ctx context.Context, playerID string) ([]models.PlayerStat, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PlayerStat), args.Error(1)
}

func (m *MockStatStore) Create(ctx context.Context, s models.PlayerStat) (*models.PlayerStat, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerStat), args.Error(1)
}

// MockPredictionStore is a testify mock of services.PredictionStore.
type MockPredictionStore struct {
	mock.Mock
}

func (m *MockPredictionStore) GetByPlayerSeason(ctx context.Context, playerID string, season int) (*models.PlayerPrediction, error) {
	args := m.Called(ctx, playerID, season)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerPrediction), args.Error(1)
}

func (m *MockPredictionStore) InsertIfAbsent(ctx context.Context, p models.PlayerPrediction) (*models.PlayerPrediction, bool, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.PlayerPrediction), args.Bool(1), args.Error(2)
}

func (m *MockPredictionStore) ListBySeason(ctx context.Context, season int) ([]models.PredictionView, error) {
	args := m.Called(ctx, season)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PredictionView), args.Error(1)
}

// MockRunRecorder is a testify mock of services.RunRecorder.
type MockRunRecorder struct {
	mock.Mock
}

func (m *MockRunRecorder) Save(ctx context.Context, kind models.RunKind, report interface{}) error {
	args := m.Called(ctx, kind, report)
	return args.Error(0)
}

func (m *MockRunRecorder) Latest(ctx context.Context, kind models.RunKind) (json.RawMessage, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// MockRosterSource is a testify mock of services.RosterSource.
type MockRosterSource struct {
	mock.Mock
}

func (m *MockRosterSource) GetTeams(ctx context.Context) ([]espn.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]espn.Team), args.Error(1)
}

func (m *MockRosterSource) GetRoster(ctx context.Context, teamID string) ([]espn.Athlete, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]espn.Athlete), args.Error(1)
}
