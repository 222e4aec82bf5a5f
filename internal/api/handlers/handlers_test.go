package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/samparkk13/fantasyedge-ai/internal/logging"
	"github.com/samparkk13/fantasyedge-ai/internal/models"
	"github.com/samparkk13/fantasyedge-ai/internal/services"
	"github.com/samparkk13/fantasyedge-ai/internal/testutil"
)

type handlerFixture struct {
	players     *testutil.MockPlayerStore
	stats       *testutil.MockStatStore
	predictions *testutil.MockPredictionStore
	runs        *testutil.MockRunRecorder
	source      *testutil.MockRosterSource
	ingestion   *services.IngestionService
	logs        *bytes.Buffer
	router      *gin.Engine
}

func newHandlerFixture() *handlerFixture {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := &handlerFixture{
		players:     new(testutil.MockPlayerStore),
		stats:       new(testutil.MockStatStore),
		predictions: new(testutil.MockPredictionStore),
		runs:        new(testutil.MockRunRecorder),
		source:      new(testutil.MockRosterSource),
		logs:        new(bytes.Buffer),
	}
	batchLogger := logging.NewStandardLoggerWithWriter(f.logs, "info", "test")

	query := services.NewQueryService(f.players, f.stats, f.predictions, f.runs, logger)
	generator := services.NewPredictionService(f.players, f.stats, f.predictions, f.runs, nil, nil, logger)
	f.ingestion = services.NewIngestionService(f.source, f.players, f.runs, nil, logger)

	players := NewPlayerHandler(query, f.ingestion).WithLogger(batchLogger)
	predictions := NewPredictionHandler(generator, query, 0).WithLogger(batchLogger)
	runs := NewRunHandler(query)

	r := gin.New()
	r.GET("/players", players.ListPlayers)
	r.GET("/players/positions/stats", players.GetPositionStats)
	r.POST("/players/fetch-current", players.FetchCurrentPlayers)
	r.POST("/players/create-sample", players.CreateSamplePlayers)
	r.GET("/players/:id", players.GetPlayer)
	r.GET("/players/:id/stats", players.GetPlayerStats)
	r.POST("/players/:id/stats", players.AddPlayerStat)

	r.GET("/predictions", predictions.ListPredictions)
	r.GET("/predictions/player/:id", predictions.GetPlayerPrediction)
	r.POST("/predictions/generate/:id", predictions.GeneratePrediction)
	r.POST("/predictions/generate-all", predictions.GenerateAllPredictions)
	r.GET("/predictions/breakout-candidates", predictions.GetBreakoutCandidates)
	r.GET("/predictions/summary", predictions.GetSummary)
	r.GET("/predictions/position-rankings/:position", predictions.GetPositionRankings)

	r.GET("/runs/:kind", runs.GetLatestRun)

	f.router = r
	return f
}

func (f *handlerFixture) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// batchRunEntry returns the last batch_run line the handlers logged.
func (f *handlerFixture) batchRunEntry(t *testing.T) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(f.logs.String()), "\n") {
		if !strings.Contains(line, `"event":"batch_run"`) {
			continue
		}
		entry = nil
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
	}
	require.NotNil(t, entry, "no batch_run log line")
	return entry
}

func intPtr(v int) *int { return &v }

func testPlayer(id, name string, pos models.Position, team string) models.Player {
	return models.Player{
		ID:         id,
		SourceID:   "src-" + id,
		Name:       name,
		Position:   pos,
		Team:       team,
		Age:        intPtr(27),
		Experience: intPtr(4),
	}
}

func testView(id, name string, pos models.Position, points, confidence, breakout float64) models.PredictionView {
	return models.PredictionView{
		PlayerPrediction: models.PlayerPrediction{
			ID:              id,
			PlayerID:        "p-" + id,
			Season:          2025,
			PredictedPoints: points,
			Confidence:      confidence,
			BreakoutScore:   breakout,
			BustRisk:        0.3,
			Reasoning:       "Standard projection for " + string(pos) + " with current profile",
			ProjectedStats:  models.ProjectedStats{"fantasy_points": points},
			CreatedAt:       time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		},
		PlayerName:     name,
		PlayerPosition: pos,
		PlayerTeam:     "KC",
	}
}
