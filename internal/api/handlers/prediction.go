package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/samparkk13/fantasyedge-ai/internal/logging"
	"github.com/samparkk13/fantasyedge-ai/internal/models"
	"github.com/samparkk13/fantasyedge-ai/internal/services"
)

const (
	defaultPredictionLimit = 50
	defaultBreakoutScore   = 0.6
	defaultBreakoutLimit   = 20
	maxBreakoutLimit       = 50
)

// PredictionHandler serves the /predictions routes.
type PredictionHandler struct {
	predictions   *services.PredictionService
	query         *services.QueryService
	defaultSeason int
	logger        logging.Logger
}

// NewPredictionHandler creates the handler. A non-positive defaultSeason
// falls back to services.DefaultSeason.
func NewPredictionHandler(predictions *services.PredictionService, query *services.QueryService, defaultSeason int) *PredictionHandler {
	if defaultSeason <= 0 {
		defaultSeason = services.DefaultSeason
	}
	return &PredictionHandler{
		predictions:   predictions,
		query:         query,
		defaultSeason: defaultSeason,
	}
}

// WithLogger enables a batch_run log line after each generate-all.
func (h *PredictionHandler) WithLogger(logger logging.Logger) *PredictionHandler {
	h.logger = logger
	return h
}

// GenerateResponse reports the prediction produced for one player.
type GenerateResponse struct {
	Message         string  `json:"message"`
	PredictionID    string  `json:"prediction_id"`
	PredictedPoints float64 `json:"predicted_points"`
	Confidence      float64 `json:"confidence"`
}

// GenerateAllResponse reports a generate-all run.
type GenerateAllResponse struct {
	Message            string              `json:"message"`
	Season             int                 `json:"season"`
	PredictionsCreated int                 `json:"predictions_created"`
	Report             *models.BatchReport `json:"report"`
}

// RankingsResponse is a position ranking for one season.
type RankingsResponse struct {
	Position string                   `json:"position"`
	Season   int                      `json:"season"`
	Rankings []models.PositionRanking `json:"rankings"`
}

// ListPredictions handles GET /predictions
func (h *PredictionHandler) ListPredictions(c *gin.Context) {
	season, err := seasonQuery(c, h.defaultSeason)
	if err != nil {
		respondError(c, err, "listing predictions")
		return
	}
	minConfidence, err := floatQuery(c, "min_confidence")
	if err != nil {
		respondError(c, err, "listing predictions")
		return
	}
	minBreakout, err := floatQuery(c, "min_breakout_score")
	if err != nil {
		respondError(c, err, "listing predictions")
		return
	}
	limit, err := intQuery(c, "limit", defaultPredictionLimit)
	if err != nil {
		respondError(c, err, "listing predictions")
		return
	}

	views, err := h.query.ListPredictions(c.Request.Context(), season, models.PredictionFilter{
		Position:         c.Query("position"),
		MinConfidence:    minConfidence,
		MinBreakoutScore: minBreakout,
	}, limit)
	if err != nil {
		respondError(c, err, "listing predictions")
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetPlayerPrediction handles GET /predictions/player/:id
func (h *PredictionHandler) GetPlayerPrediction(c *gin.Context) {
	season, err := seasonQuery(c, h.defaultSeason)
	if err != nil {
		respondError(c, err, "getting prediction")
		return
	}

	view, err := h.query.PlayerPrediction(c.Request.Context(), c.Param("id"), season)
	if err != nil {
		respondError(c, err, "getting prediction")
		return
	}
	c.JSON(http.StatusOK, view)
}

// GeneratePrediction handles POST /predictions/generate/:id
func (h *PredictionHandler) GeneratePrediction(c *gin.Context) {
	playerID := c.Param("id")
	season, err := seasonQuery(c, h.defaultSeason)
	if err != nil {
		respondError(c, err, "generating prediction")
		return
	}

	prediction, err := h.predictions.GenerateOne(c.Request.Context(), playerID, season)
	if err != nil {
		respondError(c, err, "generating prediction")
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{
		Message:         fmt.Sprintf("Generated prediction for player %s", playerID),
		PredictionID:    prediction.ID,
		PredictedPoints: prediction.PredictedPoints,
		Confidence:      prediction.Confidence,
	})
}

// GenerateAllPredictions handles POST /predictions/generate-all
func (h *PredictionHandler) GenerateAllPredictions(c *gin.Context) {
	season, err := seasonQuery(c, h.defaultSeason)
	if err != nil {
		respondError(c, err, "generating predictions")
		return
	}

	predictions, report, err := h.predictions.GenerateAll(c.Request.Context(), season)
	if err != nil {
		respondError(c, err, "generating predictions")
		return
	}

	if h.logger != nil && report != nil {
		h.logger.LogBatchRun(string(models.RunKindGeneration), map[string]interface{}{
			"season":      report.Season,
			"players":     report.Players,
			"created":     report.Created,
			"existing":    report.Existing,
			"failed":      report.Failed,
			"workers":     report.Workers,
			"duration_ms": report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
		})
	}

	c.JSON(http.StatusOK, GenerateAllResponse{
		Message:            fmt.Sprintf("Generated predictions for %d players", len(predictions)),
		Season:             season,
		PredictionsCreated: len(predictions),
		Report:             report,
	})
}

// GetBreakoutCandidates handles GET /predictions/breakout-candidates
func (h *PredictionHandler) GetBreakoutCandidates(c *gin.Context) {
	season, err := seasonQuery(c, h.defaultSeason)
	if err != nil {
		respondError(c, err, "getting breakout candidates")
		return
	}
	minScore := defaultBreakoutScore
	if v, err := floatQuery(c, "min_score"); err != nil {
		respondError(c, err, "getting breakout candidates")
		return
	} else if v != nil {
		minScore = *v
	}
	limit, err := boundedIntQuery(c, "limit", defaultBreakoutLimit, 1, maxBreakoutLimit)
	if err != nil {
		respondError(c, err, "getting breakout candidates")
		return
	}

	candidates, err := h.predictions.BreakoutCandidates(c.Request.Context(), season, minScore)
	if err != nil {
		respondError(c, err, "getting breakout candidates")
		return
	}
	c.JSON(http.StatusOK, services.Limit(candidates, limit))
}

// GetSummary handles GET /predictions/summary
func (h *PredictionHandler) GetSummary(c *gin.Context) {
	season, err := seasonQuery(c, h.defaultSeason)
	if err != nil {
		respondError(c, err, "summarizing predictions")
		return
	}

	summary, err := h.query.Summary(c.Request.Context(), season)
	if err != nil {
		respondError(c, err, "summarizing predictions")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetPositionRankings handles GET /predictions/position-rankings/:position
func (h *PredictionHandler) GetPositionRankings(c *gin.Context) {
	position := c.Param("position")
	season, err := seasonQuery(c, h.defaultSeason)
	if err != nil {
		respondError(c, err, "ranking predictions")
		return
	}

	rankings, err := h.query.PositionRankings(c.Request.Context(), position, season)
	if err != nil {
		respondError(c, err, "ranking predictions")
		return
	}

	c.JSON(http.StatusOK, RankingsResponse{
		Position: strings.ToUpper(position),
		Season:   season,
		Rankings: rankings,
	})
}
