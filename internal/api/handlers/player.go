package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samparkk13/fantasyedge-ai/internal/logging"
	"github.com/samparkk13/fantasyedge-ai/internal/models"
	"github.com/samparkk13/fantasyedge-ai/internal/services"
)

const defaultPlayerLimit = 50

// PlayerHandler serves the /players routes.
type PlayerHandler struct {
	query     *services.QueryService
	ingestion *services.IngestionService
	logger    logging.Logger
}

func NewPlayerHandler(query *services.QueryService, ingestion *services.IngestionService) *PlayerHandler {
	return &PlayerHandler{
		query:     query,
		ingestion: ingestion,
	}
}

// WithLogger enables a batch_run log line after each ingestion.
func (h *PlayerHandler) WithLogger(logger logging.Logger) *PlayerHandler {
	h.logger = logger
	return h
}

// SampleRef identifies a seeded player.
type SampleRef struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Position models.Position `json:"position"`
}

// ListPlayers handles GET /players
func (h *PlayerHandler) ListPlayers(c *gin.Context) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		respondError(c, err, "listing players")
		return
	}
	limit, err := intQuery(c, "limit", defaultPlayerLimit)
	if err != nil {
		respondError(c, err, "listing players")
		return
	}

	resp, err := h.query.ListPlayers(c.Request.Context(), services.PlayerQuery{
		Position: c.Query("position"),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondError(c, err, "listing players")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetPlayer handles GET /players/:id
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	player, err := h.query.GetPlayer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "getting player")
		return
	}
	c.JSON(http.StatusOK, player)
}

// FetchCurrentPlayers handles POST /players/fetch-current
func (h *PlayerHandler) FetchCurrentPlayers(c *gin.Context) {
	report, err := h.ingestion.FetchCurrentPlayers(c.Request.Context())
	if err != nil {
		respondError(c, err, "fetching players")
		return
	}

	if h.logger != nil {
		h.logger.LogBatchRun(string(models.RunKindIngestion), map[string]interface{}{
			"fetched":      report.Fetched,
			"created":      report.Created,
			"updated":      report.Updated,
			"skipped":      report.Skipped,
			"failed":       report.Failed,
			"teams_failed": report.TeamsFailed,
			"duration_ms":  report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
		})
	}

	saved := report.Created + report.Updated
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Successfully fetched %d players", saved),
		"count":   saved,
		"report":  report,
	})
}

// CreateSamplePlayers handles POST /players/create-sample
func (h *PlayerHandler) CreateSamplePlayers(c *gin.Context) {
	players, err := h.ingestion.CreateSamplePlayers(c.Request.Context())
	if err != nil {
		respondError(c, err, "creating sample data")
		return
	}

	refs := make([]SampleRef, 0, len(players))
	for _, p := range players {
		refs = append(refs, SampleRef{ID: p.ID, Name: p.Name, Position: p.Position})
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Created %d sample players", len(players)),
		"players": refs,
	})
}

// GetPositionStats handles GET /players/positions/stats
func (h *PlayerHandler) GetPositionStats(c *gin.Context) {
	stats, err := h.query.PositionStats(c.Request.Context())
	if err != nil {
		respondError(c, err, "counting players")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetPlayerStats handles GET /players/:id/stats
func (h *PlayerHandler) GetPlayerStats(c *gin.Context) {
	playerID := c.Param("id")
	stats, err := h.query.PlayerStats(c.Request.Context(), playerID)
	if err != nil {
		respondError(c, err, "listing player stats")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"player_id": playerID,
		"stats":     stats,
	})
}

// AddPlayerStat handles POST /players/:id/stats
func (h *PlayerHandler) AddPlayerStat(c *gin.Context) {
	var req models.PlayerStatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid stat record: "+err.Error())
		return
	}

	stat, err := h.query.AddPlayerStat(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "recording player stat")
		return
	}
	c.JSON(http.StatusCreated, stat)
}
