package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samparkk13/fantasyedge-ai/internal/models"
	"github.com/samparkk13/fantasyedge-ai/internal/services"
)

// RunHandler exposes the last report of each batch run kind.
type RunHandler struct {
	query *services.QueryService
}

func NewRunHandler(query *services.QueryService) *RunHandler {
	return &RunHandler{query: query}
}

// GetLatestRun handles GET /runs/:kind
func (h *RunHandler) GetLatestRun(c *gin.Context) {
	kind, ok := models.ParseRunKind(c.Param("kind"))
	if !ok {
		badRequest(c, "kind must be one of: ingestion, generation")
		return
	}

	raw, err := h.query.LatestRun(c.Request.Context(), kind)
	if err != nil {
		respondError(c, err, "loading run report")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}
