package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/samparkk13/fantasyedge-ai/internal/middleware"
	"github.com/samparkk13/fantasyedge-ai/internal/services"
	"github.com/samparkk13/fantasyedge-ai/internal/utils"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// respondError maps a service error onto its HTTP status. action describes
// the failed operation for server-side errors.
func respondError(c *gin.Context, err error, action string) {
	var (
		status  int
		label   string
		message = err.Error()
	)

	var notFound *utils.NotFoundError
	var invalid *utils.ValidationError
	switch {
	case errors.As(err, &notFound):
		status, label = http.StatusNotFound, "Not found"
	case errors.As(err, &invalid):
		status, label = http.StatusBadRequest, "Invalid request"
	default:
		status, label = http.StatusInternalServerError, "Internal server error"
		message = "Error " + action + ": " + err.Error()
		middleware.RecordError(c, err, action)
	}

	c.JSON(status, ErrorResponse{
		Error:     label,
		Message:   message,
		RequestID: middleware.RequestID(c),
	})
}

func badRequest(c *gin.Context, message string) {
	respondError(c, utils.NewValidationError(message), "")
}

// intQuery reads an integer query parameter, falling back to def when absent.
func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, utils.NewValidationErrorf("%s must be an integer", name)
	}
	return v, nil
}

// boundedIntQuery is intQuery restricted to [lo, hi].
func boundedIntQuery(c *gin.Context, name string, def, lo, hi int) (int, error) {
	v, err := intQuery(c, name, def)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, utils.NewValidationErrorf("%s must be between %d and %d", name, lo, hi)
	}
	return v, nil
}

// floatQuery returns nil when the parameter is absent.
func floatQuery(c *gin.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, utils.NewValidationErrorf("%s must be a number", name)
	}
	return &v, nil
}

func seasonQuery(c *gin.Context, def int) (int, error) {
	season, err := intQuery(c, "season", def)
	if err != nil {
		return 0, err
	}
	if err := services.ValidateSeason(season); err != nil {
		return 0, err
	}
	return season, nil
}
