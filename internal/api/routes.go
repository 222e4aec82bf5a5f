package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samparkk13/fantasyedge-ai/internal/api/handlers"
	"github.com/samparkk13/fantasyedge-ai/internal/logging"
	"github.com/samparkk13/fantasyedge-ai/internal/metrics"
	"github.com/samparkk13/fantasyedge-ai/internal/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RouterConfig carries everything SetupRoutes mounts. MCP and Metrics may be
// nil, in which case /mcp and /metrics are not registered.
type RouterConfig struct {
	ServiceName    string
	AllowedOrigins []string
	AdminAPIKey    string

	Players     *handlers.PlayerHandler
	Predictions *handlers.PredictionHandler
	Runs        *handlers.RunHandler
	Health      *handlers.HealthHandler
	MCP         http.Handler

	Metrics *metrics.Manager
	Logger  logging.Logger
}

func SetupRoutes(router *gin.Engine, cfg RouterConfig) {
	if cfg.ServiceName != "" {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.RequestMiddleware(cfg.Metrics, cfg.Logger))

	admin := middleware.NewAdminMiddleware(cfg.AdminAPIKey).RequireAdminAuth()

	// Health check endpoints
	router.GET("/health", cfg.Health.HealthCheck)
	router.GET("/health/ready", cfg.Health.ReadinessCheck)
	router.GET("/health/live", cfg.Health.LivenessCheck)

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	if cfg.MCP != nil {
		router.Any("/mcp", admin, gin.WrapH(cfg.MCP))
	}

	players := router.Group("/players")
	{
		players.GET("", cfg.Players.ListPlayers)
		players.GET("/positions/stats", cfg.Players.GetPositionStats)
		players.POST("/fetch-current", admin, cfg.Players.FetchCurrentPlayers)
		players.POST("/create-sample", admin, cfg.Players.CreateSamplePlayers)
		players.GET("/:id", cfg.Players.GetPlayer)
		players.GET("/:id/stats", cfg.Players.GetPlayerStats)
		players.POST("/:id/stats", admin, cfg.Players.AddPlayerStat)
	}

	predictions := router.Group("/predictions")
	{
		predictions.GET("", cfg.Predictions.ListPredictions)
		predictions.GET("/player/:id", cfg.Predictions.GetPlayerPrediction)
		predictions.POST("/generate/:id", admin, cfg.Predictions.GeneratePrediction)
		predictions.POST("/generate-all", admin, cfg.Predictions.GenerateAllPredictions)
		predictions.GET("/breakout-candidates", cfg.Predictions.GetBreakoutCandidates)
		predictions.GET("/summary", cfg.Predictions.GetSummary)
		predictions.GET("/position-rankings/:position", cfg.Predictions.GetPositionRankings)
	}

	router.GET("/runs/:kind", cfg.Runs.GetLatestRun)
}
