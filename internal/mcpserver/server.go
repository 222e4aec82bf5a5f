// Package mcpserver exposes the prediction read and generate operations as
// MCP tools so assistants can query projections directly.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/samparkk13/fantasyedge-ai/internal/models"
	"github.com/samparkk13/fantasyedge-ai/internal/services"
)

const (
	ServerName    = "fantasyedge-mcp"
	ServerVersion = "1.0.0"

	defaultListLimit     = 25
	defaultBreakoutScore = 0.6
	defaultBreakoutLimit = 20
	maxBreakoutLimit     = 50
)

type ListPlayersArgs struct {
	Position string `json:"position,omitempty" jsonschema:"Position filter: QB, RB, WR, TE, K or DST"`
	Search   string `json:"search,omitempty" jsonschema:"Case-insensitive name substring"`
	Page     int    `json:"page,omitempty" jsonschema:"Page number (default 1)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Page size, 1-100 (default 25)"`
}

type PlayerSeasonArgs struct {
	PlayerID string `json:"player_id" jsonschema:"Player id (required)"`
	Season   int    `json:"season,omitempty" jsonschema:"Season year (0 = default season)"`
}

type BreakoutArgs struct {
	Season   int      `json:"season,omitempty" jsonschema:"Season year (0 = default season)"`
	MinScore *float64 `json:"min_score,omitempty" jsonschema:"Minimum breakout score in [0,1] (default 0.6)"`
	Limit    int      `json:"limit,omitempty" jsonschema:"Maximum candidates, 1-50 (default 20)"`
}

type RankingsArgs struct {
	Position string `json:"position" jsonschema:"Position to rank (required)"`
	Season   int    `json:"season,omitempty" jsonschema:"Season year (0 = default season)"`
}

type RunArgs struct {
	Kind string `json:"kind" jsonschema:"Run kind: ingestion or generation (required)"`
}

type SeasonArgs struct {
	Season int `json:"season,omitempty" jsonschema:"Season year (0 = default season)"`
}

// Server wraps an MCP server whose tools call the prediction services.
type Server struct {
	server        *mcp.Server
	predictions   *services.PredictionService
	query         *services.QueryService
	defaultSeason int
	logger        *logrus.Logger
	tools         []string
}

// NewServer creates the MCP server and registers every tool.
func NewServer(predictions *services.PredictionService, query *services.QueryService, defaultSeason int, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		}, nil),
		predictions:   predictions,
		query:         query,
		defaultSeason: defaultSeason,
		logger:        logger,
	}
	if s.defaultSeason <= 0 {
		s.defaultSeason = services.DefaultSeason
	}
	s.registerTools()
	return s
}

// MCP returns the underlying server, for Run over a custom transport.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// Tools lists the registered tool names in registration order.
func (s *Server) Tools() []string {
	return append([]string(nil), s.tools...)
}

// Handler serves the tools over streamable HTTP.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

func addTool[T any](s *Server, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	s.tools = append(s.tools, tool.Name)
	mcp.AddTool(s.server, tool, handler)
}

func (s *Server) registerTools() {
	addTool(s, &mcp.Tool{
		Name:        "list_players",
		Description: "List stored NFL players with optional position and name filters",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ListPlayersArgs) (*mcp.CallToolResult, any, error) {
		page := args.Page
		if page == 0 {
			page = 1
		}
		limit := args.Limit
		if limit == 0 {
			limit = defaultListLimit
		}
		return s.toolJSON(s.query.ListPlayers(ctx, services.PlayerQuery{
			Position: args.Position,
			Search:   args.Search,
			Page:     page,
			Limit:    limit,
		}))
	})

	addTool(s, &mcp.Tool{
		Name:        "get_prediction",
		Description: "Stored season prediction for one player",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args PlayerSeasonArgs) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(args.PlayerID) == "" {
			return toolError(fmt.Errorf("player_id is required")), nil, nil
		}
		return s.toolJSON(s.query.PlayerPrediction(ctx, args.PlayerID, s.season(args.Season)))
	})

	addTool(s, &mcp.Tool{
		Name:        "generate_prediction",
		Description: "Generate the season prediction for one player, or return the stored one",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args PlayerSeasonArgs) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(args.PlayerID) == "" {
			return toolError(fmt.Errorf("player_id is required")), nil, nil
		}
		return s.toolJSON(s.predictions.GenerateOne(ctx, args.PlayerID, s.season(args.Season)))
	})

	addTool(s, &mcp.Tool{
		Name:        "breakout_candidates",
		Description: "Predictions with the highest breakout scores for a season",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args BreakoutArgs) (*mcp.CallToolResult, any, error) {
		minScore := defaultBreakoutScore
		if args.MinScore != nil {
			minScore = *args.MinScore
		}
		limit := args.Limit
		if limit == 0 {
			limit = defaultBreakoutLimit
		}
		if limit < 1 || limit > maxBreakoutLimit {
			return toolError(fmt.Errorf("limit must be between 1 and %d", maxBreakoutLimit)), nil, nil
		}
		candidates, err := s.predictions.BreakoutCandidates(ctx, s.season(args.Season), minScore)
		if err != nil {
			return s.toolFailure(err), nil, nil
		}
		return s.toolJSON(services.Limit(candidates, limit), nil)
	})

	addTool(s, &mcp.Tool{
		Name:        "position_rankings",
		Description: "Top predicted scorers at one position for a season",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args RankingsArgs) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(args.Position) == "" {
			return toolError(fmt.Errorf("position is required")), nil, nil
		}
		season := s.season(args.Season)
		rankings, err := s.query.PositionRankings(ctx, args.Position, season)
		if err != nil {
			return s.toolFailure(err), nil, nil
		}
		return s.toolJSON(map[string]any{
			"position": strings.ToUpper(args.Position),
			"season":   season,
			"rankings": rankings,
		}, nil)
	})

	addTool(s, &mcp.Tool{
		Name:        "prediction_summary",
		Description: "Aggregate confidence, breakout and bust counts for a season",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SeasonArgs) (*mcp.CallToolResult, any, error) {
		return s.toolJSON(s.query.Summary(ctx, s.season(args.Season)))
	})

	addTool(s, &mcp.Tool{
		Name:        "latest_run",
		Description: "Report of the most recent ingestion or generation run",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args RunArgs) (*mcp.CallToolResult, any, error) {
		kind, ok := models.ParseRunKind(args.Kind)
		if !ok {
			return toolError(fmt.Errorf("kind must be one of: ingestion, generation")), nil, nil
		}
		raw, err := s.query.LatestRun(ctx, kind)
		if err != nil {
			return s.toolFailure(err), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
		}, nil, nil
	})
}

func (s *Server) season(requested int) int {
	if requested == 0 {
		return s.defaultSeason
	}
	return requested
}

// toolJSON renders v as the tool's text content. Service errors become tool
// errors so the caller sees them instead of a protocol failure.
func (s *Server) toolJSON(v any, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return s.toolFailure(err), nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}, nil, nil
}

func (s *Server) toolFailure(err error) *mcp.CallToolResult {
	s.logger.WithError(err).Debug("MCP tool call failed")
	return toolError(err)
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
