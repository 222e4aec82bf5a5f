package services

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/samparkk13/fantasyedge-ai/internal/models"
	"github.com/samparkk13/fantasyedge-ai/internal/utils"
	"github.com/sirupsen/logrus"
)

// PlayerQuery is a filtered, paginated player listing request.
type PlayerQuery struct {
	Position string
	Search   string
	Page     int
	Limit    int
}

// QueryService serves the read side: listings, lookups and aggregates over
// stored players and predictions.
type QueryService struct {
	players     PlayerStore
	stats       StatStore
	predictions PredictionStore
	runs        RunRecorder
	logger      *logrus.Logger
}

// NewQueryService creates a new query service. runs may be nil.
func NewQueryService(players PlayerStore, stats StatStore, predictions PredictionStore, runs RunRecorder, logger *logrus.Logger) *QueryService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &QueryService{
		players:     players,
		stats:       stats,
		predictions: predictions,
		runs:        runs,
		logger:      logger,
	}
}

// ListPlayers returns one page of the players matching q and the total
// number of matches.
func (s *QueryService) ListPlayers(ctx context.Context, q PlayerQuery) (*models.PlayerListResponse, error) {
	if q.Page < 1 {
		return nil, utils.NewValidationError("page must be at least 1")
	}
	if q.Limit < 1 || q.Limit > 100 {
		return nil, utils.NewValidationError("limit must be between 1 and 100")
	}

	players, err := s.players.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := FilterPlayers(players, q.Position, q.Search)
	return &models.PlayerListResponse{
		Players: Paginate(matched, q.Page, q.Limit),
		Total:   len(matched),
		Page:    q.Page,
		Limit:   q.Limit,
	}, nil
}

// GetPlayer returns one player by id.
func (s *QueryService) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	return s.players.GetByID(ctx, id)
}

// PositionStats counts stored players by position.
func (s *QueryService) PositionStats(ctx context.Context) (*models.PositionStatsResponse, error) {
	players, err := s.players.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, total := CountByPosition(players)
	return &models.PositionStatsResponse{PositionStats: counts, TotalPlayers: total}, nil
}

// PlayerStats returns the stat history of an existing player.
func (s *QueryService) PlayerStats(ctx context.Context, playerID string) ([]models.PlayerStat, error) {
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return s.stats.ListByPlayer(ctx, player.ID)
}

// AddPlayerStat appends one stat record to an existing player's history.
func (s *QueryService) AddPlayerStat(ctx context.Context, playerID string, req models.PlayerStatRequest) (*models.PlayerStat, error) {
	if err := ValidateSeason(req.Season); err != nil {
		return nil, err
	}
	if req.Week < 1 || req.Week > 22 {
		return nil, utils.NewValidationError("week must be between 1 and 22")
	}

	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	stat, err := s.stats.Create(ctx, req.ToStat(player.ID))
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"player_id": player.ID,
		"season":    stat.Season,
		"week":      stat.Week,
	}).Info("Recorded player stat")
	return stat, nil
}

// ListPredictions returns up to limit of the season's predictions matching
// filter, highest predicted points first.
func (s *QueryService) ListPredictions(ctx context.Context, season int, filter models.PredictionFilter, limit int) ([]models.PredictionView, error) {
	if err := ValidateSeason(season); err != nil {
		return nil, err
	}
	if err := validateUnit("min_confidence", filter.MinConfidence); err != nil {
		return nil, err
	}
	if err := validateUnit("min_breakout_score", filter.MinBreakoutScore); err != nil {
		return nil, err
	}
	if limit < 1 || limit > 100 {
		return nil, utils.NewValidationError("limit must be between 1 and 100")
	}

	views, err := s.predictions.ListBySeason(ctx, season)
	if err != nil {
		return nil, err
	}

	filtered := FilterPredictions(views, filter)
	RankByPredictedPoints(filtered)
	return Limit(filtered, limit), nil
}

// PlayerPrediction returns the stored prediction of one player and season.
// The player's identity is included.
func (s *QueryService) PlayerPrediction(ctx context.Context, playerID string, season int) (*models.PredictionView, error) {
	if err := ValidateSeason(season); err != nil {
		return nil, err
	}

	prediction, err := s.predictions.GetByPlayerSeason(ctx, playerID, season)
	if err != nil {
		return nil, err
	}
	player, err := s.players.GetByID(ctx, prediction.PlayerID)
	if err != nil {
		return nil, err
	}

	return &models.PredictionView{
		PlayerPrediction: *prediction,
		PlayerName:       player.Name,
		PlayerPosition:   player.Position,
		PlayerTeam:       player.Team,
	}, nil
}

// Summary aggregates the season's predictions.
func (s *QueryService) Summary(ctx context.Context, season int) (*models.PredictionSummary, error) {
	if err := ValidateSeason(season); err != nil {
		return nil, err
	}
	views, err := s.predictions.ListBySeason(ctx, season)
	if err != nil {
		return nil, err
	}
	summary := Summarize(views)
	return &summary, nil
}

// PositionRankings ranks the season's predictions of one position. It fails
// with a NotFoundError when the position has none.
func (s *QueryService) PositionRankings(ctx context.Context, position string, season int) ([]models.PositionRanking, error) {
	if err := ValidateSeason(season); err != nil {
		return nil, err
	}
	views, err := s.predictions.ListBySeason(ctx, season)
	if err != nil {
		return nil, err
	}

	rankings := PositionRankings(views, position)
	if len(rankings) == 0 {
		return nil, &utils.NotFoundError{Resource: "predictions for position " + strings.ToUpper(position)}
	}
	return rankings, nil
}

// LatestRun returns the last stored report of a batch run kind.
func (s *QueryService) LatestRun(ctx context.Context, kind models.RunKind) (json.RawMessage, error) {
	if s.runs == nil {
		return nil, utils.NewNotFoundError("run report", string(kind))
	}
	return s.runs.Latest(ctx, kind)
}

func validateUnit(name string, v *float64) error {
	if v != nil && (math.IsNaN(*v) || *v < 0 || *v > 1) {
		return utils.NewValidationErrorf("%s must be between 0 and 1", name)
	}
	return nil
}
