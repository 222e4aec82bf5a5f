package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/samparkk13/fantasyedge-ai/internal/metrics"
	"github.com/samparkk13/fantasyedge-ai/internal/models"
	"github.com/samparkk13/fantasyedge-ai/internal/telemetry"
	"github.com/samparkk13/fantasyedge-ai/internal/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	MinSeason     = 1920
	MaxSeason     = 2100
	DefaultSeason = 2025
)

// ValidateSeason rejects seasons outside the supported range.
func ValidateSeason(season int) error {
	if season < MinSeason || season > MaxSeason {
		return utils.NewValidationErrorf("season must be between %d and %d", MinSeason, MaxSeason)
	}
	return nil
}

// PredictionService generates predictions and persists them at most once
// per player and season.
type PredictionService struct {
	players     PlayerStore
	stats       StatStore
	predictions PredictionStore
	runs        RunRecorder
	engine      *PredictionEngine
	optimizer   *ResourceOptimizer
	metrics     *metrics.Manager
	tracer      *telemetry.BusinessTracer
	logger      *logrus.Logger
}

// NewPredictionService creates a new prediction service. runs, optimizer and
// metricsManager may be nil.
func NewPredictionService(
	players PlayerStore,
	stats StatStore,
	predictions PredictionStore,
	runs RunRecorder,
	optimizer *ResourceOptimizer,
	metricsManager *metrics.Manager,
	logger *logrus.Logger,
) *PredictionService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PredictionService{
		players:     players,
		stats:       stats,
		predictions: predictions,
		runs:        runs,
		engine:      NewPredictionEngine(),
		optimizer:   optimizer,
		metrics:     metricsManager,
		tracer:      telemetry.NewBusinessTracer(),
		logger:      logger,
	}
}

// GenerateOne returns the stored prediction for the player and season,
// computing and storing it first when none exists.
func (s *PredictionService) GenerateOne(ctx context.Context, playerID string, season int) (*models.PlayerPrediction, error) {
	prediction, _, err := s.generate(ctx, playerID, season)
	return prediction, err
}

func (s *PredictionService) generate(ctx context.Context, playerID string, season int) (*models.PlayerPrediction, string, error) {
	if err := ValidateSeason(season); err != nil {
		return nil, metrics.OutcomeFailed, err
	}

	ctx, span := s.tracer.TracePredictionGeneration(ctx, playerID, season)
	defer span.End()
	start := time.Now()

	prediction, outcome, err := s.getOrCreate(ctx, playerID, season)
	s.metrics.RecordPrediction(outcome, time.Since(start))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, outcome, err
	}

	s.tracer.RecordPrediction(span, telemetry.PredictionOutcome{
		PredictedPoints: prediction.PredictedPoints,
		Confidence:      prediction.Confidence,
		BreakoutScore:   prediction.BreakoutScore,
		BustRisk:        prediction.BustRisk,
		Existing:        outcome == metrics.OutcomeExisting,
	})
	return prediction, outcome, nil
}

func (s *PredictionService) getOrCreate(ctx context.Context, playerID string, season int) (*models.PlayerPrediction, string, error) {
	existing, err := s.predictions.GetByPlayerSeason(ctx, playerID, season)
	if err == nil {
		return existing, metrics.OutcomeExisting, nil
	}
	if !utils.IsNotFound(err) {
		return nil, metrics.OutcomeFailed, err
	}

	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, metrics.OutcomeFailed, err
	}

	history, err := s.stats.ListByPlayer(ctx, player.ID)
	if err != nil {
		return nil, metrics.OutcomeFailed, err
	}

	result := s.engine.Compute(*player, history, season)
	stored, created, err := s.predictions.InsertIfAbsent(ctx, models.PlayerPrediction{
		PlayerID:        player.ID,
		Season:          season,
		PredictedPoints: result.PredictedPoints,
		Confidence:      result.Confidence,
		Reasoning:       result.Reasoning,
		ProjectedStats:  result.ProjectedStats,
		BreakoutScore:   result.BreakoutScore,
		BustRisk:        result.BustRisk,
	})
	if err != nil {
		return nil, metrics.OutcomeFailed, err
	}

	if !created {
		s.logger.WithFields(logrus.Fields{
			"player_id": player.ID,
			"season":    season,
		}).Debug("Prediction stored concurrently, returning existing record")
		return stored, metrics.OutcomeExisting, nil
	}

	s.logger.WithFields(logrus.Fields{
		"player_id":        player.ID,
		"player_name":      player.Name,
		"season":           season,
		"predicted_points": stored.PredictedPoints,
		"confidence":       stored.Confidence,
	}).Info("Generated prediction")
	return stored, metrics.OutcomeCreated, nil
}

// GenerateAll runs GenerateOne for every player on a bounded worker pool.
// A failure for one player is logged and counted; it never aborts the run.
// Predictions are returned in player order.
func (s *PredictionService) GenerateAll(ctx context.Context, season int) ([]models.PlayerPrediction, *models.BatchReport, error) {
	if err := ValidateSeason(season); err != nil {
		return nil, nil, err
	}

	players, err := s.players.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	workers := s.workerLimit(ctx)
	ctx, span := s.tracer.TraceBatch(ctx, string(models.RunKindGeneration),
		attribute.Int("prediction.season", season),
		attribute.Int("batch.players", len(players)),
		attribute.Int("batch.workers", workers),
	)
	defer span.End()

	report := &models.BatchReport{
		Season:    season,
		Players:   len(players),
		Workers:   workers,
		StartedAt: time.Now().UTC(),
	}

	type slot struct {
		prediction *models.PlayerPrediction
		outcome    string
	}
	slots := make([]slot, len(players))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range players {
		player := players[i]
		g.Go(func() error {
			prediction, outcome, err := s.generate(ctx, player.ID, season)
			if err != nil {
				s.logger.WithError(err).WithFields(logrus.Fields{
					"player_id":   player.ID,
					"player_name": player.Name,
					"season":      season,
				}).Warn("Failed to generate prediction, continuing batch")
			}
			slots[i] = slot{prediction: prediction, outcome: outcome}
			return nil
		})
	}
	_ = g.Wait()

	predictions := make([]models.PlayerPrediction, 0, len(players))
	for _, sl := range slots {
		switch sl.outcome {
		case metrics.OutcomeCreated:
			report.Created++
		case metrics.OutcomeExisting:
			report.Existing++
		default:
			report.Failed++
		}
		if sl.prediction != nil {
			predictions = append(predictions, *sl.prediction)
		}
	}
	report.FinishedAt = time.Now().UTC()

	if report.Failed > 0 {
		telemetry.RecordError(span, fmt.Errorf("%d of %d predictions failed", report.Failed, report.Players))
	}
	s.metrics.SetBatchWorkers(workers)
	s.metrics.SetBatchSize(string(models.RunKindGeneration), len(players))
	if s.optimizer != nil {
		s.optimizer.RecordBatch(BatchSnapshot{
			Workers:  workers,
			Players:  report.Players,
			Failed:   report.Failed,
			Duration: report.FinishedAt.Sub(report.StartedAt),
		})
	}
	s.saveReport(ctx, models.RunKindGeneration, report)

	s.logger.WithFields(logrus.Fields{
		"season":   season,
		"players":  report.Players,
		"created":  report.Created,
		"existing": report.Existing,
		"failed":   report.Failed,
		"workers":  workers,
	}).Info("Prediction batch completed")

	return predictions, report, nil
}

// BreakoutCandidates returns the season's stored predictions with a
// breakout score of at least minScore, highest first.
func (s *PredictionService) BreakoutCandidates(ctx context.Context, season int, minScore float64) ([]models.PredictionView, error) {
	if err := ValidateSeason(season); err != nil {
		return nil, err
	}
	if math.IsNaN(minScore) || minScore < 0 || minScore > 1 {
		return nil, utils.NewValidationError("min_score must be between 0 and 1")
	}

	views, err := s.predictions.ListBySeason(ctx, season)
	if err != nil {
		return nil, err
	}

	candidates := FilterPredictions(views, models.PredictionFilter{MinBreakoutScore: &minScore})
	SortByBreakout(candidates)
	return candidates, nil
}

func (s *PredictionService) workerLimit(ctx context.Context) int {
	if s.optimizer == nil {
		return 1
	}
	if err := s.optimizer.UpdateSystemMetrics(ctx); err != nil {
		s.logger.WithError(err).Debug("Could not sample system load, using last worker limit")
	}
	return s.optimizer.Workers()
}

func (s *PredictionService) saveReport(ctx context.Context, kind models.RunKind, report interface{}) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Save(ctx, kind, report); err != nil {
		s.logger.WithError(err).WithField("kind", kind).Warn("Failed to record run report")
	}
}
