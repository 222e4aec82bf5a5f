package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/samparkk13/fantasyedge-ai/internal/metrics"
	"github.com/samparkk13/fantasyedge-ai/internal/models"
	"github.com/samparkk13/fantasyedge-ai/internal/telemetry"
	"github.com/samparkk13/fantasyedge-ai/internal/utils"
	"github.com/samparkk13/fantasyedge-ai/pkg/espn"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const rosterSourceName = "espn"

// positionAliases maps upstream abbreviations onto fantasy positions.
var positionAliases = map[string]models.Position{
	"PK":   models.PositionK,
	"D/ST": models.PositionDST,
	"DEF":  models.PositionDST,
}

// SamplePlayers are the development fixtures seeded by CreateSamplePlayers.
var SamplePlayers = []models.PlayerUpsert{
	{SourceID: "1001", Name: "Josh Allen", Position: models.PositionQB, Team: "BUF", Age: intRef(28), Experience: intRef(6), Height: strRef("6-5"), Weight: intRef(237), College: strRef("Wyoming")},
	{SourceID: "1002", Name: "Christian McCaffrey", Position: models.PositionRB, Team: "SF", Age: intRef(28), Experience: intRef(7), Height: strRef("5-11"), Weight: intRef(205), College: strRef("Stanford")},
	{SourceID: "1003", Name: "Tyreek Hill", Position: models.PositionWR, Team: "MIA", Age: intRef(30), Experience: intRef(8), Height: strRef("5-10"), Weight: intRef(185), College: strRef("West Alabama")},
	{SourceID: "1004", Name: "Travis Kelce", Position: models.PositionTE, Team: "KC", Age: intRef(35), Experience: intRef(11), Height: strRef("6-5"), Weight: intRef(250), College: strRef("Cincinnati")},
}

func intRef(v int) *int       { return &v }
func strRef(v string) *string { return &v }

// IngestionService loads rosters from the external source into the player
// store.
type IngestionService struct {
	source  RosterSource
	players PlayerStore
	runs    RunRecorder
	breaker *CircuitBreaker
	metrics *metrics.Manager
	tracer  *telemetry.BusinessTracer
	logger  *logrus.Logger
}

// NewIngestionService creates a new ingestion service. runs and
// metricsManager may be nil.
func NewIngestionService(source RosterSource, players PlayerStore, runs RunRecorder, metricsManager *metrics.Manager, logger *logrus.Logger) *IngestionService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &IngestionService{
		source:  source,
		players: players,
		runs:    runs,
		breaker: NewCircuitBreaker("espn-roster", CircuitBreakerConfig{
			FailureThreshold: 5,
			SuccessThreshold: 1,
			Timeout:          30 * time.Second,
		}, logger),
		metrics: metricsManager,
		tracer:  telemetry.NewBusinessTracer(),
		logger:  logger,
	}
}

// BreakerStats reports the state of the roster circuit breaker.
func (s *IngestionService) BreakerStats() CircuitBreakerStats {
	return s.breaker.GetStats()
}

// FetchCurrentPlayers pulls every team roster and upserts the
// fantasy-relevant athletes. A failed team listing aborts the run with an
// UpstreamFetchError; a failed roster or record is logged and skipped.
func (s *IngestionService) FetchCurrentPlayers(ctx context.Context) (*models.IngestionReport, error) {
	ctx, span := s.tracer.TraceBatch(ctx, string(models.RunKindIngestion),
		attribute.String("upstream.source", rosterSourceName))
	defer span.End()

	report := &models.IngestionReport{StartedAt: time.Now().UTC()}

	teams, err := s.fetchTeams(ctx)
	if err != nil {
		s.metrics.RecordUpstreamError(rosterSourceName)
		telemetry.RecordError(span, err)
		s.logger.WithError(err).Error("Failed to fetch team list")
		return nil, utils.NewUpstreamFetchError(rosterSourceName, err)
	}

	for _, team := range teams {
		athletes, err := s.fetchRoster(ctx, team.ID)
		if err != nil {
			report.TeamsFailed++
			if !errors.Is(err, ErrCircuitOpen) {
				s.metrics.RecordUpstreamError(rosterSourceName)
			}
			s.logger.WithError(err).WithFields(logrus.Fields{
				"team_id":   team.ID,
				"team_abbr": team.Abbreviation,
			}).Warn("Failed to fetch roster, skipping team")
			continue
		}

		for _, athlete := range athletes {
			s.ingestAthlete(ctx, athlete, team, report)
		}
	}

	report.FinishedAt = time.Now().UTC()
	s.metrics.SetBatchSize(string(models.RunKindIngestion), report.Fetched)
	if s.runs != nil {
		if err := s.runs.Save(ctx, models.RunKindIngestion, report); err != nil {
			s.logger.WithError(err).Warn("Failed to record run report")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"teams":        len(teams),
		"teams_failed": report.TeamsFailed,
		"fetched":      report.Fetched,
		"created":      report.Created,
		"updated":      report.Updated,
		"skipped":      report.Skipped,
		"failed":       report.Failed,
	}).Info("Fetched and saved players")

	return report, nil
}

func (s *IngestionService) fetchTeams(ctx context.Context) ([]espn.Team, error) {
	ctx, span := s.tracer.TraceUpstreamFetch(ctx, rosterSourceName, "teams")
	defer span.End()

	teams, err := s.source.GetTeams(ctx)
	telemetry.RecordError(span, err)
	return teams, err
}

func (s *IngestionService) fetchRoster(ctx context.Context, teamID string) ([]espn.Athlete, error) {
	var athletes []espn.Athlete
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		ctx, span := s.tracer.TraceUpstreamFetch(ctx, rosterSourceName, "roster")
		defer span.End()
		span.SetAttributes(attribute.String("team.id", teamID))

		var err error
		athletes, err = s.source.GetRoster(ctx, teamID)
		telemetry.RecordError(span, err)
		return err
	})
	return athletes, err
}

func (s *IngestionService) ingestAthlete(ctx context.Context, athlete espn.Athlete, team espn.Team, report *models.IngestionReport) {
	in, ok := ToPlayerUpsert(athlete, team.Abbreviation)
	if !ok {
		report.Skipped++
		s.metrics.RecordIngestedPlayer(metrics.IngestSkipped)
		return
	}
	report.Fetched++

	_, inserted, err := s.players.Upsert(ctx, in)
	if err != nil {
		report.Failed++
		s.metrics.RecordIngestedPlayer(metrics.IngestFailed)
		s.logger.WithError(err).WithFields(logrus.Fields{
			"source_id": in.SourceID,
			"name":      in.Name,
		}).Error("Error saving player")
		return
	}

	if inserted {
		report.Created++
		s.metrics.RecordIngestedPlayer(metrics.IngestCreated)
	} else {
		report.Updated++
		s.metrics.RecordIngestedPlayer(metrics.IngestUpdated)
	}
}

// ToPlayerUpsert maps an upstream athlete onto the player fields. It
// reports false for athletes without an id or outside the fantasy
// positions.
func ToPlayerUpsert(athlete espn.Athlete, teamAbbr string) (models.PlayerUpsert, bool) {
	sourceID := strings.TrimSpace(string(athlete.ID))
	if sourceID == "" || athlete.Position == nil {
		return models.PlayerUpsert{}, false
	}

	position, ok := fantasyPosition(athlete.Position.Abbreviation)
	if !ok {
		return models.PlayerUpsert{}, false
	}

	in := models.PlayerUpsert{
		SourceID: sourceID,
		Name:     strings.TrimSpace(athlete.DisplayName),
		Position: position,
		Team:     strings.ToUpper(teamAbbr),
		Age:      athlete.Age,
		Height:   athlete.DisplayHeight,
	}
	if athlete.Experience != nil {
		in.Experience = intRef(athlete.Experience.Years)
	}
	if athlete.Weight != nil {
		in.Weight = intRef(int(math.Round(*athlete.Weight)))
	}
	if athlete.College != nil && athlete.College.Name != "" {
		in.College = strRef(athlete.College.Name)
	}
	return in, true
}

func fantasyPosition(abbr string) (models.Position, bool) {
	if p, ok := positionAliases[strings.ToUpper(strings.TrimSpace(abbr))]; ok {
		return p, true
	}
	return models.ParsePosition(abbr)
}

// CreateSamplePlayers seeds the development players that do not exist yet
// and returns the ones it created.
func (s *IngestionService) CreateSamplePlayers(ctx context.Context) ([]models.Player, error) {
	created := make([]models.Player, 0, len(SamplePlayers))
	for _, in := range SamplePlayers {
		player, inserted, err := s.players.CreateIfAbsent(ctx, in)
		if err != nil {
			return nil, err
		}
		if inserted && player != nil {
			created = append(created, *player)
		}
	}

	s.logger.WithField("created", len(created)).Info("Created sample players")
	return created, nil
}
