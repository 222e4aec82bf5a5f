package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/samparkk13/fantasyedge-ai/internal/models"
	"github.com/shopspring/decimal"
)

const (
	defaultAge      = 25
	defaultPeakAge  = 27
	defaultBase     = 10.0
	defaultBaseline = 8.0
)

var (
	strongOffenses = map[string]bool{"BUF": true, "KC": true, "SF": true, "MIA": true, "CIN": true, "DAL": true, "PHI": true}
	weakOffenses   = map[string]bool{"NYJ": true, "NE": true, "WAS": true, "CAR": true, "CHI": true}

	peakAges = map[models.Position]int{
		models.PositionQB:  29,
		models.PositionRB:  25,
		models.PositionWR:  27,
		models.PositionTE:  28,
		models.PositionK:   30,
		models.PositionDST: 27,
	}

	breakoutYears = map[models.Position][]int{
		models.PositionQB: {2, 3, 4},
		models.PositionRB: {1, 2},
		models.PositionWR: {2, 3},
		models.PositionTE: {3, 4, 5},
	}

	// Season averages used when a player has no scored history.
	positionBaselines = map[models.Position]float64{
		models.PositionQB:  16.5,
		models.PositionRB:  10.8,
		models.PositionWR:  9.2,
		models.PositionTE:  6.8,
		models.PositionK:   7.0,
		models.PositionDST: 7.5,
	}

	basePoints = map[models.Position]float64{
		models.PositionQB:  18.5,
		models.PositionRB:  12.8,
		models.PositionWR:  11.2,
		models.PositionTE:  8.4,
		models.PositionK:   7.5,
		models.PositionDST: 8.2,
	}
)

// statProjection derives one projected stat from the rounded point total.
type statProjection struct {
	name   string
	factor float64
	floor  *float64
}

func floorAt(v float64) *float64 { return &v }

var projectionTable = map[models.Position][]statProjection{
	models.PositionQB: {
		{name: "passing_yards", factor: 18},
		{name: "passing_tds", factor: 1.4, floor: floorAt(1)},
		{name: "interceptions", factor: 0.7, floor: floorAt(0)},
		{name: "rushing_yards", factor: 2.5},
		{name: "rushing_tds", factor: 0.15, floor: floorAt(0)},
	},
	models.PositionRB: {
		{name: "rushing_yards", factor: 5.2},
		{name: "rushing_tds", factor: 0.6},
		{name: "receptions", factor: 2.1},
		{name: "receiving_yards", factor: 2.8},
		{name: "receiving_tds", factor: 0.25},
	},
	models.PositionWR: {
		{name: "receptions", factor: 4.2},
		{name: "receiving_yards", factor: 6.8},
		{name: "receiving_tds", factor: 0.45},
		{name: "targets", factor: 6.5},
	},
	models.PositionTE: {
		{name: "receptions", factor: 3.8},
		{name: "receiving_yards", factor: 5.2},
		{name: "receiving_tds", factor: 0.5},
		{name: "targets", factor: 5.8},
	},
}

// PredictionEngine is the rule-based scorer. It holds no state; Compute is
// deterministic for a given player, history and season.
type PredictionEngine struct{}

// NewPredictionEngine creates a prediction engine.
func NewPredictionEngine() *PredictionEngine {
	return &PredictionEngine{}
}

// Compute scores player for season. Stats recorded for seasons after the
// target season are ignored.
func (e *PredictionEngine) Compute(player models.Player, history []models.PlayerStat, season int) models.PredictionResult {
	features := e.ExtractFeatures(player, historyUpTo(history, season))

	points := lookupFloat(basePoints, features.Position, defaultBase) *
		features.AgePrime * features.TeamStrength * features.BreakoutWindow
	if features.AvgFantasyPoints > 0 {
		points = 0.7*features.AvgFantasyPoints + 0.3*points
	}

	breakout := 0.0
	if features.Age <= 26 && features.Experience >= 2 {
		breakout += 0.3
	}
	if features.BreakoutWindow > 1.1 {
		breakout += 0.4
	}
	if features.TeamStrength > 1.1 {
		breakout += 0.2
	}
	breakout = math.Min(1.0, breakout)

	bust := 0.3 - (features.ConsistencyScore-0.5)*0.5 + float64(features.Age-25)*0.02
	bust = clamp(bust, 0, 1)

	confidence := 0.6 + math.Min(0.4, float64(features.Experience)*0.05)

	predicted := round(points, 1)
	return models.PredictionResult{
		PredictedPoints: predicted,
		Confidence:      round(confidence, 2),
		BreakoutScore:   round(breakout, 2),
		BustRisk:        round(bust, 2),
		ProjectedStats:  projectStats(features.Position, predicted),
		Features:        features,
		// Thresholds apply to the unrounded scores.
		Reasoning: reasoning(player, features, breakout, bust),
	}
}

// ExtractFeatures derives the scoring inputs from a player profile and its
// statistical history.
func (e *PredictionEngine) ExtractFeatures(player models.Player, history []models.PlayerStat) models.PredictionFeatures {
	f := models.PredictionFeatures{
		Age:        defaultAge,
		Experience: 0,
		Position:   player.Position,
		IsQB:       player.Position == models.PositionQB,
		IsRB:       player.Position == models.PositionRB,
		IsWR:       player.Position == models.PositionWR,
		IsTE:       player.Position == models.PositionTE,
	}
	if age, ok := knownAge(player); ok {
		f.Age = age
	}
	if player.Experience != nil && *player.Experience > 0 {
		f.Experience = *player.Experience
	}

	f.TeamStrength = teamStrength(player.Team)
	f.AgePrime = agePrime(player)
	f.BreakoutWindow = breakoutWindow(player)

	points := scoredPoints(history)
	if len(points) == 0 {
		f.AvgFantasyPoints = lookupFloat(positionBaselines, player.Position, defaultBaseline)
		f.ConsistencyScore = 0.5
		f.TrendScore = 0.5
		f.CeilingScore = 0.5
		return f
	}

	f.HasHistory = true
	mean, stddev, maximum := describe(points)
	f.AvgFantasyPoints = mean
	if mean > 0 {
		f.ConsistencyScore = 1 - stddev/mean
		f.CeilingScore = maximum / mean
	} else {
		f.ConsistencyScore = 0.5
		f.CeilingScore = 1.0
	}
	f.TrendScore = 0.4
	if len(points) > 1 && points[len(points)-1] > points[0] {
		f.TrendScore = 0.6
	}
	return f
}

func knownAge(player models.Player) (int, bool) {
	if player.Age == nil || *player.Age <= 0 {
		return 0, false
	}
	return *player.Age, true
}

func teamStrength(team string) float64 {
	team = strings.ToUpper(strings.TrimSpace(team))
	switch {
	case strongOffenses[team]:
		return 1.15
	case weakOffenses[team]:
		return 0.9
	default:
		return 1.0
	}
}

func agePrime(player models.Player) float64 {
	age, ok := knownAge(player)
	if !ok {
		return 1.0
	}
	peak, found := peakAges[player.Position]
	if !found {
		peak = defaultPeakAge
	}
	if age <= peak {
		return math.Min(1.2, 1.0+float64(peak-age)*0.02)
	}
	return math.Max(0.7, 1.0-float64(age-peak)*0.04)
}

func breakoutWindow(player models.Player) float64 {
	if player.Experience == nil || *player.Experience <= 0 {
		return 1.0
	}
	years := breakoutYears[player.Position]
	if len(years) == 0 {
		return 1.0
	}
	exp := *player.Experience
	last := years[0]
	for _, y := range years {
		if y == exp {
			return 1.3
		}
		if y > last {
			last = y
		}
	}
	if exp == last+1 {
		return 1.1
	}
	return 1.0
}

// historyUpTo drops stats recorded after season.
func historyUpTo(history []models.PlayerStat, season int) []models.PlayerStat {
	kept := make([]models.PlayerStat, 0, len(history))
	for _, s := range history {
		if s.Season <= season {
			kept = append(kept, s)
		}
	}
	return kept
}

// scoredPoints returns the non-null fantasy points of history in season and
// week order.
func scoredPoints(history []models.PlayerStat) []float64 {
	scored := make([]models.PlayerStat, 0, len(history))
	for _, s := range history {
		if s.FantasyPoints != nil {
			scored = append(scored, s)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Season != scored[j].Season {
			return scored[i].Season < scored[j].Season
		}
		return scored[i].Week < scored[j].Week
	})

	points := make([]float64, len(scored))
	for i, s := range scored {
		points[i] = *s.FantasyPoints
	}
	return points
}

// describe returns the mean, population standard deviation and maximum of
// a non-empty sample.
func describe(values []float64) (mean, stddev, maximum float64) {
	maximum = values[0]
	for _, v := range values {
		mean += v
		if v > maximum {
			maximum = v
		}
	}
	mean /= float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	stddev = math.Sqrt(sq / float64(len(values)))
	return mean, stddev, maximum
}

func reasoning(player models.Player, f models.PredictionFeatures, breakout, bust float64) string {
	var clauses []string

	if f.Age <= 25 {
		clauses = append(clauses, fmt.Sprintf("Young player (%dyo) entering prime years", f.Age))
	} else if f.Age >= 30 {
		clauses = append(clauses, fmt.Sprintf("Veteran player (%dyo) past typical peak", f.Age))
	}

	if f.BreakoutWindow > 1.2 {
		clauses = append(clauses, fmt.Sprintf("In typical breakout window for %s (Year %d)", player.Position, f.Experience))
	}

	if f.TeamStrength > 1.1 {
		clauses = append(clauses, fmt.Sprintf("Benefits from strong %s offensive system", player.Team))
	} else if f.TeamStrength < 0.95 {
		clauses = append(clauses, fmt.Sprintf("Limited by weaker %s offensive context", player.Team))
	}

	if breakout > 0.6 {
		clauses = append(clauses, "High breakout potential identified")
	} else if bust > 0.5 {
		clauses = append(clauses, "Some bust risk due to age/consistency factors")
	}

	if len(clauses) == 0 {
		return fmt.Sprintf("Standard projection for %s with current profile", player.Position)
	}
	return strings.Join(clauses, "; ")
}

func projectStats(position models.Position, points float64) models.ProjectedStats {
	table, ok := projectionTable[position]
	if !ok {
		return models.ProjectedStats{"fantasy_points": points}
	}
	stats := make(models.ProjectedStats, len(table))
	for _, p := range table {
		v := math.Trunc(points * p.factor)
		if p.floor != nil {
			v = math.Max(*p.floor, v)
		}
		stats[p.name] = v
	}
	return stats
}

func lookupFloat(table map[models.Position]float64, position models.Position, fallback float64) float64 {
	if v, ok := table[position]; ok {
		return v
	}
	return fallback
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
