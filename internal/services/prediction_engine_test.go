package services

import (
	"math"
	"testing"

	"github.com/samparkk13/fantasyedge-ai/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
func pointsStat(season, week int, pts *float64) models.PlayerStat {
	return models.PlayerStat{PlayerID: "p", Season: season, Week: week, FantasyPoints: pts}
}

func newPlayer(pos models.Position, team string, age, exp *int) models.Player {
	return models.Player{ID: "p", Name: "Test Player", Position: pos, Team: team, Age: age, Experience: exp}
}

func TestPredictionEngine_JoshAllenProfile(t *testing.T) {
	engine := NewPredictionEngine()
	player := newPlayer(models.PositionQB, "BUF", intPtr(28), intPtr(6))

	result := engine.Compute(player, nil, 2025)

	assert.InDelta(t, 1.02, result.Features.AgePrime, 1e-9)
	assert.Equal(t, 1.15, result.Features.TeamStrength)
	assert.Equal(t, 1.0, result.Features.BreakoutWindow)
	assert.Equal(t, 16.5, result.Features.AvgFantasyPoints)
	assert.False(t, result.Features.HasHistory)

	base := 18.5 * 1.02 * 1.15 * 1.0
	expected := math.Round((0.7*16.5+0.3*base)*10) / 10
	assert.Equal(t, expected, result.PredictedPoints)
	assert.Equal(t, 18.1, result.PredictedPoints)

	assert.Equal(t, 0.9, result.Confidence)
	assert.Equal(t, 0.2, result.BreakoutScore)
	assert.Equal(t, 0.36, result.BustRisk)
	assert.Equal(t, "Benefits from strong BUF offensive system", result.Reasoning)

	assert.Equal(t, models.ProjectedStats{
		"passing_yards": 325,
		"passing_tds":   25,
		"interceptions": 12,
		"rushing_yards": 45,
		"rushing_tds":   2,
	}, result.ProjectedStats)
}

func TestPredictionEngine_VeteranTightEnd(t *testing.T) {
	engine := NewPredictionEngine()
	player := newPlayer(models.PositionTE, "KC", intPtr(35), intPtr(11))

	result := engine.Compute(player, nil, 2025)

	assert.InDelta(t, 0.72, result.Features.AgePrime, 1e-9)
	assert.Equal(t, 6.8, result.PredictedPoints)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Equal(t, 0.2, result.BreakoutScore)
	assert.Equal(t, 0.5, result.BustRisk)
	assert.Equal(t, "Veteran player (35yo) past typical peak; Benefits from strong KC offensive system", result.Reasoning)
	assert.Equal(t, models.ProjectedStats{
		"receptions":      25,
		"receiving_yards": 35,
		"receiving_tds":   3,
		"targets":         39,
	}, result.ProjectedStats)
}

func TestPredictionEngine_BreakoutRunningBack(t *testing.T) {
	engine := NewPredictionEngine()
	player := newPlayer(models.PositionRB, "ATL", intPtr(22), intPtr(2))

	result := engine.Compute(player, nil, 2025)

	assert.Equal(t, 1.3, result.Features.BreakoutWindow)
	assert.Equal(t, 12.9, result.PredictedPoints)
	assert.Equal(t, 0.7, result.BreakoutScore)
	assert.Equal(t, 0.24, result.BustRisk)
	assert.Equal(t, 0.7, result.Confidence)
	assert.Equal(t,
		"Young player (22yo) entering prime years; In typical breakout window for RB (Year 2); High breakout potential identified",
		result.Reasoning)
}

func TestPredictionEngine_WeakOffenseVeteran(t *testing.T) {
	engine := NewPredictionEngine()
	player := newPlayer(models.PositionWR, "NYJ", intPtr(30), intPtr(9))

	result := engine.Compute(player, nil, 2025)

	assert.Equal(t, 0.9, result.Features.TeamStrength)
	assert.Equal(t, "Veteran player (30yo) past typical peak; Limited by weaker NYJ offensive context", result.Reasoning)
	assert.ElementsMatch(t, []string{"receptions", "receiving_yards", "receiving_tds", "targets"}, keys(result.ProjectedStats))
}

func TestPredictionEngine_KickerWithoutProfile(t *testing.T) {
	engine := NewPredictionEngine()
	player := newPlayer(models.PositionK, "XYZ", nil, nil)

	result := engine.Compute(player, nil, 2025)

	assert.Equal(t, 25, result.Features.Age)
	assert.Equal(t, 0, result.Features.Experience)
	assert.Equal(t, 1.0, result.Features.AgePrime)
	assert.Equal(t, 1.0, result.Features.BreakoutWindow)
	assert.InDelta(t, 7.15, result.PredictedPoints, 0.051)
	assert.Equal(t, 0.6, result.Confidence)
	assert.Equal(t, 0.0, result.BreakoutScore)
	assert.Equal(t, 0.3, result.BustRisk)
	assert.Equal(t, "Young player (25yo) entering prime years", result.Reasoning)
	assert.Equal(t, models.ProjectedStats{"fantasy_points": result.PredictedPoints}, result.ProjectedStats)
}

func TestPredictionEngine_ReasoningUsesDefaultAge(t *testing.T) {
	engine := NewPredictionEngine()
	player := newPlayer(models.PositionWR, "ATL", nil, intPtr(5))

	result := engine.Compute(player, nil, 2025)

	assert.Equal(t, 25, result.Features.Age)
	assert.Equal(t, 0.3, result.BreakoutScore)
	assert.Equal(t, "Young player (25yo) entering prime years", result.Reasoning)

	prime := engine.Compute(newPlayer(models.PositionWR, "ATL", intPtr(27), intPtr(5)), nil, 2025)
	assert.Equal(t, "Standard projection for WR with current profile", prime.Reasoning)
}

func TestPredictionEngine_ReasoningComparesUnroundedScores(t *testing.T) {
	engine := NewPredictionEngine()
	// 0.4 + 0.2 sums to just above 0.6 before rounding.
	player := newPlayer(models.PositionRB, "KC", intPtr(27), intPtr(2))

	result := engine.Compute(player, nil, 2025)

	assert.Equal(t, 0.6, result.BreakoutScore)
	assert.Equal(t,
		"In typical breakout window for RB (Year 2); Benefits from strong KC offensive system; High breakout potential identified",
		result.Reasoning)
}

func TestPredictionEngine_BreakoutWindowEdges(t *testing.T) {
	tests := []struct {
		name     string
		position models.Position
		exp      *int
		want     float64
	}{
		{"qb in window", models.PositionQB, intPtr(3), 1.3},
		{"qb year after window", models.PositionQB, intPtr(5), 1.1},
		{"qb rookie", models.PositionQB, intPtr(1), 1.0},
		{"rb first year", models.PositionRB, intPtr(1), 1.3},
		{"rb third year", models.PositionRB, intPtr(3), 1.1},
		{"te sixth year", models.PositionTE, intPtr(6), 1.1},
		{"wr late", models.PositionWR, intPtr(7), 1.0},
		{"kicker never", models.PositionK, intPtr(2), 1.0},
		{"defense never", models.PositionDST, intPtr(1), 1.0},
		{"missing experience", models.PositionWR, nil, 1.0},
		{"zero experience", models.PositionRB, intPtr(0), 1.0},
	}

	engine := NewPredictionEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := engine.ExtractFeatures(newPlayer(tt.position, "DEN", intPtr(27), tt.exp), nil)
			assert.Equal(t, tt.want, f.BreakoutWindow)
		})
	}
}

func TestPredictionEngine_AgePrimeBounds(t *testing.T) {
	engine := NewPredictionEngine()

	young := engine.ExtractFeatures(newPlayer(models.PositionQB, "DEN", intPtr(19), nil), nil)
	assert.Equal(t, 1.2, young.AgePrime)

	old := engine.ExtractFeatures(newPlayer(models.PositionRB, "DEN", intPtr(40), nil), nil)
	assert.Equal(t, 0.7, old.AgePrime)

	unknown := engine.ExtractFeatures(newPlayer("LB", "DEN", intPtr(27), nil), nil)
	assert.Equal(t, 1.0, unknown.AgePrime)
}

func TestPredictionEngine_HistoryAggregates(t *testing.T) {
	engine := NewPredictionEngine()
	player := newPlayer(models.PositionWR, "DEN", intPtr(27), intPtr(5))
	history := []models.PlayerStat{
		pointsStat(2024, 3, floatPtr(30)),
		pointsStat(2024, 1, floatPtr(10)),
		pointsStat(2024, 2, floatPtr(20)),
		pointsStat(2024, 4, nil),
		pointsStat(2026, 1, floatPtr(90)),
	}

	result := engine.Compute(player, history, 2025)
	f := result.Features

	require.True(t, f.HasHistory)
	assert.InDelta(t, 20.0, f.AvgFantasyPoints, 1e-9)
	assert.InDelta(t, 1-math.Sqrt(200.0/3)/20, f.ConsistencyScore, 1e-9)
	assert.Equal(t, 0.6, f.TrendScore)
	assert.InDelta(t, 1.5, f.CeilingScore, 1e-9)

	expected := 0.7*20 + 0.3*(11.2*1.0*1.0*1.0)
	assert.InDelta(t, expected, result.PredictedPoints, 0.051)
}

func TestPredictionEngine_DecliningAndSingleGameHistory(t *testing.T) {
	engine := NewPredictionEngine()
	player := newPlayer(models.PositionRB, "DEN", intPtr(26), intPtr(4))

	declining := engine.ExtractFeatures(player, []models.PlayerStat{
		pointsStat(2024, 2, floatPtr(9)),
		pointsStat(2023, 17, floatPtr(18)),
	})
	assert.Equal(t, 0.4, declining.TrendScore)

	single := engine.ExtractFeatures(player, []models.PlayerStat{pointsStat(2024, 1, floatPtr(12))})
	assert.Equal(t, 0.4, single.TrendScore)
	assert.Equal(t, 1.0, single.ConsistencyScore)
	assert.Equal(t, 1.0, single.CeilingScore)

	zero := engine.ExtractFeatures(player, []models.PlayerStat{pointsStat(2024, 1, floatPtr(0))})
	assert.Equal(t, 0.5, zero.ConsistencyScore)
	assert.Equal(t, 1.0, zero.CeilingScore)
	assert.Equal(t, 0.0, zero.AvgFantasyPoints)
}

func TestPredictionEngine_NoBlendWhenAverageNotPositive(t *testing.T) {
	engine := NewPredictionEngine()
	player := newPlayer(models.PositionWR, "DEN", intPtr(27), intPtr(5))

	result := engine.Compute(player, []models.PlayerStat{pointsStat(2024, 1, floatPtr(0))}, 2025)

	assert.Equal(t, 11.2, result.PredictedPoints)
}

func TestPredictionEngine_Deterministic(t *testing.T) {
	engine := NewPredictionEngine()
	player := newPlayer(models.PositionWR, "MIA", intPtr(30), intPtr(8))
	history := []models.PlayerStat{pointsStat(2024, 1, floatPtr(14.2)), pointsStat(2024, 2, floatPtr(21.7))}

	first := engine.Compute(player, history, 2025)
	second := engine.Compute(player, history, 2025)

	assert.Equal(t, first, second)
}

func TestPredictionEngine_OutputBounds(t *testing.T) {
	engine := NewPredictionEngine()
	positions := []models.Position{
		models.PositionQB, models.PositionRB, models.PositionWR,
		models.PositionTE, models.PositionK, models.PositionDST,
	}
	teams := []string{"BUF", "NYJ", "DEN"}
	histories := [][]models.PlayerStat{
		nil,
		{pointsStat(2024, 1, floatPtr(2)), pointsStat(2024, 2, floatPtr(40))},
		{pointsStat(2024, 1, floatPtr(15)), pointsStat(2024, 2, floatPtr(15))},
	}
	expectedKeys := map[models.Position][]string{
		models.PositionQB:  {"passing_yards", "passing_tds", "interceptions", "rushing_yards", "rushing_tds"},
		models.PositionRB:  {"rushing_yards", "rushing_tds", "receptions", "receiving_yards", "receiving_tds"},
		models.PositionWR:  {"receptions", "receiving_yards", "receiving_tds", "targets"},
		models.PositionTE:  {"receptions", "receiving_yards", "receiving_tds", "targets"},
		models.PositionK:   {"fantasy_points"},
		models.PositionDST: {"fantasy_points"},
	}

	for _, pos := range positions {
		for _, team := range teams {
			for age := 20; age <= 40; age += 4 {
				for exp := 0; exp <= 16; exp += 3 {
					for _, h := range histories {
						player := newPlayer(pos, team, intPtr(age), intPtr(exp))
						r := engine.Compute(player, h, 2025)

						assert.GreaterOrEqual(t, r.Confidence, 0.6)
						assert.LessOrEqual(t, r.Confidence, 1.0)
						assert.GreaterOrEqual(t, r.BreakoutScore, 0.0)
						assert.LessOrEqual(t, r.BreakoutScore, 1.0)
						assert.GreaterOrEqual(t, r.BustRisk, 0.0)
						assert.LessOrEqual(t, r.BustRisk, 1.0)
						assert.Greater(t, r.PredictedPoints, 0.0)
						assert.NotEmpty(t, r.Reasoning)
						assert.ElementsMatch(t, expectedKeys[pos], keys(r.ProjectedStats))
						if pos == models.PositionQB {
							assert.GreaterOrEqual(t, r.ProjectedStats["passing_tds"], 1.0)
						}
					}
				}
			}
		}
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 18.1, round(18.06015, 1))
	assert.Equal(t, 0.36, round(0.36000000000000004, 2))
	assert.Equal(t, 2.5, round(2.45, 1))
	assert.Equal(t, -2.5, round(-2.45, 1))
}

func keys(stats models.ProjectedStats) []string {
	out := make([]string, 0, len(stats))
	for k := range stats {
		out = append(out, k)
	}
	return out
}
