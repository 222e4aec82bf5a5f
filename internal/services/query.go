package services

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/samparkk13/fantasyedge-ai/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

const (
	HighConfidenceThreshold = 0.8
	BreakoutThreshold       = 0.6
	BustRiskThreshold       = 0.5

	RankingSize         = 50
	ReasoningPreviewLen = 100
)

// FilterPlayers keeps players whose position equals position ignoring case
// and whose name contains search ignoring case. Empty criteria match all.
func FilterPlayers(players []models.Player, position, search string) []models.Player {
	position = strings.TrimSpace(position)
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(search))

	out := make([]models.Player, 0, len(players))
	for _, p := range players {
		if position != "" && !strings.EqualFold(string(p.Position), position) {
			continue
		}
		if needle != "" && !strings.Contains(folder.String(p.Name), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Paginate returns the 1-based page of items. Pages past the end are empty.
func Paginate[T any](items []T, page, limit int) []T {
	if page < 1 || limit < 1 {
		return []T{}
	}
	offset := (page - 1) * limit
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// Limit returns at most n leading items.
func Limit[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// CountByPosition counts players per position. Fantasy positions come first
// in roster order, anything else follows alphabetically.
func CountByPosition(players []models.Player) ([]models.PositionCount, int) {
	counts := make(map[models.Position]int)
	for _, p := range players {
		counts[p.Position]++
	}

	order := make(map[models.Position]int, len(models.FantasyPositions))
	for i, pos := range models.FantasyPositions {
		order[pos] = i
	}

	out := make([]models.PositionCount, 0, len(counts))
	for pos, n := range counts {
		out = append(out, models.PositionCount{Position: pos, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		oi, iKnown := order[out[i].Position]
		oj, jKnown := order[out[j].Position]
		switch {
		case iKnown && jKnown:
			return oi < oj
		case iKnown != jKnown:
			return iKnown
		default:
			return out[i].Position < out[j].Position
		}
	})
	return out, len(players)
}

// FilterPredictions applies the position and minimum score filters.
func FilterPredictions(views []models.PredictionView, filter models.PredictionFilter) []models.PredictionView {
	position := strings.TrimSpace(filter.Position)

	out := make([]models.PredictionView, 0, len(views))
	for _, v := range views {
		if position != "" && !strings.EqualFold(string(v.PlayerPosition), position) {
			continue
		}
		if filter.MinConfidence != nil && v.Confidence < *filter.MinConfidence {
			continue
		}
		if filter.MinBreakoutScore != nil && v.BreakoutScore < *filter.MinBreakoutScore {
			continue
		}
		out = append(out, v)
	}
	return out
}

// RankByPredictedPoints sorts views by predicted points, highest first,
// breaking ties by player name.
func RankByPredictedPoints(views []models.PredictionView) {
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].PredictedPoints != views[j].PredictedPoints {
			return views[i].PredictedPoints > views[j].PredictedPoints
		}
		return views[i].PlayerName < views[j].PlayerName
	})
}

// SortByBreakout sorts views by breakout score, highest first.
func SortByBreakout(views []models.PredictionView) {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].BreakoutScore > views[j].BreakoutScore
	})
}

// Summarize aggregates a season's predictions.
func Summarize(views []models.PredictionView) models.PredictionSummary {
	summary := models.PredictionSummary{TotalPredictions: len(views)}
	if len(views) == 0 {
		return summary
	}

	total := decimal.Zero
	for _, v := range views {
		total = total.Add(decimal.NewFromFloat(v.Confidence))
		if v.Confidence >= HighConfidenceThreshold {
			summary.HighConfidenceCount++
		}
		if v.BreakoutScore >= BreakoutThreshold {
			summary.BreakoutCandidates++
		}
		if v.BustRisk >= BustRiskThreshold {
			summary.BustRisks++
		}
	}
	summary.AvgConfidence = total.Div(decimal.NewFromInt(int64(len(views)))).Round(3).InexactFloat64()
	return summary
}

// TruncateReasoning shortens s to its first ReasoningPreviewLen characters
// followed by "..." when it is longer than that.
func TruncateReasoning(s string) string {
	if utf8.RuneCountInString(s) <= ReasoningPreviewLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:ReasoningPreviewLen]) + "..."
}

// PositionRankings ranks the predictions of one position by predicted
// points and keeps the top RankingSize.
func PositionRankings(views []models.PredictionView, position string) []models.PositionRanking {
	filtered := FilterPredictions(views, models.PredictionFilter{Position: position})
	RankByPredictedPoints(filtered)
	filtered = Limit(filtered, RankingSize)

	rankings := make([]models.PositionRanking, 0, len(filtered))
	for i, v := range filtered {
		rankings = append(rankings, models.PositionRanking{
			Rank:            i + 1,
			PlayerID:        v.PlayerID,
			PlayerName:      v.PlayerName,
			Team:            v.PlayerTeam,
			PredictedPoints: v.PredictedPoints,
			Confidence:      v.Confidence,
			BreakoutScore:   v.BreakoutScore,
			Reasoning:       TruncateReasoning(v.Reasoning),
		})
	}
	return rankings
}
