package models

import "time"

// ProjectedStats maps a stat name to its projected season value. The key set
// depends on the player's position.
type ProjectedStats map[string]float64

// PlayerPrediction is the stored prediction for one player and season.
type PlayerPrediction struct {
	ID              string         `json:"id" db:"id"`
	PlayerID        string         `json:"player_id" db:"player_id"`
	Season          int            `json:"season" db:"season"`
	PredictedPoints float64        `json:"predicted_points" db:"predicted_points"`
	Confidence      float64        `json:"confidence" db:"confidence"`
	Reasoning       string         `json:"reasoning" db:"reasoning"`
	ProjectedStats  ProjectedStats `json:"projected_stats" db:"projected_stats"`
	BreakoutScore   float64        `json:"breakout_score" db:"breakout_score"`
	BustRisk        float64        `json:"bust_risk" db:"bust_risk"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

// PredictionResult is the output of one engine run, before persistence.
type PredictionResult struct {
	PredictedPoints float64
	Confidence      float64
	Reasoning       string
	ProjectedStats  ProjectedStats
	BreakoutScore   float64
	BustRisk        float64
	Features        PredictionFeatures
}

// PredictionFeatures holds the values the engine derived from a player and
// their history.
type PredictionFeatures struct {
	Age        int
	Experience int
	Position   Position

	IsQB bool
	IsRB bool
	IsWR bool
	IsTE bool

	TeamStrength   float64
	AgePrime       float64
	BreakoutWindow float64

	AvgFantasyPoints float64
	ConsistencyScore float64
	TrendScore       float64
	CeilingScore     float64
	HasHistory       bool
}

// PredictionView is a stored prediction joined with its player's identity.
type PredictionView struct {
	PlayerPrediction
	PlayerName     string   `json:"player_name"`
	PlayerPosition Position `json:"player_position"`
	PlayerTeam     string   `json:"player_team"`
}

// PredictionSummary aggregates the predictions of one season
type PredictionSummary struct {
	TotalPredictions    int     `json:"total_predictions"`
	AvgConfidence       float64 `json:"avg_confidence"`
	HighConfidenceCount int     `json:"high_confidence_count"`
	BreakoutCandidates  int     `json:"breakout_candidates"`
	BustRisks           int     `json:"bust_risks"`
}

// PositionRanking is one row of a position ranking view
type PositionRanking struct {
	Rank            int     `json:"rank"`
	PlayerID        string  `json:"player_id"`
	PlayerName      string  `json:"player_name"`
	Team            string  `json:"team"`
	PredictedPoints float64 `json:"predicted_points"`
	Confidence      float64 `json:"confidence"`
	BreakoutScore   float64 `json:"breakout_score"`
	Reasoning       string  `json:"reasoning"`
}

// PredictionFilter narrows a season's predictions on the read side.
type PredictionFilter struct {
	Position         string
	MinConfidence    *float64
	MinBreakoutScore *float64
}
