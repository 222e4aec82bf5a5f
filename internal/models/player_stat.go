package models

import "time"

// PlayerStat is one week of a player's statistical history. Rows are
// append-only.
type PlayerStat struct {
	ID       string `json:"id" db:"id"`
	PlayerID string `json:"player_id" db:"player_id"`
	Season   int    `json:"season" db:"season"`
	Week     int    `json:"week" db:"week"`

	PassingYards       *int `json:"passing_yards,omitempty" db:"passing_yards"`
	PassingTDs         *int `json:"passing_tds,omitempty" db:"passing_tds"`
	Interceptions      *int `json:"interceptions,omitempty" db:"interceptions"`
	PassingAttempts    *int `json:"passing_attempts,omitempty" db:"passing_attempts"`
	PassingCompletions *int `json:"passing_completions,omitempty" db:"passing_completions"`

	RushingYards    *int `json:"rushing_yards,omitempty" db:"rushing_yards"`
	RushingTDs      *int `json:"rushing_tds,omitempty" db:"rushing_tds"`
	RushingAttempts *int `json:"rushing_attempts,omitempty" db:"rushing_attempts"`

	Receptions     *int `json:"receptions,omitempty" db:"receptions"`
	ReceivingYards *int `json:"receiving_yards,omitempty" db:"receiving_yards"`
	ReceivingTDs   *int `json:"receiving_tds,omitempty" db:"receiving_tds"`
	Targets        *int `json:"targets,omitempty" db:"targets"`

	FantasyPoints    *float64 `json:"fantasy_points,omitempty" db:"fantasy_points"`
	FantasyPointsPPR *float64 `json:"fantasy_points_ppr,omitempty" db:"fantasy_points_ppr"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PlayerStatRequest is the body accepted when appending a stat record.
type PlayerStatRequest struct {
	Season int `json:"season" binding:"required,min=1920,max=2100"`
	Week   int `json:"week" binding:"required,min=1,max=22"`

	PassingYards       *int `json:"passing_yards"`
	PassingTDs         *int `json:"passing_tds"`
	Interceptions      *int `json:"interceptions"`
	PassingAttempts    *int `json:"passing_attempts"`
	PassingCompletions *int `json:"passing_completions"`

	RushingYards    *int `json:"rushing_yards"`
	RushingTDs      *int `json:"rushing_tds"`
	RushingAttempts *int `json:"rushing_attempts"`

	Receptions     *int `json:"receptions"`
	ReceivingYards *int `json:"receiving_yards"`
	ReceivingTDs   *int `json:"receiving_tds"`
	Targets        *int `json:"targets"`

	FantasyPoints    *float64 `json:"fantasy_points"`
	FantasyPointsPPR *float64 `json:"fantasy_points_ppr"`
}

// ToStat maps the request onto a PlayerStat owned by playerID.
func (r PlayerStatRequest) ToStat(playerID string) PlayerStat {
	return PlayerStat{
		PlayerID:           playerID,
		Season:             r.Season,
		Week:               r.Week,
		PassingYards:       r.PassingYards,
		PassingTDs:         r.PassingTDs,
		Interceptions:      r.Interceptions,
		PassingAttempts:    r.PassingAttempts,
		PassingCompletions: r.PassingCompletions,
		RushingYards:       r.RushingYards,
		RushingTDs:         r.RushingTDs,
		RushingAttempts:    r.RushingAttempts,
		Receptions:         r.Receptions,
		ReceivingYards:     r.ReceivingYards,
		ReceivingTDs:       r.ReceivingTDs,
		Targets:            r.Targets,
		FantasyPoints:      r.FantasyPoints,
		FantasyPointsPPR:   r.FantasyPointsPPR,
	}
}
