package models

import (
	"strings"
	"time"
)

// Position is a fantasy-relevant roster position.
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDST Position = "DST"
)

// FantasyPositions lists the positions kept on ingestion.
var FantasyPositions = []Position{PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDST}

// ParsePosition normalizes s to upper case and reports whether it is a
// fantasy-relevant position.
func ParsePosition(s string) (Position, bool) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range FantasyPositions {
		if p == known {
			return p, true
		}
	}
	return p, false
}

// Player represents an NFL player known to the system
type Player struct {
	ID         string    `json:"id" db:"id"`
	SourceID   string    `json:"source_id" db:"source_id"`
	Name       string    `json:"name" db:"name"`
	Position   Position  `json:"position" db:"position"`
	Team       string    `json:"team" db:"team"`
	Age        *int      `json:"age,omitempty" db:"age"`
	Experience *int      `json:"experience,omitempty" db:"experience"`
	Height     *string   `json:"height,omitempty" db:"height"`
	Weight     *int      `json:"weight,omitempty" db:"weight"`
	College    *string   `json:"college,omitempty" db:"college"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// PlayerUpsert carries the fields written when a roster record is ingested.
// Every field overwrites the stored value when the source id already exists.
type PlayerUpsert struct {
	SourceID   string
	Name       string
	Position   Position
	Team       string
	Age        *int
	Experience *int
	Height     *string
	Weight     *int
	College    *string
}

// PlayerListResponse is a page of players plus the unpaginated total
type PlayerListResponse struct {
	Players []Player `json:"players"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	Limit   int      `json:"limit"`
}

// PositionCount is the number of players at one position
type PositionCount struct {
	Position Position `json:"position"`
	Count    int      `json:"count"`
}

// PositionStatsResponse groups player counts by position
type PositionStatsResponse struct {
	PositionStats []PositionCount `json:"position_stats"`
	TotalPlayers  int             `json:"total_players"`
}
