package models

import "time"

// RunKind identifies a batch operation whose last outcome is recorded.
type RunKind string

const (
	RunKindIngestion  RunKind = "ingestion"
	RunKindGeneration RunKind = "generation"
)

// ParseRunKind reports whether s names a known run kind.
func ParseRunKind(s string) (RunKind, bool) {
	switch RunKind(s) {
	case RunKindIngestion, RunKindGeneration:
		return RunKind(s), true
	default:
		return "", false
	}
}

// IngestionReport summarizes one roster ingestion run.
type IngestionReport struct {
	Fetched     int       `json:"fetched"`
	Created     int       `json:"created"`
	Updated     int       `json:"updated"`
	Skipped     int       `json:"skipped"`
	Failed      int       `json:"failed"`
	TeamsFailed int       `json:"teams_failed"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// BatchReport summarizes one generate-all run.
type BatchReport struct {
	Season     int       `json:"season"`
	Players    int       `json:"players"`
	Created    int       `json:"created"`
	Existing   int       `json:"existing"`
	Failed     int       `json:"failed"`
	Workers    int       `json:"workers"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
