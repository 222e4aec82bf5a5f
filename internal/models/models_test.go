package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		input    string
		expected Position
		ok       bool
	}{
		{"QB", PositionQB, true},
		{"rb", PositionRB, true},
		{" wr ", PositionWR, true},
		{"te", PositionTE, true},
		{"K", PositionK, true},
		{"dst", PositionDST, true},
		{"P", Position("P"), false},
		{"OL", Position("OL"), false},
		{"", Position(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			pos, ok := ParsePosition(tt.input)
			assert.Equal(t, tt.expected, pos)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestPlayer_JSONOmitsMissingOptionalFields(t *testing.T) {
	player := Player{ID: "p1", SourceID: "1001", Name: "Josh Allen", Position: PositionQB, Team: "BUF"}

	data, err := json.Marshal(player)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "QB", decoded["position"])
	assert.NotContains(t, decoded, "age")
	assert.NotContains(t, decoded, "college")
}

func TestPlayerStatRequest_ToStat(t *testing.T) {
	points := 21.4
	yards := 275
	req := PlayerStatRequest{Season: 2024, Week: 3, PassingYards: &yards, FantasyPoints: &points}

	stat := req.ToStat("player-1")

	assert.Equal(t, "player-1", stat.PlayerID)
	assert.Equal(t, 2024, stat.Season)
	assert.Equal(t, 3, stat.Week)
	assert.Equal(t, &yards, stat.PassingYards)
	assert.Equal(t, &points, stat.FantasyPoints)
	assert.Nil(t, stat.Receptions)
}

func TestParseRunKind(t *testing.T) {
	kind, ok := ParseRunKind("ingestion")
	assert.True(t, ok)
	assert.Equal(t, RunKindIngestion, kind)

	kind, ok = ParseRunKind("generation")
	assert.True(t, ok)
	assert.Equal(t, RunKindGeneration, kind)

	_, ok = ParseRunKind("backfill")
	assert.False(t, ok)
}
