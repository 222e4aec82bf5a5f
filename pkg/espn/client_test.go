package espn_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samparkk13/fantasyedge-ai/internal/config"
	"github.com/samparkk13/fantasyedge-ai/pkg/espn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teamsPayload = `{
	"sports": [{
		"leagues": [{
			"teams": [
				{"team": {"id": "2", "abbreviation": "BUF", "displayName": "Buffalo Bills"}},
				{"team": {"id": "12", "abbreviation": "KC", "displayName": "Kansas City Chiefs"}}
			]
		}]
	}]
}`

const flatRosterPayload = `{
	"athletes": [
		{"id": "3918298", "displayName": "Josh Allen", "position": {"abbreviation": "QB"}, "age": 28,
		 "experience": {"years": 6}, "displayHeight": "6' 5\"", "weight": 237.0, "college": {"name": "Wyoming"}},
		{"id": 4567, "displayName": "Some Punter", "position": {"abbreviation": "P"}}
	]
}`

const groupedRosterPayload = `{
	"athletes": [
		{"position": "offense", "items": [
			{"id": "1", "displayName": "A", "position": {"abbreviation": "WR"}},
			{"id": "2", "displayName": "B", "position": {"abbreviation": "TE"}}
		]},
		{"position": "specialTeam", "items": [
			{"id": "3", "displayName": "C", "position": {"abbreviation": "K"}}
		]}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *espn.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return espn.NewClient(&config.ESPNConfig{BaseURL: server.URL + "/", Timeout: 5})
}

func TestNewClient(t *testing.T) {
	client := espn.NewClient(&config.ESPNConfig{BaseURL: "https://example.com/nfl/", Timeout: 0})

	assert.Equal(t, "https://example.com/nfl", client.BaseURL)
	require.NotNil(t, client.HTTPClient)
	assert.NotZero(t, client.HTTPClient.Timeout)
}

func TestClient_GetTeams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teams", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(teamsPayload))
	})

	teams, err := client.GetTeams(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, espn.Team{ID: "2", Abbreviation: "BUF", DisplayName: "Buffalo Bills"}, teams[0])
	assert.Equal(t, "KC", teams[1].Abbreviation)
}

func TestClient_GetTeams_EmptyListing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sports": []}`))
	})

	_, err := client.GetTeams(context.Background())
	assert.ErrorContains(t, err, "no league listing")
}

func TestClient_GetTeams_ServerError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"json error body", `{"code": 503, "message": "service unavailable"}`, "ESPN API error (503): service unavailable"},
		{"plain error body", "upstream down", "ESPN API error (503): upstream down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.GetTeams(context.Background())
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestClient_GetTeams_MalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sports": [`))
	})

	_, err := client.GetTeams(context.Background())
	assert.ErrorContains(t, err, "failed to unmarshal response")
}

func TestClient_GetRoster_Flat(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teams/2/roster", r.URL.Path)
		_, _ = w.Write([]byte(flatRosterPayload))
	})

	athletes, err := client.GetRoster(context.Background(), "2")
	require.NoError(t, err)
	require.Len(t, athletes, 2)

	allen := athletes[0]
	assert.Equal(t, espn.FlexString("3918298"), allen.ID)
	assert.Equal(t, "QB", allen.Position.Abbreviation)
	assert.Equal(t, 28, *allen.Age)
	assert.Equal(t, 6, allen.Experience.Years)
	assert.Equal(t, 237.0, *allen.Weight)
	assert.Equal(t, "Wyoming", allen.College.Name)

	assert.Equal(t, espn.FlexString("4567"), athletes[1].ID)
	assert.Nil(t, athletes[1].Age)
}

func TestClient_GetRoster_Grouped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(groupedRosterPayload))
	})

	athletes, err := client.GetRoster(context.Background(), "12")
	require.NoError(t, err)
	require.Len(t, athletes, 3)
	assert.Equal(t, "K", athletes[2].Position.Abbreviation)
}

func TestClient_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(teamsPayload))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetTeams(ctx)
	assert.ErrorContains(t, err, "failed to make request")
}

func TestFlexString_UnmarshalJSON(t *testing.T) {
	var v struct {
		A espn.FlexString `json:"a"`
		B espn.FlexString `json:"b"`
		C espn.FlexString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "x1", "b": 42, "c": null}`), &v))
	assert.Equal(t, espn.FlexString("x1"), v.A)
	assert.Equal(t, espn.FlexString("42"), v.B)
	assert.Equal(t, espn.FlexString(""), v.C)
}
