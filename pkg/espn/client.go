package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samparkk13/fantasyedge-ai/internal/config"
	"github.com/sirupsen/logrus"
)

// Client reads team and roster data from ESPN's public NFL API.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
}

// NewClient creates a new ESPN client instance
func NewClient(cfg *config.ESPNConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		BaseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
	}
}

// GetTeams lists every team of the league.
func (c *Client) GetTeams(ctx context.Context) ([]Team, error) {
	var response TeamsResponse
	if err := c.makeRequest(ctx, "/teams", &response); err != nil {
		return nil, err
	}

	if len(response.Sports) == 0 || len(response.Sports[0].Leagues) == 0 {
		return nil, fmt.Errorf("ESPN teams payload has no league listing")
	}

	entries := response.Sports[0].Leagues[0].Teams
	teams := make([]Team, 0, len(entries))
	for _, e := range entries {
		teams = append(teams, e.Team)
	}
	return teams, nil
}

// GetRoster returns the athletes of one team, with unit groups flattened.
func (c *Client) GetRoster(ctx context.Context, teamID string) ([]Athlete, error) {
	var response RosterResponse
	path := fmt.Sprintf("/teams/%s/roster", url.PathEscape(teamID))
	if err := c.makeRequest(ctx, path, &response); err != nil {
		return nil, err
	}
	return response.Flatten(), nil
}

func (c *Client) makeRequest(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "FantasyEdge-AI-Go/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logrus.WithError(err).Warn("Error closing ESPN response body")
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errorResp ErrorResponse
		if err := json.Unmarshal(respBody, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("ESPN API error (%d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("ESPN API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
