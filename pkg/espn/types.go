package espn

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// TeamsResponse is the payload of GET /teams.
type TeamsResponse struct {
	Sports []struct {
		Leagues []struct {
			Teams []TeamEntry `json:"teams"`
		} `json:"leagues"`
	} `json:"sports"`
}

// TeamEntry wraps a team inside the league listing.
type TeamEntry struct {
	Team Team `json:"team"`
}

type Team struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName,omitempty"`
}

// RosterResponse is the payload of GET /teams/{id}/roster. Athletes are
// either listed directly or grouped by unit with the players under Items.
type RosterResponse struct {
	Athletes []Athlete `json:"athletes"`
}

type Athlete struct {
	ID            FlexString  `json:"id"`
	DisplayName   string      `json:"displayName"`
	Position      *Position   `json:"position,omitempty"`
	Age           *int        `json:"age,omitempty"`
	Experience    *Experience `json:"experience,omitempty"`
	DisplayHeight *string     `json:"displayHeight,omitempty"`
	Weight        *float64    `json:"weight,omitempty"`
	College       *College    `json:"college,omitempty"`

	// Items holds the players of a unit group ("offense", "defense", ...).
	Items []Athlete `json:"items,omitempty"`
}

type Position struct {
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name,omitempty"`
}

// UnmarshalJSON accepts the object form and the bare string ESPN uses on
// unit groups.
func (p *Position) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &p.Name)
	}
	type plain Position
	return json.Unmarshal(data, (*plain)(p))
}

type Experience struct {
	Years int `json:"years"`
}

type College struct {
	Name string `json:"name"`
}

// FlexString decodes a JSON string or number into its string form.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*f = FlexString(strconv.FormatInt(i, 10))
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

// Flatten expands unit groups into a flat athlete list.
func (r RosterResponse) Flatten() []Athlete {
	out := make([]Athlete, 0, len(r.Athletes))
	for _, a := range r.Athletes {
		if len(a.Items) > 0 {
			out = append(out, a.Items...)
			continue
		}
		out = append(out, a)
	}
	return out
}

// ErrorResponse is the body ESPN returns alongside some error statuses.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
