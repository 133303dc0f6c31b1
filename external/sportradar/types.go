package sportradar

import (
	"strconv"
	"strings"
)

// Sportradar serves conventional JSON: numerics are plain numbers and dates
// are ISO strings, so the decode types stay flat. The one exception is the
// world ranking, which has been observed both as a number and a quoted
// number; optionalInt tolerates either and drops anything unparseable.

type optionalInt struct {
	Value int
	Set   bool
}

func (o *optionalInt) UnmarshalJSON(data []byte) error {
	o.Value, o.Set = 0, false
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
		o.Value, o.Set = int(parsed), true
	}
	return nil
}

func (o optionalInt) ptr() *int {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

type venueInfo struct {
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}

type courseInfo struct {
	Name string `json:"name"`
}

type scheduleTournamentItem struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Purse     float64    `json:"purse"`
	Status    string     `json:"status"`
	Venue     *venueInfo `json:"venue"`
}

type scheduleEnvelope struct {
	Tour struct {
		Name string `json:"name"`
	} `json:"tour"`
	Season struct {
		Year int `json:"year"`
	} `json:"season"`
	Tournaments []scheduleTournamentItem `json:"tournaments"`
}

type fieldPlayer struct {
	ID           string      `json:"id"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Country      string      `json:"country"`
	Abbr         string      `json:"abbr"`
	WorldRanking optionalInt `json:"world_ranking"`
	ImageURL     string      `json:"image_url"`
	Status       string      `json:"status"`
}

type summaryEnvelope struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	StartDate    string        `json:"start_date"`
	EndDate      string        `json:"end_date"`
	Purse        float64       `json:"purse"`
	Status       string        `json:"status"`
	CurrentRound int           `json:"current_round"`
	Venue        *venueInfo    `json:"venue"`
	Courses      []courseInfo  `json:"courses"`
	Field        []fieldPlayer `json:"field"`
}

type profileEnvelope struct {
	ID           string      `json:"id"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Country      string      `json:"country"`
	Abbr         string      `json:"abbr"`
	WorldRanking optionalInt `json:"world_ranking"`
	ImageURL     string      `json:"image_url"`
}

type leaderboardRoundItem struct {
	Sequence int  `json:"sequence"`
	Score    *int `json:"score"`
	Thru     *int `json:"thru"`
}

type leaderboardRow struct {
	ID        string                 `json:"id"`
	FirstName string                 `json:"first_name"`
	LastName  string                 `json:"last_name"`
	Position  int                    `json:"position"`
	Tied      bool                   `json:"tied"`
	Score     *int                   `json:"score"`
	Status    string                 `json:"status"`
	Rounds    []leaderboardRoundItem `json:"rounds"`
}

type leaderboardEnvelope struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Status       string           `json:"status"`
	CurrentRound int              `json:"current_round"`
	CutLine      *float64         `json:"cut_line"`
	Leaderboard  []leaderboardRow `json:"leaderboard"`
}

type seasonsEnvelope struct {
	Seasons []struct {
		ID   string `json:"id"`
		Year int    `json:"year"`
	} `json:"seasons"`
}
