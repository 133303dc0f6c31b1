package slashgolf

import (
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
)

// SlashGolf serves Mongo extended JSON: numerics arrive either as plain JSON
// numbers or wrapped objects like {"$numberInt":"5"}, and timestamps as
// {"$date":{"$numberLong":"1712793600000"}}. The wrapped types below accept
// every observed shape and decode to zero on anything else.

type wrappedInt struct {
	Value int
	Set   bool
}

func (w *wrappedInt) UnmarshalJSON(data []byte) error {
	w.Value, w.Set = 0, false

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	if trimmed[0] == '{' {
		var envelope struct {
			Int    string `json:"$numberInt"`
			Long   string `json:"$numberLong"`
			Double string `json:"$numberDouble"`
		}
		if err := sonic.Unmarshal(data, &envelope); err != nil {
			return nil
		}
		raw := envelope.Int
		if raw == "" {
			raw = envelope.Long
		}
		if raw == "" {
			raw = envelope.Double
		}
		w.assign(raw)
		return nil
	}

	w.assign(strings.Trim(trimmed, `"`))
	return nil
}

func (w *wrappedInt) assign(raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
		w.Value = int(parsed)
		w.Set = true
	}
}

func (w wrappedInt) ptr() *int {
	if !w.Set {
		return nil
	}
	v := w.Value
	return &v
}

type wrappedFloat struct {
	Value float64
	Set   bool
}

func (w *wrappedFloat) UnmarshalJSON(data []byte) error {
	var inner wrappedInt
	_ = inner.UnmarshalJSON(data)
	if inner.Set {
		w.Value, w.Set = float64(inner.Value), true
		return nil
	}

	trimmed := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
		w.Value, w.Set = parsed, true
	}
	return nil
}

func (w wrappedFloat) ptr() *float64 {
	if !w.Set {
		return nil
	}
	v := w.Value
	return &v
}

type wrappedDate struct {
	Value time.Time
	Set   bool
}

func (w *wrappedDate) UnmarshalJSON(data []byte) error {
	w.Value, w.Set = time.Time{}, false

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	if trimmed[0] == '{' {
		var envelope struct {
			Date struct {
				Long string `json:"$numberLong"`
			} `json:"$date"`
		}
		if err := sonic.Unmarshal(data, &envelope); err != nil {
			return nil
		}
		millis, err := strconv.ParseInt(strings.TrimSpace(envelope.Date.Long), 10, 64)
		if err != nil {
			return nil
		}
		w.Value = time.UnixMilli(millis).UTC()
		w.Set = true
		return nil
	}

	raw := strings.Trim(trimmed, `"`)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			w.Value = parsed.UTC()
			w.Set = true
			return nil
		}
	}
	return nil
}

type tournamentDates struct {
	Start      wrappedDate `json:"start"`
	End        wrappedDate `json:"end"`
	WeekNumber string      `json:"weekNumber"`
}

type scheduleTournamentItem struct {
	TournID string          `json:"tournId"`
	Name    string          `json:"name"`
	Date    tournamentDates `json:"date"`
	Format  string          `json:"format"`
	Purse   wrappedInt      `json:"purse"`
}

type scheduleEnvelope struct {
	OrgID    string                   `json:"orgId"`
	Year     string                   `json:"year"`
	Schedule []scheduleTournamentItem `json:"schedule"`
}

type tournamentCourse struct {
	CourseName string `json:"courseName"`
	Location   string `json:"location"`
}

type tournamentEnvelope struct {
	TournID      string             `json:"tournId"`
	Name         string             `json:"name"`
	Date         tournamentDates    `json:"date"`
	Format       string             `json:"format"`
	Courses      []tournamentCourse `json:"courses"`
	Purse        wrappedInt         `json:"purse"`
	Status       string             `json:"status"`
	CurrentRound wrappedInt         `json:"currentRound"`
}

type playerProfile struct {
	PlayerID  string `json:"playerId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Country   string `json:"country"`
	IsAmateur bool   `json:"isAmateur"`
}

type playersEnvelope struct {
	Players []playerProfile `json:"players"`
}

type leaderboardRoundItem struct {
	RoundID    wrappedInt `json:"roundId"`
	ScoreToPar string     `json:"scoreToPar"`
}

type leaderboardRow struct {
	PlayerID          string                 `json:"playerId"`
	FirstName         string                 `json:"firstName"`
	LastName          string                 `json:"lastName"`
	Position          string                 `json:"position"`
	Total             string                 `json:"total"`
	CurrentRoundScore string                 `json:"currentRoundScore"`
	Thru              string                 `json:"thru"`
	Status            string                 `json:"status"`
	Rounds            []leaderboardRoundItem `json:"rounds"`
}

type cutLineItem struct {
	CutScore string `json:"cutScore"`
}

type leaderboardEnvelope struct {
	TournID         string           `json:"tournId"`
	Year            string           `json:"year"`
	Status          string           `json:"status"`
	RoundID         wrappedInt       `json:"roundId"`
	LastUpdated     wrappedDate      `json:"lastUpdated"`
	CutLines        []cutLineItem    `json:"cutLines"`
	LeaderboardRows []leaderboardRow `json:"leaderboardRows"`
}

type scorecardHoleItem struct {
	HoleID    wrappedInt `json:"holeId"`
	Par       wrappedInt `json:"par"`
	HoleScore wrappedInt `json:"holeScore"`
	Status    string     `json:"status"`
}

type scorecardRound struct {
	RoundID wrappedInt          `json:"roundId"`
	Holes   []scorecardHoleItem `json:"holes"`
}

type scorecardEnvelope struct {
	TournID  string           `json:"tournId"`
	PlayerID string           `json:"playerId"`
	Rounds   []scorecardRound `json:"scorecards"`
}
