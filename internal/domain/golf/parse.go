package golf

import (
	"strconv"
	"strings"
	"time"
)

// ParsePosition turns a provider position string into an integer rank. Tie
// markers are stripped from either side ("T10" and "10T" both parse to 10).
// Anything unparseable yields 0.
func ParsePosition(raw string) int {
	trimmed := strings.Trim(strings.TrimSpace(raw), "Tt")
	if trimmed == "" {
		return 0
	}
	position, err := strconv.Atoi(trimmed)
	if err != nil || position < 0 {
		return 0
	}
	return position
}

// ParseScore turns a relative-to-par score string into an integer. The "E"
// (even) sentinel maps to 0, as does anything unparseable.
func ParseScore(raw string) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "E") {
		return 0
	}
	trimmed = strings.TrimPrefix(trimmed, "+")
	score, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0
	}
	return score
}

// ParseOptionalScore is ParseScore for fields where absence must stay
// observable: unparseable input yields nil rather than 0.
func ParseOptionalScore(raw string) *int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if strings.EqualFold(trimmed, "E") {
		zero := 0
		return &zero
	}
	trimmed = strings.TrimPrefix(trimmed, "+")
	score, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	return &score
}

// ParseGolferStatus maps a provider status string onto the normalized enum.
// Unrecognized values default to active.
func ParseGolferStatus(raw string) GolferStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cut":
		return GolferCut
	case "withdrawn", "wd":
		return GolferWithdrawn
	case "disqualified", "dq":
		return GolferDisqualified
	default:
		return GolferActive
	}
}

// DeriveTournamentStatus infers a status from the tournament date window when
// the provider supplied none. now > end means completed, inside the window
// means in progress, everything else upcoming. Zero bounds count as open.
func DeriveTournamentStatus(start, end time.Time, now time.Time) TournamentStatus {
	if !end.IsZero() && now.After(end) {
		return TournamentCompleted
	}
	if !start.IsZero() && !now.Before(start) {
		return TournamentInProgress
	}
	return TournamentUpcoming
}

// FormatPurse renders a prize amount the way consumers display it:
// "$" followed by the thousands-separated integer value.
func FormatPurse(amount int64) string {
	if amount <= 0 {
		return ""
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, digit := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return "$" + b.String()
}

// PlaceholderName builds the never-empty golfer name fallback.
func PlaceholderName(id string) string {
	if strings.TrimSpace(id) == "" {
		return "Player Unknown"
	}
	return "Player " + strings.TrimSpace(id)
}
