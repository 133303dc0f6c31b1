package slashgolf

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/fairwaylabs/golfdata/internal/domain/golf"
	"github.com/fairwaylabs/golfdata/internal/platform/logging"
	"github.com/fairwaylabs/golfdata/internal/usecase"
)

const (
	// ProviderName identifies this adapter in health maps and logs.
	ProviderName = "slashgolf"

	defaultBaseURL = "https://live-golf-data.p.rapidapi.com"
	defaultHost    = "live-golf-data.p.rapidapi.com"

	// SlashGolf multiplexes tours behind one API; orgId 1 is the PGA Tour.
	defaultOrgID = "1"
)

var errUpstreamFailure = crerr.New("slashgolf upstream failure")

type Config struct {
	HTTPClient *http.Client
	BaseURL    string
	Host       string
	APIKey     string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Provider adapts the SlashGolf live-golf-data API. It carries a single
// health flag: any failed upstream call flips it false, and only CheckHealth
// can flip it back. Calls never retry; the caller's fallback chain handles
// failures.
type Provider struct {
	httpClient *http.Client
	baseURL    string
	host       string
	apiKey     string
	logger     *logging.Logger
	healthy    atomic.Bool
}

func NewProvider(cfg Config) *Provider {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = defaultHost
	}

	p := &Provider{
		httpClient: httpClient,
		baseURL:    baseURL,
		host:       host,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		logger:     logger,
	}
	p.healthy.Store(true)
	return p
}

func (p *Provider) Name() string  { return ProviderName }
func (p *Provider) Healthy() bool { return p.healthy.Load() }

func (p *Provider) GetTournamentSchedule(ctx context.Context, year string) (golf.Schedule, error) {
	var envelope scheduleEnvelope
	query := map[string]string{"orgId": defaultOrgID, "year": year}
	if err := p.doJSON(ctx, "/schedule", query, &envelope); err != nil {
		return golf.Schedule{}, fmt.Errorf("fetch schedule year=%s: %w", year, err)
	}

	tournaments := make([]golf.Tournament, 0, len(envelope.Schedule))
	now := time.Now().UTC()
	for _, item := range envelope.Schedule {
		tournaments = append(tournaments, mapScheduleTournament(item, now))
	}

	season := envelope.Year
	if season == "" {
		season = year
	}
	return golf.Schedule{Season: season, Tournaments: tournaments}, nil
}

func (p *Provider) GetTournamentDetails(ctx context.Context, tournamentID, year string) (golf.Tournament, error) {
	var envelope tournamentEnvelope
	query := map[string]string{"orgId": defaultOrgID, "tournId": tournamentID, "year": year}
	if err := p.doJSON(ctx, "/tournament", query, &envelope); err != nil {
		return golf.Tournament{}, fmt.Errorf("fetch tournament tourn_id=%s year=%s: %w", tournamentID, year, err)
	}
	return mapTournamentDetails(envelope, time.Now().UTC()), nil
}

// GetGolferList derives the tournament field from the leaderboard feed, which
// lists every entrant once play starts. There is no separate field endpoint.
func (p *Provider) GetGolferList(ctx context.Context, tournamentID, year string) ([]golf.Golfer, error) {
	var envelope leaderboardEnvelope
	query := map[string]string{"orgId": defaultOrgID, "tournId": tournamentID, "year": year}
	if err := p.doJSON(ctx, "/leaderboard", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch golfer list tourn_id=%s year=%s: %w", tournamentID, year, err)
	}

	golfers := make([]golf.Golfer, 0, len(envelope.LeaderboardRows))
	for _, row := range envelope.LeaderboardRows {
		golfers = append(golfers, golf.Golfer{
			ID:             row.PlayerID,
			Name:           golferName(row.FirstName, row.LastName, row.PlayerID),
			Status:         golf.ParseGolferStatus(row.Status),
			ExternalID:     row.PlayerID,
			ExternalSystem: ProviderName,
		})
	}
	return golfers, nil
}

func (p *Provider) GetGolferDetails(ctx context.Context, golferID string) (golf.Golfer, error) {
	var envelope playersEnvelope
	query := map[string]string{"playerId": golferID}
	if err := p.doJSON(ctx, "/players", query, &envelope); err != nil {
		return golf.Golfer{}, fmt.Errorf("fetch golfer player_id=%s: %w", golferID, err)
	}
	if len(envelope.Players) == 0 {
		return golf.Golfer{}, fmt.Errorf("golfer player_id=%s: %w", golferID, usecase.ErrNotFound)
	}

	profile := envelope.Players[0]
	return golf.Golfer{
		ID:             profile.PlayerID,
		Name:           golferName(profile.FirstName, profile.LastName, profile.PlayerID),
		Country:        strings.TrimSpace(profile.Country),
		Status:         golf.GolferActive,
		ExternalID:     profile.PlayerID,
		ExternalSystem: ProviderName,
	}, nil
}

func (p *Provider) GetLeaderboard(ctx context.Context, tournamentID, year string, round int) (golf.Leaderboard, error) {
	query := map[string]string{"orgId": defaultOrgID, "tournId": tournamentID, "year": year}
	if round > 0 {
		query["roundId"] = strconv.Itoa(round)
	}

	var envelope leaderboardEnvelope
	if err := p.doJSON(ctx, "/leaderboard", query, &envelope); err != nil {
		return golf.Leaderboard{}, fmt.Errorf("fetch leaderboard tourn_id=%s year=%s round=%d: %w", tournamentID, year, round, err)
	}
	return mapLeaderboard(envelope, tournamentID), nil
}

// GetScorecard returns a golfer's per-hole detail. Round 0 means the latest
// available round.
func (p *Provider) GetScorecard(ctx context.Context, tournamentID, year, golferID string, round int) (golf.Scorecard, error) {
	query := map[string]string{"orgId": defaultOrgID, "tournId": tournamentID, "year": year, "playerId": golferID}
	if round > 0 {
		query["roundId"] = strconv.Itoa(round)
	}

	var envelope scorecardEnvelope
	if err := p.doJSON(ctx, "/scorecard", query, &envelope); err != nil {
		return golf.Scorecard{}, fmt.Errorf("fetch scorecard tourn_id=%s player_id=%s round=%d: %w", tournamentID, golferID, round, err)
	}
	return mapScorecard(envelope, tournamentID, golferID, round), nil
}

// CheckHealth probes the schedule endpoint for the current year and records
// the outcome on the health flag.
func (p *Provider) CheckHealth(ctx context.Context) bool {
	year := strconv.Itoa(time.Now().UTC().Year())
	var envelope scheduleEnvelope
	err := p.doJSON(ctx, "/schedule", map[string]string{"orgId": defaultOrgID, "year": year}, &envelope)
	healthy := err == nil
	p.healthy.Store(healthy)
	if !healthy {
		p.logger.WarnContext(ctx, "slashgolf health check failed", "error", err)
	}
	return healthy
}

func (p *Provider) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := p.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("x-rapidapi-key", p.apiKey)
	req.Header.Set("x-rapidapi-host", p.host)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.healthy.Store(false)
		wrapped := fmt.Errorf("%w: send request: %s", errUpstreamFailure, p.sanitize(err.Error()))
		p.logger.WarnContext(ctx, "slashgolf request failed", "url", fullURL, "error", wrapped)
		return wrapped
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
	if err != nil {
		p.healthy.Store(false)
		return fmt.Errorf("%w: read response body: %v", errUpstreamFailure, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.healthy.Store(false)
		wrapped := fmt.Errorf("%w: status=%d body=%s", errUpstreamFailure, resp.StatusCode, abbreviateBody(raw))
		p.logger.WarnContext(ctx, "slashgolf request failed", "url", fullURL, "status", resp.StatusCode)
		return wrapped
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		p.healthy.Store(false)
		return fmt.Errorf("decode slashgolf payload: %w", err)
	}
	return nil
}

func (p *Provider) sanitize(value string) string {
	if p.apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, p.apiKey, "REDACTED")
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func formatDate(w wrappedDate) string {
	if !w.Set {
		return ""
	}
	return w.Value.Format("2006-01-02")
}

func mapScheduleTournament(item scheduleTournamentItem, now time.Time) golf.Tournament {
	return golf.Tournament{
		ID:             item.TournID,
		Name:           strings.TrimSpace(item.Name),
		StartDate:      formatDate(item.Date.Start),
		EndDate:        formatDate(item.Date.End),
		Purse:          golf.FormatPurse(int64(item.Purse.Value)),
		Status:         golf.DeriveTournamentStatus(item.Date.Start.Value, item.Date.End.Value, now),
		ExternalID:     item.TournID,
		ExternalSystem: ProviderName,
	}
}

func mapTournamentDetails(envelope tournamentEnvelope, now time.Time) golf.Tournament {
	out := golf.Tournament{
		ID:             envelope.TournID,
		Name:           strings.TrimSpace(envelope.Name),
		StartDate:      formatDate(envelope.Date.Start),
		EndDate:        formatDate(envelope.Date.End),
		Purse:          golf.FormatPurse(int64(envelope.Purse.Value)),
		Status:         mapTournamentStatus(envelope.Status, envelope.Date, now),
		CurrentRound:   envelope.CurrentRound.ptr(),
		ExternalID:     envelope.TournID,
		ExternalSystem: ProviderName,
	}
	if len(envelope.Courses) > 0 {
		out.Course = strings.TrimSpace(envelope.Courses[0].CourseName)
		out.Location = strings.TrimSpace(envelope.Courses[0].Location)
	}
	return out
}

// mapTournamentStatus honors the provider's explicit "Official" marker, which
// means results are final. Every other value falls through to the date-window
// derivation.
func mapTournamentStatus(raw string, dates tournamentDates, now time.Time) golf.TournamentStatus {
	if strings.EqualFold(strings.TrimSpace(raw), "Official") {
		return golf.TournamentCompleted
	}
	return golf.DeriveTournamentStatus(dates.Start.Value, dates.End.Value, now)
}

// mapLeaderboardStatus has no date window to fall back on. "Official" means
// final results; a started round means live play; anything else is upcoming.
func mapLeaderboardStatus(raw string, roundID wrappedInt) golf.TournamentStatus {
	if strings.EqualFold(strings.TrimSpace(raw), "Official") {
		return golf.TournamentCompleted
	}
	if roundID.Set && roundID.Value > 0 {
		return golf.TournamentInProgress
	}
	return golf.TournamentUpcoming
}

func mapLeaderboard(envelope leaderboardEnvelope, tournamentID string) golf.Leaderboard {
	out := golf.Leaderboard{
		TournamentID: tournamentID,
		RoundID:      envelope.RoundID.ptr(),
		Status:       mapLeaderboardStatus(envelope.Status, envelope.RoundID),
		Players:      make([]golf.LeaderboardEntry, 0, len(envelope.LeaderboardRows)),
	}
	if envelope.LastUpdated.Set {
		out.LastUpdated = envelope.LastUpdated.Value
	} else {
		out.LastUpdated = time.Now().UTC()
	}
	if len(envelope.CutLines) > 0 {
		if cut := golf.ParseOptionalScore(envelope.CutLines[0].CutScore); cut != nil {
			value := float64(*cut)
			out.CutLine = &value
		}
	}

	for _, row := range envelope.LeaderboardRows {
		entry := golf.LeaderboardEntry{
			GolferID: row.PlayerID,
			Position: golf.ParsePosition(row.Position),
			Score:    golf.ParseScore(row.Total),
			Today:    golf.ParseOptionalScore(row.CurrentRoundScore),
			Status:   golf.ParseGolferStatus(row.Status),
		}
		if thru := strings.TrimSpace(row.Thru); thru != "" && !strings.EqualFold(thru, "F") {
			if parsed, err := strconv.Atoi(thru); err == nil {
				entry.Thru = &parsed
			}
		}
		for _, round := range row.Rounds {
			score := golf.ParseOptionalScore(round.ScoreToPar)
			switch round.RoundID.Value {
			case 1:
				entry.Round1 = score
			case 2:
				entry.Round2 = score
			case 3:
				entry.Round3 = score
			case 4:
				entry.Round4 = score
			}
		}
		out.Players = append(out.Players, entry)
	}
	return out
}

func mapScorecard(envelope scorecardEnvelope, tournamentID, golferID string, round int) golf.Scorecard {
	out := golf.Scorecard{
		TournamentID: tournamentID,
		GolferID:     golferID,
	}

	var selected *scorecardRound
	for i := range envelope.Rounds {
		item := &envelope.Rounds[i]
		if round > 0 && item.RoundID.Value == round {
			selected = item
			break
		}
		if round <= 0 && (selected == nil || item.RoundID.Value > selected.RoundID.Value) {
			selected = item
		}
	}
	if selected == nil {
		return out
	}

	out.RoundID = selected.RoundID.ptr()
	out.Holes = make([]golf.ScorecardHole, 0, len(selected.Holes))
	for _, hole := range selected.Holes {
		out.Holes = append(out.Holes, golf.ScorecardHole{
			Hole:   hole.HoleID.Value,
			Par:    hole.Par.ptr(),
			Score:  hole.HoleScore.ptr(),
			Status: strings.TrimSpace(hole.Status),
		})
	}
	return out
}

func golferName(first, last, id string) string {
	name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if name == "" {
		return golf.PlaceholderName(id)
	}
	return name
}
