package sportradar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/fairwaylabs/golfdata/internal/domain/golf"
	"github.com/fairwaylabs/golfdata/internal/platform/logging"
)

const (
	ProviderName = "sportradar"

	defaultBaseURL = "https://api.sportradar.com/golf/trial/v3"
)

var errUpstreamFailure = crerr.New("sportradar upstream failure")
var apiKeyParamRegex = regexp.MustCompile(`api_key=[^&\s"']+`)

type Config struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Provider adapts the Sportradar Golf v3 API. Same health contract as the
// other adapters: a failed call flips the flag, CheckHealth restores it.
type Provider struct {
	httpClient *http.Client
	baseURL    string
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

	p := &Provider{
		httpClient: httpClient,
		baseURL:    baseURL,
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
	path := fmt.Sprintf("/en/tournaments/schedule/%s.json", url.PathEscape(year))
	if err := p.doJSON(ctx, path, &envelope); err != nil {
		return golf.Schedule{}, fmt.Errorf("fetch schedule year=%s: %w", year, err)
	}

	tournaments := make([]golf.Tournament, 0, len(envelope.Tournaments))
	now := time.Now().UTC()
	for _, item := range envelope.Tournaments {
		tournaments = append(tournaments, mapScheduleTournament(item, now))
	}

	season := year
	if envelope.Season.Year > 0 {
		season = strconv.Itoa(envelope.Season.Year)
	}
	return golf.Schedule{Season: season, Tournaments: tournaments}, nil
}

func (p *Provider) GetTournamentDetails(ctx context.Context, tournamentID, year string) (golf.Tournament, error) {
	envelope, err := p.fetchSummary(ctx, tournamentID)
	if err != nil {
		return golf.Tournament{}, fmt.Errorf("fetch tournament tournament_id=%s year=%s: %w", tournamentID, year, err)
	}
	return mapTournamentSummary(envelope, time.Now().UTC()), nil
}

// GetGolferList reads the entry field off the tournament summary.
func (p *Provider) GetGolferList(ctx context.Context, tournamentID, year string) ([]golf.Golfer, error) {
	envelope, err := p.fetchSummary(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("fetch golfer list tournament_id=%s year=%s: %w", tournamentID, year, err)
	}

	golfers := make([]golf.Golfer, 0, len(envelope.Field))
	for _, player := range envelope.Field {
		golfers = append(golfers, golf.Golfer{
			ID:             player.ID,
			Name:           golferName(player.FirstName, player.LastName, player.ID),
			Rank:           player.WorldRanking.ptr(),
			Country:        strings.TrimSpace(player.Country),
			CountryCode:    strings.ToUpper(strings.TrimSpace(player.Abbr)),
			AvatarURL:      strings.TrimSpace(player.ImageURL),
			Status:         golf.ParseGolferStatus(player.Status),
			ExternalID:     player.ID,
			ExternalSystem: ProviderName,
		})
	}
	return golfers, nil
}

func (p *Provider) GetGolferDetails(ctx context.Context, golferID string) (golf.Golfer, error) {
	var envelope profileEnvelope
	path := fmt.Sprintf("/en/players/%s/profile.json", url.PathEscape(golferID))
	if err := p.doJSON(ctx, path, &envelope); err != nil {
		return golf.Golfer{}, fmt.Errorf("fetch golfer player_id=%s: %w", golferID, err)
	}

	id := envelope.ID
	if id == "" {
		id = golferID
	}
	return golf.Golfer{
		ID:             id,
		Name:           golferName(envelope.FirstName, envelope.LastName, id),
		Rank:           envelope.WorldRanking.ptr(),
		Country:        strings.TrimSpace(envelope.Country),
		CountryCode:    strings.ToUpper(strings.TrimSpace(envelope.Abbr)),
		AvatarURL:      strings.TrimSpace(envelope.ImageURL),
		Status:         golf.GolferActive,
		ExternalID:     id,
		ExternalSystem: ProviderName,
	}, nil
}

// GetLeaderboard returns the live standings. The upstream endpoint has no
// round selector, so the round argument is accepted and ignored; the payload
// always covers every round played so far.
func (p *Provider) GetLeaderboard(ctx context.Context, tournamentID, year string, round int) (golf.Leaderboard, error) {
	var envelope leaderboardEnvelope
	path := fmt.Sprintf("/en/tournaments/%s/leaderboard.json", url.PathEscape(tournamentID))
	if err := p.doJSON(ctx, path, &envelope); err != nil {
		return golf.Leaderboard{}, fmt.Errorf("fetch leaderboard tournament_id=%s year=%s round=%d: %w", tournamentID, year, round, err)
	}
	return mapLeaderboard(envelope, tournamentID), nil
}

// CheckHealth probes the seasons listing, the cheapest authenticated call.
func (p *Provider) CheckHealth(ctx context.Context) bool {
	var envelope seasonsEnvelope
	err := p.doJSON(ctx, "/en/seasons.json", &envelope)
	healthy := err == nil
	p.healthy.Store(healthy)
	if !healthy {
		p.logger.WarnContext(ctx, "sportradar health check failed", "error", err)
	}
	return healthy
}

func (p *Provider) fetchSummary(ctx context.Context, tournamentID string) (summaryEnvelope, error) {
	var envelope summaryEnvelope
	path := fmt.Sprintf("/en/tournaments/%s/summary.json", url.PathEscape(tournamentID))
	if err := p.doJSON(ctx, path, &envelope); err != nil {
		return summaryEnvelope{}, err
	}
	return envelope, nil
}

func (p *Provider) doJSON(ctx context.Context, path string, target any) error {
	values := url.Values{}
	values.Set("api_key", p.apiKey)
	fullURL := p.baseURL + path + "?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.healthy.Store(false)
		wrapped := fmt.Errorf("%w: send request: %s", errUpstreamFailure, p.sanitize(err.Error()))
		p.logger.WarnContext(ctx, "sportradar request failed", "url", redactURL(fullURL), "error", wrapped)
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
		p.logger.WarnContext(ctx, "sportradar request failed", "url", redactURL(fullURL), "status", resp.StatusCode)
		return wrapped
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		p.healthy.Store(false)
		return fmt.Errorf("decode sportradar payload: %w", err)
	}
	return nil
}

func (p *Provider) sanitize(value string) string {
	if p.apiKey != "" {
		value = strings.ReplaceAll(value, p.apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "api_key=REDACTED")
}

func redactURL(fullURL string) string {
	return apiKeyParamRegex.ReplaceAllString(fullURL, "api_key=REDACTED")
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func mapScheduleTournament(item scheduleTournamentItem, now time.Time) golf.Tournament {
	out := golf.Tournament{
		ID:             item.ID,
		Name:           strings.TrimSpace(item.Name),
		StartDate:      item.StartDate,
		EndDate:        item.EndDate,
		Purse:          golf.FormatPurse(int64(item.Purse)),
		Status:         mapTournamentStatus(item.Status, item.StartDate, item.EndDate, now),
		ExternalID:     item.ID,
		ExternalSystem: ProviderName,
	}
	if item.Venue != nil {
		out.Course = strings.TrimSpace(item.Venue.Name)
		out.Location = venueLocation(item.Venue)
	}
	return out
}

func mapTournamentSummary(envelope summaryEnvelope, now time.Time) golf.Tournament {
	out := golf.Tournament{
		ID:             envelope.ID,
		Name:           strings.TrimSpace(envelope.Name),
		StartDate:      envelope.StartDate,
		EndDate:        envelope.EndDate,
		Purse:          golf.FormatPurse(int64(envelope.Purse)),
		Status:         mapTournamentStatus(envelope.Status, envelope.StartDate, envelope.EndDate, now),
		ExternalID:     envelope.ID,
		ExternalSystem: ProviderName,
	}
	if envelope.CurrentRound > 0 {
		round := envelope.CurrentRound
		out.CurrentRound = &round
	}
	if len(envelope.Courses) > 0 {
		out.Course = strings.TrimSpace(envelope.Courses[0].Name)
	}
	if envelope.Venue != nil {
		if out.Course == "" {
			out.Course = strings.TrimSpace(envelope.Venue.Name)
		}
		out.Location = venueLocation(envelope.Venue)
	}
	return out
}

// mapTournamentStatus maps the vendor's explicit states; anything else falls
// through to the date-window derivation.
func mapTournamentStatus(raw, startDate, endDate string, now time.Time) golf.TournamentStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "closed", "complete", "completed":
		return golf.TournamentCompleted
	case "inprogress", "in_progress", "live":
		return golf.TournamentInProgress
	case "cancelled", "canceled":
		return golf.TournamentCanceled
	}

	start, _ := time.Parse("2006-01-02", startDate)
	end, _ := time.Parse("2006-01-02", endDate)
	return golf.DeriveTournamentStatus(start, end, now)
}

func mapLeaderboard(envelope leaderboardEnvelope, tournamentID string) golf.Leaderboard {
	out := golf.Leaderboard{
		TournamentID: tournamentID,
		LastUpdated:  time.Now().UTC(),
		CutLine:      envelope.CutLine,
		Status:       mapTournamentStatus(envelope.Status, "", "", time.Now().UTC()),
		Players:      make([]golf.LeaderboardEntry, 0, len(envelope.Leaderboard)),
	}
	if envelope.CurrentRound > 0 {
		round := envelope.CurrentRound
		out.RoundID = &round
	}

	for _, row := range envelope.Leaderboard {
		entry := golf.LeaderboardEntry{
			GolferID: row.ID,
			Position: row.Position,
			Status:   golf.ParseGolferStatus(row.Status),
		}
		if row.Score != nil {
			entry.Score = *row.Score
		}
		for _, round := range row.Rounds {
			if round.Score == nil {
				continue
			}
			score := *round.Score
			switch round.Sequence {
			case 1:
				entry.Round1 = &score
			case 2:
				entry.Round2 = &score
			case 3:
				entry.Round3 = &score
			case 4:
				entry.Round4 = &score
			}
			if envelope.CurrentRound > 0 && round.Sequence == envelope.CurrentRound {
				today := score
				entry.Today = &today
				if round.Thru != nil {
					thru := *round.Thru
					entry.Thru = &thru
				}
			}
		}
		out.Players = append(out.Players, entry)
	}
	return out
}

func venueLocation(venue *venueInfo) string {
	parts := make([]string, 0, 2)
	if city := strings.TrimSpace(venue.City); city != "" {
		parts = append(parts, city)
	}
	if state := strings.TrimSpace(venue.State); state != "" {
		parts = append(parts, state)
	}
	return strings.Join(parts, ", ")
}

func golferName(first, last, id string) string {
	name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if name == "" {
		return golf.PlaceholderName(id)
	}
	return name
}
