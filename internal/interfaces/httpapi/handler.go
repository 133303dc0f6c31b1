package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fairwaylabs/golfdata/internal/domain/golf"
	"github.com/fairwaylabs/golfdata/internal/platform/logging"
	"github.com/fairwaylabs/golfdata/internal/usecase"
)

// ScorecardSource is the per-hole feed only some providers expose. The
// SlashGolf adapter satisfies it; the handler reports the feature unavailable
// when no source is configured.
type ScorecardSource interface {
	GetScorecard(ctx context.Context, tournamentID, year, golferID string, round int) (golf.Scorecard, error)
}

type Handler struct {
	dataService *usecase.GolfDataService
	// scheduleData and liveData default to dataService; the app overrides
	// them with instances whose caches carry schedule and leaderboard TTLs.
	scheduleData *usecase.GolfDataService
	liveData     *usecase.GolfDataService
	syncService  *usecase.SyncService
	scorecards   ScorecardSource
	logger       *logging.Logger
	validator    *validator.Validate
}

func NewHandler(
	dataService *usecase.GolfDataService,
	syncService *usecase.SyncService,
	scorecards ScorecardSource,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		dataService:  dataService,
		scheduleData: dataService,
		liveData:     dataService,
		syncService:  syncService,
		scorecards:   scorecards,
		logger:       logger,
		validator:    validator.New(),
	}
}

// WithScheduleService routes schedule and tournament-detail reads through a
// service instance with its own freshness policy.
func (h *Handler) WithScheduleService(s *usecase.GolfDataService) *Handler {
	if s != nil {
		h.scheduleData = s
	}
	return h
}

// WithLiveService routes leaderboard reads through a service instance with
// its own freshness policy.
func (h *Handler) WithLiveService(s *usecase.GolfDataService) *Handler {
	if s != nil {
		h.liveData = s
	}
	return h
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetTournamentSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournamentSchedule")
	defer span.End()

	year := strings.TrimSpace(r.PathValue("year"))
	if err := h.validateRequest(ctx, yearRequest{Year: year}); err != nil {
		writeError(ctx, w, err)
		return
	}

	schedule, err := h.scheduleData.GetTournamentSchedule(ctx, year)
	if err != nil {
		h.logger.WarnContext(ctx, "get schedule failed", "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scheduleToDTO(schedule))
}

func (h *Handler) GetTournamentDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournamentDetails")
	defer span.End()

	tournID := r.PathValue("tournID")
	year := h.yearParam(r)
	if err := h.validateRequest(ctx, tournamentRequest{TournID: tournID, Year: year}); err != nil {
		writeError(ctx, w, err)
		return
	}

	tournament, err := h.scheduleData.GetTournamentDetails(ctx, tournID, year)
	if err != nil {
		h.logger.WarnContext(ctx, "get tournament failed", "tourn_id", tournID, "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tournamentToDTO(tournament))
}

func (h *Handler) ListTournamentGolfers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournamentGolfers")
	defer span.End()

	tournID := r.PathValue("tournID")
	year := h.yearParam(r)
	if err := h.validateRequest(ctx, tournamentRequest{TournID: tournID, Year: year}); err != nil {
		writeError(ctx, w, err)
		return
	}

	golfers, err := h.dataService.GetGolferList(ctx, tournID, year)
	if err != nil {
		h.logger.WarnContext(ctx, "list golfers failed", "tourn_id", tournID, "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]golferDTO, 0, len(golfers))
	for _, g := range golfers {
		items = append(items, golferToDTO(g))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGolferDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGolferDetails")
	defer span.End()

	golferID := strings.TrimSpace(r.PathValue("golferID"))
	if golferID == "" {
		writeError(ctx, w, fmt.Errorf("%w: golfer id is required", usecase.ErrInvalidInput))
		return
	}

	golfer, err := h.dataService.GetGolferDetails(ctx, golferID)
	if err != nil {
		h.logger.WarnContext(ctx, "get golfer failed", "golfer_id", golferID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, golferToDTO(golfer))
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	tournID := r.PathValue("tournID")
	year := h.yearParam(r)
	if err := h.validateRequest(ctx, tournamentRequest{TournID: tournID, Year: year}); err != nil {
		writeError(ctx, w, err)
		return
	}
	round, err := roundParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	board, err := h.liveData.GetLeaderboard(ctx, tournID, year, round)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "tourn_id", tournID, "year", year, "round", round, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardToDTO(board))
}

func (h *Handler) GetScorecard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScorecard")
	defer span.End()

	if h.scorecards == nil {
		writeError(ctx, w, fmt.Errorf("%w: no scorecard-capable provider is configured", usecase.ErrDependencyUnavailable))
		return
	}

	tournID := r.PathValue("tournID")
	golferID := r.PathValue("golferID")
	year := h.yearParam(r)
	if err := h.validateRequest(ctx, scorecardRequest{TournID: tournID, GolferID: golferID, Year: year}); err != nil {
		writeError(ctx, w, err)
		return
	}
	round, err := roundParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	scorecard, err := h.scorecards.GetScorecard(ctx, tournID, year, golferID, round)
	if err != nil {
		h.logger.WarnContext(ctx, "get scorecard failed",
			"tourn_id", tournID,
			"golfer_id", golferID,
			"year", year,
			"round", round,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scorecardToDTO(scorecard))
}

func (h *Handler) CheckProvidersHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CheckProvidersHealth")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, providersHealthDTO{
		Providers: h.dataService.ProviderNames(),
		Healthy:   h.dataService.CheckProvidersHealth(ctx),
	})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// yearParam reads the optional year query parameter, defaulting to the
// current season.
func (h *Handler) yearParam(r *http.Request) string {
	year := strings.TrimSpace(r.URL.Query().Get("year"))
	if year == "" {
		year = strconv.Itoa(time.Now().UTC().Year())
	}
	return year
}

// roundParam reads the optional round query parameter. Absent means the
// current round.
func roundParam(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("round"))
	if raw == "" {
		return usecase.CurrentRound, nil
	}

	round, err := strconv.Atoi(raw)
	if err != nil || round < 1 || round > 4 {
		return 0, fmt.Errorf("%w: round must be a number between 1 and 4", usecase.ErrInvalidInput)
	}
	return round, nil
}

type yearRequest struct {
	Year string `validate:"required,len=4,numeric"`
}

type tournamentRequest struct {
	TournID string `validate:"required"`
	Year    string `validate:"required,len=4,numeric"`
}

type scorecardRequest struct {
	TournID  string `validate:"required"`
	GolferID string `validate:"required"`
	Year     string `validate:"required,len=4,numeric"`
}

type scheduleDTO struct {
	Season      string          `json:"season"`
	Tournaments []tournamentDTO `json:"tournaments"`
}

type tournamentDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	Course         string `json:"course"`
	Location       string `json:"location"`
	Purse          string `json:"purse"`
	Status         string `json:"status"`
	CurrentRound   *int   `json:"currentRound,omitempty"`
	ExternalID     string `json:"externalId"`
	ExternalSystem string `json:"externalSystem"`
}

type golferDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Rank           *int   `json:"rank,omitempty"`
	Country        string `json:"country"`
	CountryCode    string `json:"countryCode"`
	AvatarURL      string `json:"avatarUrl"`
	Odds           string `json:"odds"`
	Status         string `json:"status"`
	ExternalID     string `json:"externalId"`
	ExternalSystem string `json:"externalSystem"`
}

type leaderboardDTO struct {
	TournamentID string                `json:"tournamentId"`
	RoundID      *int                  `json:"roundId,omitempty"`
	LastUpdated  string                `json:"lastUpdatedUtc"`
	CutLine      *float64              `json:"cutLine,omitempty"`
	Status       string                `json:"status"`
	Players      []leaderboardEntryDTO `json:"players"`
}

type leaderboardEntryDTO struct {
	GolferID string `json:"golferId"`
	Position int    `json:"position"`
	Score    int    `json:"score"`
	Round1   *int   `json:"round1,omitempty"`
	Round2   *int   `json:"round2,omitempty"`
	Round3   *int   `json:"round3,omitempty"`
	Round4   *int   `json:"round4,omitempty"`
	Thru     *int   `json:"thru,omitempty"`
	Today    *int   `json:"today,omitempty"`
	Status   string `json:"status"`
}

type scorecardDTO struct {
	TournamentID string             `json:"tournamentId"`
	GolferID     string             `json:"golferId"`
	RoundID      *int               `json:"roundId,omitempty"`
	Holes        []scorecardHoleDTO `json:"holes"`
}

type scorecardHoleDTO struct {
	Hole   int    `json:"hole"`
	Par    *int   `json:"par,omitempty"`
	Score  *int   `json:"score,omitempty"`
	Status string `json:"status,omitempty"`
}

type providersHealthDTO struct {
	Providers []string        `json:"providers"`
	Healthy   map[string]bool `json:"healthy"`
}

func scheduleToDTO(v golf.Schedule) scheduleDTO {
	items := make([]tournamentDTO, 0, len(v.Tournaments))
	for _, t := range v.Tournaments {
		items = append(items, tournamentToDTO(t))
	}
	return scheduleDTO{Season: v.Season, Tournaments: items}
}

func tournamentToDTO(v golf.Tournament) tournamentDTO {
	return tournamentDTO{
		ID:             v.ID,
		Name:           v.Name,
		StartDate:      v.StartDate,
		EndDate:        v.EndDate,
		Course:         v.Course,
		Location:       v.Location,
		Purse:          v.Purse,
		Status:         string(v.Status),
		CurrentRound:   v.CurrentRound,
		ExternalID:     v.ExternalID,
		ExternalSystem: v.ExternalSystem,
	}
}

func golferToDTO(v golf.Golfer) golferDTO {
	return golferDTO{
		ID:             v.ID,
		Name:           v.Name,
		Rank:           v.Rank,
		Country:        v.Country,
		CountryCode:    v.CountryCode,
		AvatarURL:      v.AvatarURL,
		Odds:           v.Odds,
		Status:         string(v.Status),
		ExternalID:     v.ExternalID,
		ExternalSystem: v.ExternalSystem,
	}
}

func leaderboardToDTO(v golf.Leaderboard) leaderboardDTO {
	players := make([]leaderboardEntryDTO, 0, len(v.Players))
	for _, entry := range v.Players {
		players = append(players, leaderboardEntryDTO{
			GolferID: entry.GolferID,
			Position: entry.Position,
			Score:    entry.Score,
			Round1:   entry.Round1,
			Round2:   entry.Round2,
			Round3:   entry.Round3,
			Round4:   entry.Round4,
			Thru:     entry.Thru,
			Today:    entry.Today,
			Status:   string(entry.Status),
		})
	}

	return leaderboardDTO{
		TournamentID: v.TournamentID,
		RoundID:      v.RoundID,
		LastUpdated:  v.LastUpdated.UTC().Format(time.RFC3339),
		CutLine:      v.CutLine,
		Status:       string(v.Status),
		Players:      players,
	}
}

func scorecardToDTO(v golf.Scorecard) scorecardDTO {
	holes := make([]scorecardHoleDTO, 0, len(v.Holes))
	for _, hole := range v.Holes {
		holes = append(holes, scorecardHoleDTO{
			Hole:   hole.Hole,
			Par:    hole.Par,
			Score:  hole.Score,
			Status: hole.Status,
		})
	}

	return scorecardDTO{
		TournamentID: v.TournamentID,
		GolferID:     v.GolferID,
		RoundID:      v.RoundID,
		Holes:        holes,
	}
}
