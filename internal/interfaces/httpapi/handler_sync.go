package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/fairwaylabs/golfdata/internal/usecase"
)

type syncResultDTO struct {
	Job     string `json:"job"`
	TournID string `json:"tournId,omitempty"`
	Year    string `json:"year"`
	Synced  int    `json:"synced"`
}

// RunSyncTournamentsJob refreshes the season calendar, or one tournament when
// tournId is present. The scheduler uses the single-tournament form to pick up
// status transitions between full calendar refreshes.
func (h *Handler) RunSyncTournamentsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncTournamentsJob")
	defer span.End()

	if h.syncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	tournID := strings.TrimSpace(r.URL.Query().Get("tournId"))
	year := h.yearParam(r)
	if err := h.validateRequest(ctx, yearRequest{Year: year}); err != nil {
		writeError(ctx, w, err)
		return
	}

	if tournID != "" {
		if err := h.syncService.SyncTournamentDetails(ctx, tournID, year); err != nil {
			h.logger.WarnContext(ctx, "sync tournament job failed", "tourn_id", tournID, "year", year, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, syncResultDTO{Job: "sync-tournaments", TournID: tournID, Year: year, Synced: 1})
		return
	}

	count, err := h.syncService.SyncTournaments(ctx, year)
	if err != nil {
		h.logger.WarnContext(ctx, "sync tournaments job failed", "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncResultDTO{Job: "sync-tournaments", Year: year, Synced: count})
}

func (h *Handler) RunSyncGolfersJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncGolfersJob")
	defer span.End()

	if h.syncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	tournID := strings.TrimSpace(r.URL.Query().Get("tournId"))
	year := h.yearParam(r)
	if err := h.validateRequest(ctx, tournamentRequest{TournID: tournID, Year: year}); err != nil {
		writeError(ctx, w, err)
		return
	}

	count, err := h.syncService.SyncGolfers(ctx, tournID, year)
	if err != nil {
		h.logger.WarnContext(ctx, "sync golfers job failed", "tourn_id", tournID, "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncResultDTO{Job: "sync-golfers", TournID: tournID, Year: year, Synced: count})
}

func (h *Handler) RunSyncLeaderboardJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncLeaderboardJob")
	defer span.End()

	if h.syncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	tournID := strings.TrimSpace(r.URL.Query().Get("tournId"))
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

	count, err := h.syncService.SyncLeaderboard(ctx, tournID, year, round)
	if err != nil {
		h.logger.WarnContext(ctx, "sync leaderboard job failed", "tourn_id", tournID, "year", year, "round", round, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncResultDTO{Job: "sync-leaderboard", TournID: tournID, Year: year, Synced: count})
}

// RunClearCacheJob drops one cache key, or the whole cache when key is absent.
func (h *Handler) RunClearCacheJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunClearCacheJob")
	defer span.End()

	key := strings.TrimSpace(r.URL.Query().Get("key"))
	h.dataService.ClearCache(ctx, key)
	if h.scheduleData != h.dataService {
		h.scheduleData.ClearCache(ctx, key)
	}
	if h.liveData != h.dataService {
		h.liveData.ClearCache(ctx, key)
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"job": "clear-cache", "key": key})
}
