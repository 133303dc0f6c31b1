package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerQueryRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/schedule/{year}", handler.GetTournamentSchedule)
	mux.HandleFunc("GET /v1/tournaments/{tournID}", handler.GetTournamentDetails)
	mux.HandleFunc("GET /v1/tournaments/{tournID}/golfers", handler.ListTournamentGolfers)
	mux.HandleFunc("GET /v1/tournaments/{tournID}/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/tournaments/{tournID}/golfers/{golferID}/scorecard", handler.GetScorecard)
	mux.HandleFunc("GET /v1/golfers/{golferID}", handler.GetGolferDetails)
	mux.HandleFunc("GET /v1/providers/health", handler.CheckProvidersHealth)
}

// The sync routes answer GET because the scheduler executor fires plain GET
// requests, mirroring the hosted cron services the original jobs ran on.
func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("GET /internal/jobs/sync-tournaments", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncTournamentsJob)))
	mux.Handle("GET /internal/jobs/sync-golfers", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncGolfersJob)))
	mux.Handle("GET /internal/jobs/sync-leaderboard", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncLeaderboardJob)))
	mux.Handle("GET /internal/jobs/clear-cache", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunClearCacheJob)))
}
