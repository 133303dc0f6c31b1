package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/fairwaylabs/golfdata/internal/domain/golf"
	"github.com/fairwaylabs/golfdata/internal/platform/cache"
	"github.com/fairwaylabs/golfdata/internal/platform/logging"
	"github.com/fairwaylabs/golfdata/internal/usecase"
)

type stubProvider struct {
	schedule golf.Schedule
	board    golf.Leaderboard
	err      error
}

func (p *stubProvider) Name() string                     { return "stub" }
func (p *stubProvider) Healthy() bool                    { return true }
func (p *stubProvider) CheckHealth(context.Context) bool { return p.err == nil }

func (p *stubProvider) GetTournamentSchedule(context.Context, string) (golf.Schedule, error) {
	return p.schedule, p.err
}

func (p *stubProvider) GetTournamentDetails(context.Context, string, string) (golf.Tournament, error) {
	if p.err != nil {
		return golf.Tournament{}, p.err
	}
	if len(p.schedule.Tournaments) == 0 {
		return golf.Tournament{}, errors.New("no tournaments")
	}
	return p.schedule.Tournaments[0], nil
}

func (p *stubProvider) GetGolferList(context.Context, string, string) ([]golf.Golfer, error) {
	return []golf.Golfer{{ID: "g1", Name: "Player g1", Status: golf.GolferActive}}, p.err
}

func (p *stubProvider) GetGolferDetails(context.Context, string) (golf.Golfer, error) {
	return golf.Golfer{ID: "g1", Name: "Player g1", Status: golf.GolferActive}, p.err
}

func (p *stubProvider) GetLeaderboard(context.Context, string, string, int) (golf.Leaderboard, error) {
	return p.board, p.err
}

type stubWriters struct {
	tournaments int
	golfers     int
	boards      int
}

func (w *stubWriters) UpsertBatch(_ context.Context, _ string, tournaments []golf.Tournament) error {
	w.tournaments += len(tournaments)
	return nil
}

func (w *stubWriters) Upsert(context.Context, string, golf.Tournament) error {
	w.tournaments++
	return nil
}

func (w *stubWriters) UpsertField(_ context.Context, _, _ string, golfers []golf.Golfer) error {
	w.golfers += len(golfers)
	return nil
}

func (w *stubWriters) Replace(_ context.Context, _ string, board golf.Leaderboard) error {
	w.boards++
	return nil
}

func newTestRouter(provider usecase.GolfDataProvider, writers *stubWriters) http.Handler {
	logger := logging.NewNop()
	data := usecase.NewGolfDataService([]usecase.GolfDataProvider{provider}, cache.NewStore(time.Minute), logger)
	sync := usecase.NewSyncService(data, writers, writers, writers, logger)
	handler := NewHandler(data, sync, nil, logger)
	return NewRouter(handler, logger, []string{"*"}, "s3cret")
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestHandler_GetTournamentSchedule(t *testing.T) {
	provider := &stubProvider{schedule: golf.Schedule{
		Season: "2025",
		Tournaments: []golf.Tournament{
			{ID: "014", Name: "Masters Tournament", Status: golf.TournamentUpcoming},
		},
	}}
	router := newTestRouter(provider, &stubWriters{})

	req := httptest.NewRequest(http.MethodGet, "/v1/schedule/2025", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body["data"])
	}
	if got, _ := data["season"].(string); got != "2025" {
		t.Fatalf("expected season=2025, got %v", data["season"])
	}
}

func TestHandler_ScheduleRejectsBadYear(t *testing.T) {
	router := newTestRouter(&stubProvider{}, &stubWriters{})

	req := httptest.NewRequest(http.MethodGet, "/v1/schedule/20x5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandler_LeaderboardRejectsBadRound(t *testing.T) {
	router := newTestRouter(&stubProvider{}, &stubWriters{})

	req := httptest.NewRequest(http.MethodGet, "/v1/tournaments/014/leaderboard?year=2025&round=9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandler_ProviderExhaustionIsUnavailable(t *testing.T) {
	router := newTestRouter(&stubProvider{err: errors.New("upstream down")}, &stubWriters{})

	req := httptest.NewRequest(http.MethodGet, "/v1/schedule/2025", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandler_ScorecardWithoutSourceIsUnavailable(t *testing.T) {
	router := newTestRouter(&stubProvider{}, &stubWriters{})

	req := httptest.NewRequest(http.MethodGet, "/v1/tournaments/014/golfers/g1/scorecard?year=2025", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestHandler_SyncRouteRequiresToken(t *testing.T) {
	router := newTestRouter(&stubProvider{}, &stubWriters{})

	req := httptest.NewRequest(http.MethodGet, "/internal/jobs/sync-golfers?tournId=014&year=2025", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestHandler_SyncGolfersJobWritesField(t *testing.T) {
	writers := &stubWriters{}
	router := newTestRouter(&stubProvider{}, writers)

	req := httptest.NewRequest(http.MethodGet, "/internal/jobs/sync-golfers?tournId=014&year=2025&apiKey=s3cret", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if writers.golfers != 1 {
		t.Fatalf("expected 1 golfer written, got %d", writers.golfers)
	}
}

func TestHandler_SyncTournamentsJobSingleTournament(t *testing.T) {
	provider := &stubProvider{schedule: golf.Schedule{
		Season: "2025",
		Tournaments: []golf.Tournament{
			{ID: "014", Name: "Masters Tournament", Status: golf.TournamentCompleted},
		},
	}}
	writers := &stubWriters{}
	router := newTestRouter(provider, writers)

	req := httptest.NewRequest(http.MethodGet, "/internal/jobs/sync-tournaments?tournId=014&year=2025", nil)
	req.Header.Set("X-Internal-Job-Token", "s3cret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if writers.tournaments != 1 {
		t.Fatalf("expected 1 tournament written, got %d", writers.tournaments)
	}
}

func TestHandler_ProvidersHealthReportsStub(t *testing.T) {
	router := newTestRouter(&stubProvider{}, &stubWriters{})

	req := httptest.NewRequest(http.MethodGet, "/v1/providers/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body["data"])
	}
	healthy, ok := data["healthy"].(map[string]any)
	if !ok {
		t.Fatalf("expected healthy map, got %v", data["healthy"])
	}
	if got, _ := healthy["stub"].(bool); !got {
		t.Fatalf("expected stub provider healthy, got %v", healthy["stub"])
	}
}
