package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ssq/internal/api/handlers"
	"github.com/wonny/ssq/internal/brain"
	"github.com/wonny/ssq/internal/contracts"
	"github.com/wonny/ssq/internal/draws"
	"github.com/wonny/ssq/internal/selection"
	"github.com/wonny/ssq/internal/strategyconfig"
	"github.com/wonny/ssq/pkg/logger"
)

var weekdays = []string{"二", "四", "日"}

// twelveDraws spans four weeks of Tue/Thu/Sun draws
func twelveDraws() []contracts.DrawRecord {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	offsets := []int{0, 2, 5}

	records := make([]contracts.DrawRecord, 12)
	for i := range records {
		p := contracts.PrimaryBall(i%5 + 1)
		r, err := contracts.NewDrawRecord(i, fmt.Sprintf("2024%03d", i+1),
			base.AddDate(0, 0, 7*(i/3)+offsets[i%3]), weekdays[i%3],
			contracts.SpecialBall(i%4+1),
			[6]contracts.PrimaryBall{p, p + 5, p + 10, p + 15, p + 20, contracts.PrimaryBall(26 + i%7)})
		if err != nil {
			panic(err)
		}
		records[i] = r
	}
	return records
}

type memoryRuns struct {
	runs map[string]*selection.Run
}

func (m *memoryRuns) GetRun(ctx context.Context, runID string) (*selection.Run, error) {
	run, ok := m.runs[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", selection.ErrRunNotFound, runID)
	}
	return run, nil
}

func (m *memoryRuns) LatestRunID(ctx context.Context) (string, error) {
	for id := range m.runs {
		return id, nil
	}
	return "", selection.ErrRunNotFound
}

func newTestRouter(runs handlers.RunStore) http.Handler {
	return newTestRouterWithHealth(runs, handlers.NewHealthHandler("ssq-api", nil))
}

func newTestRouterWithHealth(runs handlers.RunStore, health *handlers.HealthHandler) http.Handler {
	store := draws.NewMemory(twelveDraws())
	strategy := strategyconfig.Default()
	strategy.Patterns.MinSupport = 2

	return NewRouter(
		health,
		handlers.NewDrawsHandler(store, nil),
		handlers.NewPipelineHandler(store, brain.NewOrchestrator(nil, nil), runs, strategy, nil, nil),
		nil,
	)
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	healthy := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name   string
		deps   map[string]handlers.Pinger
		status string
		want   map[string]string
	}{
		{"no dependencies", nil, "ok", nil},
		{"all healthy", map[string]handlers.Pinger{"database": healthy, "redis": healthy}, "ok",
			map[string]string{"database": "ok", "redis": "ok"}},
		{"disabled cache", map[string]handlers.Pinger{"database": healthy, "redis": nil}, "ok",
			map[string]string{"database": "ok", "redis": "disabled"}},
		{"database down", map[string]handlers.Pinger{"database": down}, "degraded",
			map[string]string{"database": "down"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			health := handlers.NewHealthHandler("ssq-api", nil)
			for name, p := range tt.deps {
				health.Register(name, p)
			}

			rec := serve(newTestRouterWithHealth(nil, health), http.MethodGet, "/health", "")
			require.Equal(t, http.StatusOK, rec.Code)

			var resp handlers.HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "ssq-api", resp.Service)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, tt.want, resp.Dependencies)
		})
	}
}

func TestListDraws(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
		count  int
	}{
		{"all", "", http.StatusOK, 12},
		{"weekday", "?weekday=四", http.StatusOK, 4},
		{"seq range", "?from_seq=3&to_seq=5", http.StatusOK, 3},
		{"date range", "?from=2024-01-07&to=2024-01-11", http.StatusOK, 3},
		{"combined", "?weekday=日&from_seq=6", http.StatusOK, 2},
		{"bad seq", "?from_seq=abc", http.StatusBadRequest, 0},
		{"negative seq", "?to_seq=-1", http.StatusBadRequest, 0},
		{"bad date", "?from=01/02/2024", http.StatusBadRequest, 0},
		{"inverted seq", "?from_seq=5&to_seq=1", http.StatusBadRequest, 0},
	}

	router := newTestRouter(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, http.MethodGet, "/api/draws"+tt.query, "")
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status != http.StatusOK {
				return
			}

			var resp handlers.DrawsResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.count, resp.Count)
			assert.Len(t, resp.Draws, tt.count)
		})
	}
}

func TestRunPipeline(t *testing.T) {
	router := newTestRouter(nil)

	rec := serve(router, http.MethodPost, "/api/pipeline/run", `{"seed": 42, "dry_run": true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result brain.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 12, result.RecordCount)
	assert.Equal(t, "2024012", result.Snapshot.DataSnapshotID)
	assert.Len(t, result.Selections, strategyconfig.Default().Selection.ResultSize)

	// same seed, same selections
	again := serve(router, http.MethodPost, "/api/pipeline/run", `{"seed": 42, "dry_run": true}`)
	var second brain.RunResult
	require.NoError(t, json.Unmarshal(again.Body.Bytes(), &second))
	assert.Equal(t, result.Selections, second.Selections)
}

func TestRunPipeline_RecentAndWeekday(t *testing.T) {
	rec := serve(newTestRouter(nil), http.MethodPost, "/api/pipeline/run", `{"recent": 3, "weekday": "二"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result brain.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 3, result.RecordCount)
	assert.Equal(t, "2024010", result.Snapshot.DataSnapshotID)
}

func TestRunPipeline_EmptyBody(t *testing.T) {
	rec := serve(newTestRouter(nil), http.MethodPost, "/api/pipeline/run", "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRunPipeline_BadRequests(t *testing.T) {
	router := newTestRouter(nil)

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodPost, "/api/pipeline/run", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodPost, "/api/pipeline/run", `{"recent": -1}`).Code)

	// no draws on that weekday
	rec := serve(router, http.MethodPost, "/api/pipeline/run", `{"weekday": "一"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "no draw records")
}

func TestGetRun(t *testing.T) {
	stored := &selection.Run{
		RunID:      "run-20240102-213000",
		Selections: []contracts.Selection{{Special: 3, Primary: []contracts.PrimaryBall{1, 2, 3, 4, 5, 6}}},
	}
	router := newTestRouter(&memoryRuns{runs: map[string]*selection.Run{stored.RunID: stored}})

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"by id", "/api/pipeline/runs/run-20240102-213000", http.StatusOK},
		{"latest", "/api/pipeline/runs/latest", http.StatusOK},
		{"missing", "/api/pipeline/runs/run-19990101-000000", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, http.MethodGet, tt.path, "")
			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				return
			}

			var run selection.Run
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
			assert.Equal(t, stored.RunID, run.RunID)
			assert.Equal(t, stored.Selections, run.Selections)
		})
	}
}

func TestGetRun_NoHistory(t *testing.T) {
	rec := serve(newTestRouter(nil), http.MethodGet, "/api/pipeline/runs/latest", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	rec := serve(newTestRouter(nil), http.MethodGet, "/api/pipeline/run", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := serve(h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
