package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/donateshop/internal/api"
	"github.com/mcoot/donateshop/internal/api/apierr"
	"github.com/mcoot/donateshop/internal/api/response"
	"github.com/mcoot/donateshop/internal/dependencies/mocks"
	"github.com/mcoot/donateshop/internal/factory"
	"github.com/mcoot/donateshop/internal/middleware"
	"github.com/mcoot/donateshop/internal/model"
	"github.com/mcoot/donateshop/internal/services/player"
	"github.com/mcoot/donateshop/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T, legacy bool) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := factory.NewTestApp()

	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		PlayerService:      app.PlayerService,
		Metrics:            app.Metrics,
		EnableLegacyRoutes: legacy,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decodePlayer(t *testing.T, rr *httptest.ResponseRecorder) response.Player {
	t.Helper()
	var p response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p), rr.Body.String())
	return p
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var e apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &e), rr.Body.String())
	return e.Error
}

func TestStatus(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.request(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.StatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, api.DefaultStatusMessage, resp.Message)
	assert.Equal(t, "Database connected successfully", resp.Status)
	assert.True(t, ts.app.MockClock.Now().Equal(resp.DatabaseTime), resp.DatabaseTime)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.request(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestGetPlayerCreatesOnFirstLookup(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.request(http.MethodGet, "/player/76561198000000001", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))

	p := decodePlayer(t, rr)
	assert.Positive(t, p.ID)
	assert.Equal(t, "76561198000000001", p.SteamID)
	assert.Equal(t, "Player_76561198000000001", p.PlayerName)
	assert.Equal(t, int64(0), p.DonateCoins)
	assert.Equal(t, ts.app.MockClock.Now(), p.LastSeen)
}

func TestGetPlayerResponseShape(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.request(http.MethodGet, "/player/steam-1", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	assert.ElementsMatch(t,
		[]string{"id", "steam_id", "player_name", "donate_coins", "last_seen"},
		keys(raw),
	)
}

func TestGetPlayerIsIdempotent(t *testing.T) {
	ts := newTestServer(t, true)

	first := decodePlayer(t, ts.request(http.MethodGet, "/player/steam-1", ""))
	ts.app.MockClock.Advance(time.Hour)
	second := decodePlayer(t, ts.request(http.MethodGet, "/player/steam-1", ""))

	assert.Equal(t, first, second)
	assert.Equal(t, 1, ts.app.MemoryStorage.Count())
}

func TestPatchDonateSetsBalance(t *testing.T) {
	ts := newTestServer(t, true)
	ts.request(http.MethodGet, "/player/steam-1", "")

	ts.app.MockClock.Advance(time.Minute)
	rr := ts.request(http.MethodPatch, "/player/steam-1/donate", `{"coins": 120}`)
	require.Equal(t, http.StatusOK, rr.Code)

	p := decodePlayer(t, rr)
	assert.Equal(t, int64(120), p.DonateCoins)
	assert.Equal(t, ts.app.MockClock.Now(), p.LastSeen)

	p = decodePlayer(t, ts.request(http.MethodGet, "/player/steam-1", ""))
	assert.Equal(t, int64(120), p.DonateCoins)
}

func TestPostDonateIsAlias(t *testing.T) {
	ts := newTestServer(t, true)
	ts.request(http.MethodGet, "/player/steam-1", "")

	rr := ts.request(http.MethodPost, "/player/steam-1/donate", `{"coins": -5}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(-5), decodePlayer(t, rr).DonateCoins)
}

func TestPatchDonateRejectsNonNumericCoins(t *testing.T) {
	ts := newTestServer(t, true)
	ts.request(http.MethodGet, "/player/steam-1", "")
	ts.request(http.MethodPatch, "/player/steam-1/donate", `{"coins": 10}`)

	for _, body := range []string{`{"coins": "abc"}`, `{"coins": "50"}`, `{"coins": 2.5}`, `{}`} {
		rr := ts.request(http.MethodPatch, "/player/steam-1/donate", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.Equal(t, apierr.MessageInvalidCoins, decodeError(t, rr), body)
	}

	p := decodePlayer(t, ts.request(http.MethodGet, "/player/steam-1", ""))
	assert.Equal(t, int64(10), p.DonateCoins)
}

func TestPatchDonateRejectsMalformedBody(t *testing.T) {
	ts := newTestServer(t, true)
	ts.request(http.MethodGet, "/player/steam-1", "")

	rr := ts.request(http.MethodPatch, "/player/steam-1/donate", `{"coins":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.MessageInvalidRequest, decodeError(t, rr))
}

func TestPatchDonateRejectsOversizedBody(t *testing.T) {
	ts := newTestServer(t, true)
	ts.request(http.MethodGet, "/player/steam-1", "")

	body := `{"coins": 1, "pad": "` + strings.Repeat("x", 8<<10) + `"}`
	rr := ts.request(http.MethodPatch, "/player/steam-1/donate", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPatchDonateUnknownPlayer(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.request(http.MethodPatch, "/player/ghost/donate", `{"coins": 50}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.MessagePlayerNotFound, decodeError(t, rr))
	assert.Equal(t, 0, ts.app.MemoryStorage.Count())
}

func TestLegacySetDonate(t *testing.T) {
	ts := newTestServer(t, true)
	ts.request(http.MethodGet, "/player/76561198000000001", "")

	rr := ts.request(http.MethodGet, "/player/76561198000000001/setdonate/50", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(50), decodePlayer(t, rr).DonateCoins)

	p := decodePlayer(t, ts.request(http.MethodGet, "/player/76561198000000001", ""))
	assert.Equal(t, int64(50), p.DonateCoins)
}

func TestLegacySetDonateValidation(t *testing.T) {
	ts := newTestServer(t, true)
	ts.request(http.MethodGet, "/player/steam-1", "")

	rr := ts.request(http.MethodGet, "/player/steam-1/setdonate/abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	for _, coins := range []string{"0x1p4", "1_000"} {
		rr = ts.request(http.MethodGet, "/player/steam-1/setdonate/"+coins, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, coins)
	}
	p := decodePlayer(t, ts.request(http.MethodGet, "/player/steam-1", ""))
	assert.Equal(t, int64(0), p.DonateCoins)

	rr = ts.request(http.MethodGet, "/player/ghost/setdonate/5", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, 1, ts.app.MemoryStorage.Count())
}

func TestLegacySetDonateDisabled(t *testing.T) {
	ts := newTestServer(t, false)
	ts.request(http.MethodGet, "/player/steam-1", "")

	rr := ts.request(http.MethodGet, "/player/steam-1/setdonate/50", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	p := decodePlayer(t, ts.request(http.MethodGet, "/player/steam-1", ""))
	assert.Equal(t, int64(0), p.DonateCoins)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.request(http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NotEmpty(t, decodeError(t, rr))

	rr = ts.request(http.MethodDelete, "/player/steam-1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestResponsesCarryRequestID(t *testing.T) {
	ts := newTestServer(t, true)

	for _, tc := range []struct {
		method, path string
		status       int
	}{
		{http.MethodGet, "/player/steam-1", http.StatusOK},
		{http.MethodGet, "/nope", http.StatusNotFound},
		{http.MethodDelete, "/player/steam-1", http.StatusMethodNotAllowed},
	} {
		rr := ts.request(tc.method, tc.path, "")
		assert.Equal(t, tc.status, rr.Code, tc.path)
		assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader), "%s %s", tc.method, tc.path)
	}
}

func TestRequestLogCarriesRequestID(t *testing.T) {
	logger, logs := testutil.CaptureLogger()
	app := factory.NewTestApp()
	handler := api.NewRouter(api.RouterConfig{Logger: logger, PlayerService: app.PlayerService})

	req := httptest.NewRequest(http.MethodGet, "/player/steam-1", nil)
	req.Header.Set(middleware.RequestIDHeader, "trace-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entry := logs.Find("http request")
	require.NotNil(t, entry)
	assert.Equal(t, "trace-42", entry["request_id"])
	assert.Equal(t, "/player/steam-1", entry["path"])
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, true)
	ts.request(http.MethodGet, "/player/steam-1", "")

	rr := ts.request(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `donateshop_http_requests_total{method="GET",route="/player/{steam_id}",status="200"} 1`)
	assert.Contains(t, rr.Body.String(), `donateshop_player_operations_total{op="get_or_create"} 1`)
}

func TestStorageFaultsReturn500(t *testing.T) {
	fault := errors.New("dial tcp: connection refused")
	svc := player.New(brokenStorage{err: fault}, mocks.NewMockClock(time.Now()), nil, nil)
	handler := api.NewRouter(api.RouterConfig{
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		PlayerService: svc,
	})

	tests := []struct {
		method, path, body, message string
	}{
		{http.MethodGet, "/", "", apierr.MessageDatabaseDown},
		{http.MethodGet, "/player/steam-1", "", apierr.MessageFetchFailed},
		{http.MethodPatch, "/player/steam-1/donate", `{"coins": 1}`, apierr.MessageUpdateFailed},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code, tt.path)
		assert.Equal(t, tt.message, decodeError(t, rr), tt.path)
		assert.NotContains(t, rr.Body.String(), "connection refused")
	}
}

// brokenStorage fails every operation
type brokenStorage struct {
	err error
}

func (b brokenStorage) GetOrCreatePlayer(context.Context, model.SteamID, string, time.Time) (*model.Player, error) {
	return nil, b.err
}

func (b brokenStorage) GetPlayer(context.Context, model.SteamID) (*model.Player, error) {
	return nil, b.err
}

func (b brokenStorage) SetDonateCoins(context.Context, model.SteamID, int64, time.Time) (*model.Player, error) {
	return nil, b.err
}

func (b brokenStorage) Now(context.Context) (time.Time, error) {
	return time.Time{}, b.err
}

func (b brokenStorage) Close() error {
	return nil
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
