package api

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar_simulator/internal/model"
	"solar_simulator/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var dayStart = model.NewTimestamp(2025, time.August, 1, 0, 0)

// testSession builds a two-day session, optionally with a completed run.
func testSession(t *testing.T, recompute bool) *session.Session {
	t.Helper()
	samples := make([]model.Sample, 2*model.StepsPerDay)
	for i := range samples {
		ts := dayStart.Add(time.Duration(i) * model.StepDuration)
		solar := 0.0
		if h := ts.HourOfDay(); h >= 8 && h < 18 {
			solar = 7000
		}
		samples[i] = model.Sample{Timestamp: ts, SolarW: solar, BaseLoadW: 500, HeatPumpW: 0}
	}
	profile, err := model.NewProfile(samples)
	require.NoError(t, err)

	sess := session.New(profile, model.DefaultParams(), filepath.Join(t.TempDir(), "params.json"))
	if recompute {
		_, err := sess.Recompute()
		require.NoError(t, err)
	}
	return sess
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	router := NewRouter(testSession(t, false), RouterOptions{})

	for _, path := range []string{"/health", "/api/v1/health"} {
		w := do(t, router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	}
}

func TestGetParams(t *testing.T) {
	router := NewRouter(testSession(t, false), RouterOptions{})

	w := do(t, router, http.MethodGet, "/api/v1/params", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[ParamsResponse](t, w)
	assert.Equal(t, model.DefaultParams(), resp.Params)
	assert.Equal(t, 10.0, resp.Record["battery_capacity_kwh"])
}

func TestUpdateParams(t *testing.T) {
	sess := testSession(t, false)
	router := NewRouter(sess, RouterOptions{})

	w := do(t, router, http.MethodPut, "/api/v1/params", `{"solarSize": 10, "maxPower": "fast"}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[ParamsUpdateResponse](t, w)
	assert.Equal(t, 10.0, resp.Params.SolarSizeKWp)
	assert.Equal(t, model.DefaultBatteryMaxPowerKW, resp.Params.BatteryMaxPowerKW)
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, "battery_max_power_kw", resp.Issues[0].Field)
	require.NotNil(t, resp.Run)
	assert.Equal(t, 192, resp.Run.Summary.Steps)

	assert.Equal(t, 10.0, sess.Params().SolarSizeKWp)
}

func TestUpdateParams_BadBody(t *testing.T) {
	router := NewRouter(testSession(t, false), RouterOptions{})

	w := do(t, router, http.MethodPut, "/api/v1/params", `{"solarSize":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, CodeInvalidRequest, resp.Error.Code)
}

func TestRecomputeAndRun(t *testing.T) {
	router := NewRouter(testSession(t, false), RouterOptions{})

	w := do(t, router, http.MethodGet, "/api/v1/run", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeNoRun, decode[ErrorResponse](t, w).Error.Code)

	w = do(t, router, http.MethodPost, "/api/v1/recompute", "")
	require.Equal(t, http.StatusOK, w.Code)
	run := decode[RunResponse](t, w)
	assert.NotEmpty(t, run.ID)
	require.NotNil(t, run.TimeRange)
	assert.Equal(t, "2025-08-02 23:45", run.TimeRange.End.String())

	w = do(t, router, http.MethodGet, "/api/v1/run", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, run.ID, decode[RunResponse](t, w).ID)
}

func TestNoRunEndpoints(t *testing.T) {
	router := NewRouter(testSession(t, false), RouterOptions{})

	for _, path := range []string{
		"/api/v1/results",
		"/api/v1/days/2025-08-01",
		"/api/v1/monthly",
		"/api/v1/kpis",
		"/api/v1/frame?ts=" + url.QueryEscape("2025-08-01 12:00"),
	} {
		t.Run(path, func(t *testing.T) {
			w := do(t, router, http.MethodGet, path, "")
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestGetResults(t *testing.T) {
	router := NewRouter(testSession(t, true), RouterOptions{})

	w := do(t, router, http.MethodGet, "/api/v1/results", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[ResultsResponse](t, w)
	assert.Len(t, resp.Steps, 192)
	assert.Equal(t, "2025-08-01 00:00", resp.Steps[0].Timestamp.String())
}

func TestGetResults_CSV(t *testing.T) {
	router := NewRouter(testSession(t, true), RouterOptions{})

	w := do(t, router, http.MethodGet, "/api/v1/results?format=csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "results-")

	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 193)
	assert.Equal(t, "ts", rows[0][0])
}

func TestGetDay(t *testing.T) {
	router := NewRouter(testSession(t, true), RouterOptions{})

	w := do(t, router, http.MethodGet, "/api/v1/days/2025-08-02", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[DayResponse](t, w)
	assert.Equal(t, "2025-08-02", resp.Date)
	assert.Len(t, resp.Steps, 96)
	assert.InDelta(t, 7000*10.0, resp.Summary.SolarWh, 1e-6)
	assert.InDelta(t, resp.Summary.GridImportWh-resp.Summary.GridExportWh, resp.Summary.NetGridWh, 1e-6)

	w = do(t, router, http.MethodGet, "/api/v1/days/2025-08-03", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodGet, "/api/v1/days/yesterday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMonthly(t *testing.T) {
	router := NewRouter(testSession(t, true), RouterOptions{})

	w := do(t, router, http.MethodGet, "/api/v1/monthly", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[MonthlyResponse](t, w)
	assert.InDelta(t, 2*7000*10.0, resp.Months[7].SolarWh, 1e-6)
	assert.Equal(t, 0.0, resp.Months[0].SolarWh)

	w = do(t, router, http.MethodGet, "/api/v1/monthly?format=csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 13)
	assert.Equal(t, "140.000", rows[8][1])
}

func TestGetKPIs(t *testing.T) {
	router := NewRouter(testSession(t, true), RouterOptions{})

	w := do(t, router, http.MethodGet, "/api/v1/kpis", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[KPIResponse](t, w)
	assert.Greater(t, resp.SelfSufficiency, 0.0)
	assert.LessOrEqual(t, resp.SelfSufficiency, 1.0)
	assert.Greater(t, resp.SelfConsumption, 0.0)
	assert.LessOrEqual(t, resp.SelfConsumption, 1.0)
}

func TestGetFrame(t *testing.T) {
	router := NewRouter(testSession(t, true), RouterOptions{})

	w := do(t, router, http.MethodGet, "/api/v1/frame?ts="+url.QueryEscape("2025-08-01 09:20"), "")
	require.Equal(t, http.StatusOK, w.Code)
	frame := decode[model.Frame](t, w)
	assert.Equal(t, "2025-08-01 09:15", frame.Timestamp.String())
	assert.InDelta(t, 9.25, frame.Hour, 1e-9)
	assert.InDelta(t, 7000.0, frame.SolarW, 1e-9)

	w = do(t, router, http.MethodGet, "/api/v1/frame", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodGet, "/api/v1/frame?ts=noon", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodGet, "/api/v1/frame?ts="+url.QueryEscape("2025-07-31 23:00"), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestErrorHandler_RecoversPanics(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := do(t, router, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, CodeInternal, resp.Error.Code)
	assert.Equal(t, "boom", resp.Error.Message)
}

func TestNoRoute(t *testing.T) {
	router := NewRouter(testSession(t, false), RouterOptions{})

	w := do(t, router, http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeNotFound, decode[ErrorResponse](t, w).Error.Code)
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.js"), []byte("// scene"), 0o644))

	router := NewRouter(testSession(t, false), RouterOptions{StaticDir: dir})

	w := do(t, router, http.MethodGet, "/scene.js", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "// scene", w.Body.String())

	w = do(t, router, http.MethodGet, "/some/spa/route", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "app")

	w = do(t, router, http.MethodGet, "/api/v1/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebSocketMount(t *testing.T) {
	called := false
	ws := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	})
	router := NewRouter(testSession(t, false), RouterOptions{WebSocket: ws})

	w := do(t, router, http.MethodGet, "/ws", "")
	assert.True(t, called)
	assert.Equal(t, http.StatusTeapot, w.Code)
}
