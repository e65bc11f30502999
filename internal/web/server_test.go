package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/sigem/internal/config"
	"github.com/JonMunkholm/sigem/internal/core"
	"github.com/JonMunkholm/sigem/internal/mapview"
	"github.com/JonMunkholm/sigem/internal/metrics"
)

const testCSV = `Departamento,Municipio,Estatus
Atlántida,La Ceiba,INTEGRADO
Atlántida,Tela,PENDIENTE
Yoro,El Progreso,PENDIENTE
Copán,Santa Rosa de Copán,integrado
`

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
<path id="HNAT" d="M0 0 L1 1"/><path id="HNYO" d="M2 2 L3 3"/><path id="HNOL" d="M4 4 L5 5"/>
</svg>`

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Port: 8080, RequestTimeout: 5 * time.Second, ShutdownTimeout: time.Second},
		Rate:    config.RateLimitConfig{Enabled: false},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
		Security: config.SecurityConfig{
			EnableCSP: true,
		},
	}
}

func readySnapshot(t *testing.T) *core.Snapshot {
	t.Helper()
	records, skipped, err := core.ParseDataset(testCSV, "INTEGRADO")
	require.NoError(t, err)
	aggs := core.Aggregate(records)
	return &core.Snapshot{
		ID:         uuid.New(),
		LoadedAt:   time.Now().UTC(),
		Source:     "test.csv",
		Keyword:    "INTEGRADO",
		Records:    records,
		Aggregates: aggs,
		Summary:    core.Summarize(records, aggs),
		Skipped:    skipped,
	}
}

type stubSource struct{ body string }

func (s stubSource) Fetch(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.body)), nil
}

func (s stubSource) Location() string { return "stub" }

type fixture struct {
	srv   *Server
	store *core.Store
	snap  *core.Snapshot
}

func newFixture(t *testing.T, cfg *config.Config, ready bool) *fixture {
	t.Helper()
	store := core.NewStore()
	var snap *core.Snapshot
	if ready {
		snap = readySnapshot(t)
		store.Publish(snap)
	}

	m := mapview.NewMap()
	require.NoError(t, m.Load(context.Background(), stubSource{body: testSVG}, 0))

	srv, err := NewServer(Options{Config: cfg, Store: store, Map: m, Metrics: metrics.New()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	return &fixture{srv: srv, store: store, snap: snap}
}

func (f *fixture) do(t *testing.T, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestNewServer_Validation(t *testing.T) {
	_, err := NewServer(Options{Store: core.NewStore()})
	assert.Error(t, err)

	_, err = NewServer(Options{Config: testConfig()})
	assert.Error(t, err)
}

func TestDashboard_Ready(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/?region=Atl%C3%A1ntida", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "Mostrando 2 de 4 municipios")
	assert.Contains(t, body, `class="department-path"`)
	assert.Contains(t, body, "Detalle de Municipios")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestDashboard_Loading(t *testing.T) {
	f := newFixture(t, testConfig(), false)

	rec := f.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cargando datos...")
}

func TestDashboard_Failed(t *testing.T) {
	f := newFixture(t, testConfig(), false)
	f.store.Fail(fmt.Errorf("data.csv: %w", core.ErrNoValidRecords))

	rec := f.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Error al cargar datos: ")
	assert.Contains(t, body, "DATA003")
	assert.NotContains(t, body, "Mapa de Cumplimiento")
}

func TestTablePartial(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/partials/table?status=noncompliant&sort=locality", map[string]string{"HX-Request": "true"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.NotContains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, "Mostrando 2 de 4 municipios")
	assert.Less(t, strings.Index(body, "El Progreso"), strings.Index(body, "Tela"))
}

func TestTablePartial_NotLoadedHTMX(t *testing.T) {
	f := newFixture(t, testConfig(), false)

	rec := f.do(t, http.MethodGet, "/partials/table", map[string]string{"HX-Request": "true"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="alert alert-error"`)
}

func TestTooltip(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/partials/tooltip?code=HNAT&x=20&y=30", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Atlántida")
	assert.Contains(t, body, "Solventes: 1")
	assert.Contains(t, body, "Insolventes: 1")
	assert.Contains(t, body, "left:30px;top:40px")

	rec = f.do(t, http.MethodGet, "/partials/tooltip?code=HNOL&x=1&y=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sin datos")

	rec = f.do(t, http.MethodGet, "/partials/tooltip?code=ZZZZ", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestMapSVG(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/map.svg", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), mapview.ColorCompliant)
	assert.Contains(t, rec.Body.String(), mapview.ColorNonCompliant)
	assert.Contains(t, rec.Body.String(), mapview.ColorNoData)

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	rec = f.do(t, http.MethodGet, "/map.svg", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestMapSVG_Unavailable(t *testing.T) {
	store := core.NewStore()
	store.Publish(readySnapshot(t))
	srv, err := NewServer(Options{Config: testConfig(), Store: store})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/map.svg", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "MAP001")

	// The dashboard still renders with a placeholder.
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No se pudo cargar el mapa")
}

func TestAPIRecords(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/api/records?q=cop%C3%A1n&sort=compliance&dir=desc", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view core.TableView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Santa Rosa de Copán", view.Rows[0].Locality)
	assert.Equal(t, 4, view.Rows[0].Sequence)
	assert.Equal(t, core.SortDesc, view.Query.Dir)
	assert.Equal(t, 4, view.Total)
}

func TestAPIRegions(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/api/regions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var regions []RegionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &regions))
	require.Len(t, regions, core.RegionCount())

	assert.Equal(t, "Atlántida", regions[0].Region)
	assert.Equal(t, "HNAT", regions[0].Code)
	assert.Equal(t, core.StatusCompliant, regions[0].Status)
	assert.Equal(t, mapview.ColorCompliant, regions[0].Color)
	assert.Equal(t, 2, regions[0].Total)
}

func TestAPISummary(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/api/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var sum SummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, f.snap.ID.String(), sum.ID)
	assert.Equal(t, core.Summary{Total: 4, Compliant: 2, NonCompliant: 2, Regions: 3}, sum.Summary)
	assert.True(t, sum.MapAvailable)
}

func TestAPI_NotLoadedReturnsJSONError(t *testing.T) {
	f := newFixture(t, testConfig(), false)

	rec := f.do(t, http.MethodGet, "/api/summary", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "DATA000", resp.Code)
	assert.Equal(t, "Cargando datos...", resp.Message)
}

func TestHealth(t *testing.T) {
	f := newFixture(t, testConfig(), false)

	rec := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"loading"`)

	f.store.Fail(core.ErrEmptyDataset)
	rec = f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"DATA002"`)

	snap := readySnapshot(t)
	f.store.Publish(snap)
	rec = f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), snap.ID.String())
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	f.do(t, http.MethodGet, "/api/summary", nil)
	rec := f.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `sigem_http_requests_total{method="GET",route="/api/summary",status="200"} 1`)
}

func TestStaticAssets(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/static/app.js", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "partials/tooltip")

	rec = f.do(t, http.MethodGet, "/static/app.css", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2, TooltipLimit: 1}
	f := newFixture(t, cfg, true)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/summary", nil).Code)
	}

	rec := f.do(t, http.MethodGet, "/api/summary", nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "RATE001", resp.Code)

	// Health checks and the tooltip budget are separate.
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/partials/tooltip?code=HNAT", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, f.do(t, http.MethodGet, "/partials/tooltip?code=HNAT", nil).Code)
}

func TestRateLimiter_WindowReset(t *testing.T) {
	rl := newRateLimiter(1, time.Minute, nil)
	defer rl.stop()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("1.2.3.4"))
	assert.False(t, rl.allow("1.2.3.4"))
	assert.True(t, rl.allow("5.6.7.8"))

	now = now.Add(61 * time.Second)
	assert.True(t, rl.allow("1.2.3.4"))
}
