package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routekit/routekit/internal/api"
	"github.com/routekit/routekit/internal/api/models"
	"github.com/routekit/routekit/internal/auth"
	"github.com/routekit/routekit/internal/geo"
	"github.com/routekit/routekit/internal/history"
	"github.com/routekit/routekit/internal/route"
	"github.com/routekit/routekit/internal/storage"
)

// fakeEngine returns a fixed two point track for any request.
type fakeEngine struct {
	err string
}

func (e *fakeEngine) Run(_ context.Context, req route.EngineRequest) (*route.EngineResult, error) {
	if e.err != "" {
		return &route.EngineResult{ErrorMessage: e.err}, nil
	}
	return &route.EngineResult{
		Track: &route.Track{
			Points: []geo.Point{
				{Lat: 54.543592, Lon: -2.950076},
				{Lat: 54.542671, Lon: -2.966995},
			},
			DistanceMeters:  1200,
			DurationSeconds: 300,
		},
	}, nil
}

func (e *fakeEngine) Name() string { return "fake" }

// newTestBase creates a base directory with one segment tile and the
// trekking profile installed.
func newTestBase(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	layout := storage.Layout{BaseDir: base}
	require.NoError(t, layout.Init())

	segment := filepath.Join(layout.SegmentsDir(), "W5_N50"+geo.SegmentExt)
	require.NoError(t, os.WriteFile(segment, []byte("segment"), 0o644))
	require.NoError(t, os.WriteFile(layout.ProfilePath("trekking"), []byte("profile"), 0o644))

	return base
}

func testVerifier() *auth.TokenVerifier {
	return auth.NewTokenVerifier(auth.VerifierConfig{
		SigningKey: "test-secret-key-for-testing-only",
	})
}

func newTestRouter(t *testing.T, engine route.Engine) (http.Handler, string) {
	t.Helper()

	logger := zerolog.New(io.Discard)
	base := newTestBase(t)

	orch := route.NewOrchestrator(route.OrchestratorConfig{
		Engine: engine,
		Logger: logger,
	})
	hist := history.NewService(history.NewInMemoryRepository(), logger)

	router := api.NewRouter(api.RouterConfig{
		Version:      "test",
		BuildTime:    "2026-01-01T00:00:00Z",
		Logger:       logger,
		BaseDir:      base,
		Orchestrator: orch,
		History:      hist,
		Verifier:     testVerifier(),
	})
	return router, base
}

func computeBody(t *testing.T, profile string) *bytes.Buffer {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{
		"points": []map[string]float64{
			{"lat": 54.543592, "lon": -2.950076},
			{"lat": 54.542671, "lon": -2.966995},
		},
		"profile": profile,
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestRouter_Health(t *testing.T) {
	router, _ := newTestRouter(t, &fakeEngine{})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var health models.Health
	require.NoError(t, json.NewDecoder(w.Body).Decode(&health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "test", health.Details["version"])
}

func TestRouter_ReadyWithDataInstalled(t *testing.T) {
	router, _ := newTestRouter(t, &fakeEngine{})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ListProfiles(t *testing.T) {
	router, _ := newTestRouter(t, &fakeEngine{})

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ProfilesResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Profiles, 5)
	assert.Equal(t, "car-fast", resp.Profiles[0].Key)
}

func TestRouter_ComputeRoute(t *testing.T) {
	router, _ := newTestRouter(t, &fakeEngine{})

	req := httptest.NewRequest(http.MethodPost, "/v1/routes:compute", computeBody(t, "trekking"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.RouteComputeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "trekking", resp.Profile)
	assert.Equal(t, 1200, resp.DistanceMeters)
	assert.Equal(t, 300, resp.DurationSeconds)
	assert.NotEmpty(t, resp.GeometryPolyline)
}

func TestRouter_ComputeRoute_UnknownProfile(t *testing.T) {
	router, _ := newTestRouter(t, &fakeEngine{})

	req := httptest.NewRequest(http.MethodPost, "/v1/routes:compute", computeBody(t, "submarine"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_ComputeRoute_MissingTile(t *testing.T) {
	router, base := newTestRouter(t, &fakeEngine{})

	segment := filepath.Join(storage.Layout{BaseDir: base}.SegmentsDir(), "W5_N50"+geo.SegmentExt)
	require.NoError(t, os.Remove(segment))

	req := httptest.NewRequest(http.MethodPost, "/v1/routes:compute", computeBody(t, "trekking"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFailedDependency, w.Code)
}

func TestRouter_ComputeRoute_EngineFailure(t *testing.T) {
	router, _ := newTestRouter(t, &fakeEngine{err: "no route found"})

	req := httptest.NewRequest(http.MethodPost, "/v1/routes:compute", computeBody(t, "trekking"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRouter_AdminRoutes_RequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t, &fakeEngine{})

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/routes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_AdminRoutes_ListsHistory(t *testing.T) {
	router, _ := newTestRouter(t, &fakeEngine{})

	// Record one route first
	computeReq := httptest.NewRequest(http.MethodPost, "/v1/routes:compute", computeBody(t, "trekking"))
	computeReq.Header.Set("Content-Type", "application/json")
	computeW := httptest.NewRecorder()
	router.ServeHTTP(computeW, computeReq)
	require.Equal(t, http.StatusOK, computeW.Code)

	token, err := testVerifier().Issue("ops-user", "admin", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/routes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.RouteRecordsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "trekking", resp.Records[0].Profile)
	assert.Equal(t, "completed", resp.Records[0].Status)
	assert.Equal(t, 1200, resp.Records[0].DistanceMeters)

	// Fetch the same record by id
	getReq := httptest.NewRequest(http.MethodGet, "/v1/admin/routes/"+resp.Records[0].ID, nil)
	getReq.Header.Set("Authorization", "Bearer "+token)
	getW := httptest.NewRecorder()
	router.ServeHTTP(getW, getReq)

	require.Equal(t, http.StatusOK, getW.Code)

	var rec models.RouteRecord
	require.NoError(t, json.NewDecoder(getW.Body).Decode(&rec))
	assert.Equal(t, resp.Records[0].ID, rec.ID)
}

func TestRouter_AdminRoutes_GetUnknownRecord(t *testing.T) {
	router, _ := newTestRouter(t, &fakeEngine{})

	token, err := testVerifier().Issue("ops-user", "admin", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/routes/rte_missing", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
