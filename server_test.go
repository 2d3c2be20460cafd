package main

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ton731/urban-resilience-simulator/render"
)

func newTestServer(t *testing.T) (*RenderServer, *http.ServeMux) {
	t.Helper()
	server := NewRenderServer("", nil, "")
	mux := http.NewServeMux()
	server.Routes(mux)
	return server, mux
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServerWorldUpdateAndScene(t *testing.T) {
	_, mux := newTestServer(t)
	e := rand.New(rand.NewSource(7))
	world := randomWorld(e, 16)

	w := postJSON(t, mux, "/api/v1/world", world)
	require.Equal(t, http.StatusOK, w.Code)
	var stats render.SummaryStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, len(world.Nodes), stats.NodeCount)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scene", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	fc, err := geojson.UnmarshalFeatureCollection(rec.Body.Bytes())
	require.NoError(t, err)
	assert.NotEmpty(t, fc.Features)
}

func TestServerInvalidWorldRejected(t *testing.T) {
	_, mux := newTestServer(t)
	world := &render.WorldData{
		Boundary: render.Boundary{MinX: 10, MaxX: 0, MinY: 0, MaxY: 10},
	}
	w := postJSON(t, mux, "/api/v1/world", world)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServerClick(t *testing.T) {
	_, mux := newTestServer(t)
	e := rand.New(rand.NewSource(7))
	world := randomWorld(e, 16)
	require.Equal(t, http.StatusOK, postJSON(t, mux, "/api/v1/world", world).Code)

	w := postJSON(t, mux, "/api/v1/click", clickRequest{U: 0, V: 0})
	require.Equal(t, http.StatusOK, w.Code)
	var resp clickResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	// 显示原点对应世界边界中心
	assert.InDelta(t, world.Boundary.Center().X, resp.X, 1e-6)
	assert.InDelta(t, world.Boundary.Center().Y, resp.Y, 1e-6)
}

func TestServerClickBeforeWorld(t *testing.T) {
	_, mux := newTestServer(t)
	w := postJSON(t, mux, "/api/v1/click", clickRequest{U: 1, V: 1})
	require.Equal(t, http.StatusOK, w.Code)
	var resp clickResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
}

func TestServerMethodNotAllowed(t *testing.T) {
	_, mux := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/world", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServerVisibilityAndWaypoints(t *testing.T) {
	server, mux := newTestServer(t)
	e := rand.New(rand.NewSource(7))
	world := randomWorld(e, 16)
	require.Equal(t, http.StatusOK, postJSON(t, mux, "/api/v1/world", world).Code)

	w := postJSON(t, mux, "/api/v1/visibility", render.VisibilityConfig{
		Trees: map[render.VulnerabilityLevel]bool{render.VulnerabilityHigh: false},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, server.surface.GroupVisible(render.LayerTreesHigh))

	w = postJSON(t, mux, "/api/v1/waypoints", waypointRequest{
		Start: &[2]float64{100, 100},
		End:   &[2]float64{300, 300},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, server.surface.ShapeCount(render.LayerWaypoints))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/waypoints", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, server.surface.ShapeCount(render.LayerWaypoints))
}
