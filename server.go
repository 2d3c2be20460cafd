package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ton731/urban-resilience-simulator/render"
)

// RenderServer 持有地图控制器并通过JSON接口向外提供场景更新与查询
type RenderServer struct {
	ctl     *render.MapController
	surface *render.MemorySurface

	// 串行化对控制器的修改
	mu sync.Mutex
	// 接口开启true或关闭false
	ok bool
	// 条件变量
	cond *sync.Cond
}

func NewRenderServer(
	mongoURI string,
	worldPath *Path,
	cacheDir string,
) *RenderServer {
	surface := render.NewMemorySurface()
	ctl := render.NewMapController()
	if err := ctl.Initialize(surface); err != nil {
		log.Panicf("failed to initialize map controller: %v", err)
	}
	if worldPath != nil {
		world, err := LoadWorld(mongoURI, worldPath, cacheDir)
		if err != nil {
			log.Panicf("failed to load world from %v: %v", worldPath, err)
		}
		ctl.UpdateWorldData(world)
	}
	return &RenderServer{
		ctl: ctl, surface: surface,
		ok: true, cond: sync.NewCond(&sync.Mutex{}),
	}
}

// Routes 注册全部HTTP接口
func (s *RenderServer) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/world", s.handleWorld)
	mux.HandleFunc("/api/v1/disaster", s.handleDisaster)
	mux.HandleFunc("/api/v1/route", s.handleRoute)
	mux.HandleFunc("/api/v1/visibility", s.handleVisibility)
	mux.HandleFunc("/api/v1/waypoints", s.handleWaypoints)
	mux.HandleFunc("/api/v1/click", s.handleClick)
	mux.HandleFunc("/api/v1/scene", s.handleScene)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.Handle("/metrics", promhttp.Handler())
}

// 暂停-恢复机制
func (s *RenderServer) wait() {
	s.cond.L.Lock()
	for !s.ok {
		// 暂停中
		s.cond.Wait()
	}
	s.cond.L.Unlock()
}

func (s *RenderServer) handleWorld(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.wait()
	var world render.WorldData
	if err := json.NewDecoder(r.Body).Decode(&world); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid world data: %w", err))
		return
	}
	if !world.Boundary.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid boundary"))
		return
	}
	start := time.Now()
	s.mu.Lock()
	s.ctl.UpdateWorldData(&world)
	stats := s.ctl.Stats()
	s.mu.Unlock()
	observeRebuild("world", start)
	sceneShapeCount.Set(float64(s.surface.TotalShapeCount()))
	writeJSON(w, stats)
}

func (s *RenderServer) handleDisaster(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.wait()
	var result render.DisasterResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid disaster data: %w", err))
		return
	}
	start := time.Now()
	s.mu.Lock()
	s.ctl.UpdateDisasterData(&result)
	s.mu.Unlock()
	observeRebuild("disaster", start)
	sceneShapeCount.Set(float64(s.surface.TotalShapeCount()))
	writeJSON(w, map[string]any{"ok": true})
}

func (s *RenderServer) handleRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.wait()
	var update render.RouteUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid route data: %w", err))
		return
	}
	start := time.Now()
	s.mu.Lock()
	s.ctl.UpdateRouteData(&update)
	cmp := s.ctl.RouteComparison()
	s.mu.Unlock()
	observeRebuild("route", start)
	sceneShapeCount.Set(float64(s.surface.TotalShapeCount()))
	writeJSON(w, cmp)
}

func (s *RenderServer) handleVisibility(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.wait()
	var cfg render.VisibilityConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid visibility config: %w", err))
		return
	}
	s.mu.Lock()
	s.ctl.ApplyVisibility(&cfg)
	s.mu.Unlock()
	writeJSON(w, map[string]any{"ok": true})
}

type waypointRequest struct {
	Start *[2]float64 `json:"start,omitempty"`
	End   *[2]float64 `json:"end,omitempty"`
}

func (s *RenderServer) handleWaypoints(w http.ResponseWriter, r *http.Request) {
	s.wait()
	switch r.Method {
	case http.MethodPost:
		var req waypointRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid waypoint request: %w", err))
			return
		}
		s.mu.Lock()
		if req.Start != nil {
			s.ctl.SetStartWaypoint(req.Start[0], req.Start[1])
		}
		if req.End != nil {
			s.ctl.SetEndWaypoint(req.End[0], req.End[1])
		}
		s.mu.Unlock()
		writeJSON(w, map[string]any{"ok": true})
	case http.MethodDelete:
		s.mu.Lock()
		s.ctl.ClearWaypoints()
		s.mu.Unlock()
		writeJSON(w, map[string]any{"ok": true})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type clickRequest struct {
	U float64 `json:"u"`
	V float64 `json:"v"`
}

type clickResponse struct {
	OK bool    `json:"ok"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func (s *RenderServer) handleClick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.wait()
	var req clickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid click request: %w", err))
		return
	}
	s.mu.Lock()
	x, y, ok := s.ctl.ClickToWorld(req.U, req.V)
	s.mu.Unlock()
	writeJSON(w, clickResponse{OK: ok, X: x, Y: y})
}

func (s *RenderServer) handleScene(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.wait()
	fc := s.surface.Snapshot()
	writeJSON(w, fc)
}

func (s *RenderServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.wait()
	s.mu.Lock()
	stats := s.ctl.Stats()
	s.mu.Unlock()
	writeJSON(w, stats)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// 暂停渲染服务
func (s *RenderServer) Suspend() {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	s.ok = false
}

// 恢复渲染服务
func (s *RenderServer) Resume() {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	s.ok = true
	s.cond.Broadcast()
}

// 关闭渲染服务
func (s *RenderServer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctl.Destroy()
}
