package render_test

import (
	"github.com/ton731/urban-resilience-simulator/render"
)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

// 一个小而全的测试世界：两条道路（一条单行）、两棵树、
// 一个避难所、一栋居民楼
func newTestWorld() *render.WorldData {
	return &render.WorldData{
		Boundary: render.Boundary{MinX: 0, MaxX: 1000, MinY: 0, MaxY: 1000},
		Nodes: map[string]*render.Node{
			"n1": {ID: "n1", X: 100, Y: 100, Kind: render.NodeIntersection},
			"n2": {ID: "n2", X: 500, Y: 100, Kind: render.NodeIntersection},
			"n3": {ID: "n3", X: 500, Y: 600, Kind: render.NodeEndpoint},
		},
		Segments: map[string]*render.RoadSegment{
			"e1": {
				ID: "e1", FromNode: "n1", ToNode: "n2",
				Class: render.RoadMain, WidthM: 8, LaneCount: 4,
				SpeedLimitKmh: 60, Bidirectional: true,
			},
			"e2": {
				ID: "e2", FromNode: "n2", ToNode: "n3",
				Class: render.RoadSecondary, WidthM: 6, LaneCount: 2,
				SpeedLimitKmh: 40, Bidirectional: false,
			},
		},
		Trees: map[string]*render.Tree{
			"t1": {ID: "t1", X: 120, Y: 90, VulnerabilityLevel: render.VulnerabilityHigh, HeightM: 15, TrunkWidthM: 0.8},
			"t2": {ID: "t2", X: 300, Y: 110, VulnerabilityLevel: render.VulnerabilityLow, HeightM: 6, TrunkWidthM: 0.3},
		},
		Facilities: map[string]*render.Facility{
			"f1": {ID: "f1", X: 500, Y: 600, Kind: render.FacilityShelter, NodeID: "n3", Capacity: intPtr(200), Name: "Shelter A"},
		},
		Buildings: map[string]*render.Building{
			"b1": {
				ID: "b1", X: 800, Y: 600, Kind: render.BuildingResidential,
				HeightM: 18, FloorCount: 6, FootprintAreaM2: 400,
				Population: 24, Capacity: 30,
			},
		},
	}
}

func newReadyController() (*render.MapController, *render.MemorySurface) {
	surface := render.NewMemorySurface()
	ctl := render.NewMapController()
	if err := ctl.Initialize(surface); err != nil {
		panic(err)
	}
	return ctl, surface
}
