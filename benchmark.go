package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ton731/urban-resilience-simulator/render"
)

var (
	benchmarkCount = flag.Int("benchmark.count", 100, "the scene rebuild count for benchmark")
	benchmarkNodes = flag.Int("benchmark.nodes", 1000, "the node count of the generated world")
	benchmarkSeed  = flag.Int64("benchmark.seed", 0, "the seed for benchmark")
)

// 生成一个随机世界快照：网格路网加随机树木与建筑
func randomWorld(e *rand.Rand, n int) *render.WorldData {
	side := 1
	for side*side < n {
		side++
	}
	spacing := 200.0
	extent := float64(side-1) * spacing
	world := &render.WorldData{
		Boundary:   render.Boundary{MinX: 0, MinY: 0, MaxX: extent, MaxY: extent},
		Nodes:      make(map[string]*render.Node),
		Segments:   make(map[string]*render.RoadSegment),
		Trees:      make(map[string]*render.Tree),
		Facilities: make(map[string]*render.Facility),
		Buildings:  make(map[string]*render.Building),
	}
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			id := fmt.Sprintf("n_%d_%d", i, j)
			world.Nodes[id] = &render.Node{
				ID:   id,
				X:    float64(i) * spacing,
				Y:    float64(j) * spacing,
				Kind: render.NodeIntersection,
			}
			if i > 0 {
				eid := fmt.Sprintf("e_h_%d_%d", i, j)
				world.Segments[eid] = &render.RoadSegment{
					ID:            eid,
					FromNode:      fmt.Sprintf("n_%d_%d", i-1, j),
					ToNode:        id,
					Class:         render.RoadMain,
					WidthM:        8,
					LaneCount:     2,
					SpeedLimitKmh: 50,
					Bidirectional: true,
				}
			}
			if j > 0 {
				eid := fmt.Sprintf("e_v_%d_%d", i, j)
				world.Segments[eid] = &render.RoadSegment{
					ID:            eid,
					FromNode:      fmt.Sprintf("n_%d_%d", i, j-1),
					ToNode:        id,
					Class:         render.RoadSecondary,
					WidthM:        6,
					LaneCount:     1,
					SpeedLimitKmh: 30,
					Bidirectional: e.Float64() < 0.5,
				}
			}
		}
	}
	levels := []render.VulnerabilityLevel{
		render.VulnerabilityLow, render.VulnerabilityMedium, render.VulnerabilityHigh,
	}
	for i := 0; i < n; i++ {
		tid := fmt.Sprintf("t_%d", i)
		world.Trees[tid] = &render.Tree{
			ID:                 tid,
			X:                  e.Float64() * extent,
			Y:                  e.Float64() * extent,
			VulnerabilityLevel: levels[e.Intn(len(levels))],
			HeightM:            5 + e.Float64()*15,
			TrunkWidthM:        0.2 + e.Float64()*0.6,
		}
		bid := fmt.Sprintf("b_%d", i)
		world.Buildings[bid] = &render.Building{
			ID:              bid,
			X:               e.Float64() * extent,
			Y:               e.Float64() * extent,
			Kind:            render.BuildingResidential,
			HeightM:         10 + e.Float64()*40,
			FloorCount:      3 + e.Intn(10),
			FootprintAreaM2: 100 + e.Float64()*900,
			Population:      e.Intn(200),
			Capacity:        200,
		}
	}
	return world
}

// 随机挑选一部分树生成倒树结果
func randomDisaster(e *rand.Rand, world *render.WorldData) *render.DisasterResult {
	result := &render.DisasterResult{}
	for id, tree := range world.Trees {
		if e.Float64() > 0.1 {
			continue
		}
		result.Events = append(result.Events, &render.DisasterEvent{
			TreeID:             id,
			Location:           [2]float64{tree.X, tree.Y},
			CollapseAngleDeg:   e.Float64() * 360,
			TreeHeightM:        tree.HeightM,
			TrunkWidthM:        tree.TrunkWidthM,
			VulnerabilityLevel: tree.VulnerabilityLevel,
			Severity:           e.Float64(),
		})
	}
	return result
}

func runBenchmark(server *RenderServer) {
	log.Logger.SetLevel(logrus.WarnLevel)
	// 设置随机种子
	e := rand.New(rand.NewSource(*benchmarkSeed))
	world := randomWorld(e, *benchmarkNodes)
	disaster := randomDisaster(e, world)

	// 开始benchmark
	start := time.Now()
	for i := 0; i < *benchmarkCount; i++ {
		server.ctl.UpdateWorldData(world)
		server.ctl.UpdateDisasterData(disaster)
	}
	timeCost := time.Since(start)
	log.Error(
		"benchmark finished", "\n",
		"count:", *benchmarkCount, "\n",
		"shapes:", server.surface.TotalShapeCount(), "\n",
		"time:", timeCost, "\n",
		"avg:", timeCost/time.Duration(*benchmarkCount), "\n",
	)
}
