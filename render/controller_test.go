package render_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ton731/urban-resilience-simulator/render"
)

func TestControllerRequiresInitialize(t *testing.T) {
	ctl := render.NewMapController()

	// 未初始化时所有操作都是记日志的no-op，不崩溃
	assert.NotPanics(t, func() {
		ctl.UpdateWorldData(newTestWorld())
		ctl.UpdateDisasterData(&render.DisasterResult{})
		ctl.UpdateRouteData(&render.RouteUpdate{})
		ctl.ApplyVisibility(&render.VisibilityConfig{})
		ctl.SetStartWaypoint(0, 0)
	})
	assert.Equal(t, render.StateUninitialized, ctl.State())

	_, _, ok := ctl.ClickToWorld(0, 0)
	assert.False(t, ok)
}

func TestControllerWorldUpdate(t *testing.T) {
	ctl, surface := newReadyController()
	ctl.UpdateWorldData(newTestWorld())

	assert.Equal(t, 1, surface.ShapeCount(render.LayerRoadsMain))
	assert.Equal(t, 2, surface.ShapeCount(render.LayerRoadsSecondary)) // 多边形+单行箭头
	assert.Equal(t, 3, surface.ShapeCount(render.LayerNodes))
	assert.Equal(t, 1, surface.ShapeCount(render.LayerTreesHigh))
	assert.Equal(t, 1, surface.ShapeCount(render.LayerTreesLow))
	assert.Equal(t, 2, surface.ShapeCount(render.LayerFacilitiesShelter)) // 标记+容量角标
	assert.Equal(t, 3, surface.ShapeCount(render.LayerBuildingsResidential))

	// 视口适配到边界
	bound, padding, ok := surface.Bound()
	require.True(t, ok)
	assert.Greater(t, padding, 0.0)
	tf := render.NewTransformer(newTestWorld().Boundary)
	assert.Equal(t, tf.ToDisplay(0, 0), bound.Min)
	assert.Equal(t, tf.ToDisplay(1000, 1000), bound.Max)
}

func TestControllerMissingNodeTolerance(t *testing.T) {
	ctl, surface := newReadyController()
	world := newTestWorld()
	world.Segments["broken"] = &render.RoadSegment{
		ID: "broken", FromNode: "n1", ToNode: "ghost",
		Class: render.RoadMain, WidthM: 8, Bidirectional: true,
	}
	ctl.UpdateWorldData(world)

	// 损坏的路段被跳过，其余N-1条照常渲染
	assert.Equal(t, 1, surface.ShapeCount(render.LayerRoadsMain))
	assert.Equal(t, 2, surface.ShapeCount(render.LayerRoadsSecondary))
}

func TestControllerWorldRebuildClearsOldFeatures(t *testing.T) {
	ctl, surface := newReadyController()
	ctl.UpdateWorldData(newTestWorld())
	first := surface.ShapeCount(render.LayerNodes)

	ctl.UpdateWorldData(newTestWorld())
	assert.Equal(t, first, surface.ShapeCount(render.LayerNodes))
}

func TestControllerDisasterBeforeWorldDeferred(t *testing.T) {
	ctl, surface := newReadyController()

	ctl.UpdateDisasterData(&render.DisasterResult{Events: []*render.DisasterEvent{
		{TreeID: "t1", Location: [2]float64{100, 100}, TreeHeightM: 10},
	}})
	assert.Equal(t, 0, surface.ShapeCount(render.LayerFallenTrees))

	// 世界数据就绪后补画
	ctl.UpdateWorldData(newTestWorld())
	assert.Equal(t, 2, surface.ShapeCount(render.LayerFallenTrees))
}

func TestControllerRouteAndDisasterTouchOwnLayersOnly(t *testing.T) {
	ctl, surface := newReadyController()
	ctl.UpdateWorldData(newTestWorld())
	nodeCount := surface.ShapeCount(render.LayerNodes)

	ctl.UpdateDisasterData(&render.DisasterResult{Events: []*render.DisasterEvent{
		{TreeID: "t1", Location: [2]float64{100, 100}, TreeHeightM: 10},
	}})
	ctl.UpdateRouteData(&render.RouteUpdate{PreDisaster: straightRoute(4, 100, 10)})

	assert.Equal(t, nodeCount, surface.ShapeCount(render.LayerNodes))
	assert.Greater(t, surface.ShapeCount(render.LayerFallenTrees), 0)
	assert.Greater(t, surface.ShapeCount(render.LayerRoutePre), 0)
}

func TestControllerVisibilityResolution(t *testing.T) {
	ctl, surface := newReadyController()
	ctl.UpdateWorldData(newTestWorld())

	ctl.ApplyVisibility(&render.VisibilityConfig{
		Trees:     map[render.VulnerabilityLevel]bool{render.VulnerabilityHigh: false},
		Buildings: map[render.BuildingKind]bool{render.BuildingResidential: false},
		Nodes:     boolPtr(false),
	})
	assert.False(t, surface.GroupVisible(render.LayerTreesHigh))
	assert.True(t, surface.GroupVisible(render.LayerTreesLow))
	assert.False(t, surface.GroupVisible(render.LayerBuildingsResidential))
	assert.False(t, surface.GroupVisible(render.LayerNodes))

	// nil字段维持现状
	ctl.ApplyVisibility(&render.VisibilityConfig{})
	assert.False(t, surface.GroupVisible(render.LayerNodes))
}

func TestControllerWaypointSelection(t *testing.T) {
	ctl, surface := newReadyController()
	ctl.UpdateWorldData(newTestWorld())

	var gotX, gotY float64
	ctl.BeginWaypointSelection(func(x, y float64) { gotX, gotY = x, y })
	require.True(t, surface.HasClickHandler())

	// 点击显示坐标译回世界坐标
	tf := render.NewTransformer(newTestWorld().Boundary)
	surface.Click(tf.ToDisplay(123, 456))
	assert.InDelta(t, 123.0, gotX, 1e-9)
	assert.InDelta(t, 456.0, gotY, 1e-9)

	ctl.EndWaypointSelection()
	assert.False(t, surface.HasClickHandler())
}

func TestControllerClickToWorld(t *testing.T) {
	ctl, _ := newReadyController()
	ctl.UpdateWorldData(newTestWorld())

	tf := render.NewTransformer(newTestWorld().Boundary)
	p := tf.ToDisplay(321, 654)
	x, y, ok := ctl.ClickToWorld(p[0], p[1])
	require.True(t, ok)
	assert.InDelta(t, 321.0, x, 1e-9)
	assert.InDelta(t, 654.0, y, 1e-9)
}

func TestControllerWaypointsSurviveWorldUpdate(t *testing.T) {
	ctl, surface := newReadyController()
	ctl.UpdateWorldData(newTestWorld())
	ctl.SetStartWaypoint(100, 100)
	ctl.SetEndWaypoint(900, 900)

	ctl.UpdateWorldData(newTestWorld())
	assert.Equal(t, 2, surface.ShapeCount(render.LayerWaypoints))
}

func TestControllerDestroyIdempotent(t *testing.T) {
	ctl, surface := newReadyController()
	ctl.UpdateWorldData(newTestWorld())

	ctl.Destroy()
	assert.Equal(t, render.StateDestroyed, ctl.State())
	assert.Equal(t, 0, surface.ShapeCount(render.LayerNodes))

	// 幂等
	assert.NotPanics(t, func() { ctl.Destroy() })

	// 终态：不可再初始化
	assert.ErrorIs(t, ctl.Initialize(surface), render.ErrDestroyed)

	// 销毁后的操作被忽略
	ctl.UpdateWorldData(newTestWorld())
	assert.Equal(t, 0, surface.ShapeCount(render.LayerNodes))
}

func TestControllerInvalidBoundaryIgnored(t *testing.T) {
	ctl, surface := newReadyController()
	world := newTestWorld()
	world.Boundary = render.Boundary{MinX: 100, MaxX: 0, MinY: 0, MaxY: 100}
	ctl.UpdateWorldData(world)
	assert.Equal(t, 0, surface.ShapeCount(render.LayerNodes))

	var zero orb.Bound
	bound, _, ok := surface.Bound()
	assert.False(t, ok)
	assert.Equal(t, zero, bound)
}
