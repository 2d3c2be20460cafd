package render_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ton731/urban-resilience-simulator/render"
)

func displayDist(a, b orb.Point) float64 {
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}

func roadRing(t *testing.T, s render.Shape) orb.Ring {
	poly, ok := s.Geometry.(orb.Polygon)
	require.True(t, ok)
	require.Len(t, poly[0], 5)
	return poly[0]
}

func TestBuildRoadPolygonWidth(t *testing.T) {
	world := newTestWorld()
	tf := render.NewTransformer(world.Boundary)

	// 不同朝向下，长边间垂直距离都等于换算后的width
	for _, seg := range world.Segments {
		shapes, err := render.BuildRoad(tf, seg, world.Nodes)
		require.NoError(t, err)
		ring := roadRing(t, shapes[0])
		want := tf.ScaleMetersX(seg.WidthM)
		assert.InDelta(t, want, displayDist(ring[0], ring[3]), want*1e-9)
		assert.InDelta(t, want, displayDist(ring[1], ring[2]), want*1e-9)
	}

	// 斜向路段
	nodes := map[string]*render.Node{
		"a": {ID: "a", X: 0, Y: 0},
		"b": {ID: "b", X: 300, Y: 400},
	}
	seg := &render.RoadSegment{ID: "diag", FromNode: "a", ToNode: "b", Class: render.RoadMain, WidthM: 10, Bidirectional: true}
	shapes, err := render.BuildRoad(tf, seg, nodes)
	require.NoError(t, err)
	ring := roadRing(t, shapes[0])
	want := tf.ScaleMetersX(10)
	assert.InDelta(t, want, displayDist(ring[0], ring[3]), want*1e-9)
}

func TestBuildRoadOneWayGlyph(t *testing.T) {
	world := newTestWorld()
	tf := render.NewTransformer(world.Boundary)

	// 双向路段只有多边形
	shapes, err := render.BuildRoad(tf, world.Segments["e1"], world.Nodes)
	assert.NoError(t, err)
	assert.Len(t, shapes, 1)

	// 单行道在中点多一个方向箭头
	shapes, err = render.BuildRoad(tf, world.Segments["e2"], world.Nodes)
	assert.NoError(t, err)
	assert.Len(t, shapes, 2)
	glyph := shapes[1]
	assert.Equal(t, "arrow", glyph.Style.Icon)
	mid, ok := glyph.Geometry.(orb.Point)
	assert.True(t, ok)
	want := tf.ToDisplay(500, 350) // n2与n3的中点
	assert.InDelta(t, want[0], mid[0], 1e-12)
	assert.InDelta(t, want[1], mid[1], 1e-12)
	// e2竖直向上（+Y），显示角度90度
	assert.InDelta(t, 90.0, glyph.Style.RotationDeg, 1e-9)
}

func TestBuildRoadMissingNode(t *testing.T) {
	world := newTestWorld()
	tf := render.NewTransformer(world.Boundary)
	seg := &render.RoadSegment{ID: "bad", FromNode: "n1", ToNode: "ghost", Class: render.RoadMain, WidthM: 8}
	_, err := render.BuildRoad(tf, seg, world.Nodes)
	assert.ErrorIs(t, err, render.ErrMissingNode)
}

func TestBuildRoadDegenerate(t *testing.T) {
	tf := render.NewTransformer(render.Boundary{MinX: 0, MaxX: 100, MinY: 0, MaxY: 100})
	nodes := map[string]*render.Node{
		"a": {ID: "a", X: 50, Y: 50},
		"b": {ID: "b", X: 50, Y: 50}, // 与a重合
	}
	seg := &render.RoadSegment{ID: "zero", FromNode: "a", ToNode: "b", Class: render.RoadMain, WidthM: 8}
	_, err := render.BuildRoad(tf, seg, nodes)
	assert.ErrorIs(t, err, render.ErrDegenerateSegment)
}

func TestBuildTreeRadiusClamp(t *testing.T) {
	tf := render.NewTransformer(render.Boundary{MinX: 0, MaxX: 100, MinY: 0, MaxY: 100})

	tiny := render.BuildTree(tf, &render.Tree{ID: "t", HeightM: 1, VulnerabilityLevel: render.VulnerabilityLow})
	huge := render.BuildTree(tf, &render.Tree{ID: "t", HeightM: 100, VulnerabilityLevel: render.VulnerabilityLow})
	assert.InDelta(t, tf.ScaleMetersX(1.5), tiny.Style.Radius, 1e-15)
	assert.InDelta(t, tf.ScaleMetersX(8.0), huge.Style.Radius, 1e-15)
}

func TestBuildTreeUnknownLevelFallsBack(t *testing.T) {
	tf := render.NewTransformer(render.Boundary{MinX: 0, MaxX: 100, MinY: 0, MaxY: 100})
	s := render.BuildTree(tf, &render.Tree{ID: "t", HeightM: 10, VulnerabilityLevel: "IV"})
	assert.Equal(t, render.TreeStyle(render.VulnerabilityLow).Color, s.Style.Color)
}

func TestBuildFacilityCapacityBadge(t *testing.T) {
	tf := render.NewTransformer(render.Boundary{MinX: 0, MaxX: 100, MinY: 0, MaxY: 100})

	withCap := render.BuildFacility(tf, &render.Facility{ID: "f", Kind: render.FacilityShelter, Capacity: intPtr(100)})
	assert.Len(t, withCap, 2)
	assert.Equal(t, "badge", withCap[1].Style.Icon)

	// 容量缺省：没有角标，也不报错
	noCap := render.BuildFacility(tf, &render.Facility{ID: "f", Kind: render.FacilityAmbulanceStation})
	assert.Len(t, noCap, 1)
}

func TestBuildBuildingFootprint(t *testing.T) {
	world := newTestWorld()
	tf := render.NewTransformer(world.Boundary)

	// footprint_area=400平方米时边长20米
	shapes := render.BuildBuilding(tf, world.Buildings["b1"])
	ring := roadRing(t, shapes[0])
	side := tf.ScaleMetersX(20)
	assert.InDelta(t, side, displayDist(ring[0], ring[1]), side*1e-9)
	assert.InDelta(t, side, displayDist(ring[1], ring[2]), side*1e-9)
}

func TestBuildBuildingBadgesAndIcon(t *testing.T) {
	tf := render.NewTransformer(render.Boundary{MinX: 0, MaxX: 100, MinY: 0, MaxY: 100})

	// 大建筑有人口角标和类型图标
	big := render.BuildBuilding(tf, &render.Building{
		ID: "b", Kind: render.BuildingCommercial, FootprintAreaM2: 400, Population: 10, Capacity: 20,
	})
	assert.Len(t, big, 3)

	// 边长低于可读阈值：只保留轮廓与角标
	small := render.BuildBuilding(tf, &render.Building{
		ID: "b", Kind: render.BuildingCommercial, FootprintAreaM2: 36, Population: 10, Capacity: 20,
	})
	assert.Len(t, small, 2)

	// 人口为0：不出现人口角标
	empty := render.BuildBuilding(tf, &render.Building{
		ID: "b", Kind: render.BuildingCommercial, FootprintAreaM2: 36,
	})
	assert.Len(t, empty, 1)
}
