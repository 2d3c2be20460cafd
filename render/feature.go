package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/samber/lo"
	"github.com/ton731/urban-resilience-simulator/render/geomutil"
)

var (
	// 道路段引用了不存在的节点
	ErrMissingNode = errors.New("road segment references missing node")
	// 道路段首尾节点重合，无法计算法向量
	ErrDegenerateSegment = errors.New("road segment has coincident endpoints")
)

const (
	// 树冠渲染半径范围（米），按树高缩放后截断
	treeRadiusMinM = 1.5
	treeRadiusMaxM = 8.0
	treeRadiusPerHeight = 0.35

	// 建筑边长低于该值（米）时不再绘制类型图标，只保留轮廓
	buildingIconMinSideM = 8.0
)

// 道路段转为带宽度的四边形多边形（首点重复一次闭合），
// 单行道在中点额外给出一个沿路段方向的箭头标记
func BuildRoad(tf *Transformer, seg *RoadSegment, nodes map[string]*Node) ([]Shape, error) {
	from, ok := nodes[seg.FromNode]
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrMissingNode, seg.ID, seg.FromNode)
	}
	to, ok := nodes[seg.ToNode]
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrMissingNode, seg.ID, seg.ToNode)
	}
	dir, ok := geomutil.UnitDirection(from.Point(), to.Point())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDegenerateSegment, seg.ID)
	}
	normal := geomutil.Perpendicular(dir)
	half := seg.WidthM / 2
	// 世界坐标下的四个角点
	c1 := geomutil.Offset(from.Point(), normal, half)
	c2 := geomutil.Offset(to.Point(), normal, half)
	c3 := geomutil.Offset(to.Point(), normal, -half)
	c4 := geomutil.Offset(from.Point(), normal, -half)
	ring := orb.Ring{
		tf.ToDisplayPoint(c1),
		tf.ToDisplayPoint(c2),
		tf.ToDisplayPoint(c3),
		tf.ToDisplayPoint(c4),
		tf.ToDisplayPoint(c1),
	}
	label := fmt.Sprintf("%s road %s | %d lanes | %.0f km/h",
		seg.Class, seg.ID, seg.LaneCount, seg.SpeedLimitKmh)
	shapes := []Shape{NewShape(orb.Polygon{ring}, RoadStyle(seg.Class), label)}

	if !seg.Bidirectional {
		mid := tf.ToDisplayPoint(geomutil.Midpoint(from.Point(), to.Point()))
		a := tf.ToDisplayPoint(from.Point())
		b := tf.ToDisplayPoint(to.Point())
		style := oneWayGlyphStyle
		// 显示坐标下的路段角度
		style.RotationDeg = math.Atan2(b[1]-a[1], b[0]-a[0]) * 180 / math.Pi
		shapes = append(shapes, NewShape(mid, style, fmt.Sprintf("one-way %s", seg.ID)))
	}
	return shapes, nil
}

// 路网节点的小圆点标记
func BuildNode(tf *Transformer, n *Node) Shape {
	style := nodeStyle
	style.Radius = tf.ScaleMetersX(2)
	return NewShape(tf.ToDisplay(n.X, n.Y), style, fmt.Sprintf("%s %s", n.Kind, n.ID))
}

// 树以圆标记渲染，半径随树高缩放并截断到合理范围，
// 颜色由脆弱度决定，未知等级回退到最低风险样式
func BuildTree(tf *Transformer, t *Tree) Shape {
	radiusM := lo.Clamp(t.HeightM*treeRadiusPerHeight, treeRadiusMinM, treeRadiusMaxM)
	style := TreeStyle(t.VulnerabilityLevel)
	style.Radius = tf.ScaleMetersX(radiusM)
	label := fmt.Sprintf("tree %s | level %s | %.1f m",
		t.ID, t.VulnerabilityLevel, t.HeightM)
	return NewShape(tf.ToDisplay(t.X, t.Y), style, label)
}

// 设施标记，有容量时附加一个容量角标
func BuildFacility(tf *Transformer, f *Facility) []Shape {
	name := f.Name
	if name == "" {
		name = f.ID
	}
	label := fmt.Sprintf("%s %s", f.Kind, name)
	shapes := []Shape{NewShape(tf.ToDisplay(f.X, f.Y), FacilityStyle(f.Kind), label)}
	if f.Capacity != nil {
		badge := NewShape(
			tf.ToDisplay(f.X, f.Y),
			capacityBadgeStyle,
			fmt.Sprintf("capacity %d", *f.Capacity),
		)
		shapes = append(shapes, badge)
	}
	return shapes
}

// 建筑轮廓为以(x, y)为中心、边长sqrt(footprint_area)的正方形，
// 两轴独立换算显示单位；人口角标仅在population>0时出现，
// 类型图标仅在边长达到可读阈值时出现
func BuildBuilding(tf *Transformer, b *Building) []Shape {
	side := math.Sqrt(b.FootprintAreaM2)
	halfU := tf.ScaleMetersX(side / 2)
	halfV := tf.ScaleMetersY(side / 2)
	center := tf.ToDisplay(b.X, b.Y)
	ring := orb.Ring{
		{center[0] - halfU, center[1] - halfV},
		{center[0] + halfU, center[1] - halfV},
		{center[0] + halfU, center[1] + halfV},
		{center[0] - halfU, center[1] + halfV},
		{center[0] - halfU, center[1] - halfV},
	}
	label := fmt.Sprintf("%s building %s | %d floors | %d/%d",
		b.Kind, b.ID, b.FloorCount, b.Population, b.Capacity)
	shapes := []Shape{NewShape(orb.Polygon{ring}, BuildingStyle(b.Kind), label)}

	if b.Population > 0 {
		badge := NewShape(center, populationBadgeStyle, fmt.Sprintf("population %d", b.Population))
		shapes = append(shapes, badge)
	}
	if side >= buildingIconMinSideM {
		style := BuildingStyle(b.Kind)
		style.Icon = string(b.Kind)
		shapes = append(shapes, NewShape(center, style, string(b.Kind)))
	}
	return shapes
}
