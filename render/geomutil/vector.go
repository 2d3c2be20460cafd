package geomutil

import (
	"math"

	"git.fiblab.net/general/common/v2/geometry"
)

const (
	// 线段退化判定阈值（米）
	Epsilon = 1e-9
)

// 计算from指向to的单位方向向量
// 两点重合（零长度线段）时ok为false，调用方需要自行跳过或降级处理
func UnitDirection(from, to geometry.Point) (dir geometry.Point, ok bool) {
	dx, dy := to.X-from.X, to.Y-from.Y
	l := math.Hypot(dx, dy)
	if l < Epsilon {
		return geometry.Point{}, false
	}
	return geometry.Point{X: dx / l, Y: dy / l}, true
}

// 单位向量的左法向量（逆时针旋转90度）
func Perpendicular(dir geometry.Point) geometry.Point {
	return geometry.Point{X: -dir.Y, Y: dir.X}
}

// 线段中点
func Midpoint(a, b geometry.Point) geometry.Point {
	return geometry.Blend(a, b, 0.5)
}

// 方向向量对应的角度（度），atan2(dy, dx)
func BearingDeg(dir geometry.Point) float64 {
	return math.Atan2(dir.Y, dir.X) * 180 / math.Pi
}

// 沿方向dir平移距离d
func Offset(p, dir geometry.Point, d float64) geometry.Point {
	return geometry.Point{X: p.X + dir.X*d, Y: p.Y + dir.Y*d}
}
