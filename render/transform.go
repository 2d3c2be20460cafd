package render

import (
	"git.fiblab.net/general/common/v2/geometry"
	"github.com/paulmach/orb"
)

// 每个显示单位对应的米数，采用固定近似（约等于1度经纬度的米数）
// 不做纬度修正，只在城市尺度（数公里范围）的地图上足够准确，
// 更大范围需要真正的地理投影
const MetersPerDisplayUnit = 111000.0

// 世界坐标（米）到显示坐标的本地线性变换，以边界中心为锚点
// 可逆：FromDisplay(ToDisplay(x, y)) == (x, y)
type Transformer struct {
	center geometry.Point
	// 每米对应的显示单位数，两轴独立（允许非等比缩放）
	scaleX float64
	scaleY float64
}

func NewTransformer(b Boundary) *Transformer {
	return &Transformer{
		center: b.Center(),
		scaleX: 1 / MetersPerDisplayUnit,
		scaleY: 1 / MetersPerDisplayUnit,
	}
}

func (t *Transformer) ToDisplay(x, y float64) orb.Point {
	return orb.Point{(x - t.center.X) * t.scaleX, (y - t.center.Y) * t.scaleY}
}

func (t *Transformer) ToDisplayPoint(p geometry.Point) orb.Point {
	return t.ToDisplay(p.X, p.Y)
}

func (t *Transformer) FromDisplay(u, v float64) (x, y float64) {
	return u/t.scaleX + t.center.X, v/t.scaleY + t.center.Y
}

// 将米换算为x轴显示单位长度
func (t *Transformer) ScaleMetersX(m float64) float64 {
	return m * t.scaleX
}

// 将米换算为y轴显示单位长度
func (t *Transformer) ScaleMetersY(m float64) float64 {
	return m * t.scaleY
}
