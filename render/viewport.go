package render

import "github.com/paulmach/orb"

// FitBounds使用的相对边距比例
const viewportPadding = 0.05

// 视口控制：将可视范围调整到覆盖整个地图边界
type Viewport struct {
	surface Surface
	tf      *Transformer
}

func NewViewport(surface Surface, tf *Transformer) *Viewport {
	return &Viewport{surface: surface, tf: tf}
}

// 变换边界的四个角点后请求绘制后端覆盖它们（带固定边距）
func (v *Viewport) FitToBoundary(b Boundary) {
	corners := orb.MultiPoint{
		v.tf.ToDisplay(b.MinX, b.MinY),
		v.tf.ToDisplay(b.MaxX, b.MinY),
		v.tf.ToDisplay(b.MaxX, b.MaxY),
		v.tf.ToDisplay(b.MinX, b.MaxY),
	}
	v.surface.FitBounds(corners.Bound(), viewportPadding)
}
