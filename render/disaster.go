package render

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// 灾害叠加层构建器：倒树主干/树冠与阻塞多边形
// 每次Update等价于先整体清空再重建，调用间不残留旧结果
type DisasterOverlay struct {
	reg *LayerRegistry
	tf  *Transformer
}

func NewDisasterOverlay(reg *LayerRegistry, tf *Transformer) *DisasterOverlay {
	return &DisasterOverlay{reg: reg, tf: tf}
}

func (d *DisasterOverlay) Clear() {
	for _, layer := range disasterLayers {
		d.reg.ClearLayer(layer)
	}
}

func (d *DisasterOverlay) Update(result *DisasterResult) {
	d.Clear()
	if result == nil {
		return
	}
	for _, ev := range result.Events {
		d.buildEvent(ev)
	}
	for _, ob := range result.Obstructions {
		d.buildObstruction(ob)
	}
	log.Debugf("disaster overlay rebuilt: %d events, %d obstructions",
		len(result.Events), len(result.Obstructions))
}

// 倒下的主干建模为从基部出发、长度等于树高的线段，
// 方向为相对正北（+Y）顺时针collapse_angle度：
// end = base + h * (sin θ, cos θ)
// 树冠画在主干末端，真实半径max(2, 0.4*h)米
func (d *DisasterOverlay) buildEvent(ev *DisasterEvent) {
	base := ev.Location
	rad := ev.CollapseAngleDeg * math.Pi / 180
	endX := base[0] + ev.TreeHeightM*math.Sin(rad)
	endY := base[1] + ev.TreeHeightM*math.Cos(rad)

	trunk := orb.LineString{
		d.tf.ToDisplay(base[0], base[1]),
		d.tf.ToDisplay(endX, endY),
	}
	label := fmt.Sprintf("fallen tree %s | level %s | %.1f m | severity %.2f",
		ev.TreeID, ev.VulnerabilityLevel, ev.TreeHeightM, ev.Severity)
	d.reg.AddFeature(LayerFallenTrees, NewShape(trunk, fallenTrunkStyle, label))

	crownStyle := fallenCrownStyle
	crownStyle.Radius = d.tf.ScaleMetersX(math.Max(2, 0.4*ev.TreeHeightM))
	d.reg.AddFeature(LayerFallenTrees,
		NewShape(d.tf.ToDisplay(endX, endY), crownStyle, label))

	// 阻塞多边形画在独立子图层上，可与主干/树冠分开开关
	if len(ev.BlockagePolygon) >= 3 {
		poly := d.polygon(ev.BlockagePolygon)
		d.reg.AddFeature(LayerTreeBlockages,
			NewShape(poly, blockageStyle, fmt.Sprintf("blockage by tree %s", ev.TreeID)))
	}
}

func (d *DisasterOverlay) buildObstruction(ob *RoadObstruction) {
	if len(ob.ObstructionPolygon) < 3 {
		return
	}
	label := fmt.Sprintf("road %s obstructed | remaining %.1f m | %.0f%% blocked | event %s",
		ob.RoadEdgeID, ob.RemainingWidthM, ob.BlockedPercentage, ob.CausedByEvent)
	d.reg.AddFeature(LayerRoadObstructions,
		NewShape(d.polygon(ob.ObstructionPolygon), obstructionStyle, label))
}

func (d *DisasterOverlay) polygon(coords [][2]float64) orb.Polygon {
	ring := make(orb.Ring, 0, len(coords)+1)
	for _, c := range coords {
		ring = append(ring, d.tf.ToDisplay(c[0], c[1]))
	}
	// 闭合
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return orb.Polygon{ring}
}
