package render

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// 沿路径放置的方向箭头目标数量
const routeGlyphTarget = 6

// 起终点标记使用固定ID，重算路径时原地替换而不是累积
const (
	waypointStartID = "waypoint_start"
	waypointEndID   = "waypoint_end"
)

// 路径叠加层构建器：灾前/灾后/备选路径折线、方向箭头与对比结果
type RouteOverlay struct {
	reg *LayerRegistry
	tf  *Transformer

	comparison *RouteComparison
}

func NewRouteOverlay(reg *LayerRegistry, tf *Transformer) *RouteOverlay {
	return &RouteOverlay{reg: reg, tf: tf}
}

// 清空路径图层并重建，起终点标记不受影响
func (r *RouteOverlay) Update(update *RouteUpdate) {
	for _, layer := range routeLayers {
		r.reg.ClearLayer(layer)
	}
	r.comparison = nil
	if update == nil {
		return
	}
	r.drawRoute(LayerRoutePre, RoutePreDisaster, update.PreDisaster)
	r.drawRoute(LayerRoutePost, RoutePostDisaster, update.PostDisaster)
	for _, alt := range update.Alternatives {
		r.drawRoute(LayerRouteAlternatives, RouteAlternative, alt)
	}
	r.comparison = CompareRoutes(update.PreDisaster, update.PostDisaster)
}

// 灾前灾后对比，仅当两者均成功时非nil
func (r *RouteOverlay) Comparison() *RouteComparison {
	return r.comparison
}

func (r *RouteOverlay) drawRoute(layer string, cat RouteCategory, route *RouteResult) {
	if route == nil || !route.Success || len(route.PathCoordinates) < 2 {
		return
	}
	line := make(orb.LineString, 0, len(route.PathCoordinates))
	for _, c := range route.PathCoordinates {
		line = append(line, r.tf.ToDisplay(c[0], c[1]))
	}
	label := fmt.Sprintf("%s route | %.0f m | %.0f s | %s",
		cat, route.TotalDistanceM, route.EstimatedTravelTimeS, route.VehicleType)
	r.reg.AddFeature(layer, NewShape(line, RouteStyle(cat), label))

	// 约6个等间隔下标处放方向箭头，朝向取局部线段方向
	interval := len(line) / routeGlyphTarget
	if interval < 1 {
		interval = 1
	}
	for i := interval; i < len(line); i += interval {
		du, dv := line[i][0]-line[i-1][0], line[i][1]-line[i-1][1]
		if du == 0 && dv == 0 {
			continue
		}
		style := routeGlyphStyle
		style.RotationDeg = math.Atan2(dv, du) * 180 / math.Pi
		r.reg.AddFeature(layer, NewShape(line[i], style, ""))
	}
}

// 起终点标记：世界坐标直接给定，与路径结果相互独立，
// 在路径重算之间保持，直到显式清除
func (r *RouteOverlay) SetStartWaypoint(x, y float64) {
	r.setWaypoint(waypointStartID, "start", x, y)
}

func (r *RouteOverlay) SetEndWaypoint(x, y float64) {
	r.setWaypoint(waypointEndID, "end", x, y)
}

func (r *RouteOverlay) setWaypoint(id, name string, x, y float64) {
	r.reg.RemoveFeature(LayerWaypoints, id)
	r.reg.AddFeature(LayerWaypoints, NewShapeWithID(
		id,
		r.tf.ToDisplay(x, y),
		waypointStyle,
		fmt.Sprintf("%s (%.1f, %.1f)", name, x, y),
	))
}

func (r *RouteOverlay) ClearWaypoints() {
	r.reg.ClearLayer(LayerWaypoints)
}
