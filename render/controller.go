package render

import (
	"errors"

	"github.com/paulmach/orb"
)

// 生命周期状态
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateDestroyed // 终态
)

var ErrDestroyed = errors.New("map controller already destroyed")

// 地图生命周期控制器：顶层编排者
// 外部状态变化（新世界数据、新灾害结果、新路径结果、可见性开关）
// 单向流入此处，由它清空并重建受影响的图层
// 所有公开操作同步执行，调用方负责不并发调用（见服务端的串行化）
type MapController struct {
	state   State
	surface Surface

	tf       *Transformer
	reg      *LayerRegistry
	viewport *Viewport
	disaster *DisasterOverlay
	routes   *RouteOverlay

	world        *WorldData
	disasterData *DisasterResult
	routeData    *RouteUpdate

	// 已设置的起终点世界坐标，跨世界数据更新保持
	startWaypoint *[2]float64
	endWaypoint   *[2]float64
}

func NewMapController() *MapController {
	return &MapController{state: StateUninitialized}
}

// 必须先于其他操作调用；重复初始化是带警告的no-op
func (c *MapController) Initialize(surface Surface) error {
	switch c.state {
	case StateDestroyed:
		return ErrDestroyed
	case StateReady:
		log.Warnf("map controller already initialized")
		return nil
	}
	c.surface = surface
	c.reg = NewLayerRegistry(surface)
	c.state = StateReady
	log.Infof("map controller initialized with %d layers", len(LayerCatalog()))
	return nil
}

func (c *MapController) State() State {
	return c.state
}

// 未就绪时记录并忽略操作（配置类错误，非致命）
func (c *MapController) ready(op string) bool {
	if c.state != StateReady {
		log.Warnf("%s called while controller not ready, ignored", op)
		return false
	}
	return true
}

// 清空并重建所有世界数据派生图层（道路、节点、树、设施、建筑），
// 并将视口调整到新边界；灾害/路径叠加层用新的坐标变换重建
func (c *MapController) UpdateWorldData(world *WorldData) {
	if !c.ready("UpdateWorldData") {
		return
	}
	if world == nil || !world.Boundary.Valid() {
		log.Warnf("invalid world data, update ignored")
		return
	}
	c.world = world
	c.tf = NewTransformer(world.Boundary)
	c.viewport = NewViewport(c.surface, c.tf)
	c.disaster = NewDisasterOverlay(c.reg, c.tf)
	c.routes = NewRouteOverlay(c.reg, c.tf)

	for _, layer := range worldLayers {
		c.reg.ClearLayer(layer)
	}
	c.buildWorldLayers(world)
	c.viewport.FitToBoundary(world.Boundary)

	// 坐标锚点变化，已有的灾害/路径/起终点结果按新变换重放
	if c.disasterData != nil {
		c.disaster.Update(c.disasterData)
	}
	if c.routeData != nil {
		c.routes.Update(c.routeData)
	}
	c.replayWaypoints()
}

func (c *MapController) buildWorldLayers(world *WorldData) {
	skipped := 0
	for _, seg := range world.Segments {
		shapes, err := BuildRoad(c.tf, seg, world.Nodes)
		if err != nil {
			// 引用缺失或退化的路段跳过，其余照常渲染
			log.Warnf("skip road segment: %v", err)
			skipped++
			continue
		}
		c.reg.AddFeatures(RoadLayer(seg.Class), shapes)
	}
	for _, n := range world.Nodes {
		c.reg.AddFeature(LayerNodes, BuildNode(c.tf, n))
	}
	for _, t := range world.Trees {
		c.reg.AddFeature(TreeLayer(t.VulnerabilityLevel), BuildTree(c.tf, t))
	}
	for _, f := range world.Facilities {
		c.reg.AddFeatures(FacilityLayer(f.Kind), BuildFacility(c.tf, f))
	}
	for _, b := range world.Buildings {
		c.reg.AddFeatures(BuildingLayer(b.Kind), BuildBuilding(c.tf, b))
	}
	log.Infof("world layers rebuilt: %d nodes, %d segments (%d skipped), %d trees, %d facilities, %d buildings",
		len(world.Nodes), len(world.Segments), skipped,
		len(world.Trees), len(world.Facilities), len(world.Buildings))
}

// 只触碰灾害子图层
func (c *MapController) UpdateDisasterData(result *DisasterResult) {
	if !c.ready("UpdateDisasterData") {
		return
	}
	c.disasterData = result
	if c.disaster == nil {
		log.Warnf("disaster data received before world data, deferred")
		return
	}
	c.disaster.Update(result)
}

// 只触碰路径子图层（起终点标记除外，它们独立管理）
func (c *MapController) UpdateRouteData(update *RouteUpdate) {
	if !c.ready("UpdateRouteData") {
		return
	}
	c.routeData = update
	if c.routes == nil {
		log.Warnf("route data received before world data, deferred")
		return
	}
	c.routes.Update(update)
}

// 将可见性配置解析为具体图层并应用，nil字段维持现状
func (c *MapController) ApplyVisibility(v *VisibilityConfig) {
	if !c.ready("ApplyVisibility") || v == nil {
		return
	}
	for class, visible := range v.Roads {
		c.reg.SetVisible(RoadLayer(class), visible)
	}
	if v.Nodes != nil {
		c.reg.SetVisible(LayerNodes, *v.Nodes)
	}
	for level, visible := range v.Trees {
		c.reg.SetVisible(TreeLayer(level), visible)
	}
	for kind, visible := range v.Facilities {
		c.reg.SetVisible(FacilityLayer(kind), visible)
	}
	for kind, visible := range v.Buildings {
		c.reg.SetVisible(BuildingLayer(kind), visible)
	}
	setIf := func(layer string, flag *bool) {
		if flag != nil {
			c.reg.SetVisible(layer, *flag)
		}
	}
	setIf(LayerFallenTrees, v.FallenTrees)
	setIf(LayerTreeBlockages, v.TreeBlockages)
	setIf(LayerRoadObstructions, v.RoadObstructions)
	setIf(LayerRoutePre, v.PreRoute)
	setIf(LayerRoutePost, v.PostRoute)
	setIf(LayerRouteAlternatives, v.AlternativeRoutes)
	setIf(LayerWaypoints, v.Waypoints)
}

// 起终点标记：世界坐标独立于路径结果，跨路径重算保持
func (c *MapController) SetStartWaypoint(x, y float64) {
	if !c.ready("SetStartWaypoint") || c.routes == nil {
		return
	}
	c.startWaypoint = &[2]float64{x, y}
	c.routes.SetStartWaypoint(x, y)
}

func (c *MapController) SetEndWaypoint(x, y float64) {
	if !c.ready("SetEndWaypoint") || c.routes == nil {
		return
	}
	c.endWaypoint = &[2]float64{x, y}
	c.routes.SetEndWaypoint(x, y)
}

func (c *MapController) ClearWaypoints() {
	if !c.ready("ClearWaypoints") || c.routes == nil {
		return
	}
	c.startWaypoint, c.endWaypoint = nil, nil
	c.routes.ClearWaypoints()
}

func (c *MapController) replayWaypoints() {
	if c.startWaypoint != nil {
		c.routes.SetStartWaypoint(c.startWaypoint[0], c.startWaypoint[1])
	}
	if c.endWaypoint != nil {
		c.routes.SetEndWaypoint(c.endWaypoint[0], c.endWaypoint[1])
	}
}

// 进入选点模式：注册唯一的点击回调，把显示坐标译回世界坐标
func (c *MapController) BeginWaypointSelection(cb func(x, y float64)) {
	if !c.ready("BeginWaypointSelection") || c.tf == nil {
		return
	}
	tf := c.tf
	c.surface.RegisterClickHandler(func(p orb.Point) {
		x, y := tf.FromDisplay(p[0], p[1])
		cb(x, y)
	})
}

// 退出选点模式，移除点击回调
func (c *MapController) EndWaypointSelection() {
	if !c.ready("EndWaypointSelection") {
		return
	}
	c.surface.RegisterClickHandler(nil)
}

// 显示坐标译回世界坐标（指针点击->世界空间）
func (c *MapController) ClickToWorld(u, v float64) (x, y float64, ok bool) {
	if c.state != StateReady || c.tf == nil {
		return 0, 0, false
	}
	x, y = c.tf.FromDisplay(u, v)
	return x, y, true
}

func (c *MapController) Stats() *SummaryStats {
	var cmp *RouteComparison
	if c.routes != nil {
		cmp = c.routes.Comparison()
	}
	return ComputeStats(c.world, c.disasterData, cmp)
}

func (c *MapController) RouteComparison() *RouteComparison {
	if c.routes == nil {
		return nil
	}
	return c.routes.Comparison()
}

// 释放全部绘制资源，幂等
func (c *MapController) Destroy() {
	if c.state == StateDestroyed {
		return
	}
	if c.state == StateReady {
		c.surface.RegisterClickHandler(nil)
		c.reg.ClearAll()
	}
	c.world, c.disasterData, c.routeData = nil, nil, nil
	c.startWaypoint, c.endWaypoint = nil, nil
	c.state = StateDestroyed
	log.Infof("map controller destroyed")
}
