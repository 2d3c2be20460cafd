package render

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// 固定图层目录，初始化时一次性建立
const (
	LayerRoadsMain     = "roads_main"
	LayerRoadsSecondary = "roads_secondary"
	LayerNodes         = "nodes"

	LayerTreesHigh   = "trees_level_I"
	LayerTreesMedium = "trees_level_II"
	LayerTreesLow    = "trees_level_III"

	LayerFacilitiesAmbulance = "facilities_ambulance_station"
	LayerFacilitiesShelter   = "facilities_shelter"

	LayerBuildingsResidential = "buildings_residential"
	LayerBuildingsCommercial  = "buildings_commercial"
	LayerBuildingsMixed       = "buildings_mixed"
	LayerBuildingsIndustrial  = "buildings_industrial"

	LayerFallenTrees      = "disaster_fallen_trees"
	LayerTreeBlockages    = "disaster_tree_blockages"
	LayerRoadObstructions = "disaster_road_obstructions"

	LayerRoutePre          = "route_pre_disaster"
	LayerRoutePost         = "route_post_disaster"
	LayerRouteAlternatives = "route_alternatives"
	LayerWaypoints         = "route_waypoints"
)

// 世界数据派生的图层，更新世界数据时整体重建
var worldLayers = []string{
	LayerRoadsMain, LayerRoadsSecondary, LayerNodes,
	LayerTreesHigh, LayerTreesMedium, LayerTreesLow,
	LayerFacilitiesAmbulance, LayerFacilitiesShelter,
	LayerBuildingsResidential, LayerBuildingsCommercial,
	LayerBuildingsMixed, LayerBuildingsIndustrial,
}

var disasterLayers = []string{
	LayerFallenTrees, LayerTreeBlockages, LayerRoadObstructions,
}

// 不含waypoints：起终点标记跨路径重算持续存在，仅显式清除
var routeLayers = []string{
	LayerRoutePre, LayerRoutePost, LayerRouteAlternatives,
}

// 全部图层目录
func LayerCatalog() []string {
	catalog := make([]string, 0, len(worldLayers)+len(disasterLayers)+len(routeLayers)+1)
	catalog = append(catalog, worldLayers...)
	catalog = append(catalog, disasterLayers...)
	catalog = append(catalog, routeLayers...)
	catalog = append(catalog, LayerWaypoints)
	return catalog
}

// 子类型到具体图层名的解析

func RoadLayer(c RoadClass) string {
	if c == RoadMain {
		return LayerRoadsMain
	}
	return LayerRoadsSecondary
}

func TreeLayer(level VulnerabilityLevel) string {
	switch level {
	case VulnerabilityHigh:
		return LayerTreesHigh
	case VulnerabilityMedium:
		return LayerTreesMedium
	default:
		return LayerTreesLow
	}
}

func FacilityLayer(kind FacilityKind) string {
	if kind == FacilityAmbulanceStation {
		return LayerFacilitiesAmbulance
	}
	return LayerFacilitiesShelter
}

func BuildingLayer(kind BuildingKind) string {
	switch kind {
	case BuildingCommercial:
		return LayerBuildingsCommercial
	case BuildingMixed:
		return LayerBuildingsMixed
	case BuildingIndustrial:
		return LayerBuildingsIndustrial
	default:
		return LayerBuildingsResidential
	}
}

type layerState struct {
	features []Shape
	visible  bool
}

// 命名图层注册表：持有各图层累计的要素与可见性，
// 隐藏图层不丢弃要素，重新显示时完整恢复
// 未知图层名的操作记一条警告后忽略，容忍上下游图层目录不一致
type LayerRegistry struct {
	mu      *xsync.RBMutex
	surface Surface
	layers  map[string]*layerState
}

func NewLayerRegistry(surface Surface) *LayerRegistry {
	r := &LayerRegistry{
		mu:      xsync.NewRBMutex(),
		surface: surface,
		layers:  make(map[string]*layerState),
	}
	for _, name := range LayerCatalog() {
		r.layers[name] = &layerState{visible: true}
	}
	return r
}

func (r *LayerRegistry) AddFeature(layer string, s Shape) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.layers[layer]
	if !ok {
		log.Warnf("add feature to unknown layer %s, ignored", layer)
		return
	}
	l.features = append(l.features, s)
	r.surface.AddShape(layer, s)
}

func (r *LayerRegistry) AddFeatures(layer string, shapes []Shape) {
	for _, s := range shapes {
		r.AddFeature(layer, s)
	}
}

// 按ID移除单个要素
func (r *LayerRegistry) RemoveFeature(layer string, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.layers[layer]
	if !ok {
		log.Warnf("remove feature from unknown layer %s, ignored", layer)
		return
	}
	for i, s := range l.features {
		if s.ID == id {
			l.features = append(l.features[:i], l.features[i+1:]...)
			break
		}
	}
	r.surface.RemoveShape(layer, id)
}

func (r *LayerRegistry) ClearLayer(layer string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.layers[layer]
	if !ok {
		log.Warnf("clear unknown layer %s, ignored", layer)
		return
	}
	l.features = nil
	r.surface.ClearGroup(layer)
}

func (r *LayerRegistry) ClearAll() {
	for _, name := range LayerCatalog() {
		r.ClearLayer(name)
	}
}

// 幂等：重复设置同一可见性不改变任何要素
func (r *LayerRegistry) SetVisible(layer string, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.layers[layer]
	if !ok {
		log.Warnf("set visibility of unknown layer %s, ignored", layer)
		return
	}
	if l.visible == visible {
		return
	}
	l.visible = visible
	r.surface.SetGroupVisible(layer, visible)
}

func (r *LayerRegistry) IsVisible(layer string) bool {
	t := r.mu.RLock()
	defer r.mu.RUnlock(t)
	if l, ok := r.layers[layer]; ok {
		return l.visible
	}
	return false
}

func (r *LayerRegistry) FeatureCount(layer string) int {
	t := r.mu.RLock()
	defer r.mu.RUnlock(t)
	if l, ok := r.layers[layer]; ok {
		return len(l.features)
	}
	return 0
}

func (r *LayerRegistry) Features(layer string) []Shape {
	t := r.mu.RLock()
	defer r.mu.RUnlock(t)
	if l, ok := r.layers[layer]; ok {
		return append([]Shape(nil), l.features...)
	}
	return nil
}
