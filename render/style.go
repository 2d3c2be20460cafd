package render

import "github.com/paulmach/orb/geojson"

// 要素样式，字段语义对齐常见Web地图（颜色、线宽、虚线、圆标记半径等）
type Style struct {
	Color       string
	Weight      float64
	Opacity     float64
	FillColor   string
	FillOpacity float64
	Dashed      bool
	// 圆形标记半径（显示单位），0表示非圆形标记
	Radius float64
	// 图标标记的图标名
	Icon string
	// 图标沿该角度旋转（度）
	RotationDeg float64
}

func (s Style) writeProperties(props geojson.Properties) {
	if s.Color != "" {
		props["color"] = s.Color
	}
	if s.Weight > 0 {
		props["weight"] = s.Weight
	}
	if s.Opacity > 0 {
		props["opacity"] = s.Opacity
	}
	if s.FillColor != "" {
		props["fillColor"] = s.FillColor
		props["fillOpacity"] = s.FillOpacity
	}
	if s.Dashed {
		props["dashed"] = true
	}
	if s.Radius > 0 {
		props["radius"] = s.Radius
	}
	if s.Icon != "" {
		props["icon"] = s.Icon
		props["rotation"] = s.RotationDeg
	}
}

// 样式表：全部以类型化枚举为键，查不到时显式回退到文档化的默认样式，
// 不依赖零值的静默回退

var roadStyles = map[RoadClass]Style{
	RoadMain:      {Color: "#2c3e50", Weight: 1, FillColor: "#34495e", FillOpacity: 0.85},
	RoadSecondary: {Color: "#7f8c8d", Weight: 1, FillColor: "#95a5a6", FillOpacity: 0.75},
}

// 未知道路等级按secondary渲染
func RoadStyle(c RoadClass) Style {
	if s, ok := roadStyles[c]; ok {
		return s
	}
	return roadStyles[RoadSecondary]
}

var treeStyles = map[VulnerabilityLevel]Style{
	VulnerabilityHigh:   {Color: "#d73027", FillColor: "#d73027", FillOpacity: 0.8},
	VulnerabilityMedium: {Color: "#fdae61", FillColor: "#fdae61", FillOpacity: 0.8},
	VulnerabilityLow:    {Color: "#1a9850", FillColor: "#1a9850", FillOpacity: 0.8},
}

// 未知脆弱度按最低风险（III级）渲染
func TreeStyle(level VulnerabilityLevel) Style {
	if s, ok := treeStyles[level]; ok {
		return s
	}
	return treeStyles[VulnerabilityLow]
}

var facilityStyles = map[FacilityKind]Style{
	FacilityAmbulanceStation: {Color: "#c0392b", Icon: "ambulance"},
	FacilityShelter:          {Color: "#2980b9", Icon: "shelter"},
}

// 未知设施类型按避难所渲染
func FacilityStyle(kind FacilityKind) Style {
	if s, ok := facilityStyles[kind]; ok {
		return s
	}
	return facilityStyles[FacilityShelter]
}

var buildingStyles = map[BuildingKind]Style{
	BuildingResidential: {Color: "#8c6d31", Weight: 1, FillColor: "#e7ba52", FillOpacity: 0.6},
	BuildingCommercial:  {Color: "#393b79", Weight: 1, FillColor: "#6b6ecf", FillOpacity: 0.6},
	BuildingMixed:       {Color: "#7b4173", Weight: 1, FillColor: "#ce6dbd", FillOpacity: 0.6},
	BuildingIndustrial:  {Color: "#636363", Weight: 1, FillColor: "#969696", FillOpacity: 0.6},
}

// 未知建筑类型按residential渲染
func BuildingStyle(kind BuildingKind) Style {
	if s, ok := buildingStyles[kind]; ok {
		return s
	}
	return buildingStyles[BuildingResidential]
}

var routeStyles = map[RouteCategory]Style{
	RoutePreDisaster:  {Color: "#2b83ba", Weight: 5, Opacity: 0.9},
	RoutePostDisaster: {Color: "#d7191c", Weight: 5, Opacity: 0.9},
	RouteAlternative:  {Color: "#756bb1", Weight: 3, Opacity: 0.8, Dashed: true},
}

// 未知路径类别按备选路径渲染
func RouteStyle(cat RouteCategory) Style {
	if s, ok := routeStyles[cat]; ok {
		return s
	}
	return routeStyles[RouteAlternative]
}

var (
	nodeStyle = Style{Color: "#555555", FillColor: "#ffffff", FillOpacity: 1}

	fallenTrunkStyle = Style{Color: "#8c510a", Weight: 3, Opacity: 0.9}
	fallenCrownStyle = Style{Color: "#8c510a", FillColor: "#bf812d", FillOpacity: 0.5}
	blockageStyle    = Style{Color: "#e31a1c", Weight: 2, FillColor: "#e31a1c", FillOpacity: 0.2, Dashed: true}
	obstructionStyle = Style{Color: "#ff7f00", Weight: 2, FillColor: "#ff7f00", FillOpacity: 0.25, Dashed: true}

	oneWayGlyphStyle    = Style{Color: "#2c3e50", Icon: "arrow"}
	routeGlyphStyle     = Style{Color: "#ffffff", Icon: "arrow"}
	capacityBadgeStyle  = Style{Color: "#2980b9", Icon: "badge"}
	populationBadgeStyle = Style{Color: "#8c6d31", Icon: "badge"}
	waypointStyle       = Style{Color: "#27ae60", Icon: "waypoint"}
)
