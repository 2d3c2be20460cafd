package render

import (
	"git.fiblab.net/general/common/v2/geometry"
)

// 节点类型
type NodeKind string

const (
	NodeIntersection NodeKind = "intersection"
	NodeEndpoint     NodeKind = "endpoint"
)

// 道路等级
type RoadClass string

const (
	RoadMain      RoadClass = "main"
	RoadSecondary RoadClass = "secondary"
)

// 树木脆弱度等级，I最高风险，III最低风险
type VulnerabilityLevel string

const (
	VulnerabilityHigh   VulnerabilityLevel = "I"
	VulnerabilityMedium VulnerabilityLevel = "II"
	VulnerabilityLow    VulnerabilityLevel = "III"
)

// 设施类型
type FacilityKind string

const (
	FacilityAmbulanceStation FacilityKind = "ambulance_station"
	FacilityShelter          FacilityKind = "shelter"
)

// 建筑类型
type BuildingKind string

const (
	BuildingResidential BuildingKind = "residential"
	BuildingCommercial  BuildingKind = "commercial"
	BuildingMixed       BuildingKind = "mixed"
	BuildingIndustrial  BuildingKind = "industrial"
)

// 路径规划的载具类型，由上游决定，渲染侧只透传展示
type VehicleType string

// 路径类别，决定折线样式
type RouteCategory string

const (
	RoutePreDisaster  RouteCategory = "pre_disaster"
	RoutePostDisaster RouteCategory = "post_disaster"
	RouteAlternative  RouteCategory = "alternative"
)

// 世界坐标（米）下的地图边界
type Boundary struct {
	MinX float64 `json:"min_x" bson:"min_x"`
	MaxX float64 `json:"max_x" bson:"max_x"`
	MinY float64 `json:"min_y" bson:"min_y"`
	MaxY float64 `json:"max_y" bson:"max_y"`
}

func (b Boundary) Valid() bool {
	return b.MaxX >= b.MinX && b.MaxY >= b.MinY
}

func (b Boundary) Center() geometry.Point {
	return geometry.Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

func (b Boundary) Width() float64 {
	return b.MaxX - b.MinX
}

func (b Boundary) Height() float64 {
	return b.MaxY - b.MinY
}

// 路网节点
type Node struct {
	ID   string   `json:"id" bson:"id"`
	X    float64  `json:"x" bson:"x"`
	Y    float64  `json:"y" bson:"y"`
	Kind NodeKind `json:"type" bson:"type"`
}

func (n *Node) Point() geometry.Point {
	return geometry.Point{X: n.X, Y: n.Y}
}

// 道路段，引用两个节点，节点缺失时该段跳过不渲染
type RoadSegment struct {
	ID            string    `json:"id" bson:"id"`
	FromNode      string    `json:"from_node" bson:"from_node"`
	ToNode        string    `json:"to_node" bson:"to_node"`
	Class         RoadClass `json:"road_type" bson:"road_type"`
	WidthM        float64   `json:"width" bson:"width"`
	LaneCount     int       `json:"lanes" bson:"lanes"`
	SpeedLimitKmh float64   `json:"speed_limit" bson:"speed_limit"`
	Bidirectional bool      `json:"is_bidirectional" bson:"is_bidirectional"`
}

// 行道树
type Tree struct {
	ID                 string             `json:"id" bson:"id"`
	X                  float64            `json:"x" bson:"x"`
	Y                  float64            `json:"y" bson:"y"`
	VulnerabilityLevel VulnerabilityLevel `json:"vulnerability_level" bson:"vulnerability_level"`
	HeightM            float64            `json:"height" bson:"height"`
	TrunkWidthM        float64            `json:"trunk_width" bson:"trunk_width"`
}

// 设施（救护站、避难所），Capacity与Name为可选字段
type Facility struct {
	ID       string       `json:"id" bson:"id"`
	X        float64      `json:"x" bson:"x"`
	Y        float64      `json:"y" bson:"y"`
	Kind     FacilityKind `json:"facility_type" bson:"facility_type"`
	NodeID   string       `json:"node_id" bson:"node_id"`
	Capacity *int         `json:"capacity,omitempty" bson:"capacity,omitempty"`
	Name     string       `json:"name,omitempty" bson:"name,omitempty"`
}

// 建筑
type Building struct {
	ID              string       `json:"id" bson:"id"`
	X               float64      `json:"x" bson:"x"`
	Y               float64      `json:"y" bson:"y"`
	Kind            BuildingKind `json:"building_type" bson:"building_type"`
	HeightM         float64      `json:"height" bson:"height"`
	FloorCount      int          `json:"floors" bson:"floors"`
	FootprintAreaM2 float64      `json:"footprint_area" bson:"footprint_area"`
	Population      int          `json:"population" bson:"population"`
	Capacity        int          `json:"capacity" bson:"capacity"`
}

// 世界生成结果快照，由外部生成器产出，渲染侧只读
type WorldData struct {
	Boundary   Boundary                `json:"boundary" bson:"boundary"`
	Nodes      map[string]*Node        `json:"nodes" bson:"nodes"`
	Segments   map[string]*RoadSegment `json:"edges" bson:"edges"`
	Trees      map[string]*Tree        `json:"trees,omitempty" bson:"trees,omitempty"`
	Facilities map[string]*Facility    `json:"facilities,omitempty" bson:"facilities,omitempty"`
	Buildings  map[string]*Building    `json:"buildings,omitempty" bson:"buildings,omitempty"`
}

// 倒树事件
type DisasterEvent struct {
	TreeID             string             `json:"tree_id" bson:"tree_id"`
	Location           [2]float64         `json:"location" bson:"location"`
	CollapseAngleDeg   float64            `json:"collapse_angle" bson:"collapse_angle"`
	TreeHeightM        float64            `json:"tree_height" bson:"tree_height"`
	TrunkWidthM        float64            `json:"trunk_width" bson:"trunk_width"`
	VulnerabilityLevel VulnerabilityLevel `json:"vulnerability_level" bson:"vulnerability_level"`
	Severity           float64            `json:"severity" bson:"severity"`
	BlockagePolygon    [][2]float64       `json:"blockage_polygon,omitempty" bson:"blockage_polygon,omitempty"`
}

// 道路阻塞
type RoadObstruction struct {
	RoadEdgeID         string       `json:"road_edge_id" bson:"road_edge_id"`
	ObstructionPolygon [][2]float64 `json:"obstruction_polygon,omitempty" bson:"obstruction_polygon,omitempty"`
	RemainingWidthM    float64      `json:"remaining_width" bson:"remaining_width"`
	BlockedPercentage  float64      `json:"blocked_percentage" bson:"blocked_percentage"`
	CausedByEvent      string       `json:"caused_by_event" bson:"caused_by_event"`
}

// 灾害模拟的聚合统计，原样透传展示
type DisasterAggregates struct {
	TreesAffected        int     `json:"trees_affected" bson:"trees_affected"`
	RoadsAffected        int     `json:"roads_affected" bson:"roads_affected"`
	FullyBlockedRoads    int     `json:"fully_blocked_roads" bson:"fully_blocked_roads"`
	AvgBlockedPercentage float64 `json:"avg_blocked_percentage" bson:"avg_blocked_percentage"`
}

// 灾害模拟结果
type DisasterResult struct {
	Events       []*DisasterEvent    `json:"events" bson:"events"`
	Obstructions []*RoadObstruction  `json:"obstructions" bson:"obstructions"`
	Aggregates   *DisasterAggregates `json:"aggregates,omitempty" bson:"aggregates,omitempty"`
}

// 单条路径规划结果
type RouteResult struct {
	Success              bool         `json:"success" bson:"success"`
	PathCoordinates      [][2]float64 `json:"path_coordinates" bson:"path_coordinates"`
	TotalDistanceM       float64      `json:"total_distance" bson:"total_distance"`
	EstimatedTravelTimeS float64      `json:"estimated_travel_time" bson:"estimated_travel_time"`
	VehicleType          VehicleType  `json:"vehicle_type" bson:"vehicle_type"`
	BlockedRoads         []string     `json:"blocked_roads,omitempty" bson:"blocked_roads,omitempty"`
}

// 一次路径规划更新：灾前、灾后与若干备选路径
type RouteUpdate struct {
	PreDisaster  *RouteResult   `json:"pre_disaster,omitempty" bson:"pre_disaster,omitempty"`
	PostDisaster *RouteResult   `json:"post_disaster,omitempty" bson:"post_disaster,omitempty"`
	Alternatives []*RouteResult `json:"alternatives,omitempty" bson:"alternatives,omitempty"`
}

// 灾前灾后路径对比
type RouteComparison struct {
	DistanceIncreaseM       float64 `json:"distance_increase" bson:"distance_increase"`
	TimeIncreaseS           float64 `json:"time_increase" bson:"time_increase"`
	DistanceIncreasePercent float64 `json:"distance_increase_percent" bson:"distance_increase_percent"`
	TimeIncreasePercent     float64 `json:"time_increase_percent" bson:"time_increase_percent"`
	BlockedRoadCount        int     `json:"blocked_road_count" bson:"blocked_road_count"`
}

// 灾前灾后均规划成功时给出对比结果，否则返回nil
func CompareRoutes(pre, post *RouteResult) *RouteComparison {
	if pre == nil || post == nil || !pre.Success || !post.Success {
		return nil
	}
	cmp := &RouteComparison{
		DistanceIncreaseM: post.TotalDistanceM - pre.TotalDistanceM,
		TimeIncreaseS:     post.EstimatedTravelTimeS - pre.EstimatedTravelTimeS,
		BlockedRoadCount:  len(post.BlockedRoads),
	}
	if pre.TotalDistanceM > 0 {
		cmp.DistanceIncreasePercent = cmp.DistanceIncreaseM / pre.TotalDistanceM * 100
	}
	if pre.EstimatedTravelTimeS > 0 {
		cmp.TimeIncreasePercent = cmp.TimeIncreaseS / pre.EstimatedTravelTimeS * 100
	}
	return cmp
}

// 图层可见性配置，nil表示维持现状
// 嵌套的按子类型映射由引擎解析为具体图层名
type VisibilityConfig struct {
	Roads             map[RoadClass]bool          `json:"roads,omitempty"`
	Nodes             *bool                       `json:"nodes,omitempty"`
	Trees             map[VulnerabilityLevel]bool `json:"trees,omitempty"`
	Facilities        map[FacilityKind]bool       `json:"facilities,omitempty"`
	Buildings         map[BuildingKind]bool       `json:"buildings,omitempty"`
	FallenTrees       *bool                       `json:"fallen_trees,omitempty"`
	TreeBlockages     *bool                       `json:"tree_blockages,omitempty"`
	RoadObstructions  *bool                       `json:"road_obstructions,omitempty"`
	PreRoute          *bool                       `json:"pre_disaster_route,omitempty"`
	PostRoute         *bool                       `json:"post_disaster_route,omitempty"`
	AlternativeRoutes *bool                       `json:"alternative_routes,omitempty"`
	Waypoints         *bool                       `json:"waypoints,omitempty"`
}
