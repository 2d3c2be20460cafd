package render

// 当前载入数据派生的汇总统计，字段口径与世界生成器的统计输出一致
type SummaryStats struct {
	NodeCount          int `json:"node_count"`
	EdgeCount          int `json:"edge_count"`
	TreeCount          int `json:"tree_count"`
	FacilityCount      int `json:"facility_count"`
	BuildingCount      int `json:"building_count"`
	MainRoadCount      int `json:"main_road_count"`
	SecondaryRoadCount int `json:"secondary_road_count"`

	TreesByLevel map[VulnerabilityLevel]int `json:"vulnerability_distribution,omitempty"`

	AmbulanceStationCount int `json:"ambulance_station_count"`
	ShelterCount          int `json:"shelter_count"`
	ShelterCapacity       int `json:"shelter_capacity"`

	TotalPopulation          int                  `json:"total_population"`
	TotalCapacity            int                  `json:"total_capacity"`
	PopulationByType         map[BuildingKind]int `json:"population_by_type,omitempty"`
	PopulationDensityPerKm2  float64              `json:"population_density_per_sqkm"`
	OccupancyRatePercent     float64              `json:"occupancy_rate"`

	// 灾害聚合统计原样透传
	Disaster *DisasterAggregates `json:"disaster,omitempty"`
	// 灾前灾后路径对比（存在时）
	RouteComparison *RouteComparison `json:"route_comparison,omitempty"`
}

func ComputeStats(world *WorldData, disaster *DisasterResult, cmp *RouteComparison) *SummaryStats {
	stats := &SummaryStats{RouteComparison: cmp}
	if disaster != nil {
		stats.Disaster = disaster.Aggregates
	}
	if world == nil {
		return stats
	}

	stats.NodeCount = len(world.Nodes)
	stats.EdgeCount = len(world.Segments)
	stats.TreeCount = len(world.Trees)
	stats.FacilityCount = len(world.Facilities)
	stats.BuildingCount = len(world.Buildings)

	for _, seg := range world.Segments {
		if seg.Class == RoadMain {
			stats.MainRoadCount++
		} else {
			stats.SecondaryRoadCount++
		}
	}

	if len(world.Trees) > 0 {
		stats.TreesByLevel = make(map[VulnerabilityLevel]int)
		for _, t := range world.Trees {
			stats.TreesByLevel[t.VulnerabilityLevel]++
		}
	}

	for _, f := range world.Facilities {
		switch f.Kind {
		case FacilityAmbulanceStation:
			stats.AmbulanceStationCount++
		case FacilityShelter:
			stats.ShelterCount++
			if f.Capacity != nil {
				stats.ShelterCapacity += *f.Capacity
			}
		}
	}

	if len(world.Buildings) > 0 {
		stats.PopulationByType = make(map[BuildingKind]int)
		for _, b := range world.Buildings {
			stats.TotalPopulation += b.Population
			stats.TotalCapacity += b.Capacity
			stats.PopulationByType[b.Kind] += b.Population
		}
		if stats.TotalCapacity > 0 {
			stats.OccupancyRatePercent = float64(stats.TotalPopulation) / float64(stats.TotalCapacity) * 100
		}
	}

	// 人口密度按边界面积计算（人/平方公里）
	if areaKm2 := world.Boundary.Width() * world.Boundary.Height() / 1e6; areaKm2 > 0 {
		stats.PopulationDensityPerKm2 = float64(stats.TotalPopulation) / areaKm2
	}
	return stats
}
