package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ton731/urban-resilience-simulator/render"
)

// 世界快照数据源：本地JSON文件或MongoDB集合
// MongoDB集合格式为{class: "boundary"|"node"|"road"|"tree"|"facility"|"building", data: {...}}

type worldDoc struct {
	Class string   `bson:"class"`
	Data  bson.Raw `bson:"data"`
}

// LoadWorld 根据path加载世界快照，cacheDir非空时优先读取缓存并在下载后写入缓存
func LoadWorld(mongoURI string, path *Path, cacheDir string) (*render.WorldData, error) {
	if path == nil {
		return nil, nil
	}
	if path.File != "" {
		return loadWorldFromFile(path.File)
	}
	cachePath := ""
	if cacheDir != "" {
		cachePath = filepath.Join(cacheDir, path.GetCachePath())
		if _, err := os.Stat(cachePath); err == nil {
			log.Infof("load world snapshot from cache %s", cachePath)
			return loadWorldFromFile(cachePath)
		}
	}
	world, err := loadWorldFromMongo(mongoURI, path)
	if err != nil {
		return nil, err
	}
	if cachePath != "" {
		if err := writeWorldCache(cachePath, world); err != nil {
			log.Warnf("failed to write world cache %s: %v", cachePath, err)
		}
	}
	return world, nil
}

func loadWorldFromFile(path string) (*render.WorldData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read world snapshot %s: %w", path, err)
	}
	var world render.WorldData
	if err := json.Unmarshal(data, &world); err != nil {
		return nil, fmt.Errorf("failed to parse world snapshot %s: %w", path, err)
	}
	if !world.Boundary.Valid() {
		return nil, fmt.Errorf("world snapshot %s has invalid boundary", path)
	}
	return &world, nil
}

func loadWorldFromMongo(mongoURI string, path *Path) (*render.WorldData, error) {
	if mongoURI == "" {
		return nil, fmt.Errorf("mongo_uri is required to load %s.%s", path.GetDb(), path.GetColl())
	}
	log.Infof("load world snapshot from database %s.%s", path.GetDb(), path.GetColl())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	defer client.Disconnect(ctx)
	coll := client.Database(path.GetDb()).Collection(path.GetColl())

	world := &render.WorldData{
		Nodes:      make(map[string]*render.Node),
		Segments:   make(map[string]*render.RoadSegment),
		Trees:      make(map[string]*render.Tree),
		Facilities: make(map[string]*render.Facility),
		Buildings:  make(map[string]*render.Building),
	}
	cur, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s.%s: %w", path.GetDb(), path.GetColl(), err)
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var doc worldDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		switch doc.Class {
		case "boundary":
			if err := bson.Unmarshal(doc.Data, &world.Boundary); err != nil {
				return nil, fmt.Errorf("failed to decode boundary: %w", err)
			}
		case "node":
			var node render.Node
			if err := bson.Unmarshal(doc.Data, &node); err != nil {
				return nil, fmt.Errorf("failed to decode node: %w", err)
			}
			world.Nodes[node.ID] = &node
		case "road":
			var road render.RoadSegment
			if err := bson.Unmarshal(doc.Data, &road); err != nil {
				return nil, fmt.Errorf("failed to decode road: %w", err)
			}
			world.Segments[road.ID] = &road
		case "tree":
			var tree render.Tree
			if err := bson.Unmarshal(doc.Data, &tree); err != nil {
				return nil, fmt.Errorf("failed to decode tree: %w", err)
			}
			world.Trees[tree.ID] = &tree
		case "facility":
			var facility render.Facility
			if err := bson.Unmarshal(doc.Data, &facility); err != nil {
				return nil, fmt.Errorf("failed to decode facility: %w", err)
			}
			world.Facilities[facility.ID] = &facility
		case "building":
			var building render.Building
			if err := bson.Unmarshal(doc.Data, &building); err != nil {
				return nil, fmt.Errorf("failed to decode building: %w", err)
			}
			world.Buildings[building.ID] = &building
		default:
			log.Warnf("unknown document class %s, skip", doc.Class)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s.%s: %w", path.GetDb(), path.GetColl(), err)
	}
	if !world.Boundary.Valid() {
		return nil, fmt.Errorf("%s.%s has no valid boundary document", path.GetDb(), path.GetColl())
	}
	log.Infof("world snapshot loaded: %d nodes, %d roads, %d trees, %d facilities, %d buildings",
		len(world.Nodes), len(world.Segments), len(world.Trees), len(world.Facilities), len(world.Buildings))
	return world, nil
}

func writeWorldCache(path string, world *render.WorldData) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(world)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
