package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sceneRebuildTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "render_scene_rebuild_total",
		Help: "Number of scene rebuilds by update kind.",
	}, []string{"kind"})
	sceneRebuildSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "render_scene_rebuild_duration_seconds",
		Help:    "Duration of scene rebuilds by update kind.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	sceneShapeCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "render_scene_shape_count",
		Help: "Number of shapes currently on the drawing surface.",
	})
)

func observeRebuild(kind string, start time.Time) {
	sceneRebuildTotal.WithLabelValues(kind).Inc()
	sceneRebuildSeconds.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
