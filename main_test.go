package main

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ton731/urban-resilience-simulator/render"
)

// 构造随机点击坐标，检验显示坐标与世界坐标的往返一致性
func FuzzClickRoundTrip(f *testing.F) {
	tf := render.NewTransformer(render.Boundary{MinX: 0, MinY: 0, MaxX: 2000, MaxY: 1500})

	f.Add(100.0, 100.0)
	f.Add(0.0, 0.0)
	f.Add(2000.0, 1500.0)
	f.Add(-500.0, 3000.0)
	f.Fuzz(func(t *testing.T, x float64, y float64) {
		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			t.Skip()
		}
		if math.Abs(x) > 1e9 || math.Abs(y) > 1e9 {
			t.Skip()
		}
		p := tf.ToDisplay(x, y)
		x2, y2 := tf.FromDisplay(p[0], p[1])
		tol := math.Max(1e-6, math.Max(math.Abs(x), math.Abs(y))*1e-9)
		assert.InDelta(t, x, x2, tol)
		assert.InDelta(t, y, y2, tol)
	})
}

func TestRandomWorldValid(t *testing.T) {
	e := rand.New(rand.NewSource(42))
	world := randomWorld(e, 100)
	assert.True(t, world.Boundary.Valid())
	assert.GreaterOrEqual(t, len(world.Nodes), 100)
	assert.NotEmpty(t, world.Segments)
	for _, seg := range world.Segments {
		_, ok := world.Nodes[seg.FromNode]
		assert.True(t, ok, "segment %s references missing node %s", seg.ID, seg.FromNode)
		_, ok = world.Nodes[seg.ToNode]
		assert.True(t, ok, "segment %s references missing node %s", seg.ID, seg.ToNode)
	}
}
