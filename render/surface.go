package render

import (
	"sort"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/samber/lo"
)

// 单个可绘制要素
type Shape struct {
	ID       string
	Geometry orb.Geometry
	Style    Style
	// 描述性文字（popup/tooltip内容）
	Label string
}

func NewShape(geom orb.Geometry, style Style, label string) Shape {
	return Shape{
		ID:       uuid.NewString(),
		Geometry: geom,
		Style:    style,
		Label:    label,
	}
}

// 指定ID的要素，用于需要原地替换的要素（如路径起终点标记）
func NewShapeWithID(id string, geom orb.Geometry, style Style, label string) Shape {
	s := NewShape(geom, style, label)
	s.ID = id
	return s
}

// 绘制后端的最小接口，渲染引擎只依赖这组操作，
// 任何地图后端（Web地图、离屏渲染、测试用内存实现）都可以接入
type Surface interface {
	AddShape(group string, s Shape)
	RemoveShape(group string, id string)
	ClearGroup(group string)
	SetGroupVisible(group string, visible bool)
	// 要求显示范围覆盖bound，padding为相对边距比例
	FitBounds(bound orb.Bound, padding float64)
	// 注册指针点击回调，传入nil表示移除当前回调
	// 同一时刻至多存在一个回调
	RegisterClickHandler(h func(p orb.Point))
}

type surfaceGroup struct {
	shapes  []Shape
	index   map[string]int
	visible bool
}

// Surface的内存实现：保存全部分组要素与可见性状态，
// 服务端用它导出GeoJSON场景，测试用它断言绘制结果
type MemorySurface struct {
	mu     *xsync.RBMutex
	groups map[string]*surfaceGroup

	bound     orb.Bound
	padding   float64
	hasBound  bool
	clickFunc func(p orb.Point)
}

func NewMemorySurface() *MemorySurface {
	return &MemorySurface{
		mu:     xsync.NewRBMutex(),
		groups: make(map[string]*surfaceGroup),
	}
}

func (m *MemorySurface) group(name string) *surfaceGroup {
	g, ok := m.groups[name]
	if !ok {
		g = &surfaceGroup{index: make(map[string]int), visible: true}
		m.groups[name] = g
	}
	return g
}

func (m *MemorySurface) AddShape(group string, s Shape) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := m.group(group)
	if i, ok := g.index[s.ID]; ok {
		g.shapes[i] = s
		return
	}
	g.index[s.ID] = len(g.shapes)
	g.shapes = append(g.shapes, s)
}

func (m *MemorySurface) RemoveShape(group string, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[group]
	if !ok {
		return
	}
	i, ok := g.index[id]
	if !ok {
		return
	}
	g.shapes = append(g.shapes[:i], g.shapes[i+1:]...)
	delete(g.index, id)
	for j := i; j < len(g.shapes); j++ {
		g.index[g.shapes[j].ID] = j
	}
}

func (m *MemorySurface) ClearGroup(group string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[group]
	if !ok {
		return
	}
	g.shapes = g.shapes[:0]
	g.index = make(map[string]int)
}

func (m *MemorySurface) SetGroupVisible(group string, visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.group(group).visible = visible
}

func (m *MemorySurface) FitBounds(bound orb.Bound, padding float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bound = bound
	m.padding = padding
	m.hasBound = true
}

func (m *MemorySurface) RegisterClickHandler(h func(p orb.Point)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clickFunc = h
}

// 模拟一次指针点击
func (m *MemorySurface) Click(p orb.Point) {
	t := m.mu.RLock()
	h := m.clickFunc
	m.mu.RUnlock(t)
	if h != nil {
		h(p)
	}
}

func (m *MemorySurface) HasClickHandler() bool {
	t := m.mu.RLock()
	defer m.mu.RUnlock(t)
	return m.clickFunc != nil
}

func (m *MemorySurface) ShapeCount(group string) int {
	t := m.mu.RLock()
	defer m.mu.RUnlock(t)
	if g, ok := m.groups[group]; ok {
		return len(g.shapes)
	}
	return 0
}

func (m *MemorySurface) TotalShapeCount() int {
	t := m.mu.RLock()
	defer m.mu.RUnlock(t)
	n := 0
	for _, g := range m.groups {
		n += len(g.shapes)
	}
	return n
}

func (m *MemorySurface) Shapes(group string) []Shape {
	t := m.mu.RLock()
	defer m.mu.RUnlock(t)
	if g, ok := m.groups[group]; ok {
		return append([]Shape(nil), g.shapes...)
	}
	return nil
}

func (m *MemorySurface) GroupVisible(group string) bool {
	t := m.mu.RLock()
	defer m.mu.RUnlock(t)
	if g, ok := m.groups[group]; ok {
		return g.visible
	}
	return false
}

// 当前要求的显示范围，ok为false表示尚未调用过FitBounds
func (m *MemorySurface) Bound() (bound orb.Bound, padding float64, ok bool) {
	t := m.mu.RLock()
	defer m.mu.RUnlock(t)
	return m.bound, m.padding, m.hasBound
}

// 导出所有可见分组为GeoJSON FeatureCollection，
// 样式与描述文字写入feature properties，供前端直接消费
func (m *MemorySurface) Snapshot() *geojson.FeatureCollection {
	t := m.mu.RLock()
	defer m.mu.RUnlock(t)
	fc := geojson.NewFeatureCollection()
	names := lo.Keys(m.groups)
	sort.Strings(names)
	for _, name := range names {
		g := m.groups[name]
		if !g.visible {
			continue
		}
		for _, s := range g.shapes {
			f := geojson.NewFeature(s.Geometry)
			f.ID = s.ID
			f.Properties["group"] = name
			if s.Label != "" {
				f.Properties["label"] = s.Label
			}
			s.Style.writeProperties(f.Properties)
			fc.Append(f)
		}
	}
	return fc
}
