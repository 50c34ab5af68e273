package systems

import (
	"testing"

	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/ecs"
	"github.com/decker502/trackgen/pkg/entities"
)

// sequenceRandom 按固定序列返回随机数的测试随机源
type sequenceRandom struct {
	values []float64
	calls  int
}

func (r *sequenceRandom) Float64() float64 {
	if len(r.values) == 0 {
		r.calls++
		return 0
	}
	v := r.values[r.calls%len(r.values)]
	r.calls++
	return v
}

func (r *sequenceRandom) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	i := int(r.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

func box(cx, cy, cz, sx, sy, sz float64) *config.BoxConfig {
	return &config.BoxConfig{
		Center: config.Vec3Config{X: cx, Y: cy, Z: cz},
		Size:   config.Vec3Config{X: sx, Y: sy, Z: sz},
	}
}

// newTestCatalog 构造一个与默认数据类似的小目录
func newTestCatalog(t *testing.T) *config.CatalogConfig {
	t.Helper()
	catalog := &config.CatalogConfig{
		Templates: []config.TemplateConfig{
			{ID: "cone", Bounds: box(0, 0.5, 0, 1.0, 1.0, 1.0)},
			{ID: "barrier", Bounds: box(0, 0.5, 0, 2.4, 1.0, 0.4), Collider: box(0, 0.5, 0, 2.4, 1.0, 0.4)},
			{ID: "oil_slick", ApproxHalfWidth: 0.9},
			{ID: "star", Bounds: box(0, 0.3, 0, 0.6, 0.6, 0.1), Value: 1},
			{ID: "finish_gate", Bounds: box(0, 2, 0, 10, 4, 0.5), Collider: box(0, 1.5, 0, 10, 3, 0.5), ReferenceWidth: 10},
		},
		Obstacles: []config.WeightedEntry{
			{Template: "cone", Weight: 5},
			{Template: "barrier", Weight: 2},
			{Template: "oil_slick", Weight: 1},
		},
		Star:       "star",
		FinishGate: "finish_gate",
	}
	if err := catalog.Prepare(); err != nil {
		t.Fatalf("Failed to prepare test catalog: %v", err)
	}
	return catalog
}

// newSingleTypeCatalog 只有一种障碍物（权重 1）的目录
func newSingleTypeCatalog(t *testing.T) *config.CatalogConfig {
	t.Helper()
	catalog := &config.CatalogConfig{
		Templates: []config.TemplateConfig{
			{ID: "block", Bounds: box(0, 0.5, 0, 1.2, 1.0, 1.2)},
			{ID: "star", Bounds: box(0, 0.3, 0, 0.6, 0.6, 0.1)},
		},
		Obstacles: []config.WeightedEntry{{Template: "block", Weight: 1}},
		Star:      "star",
	}
	if err := catalog.Prepare(); err != nil {
		t.Fatalf("Failed to prepare single-type catalog: %v", err)
	}
	return catalog
}

// testRig 一次放置测试所需的依赖
type testRig struct {
	em     *ecs.EntityManager
	inst   *entities.TemplateInstantiator
	bounds *TransformBoundsEstimator
	group  ecs.EntityID
}

func newTestRig(t *testing.T, group string) *testRig {
	t.Helper()
	em := ecs.NewEntityManager()
	id, err := entities.NewGroupEntity(em, 0, group)
	if err != nil {
		t.Fatalf("Failed to create group: %v", err)
	}
	return &testRig{
		em:     em,
		inst:   entities.NewTemplateInstantiator(em),
		bounds: NewTransformBoundsEstimator(em),
		group:  id,
	}
}

// runObstacles 用给定配置跑一次障碍物放置
func runObstacles(t *testing.T, cfg *config.TrackConfig, catalog *config.CatalogConfig) (*ObstaclePassResult, *testRig) {
	t.Helper()
	sanitized := cfg.Sanitized()
	rig := newTestRig(t, "generated/obstacles")
	lanes := ComputeLaneOffsets(sanitized.LaneCount, LayoutUsableHalfWidth(&sanitized, catalog))
	sys := NewObstaclePlacementSystem(rig.em, &sanitized, catalog, rig.inst, rig.bounds)
	return sys.Run(rig.group, lanes), rig
}
