package entities

import (
	"math"
	"testing"

	"github.com/decker502/trackgen/pkg/components"
	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/ecs"
	"github.com/decker502/trackgen/pkg/types"
)

func testTemplate() *config.TemplateConfig {
	return &config.TemplateConfig{
		ID: "barrier",
		Bounds: &config.BoxConfig{
			Center: config.Vec3Config{Y: 0.5},
			Size:   config.Vec3Config{X: 2.4, Y: 1.0, Z: 0.4},
		},
		Collider: &config.BoxConfig{
			Center: config.Vec3Config{Y: 0.5},
			Size:   config.Vec3Config{X: 2.0, Y: 1.0, Z: 0.4},
		},
	}
}

// TestInstantiateTemplate 测试实例化写入的组件
func TestInstantiateTemplate(t *testing.T) {
	em := ecs.NewEntityManager()
	group, _ := NewGroupEntity(em, 0, "generated/obstacles")
	inst := NewTemplateInstantiator(em)

	id, err := inst.Instantiate(testTemplate(), group, types.KindObstacle)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tr, ok := ecs.GetComponent[*components.TransformComponent](em, id)
	if !ok || tr.ScaleX != 1 || tr.ScaleY != 1 || tr.ScaleZ != 1 {
		t.Error("Instantiated entity should have identity transform")
	}

	bounds, ok := ecs.GetComponent[*components.BoundsComponent](em, id)
	if !ok {
		t.Fatal("Bounds should be populated from template")
	}
	if math.Abs(bounds.Local.Max.X-1.2) > 1e-9 {
		t.Errorf("Expected bounds maxX 1.2, got %.3f", bounds.Local.Max.X)
	}

	col, ok := ecs.GetComponent[*components.ColliderComponent](em, id)
	if !ok || col.IsTrigger {
		t.Error("Obstacle collider should exist and not be a trigger")
	}

	tpl, _ := ecs.GetComponent[*components.TemplateComponent](em, id)
	if tpl.TemplateID != "barrier" || tpl.Kind != types.KindObstacle {
		t.Errorf("Unexpected template component %+v", tpl)
	}

	if gen, ok := ecs.GetComponent[*components.GeneratedComponent](em, id); !ok || gen.Group != "generated/obstacles" {
		t.Error("Instantiated entity should carry the group tag")
	}
}

// TestInstantiateWithoutGeometry 测试没有几何描述的模板
func TestInstantiateWithoutGeometry(t *testing.T) {
	em := ecs.NewEntityManager()
	inst := NewTemplateInstantiator(em)

	id, err := inst.Instantiate(&config.TemplateConfig{ID: "oil_slick"}, 0, types.KindObstacle)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ecs.HasComponent[*components.BoundsComponent](em, id) || ecs.HasComponent[*components.ColliderComponent](em, id) {
		t.Error("Template without geometry should not get bounds or collider")
	}
}

// TestInstantiateStarColliderIsTrigger 测试星星碰撞体为触发器
func TestInstantiateStarColliderIsTrigger(t *testing.T) {
	em := ecs.NewEntityManager()
	inst := NewTemplateInstantiator(em)

	id, _ := inst.Instantiate(testTemplate(), 0, types.KindStar)
	col, ok := ecs.GetComponent[*components.ColliderComponent](em, id)
	if !ok || !col.IsTrigger {
		t.Error("Star collider should be a trigger")
	}
}

// TestInstantiateErrors 测试错误输入
func TestInstantiateErrors(t *testing.T) {
	em := ecs.NewEntityManager()
	inst := NewTemplateInstantiator(em)

	if _, err := inst.Instantiate(nil, 0, types.KindObstacle); err == nil {
		t.Error("Expected error for nil template")
	}
	if _, err := inst.Instantiate(testTemplate(), 42, types.KindObstacle); err == nil {
		t.Error("Expected error for missing parent")
	}
	if _, err := NewTemplateInstantiator(nil).Instantiate(testTemplate(), 0, types.KindObstacle); err == nil {
		t.Error("Expected error for nil entity manager")
	}
}

// TestDiscardRemovesImmediately 测试丢弃立即生效并从父节点摘除
func TestDiscardRemovesImmediately(t *testing.T) {
	em := ecs.NewEntityManager()
	group, _ := NewGroupEntity(em, 0, "generated/obstacles")
	inst := NewTemplateInstantiator(em)

	id, _ := inst.Instantiate(testTemplate(), group, types.KindObstacle)
	inst.Discard(id)

	if em.Exists(id) {
		t.Error("Discarded entity should be removed immediately")
	}
	if len(Children(em, group)) != 0 {
		t.Error("Discarded entity should be detached from its group")
	}
}
