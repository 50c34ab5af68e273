package entities

import (
	"fmt"

	"github.com/decker502/trackgen/pkg/components"
	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/ecs"
	"github.com/decker502/trackgen/pkg/types"
)

// Instantiator 实例化能力
//
// 给定模板和父节点，产生一个可设置局部位置/旋转/缩放的实体。
// 编辑器工具和运行时使用同一条代码路径，宿主差异由实现方处理。
type Instantiator interface {
	Instantiate(tpl *config.TemplateConfig, parent ecs.EntityID, kind types.EntityKind) (ecs.EntityID, error)
	// Discard 立即丢弃一个刚实例化但放置失败的实体
	Discard(id ecs.EntityID)
}

// TemplateInstantiator 基于 EntityManager 的默认实例化实现
type TemplateInstantiator struct {
	em *ecs.EntityManager
}

// NewTemplateInstantiator 创建默认实例化器
func NewTemplateInstantiator(em *ecs.EntityManager) *TemplateInstantiator {
	return &TemplateInstantiator{em: em}
}

// Instantiate 按模板创建实体
//
// 写入单位变换、模板描述的可视包围盒与碰撞体，并挂到父节点下。
// 没有几何描述的模板仍然可以实例化，宽度测量时回退到近似半宽。
func (ti *TemplateInstantiator) Instantiate(tpl *config.TemplateConfig, parent ecs.EntityID, kind types.EntityKind) (ecs.EntityID, error) {
	if ti.em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if tpl == nil {
		return 0, fmt.Errorf("template cannot be nil")
	}
	if parent != 0 && !ti.em.Exists(parent) {
		return 0, fmt.Errorf("parent entity %d does not exist", parent)
	}

	id := ti.em.CreateEntity()
	ecs.AddComponent(ti.em, id, &components.TransformComponent{ScaleX: 1, ScaleY: 1, ScaleZ: 1})
	ecs.AddComponent(ti.em, id, &components.TemplateComponent{TemplateID: tpl.ID, Kind: kind})
	if tpl.Bounds != nil {
		ecs.AddComponent(ti.em, id, &components.BoundsComponent{Local: tpl.Bounds.AABB()})
	}
	if tpl.Collider != nil {
		ecs.AddComponent(ti.em, id, &components.ColliderComponent{
			Local:     tpl.Collider.AABB(),
			IsTrigger: kind == types.KindStar || kind == types.KindFinishGate,
		})
	}
	AttachToParent(ti.em, id, parent)
	return id, nil
}

// Discard 立即删除实体（不等待下一次 RemoveMarkedEntities）
func (ti *TemplateInstantiator) Discard(id ecs.EntityID) {
	if DestroyHierarchy(ti.em, id) > 0 {
		ti.em.RemoveMarkedEntities()
	}
}
