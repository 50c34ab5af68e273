package entities

import (
	"fmt"

	"github.com/decker502/trackgen/pkg/components"
	"github.com/decker502/trackgen/pkg/ecs"
	"github.com/decker502/trackgen/pkg/types"
)

// NewGroupEntity 创建分组节点
//
// 分组节点本身没有几何，只用来组织子实体。group 是稳定的分组标识，
// 清理时生成器按分组标识找到节点，只删除节点下的子树。
//
// 参数:
//   - em: 实体管理器
//   - parent: 父节点（0 表示场景根）
//   - group: 分组标识，如 "generated/obstacles"
//
// 返回:
//   - ecs.EntityID: 分组节点ID
//   - error: 参数非法时返回错误
func NewGroupEntity(em *ecs.EntityManager, parent ecs.EntityID, group string) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if group == "" {
		return 0, fmt.Errorf("group id cannot be empty")
	}
	if parent != 0 && !em.Exists(parent) {
		return 0, fmt.Errorf("parent entity %d does not exist", parent)
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.TransformComponent{ScaleX: 1, ScaleY: 1, ScaleZ: 1})
	ecs.AddComponent(em, id, &components.HierarchyComponent{})
	ecs.AddComponent(em, id, &components.GeneratedComponent{Group: group})
	ecs.AddComponent(em, id, &components.TemplateComponent{TemplateID: group, Kind: types.KindGroup})
	AttachToParent(em, id, parent)
	return id, nil
}

// AttachToParent 建立父子关系，子实体继承父节点的生成分组标记
func AttachToParent(em *ecs.EntityManager, child, parent ecs.EntityID) {
	hier, ok := ecs.GetComponent[*components.HierarchyComponent](em, child)
	if !ok {
		hier = &components.HierarchyComponent{}
		ecs.AddComponent(em, child, hier)
	}
	hier.Parent = parent
	if parent == 0 {
		return
	}

	parentHier, ok := ecs.GetComponent[*components.HierarchyComponent](em, parent)
	if !ok {
		parentHier = &components.HierarchyComponent{}
		ecs.AddComponent(em, parent, parentHier)
	}
	parentHier.Children = append(parentHier.Children, child)

	if gen, ok := ecs.GetComponent[*components.GeneratedComponent](em, parent); ok {
		if !ecs.HasComponent[*components.GeneratedComponent](em, child) {
			ecs.AddComponent(em, child, &components.GeneratedComponent{Group: gen.Group})
		}
	}
}

// Children 返回节点的直接子实体（副本）
func Children(em *ecs.EntityManager, id ecs.EntityID) []ecs.EntityID {
	hier, ok := ecs.GetComponent[*components.HierarchyComponent](em, id)
	if !ok {
		return nil
	}
	out := make([]ecs.EntityID, len(hier.Children))
	copy(out, hier.Children)
	return out
}

// DestroyChildren 标记删除节点下的整棵子树，保留节点本身
// 返回被标记的实体数量
func DestroyChildren(em *ecs.EntityManager, id ecs.EntityID) int {
	hier, ok := ecs.GetComponent[*components.HierarchyComponent](em, id)
	if !ok {
		return 0
	}
	count := 0
	for _, child := range hier.Children {
		count += destroyRecursive(em, child)
	}
	hier.Children = hier.Children[:0]
	return count
}

// DestroyHierarchy 标记删除实体及其整棵子树，并从父节点的子列表中摘除
// 返回被标记的实体数量
func DestroyHierarchy(em *ecs.EntityManager, id ecs.EntityID) int {
	if !em.Exists(id) {
		return 0
	}
	if hier, ok := ecs.GetComponent[*components.HierarchyComponent](em, id); ok && hier.Parent != 0 {
		detach(em, hier.Parent, id)
	}
	return destroyRecursive(em, id)
}

func destroyRecursive(em *ecs.EntityManager, id ecs.EntityID) int {
	if !em.Exists(id) {
		return 0
	}
	count := 1
	if hier, ok := ecs.GetComponent[*components.HierarchyComponent](em, id); ok {
		for _, child := range hier.Children {
			count += destroyRecursive(em, child)
		}
	}
	em.DestroyEntity(id)
	return count
}

func detach(em *ecs.EntityManager, parent, child ecs.EntityID) {
	hier, ok := ecs.GetComponent[*components.HierarchyComponent](em, parent)
	if !ok {
		return
	}
	for i, c := range hier.Children {
		if c == child {
			hier.Children = append(hier.Children[:i], hier.Children[i+1:]...)
			return
		}
	}
}
