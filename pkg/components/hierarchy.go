package components

import (
	"github.com/decker502/trackgen/pkg/ecs"
	"github.com/decker502/trackgen/pkg/types"
)

// HierarchyComponent 父子关系
// 生成器用分组节点组织生成的实体，清理时只遍历分组节点的 Children
type HierarchyComponent struct {
	Parent   ecs.EntityID   // 0 表示根
	Children []ecs.EntityID // 按创建顺序
}

// GeneratedComponent 标记实体由赛道生成器创建
// Group 是稳定的分组标识（如 "generated/obstacles"），手工内容没有这个组件
type GeneratedComponent struct {
	Group string
}

// TemplateComponent 记录实体由哪个模板实例化
type TemplateComponent struct {
	TemplateID string
	Kind       types.EntityKind
}
