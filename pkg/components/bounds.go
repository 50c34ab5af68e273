package components

import "github.com/decker502/trackgen/pkg/types"

// BoundsComponent 实体的可视几何包围盒（相对枢轴，未缩放、未旋转）
// 由模板实例化时写入，供 BoundsEstimator 测量宽度和接地
type BoundsComponent struct {
	Local types.AABB
}

// ColliderComponent 实体的碰撞体包围盒（相对枢轴，未缩放、未旋转）
// 物理协作方用它做碰撞检测；接地时优先使用碰撞体
type ColliderComponent struct {
	Local     types.AABB
	IsTrigger bool // 触发器（星星、终点门）不产生物理阻挡
}
