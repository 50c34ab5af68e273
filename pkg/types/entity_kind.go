// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

// EntityKind 定义赛道生成实体的种类
type EntityKind int

const (
	// KindUnknown 未知种类（手工放置的内容）
	KindUnknown EntityKind = iota
	// KindGroup 分组节点
	KindGroup
	// KindGround 地面条带
	KindGround
	// KindWall 边界墙
	KindWall
	// KindObstacle 障碍物
	KindObstacle
	// KindStar 星星收集物
	KindStar
	// KindFinishGate 终点门
	KindFinishGate
)

// String 返回实体种类的字符串表示
func (k EntityKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindGround:
		return "ground"
	case KindWall:
		return "wall"
	case KindObstacle:
		return "obstacle"
	case KindStar:
		return "star"
	case KindFinishGate:
		return "finish"
	default:
		return "unknown"
	}
}
