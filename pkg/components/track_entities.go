package components

// GroundComponent 地面条带
type GroundComponent struct {
	Width  float64 // 2 × halfTrackWidth
	Length float64 // trackLength
}

// WallComponent 边界墙
type WallComponent struct {
	Side      int // -1 左墙，+1 右墙
	Thickness float64
	Height    float64
	Length    float64
}

// ObstacleComponent 障碍物的放置结果
type ObstacleComponent struct {
	TemplateID string
	Lane       int     // 行索引（0..laneCount-1）
	HalfWidth  float64 // 抖动后测得的横向半宽
}

// StarComponent 星星收集物的放置结果
type StarComponent struct {
	TemplateID string
	Lane       int
}

// FinishGateComponent 终点门
type FinishGateComponent struct {
	TemplateID  string
	UsableWidth float64 // 内墙面之间的可用宽度
	AutoScaled  bool
}

// HazardComponent "撞到玩家" 契约标记
// 具体伤害/失败逻辑属于玩法协作方，生成器只负责打标记
type HazardComponent struct {
	TemplateID string
}

// CollectibleComponent "被收集" 契约标记
type CollectibleComponent struct {
	Value int // 收集后的计分值，由玩法协作方解释
}
