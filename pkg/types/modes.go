package types

// LaneMode 障碍物选行策略
type LaneMode string

const (
	// LaneModeUniform 在合法行中均匀随机
	LaneModeUniform LaneMode = "uniform"
	// LaneModeVariety 多样性评分（蓝噪声 + 连续同行惩罚）
	LaneModeVariety LaneMode = "variety"
)

// LaneWidthMode 行布局可用半宽的计算方式
type LaneWidthMode string

const (
	// LaneWidthNominal 只扣除墙厚与墙边距
	LaneWidthNominal LaneWidthMode = "nominal"
	// LaneWidthWorstCase 额外扣除目录中最宽障碍物的半宽
	LaneWidthWorstCase LaneWidthMode = "worstCase"
)

// ScaleJitterOrder 缩放抖动相对于宽度测量的时机
type ScaleJitterOrder string

const (
	// ScaleBeforeMeasure 测量宽度前应用缩放
	ScaleBeforeMeasure ScaleJitterOrder = "beforeMeasure"
	// ScaleAfterLaneSelection 选行后再缩放，需要二次测量与重新决议
	ScaleAfterLaneSelection ScaleJitterOrder = "afterLaneSelection"
)

// Valid 检查选行策略是否合法
func (m LaneMode) Valid() bool {
	return m == LaneModeUniform || m == LaneModeVariety
}

// Valid 检查宽度模式是否合法
func (m LaneWidthMode) Valid() bool {
	return m == LaneWidthNominal || m == LaneWidthWorstCase
}

// Valid 检查缩放时机是否合法
func (o ScaleJitterOrder) Valid() bool {
	return o == ScaleBeforeMeasure || o == ScaleAfterLaneSelection
}
