package config

import (
	"fmt"
	"log"
	"math"
	"os"

	"github.com/decker502/trackgen/pkg/types"
	"gopkg.in/yaml.v3"
)

// 退化配置的安全下限
const (
	// MinUsableHalfWidth 可用半宽的下限，任何扣减之后都不会低于这个值
	MinUsableHalfWidth = 0.05
	// MinHalfTrackWidth 赛道半宽的下限
	MinHalfTrackWidth = 0.05
	// MinGapStep 步进间隔的下限，保证沿赛道的循环一定终止
	MinGapStep = 0.01
	// MinScale 缩放抖动的下限
	MinScale = 0.01
	// DefaultStarSeedOffset 星星随机流相对障碍物随机流的种子偏移
	DefaultStarSeedOffset = 1000
)

// TrackConfig 一次赛道生成所需的全部参数
// 在一次生成过程中视为不可变
type TrackConfig struct {
	Seed        int64   `yaml:"seed"`        // 随机种子，相同种子 + 相同配置 = 完全相同的布局
	TrackLength float64 `yaml:"trackLength"` // 赛道长度（Z 方向）
	LaneCount   int     `yaml:"laneCount"`   // 行数（≥1）

	HalfTrackWidth          float64 `yaml:"halfTrackWidth"`          // 赛道半宽（墙中心线到赛道中心）
	WallThickness           float64 `yaml:"wallThickness"`           // 墙厚
	WallHeight              float64 `yaml:"wallHeight"`              // 墙高
	GroundThickness         float64 `yaml:"groundThickness"`         // 地面碰撞体厚度
	ObstaclePaddingFromWall float64 `yaml:"obstaclePaddingFromWall"` // 障碍物与内墙面的最小间距

	// LaneWidthMode nominal | worstCase
	LaneWidthMode      types.LaneWidthMode `yaml:"laneWidthMode" jsonschema:"enum=nominal,enum=worstCase"`
	MinUsableHalfWidth float64             `yaml:"minUsableHalfWidth"` // 可用半宽下限，默认 0.05

	Build     BuildToggles   `yaml:"build"`
	Obstacles ObstacleConfig `yaml:"obstacles"`
	Variety   VarietyConfig  `yaml:"variety"`
	Stars     StarConfig     `yaml:"stars"`
	Finish    FinishConfig   `yaml:"finish"`

	Verbose bool `yaml:"verbose"` // 输出逐个放置的调试日志
}

// BuildToggles 各生成阶段的开关
type BuildToggles struct {
	Ground              bool `yaml:"ground"`
	Walls               bool `yaml:"walls"`
	Finish              bool `yaml:"finish"`
	Obstacles           bool `yaml:"obstacles"`
	Stars               bool `yaml:"stars"`
	ClearBeforeGenerate bool `yaml:"clearBeforeGenerate"`
}

// ObstacleConfig 障碍物放置参数
type ObstacleConfig struct {
	StartZ           float64        `yaml:"startZ"`           // 起步安全区，行走从这里开始
	GapMin           float64        `yaml:"gapMin"`           // 步进间隔下界
	GapMax           float64        `yaml:"gapMax"`           // 步进间隔上界
	SpawnProbability float64        `yaml:"spawnProbability"` // 每一步尝试放置的概率
	MinForwardGap    float64        `yaml:"minForwardGap"`    // 同一行两个障碍物的最小 Z 间距
	LaneMode         types.LaneMode `yaml:"laneMode" jsonschema:"enum=uniform,enum=variety"`
	LaneJitter       float64        `yaml:"laneJitter"` // 均匀模式下的横向抖动幅度（0 关闭）
	MaxYaw           float64        `yaml:"maxYaw"`     // 偏航抖动幅度（度，0 关闭）
	Scale            ScaleJitter    `yaml:"scale"`
}

// ScaleJitter 均匀缩放抖动
type ScaleJitter struct {
	Enabled bool                   `yaml:"enabled"`
	Min     float64                `yaml:"min"`
	Max     float64                `yaml:"max"`
	Order   types.ScaleJitterOrder `yaml:"order" jsonschema:"enum=beforeMeasure,enum=afterLaneSelection"`
}

// VarietyConfig 多样性评分选行的权重
type VarietyConfig struct {
	TieBreakJitter    float64 `yaml:"tieBreakJitter"`    // 随机平局扰动幅度
	BlueNoiseEnabled  bool    `yaml:"blueNoiseEnabled"`  // 是否启用蓝噪声项
	BlueNoiseWeight   float64 `yaml:"blueNoiseWeight"`   // 蓝噪声项权重
	HistoryDecay      float64 `yaml:"historyDecay"`      // 每往前一步的衰减系数（0..1）
	HistorySize       int     `yaml:"historySize"`       // 放置历史窗口大小
	LaneNoveltyBonus  float64 `yaml:"laneNoveltyBonus"`  // 行号不在近期历史中的奖励
	InBandBonus       float64 `yaml:"inBandBonus"`       // 名义偏移已在安全带内（无需夹紧）的奖励
	StreakPenalty     float64 `yaml:"streakPenalty"`     // 同行连续达到上限时的惩罚
	MaxSameLaneStreak int     `yaml:"maxSameLaneStreak"` // 同行连续上限（0 不限制）
}

// StarConfig 星星放置参数
type StarConfig struct {
	SeedOffset             int64   `yaml:"seedOffset"`             // 独立随机流的种子偏移
	StartZ                 float64 `yaml:"startZ"`                 // 起始 Z
	GapMin                 float64 `yaml:"gapMin"`                 // 行间隔下界
	GapMax                 float64 `yaml:"gapMax"`                 // 行间隔上界
	RowSpawnProbability    float64 `yaml:"rowSpawnProbability"`    // 每行生成星星的概率
	PreventObstacleOverlap bool    `yaml:"preventObstacleOverlap"` // 是否避开同行障碍物
	ClearanceZ             float64 `yaml:"clearanceZ"`             // 与同行障碍物的最小 Z 距离
	HoverHeight            float64 `yaml:"hoverHeight"`            // 接地后再抬高的高度
}

// FinishConfig 终点门参数
type FinishConfig struct {
	ZOffset      float64 `yaml:"zOffset"`      // 相对 trackLength 的 Z 偏移
	HeightOffset float64 `yaml:"heightOffset"` // 接地后的高度偏移
	AutoScale    bool    `yaml:"autoScale"`    // 是否按内墙间宽度拉伸
}

// DefaultTrackConfig 返回默认赛道配置
func DefaultTrackConfig() *TrackConfig {
	return &TrackConfig{
		Seed:                    12345,
		TrackLength:             500,
		LaneCount:               3,
		HalfTrackWidth:          6,
		WallThickness:           0.5,
		WallHeight:              1.5,
		GroundThickness:         0.2,
		ObstaclePaddingFromWall: 0.25,
		LaneWidthMode:           types.LaneWidthNominal,
		MinUsableHalfWidth:      MinUsableHalfWidth,
		Build: BuildToggles{
			Ground:              true,
			Walls:               true,
			Finish:              true,
			Obstacles:           true,
			Stars:               true,
			ClearBeforeGenerate: true,
		},
		Obstacles: ObstacleConfig{
			StartZ:           0,
			GapMin:           6,
			GapMax:           14,
			SpawnProbability: 0.85,
			MinForwardGap:    10,
			LaneMode:         types.LaneModeVariety,
			LaneJitter:       0,
			MaxYaw:           15,
			Scale: ScaleJitter{
				Enabled: false,
				Min:     0.9,
				Max:     1.1,
				Order:   types.ScaleBeforeMeasure,
			},
		},
		Variety: VarietyConfig{
			TieBreakJitter:    0.01,
			BlueNoiseEnabled:  true,
			BlueNoiseWeight:   1.0,
			HistoryDecay:      0.7,
			HistorySize:       4,
			LaneNoveltyBonus:  0.5,
			InBandBonus:       0.05,
			StreakPenalty:     1000,
			MaxSameLaneStreak: 2,
		},
		Stars: StarConfig{
			SeedOffset:             DefaultStarSeedOffset,
			StartZ:                 0,
			GapMin:                 8,
			GapMax:                 16,
			RowSpawnProbability:    0.6,
			PreventObstacleOverlap: true,
			ClearanceZ:             3,
			HoverHeight:            0.5,
		},
		Finish: FinishConfig{
			ZOffset:      0,
			HeightOffset: 0,
			AutoScale:    true,
		},
	}
}

// LoadTrackConfig 从 YAML 文件加载赛道配置
// 文件中缺失的字段保留默认值
func LoadTrackConfig(filePath string) (*TrackConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read track config file %s: %w", filePath, err)
	}

	cfg, err := ParseTrackConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid track config in %s: %w", filePath, err)
	}
	return cfg, nil
}

// ParseTrackConfig 从 YAML 数据解析赛道配置（用于嵌入资源与测试）
func ParseTrackConfig(data []byte) (*TrackConfig, error) {
	cfg := DefaultTrackConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse track config YAML: %w", err)
	}

	if err := validateTrackConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MarshalTrackConfig 序列化赛道配置为 YAML
func MarshalTrackConfig(cfg *TrackConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal track config: %w", err)
	}
	return data, nil
}

// validateTrackConfig 只拒绝无法理解的取值（未知枚举）
// 数值上的退化配置不报错，生成前由 Sanitized 夹紧
func validateTrackConfig(cfg *TrackConfig) error {
	if cfg.LaneWidthMode != "" && !cfg.LaneWidthMode.Valid() {
		return fmt.Errorf("laneWidthMode must be one of: nominal, worstCase, got %q", cfg.LaneWidthMode)
	}
	if cfg.Obstacles.LaneMode != "" && !cfg.Obstacles.LaneMode.Valid() {
		return fmt.Errorf("obstacles.laneMode must be one of: uniform, variety, got %q", cfg.Obstacles.LaneMode)
	}
	if cfg.Obstacles.Scale.Order != "" && !cfg.Obstacles.Scale.Order.Valid() {
		return fmt.Errorf("obstacles.scale.order must be one of: beforeMeasure, afterLaneSelection, got %q", cfg.Obstacles.Scale.Order)
	}
	return nil
}

// Sanitized 返回夹紧到安全范围后的配置副本
//
// 退化配置（laneCount ≤ 0、宽度 ≤ 0、间隔非正等）不会导致生成失败，
// 而是被夹紧到安全下限并输出一条警告。
// NaN 与 ±Inf（YAML 中的 .nan / .inf）先被替换为默认值。
func (c *TrackConfig) Sanitized() TrackConfig {
	s := *c
	s.replaceNonFinite()

	if s.LaneCount < 1 {
		log.Printf("[TrackConfig] WARNING: laneCount %d < 1, clamped to 1", s.LaneCount)
		s.LaneCount = 1
	}
	if s.TrackLength < 0 {
		log.Printf("[TrackConfig] WARNING: trackLength %.2f < 0, clamped to 0", s.TrackLength)
		s.TrackLength = 0
	}
	if s.HalfTrackWidth < MinHalfTrackWidth {
		log.Printf("[TrackConfig] WARNING: halfTrackWidth %.3f too small, clamped to %.2f", s.HalfTrackWidth, MinHalfTrackWidth)
		s.HalfTrackWidth = MinHalfTrackWidth
	}
	s.WallThickness = nonNegative(s.WallThickness)
	s.WallHeight = nonNegative(s.WallHeight)
	s.GroundThickness = nonNegative(s.GroundThickness)
	s.ObstaclePaddingFromWall = nonNegative(s.ObstaclePaddingFromWall)
	if s.MinUsableHalfWidth <= 0 {
		s.MinUsableHalfWidth = MinUsableHalfWidth
	}
	if !s.LaneWidthMode.Valid() {
		s.LaneWidthMode = types.LaneWidthNominal
	}

	o := &s.Obstacles
	o.StartZ = nonNegative(o.StartZ)
	o.GapMin, o.GapMax = sanitizeGap("obstacles", o.GapMin, o.GapMax)
	o.SpawnProbability = clamp01(o.SpawnProbability)
	o.MinForwardGap = nonNegative(o.MinForwardGap)
	if !o.LaneMode.Valid() {
		o.LaneMode = types.LaneModeUniform
	}
	o.LaneJitter = nonNegative(o.LaneJitter)
	o.MaxYaw = clampRange(o.MaxYaw, 0, 180)
	if o.Scale.Min < MinScale {
		o.Scale.Min = MinScale
	}
	if o.Scale.Max < o.Scale.Min {
		o.Scale.Max = o.Scale.Min
	}
	if !o.Scale.Order.Valid() {
		o.Scale.Order = types.ScaleBeforeMeasure
	}

	v := &s.Variety
	v.TieBreakJitter = nonNegative(v.TieBreakJitter)
	v.HistoryDecay = clamp01(v.HistoryDecay)
	if v.HistorySize < 0 {
		v.HistorySize = 0
	}
	if v.MaxSameLaneStreak < 0 {
		v.MaxSameLaneStreak = 0
	}
	v.StreakPenalty = nonNegative(v.StreakPenalty)

	st := &s.Stars
	st.StartZ = nonNegative(st.StartZ)
	st.GapMin, st.GapMax = sanitizeGap("stars", st.GapMin, st.GapMax)
	st.RowSpawnProbability = clamp01(st.RowSpawnProbability)
	st.ClearanceZ = nonNegative(st.ClearanceZ)

	return s
}

// UsableHalfWidth 名义可用半宽：halfTrackWidth − wallThickness/2 − obstaclePaddingFromWall
// 结果不会低于 MinUsableHalfWidth
func (c *TrackConfig) UsableHalfWidth() float64 {
	return c.UsableHalfWidthFor(0)
}

// UsableHalfWidthFor 扣除实体半宽后的可用半宽
func (c *TrackConfig) UsableHalfWidthFor(halfWidth float64) float64 {
	floor := c.MinUsableHalfWidth
	if floor <= 0 {
		floor = MinUsableHalfWidth
	}
	usable := c.HalfTrackWidth - c.WallThickness/2 - c.ObstaclePaddingFromWall - halfWidth
	if usable < floor {
		return floor
	}
	return usable
}

// InnerWidth 两侧内墙面之间的宽度：2×halfTrackWidth − wallThickness
func (c *TrackConfig) InnerWidth() float64 {
	w := 2*c.HalfTrackWidth - c.WallThickness
	if w < MinUsableHalfWidth*2 {
		return MinUsableHalfWidth * 2
	}
	return w
}

// replaceNonFinite 把所有非有限的浮点字段替换为 DefaultTrackConfig 中的对应值
func (c *TrackConfig) replaceNonFinite() {
	d := DefaultTrackConfig()
	fields := []struct {
		name string
		v    *float64
		def  float64
	}{
		{"trackLength", &c.TrackLength, d.TrackLength},
		{"halfTrackWidth", &c.HalfTrackWidth, d.HalfTrackWidth},
		{"wallThickness", &c.WallThickness, d.WallThickness},
		{"wallHeight", &c.WallHeight, d.WallHeight},
		{"groundThickness", &c.GroundThickness, d.GroundThickness},
		{"obstaclePaddingFromWall", &c.ObstaclePaddingFromWall, d.ObstaclePaddingFromWall},
		{"minUsableHalfWidth", &c.MinUsableHalfWidth, d.MinUsableHalfWidth},
		{"obstacles.startZ", &c.Obstacles.StartZ, d.Obstacles.StartZ},
		{"obstacles.gapMin", &c.Obstacles.GapMin, d.Obstacles.GapMin},
		{"obstacles.gapMax", &c.Obstacles.GapMax, d.Obstacles.GapMax},
		{"obstacles.spawnProbability", &c.Obstacles.SpawnProbability, d.Obstacles.SpawnProbability},
		{"obstacles.minForwardGap", &c.Obstacles.MinForwardGap, d.Obstacles.MinForwardGap},
		{"obstacles.laneJitter", &c.Obstacles.LaneJitter, d.Obstacles.LaneJitter},
		{"obstacles.maxYaw", &c.Obstacles.MaxYaw, d.Obstacles.MaxYaw},
		{"obstacles.scale.min", &c.Obstacles.Scale.Min, d.Obstacles.Scale.Min},
		{"obstacles.scale.max", &c.Obstacles.Scale.Max, d.Obstacles.Scale.Max},
		{"variety.tieBreakJitter", &c.Variety.TieBreakJitter, d.Variety.TieBreakJitter},
		{"variety.blueNoiseWeight", &c.Variety.BlueNoiseWeight, d.Variety.BlueNoiseWeight},
		{"variety.historyDecay", &c.Variety.HistoryDecay, d.Variety.HistoryDecay},
		{"variety.laneNoveltyBonus", &c.Variety.LaneNoveltyBonus, d.Variety.LaneNoveltyBonus},
		{"variety.inBandBonus", &c.Variety.InBandBonus, d.Variety.InBandBonus},
		{"variety.streakPenalty", &c.Variety.StreakPenalty, d.Variety.StreakPenalty},
		{"stars.startZ", &c.Stars.StartZ, d.Stars.StartZ},
		{"stars.gapMin", &c.Stars.GapMin, d.Stars.GapMin},
		{"stars.gapMax", &c.Stars.GapMax, d.Stars.GapMax},
		{"stars.rowSpawnProbability", &c.Stars.RowSpawnProbability, d.Stars.RowSpawnProbability},
		{"stars.clearanceZ", &c.Stars.ClearanceZ, d.Stars.ClearanceZ},
		{"stars.hoverHeight", &c.Stars.HoverHeight, d.Stars.HoverHeight},
		{"finish.zOffset", &c.Finish.ZOffset, d.Finish.ZOffset},
		{"finish.heightOffset", &c.Finish.HeightOffset, d.Finish.HeightOffset},
	}

	for _, f := range fields {
		if math.IsNaN(*f.v) || math.IsInf(*f.v, 0) {
			log.Printf("[TrackConfig] WARNING: %s is %v, replaced with default %.2f", f.name, *f.v, f.def)
			*f.v = f.def
		}
	}
}

func sanitizeGap(pass string, gapMin, gapMax float64) (float64, float64) {
	if gapMin < MinGapStep {
		log.Printf("[TrackConfig] WARNING: %s.gapMin %.3f too small, clamped to %.2f", pass, gapMin, MinGapStep)
		gapMin = MinGapStep
	}
	if gapMax < gapMin {
		gapMax = gapMin
	}
	return gapMin, gapMax
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
