package systems

import (
	"log"

	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/types"
)

// LaneSlot 一个行槽位
// 每次生成重新计算，不保存
type LaneSlot struct {
	Index int     // 0..laneCount-1
	X     float64 // 名义横向偏移
}

// ComputeLaneOffsets 在 [-usableHalfWidth, +usableHalfWidth] 上均匀分布 laneCount 个行中心
//
// 参数:
//   - laneCount: 行数，小于 1 时按 1 处理
//   - usableHalfWidth: 可用半宽，低于 MinUsableHalfWidth 时夹紧
//
// 返回:
//   - 按索引升序的行槽位；单行时偏移为 0
func ComputeLaneOffsets(laneCount int, usableHalfWidth float64) []LaneSlot {
	if laneCount < 1 {
		laneCount = 1
	}
	if usableHalfWidth < config.MinUsableHalfWidth {
		usableHalfWidth = config.MinUsableHalfWidth
	}

	slots := make([]LaneSlot, laneCount)
	if laneCount == 1 {
		slots[0] = LaneSlot{Index: 0, X: 0}
		return slots
	}

	step := 2 * usableHalfWidth / float64(laneCount-1)
	for i := range slots {
		slots[i] = LaneSlot{Index: i, X: -usableHalfWidth + float64(i)*step}
	}
	// 端点直接取边界值，避免累积误差落到带外
	slots[laneCount-1].X = usableHalfWidth
	return slots
}

// LayoutUsableHalfWidth 行布局使用的可用半宽
//
// nominal 模式只扣除墙厚一半与墙边距；worstCase 模式再扣除目录中
// 最宽障碍物（无偏航、按最大缩放）的半宽，保证任何实体放在行中心都不会碰墙。
func LayoutUsableHalfWidth(cfg *config.TrackConfig, catalog *config.CatalogConfig) float64 {
	if cfg.LaneWidthMode != types.LaneWidthWorstCase || catalog == nil {
		return cfg.UsableHalfWidth()
	}

	maxScale := 1.0
	if cfg.Obstacles.Scale.Enabled && cfg.Obstacles.Scale.Max > maxScale {
		maxScale = cfg.Obstacles.Scale.Max
	}
	widest := WidestObstacleHalfWidth(catalog, maxScale)
	usable := cfg.UsableHalfWidthFor(widest)

	if cfg.Verbose {
		log.Printf("[LaneLayout] worstCase: widest obstacle half-width %.3f (scale %.2f), usable half-width %.3f",
			widest, maxScale, usable)
	}
	return usable
}

// WidestObstacleHalfWidth 目录中所有参与采样的障碍物模板的最大半宽
func WidestObstacleHalfWidth(catalog *config.CatalogConfig, scale float64) float64 {
	widest := 0.0
	for _, entry := range catalog.Obstacles {
		if entry.Weight <= 0 {
			continue
		}
		tpl, ok := catalog.Template(entry.Template)
		if !ok {
			continue
		}
		if hw := TemplateHalfWidth(catalog, tpl, scale); hw > widest {
			widest = hw
		}
	}
	return widest
}
