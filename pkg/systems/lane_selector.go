package systems

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/utils"
)

// bandEpsilon 判断名义偏移是否已在安全带内的容差
const bandEpsilon = 1e-9

// LaneChoice 选行结果
type LaneChoice struct {
	Lane    int
	X       float64 // 最终横向偏移（已夹紧到安全带）
	Clamped bool    // 名义偏移是否被夹紧
}

// ClampToBand 把名义偏移夹紧到 [-usableHalf, +usableHalf]
func ClampToBand(x, usableHalf float64) (float64, bool) {
	clamped := utils.Clamp(x, -usableHalf, usableHalf)
	return clamped, clamped != x
}

// InBand 名义偏移是否无需夹紧
func InBand(x, usableHalf float64) bool {
	return math.Abs(x) <= usableHalf+bandEpsilon
}

// SelectLaneUniform 均匀选行
//
// 在候选行中均匀抽取一个，把名义偏移夹紧到安全带，jitter > 0 时
// 再叠加 [-jitter, +jitter] 的横向抖动并重新夹紧。
//
// 参数:
//   - candidates: 满足同行间距约束的候选行
//   - usableHalf: 当前实体的可用半宽
//   - jitter: 横向抖动幅度
//   - rng: 随机源
//
// 返回:
//   - 选行结果；候选为空时返回 false
func SelectLaneUniform(candidates []LaneSlot, usableHalf, jitter float64, rng utils.RandomSource) (LaneChoice, bool) {
	if len(candidates) == 0 {
		return LaneChoice{}, false
	}

	slot := candidates[rng.IntN(len(candidates))]
	x, clamped := ClampToBand(slot.X, usableHalf)
	if jitter > 0 {
		x, _ = ClampToBand(x+(rng.Float64()*2-1)*jitter, usableHalf)
	}
	return LaneChoice{Lane: slot.Index, X: x, Clamped: clamped}, true
}

// SelectLaneVariety 多样性评分选行
//
// 每个候选行的得分：
//   - 随机平局扰动 [0, tieBreakJitter)
//   - 蓝噪声项：Σ blueNoiseWeight × historyDecay^age × |x − x_hist|（age 0 为最近一次）
//   - 行号不在近期历史中的奖励
//   - 名义偏移已在安全带内的奖励
//   - 与上一次同行且连续次数已达上限时的惩罚
//
// 取最高分（同分取候选顺序靠前者，NaN 得分视为 -Inf）。若胜出的行已达到连续上限（例如它是唯一候选），
// 返回 false，调用方跳过该位置。
//
// 每个候选恰好消耗一次随机数，与分数无关，保证序列确定。
func SelectLaneVariety(candidates []LaneSlot, history *PlacementHistory, params config.VarietyConfig, usableHalf float64, rng utils.RandomSource) (LaneChoice, bool) {
	if len(candidates) == 0 {
		return LaneChoice{}, false
	}

	bestIdx := -1
	bestScore := math.Inf(-1)
	for i, slot := range candidates {
		score := rng.Float64()*params.TieBreakJitter + ScoreLane(slot, history, params, usableHalf)
		if math.IsNaN(score) {
			score = math.Inf(-1)
		}
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	// 所有得分都无效时退回第一个候选
	if bestIdx < 0 {
		bestIdx = 0
	}

	best := candidates[bestIdx]
	if streakCapped(best.Index, history, params) {
		return LaneChoice{}, false
	}

	x, clamped := ClampToBand(best.X, usableHalf)
	return LaneChoice{Lane: best.Index, X: x, Clamped: clamped}, true
}

// ScoreLane 候选行的确定性得分（不含随机平局扰动）
func ScoreLane(slot LaneSlot, history *PlacementHistory, params config.VarietyConfig, usableHalf float64) float64 {
	x, _ := ClampToBand(slot.X, usableHalf)
	score := 0.0

	if history != nil && params.BlueNoiseEnabled {
		entries := history.Entries()
		decay := 1.0
		for i := len(entries) - 1; i >= 0; i-- {
			score += params.BlueNoiseWeight * decay * math.Abs(x-entries[i].X)
			decay *= params.HistoryDecay
		}
	}

	if history == nil || !history.ContainsLane(slot.Index) {
		score += params.LaneNoveltyBonus
	}
	if InBand(slot.X, usableHalf) {
		score += params.InBandBonus
	}
	if streakCapped(slot.Index, history, params) {
		score -= params.StreakPenalty
	}
	return score
}

// streakCapped 该行是否与上一次同行且连续次数已达上限
func streakCapped(lane int, history *PlacementHistory, params config.VarietyConfig) bool {
	if history == nil || params.MaxSameLaneStreak <= 0 {
		return false
	}
	return lane == history.LastLane() && history.Streak() >= params.MaxSameLaneStreak
}

// LogLaneScores 输出各候选行的确定性得分（调试用）
func LogLaneScores(candidates []LaneSlot, history *PlacementHistory, params config.VarietyConfig, usableHalf float64, verbose bool) {
	if !verbose {
		return
	}
	var sb strings.Builder
	for _, slot := range candidates {
		fmt.Fprintf(&sb, " lane%d=%.3f", slot.Index, ScoreLane(slot, history, params, usableHalf))
	}
	recent := 0
	if history != nil {
		recent = history.Len()
	}
	log.Printf("[LaneSelector] Scores (history %d):%s", recent, sb.String())
}
