package systems

import (
	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/utils"
)

// WeightedSampler 按权重的离散采样
//
// 权重 ≤ 0 的条目被排除，不参与累积
type WeightedSampler struct {
	entries []config.WeightedEntry
	total   float64
}

// NewWeightedSampler 创建采样器，只保留正权重条目（顺序不变）
func NewWeightedSampler(entries []config.WeightedEntry) *WeightedSampler {
	s := &WeightedSampler{entries: make([]config.WeightedEntry, 0, len(entries))}
	for _, e := range entries {
		if e.Weight > 0 {
			s.entries = append(s.entries, e)
			s.total += e.Weight
		}
	}
	return s
}

// Total 返回正权重之和
func (s *WeightedSampler) Total() float64 {
	return s.total
}

// Len 返回参与采样的条目数
func (s *WeightedSampler) Len() int {
	return len(s.entries)
}

// Sample 抽取一个条目
//
// 抽取 u ~ Uniform(0, total)，沿累积权重行走，返回第一个累积和 ≥ u 的条目。
// 总权重为 0 时不消耗随机数，返回 false。
func (s *WeightedSampler) Sample(rng utils.RandomSource) (config.WeightedEntry, bool) {
	if s.total <= 0 || len(s.entries) == 0 {
		return config.WeightedEntry{}, false
	}

	u := rng.Float64() * s.total
	cumulative := 0.0
	for _, e := range s.entries {
		cumulative += e.Weight
		if cumulative >= u {
			return e, true
		}
	}
	// 浮点累积误差时落到最后一个条目
	return s.entries[len(s.entries)-1], true
}
