package main

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/game"
)

// LaneStats 单行统计
type LaneStats struct {
	Obstacles int
	Stars     int
	MinGap    float64 // 同行相邻障碍物的最小 Z 间距，少于两个障碍物时为 +Inf
}

// ComputeLaneStats 按行统计布局
func ComputeLaneStats(layout *game.Layout) []LaneStats {
	stats := make([]LaneStats, len(layout.LaneOffsets))
	lastZ := make([]float64, len(stats))
	for i := range stats {
		stats[i].MinGap = math.Inf(1)
		lastZ[i] = math.NaN()
	}

	for _, o := range layout.Obstacles {
		if o.Lane < 0 || o.Lane >= len(stats) {
			continue
		}
		s := &stats[o.Lane]
		if !math.IsNaN(lastZ[o.Lane]) {
			s.MinGap = math.Min(s.MinGap, o.Z-lastZ[o.Lane])
		}
		lastZ[o.Lane] = o.Z
		s.Obstacles++
	}
	for _, st := range layout.Stars {
		if st.Lane >= 0 && st.Lane < len(stats) {
			stats[st.Lane].Stars++
		}
	}
	return stats
}

// FormatStats 输出人类可读的布局摘要
func FormatStats(layout *game.Layout, cfg *config.TrackConfig) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "seed:              %d\n", layout.Seed)
	fmt.Fprintf(&sb, "track length:      %.1f\n", cfg.TrackLength)
	fmt.Fprintf(&sb, "usable half-width: %.3f\n", layout.UsableHalfWidth)
	fmt.Fprintf(&sb, "obstacles:         %d (%d attempts, %d skipped)\n",
		len(layout.Obstacles), layout.ObstacleAttempts, layout.SkippedObstacleSlots)
	fmt.Fprintf(&sb, "stars:             %d (%d rows, %d blocked)\n",
		len(layout.Stars), layout.StarRows, layout.BlockedStarRows)
	if layout.Gate != nil {
		fmt.Fprintf(&sb, "finish gate:       %s at z=%.1f scaleX=%.3f\n", layout.Gate.TemplateID, layout.Gate.Z, layout.Gate.ScaleX)
	}

	counts := layout.CountByTemplate()
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	sb.WriteString("\nby template:\n")
	for _, id := range ids {
		share := 0.0
		if len(layout.Obstacles) > 0 {
			share = float64(counts[id]) / float64(len(layout.Obstacles))
		}
		fmt.Fprintf(&sb, "  %-12s %4d  %5.1f%%\n", id, counts[id], share*100)
	}

	sb.WriteString("\nby lane:\n")
	for i, s := range ComputeLaneStats(layout) {
		gap := "-"
		if !math.IsInf(s.MinGap, 1) {
			gap = fmt.Sprintf("%.2f", s.MinGap)
		}
		fmt.Fprintf(&sb, "  lane %d (x=%+.2f): %3d obstacles, %3d stars, min gap %s\n",
			i, layout.LaneOffsets[i], s.Obstacles, s.Stars, gap)
	}
	return sb.String()
}
