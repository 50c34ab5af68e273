package main

import (
	"math"

	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/game"
)

// ZPerRow 每个字符行对应的赛道长度
const ZPerRow = 2.0

// Rasterize 把布局投影成俯视字符网格
// 网格第 0 行是视口最远处，最后一行对应 Z = scrollZ * ZPerRow。
// 墙画成 '|'，行中心线画成 '.'，障碍物取模板 ID 首字母，星星为 '*'，终点门为 '='。
func Rasterize(layout *game.Layout, cfg *config.TrackConfig, cols, rows int, scrollZ float64) [][]rune {
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = make([]rune, cols)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}
	if cols < 3 || rows < 1 {
		return grid
	}

	half := cfg.HalfTrackWidth
	if half <= 0 {
		half = 1
	}
	colOf := func(x float64) int {
		c := int(math.Round((x + half) / (2 * half) * float64(cols-1)))
		return max(0, min(cols-1, c))
	}
	baseZ := scrollZ * ZPerRow
	rowOf := func(z float64) (int, bool) {
		r := rows - 1 - int(math.Floor((z-baseZ)/ZPerRow))
		return r, r >= 0 && r < rows
	}

	for r := range grid {
		grid[r][0] = '|'
		grid[r][cols-1] = '|'
		for _, x := range layout.LaneOffsets {
			if c := colOf(x); c > 0 && c < cols-1 {
				grid[r][c] = '.'
			}
		}
	}

	if layout.Gate != nil {
		if r, ok := rowOf(layout.Gate.Z); ok {
			for c := 1; c < cols-1; c++ {
				grid[r][c] = '='
			}
		}
	}
	for _, st := range layout.Stars {
		if r, ok := rowOf(st.Z); ok {
			grid[r][colOf(st.X)] = '*'
		}
	}
	for _, o := range layout.Obstacles {
		r, ok := rowOf(o.Z)
		if !ok {
			continue
		}
		mark := '#'
		if o.TemplateID != "" {
			mark = []rune(o.TemplateID)[0]
		}
		grid[r][colOf(o.X)] = mark
	}
	return grid
}
