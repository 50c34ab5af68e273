package main

import (
	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/utils"
)

// Viewport 俯视视口：X 横向铺满赛道宽度，Z 向上增长
type Viewport struct {
	halfWidth float64 // 视口覆盖的世界半宽（含墙）
	width     float64 // 像素
	height    float64 // 像素
	offsetZ   float64 // 视口底部的世界 Z
	maxZ      float64
}

// NewViewport 按赛道配置创建视口
func NewViewport(cfg *config.TrackConfig, width, height int) Viewport {
	half := cfg.HalfTrackWidth + cfg.WallThickness
	if half <= 0 {
		half = 1
	}
	return Viewport{
		halfWidth: half,
		width:     float64(width),
		height:    float64(height),
		maxZ:      cfg.TrackLength + cfg.Finish.ZOffset,
	}
}

// PixelsPerUnit 每单位世界长度的像素数
func (v Viewport) PixelsPerUnit() float32 {
	return float32(v.width / (2 * v.halfWidth))
}

// NearZ 视口底部 Z
func (v Viewport) NearZ() float64 { return v.offsetZ }

// FarZ 视口顶部 Z
func (v Viewport) FarZ() float64 {
	return v.offsetZ + v.height/float64(v.PixelsPerUnit())
}

// Visible Z 是否落在视口内
func (v Viewport) Visible(z float64) bool {
	return z >= v.NearZ() && z <= v.FarZ()
}

// Scroll 沿赛道滚动，限制在 [0, maxZ]
func (v *Viewport) Scroll(dz float64) {
	v.offsetZ = utils.Clamp(v.offsetZ+dz, 0, max(0, v.maxZ))
}

// ToScreen 世界坐标 (x, z) 转屏幕像素（不含信息栏偏移）
func (v Viewport) ToScreen(x, z float64) (float32, float32) {
	sx := utils.Lerp(0, v.width, (x+v.halfWidth)/(2*v.halfWidth))
	sy := v.height - (z-v.offsetZ)*float64(v.PixelsPerUnit())
	return float32(sx), float32(sy)
}
