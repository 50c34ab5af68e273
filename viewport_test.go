package main

import (
	"testing"

	"github.com/decker502/trackgen/pkg/config"
)

// TestViewportProjection 测试世界坐标到屏幕的投影
func TestViewportProjection(t *testing.T) {
	cfg := config.DefaultTrackConfig()
	cfg.HalfTrackWidth = 5.5
	cfg.WallThickness = 0.5
	cfg.TrackLength = 100

	v := NewViewport(cfg, 480, 400)
	if got := v.PixelsPerUnit(); got != 40 {
		t.Fatalf("PixelsPerUnit = %v, want 40", got)
	}

	tests := []struct {
		name         string
		x, z         float64
		wantX, wantY float32
	}{
		{"left edge at near z", -6, 0, 0, 400},
		{"center", 0, 5, 240, 200},
		{"right edge at far z", 6, 10, 480, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := v.ToScreen(tt.x, tt.z)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("ToScreen(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.z, x, y, tt.wantX, tt.wantY)
			}
		})
	}

	if !v.Visible(10) || v.Visible(10.5) {
		t.Error("Visible range should be [0, 10]")
	}
}

// TestViewportScrollClamp 测试滚动范围
func TestViewportScrollClamp(t *testing.T) {
	cfg := config.DefaultTrackConfig()
	cfg.TrackLength = 50
	cfg.Finish.ZOffset = 2

	v := NewViewport(cfg, 480, 400)
	v.Scroll(-10)
	if v.NearZ() != 0 {
		t.Errorf("Scroll below zero should clamp, got %v", v.NearZ())
	}
	v.Scroll(1000)
	if v.NearZ() != 52 {
		t.Errorf("Scroll past the finish should clamp to 52, got %v", v.NearZ())
	}
}

// TestPreviewRegenerate 使用内嵌配置驱动预览
func TestPreviewRegenerate(t *testing.T) {
	cfg, err := config.ParseTrackConfig(mustRead(t, "data/track.yaml"))
	if err != nil {
		t.Fatalf("ParseTrackConfig failed: %v", err)
	}
	catalog, err := config.ParseCatalogConfig(mustRead(t, "data/catalog.yaml"))
	if err != nil {
		t.Fatalf("ParseCatalogConfig failed: %v", err)
	}

	p, err := NewPreview(cfg, catalog, nil)
	if err != nil {
		t.Fatalf("NewPreview failed: %v", err)
	}
	if p.layout == nil {
		t.Fatal("Expected initial layout")
	}

	count := p.em.EntityCount()
	p.regenerate(cfg.Seed + 1)
	p.regenerate(cfg.Seed)
	if p.em.EntityCount() != count {
		t.Errorf("Regenerating the same seed should restore entity count %d, got %d", count, p.em.EntityCount())
	}
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := dataFS.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}
