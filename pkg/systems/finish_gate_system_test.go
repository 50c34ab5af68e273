package systems

import (
	"math"
	"testing"

	"github.com/decker502/trackgen/pkg/components"
	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/ecs"
)

// TestFinishGatePlacement 测试位置、朝向、自动缩放与接地
func TestFinishGatePlacement(t *testing.T) {
	catalog := newTestCatalog(t)

	tests := []struct {
		name       string
		autoScale  bool
		zOffset    float64
		height     float64
		wantScaleX float64
		wantY      float64
	}{
		// 内墙间宽度 2×6 − 0.5 = 11.5，参考宽度 10
		{"自动缩放", true, 0, 0, 1.15, 0},
		{"不缩放带偏移", false, 5, 0.2, 1, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultTrackConfig()
			cfg.Finish.AutoScale = tt.autoScale
			cfg.Finish.ZOffset = tt.zOffset
			cfg.Finish.HeightOffset = tt.height

			rig := newTestRig(t, "generated/finish")
			sys := NewFinishGateSystem(rig.em, cfg, catalog, rig.inst, rig.bounds)
			gate := sys.Place(rig.group)
			if gate == nil {
				t.Fatal("Expected a gate placement")
			}

			if math.Abs(gate.Z-(cfg.TrackLength+tt.zOffset)) > floatTolerance {
				t.Errorf("Expected z=%.2f, got %.2f", cfg.TrackLength+tt.zOffset, gate.Z)
			}
			if gate.Yaw != FinishGateYaw {
				t.Errorf("Gate should face back along the track, yaw=%.1f", gate.Yaw)
			}
			if math.Abs(gate.ScaleX-tt.wantScaleX) > floatTolerance {
				t.Errorf("Expected scaleX %.3f, got %.3f", tt.wantScaleX, gate.ScaleX)
			}
			// 碰撞体底面在 0，可视几何底面也在 0
			if math.Abs(gate.Y-tt.wantY) > floatTolerance {
				t.Errorf("Expected y=%.3f, got %.3f", tt.wantY, gate.Y)
			}
			if math.Abs(gate.UsableWidth-11.5) > floatTolerance {
				t.Errorf("Expected usable width 11.5, got %.3f", gate.UsableWidth)
			}
		})
	}
}

// TestFinishGateGroundingPrefersCollider 接地优先使用碰撞体
func TestFinishGateGroundingPrefersCollider(t *testing.T) {
	catalog := &config.CatalogConfig{
		Templates: []config.TemplateConfig{{
			ID:       "arch",
			Bounds:   box(0, 2, 0, 8, 4, 0.5), // 底面 y=0
			Collider: box(0, 1, 0, 8, 4, 0.5), // 底面 y=-1
		}},
		FinishGate: "arch",
	}
	if err := catalog.Prepare(); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	cfg := config.DefaultTrackConfig()
	rig := newTestRig(t, "generated/finish")
	gate := NewFinishGateSystem(rig.em, cfg, catalog, rig.inst, rig.bounds).Place(rig.group)
	if gate == nil {
		t.Fatal("Expected a gate placement")
	}
	if math.Abs(gate.Y-1) > floatTolerance {
		t.Errorf("Expected collider-based grounding y=1, got %.3f", gate.Y)
	}
	// 没有参考宽度时用测得的宽度：11.5 / 8
	if math.Abs(gate.ScaleX-11.5/8) > floatTolerance {
		t.Errorf("Expected measured-width scaleX %.4f, got %.4f", 11.5/8, gate.ScaleX)
	}

	gates := ecs.GetEntitiesWith1[*components.FinishGateComponent](rig.em)
	if len(gates) != 1 {
		t.Fatalf("Expected one gate entity, got %d", len(gates))
	}
	col, _ := ecs.GetComponent[*components.ColliderComponent](rig.em, gates[0])
	if !col.IsTrigger {
		t.Error("Gate collider should be a trigger")
	}
}

// TestFinishGateMissingTemplate 没有终点门模板时跳过
func TestFinishGateMissingTemplate(t *testing.T) {
	catalog := newTestCatalog(t)
	catalog.FinishGate = ""

	rig := newTestRig(t, "generated/finish")
	if gate := NewFinishGateSystem(rig.em, config.DefaultTrackConfig(), catalog, rig.inst, rig.bounds).Place(rig.group); gate != nil {
		t.Errorf("Expected no gate, got %+v", gate)
	}
}
