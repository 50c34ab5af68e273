package systems

import (
	"math"
	"reflect"
	"testing"

	"github.com/decker502/trackgen/pkg/components"
	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/ecs"
	"github.com/decker502/trackgen/pkg/entities"
)

func runStars(t *testing.T, cfg *config.TrackConfig, catalog *config.CatalogConfig, obstacleZs [][]float64) (*StarPassResult, *testRig) {
	t.Helper()
	sanitized := cfg.Sanitized()
	rig := newTestRig(t, "generated/stars")
	lanes := ComputeLaneOffsets(sanitized.LaneCount, sanitized.UsableHalfWidth())
	sys := NewStarPlacementSystem(rig.em, &sanitized, catalog, rig.inst, rig.bounds)
	return sys.Run(rig.group, lanes, obstacleZs), rig
}

// TestStarClearance 开启避让时，星星不会放在同行障碍物的 clearanceZ 范围内
func TestStarClearance(t *testing.T) {
	catalog := newTestCatalog(t)

	for seed := int64(1); seed <= 10; seed++ {
		cfg := config.DefaultTrackConfig()
		cfg.Seed = seed
		cfg.Stars.RowSpawnProbability = 1
		cfg.Stars.ClearanceZ = 4

		obstacles, _ := runObstacles(t, cfg, catalog)
		stars, _ := runStars(t, cfg, catalog, obstacles.PlacedZs)

		for _, s := range stars.Placements {
			for _, oz := range obstacles.PlacedZs[s.Lane] {
				if math.Abs(oz-s.Z) < cfg.Stars.ClearanceZ {
					t.Errorf("seed %d: star at lane %d z=%.2f within %.2f of obstacle z=%.2f",
						seed, s.Lane, s.Z, cfg.Stars.ClearanceZ, oz)
				}
			}
		}
		if stars.Rows != len(stars.Placements)+stars.Blocked {
			t.Errorf("Every triggered row should be placed or blocked: rows=%d placed=%d blocked=%d",
				stars.Rows, len(stars.Placements), stars.Blocked)
		}
	}
}

// TestStarOverlapDisabled 关闭避让时忽略障碍物
func TestStarOverlapDisabled(t *testing.T) {
	catalog := newTestCatalog(t)
	cfg := config.DefaultTrackConfig()
	cfg.Stars.RowSpawnProbability = 1
	cfg.Stars.PreventObstacleOverlap = false

	// 每行每个 Z 都"有障碍物"
	blocked := make([][]float64, cfg.LaneCount)
	for lane := range blocked {
		for z := 0.0; z <= cfg.TrackLength; z += 0.5 {
			blocked[lane] = append(blocked[lane], z)
		}
	}

	stars, _ := runStars(t, cfg, catalog, blocked)
	if stars.Blocked != 0 || len(stars.Placements) == 0 {
		t.Errorf("Overlap check disabled: expected no blocked rows, got %d blocked, %d placed", stars.Blocked, len(stars.Placements))
	}
}

// TestStarOnePerRow 每行最多一颗星星，Z 严格递增
func TestStarOnePerRow(t *testing.T) {
	catalog := newTestCatalog(t)
	cfg := config.DefaultTrackConfig()
	cfg.Stars.RowSpawnProbability = 1

	stars, rig := runStars(t, cfg, catalog, nil)
	for i := 1; i < len(stars.Placements); i++ {
		if stars.Placements[i].Z <= stars.Placements[i-1].Z {
			t.Fatalf("Stars at index %d and %d share a row or go backwards", i-1, i)
		}
	}

	for _, id := range entities.Children(rig.em, rig.group) {
		col, ok := ecs.GetComponent[*components.CollectibleComponent](rig.em, id)
		if !ok || col.Value != 1 {
			t.Errorf("Star %d should expose the collectible contract with value 1", id)
		}
		tr, _ := ecs.GetComponent[*components.TransformComponent](rig.em, id)
		if math.Abs(tr.Y-cfg.Stars.HoverHeight) > floatTolerance {
			t.Errorf("Star should hover at %.2f above ground, got y=%.3f", cfg.Stars.HoverHeight, tr.Y)
		}
	}
}

// TestStarStreamIndependentOfObstacles 星星随机流不受障碍物开关影响
func TestStarStreamIndependentOfObstacles(t *testing.T) {
	catalog := newTestCatalog(t)
	cfg := config.DefaultTrackConfig()
	cfg.Stars.PreventObstacleOverlap = false

	first, _ := runStars(t, cfg, catalog, nil)

	// 换一个障碍物目录，障碍物布局完全不同，星星布局不变
	obstacles, _ := runObstacles(t, cfg, newSingleTypeCatalog(t))
	second, _ := runStars(t, cfg, catalog, obstacles.PlacedZs)

	if !reflect.DeepEqual(first.Placements, second.Placements) {
		t.Error("Star layout should not depend on obstacle layout when overlap prevention is off")
	}

	cfg.Stars.SeedOffset = 7
	third, _ := runStars(t, cfg, catalog, nil)
	if reflect.DeepEqual(first.Placements, third.Placements) {
		t.Error("Changing the star seed offset should change the star layout")
	}
}

// TestStarMissingTemplate 没有星星模板时跳过
func TestStarMissingTemplate(t *testing.T) {
	catalog := newTestCatalog(t)
	catalog.Star = ""

	stars, rig := runStars(t, config.DefaultTrackConfig(), catalog, nil)
	if len(stars.Placements) != 0 || len(entities.Children(rig.em, rig.group)) != 0 {
		t.Error("Expected no stars without a star template")
	}
}
