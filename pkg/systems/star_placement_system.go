package systems

import (
	"log"
	"math"

	"github.com/decker502/trackgen/pkg/components"
	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/ecs"
	"github.com/decker502/trackgen/pkg/entities"
	"github.com/decker502/trackgen/pkg/types"
	"github.com/decker502/trackgen/pkg/utils"
)

// StarPlacement 一个已放置星星的最终结果
type StarPlacement struct {
	TemplateID string  `yaml:"template"`
	Lane       int     `yaml:"lane"`
	Z          float64 `yaml:"z"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
}

// StarPassResult 一次星星放置过程的结果
type StarPassResult struct {
	Placements []StarPlacement
	Rows       int // 通过行概率检定的行数
	Blocked    int // 因与同行障碍物过近而放弃的行数
}

// StarPlacementSystem 星星收集物放置
//
// 使用独立的随机流（seed + seedOffset），开关星星不会扰动障碍物布局。
// 每行最多放一颗星星。
type StarPlacementSystem struct {
	em           *ecs.EntityManager
	cfg          *config.TrackConfig
	catalog      *config.CatalogConfig
	instantiator entities.Instantiator
	bounds       BoundsEstimator

	// OnSpawn 可选的生成回调
	OnSpawn SpawnFunc
}

// NewStarPlacementSystem 创建星星放置系统
func NewStarPlacementSystem(
	em *ecs.EntityManager,
	cfg *config.TrackConfig,
	catalog *config.CatalogConfig,
	instantiator entities.Instantiator,
	bounds BoundsEstimator,
) *StarPlacementSystem {
	return &StarPlacementSystem{
		em:           em,
		cfg:          cfg,
		catalog:      catalog,
		instantiator: instantiator,
		bounds:       bounds,
	}
}

// StarSeed 星星随机流的种子
func StarSeed(cfg *config.TrackConfig) int64 {
	return cfg.Seed + cfg.Stars.SeedOffset
}

// Run 执行一次完整的星星放置
//
// 参数:
//   - parent: 星星分组节点
//   - lanes: 本次生成的行槽位
//   - obstacleZs: 每行已放置障碍物的 Z 值（可为 nil）
func (s *StarPlacementSystem) Run(parent ecs.EntityID, lanes []LaneSlot, obstacleZs [][]float64) *StarPassResult {
	result := &StarPassResult{}

	if s.catalog.Star == "" {
		log.Printf("[StarPlacement] WARNING: no star template configured, skipping star pass")
		return result
	}
	tpl, ok := s.catalog.Template(s.catalog.Star)
	if !ok {
		log.Printf("[StarPlacement] WARNING: star template %q not found, skipping star pass", s.catalog.Star)
		return result
	}
	if len(lanes) == 0 {
		return result
	}

	st := s.cfg.Stars
	rng := utils.NewRandomStream(StarSeed(s.cfg))
	for z := st.StartZ; z <= s.cfg.TrackLength; z += rng.Range(st.GapMin, st.GapMax) {
		if !rng.Chance(st.RowSpawnProbability) {
			continue
		}
		result.Rows++

		slot := lanes[rng.IntN(len(lanes))]
		if st.PreventObstacleOverlap && slot.Index < len(obstacleZs) &&
			tooClose(obstacleZs[slot.Index], z, st.ClearanceZ) {
			result.Blocked++
			continue
		}

		if placement, ok := s.place(tpl, parent, slot, z); ok {
			result.Placements = append(result.Placements, placement)
		}
	}

	log.Printf("[StarPlacement] Placed %d stars (%d rows, %d blocked by obstacles, seed %d)",
		len(result.Placements), result.Rows, result.Blocked, rng.Seed())
	if s.cfg.Verbose {
		log.Printf("[StarPlacement] Random stream consumed %d draws", rng.Draws())
	}
	return result
}

// place 实例化并接地一颗星星
func (s *StarPlacementSystem) place(tpl *config.TemplateConfig, parent ecs.EntityID, slot LaneSlot, z float64) (StarPlacement, bool) {
	id, err := s.instantiator.Instantiate(tpl, parent, types.KindStar)
	if err != nil {
		log.Printf("[StarPlacement] WARNING: failed to instantiate %q: %v", tpl.ID, err)
		return StarPlacement{}, false
	}
	tr, _ := ecs.GetComponent[*components.TransformComponent](s.em, id)

	halfWidth, _ := MeasureHalfWidth(s.bounds, id, s.catalog, tpl, 1)
	x, _ := ClampToBand(slot.X, s.cfg.UsableHalfWidthFor(halfWidth))

	tr.X = x
	tr.Z = z
	tr.Y = s.cfg.Stars.HoverHeight
	if lowest, ok := s.bounds.LowestPoint(id, false); ok {
		tr.Y = -lowest + s.cfg.Stars.HoverHeight
	}

	ecs.AddComponent(s.em, id, &components.StarComponent{TemplateID: tpl.ID, Lane: slot.Index})
	ecs.AddComponent(s.em, id, &components.CollectibleComponent{Value: tpl.Value})

	if s.cfg.Verbose {
		log.Printf("[StarPlacement] %s lane=%d z=%.2f x=%.3f y=%.3f", tpl.ID, slot.Index, z, x, tr.Y)
	}
	if s.OnSpawn != nil {
		s.OnSpawn(id, types.KindStar)
	}
	return StarPlacement{TemplateID: tpl.ID, Lane: slot.Index, Z: z, X: x, Y: tr.Y}, true
}

// tooClose 是否有障碍物与 z 的距离小于 clearance
func tooClose(zs []float64, z, clearance float64) bool {
	for _, oz := range zs {
		if math.Abs(oz-z) < clearance {
			return true
		}
	}
	return false
}
