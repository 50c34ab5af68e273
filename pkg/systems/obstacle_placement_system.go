package systems

import (
	"fmt"
	"log"
	"math"

	"github.com/decker502/trackgen/pkg/components"
	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/ecs"
	"github.com/decker502/trackgen/pkg/entities"
	"github.com/decker502/trackgen/pkg/types"
	"github.com/decker502/trackgen/pkg/utils"
)

// SpawnFunc 每生成一个实体后调用，宿主借此接入玩法处理
type SpawnFunc func(id ecs.EntityID, kind types.EntityKind)

// ObstaclePlacement 一个已放置障碍物的最终结果
type ObstaclePlacement struct {
	TemplateID string  `yaml:"template"`
	Lane       int     `yaml:"lane"`
	Z          float64 `yaml:"z"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Yaw        float64 `yaml:"yaw"`
	Scale      float64 `yaml:"scale"`
	HalfWidth  float64 `yaml:"halfWidth"`
}

// ObstaclePassResult 一次障碍物放置过程的结果
type ObstaclePassResult struct {
	Placements []ObstaclePlacement
	// PlacedZs 每行已放置障碍物的 Z 值（升序），供星星放置做间距检查
	PlacedZs [][]float64
	Attempts int // 通过生成概率检定的次数
	Skipped  int // 没有合法行而跳过的次数
}

// ObstaclePlacementSystem 障碍物放置引擎
//
// 持有一条由 seed 派生的确定性随机流，从 startZ 开始沿赛道按随机间隔前进：
// 每一步先做概率检定，命中则尝试在当前 Z 放置一个障碍物，然后前进。
type ObstaclePlacementSystem struct {
	em           *ecs.EntityManager
	cfg          *config.TrackConfig
	catalog      *config.CatalogConfig
	instantiator entities.Instantiator
	bounds       BoundsEstimator

	// OnSpawn 可选的生成回调
	OnSpawn SpawnFunc
}

// NewObstaclePlacementSystem 创建障碍物放置系统
//
// 参数:
//   - cfg: 已夹紧的赛道配置（一次生成内不可变）
//   - catalog: 已 Prepare 的模板目录
func NewObstaclePlacementSystem(
	em *ecs.EntityManager,
	cfg *config.TrackConfig,
	catalog *config.CatalogConfig,
	instantiator entities.Instantiator,
	bounds BoundsEstimator,
) *ObstaclePlacementSystem {
	return &ObstaclePlacementSystem{
		em:           em,
		cfg:          cfg,
		catalog:      catalog,
		instantiator: instantiator,
		bounds:       bounds,
	}
}

// obstaclePass 单次放置过程的可变状态，过程结束即丢弃
type obstaclePass struct {
	rng     *utils.RandomStream
	sampler *WeightedSampler
	lanes   []LaneSlot
	lastZ   []float64
	history *PlacementHistory
	result  *ObstaclePassResult
}

// Run 执行一次完整的障碍物放置
//
// 参数:
//   - parent: 障碍物分组节点
//   - lanes: 本次生成的行槽位
//
// 返回:
//   - 放置结果；目录为空或总权重为 0 时只输出警告，结果为空
func (s *ObstaclePlacementSystem) Run(parent ecs.EntityID, lanes []LaneSlot) *ObstaclePassResult {
	result := &ObstaclePassResult{PlacedZs: make([][]float64, len(lanes))}

	sampler := NewWeightedSampler(s.catalog.Obstacles)
	if sampler.Total() <= 0 {
		log.Printf("[ObstaclePlacement] WARNING: obstacle catalog is empty or has zero total weight, skipping obstacle pass")
		return result
	}
	if len(lanes) == 0 {
		log.Printf("[ObstaclePlacement] WARNING: no lanes, skipping obstacle pass")
		return result
	}

	pass := &obstaclePass{
		rng:     utils.NewRandomStream(s.cfg.Seed),
		sampler: sampler,
		lanes:   lanes,
		lastZ:   make([]float64, len(lanes)),
		history: NewPlacementHistory(s.cfg.Variety.HistorySize),
		result:  result,
	}
	for i := range pass.lastZ {
		pass.lastZ[i] = math.Inf(-1)
	}

	o := s.cfg.Obstacles
	for z := o.StartZ; z <= s.cfg.TrackLength; z += pass.rng.Range(o.GapMin, o.GapMax) {
		if pass.rng.Chance(o.SpawnProbability) {
			result.Attempts++
			s.attempt(pass, parent, z)
		}
	}

	log.Printf("[ObstaclePlacement] Placed %d obstacles (%d attempts, %d skipped, seed %d)",
		len(result.Placements), result.Attempts, result.Skipped, pass.rng.Seed())
	if s.cfg.Verbose {
		log.Printf("[ObstaclePlacement] Random stream consumed %d draws", pass.rng.Draws())
	}
	return result
}

// attempt 在 z 处尝试放置一个障碍物
func (s *ObstaclePlacementSystem) attempt(pass *obstaclePass, parent ecs.EntityID, z float64) {
	o := s.cfg.Obstacles

	// 1. 类型选择
	entry, ok := pass.sampler.Sample(pass.rng)
	if !ok {
		return
	}
	tpl, ok := s.catalog.Template(entry.Template)
	if !ok {
		log.Printf("[ObstaclePlacement] WARNING: template %q not found in catalog", entry.Template)
		pass.result.Skipped++
		return
	}

	// 2. 偏航与缩放抖动（随机数先抽取，保证序列与实例化结果无关）
	yaw := 0.0
	if o.MaxYaw > 0 {
		yaw = pass.rng.Range(-o.MaxYaw, o.MaxYaw)
	}
	scale := 1.0
	if o.Scale.Enabled {
		scale = pass.rng.Range(o.Scale.Min, o.Scale.Max)
	}
	deferScale := o.Scale.Enabled && o.Scale.Order == types.ScaleAfterLaneSelection

	id, err := s.instantiator.Instantiate(tpl, parent, types.KindObstacle)
	if err != nil {
		log.Printf("[ObstaclePlacement] WARNING: failed to instantiate %q: %v", tpl.ID, err)
		pass.result.Skipped++
		return
	}
	tr, _ := ecs.GetComponent[*components.TransformComponent](s.em, id)
	tr.Yaw = yaw
	if !deferScale {
		setUniformScale(tr, scale)
	}

	// 3. 宽度测量
	halfWidth, _ := MeasureHalfWidth(s.bounds, id, s.catalog, tpl, tr.ScaleX)
	usable := s.cfg.UsableHalfWidthFor(halfWidth)

	// 4. 选行（只在满足同行最小间距的行中选）
	candidates := s.spacingCandidates(pass, z)
	if len(candidates) == 0 {
		s.instantiator.Discard(id)
		pass.result.Skipped++
		return
	}
	choice, ok := s.selectLane(pass, candidates, usable)
	if !ok {
		s.instantiator.Discard(id)
		pass.result.Skipped++
		return
	}

	// 选行后缩放：二次测量，放不下时重新决议
	if deferScale {
		setUniformScale(tr, scale)
		halfWidth, _ = MeasureHalfWidth(s.bounds, id, s.catalog, tpl, scale)
		usable = s.cfg.UsableHalfWidthFor(halfWidth)
		if !InBand(choice.X, usable) {
			choice = s.reresolve(pass, candidates, choice, usable)
		}
	}

	// 5. 定位并接地
	tr.X = choice.X
	tr.Z = z
	if lowest, ok := s.bounds.LowestPoint(id, false); ok {
		tr.Y = -lowest
	}

	ecs.AddComponent(s.em, id, &components.ObstacleComponent{
		TemplateID: tpl.ID,
		Lane:       choice.Lane,
		HalfWidth:  halfWidth,
	})
	ecs.AddComponent(s.em, id, &components.HazardComponent{TemplateID: tpl.ID})

	// 6. 记录
	pass.lastZ[choice.Lane] = z
	pass.result.PlacedZs[choice.Lane] = append(pass.result.PlacedZs[choice.Lane], z)
	pass.history.Record(choice.Lane, choice.X)
	pass.result.Placements = append(pass.result.Placements, ObstaclePlacement{
		TemplateID: tpl.ID,
		Lane:       choice.Lane,
		Z:          z,
		X:          choice.X,
		Y:          tr.Y,
		Yaw:        yaw,
		Scale:      scale,
		HalfWidth:  halfWidth,
	})

	if s.cfg.Verbose {
		log.Printf("[ObstaclePlacement] %s lane=%d z=%.2f x=%.3f yaw=%.1f scale=%.2f halfWidth=%.3f",
			tpl.ID, choice.Lane, z, choice.X, yaw, scale, halfWidth)
	}
	if s.OnSpawn != nil {
		s.OnSpawn(id, types.KindObstacle)
	}
}

// spacingCandidates 返回满足 z − lastZ[lane] ≥ minForwardGap 的行
func (s *ObstaclePlacementSystem) spacingCandidates(pass *obstaclePass, z float64) []LaneSlot {
	candidates := make([]LaneSlot, 0, len(pass.lanes))
	for _, slot := range pass.lanes {
		if z-pass.lastZ[slot.Index] >= s.cfg.Obstacles.MinForwardGap {
			candidates = append(candidates, slot)
		}
	}
	return candidates
}

// selectLane 按配置的策略选行
func (s *ObstaclePlacementSystem) selectLane(pass *obstaclePass, candidates []LaneSlot, usable float64) (LaneChoice, bool) {
	if s.cfg.Obstacles.LaneMode == types.LaneModeVariety {
		LogLaneScores(candidates, pass.history, s.cfg.Variety, usable, s.cfg.Verbose)
		return SelectLaneVariety(candidates, pass.history, s.cfg.Variety, usable, pass.rng)
	}
	return SelectLaneUniform(candidates, usable, s.cfg.Obstacles.LaneJitter, pass.rng)
}

// reresolve 缩放后原位置越出安全带时重新选行
//
// 先在名义偏移落在新安全带内的候选行中重新选行；
// 没有这样的行（或选行被连续上限拒绝）时，把原选中行的偏移夹紧到新安全带。
func (s *ObstaclePlacementSystem) reresolve(pass *obstaclePass, candidates []LaneSlot, original LaneChoice, usable float64) LaneChoice {
	fitting := make([]LaneSlot, 0, len(candidates))
	for _, slot := range candidates {
		if InBand(slot.X, usable) {
			fitting = append(fitting, slot)
		}
	}
	if len(fitting) > 0 {
		if choice, ok := s.selectLane(pass, fitting, usable); ok {
			if s.cfg.Verbose {
				log.Printf("[ObstaclePlacement] Re-resolved lane %d -> %d after scale", original.Lane, choice.Lane)
			}
			return choice
		}
	}

	x, _ := ClampToBand(original.X, usable)
	if s.cfg.Verbose {
		log.Printf("[ObstaclePlacement] Re-resolution failed, clamped lane %d to x=%.3f", original.Lane, x)
	}
	return LaneChoice{Lane: original.Lane, X: x, Clamped: true}
}

func setUniformScale(tr *components.TransformComponent, scale float64) {
	tr.ScaleX, tr.ScaleY, tr.ScaleZ = scale, scale, scale
}

// String 便于日志与调试输出
func (p ObstaclePlacement) String() string {
	return fmt.Sprintf("%s@lane%d(z=%.2f,x=%.3f)", p.TemplateID, p.Lane, p.Z, p.X)
}
