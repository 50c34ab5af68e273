package game

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/decker502/trackgen/pkg/components"
	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/ecs"
	"github.com/decker502/trackgen/pkg/entities"
	"github.com/decker502/trackgen/pkg/systems"
	"github.com/decker502/trackgen/pkg/types"
)

// 生成分组的稳定标识
// 清理时只按这些标识找到分组节点，不扫描整个场景
const (
	GroupRoot      = "generated/root"
	GroupGround    = "generated/ground"
	GroupWalls     = "generated/walls"
	GroupObstacles = "generated/obstacles"
	GroupStars     = "generated/stars"
	GroupFinish    = "generated/finish"
)

// childGroups 挂在根分组下的子分组，按构建顺序排列
var childGroups = []string{GroupGround, GroupWalls, GroupFinish, GroupObstacles, GroupStars}

// ErrGenerationInProgress 同一个生成器上的重叠调用
var ErrGenerationInProgress = errors.New("track generation already in progress")

// SpawnListener 宿主能力：每生成一个实体时收到通知
// 玩法协作方借此为障碍物接入"撞到玩家"、为星星接入"被收集"处理，不需要全局查找
type SpawnListener interface {
	OnEntitySpawned(id ecs.EntityID, kind types.EntityKind)
}

// Layout 一次生成的布局快照
// 不包含实体 ID，相同种子与配置的两次生成得到完全相等的 Layout
type Layout struct {
	Seed            int64                       `yaml:"seed"`
	LaneOffsets     []float64                   `yaml:"laneOffsets"`
	UsableHalfWidth float64                     `yaml:"usableHalfWidth"`
	Obstacles       []systems.ObstaclePlacement `yaml:"obstacles"`
	Stars           []systems.StarPlacement     `yaml:"stars"`
	Gate            *systems.GatePlacement      `yaml:"gate,omitempty"`

	ObstacleAttempts     int `yaml:"obstacleAttempts"`
	SkippedObstacleSlots int `yaml:"skippedObstacleSlots"`
	StarRows             int `yaml:"starRows"`
	BlockedStarRows      int `yaml:"blockedStarRows"`
}

// CountByTemplate 按模板统计障碍物数量
func (l *Layout) CountByTemplate() map[string]int {
	counts := make(map[string]int)
	for _, o := range l.Obstacles {
		counts[o.TemplateID]++
	}
	return counts
}

// TrackGenerator 赛道生成编排器
//
// 持有配置和生成的子树，按固定顺序调度各个放置系统：
// 清理 → 地面 → 墙 → 终点门 → 行布局 → 障碍物 → 星星。
// 生成是单线程同步的；同一实例上的重叠调用返回 ErrGenerationInProgress。
type TrackGenerator struct {
	mu sync.Mutex

	em           *ecs.EntityManager
	config       *config.TrackConfig
	catalog      *config.CatalogConfig
	instantiator entities.Instantiator
	bounds       systems.BoundsEstimator
	listener     SpawnListener

	groups map[string]ecs.EntityID // 分组标识 -> 分组节点
	layout *Layout                 // 最近一次生成的布局
}

// NewTrackGenerator 创建生成器
//
// 参数:
//   - em: 宿主场景（实体管理器）
//   - cfg: 赛道配置，生成时会夹紧到安全范围；生成器持有该指针，Regenerate 会改写其中的 Seed
//   - catalog: 已 Prepare 的模板目录
//
// 返回:
//   - *TrackGenerator: 使用默认实例化器与包围盒估算器的生成器
//   - error: 依赖为 nil 时返回错误
func NewTrackGenerator(em *ecs.EntityManager, cfg *config.TrackConfig, catalog *config.CatalogConfig) (*TrackGenerator, error) {
	if em == nil {
		return nil, fmt.Errorf("entity manager cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("track config cannot be nil")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}

	g := &TrackGenerator{
		em:           em,
		config:       cfg,
		catalog:      catalog,
		instantiator: entities.NewTemplateInstantiator(em),
		bounds:       systems.NewTransformBoundsEstimator(em),
		groups:       make(map[string]ecs.EntityID),
	}
	g.adoptGroups()
	return g, nil
}

// SetInstantiator 替换实例化能力（宿主集成用）
func (g *TrackGenerator) SetInstantiator(inst entities.Instantiator) {
	if inst != nil {
		g.instantiator = inst
	}
}

// SetBoundsEstimator 替换包围盒估算能力（宿主集成用）
func (g *TrackGenerator) SetBoundsEstimator(est systems.BoundsEstimator) {
	if est != nil {
		g.bounds = est
	}
}

// SetSpawnListener 设置生成回调，nil 表示不通知
func (g *TrackGenerator) SetSpawnListener(listener SpawnListener) {
	g.listener = listener
}

// SetConfig 替换配置，生成过程中调用返回 ErrGenerationInProgress
func (g *TrackGenerator) SetConfig(cfg *config.TrackConfig) error {
	if cfg == nil {
		return fmt.Errorf("track config cannot be nil")
	}
	if !g.mu.TryLock() {
		return ErrGenerationInProgress
	}
	defer g.mu.Unlock()
	g.config = cfg
	return nil
}

// Config 当前配置
func (g *TrackGenerator) Config() *config.TrackConfig {
	return g.config
}

// Catalog 当前模板目录
func (g *TrackGenerator) Catalog() *config.CatalogConfig {
	return g.catalog
}

// Layout 最近一次生成的布局，清理后为 nil
func (g *TrackGenerator) Layout() *Layout {
	return g.layout
}

// GroupEntity 返回分组节点 ID，不存在时返回 0
func (g *TrackGenerator) GroupEntity(group string) ecs.EntityID {
	id, ok := g.groups[group]
	if !ok || !g.em.Exists(id) {
		return 0
	}
	return id
}

// Generate 按当前配置执行一次完整生成
//
// clearBeforeGenerate 为 true 时先完整删除上一次的子树，
// 此时相同种子与配置的重复调用得到完全相同的布局。
// 内容或配置问题不会导致失败：退化配置被夹紧，放置过程降级为更少的放置。
func (g *TrackGenerator) Generate() (*Layout, error) {
	if !g.mu.TryLock() {
		return nil, ErrGenerationInProgress
	}
	defer g.mu.Unlock()

	cfg := g.config.Sanitized()
	if cfg.Build.ClearBeforeGenerate {
		g.clearLocked()
	}
	return g.generateLocked(&cfg)
}

// Regenerate 使用新种子清理并重新生成
//
// 注意：seed 会写回构造时传入的 *TrackConfig（调用方持有的同一个对象），
// 之后的 Generate 与保存的预设都使用新种子。多个生成器共享一份配置时，
// 应各自传入副本。
func (g *TrackGenerator) Regenerate(seed int64) (*Layout, error) {
	if !g.mu.TryLock() {
		return nil, ErrGenerationInProgress
	}
	defer g.mu.Unlock()

	g.config.Seed = seed
	cfg := g.config.Sanitized()
	g.clearLocked()
	return g.generateLocked(&cfg)
}

// ClearGenerated 删除所有生成的实体，手工放置的内容不受影响
func (g *TrackGenerator) ClearGenerated() error {
	if !g.mu.TryLock() {
		return ErrGenerationInProgress
	}
	defer g.mu.Unlock()

	g.clearLocked()
	return nil
}

func (g *TrackGenerator) generateLocked(cfg *config.TrackConfig) (*Layout, error) {
	if err := g.ensureGroups(); err != nil {
		return nil, err
	}

	layout := &Layout{Seed: cfg.Seed}
	notify := g.notifyFunc()

	// 地面与墙
	builder := systems.NewGeometryBuilder(g.em, cfg)
	if cfg.Build.Ground {
		id, err := builder.BuildGround(g.groups[GroupGround])
		if err != nil {
			log.Printf("[TrackGenerator] WARNING: %v", err)
		} else if notify != nil {
			notify(id, types.KindGround)
		}
	}
	if cfg.Build.Walls {
		walls, err := builder.BuildWalls(g.groups[GroupWalls])
		if err != nil {
			log.Printf("[TrackGenerator] WARNING: %v", err)
		} else if notify != nil {
			for _, id := range walls {
				notify(id, types.KindWall)
			}
		}
	}

	// 终点门
	if cfg.Build.Finish {
		gateSys := systems.NewFinishGateSystem(g.em, cfg, g.catalog, g.instantiator, g.bounds)
		gateSys.OnSpawn = notify
		layout.Gate = gateSys.Place(g.groups[GroupFinish])
	}

	// 行布局
	layout.UsableHalfWidth = systems.LayoutUsableHalfWidth(cfg, g.catalog)
	lanes := systems.ComputeLaneOffsets(cfg.LaneCount, layout.UsableHalfWidth)
	layout.LaneOffsets = make([]float64, len(lanes))
	for i, slot := range lanes {
		layout.LaneOffsets[i] = slot.X
	}
	if cfg.Verbose {
		log.Printf("[TrackGenerator] Lanes: %v (usable half-width %.3f)", layout.LaneOffsets, layout.UsableHalfWidth)
	}

	// 障碍物
	var obstacleZs [][]float64
	if cfg.Build.Obstacles {
		obsSys := systems.NewObstaclePlacementSystem(g.em, cfg, g.catalog, g.instantiator, g.bounds)
		obsSys.OnSpawn = notify
		result := obsSys.Run(g.groups[GroupObstacles], lanes)
		layout.Obstacles = result.Placements
		layout.ObstacleAttempts = result.Attempts
		layout.SkippedObstacleSlots = result.Skipped
		obstacleZs = result.PlacedZs
	}

	// 星星（独立随机流，读取障碍物的 Z 记录做避让）
	if cfg.Build.Stars {
		starSys := systems.NewStarPlacementSystem(g.em, cfg, g.catalog, g.instantiator, g.bounds)
		starSys.OnSpawn = notify
		result := starSys.Run(g.groups[GroupStars], lanes, obstacleZs)
		layout.Stars = result.Placements
		layout.StarRows = result.Rows
		layout.BlockedStarRows = result.Blocked
	}

	g.layout = layout
	if cfg.Verbose {
		for _, group := range childGroups {
			log.Printf("[TrackGenerator] Group %s: %d children", group, len(entities.Children(g.em, g.groups[group])))
		}
	}
	log.Printf("[TrackGenerator] Generated track seed=%d: %d lanes, %d obstacles, %d stars, gate=%v",
		cfg.Seed, len(lanes), len(layout.Obstacles), len(layout.Stars), layout.Gate != nil)
	return layout, nil
}

// clearLocked 删除各分组节点及其子树
func (g *TrackGenerator) clearLocked() {
	removed := 0
	for _, group := range childGroups {
		if id, ok := g.groups[group]; ok {
			removed += entities.DestroyHierarchy(g.em, id)
		}
	}
	if id, ok := g.groups[GroupRoot]; ok {
		removed += entities.DestroyHierarchy(g.em, id)
	}
	g.em.RemoveMarkedEntities()

	g.groups = make(map[string]ecs.EntityID)
	g.layout = nil
	if removed > 0 {
		log.Printf("[TrackGenerator] Cleared %d generated entities", removed)
	}
}

// ensureGroups 确保根分组和各子分组节点存在
func (g *TrackGenerator) ensureGroups() error {
	root := g.GroupEntity(GroupRoot)
	if root == 0 {
		id, err := entities.NewGroupEntity(g.em, 0, GroupRoot)
		if err != nil {
			return fmt.Errorf("failed to create group %s: %w", GroupRoot, err)
		}
		root = id
		g.groups[GroupRoot] = id
	}
	for _, group := range childGroups {
		if g.GroupEntity(group) != 0 {
			continue
		}
		id, err := entities.NewGroupEntity(g.em, root, group)
		if err != nil {
			return fmt.Errorf("failed to create group %s: %w", group, err)
		}
		g.groups[group] = id
	}
	return nil
}

// adoptGroups 接管场景中已存在的分组节点（例如由另一个生成器实例创建）
// 只查询分组节点本身，生成的内容通过分组节点的子树访问
func (g *TrackGenerator) adoptGroups() {
	known := make(map[string]bool, len(childGroups)+1)
	known[GroupRoot] = true
	for _, group := range childGroups {
		known[group] = true
	}

	for _, id := range ecs.GetEntitiesWith2[*components.GeneratedComponent, *components.TemplateComponent](g.em) {
		tpl, _ := ecs.GetComponent[*components.TemplateComponent](g.em, id)
		gen, _ := ecs.GetComponent[*components.GeneratedComponent](g.em, id)
		if tpl.Kind != types.KindGroup || tpl.TemplateID != gen.Group || !known[gen.Group] {
			continue
		}
		if _, exists := g.groups[gen.Group]; !exists {
			g.groups[gen.Group] = id
		}
	}
}

func (g *TrackGenerator) notifyFunc() systems.SpawnFunc {
	if g.listener == nil {
		return nil
	}
	return g.listener.OnEntitySpawned
}
