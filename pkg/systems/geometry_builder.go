package systems

import (
	"fmt"

	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/ecs"
	"github.com/decker502/trackgen/pkg/entities"
)

// GeometryBuilder 构建地面条带和两侧墙体
//
// 纯配置驱动，不使用随机数。每次构建前先删除分组节点下已有的几何，
// 重复生成不会留下孤立实体。
type GeometryBuilder struct {
	em  *ecs.EntityManager
	cfg *config.TrackConfig
}

// NewGeometryBuilder 创建几何构建器
func NewGeometryBuilder(em *ecs.EntityManager, cfg *config.TrackConfig) *GeometryBuilder {
	return &GeometryBuilder{em: em, cfg: cfg}
}

// BuildGround 在 group 下重建地面
func (b *GeometryBuilder) BuildGround(group ecs.EntityID) (ecs.EntityID, error) {
	b.clear(group)
	id, err := entities.NewGroundEntity(b.em, group, b.cfg)
	if err != nil {
		return 0, fmt.Errorf("failed to build ground: %w", err)
	}
	return id, nil
}

// BuildWalls 在 group 下重建左右两面墙
//
// 返回:
//   - [左墙, 右墙]
func (b *GeometryBuilder) BuildWalls(group ecs.EntityID) ([2]ecs.EntityID, error) {
	b.clear(group)
	var walls [2]ecs.EntityID
	for i, side := range [2]int{-1, 1} {
		id, err := entities.NewWallEntity(b.em, group, b.cfg, side)
		if err != nil {
			return walls, fmt.Errorf("failed to build wall (side %d): %w", side, err)
		}
		walls[i] = id
	}
	return walls, nil
}

func (b *GeometryBuilder) clear(group ecs.EntityID) {
	if entities.DestroyChildren(b.em, group) > 0 {
		b.em.RemoveMarkedEntities()
	}
}
