package entities

import (
	"fmt"
	"log"

	"github.com/decker502/trackgen/pkg/components"
	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/ecs"
	"github.com/decker502/trackgen/pkg/types"
	"github.com/decker502/trackgen/pkg/utils"
)

// NewGroundEntity 创建地面条带实体
//
// 地面宽 2×halfTrackWidth、长 trackLength，上表面位于 Y=0，
// 碰撞体是厚度为 groundThickness 的盒子，顶面与地面平齐。
//
// 参数:
//   - em: 实体管理器
//   - parent: 父节点（地面分组）
//   - cfg: 已夹紧的赛道配置
func NewGroundEntity(em *ecs.EntityManager, parent ecs.EntityID, cfg *config.TrackConfig) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if cfg == nil {
		return 0, fmt.Errorf("track config cannot be nil")
	}

	width := 2 * cfg.HalfTrackWidth
	length := cfg.TrackLength

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.TransformComponent{ScaleX: 1, ScaleY: 1, ScaleZ: 1})
	ecs.AddComponent(em, id, &components.TemplateComponent{TemplateID: "ground", Kind: types.KindGround})
	ecs.AddComponent(em, id, &components.GroundComponent{Width: width, Length: length})

	vertices, indices := utils.BuildQuadMesh(width, 0, 0, length)
	ecs.AddComponent(em, id, &components.MeshComponent{Vertices: vertices, Indices: indices})

	thickness := cfg.GroundThickness
	ecs.AddComponent(em, id, &components.ColliderComponent{
		Local: types.BoxAround(
			types.Vec3{X: 0, Y: -thickness / 2, Z: length / 2},
			types.Vec3{X: width, Y: thickness, Z: length},
		),
	})
	AttachToParent(em, id, parent)

	if cfg.Verbose {
		log.Printf("[GeometryFactory] Created ground %d: width=%.2f length=%.2f", id, width, length)
	}
	return id, nil
}

// NewWallEntity 创建一侧边界墙
//
// 墙体中心线位于 X = side×halfTrackWidth，厚 wallThickness、高 wallHeight、长 trackLength，
// 底面落在地面上。
//
// 参数:
//   - side: -1 左墙，+1 右墙
func NewWallEntity(em *ecs.EntityManager, parent ecs.EntityID, cfg *config.TrackConfig, side int) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if cfg == nil {
		return 0, fmt.Errorf("track config cannot be nil")
	}
	if side != -1 && side != 1 {
		return 0, fmt.Errorf("invalid wall side %d, must be -1 or 1", side)
	}

	x := float64(side) * cfg.HalfTrackWidth
	length := cfg.TrackLength
	size := types.Vec3{X: cfg.WallThickness, Y: cfg.WallHeight, Z: length}
	// 墙体几何以墙自身为局部原点，实体放在墙中心线底部
	localCenter := types.Vec3{X: 0, Y: cfg.WallHeight / 2, Z: length / 2}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.TransformComponent{X: x, ScaleX: 1, ScaleY: 1, ScaleZ: 1})
	ecs.AddComponent(em, id, &components.TemplateComponent{TemplateID: "wall", Kind: types.KindWall})
	ecs.AddComponent(em, id, &components.WallComponent{
		Side:      side,
		Thickness: cfg.WallThickness,
		Height:    cfg.WallHeight,
		Length:    length,
	})

	vertices, indices := utils.BuildBoxMesh(localCenter, size)
	ecs.AddComponent(em, id, &components.MeshComponent{Vertices: vertices, Indices: indices})
	ecs.AddComponent(em, id, &components.ColliderComponent{Local: types.BoxAround(localCenter, size)})
	AttachToParent(em, id, parent)

	if cfg.Verbose {
		log.Printf("[GeometryFactory] Created wall %d: side=%d x=%.2f thickness=%.2f height=%.2f", id, side, x, cfg.WallThickness, cfg.WallHeight)
	}
	return id, nil
}
