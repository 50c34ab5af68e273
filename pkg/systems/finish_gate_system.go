package systems

import (
	"log"

	"github.com/decker502/trackgen/pkg/components"
	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/ecs"
	"github.com/decker502/trackgen/pkg/entities"
	"github.com/decker502/trackgen/pkg/types"
)

// FinishGateYaw 终点门朝向赛道起点
const FinishGateYaw = 180.0

// GatePlacement 终点门放置结果
type GatePlacement struct {
	TemplateID  string  `yaml:"template"`
	Z           float64 `yaml:"z"`
	Y           float64 `yaml:"y"`
	Yaw         float64 `yaml:"yaw"`
	ScaleX      float64 `yaml:"scaleX"`
	UsableWidth float64 `yaml:"usableWidth"`
}

// FinishGateSystem 终点门放置，确定性且不消耗随机数
type FinishGateSystem struct {
	em           *ecs.EntityManager
	cfg          *config.TrackConfig
	catalog      *config.CatalogConfig
	instantiator entities.Instantiator
	bounds       BoundsEstimator

	// OnSpawn 可选的生成回调
	OnSpawn SpawnFunc
}

// NewFinishGateSystem 创建终点门放置系统
func NewFinishGateSystem(
	em *ecs.EntityManager,
	cfg *config.TrackConfig,
	catalog *config.CatalogConfig,
	instantiator entities.Instantiator,
	bounds BoundsEstimator,
) *FinishGateSystem {
	return &FinishGateSystem{
		em:           em,
		cfg:          cfg,
		catalog:      catalog,
		instantiator: instantiator,
		bounds:       bounds,
	}
}

// Place 在 z = trackLength + zOffset 放置终点门
//
// 开启自动缩放时横向拉伸，使门的参考宽度对齐两侧内墙面之间的宽度。
// 接地优先使用碰撞体，缺失时使用可视几何，最后叠加高度偏移。
//
// 返回:
//   - 放置结果；没有配置终点门模板时返回 nil
func (s *FinishGateSystem) Place(parent ecs.EntityID) *GatePlacement {
	if s.catalog.FinishGate == "" {
		log.Printf("[FinishGate] WARNING: no finish gate template configured, skipping")
		return nil
	}
	tpl, ok := s.catalog.Template(s.catalog.FinishGate)
	if !ok {
		log.Printf("[FinishGate] WARNING: finish gate template %q not found, skipping", s.catalog.FinishGate)
		return nil
	}

	id, err := s.instantiator.Instantiate(tpl, parent, types.KindFinishGate)
	if err != nil {
		log.Printf("[FinishGate] WARNING: failed to instantiate %q: %v", tpl.ID, err)
		return nil
	}
	tr, _ := ecs.GetComponent[*components.TransformComponent](s.em, id)
	tr.Z = s.cfg.TrackLength + s.cfg.Finish.ZOffset
	tr.Yaw = FinishGateYaw

	usableWidth := s.cfg.InnerWidth()
	autoScaled := false
	if s.cfg.Finish.AutoScale {
		if ref := s.referenceWidth(id, tpl); ref > 0 {
			tr.ScaleX = usableWidth / ref
			autoScaled = true
		}
	}

	tr.Y = s.cfg.Finish.HeightOffset
	if lowest, ok := s.bounds.LowestPoint(id, true); ok {
		tr.Y = -lowest + s.cfg.Finish.HeightOffset
	}

	ecs.AddComponent(s.em, id, &components.FinishGateComponent{
		TemplateID:  tpl.ID,
		UsableWidth: usableWidth,
		AutoScaled:  autoScaled,
	})

	log.Printf("[FinishGate] Placed %s at z=%.2f (scaleX=%.3f, usable width %.2f)", tpl.ID, tr.Z, tr.ScaleX, usableWidth)
	if s.OnSpawn != nil {
		s.OnSpawn(id, types.KindFinishGate)
	}
	return &GatePlacement{
		TemplateID:  tpl.ID,
		Z:           tr.Z,
		Y:           tr.Y,
		Yaw:         tr.Yaw,
		ScaleX:      tr.ScaleX,
		UsableWidth: usableWidth,
	}
}

// referenceWidth 门的参考宽度：优先模板配置，其次未缩放时测得的宽度，最后用近似半宽
func (s *FinishGateSystem) referenceWidth(id ecs.EntityID, tpl *config.TemplateConfig) float64 {
	if tpl.ReferenceWidth > 0 {
		return tpl.ReferenceWidth
	}
	if minX, maxX, ok := s.bounds.HorizontalExtent(id); ok && maxX > minX {
		return maxX - minX
	}
	return 2 * s.catalog.ApproxHalfWidthOf(tpl)
}
