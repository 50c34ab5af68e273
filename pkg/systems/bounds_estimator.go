package systems

import (
	"math"

	"github.com/decker502/trackgen/pkg/components"
	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/ecs"
	"github.com/decker502/trackgen/pkg/types"
	"github.com/decker502/trackgen/pkg/utils"
)

// BoundsEstimator 几何查询能力
//
// 给定一个已实例化的实体，返回它在赛道局部坐标系中的横向范围和最低点。
// 只做几何查询，不读取材质或着色状态。
type BoundsEstimator interface {
	// HorizontalExtent 返回实体应用偏航和缩放后的横向范围（相对枢轴）
	// 没有可测量几何时 ok=false
	HorizontalExtent(id ecs.EntityID) (minX, maxX float64, ok bool)

	// LowestPoint 返回实体应用缩放后最低点相对枢轴的 Y 值
	// preferCollider=true 时优先使用碰撞体，否则优先使用可视几何
	LowestPoint(id ecs.EntityID, preferCollider bool) (float64, bool)
}

// TransformBoundsEstimator 基于 BoundsComponent/ColliderComponent 与 TransformComponent 的默认实现
type TransformBoundsEstimator struct {
	em *ecs.EntityManager
}

// NewTransformBoundsEstimator 创建默认的包围盒估算器
func NewTransformBoundsEstimator(em *ecs.EntityManager) *TransformBoundsEstimator {
	return &TransformBoundsEstimator{em: em}
}

// HorizontalExtent 优先可视几何，缺失时回退到碰撞体
func (e *TransformBoundsEstimator) HorizontalExtent(id ecs.EntityID) (float64, float64, bool) {
	box, ok := e.localBox(id, false)
	if !ok {
		return 0, 0, false
	}
	yaw, sx, _, sz := e.transformOf(id)
	minX, maxX := RotatedExtentX(box, yaw, sx, sz)
	return minX, maxX, true
}

// LowestPoint 实现 BoundsEstimator
func (e *TransformBoundsEstimator) LowestPoint(id ecs.EntityID, preferCollider bool) (float64, bool) {
	box, ok := e.localBox(id, preferCollider)
	if !ok {
		return 0, false
	}
	_, _, sy, _ := e.transformOf(id)
	return math.Min(box.Min.Y*sy, box.Max.Y*sy), true
}

func (e *TransformBoundsEstimator) localBox(id ecs.EntityID, preferCollider bool) (types.AABB, bool) {
	visual, hasVisual := ecs.GetComponent[*components.BoundsComponent](e.em, id)
	collider, hasCollider := ecs.GetComponent[*components.ColliderComponent](e.em, id)
	hasVisual = hasVisual && !visual.Local.IsEmpty()
	hasCollider = hasCollider && !collider.Local.IsEmpty()

	if preferCollider && hasCollider {
		return collider.Local, true
	}
	if hasVisual {
		return visual.Local, true
	}
	if hasCollider {
		return collider.Local, true
	}
	return types.AABB{}, false
}

func (e *TransformBoundsEstimator) transformOf(id ecs.EntityID) (yaw, sx, sy, sz float64) {
	tr, ok := ecs.GetComponent[*components.TransformComponent](e.em, id)
	if !ok {
		return 0, 1, 1, 1
	}
	return tr.Yaw, tr.ScaleX, tr.ScaleY, tr.ScaleZ
}

// RotatedExtentX 计算局部包围盒缩放并绕 Y 轴旋转 yaw 度后的横向范围
// 取水平面上四个角点旋转后 X 的最小值与最大值
func RotatedExtentX(box types.AABB, yaw, scaleX, scaleZ float64) (float64, float64) {
	rad := utils.DegToRad(yaw)
	cos, sin := math.Cos(rad), math.Sin(rad)

	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, x := range [2]float64{box.Min.X * scaleX, box.Max.X * scaleX} {
		for _, z := range [2]float64{box.Min.Z * scaleZ, box.Max.Z * scaleZ} {
			rx := x*cos + z*sin
			minX = math.Min(minX, rx)
			maxX = math.Max(maxX, rx)
		}
	}
	return minX, maxX
}

// HalfWidthFromExtent 以枢轴为基准的半宽：max(-minX, maxX)
// 枢轴不在几何中心时取较远的一侧，保证放置后不越过安全带
func HalfWidthFromExtent(minX, maxX float64) float64 {
	return math.Max(0, math.Max(-minX, maxX))
}

// MeasureHalfWidth 测量实体半宽，没有可测量几何时回退到模板近似半宽
//
// 参数:
//   - est: 包围盒估算器
//   - id: 已设置偏航/缩放的实体
//   - catalog: 提供回退半宽
//   - tpl: 实体对应的模板
//   - scale: 当前应用的均匀缩放（回退半宽同样按它缩放）
//
// 返回:
//   - 半宽
//   - 是否使用了回退值
func MeasureHalfWidth(est BoundsEstimator, id ecs.EntityID, catalog *config.CatalogConfig, tpl *config.TemplateConfig, scale float64) (float64, bool) {
	if minX, maxX, ok := est.HorizontalExtent(id); ok {
		return HalfWidthFromExtent(minX, maxX), false
	}
	approx := config.DefaultFallbackHalfWidth
	if catalog != nil {
		approx = catalog.ApproxHalfWidthOf(tpl)
	}
	if scale <= 0 {
		scale = 1
	}
	return approx * scale, true
}

// TemplateHalfWidth 不实例化时估算模板的半宽（无偏航，按给定均匀缩放）
// 行布局的 worstCase 模式用它求目录中最宽的障碍物
func TemplateHalfWidth(catalog *config.CatalogConfig, tpl *config.TemplateConfig, scale float64) float64 {
	if scale <= 0 {
		scale = 1
	}
	var box *config.BoxConfig
	switch {
	case tpl == nil:
	case tpl.Bounds != nil && !tpl.Bounds.AABB().IsEmpty():
		box = tpl.Bounds
	case tpl.Collider != nil && !tpl.Collider.AABB().IsEmpty():
		box = tpl.Collider
	}
	if box == nil {
		if catalog == nil {
			return config.DefaultFallbackHalfWidth * scale
		}
		return catalog.ApproxHalfWidthOf(tpl) * scale
	}
	minX, maxX := RotatedExtentX(box.AABB(), 0, scale, scale)
	return HalfWidthFromExtent(minX, maxX)
}
