package types

import "math"

// Vec3 三维向量（赛道局部坐标系：X 横向，Y 竖直，Z 沿赛道前进方向）
type Vec3 struct {
	X, Y, Z float64
}

// AABB 轴对齐包围盒（相对实体枢轴的局部坐标）
type AABB struct {
	Min Vec3
	Max Vec3
}

// IsEmpty 判断包围盒是否没有可测量的体积
// 任一轴上 Max < Min 视为空，零厚度的面片仍然有效
func (b AABB) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z ||
		(b.Max.X == b.Min.X && b.Max.Y == b.Min.Y && b.Max.Z == b.Min.Z)
}

// Size 返回包围盒三个轴向的尺寸
func (b AABB) Size() Vec3 {
	return Vec3{X: b.Max.X - b.Min.X, Y: b.Max.Y - b.Min.Y, Z: b.Max.Z - b.Min.Z}
}

// Center 返回包围盒中心
func (b AABB) Center() Vec3 {
	return Vec3{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2, Z: (b.Min.Z + b.Max.Z) / 2}
}

// BoxAround 以 center 为中心、size 为尺寸构造包围盒
func BoxAround(center, size Vec3) AABB {
	half := Vec3{X: math.Abs(size.X) / 2, Y: math.Abs(size.Y) / 2, Z: math.Abs(size.Z) / 2}
	return AABB{
		Min: Vec3{X: center.X - half.X, Y: center.Y - half.Y, Z: center.Z - half.Z},
		Max: Vec3{X: center.X + half.X, Y: center.Y + half.Y, Z: center.Z + half.Z},
	}
}
