package utils

import "github.com/decker502/trackgen/pkg/types"

// BuildBoxMesh 构建以 center 为中心、size 为尺寸的长方体网格
// 返回 8 个顶点与 12 个三角形（36 个索引），绕序朝外
func BuildBoxMesh(center, size types.Vec3) ([]types.Vec3, []int) {
	box := types.BoxAround(center, size)
	lo, hi := box.Min, box.Max

	vertices := []types.Vec3{
		{X: lo.X, Y: lo.Y, Z: lo.Z}, // 0
		{X: hi.X, Y: lo.Y, Z: lo.Z}, // 1
		{X: hi.X, Y: hi.Y, Z: lo.Z}, // 2
		{X: lo.X, Y: hi.Y, Z: lo.Z}, // 3
		{X: lo.X, Y: lo.Y, Z: hi.Z}, // 4
		{X: hi.X, Y: lo.Y, Z: hi.Z}, // 5
		{X: hi.X, Y: hi.Y, Z: hi.Z}, // 6
		{X: lo.X, Y: hi.Y, Z: hi.Z}, // 7
	}
	indices := []int{
		0, 2, 1, 0, 3, 2, // 前（-Z）
		4, 5, 6, 4, 6, 7, // 后（+Z）
		0, 4, 7, 0, 7, 3, // 左（-X）
		1, 2, 6, 1, 6, 5, // 右（+X）
		3, 7, 6, 3, 6, 2, // 顶（+Y）
		0, 1, 5, 0, 5, 4, // 底（-Y）
	}
	return vertices, indices
}

// BuildQuadMesh 构建 Y=y 平面上的矩形面片，X 方向宽 width，Z 方向从 z0 到 z1
func BuildQuadMesh(width, y, z0, z1 float64) ([]types.Vec3, []int) {
	half := width / 2
	vertices := []types.Vec3{
		{X: -half, Y: y, Z: z0},
		{X: half, Y: y, Z: z0},
		{X: half, Y: y, Z: z1},
		{X: -half, Y: y, Z: z1},
	}
	return vertices, []int{0, 2, 1, 0, 3, 2}
}
