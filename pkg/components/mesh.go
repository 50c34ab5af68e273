package components

import "github.com/decker502/trackgen/pkg/types"

// MeshComponent 由几何构建器生成的最简网格（地面条带与墙体）
// Vertices 为局部坐标，Indices 每三个一组构成三角形
type MeshComponent struct {
	Vertices []types.Vec3
	Indices  []int
}
