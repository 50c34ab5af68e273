package components

// TransformComponent 实体在父节点局部坐标系中的位置、朝向和缩放
//
// 坐标约定：X 为横向（赛道中心为 0），Y 竖直向上（地面为 0），Z 沿赛道前进方向
type TransformComponent struct {
	X, Y, Z float64

	// Yaw 绕 Y 轴的旋转角度（度）
	Yaw float64

	// ScaleX/ScaleY/ScaleZ 各轴缩放因子（1.0 = 原始大小）
	ScaleX float64
	ScaleY float64
	ScaleZ float64
}
