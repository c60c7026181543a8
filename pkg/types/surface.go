package types

// BouncerSurface 弹板表面材质
type BouncerSurface int

const (
	// SurfaceWood 木质（默认）
	SurfaceWood BouncerSurface = iota
	// SurfaceSand 沙质
	SurfaceSand
)

// String 返回表面材质名称
func (s BouncerSurface) String() string {
	if s == SurfaceSand {
		return "sand"
	}
	return "wood"
}

// Toggle 在木质与沙质之间切换
func (s BouncerSurface) Toggle() BouncerSurface {
	if s == SurfaceWood {
		return SurfaceSand
	}
	return SurfaceWood
}

// ShaderState 全局显示着色器状态：0 标准材质，1 凹凸贴图，2 卡通
type ShaderState int

// ShaderStateCount 着色器状态数量
const ShaderStateCount = 3

// Next 循环切换到下一个着色器状态
func (s ShaderState) Next() ShaderState {
	return (s + 1) % ShaderStateCount
}

// GameMode 游戏模式
type GameMode string

const (
	// ModeClassic 经典模式：靶心只沿 X 轴摆动
	ModeClassic GameMode = "classic"
	// ModeChallenge 挑战模式：额外沿 Z 轴摆动
	ModeChallenge GameMode = "challenge"
)
