package components

import "github.com/gonewx/ballbounce/pkg/types"

// BouncerComponent 可倾斜弹板的控制状态
// 角度单位为弧度，绕 X 轴和 Z 轴旋转
type BouncerComponent struct {
	Surface types.BouncerSurface
	AngleX  float64
	AngleZ  float64
}
