package systems

import (
	"math"

	"github.com/gonewx/ballbounce/pkg/types"
)

// MovingTarget 移动靶
// 靶心位置只由累计时间决定，相同时间输入得到相同输出
type MovingTarget struct {
	time       float64
	speed      float64
	amplitude  float64
	frameStep  float64
	multiplier float64
}

// NewMovingTarget 创建移动靶
// frameStep 为每帧推进的靶时间（未乘倍率），multiplier 为全局动画倍率
func NewMovingTarget(speed, amplitude, frameStep, multiplier float64) *MovingTarget {
	return &MovingTarget{
		speed:      speed,
		amplitude:  amplitude,
		frameStep:  frameStep,
		multiplier: multiplier,
	}
}

// Advance 推进靶时间 dt × 动画倍率
func (t *MovingTarget) Advance(dt float64) {
	t.time += dt * t.multiplier
}

// Update 每帧推进固定的靶时间
func (t *MovingTarget) Update(deltaTime float64) {
	t.Advance(t.frameStep)
}

// SetTime 直接设置靶时间（回放与测试用）
func (t *MovingTarget) SetTime(time float64) {
	t.time = time
}

// Time 当前靶时间
func (t *MovingTarget) Time() float64 {
	return t.time
}

// SetMultiplier 修改全局动画倍率
func (t *MovingTarget) SetMultiplier(multiplier float64) {
	t.multiplier = multiplier
}

// CurrentOffset X 方向偏移：sin(time·speed)·amplitude
func (t *MovingTarget) CurrentOffset() float64 {
	return math.Sin(t.time*t.speed) * t.amplitude
}

// CurrentOffsetZ Z 方向偏移
// 挑战模式下为半频、三分之一振幅的正弦，经典模式恒为 0
func (t *MovingTarget) CurrentOffsetZ(mode types.GameMode) float64 {
	if mode != types.ModeChallenge {
		return 0
	}
	return math.Sin(t.time/2*t.speed) * t.amplitude / 3
}

// Reset 靶时间归零
func (t *MovingTarget) Reset() {
	t.time = 0
}
