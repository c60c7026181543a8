package utils

import "math"

// 缓动函数，输入进度 t ∈ [0, 1]，输出 ∈ [0, 1]
// 用于分数弹出文字和高亮环的淡出

// Progress 把已用时间换算为 [0, 1] 的进度，duration<=0 时视为已完成
func Progress(elapsed, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return math.Max(0, math.Min(1, elapsed/duration))
}

// EaseOutCubic 三次方缓出：开始快，结束慢
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInQuad 二次方缓入：开始慢，结束快
func EaseInQuad(t float64) float64 {
	return t * t
}

// Lerp 线性插值
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// FadeAlpha 按进度计算淡出后的 alpha（0~255）
func FadeAlpha(base uint8, t float64) uint8 {
	return uint8(math.Round(Lerp(float64(base), 0, EaseInQuad(t))))
}
