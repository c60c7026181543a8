package components

// BounceComponent 记录球与地面的弹跳状态
type BounceComponent struct {
	Count          int     // 有效弹跳次数
	LastBounceTime float64 // 上次有效弹跳的游戏时钟（秒）
	HasScored      bool    // 是否已经计过分（只会从 false 变为 true 一次）
}
