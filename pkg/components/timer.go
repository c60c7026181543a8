package components

// TimerComponent 通用计时器
// 用于会话中的出球节奏、倒计时和方块冷却，时间按真实秒数推进
type TimerComponent struct {
	Name        string  // 计时器名称，如 "ball_spawn"
	TargetTime  float64 // 目标时间（秒）
	CurrentTime float64 // 当前已过时间（秒）
	IsReady     bool    // 计时器是否已完成
	Repeat      bool    // 完成后是否自动重新计时
	Active      bool    // 是否在运行
}

// NewTimer 创建并启动计时器
func NewTimer(name string, target float64, repeat bool) *TimerComponent {
	return &TimerComponent{Name: name, TargetTime: target, Repeat: repeat, Active: true}
}

// Tick 推进计时器，返回本次是否到点
// 重复计时器保留溢出的时间，单次计时器到点后停止
func (t *TimerComponent) Tick(deltaTime float64) bool {
	if t == nil || !t.Active {
		return false
	}
	t.CurrentTime += deltaTime
	if t.CurrentTime < t.TargetTime {
		return false
	}
	t.IsReady = true
	if t.Repeat {
		t.CurrentTime -= t.TargetTime
	} else {
		t.Active = false
	}
	return true
}

// Restart 以新的目标时间重新开始计时
func (t *TimerComponent) Restart(target float64) {
	t.TargetTime = target
	t.CurrentTime = 0
	t.IsReady = false
	t.Active = true
}

// Stop 停止计时器
func (t *TimerComponent) Stop() {
	if t == nil {
		return
	}
	t.Active = false
}

// Remaining 剩余时间（秒），不会小于 0
func (t *TimerComponent) Remaining() float64 {
	if t == nil || t.CurrentTime >= t.TargetTime {
		return 0
	}
	return t.TargetTime - t.CurrentTime
}
