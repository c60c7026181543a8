package game

import "github.com/gonewx/ballbounce/internal/physics"

// CueSink 音效输出
// 核心逻辑只发出语义化的音效名和可选音量，不关心播放细节
type CueSink interface {
	PlayCue(name string, volume float64)
}

// ScoreUpdate 分数变化事件
type ScoreUpdate struct {
	Score      int          // 变化后的总分
	Delta      int          // 本次变化量（扣分为负）
	Position   physics.Vec3 // 发生位置（世界坐标）
	Label      string       // 弹出文字
	ZoneRadius float64      // 高亮环半径，0 表示不高亮
	ZoneCenter physics.Vec3 // 高亮环中心（靶心）
}

// SessionResult 一局结束时的结果
type SessionResult struct {
	Score        int
	HighScore    int
	NewHighScore bool
}

// ScoreListener 分数显示与观战推送
type ScoreListener interface {
	OnScore(update ScoreUpdate)
	OnTimer(remainingSeconds int)
	OnSessionEnd(result SessionResult)
}

// HighScoreStore 最高分存储
type HighScoreStore interface {
	HighScore() int
	SaveHighScore(score int) error
}

// NopCueSink 丢弃所有音效
type NopCueSink struct{}

// PlayCue 不做任何事
func (NopCueSink) PlayCue(string, float64) {}

// ScoreListeners 把事件广播给多个监听者
type ScoreListeners []ScoreListener

// OnScore 广播分数变化
func (ls ScoreListeners) OnScore(update ScoreUpdate) {
	for _, l := range ls {
		l.OnScore(update)
	}
}

// OnTimer 广播剩余时间
func (ls ScoreListeners) OnTimer(remainingSeconds int) {
	for _, l := range ls {
		l.OnTimer(remainingSeconds)
	}
}

// OnSessionEnd 广播结束结果
func (ls ScoreListeners) OnSessionEnd(result SessionResult) {
	for _, l := range ls {
		l.OnSessionEnd(result)
	}
}
