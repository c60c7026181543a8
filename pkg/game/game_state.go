package game

import "github.com/gonewx/ballbounce/pkg/types"

// GameState 存储一局游戏的全局状态
// 分数、着色器状态和动画倍率，由会话和各系统共享
type GameState struct {
	Score               int               // 当前分数（可以为负）
	ShaderState         types.ShaderState // 全局显示着色器状态
	AnimationMultiplier float64           // 全局动画倍率（由目标帧率决定）
	Mode                types.GameMode    // 游戏模式
}

// NewGameState 创建游戏状态
func NewGameState(mode types.GameMode, animationMultiplier float64) *GameState {
	if animationMultiplier <= 0 {
		animationMultiplier = 1.0
	}
	return &GameState{
		Mode:                mode,
		AnimationMultiplier: animationMultiplier,
	}
}

// AddScore 增加分数（delta 可为负），返回新的分数
func (gs *GameState) AddScore(delta int) int {
	gs.Score += delta
	return gs.Score
}

// ResetScore 分数清零
func (gs *GameState) ResetScore() {
	gs.Score = 0
}

// CycleShader 切换到下一个着色器状态并返回
func (gs *GameState) CycleShader() types.ShaderState {
	gs.ShaderState = gs.ShaderState.Next()
	return gs.ShaderState
}

// MusicForShader 着色器状态对应的背景音乐
func MusicForShader(state types.ShaderState) string {
	switch state {
	case 1:
		return "bump"
	case 2:
		return "cartoon"
	default:
		return "bgMusic"
	}
}
