// Package input 把键盘状态映射为会话操作
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/ballbounce/pkg/systems"
)

// Actions 一帧内的玩家操作
type Actions struct {
	Bouncer          systems.BouncerInput
	Start            bool
	SpawnCube        bool
	CycleShader      bool
	TogglePause      bool
	ToggleRoundClock bool
}

// KeyState 键盘状态查询
// Pressed 表示按住，JustPressed 表示本帧刚按下
type KeyState struct {
	Pressed     func(ebiten.Key) bool
	JustPressed func(ebiten.Key) bool
}

// EbitenKeys 读取真实键盘状态
func EbitenKeys() KeyState {
	return KeyState{
		Pressed:     ebiten.IsKeyPressed,
		JustPressed: inpututil.IsKeyJustPressed,
	}
}

// Poll 按键位表生成本帧的操作
//
// 方向键倾斜弹板，A/D 平移弹板，Q/E 平移最新的奖励方块（按住连续生效）；
// W 切换表面，R 复位倾斜，空格生成方块，X 切换着色器，H 暂停，
// Backspace 冻结回合倒计时，Enter 开始（只在刚按下的一帧生效）。
func Poll(keys KeyState) Actions {
	var a Actions
	b := &a.Bouncer

	if keys.Pressed(ebiten.KeyArrowRight) {
		b.TiltZ--
	}
	if keys.Pressed(ebiten.KeyArrowLeft) {
		b.TiltZ++
	}
	if keys.Pressed(ebiten.KeyArrowUp) {
		b.TiltX--
	}
	if keys.Pressed(ebiten.KeyArrowDown) {
		b.TiltX++
	}
	if keys.Pressed(ebiten.KeyA) {
		b.MoveX--
	}
	if keys.Pressed(ebiten.KeyD) {
		b.MoveX++
	}
	if keys.Pressed(ebiten.KeyQ) {
		b.CubeMoveX--
	}
	if keys.Pressed(ebiten.KeyE) {
		b.CubeMoveX++
	}

	b.ToggleSurface = keys.JustPressed(ebiten.KeyW)
	b.ResetRotation = keys.JustPressed(ebiten.KeyR)
	a.SpawnCube = keys.JustPressed(ebiten.KeySpace)
	a.CycleShader = keys.JustPressed(ebiten.KeyX)
	a.TogglePause = keys.JustPressed(ebiten.KeyH)
	a.ToggleRoundClock = keys.JustPressed(ebiten.KeyBackspace)
	a.Start = keys.JustPressed(ebiten.KeyEnter)
	return a
}
