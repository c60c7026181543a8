package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 游戏场景
type Scene interface {
	// Update 推进场景逻辑，deltaTime 为经过的秒数
	Update(deltaTime float64)

	// Draw 绘制场景
	Draw(screen *ebiten.Image)
}

// Saveable 可选接口：窗口关闭前需要落盘的场景实现它
//
// 返回 true 表示保存成功或无需保存；
// 返回 false 表示保存失败（程序仍会正常退出）
type Saveable interface {
	SaveOnExit() bool
}
