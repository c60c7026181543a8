package config

// 游戏逻辑屏幕尺寸，窗口缩放由 Ebitengine 处理
const (
	GameWindowWidth  = 800
	GameWindowHeight = 600
)

// WindowTitle 窗口标题
const WindowTitle = "Ball Bounce"
