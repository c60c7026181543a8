package components

import "github.com/gonewx/ballbounce/internal/physics"

// RenderProxy 渲染代理（网格）
// 核心逻辑只向它单向写入变换，不从中读取任何状态
type RenderProxy interface {
	SetTransform(position physics.Vec3, rotation physics.Quat)
	SetShaderState(state int)
	SetVanishProgress(progress float64)
	Detach()
}

// RenderProxyComponent 渲染代理组件
// Proxy 在资源异步加载完成前为 nil，同步系统会跳过该实体
type RenderProxyComponent struct {
	Proxy RenderProxy
}
