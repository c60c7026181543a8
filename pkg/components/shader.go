package components

import "github.com/gonewx/ballbounce/pkg/types"

// ShaderComponent 实体当前使用的显示着色器状态
type ShaderComponent struct {
	State types.ShaderState
}
