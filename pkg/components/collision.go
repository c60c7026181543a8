package components

import "github.com/gonewx/ballbounce/internal/physics"

// BodyComponent 持有实体独占的物理刚体
// 刚体只承载动力学状态，游戏标志位保存在其他组件中
type BodyComponent struct {
	Body *physics.Body
}
