package components

// RemovalComponent 管理实体的移除流程
//
// 状态：存活 → 消失中（ShouldRemove=true）→ 销毁
// 消失中的实体不再参与计分和碰撞响应，只推进 VanishProgress。
type RemovalComponent struct {
	ShouldRemove   bool    // 已进入消失动画
	IsBeingRemoved bool    // 已被合并暂存占用，等待下一帧应用
	VanishProgress float64 // 消失进度 [0,1)，达到 1.0 时销毁
}

// IsInert 实体是否已不再参与玩法逻辑
func (r *RemovalComponent) IsInert() bool {
	return r.ShouldRemove || r.IsBeingRemoved
}
