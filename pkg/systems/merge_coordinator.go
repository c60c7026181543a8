package systems

import (
	"log"

	"github.com/gonewx/ballbounce/internal/physics"
	"github.com/gonewx/ballbounce/pkg/components"
	"github.com/gonewx/ballbounce/pkg/ecs"
	"github.com/gonewx/ballbounce/pkg/game"
	"github.com/gonewx/ballbounce/pkg/types"
)

// PendingMerge 一次暂存的球-方块合并
type PendingMerge struct {
	BallID   ecs.EntityID
	CubeID   ecs.EntityID
	Midpoint physics.Vec3
}

// MergeCoordinator 合并协调器
//
// 碰撞回调中只做暂存（标记双方 IsBeingRemoved 并入队），
// 真正的销毁与生成在下一帧物理步进之前由 ApplyPendingMerges 按入队顺序执行。
type MergeCoordinator struct {
	entityManager *ecs.EntityManager
	lifecycle     *LifecycleSystem
	state         *game.GameState
	cues          game.CueSink
	clock         Clock

	pending []PendingMerge
}

// NewMergeCoordinator 创建合并协调器
func NewMergeCoordinator(em *ecs.EntityManager, lifecycle *LifecycleSystem, state *game.GameState, clock Clock) *MergeCoordinator {
	return &MergeCoordinator{
		entityManager: em,
		lifecycle:     lifecycle,
		state:         state,
		cues:          game.NopCueSink{},
		clock:         clock,
	}
}

// SetCueSink 设置音效输出
func (m *MergeCoordinator) SetCueSink(cues game.CueSink) {
	if cues == nil {
		cues = game.NopCueSink{}
	}
	m.cues = cues
}

// StageMerge 暂存一次合并
// 任一方已被占用或正在消失时拒绝，返回 false
func (m *MergeCoordinator) StageMerge(ballID, cubeID ecs.EntityID, midpoint physics.Vec3) bool {
	ballRemoval, ok := ecs.GetComponent[*components.RemovalComponent](m.entityManager, ballID)
	if !ok || ballRemoval.IsInert() {
		return false
	}
	cubeRemoval, ok := ecs.GetComponent[*components.RemovalComponent](m.entityManager, cubeID)
	if !ok || cubeRemoval.IsInert() {
		return false
	}

	ballRemoval.IsBeingRemoved = true
	cubeRemoval.IsBeingRemoved = true
	m.pending = append(m.pending, PendingMerge{BallID: ballID, CubeID: cubeID, Midpoint: midpoint})
	return true
}

// PendingCount 队列中待应用的合并数
func (m *MergeCoordinator) PendingCount() int {
	return len(m.pending)
}

// Pending 队列副本
func (m *MergeCoordinator) Pending() []PendingMerge {
	return append([]PendingMerge(nil), m.pending...)
}

// ApplyPendingMerges 按入队顺序应用所有合并，返回生成的合并大球
//
// 两个源实体都已不存活（例如刚被容量淘汰）时跳过生成；
// 只有一方存活时仍销毁该方并生成大球。
// 返回后队列总是为空。
func (m *MergeCoordinator) ApplyPendingMerges() []ecs.EntityID {
	if len(m.pending) == 0 {
		return nil
	}

	queue := m.pending
	m.pending = nil

	spawned := make([]ecs.EntityID, 0, len(queue))
	for _, merge := range queue {
		ballDestroyed := m.lifecycle.Destroy(merge.BallID)
		cubeDestroyed := m.lifecycle.Destroy(merge.CubeID)
		if !ballDestroyed && !cubeDestroyed {
			log.Printf("[MergeCoordinator] Skipping merge %d+%d: both entities already gone", merge.BallID, merge.CubeID)
			continue
		}

		id, ok := m.lifecycle.SpawnBall(types.KindBonusBall, merge.Midpoint, m.state.ShaderState, m.clock())
		if !ok {
			continue
		}
		m.cues.PlayCue("merge", 1)
		log.Printf("[MergeCoordinator] Merged ball %d and cube %d into bonus ball %d", merge.BallID, merge.CubeID, id)
		spawned = append(spawned, id)
	}
	return spawned
}

// Reset 丢弃所有暂存的合并（会话结束时）
func (m *MergeCoordinator) Reset() {
	m.pending = nil
}
