package systems

import (
	"log"
	"math/rand"

	"github.com/gonewx/ballbounce/internal/physics"
	"github.com/gonewx/ballbounce/pkg/components"
	"github.com/gonewx/ballbounce/pkg/config"
	"github.com/gonewx/ballbounce/pkg/ecs"
	"github.com/gonewx/ballbounce/pkg/entities"
	"github.com/gonewx/ballbounce/pkg/types"
)

// SpawnHook 实体生成后的回调（用于挂接碰撞监听）
type SpawnHook func(id ecs.EntityID, body *physics.Body)

// LifecycleSystem 管理存活的球与方块
//
// 负责生成、容量淘汰、销毁和会话结束时的清理。
// balls 按生成顺序排列，队首是最老的球。
type LifecycleSystem struct {
	entityManager *ecs.EntityManager
	world         *physics.World
	config        *config.GameConfig
	rng           *rand.Rand

	balls     []ecs.EntityID
	cubes     []ecs.EntityID
	bodyIndex map[*physics.Body]ecs.EntityID

	onSpawn SpawnHook
}

// NewLifecycleSystem 创建生命周期系统
func NewLifecycleSystem(em *ecs.EntityManager, world *physics.World, cfg *config.GameConfig, rng *rand.Rand) *LifecycleSystem {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &LifecycleSystem{
		entityManager: em,
		world:         world,
		config:        cfg,
		rng:           rng,
		bodyIndex:     make(map[*physics.Body]ecs.EntityID),
	}
}

// SetSpawnHook 设置生成回调
func (s *LifecycleSystem) SetSpawnHook(hook SpawnHook) {
	s.onSpawn = hook
}

// SpawnBall 生成指定种类的球，超过容量时立即淘汰最老的球
func (s *LifecycleSystem) SpawnBall(kind types.EntityKind, pos physics.Vec3, shader types.ShaderState, now float64) (ecs.EntityID, bool) {
	id, err := entities.NewBallEntity(s.entityManager, s.world, s.config, kind, pos, shader, now)
	if err != nil {
		log.Printf("[LifecycleSystem] Failed to spawn ball: %v", err)
		return 0, false
	}
	s.track(id)
	s.balls = append(s.balls, id)
	s.EnforceCapacity()
	return id, true
}

// SpawnRandomBall 在出球区域随机位置生成一个随机种类的普通球
func (s *LifecycleSystem) SpawnRandomBall(shader types.ShaderState, now float64) (ecs.EntityID, bool) {
	kinds := types.SpawnableBallKinds
	kind := kinds[s.rng.Intn(len(kinds))]

	sp := s.config.Spawn
	pos := physics.V3(
		sp.MinX+s.rng.Float64()*(sp.MaxX-sp.MinX),
		sp.MinY+s.rng.Float64()*(sp.MaxY-sp.MinY),
		sp.Z,
	)
	return s.SpawnBall(kind, pos, shader, now)
}

// SpawnCube 生成奖励方块
func (s *LifecycleSystem) SpawnCube(pos physics.Vec3, shader types.ShaderState, now float64) ecs.EntityID {
	id := entities.NewCubeEntity(s.entityManager, s.world, s.config, pos, shader, now)
	s.track(id)
	s.cubes = append(s.cubes, id)
	return id
}

func (s *LifecycleSystem) track(id ecs.EntityID) {
	bodyComp, ok := ecs.GetComponent[*components.BodyComponent](s.entityManager, id)
	if !ok {
		return
	}
	s.bodyIndex[bodyComp.Body] = id
	if s.onSpawn != nil {
		s.onSpawn(id, bodyComp.Body)
	}
}

// EnforceCapacity 存活球数超过上限时强制销毁最老的球（不经过消失动画）
func (s *LifecycleSystem) EnforceCapacity() {
	for len(s.balls) > s.config.Lifecycle.MaxBalls {
		oldest := s.balls[0]
		log.Printf("[LifecycleSystem] Ball capacity exceeded, evicting entity %d", oldest)
		s.Destroy(oldest)
	}
}

// IsLive 实体是否存活（存在且未被销毁）
func (s *LifecycleSystem) IsLive(id ecs.EntityID) bool {
	return s.entityManager.Exists(id) && !s.entityManager.IsMarkedForDestroy(id)
}

// Destroy 销毁实体：从物理世界和渲染场景中移除，并从所有跟踪集合中删除
// 实体已销毁时返回 false
func (s *LifecycleSystem) Destroy(id ecs.EntityID) bool {
	if !s.IsLive(id) {
		return false
	}

	if bodyComp, ok := ecs.GetComponent[*components.BodyComponent](s.entityManager, id); ok && bodyComp.Body != nil {
		bodyComp.Body.ClearListeners()
		s.world.RemoveBody(bodyComp.Body)
		delete(s.bodyIndex, bodyComp.Body)
	}
	if proxyComp, ok := ecs.GetComponent[*components.RenderProxyComponent](s.entityManager, id); ok && proxyComp.Proxy != nil {
		proxyComp.Proxy.Detach()
		proxyComp.Proxy = nil
	}

	s.balls = removeID(s.balls, id)
	s.cubes = removeID(s.cubes, id)
	s.entityManager.DestroyEntity(id)
	return true
}

// EntityForBody 查询刚体所属的实体
func (s *LifecycleSystem) EntityForBody(body *physics.Body) (ecs.EntityID, bool) {
	id, ok := s.bodyIndex[body]
	return id, ok
}

// Body 查询实体的刚体
func (s *LifecycleSystem) Body(id ecs.EntityID) (*physics.Body, bool) {
	bodyComp, ok := ecs.GetComponent[*components.BodyComponent](s.entityManager, id)
	if !ok || bodyComp.Body == nil {
		return nil, false
	}
	return bodyComp.Body, true
}

// Balls 存活球列表（按生成顺序的副本）
func (s *LifecycleSystem) Balls() []ecs.EntityID {
	return append([]ecs.EntityID(nil), s.balls...)
}

// Cubes 存活方块列表（按生成顺序的副本）
func (s *LifecycleSystem) Cubes() []ecs.EntityID {
	return append([]ecs.EntityID(nil), s.cubes...)
}

// BallCount 存活球数量
func (s *LifecycleSystem) BallCount() int {
	return len(s.balls)
}

// LatestCube 最近生成的仍存活且未进入移除流程的方块
func (s *LifecycleSystem) LatestCube() (ecs.EntityID, bool) {
	for i := len(s.cubes) - 1; i >= 0; i-- {
		id := s.cubes[i]
		if removal, ok := ecs.GetComponent[*components.RemovalComponent](s.entityManager, id); ok && removal.IsInert() {
			continue
		}
		return id, true
	}
	return 0, false
}

// Clear 会话结束时清理所有球和奖励方块，静态场景物体保留
func (s *LifecycleSystem) Clear() int {
	count := 0
	for _, id := range append(s.Balls(), s.Cubes()...) {
		if s.Destroy(id) {
			count++
		}
	}
	s.entityManager.RemoveMarkedEntities()
	log.Printf("[LifecycleSystem] Cleared %d entities", count)
	return count
}

// Update 清理本帧标记删除的实体
func (s *LifecycleSystem) Update(deltaTime float64) {
	s.entityManager.RemoveMarkedEntities()
}

func removeID(ids []ecs.EntityID, id ecs.EntityID) []ecs.EntityID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
