package entities

import (
	"github.com/gonewx/ballbounce/internal/physics"
	"github.com/gonewx/ballbounce/pkg/components"
	"github.com/gonewx/ballbounce/pkg/config"
	"github.com/gonewx/ballbounce/pkg/ecs"
	"github.com/gonewx/ballbounce/pkg/types"
)

// NewCubeEntity 创建奖励方块
// 方块落地会被扣分并进入消失动画，被球撞到则与球合并
func NewCubeEntity(em *ecs.EntityManager, world *physics.World, cfg *config.GameConfig,
	pos physics.Vec3, shader types.ShaderState, now float64) ecs.EntityID {

	half := cfg.Spawn.CubeSize / 2
	body := physics.NewBody(physics.BodyOptions{
		Mass:          cfg.Spawn.CubeMass,
		Material:      physics.MaterialCube,
		Shape:         physics.Box(physics.V3(half, half, half)),
		Position:      pos,
		LinearDamping: cfg.Spawn.CubeDamping,
	})
	world.AddBody(body)

	id := em.CreateEntity()
	em.AddComponent(id, &components.EntityComponent{Kind: types.KindCube, SpawnTime: now})
	em.AddComponent(id, &components.BodyComponent{Body: body})
	em.AddComponent(id, &components.RenderProxyComponent{})
	em.AddComponent(id, &components.RemovalComponent{})
	em.AddComponent(id, &components.ShaderComponent{State: shader})
	return id
}

// NewStaticCubeEntity 创建场景中的静态箱子（会话结束时保留）
func NewStaticCubeEntity(em *ecs.EntityManager, world *physics.World, cfg *config.GameConfig, pos physics.Vec3) ecs.EntityID {
	half := cfg.Spawn.CubeSize / 2
	body := physics.NewBody(physics.BodyOptions{
		Mass:     0,
		Material: physics.MaterialCube,
		Shape:    physics.Box(physics.V3(half, half, half)),
		Position: pos,
	})
	world.AddBody(body)

	id := em.CreateEntity()
	em.AddComponent(id, &components.EntityComponent{Kind: types.KindStaticCube})
	em.AddComponent(id, &components.BodyComponent{Body: body})
	em.AddComponent(id, &components.RenderProxyComponent{})
	em.AddComponent(id, &components.ShaderComponent{})
	return id
}
