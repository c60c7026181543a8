package entities

import (
	"fmt"

	"github.com/gonewx/ballbounce/internal/physics"
	"github.com/gonewx/ballbounce/pkg/components"
	"github.com/gonewx/ballbounce/pkg/config"
	"github.com/gonewx/ballbounce/pkg/ecs"
	"github.com/gonewx/ballbounce/pkg/types"
)

// BallMaterial 球种类对应的物理材质标签
// 合并大球沿用网球材质，静态场景球沿用气球材质
func BallMaterial(kind types.EntityKind) physics.MaterialTag {
	switch kind {
	case types.KindMetal:
		return physics.MaterialMetal
	case types.KindRubber:
		return physics.MaterialRubber
	case types.KindBalloon, types.KindStaticBall:
		return physics.MaterialBalloon
	default:
		return physics.MaterialTennisBall
	}
}

// NewBallEntity 创建一个球实体并把刚体加入物理世界
//
// 参数:
//   - em: EntityManager 实例
//   - world: 物理世界
//   - cfg: 游戏配置（球种类参数表）
//   - kind: 球种类（普通球或合并大球）
//   - pos: 初始位置
//   - shader: 当前全局着色器状态
//   - now: 当前游戏时钟（秒）
//
// 返回: 实体ID；种类不是可生成的球或配置缺失时返回错误
func NewBallEntity(em *ecs.EntityManager, world *physics.World, cfg *config.GameConfig,
	kind types.EntityKind, pos physics.Vec3, shader types.ShaderState, now float64) (ecs.EntityID, error) {

	if !kind.IsBall() || kind.IsStatic() {
		return 0, fmt.Errorf("%s is not a spawnable ball kind", kind)
	}
	params, ok := cfg.BallKind(kind)
	if !ok {
		return 0, fmt.Errorf("missing ball config for %s", kind)
	}

	body := physics.NewBody(physics.BodyOptions{
		Mass:           params.Mass,
		Material:       BallMaterial(kind),
		Shape:          physics.Sphere(params.Radius),
		Position:       pos,
		LinearDamping:  params.LinearDamping,
		AngularDamping: params.AngularDamping,
	})
	world.AddBody(body)

	multiplier := 1
	if kind == types.KindBonusBall {
		multiplier = cfg.Scoring.BonusMultiplier
	}

	id := em.CreateEntity()
	em.AddComponent(id, &components.EntityComponent{Kind: kind, SpawnTime: now})
	em.AddComponent(id, &components.BodyComponent{Body: body})
	// 渲染代理异步加载，创建时为空
	em.AddComponent(id, &components.RenderProxyComponent{})
	em.AddComponent(id, &components.BounceComponent{})
	em.AddComponent(id, &components.RemovalComponent{})
	em.AddComponent(id, &components.ScoringComponent{Multiplier: multiplier})
	em.AddComponent(id, &components.EnergyComponent{Initial: physics.EnergyOf(body, cfg.Physics.Gravity).Total})
	em.AddComponent(id, &components.ShaderComponent{State: shader})

	return id, nil
}

// NewStaticBallEntity 创建场景中的静态气球（会话结束时保留）
func NewStaticBallEntity(em *ecs.EntityManager, world *physics.World, cfg *config.GameConfig, pos physics.Vec3) ecs.EntityID {
	radius := 4.0
	if params, ok := cfg.BallKind(types.KindStaticBall); ok {
		radius = params.Radius
	}

	body := physics.NewBody(physics.BodyOptions{
		Mass:     0,
		Material: BallMaterial(types.KindStaticBall),
		Shape:    physics.Sphere(radius),
		Position: pos,
	})
	world.AddBody(body)

	id := em.CreateEntity()
	em.AddComponent(id, &components.EntityComponent{Kind: types.KindStaticBall})
	em.AddComponent(id, &components.BodyComponent{Body: body})
	em.AddComponent(id, &components.RenderProxyComponent{})
	em.AddComponent(id, &components.ShaderComponent{})
	return id
}
