package entities

import (
	"github.com/gonewx/ballbounce/internal/physics"
	"github.com/gonewx/ballbounce/pkg/components"
	"github.com/gonewx/ballbounce/pkg/config"
	"github.com/gonewx/ballbounce/pkg/ecs"
	"github.com/gonewx/ballbounce/pkg/types"
)

// NewGroundBody 创建地面（水平面），地面不是实体，只参与碰撞分类
func NewGroundBody(world *physics.World, cfg *config.GameConfig) *physics.Body {
	ground := physics.NewBody(physics.BodyOptions{
		Mass:     0,
		Material: physics.MaterialGround,
		Shape:    physics.Plane(),
		Position: physics.V3(0, cfg.Physics.GroundY, 0),
	})
	world.AddBody(ground)
	return ground
}

// NewBouncerEntity 创建可倾斜的静态弹板，初始为木质
func NewBouncerEntity(em *ecs.EntityManager, world *physics.World, cfg *config.GameConfig) ecs.EntityID {
	body := physics.NewBody(physics.BodyOptions{
		Mass:     0,
		Material: physics.MaterialWood,
		Shape:    physics.Box(cfg.Bouncer.HalfExtents),
		Position: cfg.Bouncer.Position,
	})
	world.AddBody(body)

	id := em.CreateEntity()
	em.AddComponent(id, &components.BodyComponent{Body: body})
	em.AddComponent(id, &components.BouncerComponent{Surface: types.SurfaceWood})
	em.AddComponent(id, &components.RenderProxyComponent{})
	em.AddComponent(id, &components.ShaderComponent{})
	return id
}

// ApplyContactMaterials 把配置中的材质对参数注册到物理世界
func ApplyContactMaterials(world *physics.World, cfg *config.GameConfig) {
	for _, c := range cfg.Physics.Contacts {
		world.AddContactMaterial(c.A, c.B, physics.ContactMaterial{Restitution: c.Restitution, Friction: c.Friction})
	}
}
