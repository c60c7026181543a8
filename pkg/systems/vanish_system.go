package systems

import (
	"github.com/gonewx/ballbounce/pkg/components"
	"github.com/gonewx/ballbounce/pkg/ecs"
)

// VanishSystem 推进消失动画
// 每帧固定增加进度，不受动画倍率影响；进度达到 1.0 时销毁实体
type VanishSystem struct {
	entityManager *ecs.EntityManager
	lifecycle     *LifecycleSystem
	increment     float64
}

// NewVanishSystem 创建消失动画系统
func NewVanishSystem(em *ecs.EntityManager, lifecycle *LifecycleSystem, increment float64) *VanishSystem {
	return &VanishSystem{
		entityManager: em,
		lifecycle:     lifecycle,
		increment:     increment,
	}
}

// Update 推进所有消失中实体的进度，返回本帧销毁的实体数
func (s *VanishSystem) Update(deltaTime float64) int {
	destroyed := 0
	for _, id := range ecs.GetEntitiesWith1[*components.RemovalComponent](s.entityManager) {
		if s.entityManager.IsMarkedForDestroy(id) {
			continue
		}
		removal, ok := ecs.GetComponent[*components.RemovalComponent](s.entityManager, id)
		if !ok || !removal.ShouldRemove {
			continue
		}

		removal.VanishProgress += s.increment
		if proxyComp, ok := ecs.GetComponent[*components.RenderProxyComponent](s.entityManager, id); ok && proxyComp.Proxy != nil {
			proxyComp.Proxy.SetVanishProgress(removal.VanishProgress)
		}

		if removal.VanishProgress >= 1.0 && s.lifecycle.Destroy(id) {
			destroyed++
		}
	}
	return destroyed
}
