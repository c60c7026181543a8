package systems

import (
	"github.com/gonewx/ballbounce/pkg/components"
	"github.com/gonewx/ballbounce/pkg/ecs"
	"github.com/gonewx/ballbounce/pkg/types"
)

// RenderSyncSystem 把刚体变换单向复制到渲染代理
// 代理尚未加载（为 nil）的实体直接跳过
type RenderSyncSystem struct {
	entityManager *ecs.EntityManager
}

// NewRenderSyncSystem 创建渲染同步系统
func NewRenderSyncSystem(em *ecs.EntityManager) *RenderSyncSystem {
	return &RenderSyncSystem{entityManager: em}
}

// Update 同步所有实体的位置与朝向，返回实际同步的数量
func (s *RenderSyncSystem) Update(deltaTime float64) int {
	synced := 0
	for _, id := range ecs.GetEntitiesWith2[*components.BodyComponent, *components.RenderProxyComponent](s.entityManager) {
		bodyComp, _ := ecs.GetComponent[*components.BodyComponent](s.entityManager, id)
		proxyComp, _ := ecs.GetComponent[*components.RenderProxyComponent](s.entityManager, id)
		if bodyComp.Body == nil || proxyComp.Proxy == nil {
			continue
		}
		proxyComp.Proxy.SetTransform(bodyComp.Body.Position, bodyComp.Body.Quaternion)
		synced++
	}
	return synced
}

// ApplyShaderState 把全局着色器状态写入所有实体及其代理
func (s *RenderSyncSystem) ApplyShaderState(state types.ShaderState) {
	for _, id := range ecs.GetEntitiesWith1[*components.ShaderComponent](s.entityManager) {
		shader, _ := ecs.GetComponent[*components.ShaderComponent](s.entityManager, id)
		shader.State = state
		if proxyComp, ok := ecs.GetComponent[*components.RenderProxyComponent](s.entityManager, id); ok && proxyComp.Proxy != nil {
			proxyComp.Proxy.SetShaderState(int(state))
		}
	}
}

// ProxyLoader 为实体创建渲染代理，返回 nil 表示尚未就绪
type ProxyLoader func(id ecs.EntityID) components.RenderProxy

// AttachProxies 为尚无代理的实体加载代理，每帧最多 limit 个（limit<=0 表示不限）
// 新代理会立即收到实体当前的着色器状态
func (s *RenderSyncSystem) AttachProxies(load ProxyLoader, limit int) int {
	attached := 0
	for _, id := range ecs.GetEntitiesWith1[*components.RenderProxyComponent](s.entityManager) {
		if limit > 0 && attached >= limit {
			break
		}
		proxyComp, _ := ecs.GetComponent[*components.RenderProxyComponent](s.entityManager, id)
		if proxyComp.Proxy != nil || s.entityManager.IsMarkedForDestroy(id) {
			continue
		}
		proxy := load(id)
		if proxy == nil {
			continue
		}
		if shader, ok := ecs.GetComponent[*components.ShaderComponent](s.entityManager, id); ok {
			proxy.SetShaderState(int(shader.State))
		}
		proxyComp.Proxy = proxy
		attached++
	}
	return attached
}
