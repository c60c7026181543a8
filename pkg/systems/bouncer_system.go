package systems

import (
	"math"

	"github.com/gonewx/ballbounce/internal/physics"
	"github.com/gonewx/ballbounce/pkg/components"
	"github.com/gonewx/ballbounce/pkg/config"
	"github.com/gonewx/ballbounce/pkg/ecs"
)

// BouncerInput 一帧的弹板控制输入
// 方向量取 -1/0/1，实际位移和角度再乘以速度与动画倍率
type BouncerInput struct {
	TiltZ         float64 // 绕 Z 轴倾斜方向
	TiltX         float64 // 绕 X 轴倾斜方向
	MoveX         float64 // 弹板沿 X 平移方向
	CubeMoveX     float64 // 最新奖励方块沿 X 平移方向
	ToggleSurface bool
	ResetRotation bool
}

// BouncerSystem 弹板控制系统
// 弹板是静态刚体，直接改写其位置、朝向和材质
type BouncerSystem struct {
	entityManager *ecs.EntityManager
	lifecycle     *LifecycleSystem
	config        *config.GameConfig
	multiplier    float64
}

// NewBouncerSystem 创建弹板控制系统
func NewBouncerSystem(em *ecs.EntityManager, lifecycle *LifecycleSystem, cfg *config.GameConfig, multiplier float64) *BouncerSystem {
	return &BouncerSystem{
		entityManager: em,
		lifecycle:     lifecycle,
		config:        cfg,
		multiplier:    multiplier,
	}
}

// SetMultiplier 修改全局动画倍率
func (s *BouncerSystem) SetMultiplier(multiplier float64) {
	s.multiplier = multiplier
}

// Apply 应用一帧的控制输入
func (s *BouncerSystem) Apply(input BouncerInput) {
	speed := s.config.Bouncer.MoveSpeed * s.multiplier
	angleSpeed := s.config.Bouncer.AngleSpeed * s.multiplier
	maxTilt := s.config.MaxTiltRadians()

	for _, id := range ecs.GetEntitiesWith2[*components.BouncerComponent, *components.BodyComponent](s.entityManager) {
		bouncer, _ := ecs.GetComponent[*components.BouncerComponent](s.entityManager, id)
		bodyComp, _ := ecs.GetComponent[*components.BodyComponent](s.entityManager, id)
		body := bodyComp.Body

		if input.ToggleSurface {
			bouncer.Surface = bouncer.Surface.Toggle()
			body.Material = physics.MaterialTag(bouncer.Surface.String())
		}
		if input.ResetRotation {
			bouncer.AngleX, bouncer.AngleZ = 0, 0
		}

		// Z 轴倾斜可正可负；X 轴只允许向后倾斜
		bouncer.AngleZ = clampFloat(bouncer.AngleZ+input.TiltZ*angleSpeed, -maxTilt, maxTilt)
		bouncer.AngleX = clampFloat(bouncer.AngleX+input.TiltX*angleSpeed, -maxTilt, 0)
		body.Quaternion = physics.QuatFromEuler(bouncer.AngleX, 0, bouncer.AngleZ)

		body.Position.X += input.MoveX * speed
	}

	if input.CubeMoveX != 0 {
		if cubeID, ok := s.lifecycle.LatestCube(); ok {
			if bodyComp, ok := ecs.GetComponent[*components.BodyComponent](s.entityManager, cubeID); ok && !bodyComp.Body.IsStatic() {
				bodyComp.Body.Position.X += input.CubeMoveX * speed
			}
		}
	}
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
