package scenes

import (
	"image/color"

	"github.com/gonewx/ballbounce/internal/physics"
	"github.com/gonewx/ballbounce/pkg/components"
	"github.com/gonewx/ballbounce/pkg/ecs"
	"github.com/gonewx/ballbounce/pkg/types"
)

// debugProxy 俯视调试渲染用的代理，只保存最近一次写入的状态
type debugProxy struct {
	kind     types.EntityKind
	bouncer  bool
	radius   float64      // 球半径
	half     physics.Vec3 // 长方体半边长
	position physics.Vec3
	rotation physics.Quat
	shader   int
	vanish   float64
	detached bool
}

func (p *debugProxy) SetTransform(pos physics.Vec3, rot physics.Quat) {
	p.position, p.rotation = pos, rot
}

func (p *debugProxy) SetShaderState(state int) {
	p.shader = state
}

func (p *debugProxy) SetVanishProgress(progress float64) {
	p.vanish = progress
}

func (p *debugProxy) Detach() {
	p.detached = true
}

// 着色器状态对应的三套配色
var kindPalettes = [types.ShaderStateCount]map[types.EntityKind]color.RGBA{
	{
		types.KindTennisBall: {R: 206, G: 232, B: 72, A: 255},
		types.KindMetal:      {R: 170, G: 170, B: 180, A: 255},
		types.KindRubber:     {R: 220, G: 60, B: 60, A: 255},
		types.KindBalloon:    {R: 250, G: 140, B: 200, A: 255},
		types.KindBonusBall:  {R: 255, G: 200, B: 40, A: 255},
		types.KindCube:       {R: 120, G: 90, B: 220, A: 255},
		types.KindStaticCube: {R: 140, G: 100, B: 60, A: 255},
		types.KindStaticBall: {R: 250, G: 140, B: 200, A: 255},
	},
	{
		types.KindTennisBall: {R: 60, G: 255, B: 120, A: 255},
		types.KindMetal:      {R: 90, G: 200, B: 255, A: 255},
		types.KindRubber:     {R: 255, G: 90, B: 255, A: 255},
		types.KindBalloon:    {R: 255, G: 255, B: 90, A: 255},
		types.KindBonusBall:  {R: 255, G: 120, B: 20, A: 255},
		types.KindCube:       {R: 20, G: 255, B: 220, A: 255},
		types.KindStaticCube: {R: 200, G: 60, B: 255, A: 255},
		types.KindStaticBall: {R: 255, G: 255, B: 90, A: 255},
	},
	{
		types.KindTennisBall: {R: 255, G: 255, B: 255, A: 255},
		types.KindMetal:      {R: 40, G: 40, B: 40, A: 255},
		types.KindRubber:     {R: 255, G: 160, B: 0, A: 255},
		types.KindBalloon:    {R: 0, G: 160, B: 255, A: 255},
		types.KindBonusBall:  {R: 255, G: 0, B: 80, A: 255},
		types.KindCube:       {R: 0, G: 200, B: 0, A: 255},
		types.KindStaticCube: {R: 120, G: 120, B: 120, A: 255},
		types.KindStaticBall: {R: 0, G: 160, B: 255, A: 255},
	},
}

var (
	woodColor = color.RGBA{R: 170, G: 120, B: 70, A: 255}
	sandColor = color.RGBA{R: 230, G: 210, B: 150, A: 255}
)

// color 当前配色，消失进度越大越透明
func (p *debugProxy) color(surface types.BouncerSurface) color.RGBA {
	var c color.RGBA
	if p.bouncer {
		c = woodColor
		if surface == types.SurfaceSand {
			c = sandColor
		}
	} else {
		state := p.shader
		if state < 0 || state >= types.ShaderStateCount {
			state = 0
		}
		c = kindPalettes[state][p.kind]
	}
	if p.vanish > 0 {
		alpha := 1 - p.vanish
		if alpha < 0 {
			alpha = 0
		}
		c.R = uint8(float64(c.R) * alpha)
		c.G = uint8(float64(c.G) * alpha)
		c.B = uint8(float64(c.B) * alpha)
		c.A = uint8(float64(c.A) * alpha)
	}
	return c
}

// newDebugProxyLoader 按实体的种类和刚体形状创建调试代理
func newDebugProxyLoader(em *ecs.EntityManager, proxies map[ecs.EntityID]*debugProxy) func(id ecs.EntityID) components.RenderProxy {
	return func(id ecs.EntityID) components.RenderProxy {
		bodyComp, ok := ecs.GetComponent[*components.BodyComponent](em, id)
		if !ok || bodyComp.Body == nil {
			return nil
		}
		p := &debugProxy{
			radius:   bodyComp.Body.Shape.Radius,
			half:     bodyComp.Body.Shape.HalfExtents,
			position: bodyComp.Body.Position,
			rotation: bodyComp.Body.Quaternion,
		}
		if entity, ok := ecs.GetComponent[*components.EntityComponent](em, id); ok {
			p.kind = entity.Kind
		}
		p.bouncer = ecs.HasComponent[*components.BouncerComponent](em, id)
		proxies[id] = p
		return p
	}
}
