package systems

import (
	"fmt"
	"log"
	"math"

	"github.com/gonewx/ballbounce/internal/physics"
	"github.com/gonewx/ballbounce/pkg/components"
	"github.com/gonewx/ballbounce/pkg/config"
	"github.com/gonewx/ballbounce/pkg/ecs"
	"github.com/gonewx/ballbounce/pkg/game"
	"github.com/gonewx/ballbounce/pkg/types"
)

// 弹板撞击音效的最小撞击速度
const bouncerCueThreshold = 0.1

// Clock 返回当前游戏时钟（秒），暂停期间不前进
type Clock func() float64

// CollisionRouter 把物理世界的碰撞事件分类并分派
//
// 分类：球-地面（计分/弹跳计数）、球-方块（暂存合并）、球-弹板（撞击音效）、
// 方块-地面（扣分并消失）。消失中或已被合并占用的实体上的事件一律忽略。
// 回调在 World.Step 内同步执行，这里只修改组件标志，不增删刚体。
type CollisionRouter struct {
	entityManager *ecs.EntityManager
	lifecycle     *LifecycleSystem
	merges        *MergeCoordinator
	target        *MovingTarget
	scorer        *game.Scorer
	state         *game.GameState
	cues          game.CueSink
	listener      game.ScoreListener
	clock         Clock

	debounce       float64
	removeAtBounce int
	cubePenalty    int
}

// NewCollisionRouter 创建碰撞分派器
func NewCollisionRouter(em *ecs.EntityManager, lifecycle *LifecycleSystem, merges *MergeCoordinator,
	target *MovingTarget, state *game.GameState, cfg *config.GameConfig, clock Clock) *CollisionRouter {
	return &CollisionRouter{
		entityManager:  em,
		lifecycle:      lifecycle,
		merges:         merges,
		target:         target,
		scorer:         game.NewScorer(cfg.Scoring.Bands),
		state:          state,
		cues:           game.NopCueSink{},
		clock:          clock,
		debounce:       cfg.Lifecycle.DebounceSeconds,
		removeAtBounce: cfg.Lifecycle.RemoveAtBounce,
		cubePenalty:    cfg.Scoring.CubePenalty,
	}
}

// SetCueSink 设置音效输出
func (r *CollisionRouter) SetCueSink(cues game.CueSink) {
	if cues == nil {
		cues = game.NopCueSink{}
	}
	r.cues = cues
}

// SetScoreListener 设置分数监听者
func (r *CollisionRouter) SetScoreListener(listener game.ScoreListener) {
	r.listener = listener
}

// Attach 为实体的刚体挂接碰撞回调，作为 LifecycleSystem 的生成回调使用
func (r *CollisionRouter) Attach(id ecs.EntityID, body *physics.Body) {
	body.OnCollide(func(event physics.ContactEvent) {
		r.HandleContact(id, event)
	})
}

// HandleContact 处理实体 id 收到的一次碰撞事件
func (r *CollisionRouter) HandleContact(id ecs.EntityID, event physics.ContactEvent) {
	if !r.lifecycle.IsLive(id) {
		return
	}
	entity, ok := ecs.GetComponent[*components.EntityComponent](r.entityManager, id)
	if !ok {
		return
	}
	removal, ok := ecs.GetComponent[*components.RemovalComponent](r.entityManager, id)
	if !ok || removal.IsInert() {
		return
	}

	switch {
	case entity.Kind == types.KindCube:
		if event.Other.Material == physics.MaterialGround {
			r.handleCubeGround(id, event, removal)
		}
	case entity.Kind.IsBall():
		r.handleBall(id, entity.Kind, event)
	}
}

func (r *CollisionRouter) handleBall(id ecs.EntityID, kind types.EntityKind, event physics.ContactEvent) {
	if otherID, ok := r.lifecycle.EntityForBody(event.Other); ok {
		if other, ok := ecs.GetComponent[*components.EntityComponent](r.entityManager, otherID); ok && other.Kind == types.KindCube {
			r.merges.StageMerge(id, otherID, physics.Midpoint(event.Body.Position, event.Other.Position))
			return
		}
	}

	impact := event.ImpactVelocityAlongNormal()
	switch event.Other.Material {
	case physics.MaterialGround:
		r.handleBallGround(id, event)
		r.cues.PlayCue("ballDrop", math.Min(impact/10, 1))
	case physics.MaterialWood, physics.MaterialSand:
		r.handleBallBouncer(kind, event.Other.Material, impact)
	default:
		r.cues.PlayCue("ballDrop", math.Min(impact/10, 1))
	}
}

// handleBallGround 地面接触：去抖后计数，首次弹跳计分，第二次弹跳进入消失
func (r *CollisionRouter) handleBallGround(id ecs.EntityID, event physics.ContactEvent) {
	bounce, ok := ecs.GetComponent[*components.BounceComponent](r.entityManager, id)
	if !ok {
		return
	}
	if event.Body.Velocity.Y >= 0 {
		return
	}
	now := r.clock()
	if bounce.Count > 0 && now-bounce.LastBounceTime <= r.debounce {
		return
	}

	bounce.Count++
	bounce.LastBounceTime = now

	if bounce.Count == 1 && !bounce.HasScored {
		r.scoreLanding(id, event.Body.Position)
		bounce.HasScored = true
	}

	if bounce.Count >= r.removeAtBounce {
		if removal, ok := ecs.GetComponent[*components.RemovalComponent](r.entityManager, id); ok {
			removal.ShouldRemove = true
		}
	}
}

func (r *CollisionRouter) scoreLanding(id ecs.EntityID, pos physics.Vec3) {
	multiplier := 1
	if scoring, ok := ecs.GetComponent[*components.ScoringComponent](r.entityManager, id); ok {
		multiplier = scoring.Multiplier
	}

	targetX := r.target.CurrentOffset()
	targetZ := r.target.CurrentOffsetZ(r.state.Mode)
	result := r.scorer.ScoreForImpact(pos.X, pos.Z, targetX, targetZ, multiplier)

	if result.Cue != "" {
		r.cues.PlayCue(result.Cue, 1)
	}
	if result.Points == 0 {
		return
	}

	score := r.state.AddScore(result.Points)
	log.Printf("[CollisionRouter] Entity %d landed %.1f from target: %s (score %d)", id, result.Distance, result.Label, score)
	r.notify(game.ScoreUpdate{
		Score:      score,
		Delta:      result.Points,
		Position:   physics.V3(pos.X, 0.1, pos.Z),
		Label:      result.Label,
		ZoneRadius: result.ZoneRadius,
		ZoneCenter: physics.V3(targetX, 0, targetZ),
	})
}

// handleBallBouncer 弹板撞击只产生音效，不影响计分和移除
func (r *CollisionRouter) handleBallBouncer(kind types.EntityKind, surface physics.MaterialTag, impact float64) {
	if impact <= bouncerCueThreshold {
		return
	}
	if surface == physics.MaterialSand {
		r.cues.PlayCue("sandHit", math.Min(impact/30, 1))
	}
	cue, divisor := BouncerHitCue(kind)
	r.cues.PlayCue(cue, math.Min(impact/divisor, 1))
}

// BouncerHitCue 球种类对应的弹板撞击音效及音量换算除数
func BouncerHitCue(kind types.EntityKind) (string, float64) {
	switch kind {
	case types.KindBalloon:
		return "balloonHit", 20
	case types.KindMetal:
		return "metalHit", 20
	case types.KindRubber:
		return "rubberHit", 10
	default:
		return "tennisHit", 10
	}
}

// handleCubeGround 方块落地：扣分一次并进入消失
func (r *CollisionRouter) handleCubeGround(id ecs.EntityID, event physics.ContactEvent, removal *components.RemovalComponent) {
	removal.ShouldRemove = true
	score := r.state.AddScore(-r.cubePenalty)
	r.cues.PlayCue("lose", 1)
	log.Printf("[CollisionRouter] Cube %d touched the ground: -%d (score %d)", id, r.cubePenalty, score)
	r.notify(game.ScoreUpdate{
		Score:    score,
		Delta:    -r.cubePenalty,
		Position: event.Body.Position,
		Label:    fmt.Sprintf("-%d", r.cubePenalty),
	})
}

func (r *CollisionRouter) notify(update game.ScoreUpdate) {
	if r.listener != nil {
		r.listener.OnScore(update)
	}
}
