package systems

import (
	"math/rand"
	"testing"

	"github.com/gonewx/ballbounce/internal/physics"
	"github.com/gonewx/ballbounce/pkg/config"
	"github.com/gonewx/ballbounce/pkg/ecs"
	"github.com/gonewx/ballbounce/pkg/entities"
	"github.com/gonewx/ballbounce/pkg/game"
	"github.com/gonewx/ballbounce/pkg/types"
)

// playedCue 记录的一次音效
type playedCue struct {
	name   string
	volume float64
}

// recordingCueSink 记录所有音效
type recordingCueSink struct {
	cues []playedCue
}

func (s *recordingCueSink) PlayCue(name string, volume float64) {
	s.cues = append(s.cues, playedCue{name, volume})
}

func (s *recordingCueSink) count(name string) int {
	n := 0
	for _, c := range s.cues {
		if c.name == name {
			n++
		}
	}
	return n
}

func (s *recordingCueSink) last(name string) (playedCue, bool) {
	for i := len(s.cues) - 1; i >= 0; i-- {
		if s.cues[i].name == name {
			return s.cues[i], true
		}
	}
	return playedCue{}, false
}

// recordingListener 记录分数事件
type recordingListener struct {
	updates []game.ScoreUpdate
	timers  []int
	results []game.SessionResult
}

func (l *recordingListener) OnScore(update game.ScoreUpdate) { l.updates = append(l.updates, update) }
func (l *recordingListener) OnTimer(remaining int)           { l.timers = append(l.timers, remaining) }
func (l *recordingListener) OnSessionEnd(result game.SessionResult) {
	l.results = append(l.results, result)
}

// fakeProxy 记录写入的渲染代理
type fakeProxy struct {
	position physics.Vec3
	rotation physics.Quat
	shader   int
	vanish   float64
	detached bool
	syncs    int
}

func (p *fakeProxy) SetTransform(pos physics.Vec3, rot physics.Quat) {
	p.position, p.rotation = pos, rot
	p.syncs++
}
func (p *fakeProxy) SetShaderState(state int)    { p.shader = state }
func (p *fakeProxy) SetVanishProgress(v float64) { p.vanish = v }
func (p *fakeProxy) Detach()                     { p.detached = true }

// testRig 组装好的一套核心系统
type testRig struct {
	em        *ecs.EntityManager
	world     *physics.World
	ground    *physics.Body
	cfg       *config.GameConfig
	state     *game.GameState
	target    *MovingTarget
	lifecycle *LifecycleSystem
	merges    *MergeCoordinator
	router    *CollisionRouter
	vanish    *VanishSystem
	cues      *recordingCueSink
	listener  *recordingListener
	now       float64
}

func newTestRig(t *testing.T, mode types.GameMode) *testRig {
	t.Helper()
	cfg := config.DefaultGameConfig()
	cfg.Session.Mode = mode

	r := &testRig{
		em:       ecs.NewEntityManager(),
		world:    physics.NewWorld(physics.V3(0, cfg.Physics.Gravity, 0)),
		cfg:      cfg,
		state:    game.NewGameState(mode, 1),
		cues:     &recordingCueSink{},
		listener: &recordingListener{},
	}
	clock := func() float64 { return r.now }

	r.ground = entities.NewGroundBody(r.world, cfg)
	entities.ApplyContactMaterials(r.world, cfg)

	r.target = NewMovingTarget(cfg.Target.Speed, cfg.Target.Amplitude, cfg.Target.TimeStep, 1)
	r.lifecycle = NewLifecycleSystem(r.em, r.world, cfg, rand.New(rand.NewSource(7)))
	r.merges = NewMergeCoordinator(r.em, r.lifecycle, r.state, clock)
	r.merges.SetCueSink(r.cues)
	r.router = NewCollisionRouter(r.em, r.lifecycle, r.merges, r.target, r.state, cfg, clock)
	r.router.SetCueSink(r.cues)
	r.router.SetScoreListener(r.listener)
	r.lifecycle.SetSpawnHook(r.router.Attach)
	r.vanish = NewVanishSystem(r.em, r.lifecycle, cfg.Lifecycle.VanishIncrement)
	return r
}

func (r *testRig) spawnBall(t *testing.T, kind types.EntityKind, pos physics.Vec3) ecs.EntityID {
	t.Helper()
	id, ok := r.lifecycle.SpawnBall(kind, pos, r.state.ShaderState, r.now)
	if !ok {
		t.Fatalf("SpawnBall(%s) failed", kind)
	}
	return id
}

func (r *testRig) body(t *testing.T, id ecs.EntityID) *physics.Body {
	t.Helper()
	body, ok := r.lifecycle.Body(id)
	if !ok {
		t.Fatalf("entity %d has no body", id)
	}
	return body
}

// groundHit 模拟球以速度 vy 落地的一次碰撞事件
func (r *testRig) groundHit(t *testing.T, id ecs.EntityID, vy float64) {
	t.Helper()
	body := r.body(t, id)
	body.Velocity = physics.V3(0, vy, 0)
	r.router.HandleContact(id, physics.NewContactEvent(body, r.ground, -vy))
}
