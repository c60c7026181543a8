package systems

import (
	"math"
	"strings"
	"testing"

	"github.com/gonewx/ballbounce/internal/physics"
	"github.com/gonewx/ballbounce/pkg/components"
	"github.com/gonewx/ballbounce/pkg/ecs"
	"github.com/gonewx/ballbounce/pkg/types"
)

// TestBallGroundScoresOnFirstBounce 首次落地按与靶心的距离计分
func TestBallGroundScoresOnFirstBounce(t *testing.T) {
	r := newTestRig(t, types.ModeClassic)
	id := r.spawnBall(t, types.KindTennisBall, physics.V3(5, 4, 0))

	r.groundHit(t, id, -10)

	if r.state.Score != 100 {
		t.Errorf("Expected score 100, got %d", r.state.Score)
	}
	bounce, _ := ecs.GetComponent[*components.BounceComponent](r.em, id)
	if bounce.Count != 1 || !bounce.HasScored {
		t.Errorf("Expected count=1 hasScored=true, got %+v", bounce)
	}
	if r.cues.count("point8") != 1 {
		t.Errorf("Expected point8 cue once, got %v", r.cues.cues)
	}
	if r.cues.count("ballDrop") != 1 {
		t.Errorf("Ground contact should also play ballDrop")
	}
	if len(r.listener.updates) != 1 {
		t.Fatalf("Expected 1 score update, got %d", len(r.listener.updates))
	}
	u := r.listener.updates[0]
	if u.Delta != 100 || u.Label != "+100" || u.ZoneRadius != 10 {
		t.Errorf("Unexpected update %+v", u)
	}
	if u.Position != physics.V3(5, 0.1, 0) {
		t.Errorf("Popup should sit just above the impact point, got %+v", u.Position)
	}
}

// TestBallGroundDebounce 去抖窗口内的接触不计为弹跳，第二次弹跳进入消失
func TestBallGroundDebounce(t *testing.T) {
	r := newTestRig(t, types.ModeClassic)
	id := r.spawnBall(t, types.KindMetal, physics.V3(0, 4, 0))
	bounce, _ := ecs.GetComponent[*components.BounceComponent](r.em, id)
	removal, _ := ecs.GetComponent[*components.RemovalComponent](r.em, id)

	steps := []struct {
		name        string
		now         float64
		vy          float64
		wantCount   int
		wantRemoval bool
	}{
		{"首次落地", 0, -10, 1, false},
		{"窗口内重复接触", 0.3, -5, 1, false},
		{"恰好等于窗口", 0.5, -5, 1, false},
		{"向上运动不计", 0.8, 3, 1, false},
		{"第二次弹跳", 0.9, -4, 2, true},
	}
	for _, st := range steps {
		r.now = st.now
		r.groundHit(t, id, st.vy)
		if bounce.Count != st.wantCount {
			t.Errorf("%s: expected count %d, got %d", st.name, st.wantCount, bounce.Count)
		}
		if removal.ShouldRemove != st.wantRemoval {
			t.Errorf("%s: expected shouldRemove=%v", st.name, st.wantRemoval)
		}
	}
	if r.state.Score != 100 {
		t.Errorf("Ball should be scored exactly once, score=%d", r.state.Score)
	}
}

// TestBallGroundMissStillLatches 落在计分区外不加分，但之后也不再计分
func TestBallGroundMissStillLatches(t *testing.T) {
	r := newTestRig(t, types.ModeClassic)
	id := r.spawnBall(t, types.KindRubber, physics.V3(90, 4, 0))

	r.groundHit(t, id, -10)

	bounce, _ := ecs.GetComponent[*components.BounceComponent](r.em, id)
	if !bounce.HasScored || bounce.Count != 1 {
		t.Errorf("Expected latched first bounce, got %+v", bounce)
	}
	if r.state.Score != 0 || len(r.listener.updates) != 0 {
		t.Errorf("Miss should not change score")
	}
	for _, c := range r.cues.cues {
		if strings.HasPrefix(c.name, "point") {
			t.Errorf("Miss should not play %s", c.name)
		}
	}
}

// TestBonusBallMultiplier 合并大球按三倍计分
func TestBonusBallMultiplier(t *testing.T) {
	r := newTestRig(t, types.ModeClassic)
	id := r.spawnBall(t, types.KindBonusBall, physics.V3(15, 15, 0))

	r.groundHit(t, id, -10)

	if r.state.Score != 180 {
		t.Errorf("Expected 60x3=180, got %d", r.state.Score)
	}
	if got := r.listener.updates[0].Label; got != "+180" {
		t.Errorf("Expected label +180, got %s", got)
	}
}

// TestTargetOffsetsByMode 挑战模式下靶心同时在 Z 方向移动
func TestTargetOffsetsByMode(t *testing.T) {
	tests := []struct {
		name string
		mode types.GameMode
		want int
	}{
		{"经典模式只看X", types.ModeClassic, 50},
		{"挑战模式X和Z", types.ModeChallenge, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRig(t, tt.mode)
			// sin(π)=0, sin(π/2)=1：靶心在 (0, 0, 20)
			r.target.SetTime(math.Pi)
			id := r.spawnBall(t, types.KindTennisBall, physics.V3(0, 4, 20))

			r.groundHit(t, id, -10)

			if r.state.Score != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, r.state.Score)
			}
		})
	}
}

// TestCubeGroundPenalty 方块落地扣分一次
func TestCubeGroundPenalty(t *testing.T) {
	r := newTestRig(t, types.ModeClassic)
	r.state.AddScore(50)
	cube := r.lifecycle.SpawnCube(physics.V3(0, 15, 0), r.state.ShaderState, r.now)
	body := r.body(t, cube)

	for i := 0; i < 3; i++ {
		r.router.HandleContact(cube, physics.NewContactEvent(body, r.ground, 5))
	}

	if r.state.Score != 30 {
		t.Errorf("Expected 50-20=30, got %d", r.state.Score)
	}
	removal, _ := ecs.GetComponent[*components.RemovalComponent](r.em, cube)
	if !removal.ShouldRemove {
		t.Error("Cube should start vanishing")
	}
	if r.cues.count("lose") != 1 {
		t.Errorf("Expected one lose cue, got %d", r.cues.count("lose"))
	}
	if len(r.listener.updates) != 1 || r.listener.updates[0].Label != "-20" || r.listener.updates[0].Delta != -20 {
		t.Errorf("Unexpected updates %+v", r.listener.updates)
	}
}

// TestCubeNonGroundContactIgnored 方块与其他物体接触不扣分
func TestCubeNonGroundContactIgnored(t *testing.T) {
	r := newTestRig(t, types.ModeClassic)
	cube := r.lifecycle.SpawnCube(physics.V3(0, 15, 0), r.state.ShaderState, r.now)
	bouncer := physics.NewBody(physics.BodyOptions{Material: physics.MaterialWood, Shape: physics.Box(physics.V3(1, 1, 1))})

	r.router.HandleContact(cube, physics.NewContactEvent(r.body(t, cube), bouncer, 5))

	if r.state.Score != 0 || len(r.cues.cues) != 0 {
		t.Errorf("Cube-bouncer contact should be silent, score=%d cues=%v", r.state.Score, r.cues.cues)
	}
}

// TestBallCubeMergeIsExclusive 同一步内方块只能被一个球占用
func TestBallCubeMergeIsExclusive(t *testing.T) {
	r := newTestRig(t, types.ModeClassic)
	cube := r.lifecycle.SpawnCube(physics.V3(0, 50, 0), r.state.ShaderState, r.now)
	ballA := r.spawnBall(t, types.KindTennisBall, physics.V3(0, 60, 0))
	ballB := r.spawnBall(t, types.KindMetal, physics.V3(10, 50, 0))
	cubeBody := r.body(t, cube)

	r.router.HandleContact(ballA, physics.NewContactEvent(r.body(t, ballA), cubeBody, 3))
	r.router.HandleContact(ballB, physics.NewContactEvent(r.body(t, ballB), cubeBody, 3))
	// 方块一侧的事件不触发合并
	r.router.HandleContact(cube, physics.NewContactEvent(cubeBody, r.body(t, ballB), 3))

	if r.merges.PendingCount() != 1 {
		t.Fatalf("Expected exactly one pending merge, got %d", r.merges.PendingCount())
	}
	pending := r.merges.Pending()[0]
	if pending.BallID != ballA || pending.CubeID != cube {
		t.Errorf("Unexpected merge %+v", pending)
	}
	if pending.Midpoint != physics.V3(0, 55, 0) {
		t.Errorf("Expected midpoint (0,55,0), got %+v", pending.Midpoint)
	}

	removalB, _ := ecs.GetComponent[*components.RemovalComponent](r.em, ballB)
	if removalB.IsInert() {
		t.Error("Second ball should stay live")
	}
	removalA, _ := ecs.GetComponent[*components.RemovalComponent](r.em, ballA)
	if !removalA.IsBeingRemoved {
		t.Error("Merged ball should be claimed")
	}
}

// TestBouncerCues 弹板撞击音效按球种类和表面选择，低于阈值时静音
func TestBouncerCues(t *testing.T) {
	tests := []struct {
		name    string
		kind    types.EntityKind
		surface physics.MaterialTag
		impact  float64
		want    []playedCue
	}{
		{"木板金属球", types.KindMetal, physics.MaterialWood, 10, []playedCue{{"metalHit", 0.5}}},
		{"木板气球", types.KindBalloon, physics.MaterialWood, 50, []playedCue{{"balloonHit", 1}}},
		{"沙面橡胶球", types.KindRubber, physics.MaterialSand, 15, []playedCue{{"sandHit", 0.5}, {"rubberHit", 1}}},
		{"木板网球", types.KindTennisBall, physics.MaterialWood, 4, []playedCue{{"tennisHit", 0.4}}},
		{"低于阈值", types.KindTennisBall, physics.MaterialSand, 0.1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRig(t, types.ModeClassic)
			id := r.spawnBall(t, tt.kind, physics.V3(0, 40, 90))
			bouncer := physics.NewBody(physics.BodyOptions{Material: tt.surface, Shape: physics.Box(physics.V3(11, 30, 11))})

			r.router.HandleContact(id, physics.NewContactEvent(r.body(t, id), bouncer, tt.impact))

			if len(r.cues.cues) != len(tt.want) {
				t.Fatalf("Expected cues %v, got %v", tt.want, r.cues.cues)
			}
			for i, want := range tt.want {
				got := r.cues.cues[i]
				if got.name != want.name || math.Abs(got.volume-want.volume) > 1e-9 {
					t.Errorf("Cue %d: expected %+v, got %+v", i, want, got)
				}
			}
			if r.state.Score != 0 {
				t.Error("Bouncer contact must not score")
			}
		})
	}
}

// TestOtherContactPlaysBallDrop 球与球等其他接触播放落地声
func TestOtherContactPlaysBallDrop(t *testing.T) {
	r := newTestRig(t, types.ModeClassic)
	a := r.spawnBall(t, types.KindTennisBall, physics.V3(0, 40, 0))
	b := r.spawnBall(t, types.KindMetal, physics.V3(6, 40, 0))

	r.router.HandleContact(a, physics.NewContactEvent(r.body(t, a), r.body(t, b), 5))

	cue, ok := r.cues.last("ballDrop")
	if !ok || math.Abs(cue.volume-0.5) > 1e-9 {
		t.Errorf("Expected ballDrop at 0.5, got %+v", r.cues.cues)
	}
}

// TestInertEntityIgnoresContacts 消失中或已被合并占用的实体忽略所有事件
func TestInertEntityIgnoresContacts(t *testing.T) {
	tests := []struct {
		name string
		mark func(*components.RemovalComponent)
	}{
		{"消失中", func(rc *components.RemovalComponent) { rc.ShouldRemove = true }},
		{"合并中", func(rc *components.RemovalComponent) { rc.IsBeingRemoved = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRig(t, types.ModeClassic)
			id := r.spawnBall(t, types.KindTennisBall, physics.V3(0, 4, 0))
			removal, _ := ecs.GetComponent[*components.RemovalComponent](r.em, id)
			tt.mark(removal)

			r.groundHit(t, id, -10)

			bounce, _ := ecs.GetComponent[*components.BounceComponent](r.em, id)
			if bounce.Count != 0 || r.state.Score != 0 || len(r.cues.cues) != 0 {
				t.Errorf("Inert ball reacted: bounce=%+v score=%d cues=%v", bounce, r.state.Score, r.cues.cues)
			}
		})
	}
}

// TestDestroyedEntityIgnoresContacts 已销毁实体上的迟到事件被丢弃
func TestDestroyedEntityIgnoresContacts(t *testing.T) {
	r := newTestRig(t, types.ModeClassic)
	id := r.spawnBall(t, types.KindTennisBall, physics.V3(0, 4, 0))
	body := r.body(t, id)
	r.lifecycle.Destroy(id)

	body.Velocity = physics.V3(0, -10, 0)
	r.router.HandleContact(id, physics.NewContactEvent(body, r.ground, 10))

	if r.state.Score != 0 || len(r.cues.cues) != 0 {
		t.Error("Destroyed entity should not react")
	}
}

// TestFallingBallScoresThroughWorldStep 真实物理步进中落地计分
func TestFallingBallScoresThroughWorldStep(t *testing.T) {
	r := newTestRig(t, types.ModeClassic)
	id := r.spawnBall(t, types.KindTennisBall, physics.V3(0, 10, 0))
	bounce, _ := ecs.GetComponent[*components.BounceComponent](r.em, id)

	dt := r.cfg.PhysicsStep(1)
	for i := 0; i < 1200 && bounce.Count == 0; i++ {
		r.now += 1.0 / 60.0
		r.world.Step(dt)
	}

	if bounce.Count != 1 {
		t.Fatalf("Ball never landed, count=%d", bounce.Count)
	}
	if r.state.Score != 100 {
		t.Errorf("Expected bullseye 100, got %d", r.state.Score)
	}
}
