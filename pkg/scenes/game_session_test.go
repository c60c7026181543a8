package scenes

import (
	"math"
	"math/rand"
	"testing"

	"github.com/gonewx/ballbounce/internal/physics"
	"github.com/gonewx/ballbounce/pkg/components"
	"github.com/gonewx/ballbounce/pkg/config"
	"github.com/gonewx/ballbounce/pkg/ecs"
	"github.com/gonewx/ballbounce/pkg/game"
	"github.com/gonewx/ballbounce/pkg/systems"
	"github.com/gonewx/ballbounce/pkg/types"
)

type countingCues struct {
	counts map[string]int
}

func (c *countingCues) PlayCue(name string, volume float64) {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[name]++
}

type fakeMusic struct {
	played  []string
	ambient []string
	stopped int
	paused  int
	resumed int
}

func (m *fakeMusic) PlayMusic(id string) bool   { m.played = append(m.played, id); return true }
func (m *fakeMusic) PlayAmbient(id string) bool { m.ambient = append(m.ambient, id); return true }
func (m *fakeMusic) StopAll()                   { m.stopped++ }
func (m *fakeMusic) Pause()                     { m.paused++ }
func (m *fakeMusic) Resume()                    { m.resumed++ }

type memoryStore struct {
	best  int
	saves []int
}

func (s *memoryStore) HighScore() int { return s.best }
func (s *memoryStore) SaveHighScore(score int) error {
	s.best = score
	s.saves = append(s.saves, score)
	return nil
}

type sessionListener struct {
	scores  []game.ScoreUpdate
	timers  []int
	results []game.SessionResult
}

func (l *sessionListener) OnScore(u game.ScoreUpdate)             { l.scores = append(l.scores, u) }
func (l *sessionListener) OnTimer(remaining int)                  { l.timers = append(l.timers, remaining) }
func (l *sessionListener) OnSessionEnd(result game.SessionResult) { l.results = append(l.results, result) }

type sessionFixture struct {
	session  *GameSession
	cues     *countingCues
	music    *fakeMusic
	store    *memoryStore
	listener *sessionListener
}

func newSessionFixture(t *testing.T, best int) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		cues:     &countingCues{},
		music:    &fakeMusic{},
		store:    &memoryStore{best: best},
		listener: &sessionListener{},
	}
	f.session = NewGameSession(config.DefaultGameConfig(), SessionOptions{
		Cues:       f.cues,
		Music:      f.music,
		HighScores: f.store,
		Listeners:  []game.ScoreListener{f.listener},
		Rand:       rand.New(rand.NewSource(3)),
	})
	return f
}

// 每步 0.5 秒，二进制下可精确累加
const testStep = 0.5

func (f *sessionFixture) advance(seconds float64) {
	for i := 0; i < int(seconds/testStep); i++ {
		f.session.Update(testStep)
	}
}

func (f *sessionFixture) startRunning(t *testing.T) {
	t.Helper()
	if !f.session.Start() {
		t.Fatal("Start should succeed from idle")
	}
	for i := 0; i < 100 && f.session.Phase() == PhaseCountdown; i++ {
		f.session.Update(testStep)
	}
	if f.session.Phase() != PhaseRunning {
		t.Fatalf("Expected running after countdown, got %s", f.session.Phase())
	}
}

// TestSessionCountdown 倒计时三格后进入进行中
func TestSessionCountdown(t *testing.T) {
	f := newSessionFixture(t, 0)
	f.session.Start()

	if f.session.Phase() != PhaseCountdown || f.session.CountdownLeft() != 3 {
		t.Fatalf("Expected countdown 3, got %s/%d", f.session.Phase(), f.session.CountdownLeft())
	}
	if len(f.music.played) != 1 || f.music.played[0] != "bgMusic" {
		t.Errorf("Expected bgMusic, got %v", f.music.played)
	}
	if len(f.music.ambient) != 1 || f.music.ambient[0] != "ocean" {
		t.Errorf("Expected ocean ambient, got %v", f.music.ambient)
	}
	if f.session.Start() {
		t.Error("Start should be rejected during countdown")
	}

	// 3 × 1.2s，以 0.5s 步进在 4.0s 时完成
	f.advance(3.5)
	if f.session.Phase() != PhaseCountdown {
		t.Errorf("Should still count down at 3.5s")
	}
	f.advance(0.5)
	if f.session.Phase() != PhaseRunning {
		t.Fatalf("Expected running at 4.0s, got %s", f.session.Phase())
	}
	if len(f.listener.timers) != 1 || f.listener.timers[0] != 60 {
		t.Errorf("Expected initial timer 60, got %v", f.listener.timers)
	}
}

func bouncerBody(t *testing.T, s *GameSession) *physics.Body {
	t.Helper()
	em := s.EntityManager()
	for _, id := range ecs.GetEntitiesWith1[*components.BouncerComponent](em) {
		if bodyComp, ok := ecs.GetComponent[*components.BodyComponent](em, id); ok {
			return bodyComp.Body
		}
	}
	t.Fatal("bouncer entity not found")
	return nil
}

// TestSessionCountdownFreezesGameplay 倒计时期间弹板输入和靶运动都不生效
func TestSessionCountdownFreezesGameplay(t *testing.T) {
	f := newSessionFixture(t, 0)
	f.session.Start()
	bouncer := bouncerBody(t, f.session)
	pos, rot := bouncer.Position, bouncer.Quaternion
	targetTime := f.session.Target().Time()

	controls := systems.BouncerInput{MoveX: 1, TiltZ: 1}
	for i := 0; i < 10; i++ {
		f.session.ApplyControls(controls)
		f.session.Update(1.0 / 60.0)
	}

	if f.session.Phase() != PhaseCountdown {
		t.Fatalf("Expected countdown, got %s", f.session.Phase())
	}
	if bouncer.Position != pos || bouncer.Quaternion != rot {
		t.Errorf("Bouncer moved during countdown: %+v %+v", bouncer.Position, bouncer.Quaternion)
	}
	if f.session.Target().Time() != targetTime || f.session.Clock() != 0 {
		t.Errorf("Target time %f and clock %f should stay frozen", f.session.Target().Time(), f.session.Clock())
	}

	f.advance(4)
	if f.session.Phase() != PhaseRunning {
		t.Fatalf("Expected running, got %s", f.session.Phase())
	}
	f.session.ApplyControls(controls)
	if bouncer.Position.X == pos.X {
		t.Error("Controls should move the bouncer once running")
	}
}

// TestSessionSpawnCadence 首次延迟后立即出一个球，之后按间隔出球
func TestSessionSpawnCadence(t *testing.T) {
	f := newSessionFixture(t, 0)
	f.startRunning(t)

	tests := []struct {
		name    string
		advance float64
		spawns  int
	}{
		{"延迟内不出球", 4.5, 0},
		{"延迟到点出第一个球", 0.5, 1},
		{"间隔内不出球", 2.5, 1},
		{"间隔到点", 0.5, 2},
		{"再一个间隔", 3, 3},
	}
	for _, tt := range tests {
		f.advance(tt.advance)
		if got := f.cues.counts["spawn"]; got != tt.spawns {
			t.Errorf("%s: expected %d spawns, got %d", tt.name, tt.spawns, got)
		}
	}
}

// TestSessionPauseFreezes 暂停时时钟、计时器和物理全部冻结
func TestSessionPauseFreezes(t *testing.T) {
	f := newSessionFixture(t, 0)
	f.startRunning(t)
	f.advance(5)
	balls := f.session.Lifecycle().Balls()
	if len(balls) != 1 {
		t.Fatalf("Expected one ball, got %d", len(balls))
	}
	body, _ := f.session.Lifecycle().Body(balls[0])
	pos := body.Position
	clock := f.session.Clock()
	remaining := f.session.RemainingSeconds()
	targetTime := f.session.Target().Time()

	f.session.SetFocused(false)
	if f.session.Phase() != PhasePaused || f.music.paused != 1 {
		t.Fatalf("Focus loss should pause")
	}
	f.advance(20)

	if f.session.Clock() != clock || f.session.RemainingSeconds() != remaining {
		t.Error("Clock and round timer should not move while paused")
	}
	if body.Position != pos || f.session.Target().Time() != targetTime {
		t.Error("Physics and target should be frozen")
	}
	if f.cues.counts["spawn"] != 1 {
		t.Error("No spawns while paused")
	}

	f.session.TogglePause()
	if f.session.Phase() != PhaseRunning || f.music.resumed != 1 {
		t.Fatalf("Expected running after resume")
	}
	f.advance(0.5)
	if f.session.Clock() != clock+0.5 {
		t.Errorf("Clock should resume, got %f", f.session.Clock())
	}
}

// TestSessionRoundEnd 回合结束时清理实体、停止音乐并提交最高分
func TestSessionRoundEnd(t *testing.T) {
	f := newSessionFixture(t, 10)
	f.startRunning(t)
	f.session.State().AddScore(40)
	em := f.session.EntityManager()

	f.advance(59.5)
	if f.session.Phase() != PhaseRunning {
		t.Fatal("Round should still run at 59.5s")
	}
	if f.cues.counts["countdown"] != 1 {
		t.Errorf("Expected one countdown cue, got %d", f.cues.counts["countdown"])
	}
	f.advance(0.5)

	if f.session.Phase() != PhaseEnded {
		t.Fatalf("Expected ended, got %s", f.session.Phase())
	}
	if f.session.Lifecycle().BallCount() != 0 || len(f.session.Lifecycle().Cubes()) != 0 {
		t.Error("Balls and cubes should be cleared")
	}
	if got := len(ecs.GetEntitiesWith1[*components.BodyComponent](em)); got != 3 {
		t.Errorf("Expected bouncer and two scenery entities to survive, got %d", got)
	}
	if f.music.stopped != 1 {
		t.Error("Music should stop")
	}
	if len(f.store.saves) != 1 || f.store.best != 40 {
		t.Errorf("Expected high score 40 saved, got %v", f.store.saves)
	}
	if len(f.listener.results) != 1 || !f.listener.results[0].NewHighScore {
		t.Errorf("Expected new high score result, got %+v", f.listener.results)
	}
	timers := f.listener.timers
	if timers[len(timers)-1] != 0 {
		t.Errorf("Last timer event should be 0, got %d", timers[len(timers)-1])
	}

	spawns := f.cues.counts["spawn"]
	f.advance(10)
	if f.cues.counts["spawn"] != spawns {
		t.Error("Spawning should stop after end")
	}
}

// TestSessionHighScoreNotLowered 低于最高分时不写入
func TestSessionHighScoreNotLowered(t *testing.T) {
	f := newSessionFixture(t, 500)
	f.startRunning(t)
	f.session.State().AddScore(120)

	result := f.session.End()

	if result.NewHighScore || result.HighScore != 500 || result.Score != 120 {
		t.Errorf("Unexpected result %+v", result)
	}
	if len(f.store.saves) != 0 {
		t.Error("Store should not be written")
	}
}

// TestSessionRoundClockToggle 冻结回合倒计时后出球继续，回合不结束
func TestSessionRoundClockToggle(t *testing.T) {
	f := newSessionFixture(t, 0)
	f.startRunning(t)

	if !f.session.ToggleRoundClock() {
		t.Fatal("Round clock should be stopped")
	}
	f.advance(70)

	if f.session.Phase() != PhaseRunning {
		t.Fatalf("Round should not end while clock is stopped")
	}
	if f.session.RemainingSeconds() != 60 {
		t.Errorf("Remaining should stay 60, got %f", f.session.RemainingSeconds())
	}
	if f.cues.counts["spawn"] < 20 {
		t.Errorf("Spawning should continue, got %d", f.cues.counts["spawn"])
	}

	f.session.ToggleRoundClock()
	f.advance(1)
	if f.session.RemainingSeconds() != 59 {
		t.Errorf("Expected 59 after resuming the clock, got %f", f.session.RemainingSeconds())
	}
}

// TestSessionSpawnCubeCooldown 奖励方块有冷却时间
func TestSessionSpawnCubeCooldown(t *testing.T) {
	f := newSessionFixture(t, 0)
	if f.session.SpawnCube() {
		t.Error("Cube should be rejected when idle")
	}
	f.startRunning(t)

	if !f.session.SpawnCube() {
		t.Fatal("First cube should spawn")
	}
	if f.session.SpawnCube() {
		t.Error("Second cube within cooldown should be rejected")
	}
	f.advance(4.5)
	if f.session.SpawnCube() {
		t.Error("Still within cooldown at 4.5s")
	}
	f.advance(0.5)
	if !f.session.SpawnCube() {
		t.Error("Cube should spawn after cooldown")
	}
	if f.cues.counts["spawnCube"] != 2 {
		t.Errorf("Expected 2 spawnCube cues, got %d", f.cues.counts["spawnCube"])
	}
}

// TestSessionCycleShader 着色器切换同步到新球并切换背景音乐
func TestSessionCycleShader(t *testing.T) {
	f := newSessionFixture(t, 0)
	f.startRunning(t)

	if got := f.session.CycleShader(); got != types.ShaderState(1) {
		t.Fatalf("Expected shader 1, got %d", got)
	}
	if last := f.music.played[len(f.music.played)-1]; last != "bump" {
		t.Errorf("Expected bump music, got %s", last)
	}

	id, ok := f.session.SpawnBall()
	if !ok {
		t.Fatal("SpawnBall failed")
	}
	shader, _ := ecs.GetComponent[*components.ShaderComponent](f.session.EntityManager(), id)
	if shader.State != 1 {
		t.Errorf("New ball should use shader 1, got %d", shader.State)
	}

	f.session.CycleShader()
	f.session.CycleShader()
	if f.session.State().ShaderState != 0 {
		t.Errorf("Shader should wrap to 0")
	}
}

// TestSessionRestart 结束后可以重新开始，分数和时钟归零
func TestSessionRestart(t *testing.T) {
	f := newSessionFixture(t, 0)
	f.startRunning(t)
	f.session.State().AddScore(70)
	f.session.End()

	if !f.session.Start() {
		t.Fatal("Start should succeed after end")
	}
	if f.session.Score() != 0 || f.session.Clock() != 0 {
		t.Errorf("Expected fresh session, score=%d clock=%f", f.session.Score(), f.session.Clock())
	}
	if f.session.Phase() != PhaseCountdown {
		t.Errorf("Expected countdown, got %s", f.session.Phase())
	}
}

// TestSessionEnergyReadout 刚生成的球能量比例为 1
func TestSessionEnergyReadout(t *testing.T) {
	f := newSessionFixture(t, 0)
	id, ok := f.session.SpawnBall()
	if !ok {
		t.Fatal("SpawnBall failed")
	}

	energy, ratio, ok := f.session.EnergyReadout(id)
	if !ok {
		t.Fatal("Expected energy readout")
	}
	if energy.Kinetic != 0 || energy.Potential <= 0 {
		t.Errorf("Unexpected energy %+v", energy)
	}
	if math.Abs(ratio-1) > 1e-9 {
		t.Errorf("Expected ratio 1, got %f", ratio)
	}
	if _, _, ok := f.session.EnergyReadout(ecs.EntityID(9999)); ok {
		t.Error("Unknown entity should have no readout")
	}
}

// TestSessionFrameOrderAppliesMergesFirst 暂存的合并在下一帧物理步进前生效
func TestSessionFrameOrderAppliesMergesFirst(t *testing.T) {
	f := newSessionFixture(t, 0)
	f.startRunning(t)
	f.session.SpawnCube()
	cube := f.session.Lifecycle().Cubes()[0]
	ball, _ := f.session.SpawnBall()
	f.session.Merges().StageMerge(ball, cube, physics.V3(0, 100, 0))

	f.session.Update(1.0 / 60.0)

	if f.session.Merges().PendingCount() != 0 {
		t.Error("Queue should be drained")
	}
	if f.session.Lifecycle().IsLive(ball) || f.session.Lifecycle().IsLive(cube) {
		t.Error("Merged sources should be gone")
	}
	if f.cues.counts["merge"] != 1 {
		t.Error("Expected merge cue")
	}
}
