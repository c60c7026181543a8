package scenes

import (
	"log"
	"math"
	"math/rand"

	"github.com/gonewx/ballbounce/internal/physics"
	"github.com/gonewx/ballbounce/pkg/components"
	"github.com/gonewx/ballbounce/pkg/config"
	"github.com/gonewx/ballbounce/pkg/ecs"
	"github.com/gonewx/ballbounce/pkg/entities"
	"github.com/gonewx/ballbounce/pkg/game"
	"github.com/gonewx/ballbounce/pkg/systems"
	"github.com/gonewx/ballbounce/pkg/types"
)

// SessionPhase 会话阶段
type SessionPhase int

const (
	PhaseIdle SessionPhase = iota
	PhaseCountdown
	PhaseRunning
	PhasePaused
	PhaseEnded
)

func (p SessionPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCountdown:
		return "countdown"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseEnded:
		return "ended"
	}
	return "unknown"
}

// 会话内使用的环境音
const ambientOcean = "ocean"

// MusicPlayer 背景音乐与环境音控制
type MusicPlayer interface {
	PlayMusic(id string) bool
	PlayAmbient(id string) bool
	StopAll()
	Pause()
	Resume()
}

// SessionOptions 创建会话的可选协作者，全部允许为空
type SessionOptions struct {
	Cues                game.CueSink
	Music               MusicPlayer
	HighScores          game.HighScoreStore
	Listeners           []game.ScoreListener
	AnimationMultiplier float64
	Rand                *rand.Rand
}

// GameSession 一局游戏
//
// 状态机：Idle → Countdown → Running ⇄ Paused → Ended → Idle。
// 每帧顺序：应用暂存合并 → 物理步进（碰撞回调同步执行）→ 推进靶和消失进度
// → 同步渲染代理 → 清理销毁的实体。暂停时整条流水线和所有计时器冻结。
type GameSession struct {
	config        *config.GameConfig
	entityManager *ecs.EntityManager
	world         *physics.World
	state         *game.GameState

	target    *systems.MovingTarget
	lifecycle *systems.LifecycleSystem
	merges    *systems.MergeCoordinator
	router    *systems.CollisionRouter
	vanish    *systems.VanishSystem
	sync      *systems.RenderSyncSystem
	bouncer   *systems.BouncerSystem

	cues        game.CueSink
	music       MusicPlayer
	highScores  game.HighScoreStore
	listeners   game.ScoreListeners
	proxyLoader systems.ProxyLoader

	phase       SessionPhase
	resumePhase SessionPhase
	clock       float64 // 游戏时钟，只在倒计时和进行中推进

	countdownTimer *components.TimerComponent
	countdownLeft  int
	spawnTimer     *components.TimerComponent
	roundTimer     *components.TimerComponent
	roundStopped   bool
	lastSecond     int
	countdownCued  bool

	lastCubeTime float64
	cubeSpawned  bool
	lastResult   game.SessionResult
}

// NewGameSession 创建会话并搭建物理场景（地面、弹板、静态场景物体）
func NewGameSession(cfg *config.GameConfig, opts SessionOptions) *GameSession {
	if cfg == nil {
		cfg = config.DefaultGameConfig()
	}
	multiplier := opts.AnimationMultiplier
	if multiplier <= 0 {
		multiplier = 1
	}

	s := &GameSession{
		config:        cfg,
		entityManager: ecs.NewEntityManager(),
		world:         physics.NewWorld(physics.V3(0, cfg.Physics.Gravity, 0)),
		state:         game.NewGameState(cfg.Session.Mode, multiplier),
		cues:          opts.Cues,
		music:         opts.Music,
		highScores:    opts.HighScores,
		listeners:     game.ScoreListeners(opts.Listeners),
		phase:         PhaseIdle,
	}
	if s.cues == nil {
		s.cues = game.NopCueSink{}
	}

	entities.ApplyContactMaterials(s.world, cfg)
	entities.NewGroundBody(s.world, cfg)
	entities.NewBouncerEntity(s.entityManager, s.world, cfg)
	entities.NewStaticCubeEntity(s.entityManager, s.world, cfg, cfg.Scenery.CubePosition)
	entities.NewStaticBallEntity(s.entityManager, s.world, cfg, cfg.Scenery.BallPosition)

	clock := func() float64 { return s.clock }
	s.target = systems.NewMovingTarget(cfg.Target.Speed, cfg.Target.Amplitude, cfg.Target.TimeStep, multiplier)
	s.lifecycle = systems.NewLifecycleSystem(s.entityManager, s.world, cfg, opts.Rand)
	s.merges = systems.NewMergeCoordinator(s.entityManager, s.lifecycle, s.state, clock)
	s.merges.SetCueSink(s.cues)
	s.router = systems.NewCollisionRouter(s.entityManager, s.lifecycle, s.merges, s.target, s.state, cfg, clock)
	s.router.SetCueSink(s.cues)
	s.router.SetScoreListener(s.listeners)
	s.lifecycle.SetSpawnHook(s.router.Attach)
	s.vanish = systems.NewVanishSystem(s.entityManager, s.lifecycle, cfg.Lifecycle.VanishIncrement)
	s.sync = systems.NewRenderSyncSystem(s.entityManager)
	s.bouncer = systems.NewBouncerSystem(s.entityManager, s.lifecycle, cfg, multiplier)

	log.Printf("[GameSession] Created (%s mode, animation x%.2f)", cfg.Session.Mode, multiplier)
	return s
}

// AddListener 追加分数监听者
func (s *GameSession) AddListener(listener game.ScoreListener) {
	s.listeners = append(s.listeners, listener)
	s.router.SetScoreListener(s.listeners)
}

// SetProxyLoader 设置渲染代理加载函数
func (s *GameSession) SetProxyLoader(loader systems.ProxyLoader) {
	s.proxyLoader = loader
}

// Start 开始一局：进入倒计时，播放音乐和海浪环境音
// 只能从 Idle 或 Ended 开始
func (s *GameSession) Start() bool {
	switch s.phase {
	case PhaseEnded:
		s.Reset()
	case PhaseIdle:
	default:
		return false
	}

	s.phase = PhaseCountdown
	s.countdownLeft = s.config.Session.CountdownTicks
	s.countdownTimer = components.NewTimer("countdown", s.config.Session.CountdownInterval, true)
	if s.music != nil {
		s.music.PlayMusic(game.MusicForShader(s.state.ShaderState))
		s.music.PlayAmbient(ambientOcean)
	}
	log.Printf("[GameSession] Countdown started (%d ticks)", s.countdownLeft)
	return true
}

// Reset 回到 Idle：分数、靶时间和游戏时钟归零
func (s *GameSession) Reset() {
	if s.phase != PhaseEnded && s.phase != PhaseIdle {
		s.End()
	}
	s.state.ResetScore()
	s.target.Reset()
	s.clock = 0
	s.cubeSpawned = false
	s.roundStopped = false
	s.phase = PhaseIdle
}

func (s *GameSession) beginRunning() {
	s.phase = PhaseRunning
	s.countdownTimer.Stop()
	s.spawnTimer = components.NewTimer("ball_spawn", s.config.Session.SpawnDelay, false)
	s.roundTimer = components.NewTimer("round_clock", s.config.Session.RoundSeconds, false)
	s.lastSecond = int(math.Ceil(s.config.Session.RoundSeconds))
	s.countdownCued = false
	s.listeners.OnTimer(s.lastSecond)
	log.Printf("[GameSession] Round started (%.0fs)", s.config.Session.RoundSeconds)
}

// Pause 暂停（显式切换或窗口失焦）
func (s *GameSession) Pause() bool {
	if s.phase != PhaseRunning && s.phase != PhaseCountdown {
		return false
	}
	s.resumePhase = s.phase
	s.phase = PhasePaused
	if s.music != nil {
		s.music.Pause()
	}
	log.Printf("[GameSession] Paused")
	return true
}

// Resume 从暂停恢复到暂停前的阶段
func (s *GameSession) Resume() bool {
	if s.phase != PhasePaused {
		return false
	}
	s.phase = s.resumePhase
	if s.music != nil {
		s.music.Resume()
	}
	log.Printf("[GameSession] Resumed")
	return true
}

// TogglePause 切换暂停
func (s *GameSession) TogglePause() {
	if s.phase == PhasePaused {
		s.Resume()
		return
	}
	s.Pause()
}

// SetFocused 窗口失焦时自动暂停；重新获得焦点不会自动恢复
func (s *GameSession) SetFocused(focused bool) {
	if !focused {
		s.Pause()
	}
}

// ToggleRoundClock 冻结或恢复回合倒计时，出球和物理不受影响
func (s *GameSession) ToggleRoundClock() bool {
	s.roundStopped = !s.roundStopped
	log.Printf("[GameSession] Round clock stopped=%v", s.roundStopped)
	return s.roundStopped
}

// End 结束本局：清理球和方块，停止计时器和音乐，提交最高分
func (s *GameSession) End() game.SessionResult {
	if s.phase == PhaseIdle || s.phase == PhaseEnded {
		return s.lastResult
	}

	s.merges.Reset()
	cleared := s.lifecycle.Clear()
	s.countdownTimer.Stop()
	s.spawnTimer.Stop()
	s.roundTimer.Stop()
	if s.music != nil {
		s.music.StopAll()
	}

	s.phase = PhaseEnded
	s.lastResult = game.SubmitScore(s.highScores, s.state.Score)
	s.listeners.OnSessionEnd(s.lastResult)
	log.Printf("[GameSession] Ended: score=%d high=%d new=%v (cleared %d)",
		s.lastResult.Score, s.lastResult.HighScore, s.lastResult.NewHighScore, cleared)
	return s.lastResult
}

// Update 推进一帧，deltaTime 为真实经过的秒数
func (s *GameSession) Update(deltaTime float64) {
	switch s.phase {
	case PhaseCountdown:
		// 倒计时期间冻结玩法状态，只刷新渲染代理
		s.syncProxies(deltaTime)
		if s.countdownTimer.Tick(deltaTime) {
			s.countdownLeft--
			if s.countdownLeft <= 0 {
				s.beginRunning()
			}
		}
	case PhaseRunning:
		s.clock += deltaTime
		s.simulate(deltaTime)
		s.tickSpawn(deltaTime)
		s.tickRound(deltaTime)
	}
}

// simulate 执行一帧流水线
func (s *GameSession) simulate(deltaTime float64) {
	s.merges.ApplyPendingMerges()
	s.world.Step(s.config.PhysicsStep(s.state.AnimationMultiplier))
	s.target.Update(deltaTime)
	s.vanish.Update(deltaTime)
	s.syncProxies(deltaTime)
	s.lifecycle.Update(deltaTime)
}

func (s *GameSession) syncProxies(deltaTime float64) {
	if s.proxyLoader != nil {
		s.sync.AttachProxies(s.proxyLoader, 0)
	}
	s.sync.Update(deltaTime)
}

// tickSpawn 首次延迟到点时立即出一个球，之后按固定间隔出球
func (s *GameSession) tickSpawn(deltaTime float64) {
	if !s.spawnTimer.Tick(deltaTime) {
		return
	}
	if !s.spawnTimer.Repeat {
		s.spawnTimer.Restart(s.config.Session.SpawnInterval)
		s.spawnTimer.Repeat = true
	}
	s.SpawnBall()
}

func (s *GameSession) tickRound(deltaTime float64) {
	if s.roundStopped {
		return
	}
	if s.roundTimer.Tick(deltaTime) {
		s.listeners.OnTimer(0)
		s.End()
		return
	}

	remaining := s.roundTimer.Remaining()
	if !s.countdownCued && remaining <= s.config.Session.CountdownCueAt {
		s.countdownCued = true
		s.cues.PlayCue("countdown", 1)
	}
	if second := int(math.Ceil(remaining)); second != s.lastSecond {
		s.lastSecond = second
		s.listeners.OnTimer(second)
	}
}

// SpawnBall 在出球区域生成一个随机普通球
func (s *GameSession) SpawnBall() (ecs.EntityID, bool) {
	id, ok := s.lifecycle.SpawnRandomBall(s.state.ShaderState, s.clock)
	if ok {
		s.cues.PlayCue("spawn", 1)
	}
	return id, ok
}

// SpawnCube 生成奖励方块，冷却期内或未在进行中时拒绝
func (s *GameSession) SpawnCube() bool {
	if s.phase != PhaseRunning {
		return false
	}
	if s.cubeSpawned && s.clock-s.lastCubeTime < s.config.Session.CubeCooldown {
		return false
	}
	s.lifecycle.SpawnCube(s.config.Spawn.CubePosition, s.state.ShaderState, s.clock)
	s.cubeSpawned = true
	s.lastCubeTime = s.clock
	s.cues.PlayCue("spawnCube", 1)
	return true
}

// CycleShader 切换全局着色器状态，同步到所有实体并切换背景音乐
func (s *GameSession) CycleShader() types.ShaderState {
	next := s.state.CycleShader()
	s.sync.ApplyShaderState(next)
	if s.music != nil && (s.phase == PhaseCountdown || s.phase == PhaseRunning) {
		s.music.PlayMusic(game.MusicForShader(next))
	}
	return next
}

// ApplyControls 应用弹板控制输入，只在进行中生效
func (s *GameSession) ApplyControls(input systems.BouncerInput) {
	if s.phase != PhaseRunning {
		return
	}
	s.bouncer.Apply(input)
}

// SetAnimationMultiplier 修改全局动画倍率（帧率模式切换）
func (s *GameSession) SetAnimationMultiplier(multiplier float64) {
	if multiplier <= 0 {
		multiplier = 1
	}
	s.state.AnimationMultiplier = multiplier
	s.target.SetMultiplier(multiplier)
	s.bouncer.SetMultiplier(multiplier)
}

// EnergyReadout 实体当前机械能及其相对生成时的比例
func (s *GameSession) EnergyReadout(id ecs.EntityID) (physics.Energy, float64, bool) {
	body, ok := s.lifecycle.Body(id)
	if !ok {
		return physics.Energy{}, 0, false
	}
	energy := physics.EnergyOf(body, s.config.Physics.Gravity)
	ratio := 0.0
	if initial, ok := ecs.GetComponent[*components.EnergyComponent](s.entityManager, id); ok && initial.Initial != 0 {
		ratio = energy.Total / initial.Initial
	}
	return energy, ratio, true
}

// Phase 当前阶段
func (s *GameSession) Phase() SessionPhase {
	return s.phase
}

// CountdownLeft 倒计时剩余格数
func (s *GameSession) CountdownLeft() int {
	return s.countdownLeft
}

// RemainingSeconds 回合剩余秒数
func (s *GameSession) RemainingSeconds() float64 {
	if s.roundTimer == nil {
		return s.config.Session.RoundSeconds
	}
	return s.roundTimer.Remaining()
}

// RoundClockStopped 回合倒计时是否被冻结
func (s *GameSession) RoundClockStopped() bool {
	return s.roundStopped
}

// Clock 游戏时钟（秒）
func (s *GameSession) Clock() float64 {
	return s.clock
}

// Score 当前分数
func (s *GameSession) Score() int {
	return s.state.Score
}

// State 全局游戏状态
func (s *GameSession) State() *game.GameState {
	return s.state
}

// Target 移动靶
func (s *GameSession) Target() *systems.MovingTarget {
	return s.target
}

// Lifecycle 生命周期系统
func (s *GameSession) Lifecycle() *systems.LifecycleSystem {
	return s.lifecycle
}

// Merges 合并协调器
func (s *GameSession) Merges() *systems.MergeCoordinator {
	return s.merges
}

// EntityManager 实体管理器
func (s *GameSession) EntityManager() *ecs.EntityManager {
	return s.entityManager
}

// World 物理世界
func (s *GameSession) World() *physics.World {
	return s.world
}

// Config 游戏配置
func (s *GameSession) Config() *config.GameConfig {
	return s.config
}

// LastResult 最近一局的结果
func (s *GameSession) LastResult() game.SessionResult {
	return s.lastResult
}
