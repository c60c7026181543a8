package config

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gonewx/ballbounce/internal/physics"
	"github.com/gonewx/ballbounce/pkg/embedded"
	"github.com/gonewx/ballbounce/pkg/types"
)

// GameConfig 游戏玩法配置
// 支持 YAML 与 TOML 两种格式，字段缺省时使用 DefaultGameConfig 中的值
type GameConfig struct {
	Target    TargetConfig              `yaml:"target" toml:"target"`
	Scoring   ScoringConfig             `yaml:"scoring" toml:"scoring"`
	Lifecycle LifecycleConfig           `yaml:"lifecycle" toml:"lifecycle"`
	Session   SessionConfig             `yaml:"session" toml:"session"`
	Spawn     SpawnConfig               `yaml:"spawn" toml:"spawn"`
	Balls     map[string]BallKindConfig `yaml:"balls" toml:"balls"` // 种类键（tennisBall/metal/...）-> 参数
	Physics   PhysicsConfig             `yaml:"physics" toml:"physics"`
	Bouncer   BouncerConfig             `yaml:"bouncer" toml:"bouncer"`
	Scenery   SceneryConfig             `yaml:"scenery" toml:"scenery"`
}

// TargetConfig 移动靶参数
type TargetConfig struct {
	Speed     float64 `yaml:"speed" toml:"speed"`         // 摆动角速度
	Amplitude float64 `yaml:"amplitude" toml:"amplitude"` // X 方向振幅
	TimeStep  float64 `yaml:"timeStep" toml:"timeStep"`   // 每帧推进的靶时间（乘以动画倍率）
}

// ScoreBand 一个得分环
// 距离严格小于 MaxDistance 时落入该环
type ScoreBand struct {
	MaxDistance float64 `yaml:"maxDistance" toml:"maxDistance"`
	Points      int     `yaml:"points" toml:"points"`
	Radius      float64 `yaml:"radius" toml:"radius"` // 高亮半径，0 表示不高亮
	Cue         string  `yaml:"cue" toml:"cue"`       // 音效名，空表示无
}

// ScoringConfig 计分参数
type ScoringConfig struct {
	Bands           []ScoreBand `yaml:"bands" toml:"bands"`
	BonusMultiplier int         `yaml:"bonusMultiplier" toml:"bonusMultiplier"`
	CubePenalty     int         `yaml:"cubePenalty" toml:"cubePenalty"`
}

// LifecycleConfig 实体生命周期参数
type LifecycleConfig struct {
	MaxBalls        int     `yaml:"maxBalls" toml:"maxBalls"`
	VanishIncrement float64 `yaml:"vanishIncrement" toml:"vanishIncrement"` // 每帧消失进度增量
	DebounceSeconds float64 `yaml:"debounceSeconds" toml:"debounceSeconds"`
	RemoveAtBounce  int     `yaml:"removeAtBounce" toml:"removeAtBounce"`
}

// SessionConfig 会话计时参数（真实秒数，不受动画倍率影响）
type SessionConfig struct {
	Mode              types.GameMode `yaml:"mode" toml:"mode"`
	RoundSeconds      float64        `yaml:"roundSeconds" toml:"roundSeconds"`
	CountdownTicks    int            `yaml:"countdownTicks" toml:"countdownTicks"`
	CountdownInterval float64        `yaml:"countdownInterval" toml:"countdownInterval"`
	CountdownCueAt    float64        `yaml:"countdownCueAt" toml:"countdownCueAt"` // 剩余多少秒时播放倒计时音效
	SpawnDelay        float64        `yaml:"spawnDelay" toml:"spawnDelay"`
	SpawnInterval     float64        `yaml:"spawnInterval" toml:"spawnInterval"`
	CubeCooldown      float64        `yaml:"cubeCooldown" toml:"cubeCooldown"`
}

// SpawnConfig 出球和方块的位置参数
type SpawnConfig struct {
	MinX         float64      `yaml:"minX" toml:"minX"`
	MaxX         float64      `yaml:"maxX" toml:"maxX"`
	MinY         float64      `yaml:"minY" toml:"minY"`
	MaxY         float64      `yaml:"maxY" toml:"maxY"`
	Z            float64      `yaml:"z" toml:"z"`
	CubeSize     float64      `yaml:"cubeSize" toml:"cubeSize"`
	CubeMass     float64      `yaml:"cubeMass" toml:"cubeMass"`
	CubeDamping  float64      `yaml:"cubeDamping" toml:"cubeDamping"`
	CubePosition physics.Vec3 `yaml:"cubePosition" toml:"cubePosition"`
}

// BallKindConfig 球种类参数
type BallKindConfig struct {
	Mass           float64 `yaml:"mass" toml:"mass"`
	Radius         float64 `yaml:"radius" toml:"radius"`
	LinearDamping  float64 `yaml:"linearDamping" toml:"linearDamping"`
	AngularDamping float64 `yaml:"angularDamping" toml:"angularDamping"`
	Texture        string  `yaml:"texture" toml:"texture"`
}

// ContactConfig 一对材质的接触参数
type ContactConfig struct {
	A           physics.MaterialTag `yaml:"a" toml:"a"`
	B           physics.MaterialTag `yaml:"b" toml:"b"`
	Restitution float64             `yaml:"restitution" toml:"restitution"`
	Friction    float64             `yaml:"friction" toml:"friction"`
}

// PhysicsConfig 物理世界参数
type PhysicsConfig struct {
	Gravity     float64         `yaml:"gravity" toml:"gravity"`
	StepSeconds float64         `yaml:"stepSeconds" toml:"stepSeconds"` // 基础步长
	TimeScale   float64         `yaml:"timeScale" toml:"timeScale"`     // 步长放大倍数
	GroundY     float64         `yaml:"groundY" toml:"groundY"`
	Contacts    []ContactConfig `yaml:"contacts" toml:"contacts"`
}

// BouncerConfig 弹板参数
type BouncerConfig struct {
	HalfExtents physics.Vec3 `yaml:"halfExtents" toml:"halfExtents"`
	Position    physics.Vec3 `yaml:"position" toml:"position"`
	MoveSpeed   float64      `yaml:"moveSpeed" toml:"moveSpeed"`
	AngleSpeed  float64      `yaml:"angleSpeed" toml:"angleSpeed"`
	MaxTiltDeg  float64      `yaml:"maxTiltDeg" toml:"maxTiltDeg"`
}

// SceneryConfig 静态场景物体
type SceneryConfig struct {
	CubePosition physics.Vec3 `yaml:"cubePosition" toml:"cubePosition"`
	BallPosition physics.Vec3 `yaml:"ballPosition" toml:"ballPosition"`
}

// DefaultScoreBands 默认得分环
func DefaultScoreBands() []ScoreBand {
	return []ScoreBand{
		{MaxDistance: 10, Points: 100, Radius: 10, Cue: "point8"},
		{MaxDistance: 20, Points: 60, Radius: 20, Cue: "point7"},
		{MaxDistance: 30, Points: 50, Radius: 30, Cue: "point6"},
		{MaxDistance: 40, Points: 40, Radius: 40, Cue: "point5"},
		{MaxDistance: 50, Points: 30, Radius: 50, Cue: "point4"},
		{MaxDistance: 60, Points: 20, Radius: 60, Cue: "point3"},
		{MaxDistance: 70, Points: 10, Radius: 70, Cue: "point2"},
		{MaxDistance: 80, Points: 0},
	}
}

// DefaultGameConfig 返回内置默认配置
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Target: TargetConfig{Speed: 1, Amplitude: 60, TimeStep: 0.016},
		Scoring: ScoringConfig{
			Bands:           DefaultScoreBands(),
			BonusMultiplier: 3,
			CubePenalty:     20,
		},
		Lifecycle: LifecycleConfig{
			MaxBalls:        10,
			VanishIncrement: 0.02,
			DebounceSeconds: 0.5,
			RemoveAtBounce:  2,
		},
		Session: SessionConfig{
			Mode:              types.ModeClassic,
			RoundSeconds:      60,
			CountdownTicks:    3,
			CountdownInterval: 1.2,
			CountdownCueAt:    3,
			SpawnDelay:        5,
			SpawnInterval:     3,
			CubeCooldown:      5,
		},
		Spawn: SpawnConfig{
			MinX: 0, MaxX: 30,
			MinY: 80, MaxY: 140,
			Z:            80,
			CubeSize:     30,
			CubeMass:     1,
			CubeDamping:  0.4,
			CubePosition: physics.V3(0, 70, 0),
		},
		Balls: map[string]BallKindConfig{
			types.KindTennisBall.String(): {Mass: 5, Radius: 4, Texture: "tennisBall"},
			types.KindMetal.String():      {Mass: 1, Radius: 4, Texture: "metal"},
			types.KindRubber.String():     {Mass: 0.8, Radius: 4, Texture: "rubber"},
			types.KindBalloon.String():    {Mass: 0.3, Radius: 4, LinearDamping: 0.1, AngularDamping: 0.2, Texture: "balloon"},
			types.KindBonusBall.String():  {Mass: 15, Radius: 15, Texture: "bonusBall"},
			types.KindStaticBall.String(): {Mass: 0, Radius: 4, Texture: "balloon"},
		},
		Physics: PhysicsConfig{
			Gravity:     -9.82,
			StepSeconds: 1.0 / 60.0,
			TimeScale:   4,
			GroundY:     -0.2,
			Contacts:    defaultContacts(),
		},
		Bouncer: BouncerConfig{
			HalfExtents: physics.V3(11.2, 30.5, 11.2),
			Position:    physics.V3(0, -0.2, 90),
			MoveSpeed:   1.5,
			AngleSpeed:  0.05,
			MaxTiltDeg:  60,
		},
		Scenery: SceneryConfig{
			CubePosition: physics.V3(150, 15, -30),
			BallPosition: physics.V3(150, -5, -30),
		},
	}
}

func defaultContacts() []ContactConfig {
	c := func(a, b physics.MaterialTag, restitution, friction float64) ContactConfig {
		return ContactConfig{A: a, B: b, Restitution: restitution, Friction: friction}
	}
	return []ContactConfig{
		c(physics.MaterialRubber, physics.MaterialGround, 0.9, 0.2),
		c(physics.MaterialTennisBall, physics.MaterialGround, 0.8, 0.2),
		c(physics.MaterialBalloon, physics.MaterialGround, 0.7, 0.1),
		c(physics.MaterialMetal, physics.MaterialGround, 0.6, 0.7),

		c(physics.MaterialMetal, physics.MaterialWood, 0.6, 0.4),
		c(physics.MaterialBalloon, physics.MaterialWood, 0.95, 0.4),
		c(physics.MaterialTennisBall, physics.MaterialWood, 0.8, 0.5),
		c(physics.MaterialRubber, physics.MaterialWood, 0.9, 0.2),

		c(physics.MaterialMetal, physics.MaterialSand, 0.3, 0.7),
		c(physics.MaterialBalloon, physics.MaterialSand, 0.75, 0.7),
		c(physics.MaterialTennisBall, physics.MaterialSand, 0.5, 0.8),
		c(physics.MaterialRubber, physics.MaterialSand, 0.6, 0.2),
	}
}

// LoadGameConfig 从文件加载游戏配置
// 根据扩展名选择 TOML（.toml）或 YAML 解析，未出现的字段保留默认值
func LoadGameConfig(filePath string) (*GameConfig, error) {
	data, err := embedded.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config file: %w", err)
	}

	cfg := DefaultGameConfig()
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse game config TOML: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse game config YAML: %w", err)
		}
	}

	if err := validateGameConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}

	return cfg, nil
}

// validateGameConfig 验证配置的有效性
func validateGameConfig(cfg *GameConfig) error {
	if cfg.Target.Amplitude < 0 {
		return fmt.Errorf("target.amplitude must be >= 0, got %f", cfg.Target.Amplitude)
	}

	// 得分环必须按距离严格递增，分数不增
	if len(cfg.Scoring.Bands) == 0 {
		return fmt.Errorf("scoring.bands cannot be empty")
	}
	for i, band := range cfg.Scoring.Bands {
		if band.MaxDistance <= 0 {
			return fmt.Errorf("scoring.bands[%d].maxDistance must be > 0", i)
		}
		if i > 0 {
			prev := cfg.Scoring.Bands[i-1]
			if band.MaxDistance <= prev.MaxDistance {
				return fmt.Errorf("scoring.bands must be sorted by maxDistance, band %d (%.1f) <= band %d (%.1f)",
					i, band.MaxDistance, i-1, prev.MaxDistance)
			}
			if band.Points > prev.Points {
				return fmt.Errorf("scoring.bands points must not increase with distance, band %d", i)
			}
		}
	}
	if cfg.Scoring.BonusMultiplier < 1 {
		return fmt.Errorf("scoring.bonusMultiplier must be >= 1, got %d", cfg.Scoring.BonusMultiplier)
	}
	if cfg.Scoring.CubePenalty < 0 {
		return fmt.Errorf("scoring.cubePenalty must be >= 0, got %d", cfg.Scoring.CubePenalty)
	}

	if cfg.Lifecycle.MaxBalls < 1 {
		return fmt.Errorf("lifecycle.maxBalls must be >= 1, got %d", cfg.Lifecycle.MaxBalls)
	}
	if cfg.Lifecycle.VanishIncrement <= 0 || cfg.Lifecycle.VanishIncrement > 1 {
		return fmt.Errorf("lifecycle.vanishIncrement must be in (0,1], got %f", cfg.Lifecycle.VanishIncrement)
	}
	if cfg.Lifecycle.RemoveAtBounce < 1 {
		return fmt.Errorf("lifecycle.removeAtBounce must be >= 1, got %d", cfg.Lifecycle.RemoveAtBounce)
	}

	switch cfg.Session.Mode {
	case types.ModeClassic, types.ModeChallenge:
	default:
		return fmt.Errorf("session.mode must be %q or %q, got %q", types.ModeClassic, types.ModeChallenge, cfg.Session.Mode)
	}
	if cfg.Session.RoundSeconds <= 0 {
		return fmt.Errorf("session.roundSeconds must be > 0, got %f", cfg.Session.RoundSeconds)
	}
	if cfg.Session.CountdownTicks < 0 {
		return fmt.Errorf("session.countdownTicks must be >= 0, got %d", cfg.Session.CountdownTicks)
	}
	if cfg.Session.SpawnInterval <= 0 {
		return fmt.Errorf("session.spawnInterval must be > 0, got %f", cfg.Session.SpawnInterval)
	}

	if cfg.Spawn.MaxX < cfg.Spawn.MinX || cfg.Spawn.MaxY < cfg.Spawn.MinY {
		return fmt.Errorf("spawn range is inverted")
	}

	for key, ball := range cfg.Balls {
		kind, err := types.ParseEntityKind(key)
		if err != nil {
			return fmt.Errorf("balls: %w", err)
		}
		if !kind.IsBall() {
			return fmt.Errorf("balls: %s is not a ball kind", key)
		}
		if ball.Radius <= 0 {
			return fmt.Errorf("balls.%s.radius must be > 0", key)
		}
		if ball.Mass < 0 || (ball.Mass == 0 && !kind.IsStatic()) {
			return fmt.Errorf("balls.%s.mass must be > 0", key)
		}
	}
	for _, kind := range append([]types.EntityKind{types.KindBonusBall}, types.SpawnableBallKinds...) {
		if _, ok := cfg.Balls[kind.String()]; !ok {
			return fmt.Errorf("balls.%s is required", kind)
		}
	}

	if cfg.Physics.StepSeconds <= 0 || cfg.Physics.TimeScale <= 0 {
		return fmt.Errorf("physics.stepSeconds and physics.timeScale must be > 0")
	}
	for i, c := range cfg.Physics.Contacts {
		if c.Restitution < 0 || c.Restitution > 1 {
			return fmt.Errorf("physics.contacts[%d].restitution must be in [0,1], got %f", i, c.Restitution)
		}
		if c.Friction < 0 {
			return fmt.Errorf("physics.contacts[%d].friction must be >= 0, got %f", i, c.Friction)
		}
	}

	if cfg.Bouncer.MaxTiltDeg < 0 || cfg.Bouncer.MaxTiltDeg > 90 {
		return fmt.Errorf("bouncer.maxTiltDeg must be in [0,90], got %f", cfg.Bouncer.MaxTiltDeg)
	}

	return nil
}

// BallKind 查询球种类参数
func (c *GameConfig) BallKind(kind types.EntityKind) (BallKindConfig, bool) {
	ball, ok := c.Balls[kind.String()]
	return ball, ok
}

// MaxTiltRadians 弹板最大倾角（弧度）
func (c *GameConfig) MaxTiltRadians() float64 {
	return c.Bouncer.MaxTiltDeg * math.Pi / 180
}

// PhysicsStep 一帧的物理步长（秒）：基础步长 × 放大倍数 × 动画倍率
func (c *GameConfig) PhysicsStep(animationMultiplier float64) float64 {
	return c.Physics.StepSeconds * c.Physics.TimeScale * animationMultiplier
}

// AnimationMultiplierForFPS 由目标帧率得到全局动画倍率
// 30fps → 2.0，60fps → 1.0，120fps → 0.5；非正值按 60fps 处理
func AnimationMultiplierForFPS(fps int) float64 {
	if fps <= 0 {
		return 1.0
	}
	return 60.0 / float64(fps)
}
