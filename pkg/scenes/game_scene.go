package scenes

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gonewx/ballbounce/internal/physics"
	"github.com/gonewx/ballbounce/pkg/components"
	"github.com/gonewx/ballbounce/pkg/config"
	"github.com/gonewx/ballbounce/pkg/ecs"
	"github.com/gonewx/ballbounce/pkg/game"
	"github.com/gonewx/ballbounce/pkg/input"
	"github.com/gonewx/ballbounce/pkg/types"
	"github.com/gonewx/ballbounce/pkg/utils"
)

const (
	// 俯视图：世界 X 向右，世界 Z 向下
	viewScale   = 2.4
	viewCenterX = float64(config.GameWindowWidth) / 2
	viewCenterY = 170.0

	popupSeconds = 1.2
	popupRise    = 30.0
	zoneSeconds  = 0.8
)

var (
	backgroundColor = color.RGBA{R: 24, G: 60, B: 90, A: 255}
	bandColor       = color.NRGBA{R: 255, G: 255, B: 255, A: 60}
	zoneColor       = color.NRGBA{R: 255, G: 230, B: 80, A: 200}
	targetColor     = color.RGBA{R: 255, G: 80, B: 80, A: 255}
)

// scorePopup 分数弹出文字
type scorePopup struct {
	label string
	x, y  float64
	age   float64
}

// GameScene 游戏场景：驱动 GameSession，并以俯视调试图绘制代理
type GameScene struct {
	session      *GameSession
	sceneManager *game.SceneManager
	keys         input.KeyState

	proxies map[ecs.EntityID]*debugProxy
	popups  []scorePopup

	zoneRadius float64
	zoneCenter physics.Vec3
	zoneAge    float64

	ended *game.SessionResult
}

// NewGameScene 创建游戏场景并把自己注册为分数监听者
func NewGameScene(session *GameSession, sm *game.SceneManager) *GameScene {
	scene := &GameScene{
		session:      session,
		sceneManager: sm,
		keys:         input.EbitenKeys(),
		proxies:      make(map[ecs.EntityID]*debugProxy),
	}
	session.SetProxyLoader(newDebugProxyLoader(session.EntityManager(), scene.proxies))
	session.AddListener(scene)
	log.Printf("[GameScene] Ready, press Enter to start")
	return scene
}

// OnScore 记录弹出文字和高亮环
func (s *GameScene) OnScore(update game.ScoreUpdate) {
	x, y := project(update.Position)
	s.popups = append(s.popups, scorePopup{label: update.Label, x: x, y: y})
	if update.ZoneRadius > 0 {
		s.zoneRadius = update.ZoneRadius
		s.zoneCenter = update.ZoneCenter
		s.zoneAge = 0
	}
}

// OnTimer HUD 直接读取会话剩余时间
func (s *GameScene) OnTimer(int) {}

// OnSessionEnd 显示结束界面
func (s *GameScene) OnSessionEnd(result game.SessionResult) {
	s.ended = &result
}

// Update 处理输入并推进会话
func (s *GameScene) Update(deltaTime float64) {
	s.session.SetFocused(ebiten.IsFocused())

	actions := input.Poll(s.keys)
	if actions.Start {
		if s.session.Start() {
			s.ended = nil
			s.popups = nil
		}
	}
	if actions.TogglePause {
		s.session.TogglePause()
	}
	if actions.ToggleRoundClock {
		s.session.ToggleRoundClock()
	}
	if actions.CycleShader {
		s.session.CycleShader()
	}
	if actions.SpawnCube {
		s.session.SpawnCube()
	}
	s.session.ApplyControls(actions.Bouncer)

	s.session.Update(deltaTime)

	if s.session.Phase() == PhasePaused {
		return
	}
	for id, p := range s.proxies {
		if p.detached {
			delete(s.proxies, id)
		}
	}
	kept := s.popups[:0]
	for _, p := range s.popups {
		p.age += deltaTime
		if p.age < popupSeconds {
			kept = append(kept, p)
		}
	}
	s.popups = kept
	s.zoneAge += deltaTime
}

// Draw 绘制俯视图和 HUD
func (s *GameScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	s.drawTarget(screen)
	s.drawProxies(screen)

	for _, p := range s.popups {
		rise := utils.EaseOutCubic(utils.Progress(p.age, popupSeconds)) * popupRise
		ebitenutil.DebugPrintAt(screen, p.label, int(p.x), int(p.y-rise))
	}
	s.drawHUD(screen)
}

func (s *GameScene) drawTarget(screen *ebiten.Image) {
	target := s.session.Target()
	center := physics.V3(target.CurrentOffset(), 0, target.CurrentOffsetZ(s.session.State().Mode))
	cx, cy := project(center)

	for _, band := range s.session.Config().Scoring.Bands {
		if band.Radius <= 0 {
			continue
		}
		vector.StrokeCircle(screen, float32(cx), float32(cy), float32(band.Radius*viewScale), 1, bandColor, true)
	}
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), 3, targetColor, true)

	if s.zoneRadius > 0 && s.zoneAge < zoneSeconds {
		zx, zy := project(s.zoneCenter)
		ring := zoneColor
		ring.A = utils.FadeAlpha(zoneColor.A, utils.Progress(s.zoneAge, zoneSeconds))
		vector.StrokeCircle(screen, float32(zx), float32(zy), float32(s.zoneRadius*viewScale), 3, ring, true)
	}
}

func (s *GameScene) drawProxies(screen *ebiten.Image) {
	surface := s.bouncerSurface()
	for _, p := range s.proxies {
		if p.detached {
			continue
		}
		x, y := project(p.position)
		clr := p.color(surface)
		if p.radius > 0 {
			vector.DrawFilledCircle(screen, float32(x), float32(y), float32(p.radius*viewScale), clr, true)
			continue
		}
		w, h := p.half.X*viewScale, p.half.Z*viewScale
		vector.DrawFilledRect(screen, float32(x-w), float32(y-h), float32(2*w), float32(2*h), clr, true)
	}
}

func (s *GameScene) drawHUD(screen *ebiten.Image) {
	session := s.session
	lines := fmt.Sprintf("Score: %d   Time: %.0f   Phase: %s   Mode: %s",
		session.Score(), session.RemainingSeconds(), session.Phase(), session.State().Mode)
	if session.RoundClockStopped() {
		lines += "   [clock stopped]"
	}
	ebitenutil.DebugPrintAt(screen, lines, 10, 10)

	if balls := session.Lifecycle().Balls(); len(balls) > 0 {
		latest := balls[len(balls)-1]
		if energy, ratio, ok := session.EnergyReadout(latest); ok {
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Energy KE %.0f  PE %.0f  %.0f%%", energy.Kinetic, energy.Potential, ratio*100), 10, 26)
		}
	}

	switch session.Phase() {
	case PhaseIdle:
		ebitenutil.DebugPrintAt(screen, "Enter: start   Arrows: tilt   A/D: move   W: surface   Space: cube   X: shader   H: pause", 10, config.GameWindowHeight-24)
	case PhaseCountdown:
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d", session.CountdownLeft()), int(viewCenterX), config.GameWindowHeight/2)
	case PhasePaused:
		ebitenutil.DebugPrintAt(screen, "PAUSED (H to resume)", int(viewCenterX)-60, config.GameWindowHeight/2)
	case PhaseEnded:
		if s.ended != nil {
			msg := fmt.Sprintf("Game over: %d (best %d)", s.ended.Score, s.ended.HighScore)
			if s.ended.NewHighScore {
				msg += "  NEW HIGH SCORE!"
			}
			ebitenutil.DebugPrintAt(screen, msg, int(viewCenterX)-100, config.GameWindowHeight/2)
			ebitenutil.DebugPrintAt(screen, "Enter: play again", int(viewCenterX)-60, config.GameWindowHeight/2+16)
		}
	}
}

func (s *GameScene) bouncerSurface() types.BouncerSurface {
	em := s.session.EntityManager()
	for _, id := range ecs.GetEntitiesWith1[*components.BouncerComponent](em) {
		bouncer, _ := ecs.GetComponent[*components.BouncerComponent](em, id)
		return bouncer.Surface
	}
	return types.SurfaceWood
}

// project 世界坐标投影到俯视图屏幕坐标
func project(p physics.Vec3) (float64, float64) {
	return viewCenterX + p.X*viewScale, viewCenterY + p.Z*viewScale
}

// SaveOnExit 关闭窗口时结束进行中的一局，最高分随之提交
func (s *GameScene) SaveOnExit() bool {
	s.session.End()
	return true
}
