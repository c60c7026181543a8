// Package app 提供游戏应用的核心包装器
//
// 该包把配置加载、存档、音频和场景装配从 main 包提取出来，
// 桌面端通过 main.go 调用 NewApp()。
package app

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/gonewx/ballbounce/internal/scoreboard"
	"github.com/gonewx/ballbounce/pkg/config"
	"github.com/gonewx/ballbounce/pkg/game"
	"github.com/gonewx/ballbounce/pkg/scenes"
	"github.com/gonewx/ballbounce/pkg/types"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// GameConfigPath 游戏参数文件（.yaml/.toml），为空使用内置默认值
	GameConfigPath string
	// AudioConfigPath 音效清单
	AudioConfigPath string
	// Mode 覆盖配置中的游戏模式，为空时沿用配置
	Mode string
	// FPS 覆盖设置中的帧率（30/60/120），0 表示沿用设置
	FPS int
	// ScoreboardAddr 观战推送监听地址，为空时不启动
	ScoreboardAddr string
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager    *game.SceneManager
	settingsManager *game.SettingsManager
	audioManager    *game.AudioManager
	session         *scenes.GameSession
	verbose         bool

	cancelScoreboard context.CancelFunc

	pendingWindowSizeReset   bool
	windowSizeResetCountdown int
}

// NewApp 创建并初始化游戏应用
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	gameConfig := config.DefaultGameConfig()
	if cfg.GameConfigPath != "" {
		loaded, err := config.LoadGameConfig(cfg.GameConfigPath)
		if err != nil {
			return nil, fmt.Errorf("游戏配置加载失败: %w", err)
		}
		gameConfig = loaded
		log.Printf("[Config] 加载游戏配置: %s", cfg.GameConfigPath)
	}
	if cfg.Mode != "" {
		mode := types.GameMode(cfg.Mode)
		if mode != types.ModeClassic && mode != types.ModeChallenge {
			return nil, fmt.Errorf("未知游戏模式: %q", cfg.Mode)
		}
		gameConfig.Session.Mode = mode
	}

	// gdata 不可用时降级为仅内存
	gdataManager, err := gdata.Open(gdata.Config{AppName: "ballbounce"})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable: %v (settings and high score will not persist)", err)
		gdataManager = nil
	}

	settingsManager, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		return nil, fmt.Errorf("设置初始化失败: %w", err)
	}
	if cfg.FPS > 0 && !settingsManager.SetFPS(cfg.FPS) {
		return nil, fmt.Errorf("不支持的帧率: %d", cfg.FPS)
	}
	settings := settingsManager.GetSettings()
	ebiten.SetTPS(settings.FPS)
	ebiten.SetFullscreen(settings.Fullscreen)

	highScores := game.NewHighScoreManager(gdataManager)
	if err := highScores.Load(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}

	audioContext := audio.NewContext(48000)
	resourceManager := game.NewResourceManager(audioContext)
	if cfg.AudioConfigPath != "" {
		if err := resourceManager.LoadResourceConfig(cfg.AudioConfigPath); err != nil {
			return nil, fmt.Errorf("音效配置加载失败: %w", err)
		}
	}
	audioManager := game.NewAudioManager(resourceManager, settingsManager)
	log.Printf("[App] AudioManager initialized")

	a := &App{
		settingsManager: settingsManager,
		audioManager:    audioManager,
		verbose:         cfg.Verbose,
	}

	var listeners []game.ScoreListener
	if cfg.ScoreboardAddr != "" {
		hub := scoreboard.NewHub(nil)
		hub.SetHighScore(highScores.HighScore())
		ctx, cancel := context.WithCancel(context.Background())
		a.cancelScoreboard = cancel
		go func() {
			if err := hub.Serve(ctx, cfg.ScoreboardAddr); err != nil {
				log.Printf("[App] %v", err)
			}
		}()
		listeners = append(listeners, hub)
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(mode types.GameMode) game.Scene {
		sessionConfig := *gameConfig
		sessionConfig.Session.Mode = mode
		a.session = scenes.NewGameSession(&sessionConfig, scenes.SessionOptions{
			Cues:                audioManager,
			Music:               audioManager,
			HighScores:          highScores,
			Listeners:           listeners,
			AnimationMultiplier: settings.AnimationMultiplier(),
		})
		return scenes.NewGameScene(a.session, sceneManager)
	})
	if !sceneManager.LoadMode(gameConfig.Session.Mode) {
		return nil, fmt.Errorf("场景创建失败: %s", gameConfig.Session.Mode)
	}
	a.sceneManager = sceneManager

	log.Printf("[App] Starting %s mode at %d FPS", gameConfig.Session.Mode, settings.FPS)
	return a, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次，deltaTime 由目标帧率决定
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.Shutdown()
		return ebiten.Termination
	}

	// 退出全屏后需要等待几帧才能正确设置窗口大小
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
		a.settingsManager.SetFullscreen(ebiten.IsFullscreen())
	}

	// F2 在 30/60/120 帧率模式间切换
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		a.cycleFPS()
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) cycleFPS() {
	settings := a.settingsManager.GetSettings()
	next := game.SupportedFPS[0]
	for i, fps := range game.SupportedFPS {
		if fps == settings.FPS {
			next = game.SupportedFPS[(i+1)%len(game.SupportedFPS)]
		}
	}
	a.settingsManager.SetFPS(next)
	ebiten.SetTPS(next)
	if a.session != nil {
		a.session.SetAnimationMultiplier(settings.AnimationMultiplier())
	}
	log.Printf("[App] FPS mode: %d (animation x%.2f)", next, settings.AnimationMultiplier())
}

// Shutdown 结束进行中的一局并保存设置
func (a *App) Shutdown() {
	a.sceneManager.SaveOnExit()
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	a.audioManager.StopAll()
	if a.cancelScoreboard != nil {
		a.cancelScoreboard()
	}
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 全屏时以黑边 letterbox 并线性缩放
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
