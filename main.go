package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/ballbounce/pkg/app"
	"github.com/gonewx/ballbounce/pkg/config"
	"github.com/gonewx/ballbounce/pkg/embedded"
)

var (
	verbose        = flag.Bool("verbose", false, "Enable verbose logging (default off)")
	configPath     = flag.String("config", "data/config/game.yaml", "游戏参数文件（.yaml 或 .toml）")
	audioPath      = flag.String("audio", "data/config/audio.yaml", "音效清单")
	modeFlag       = flag.String("mode", "", "游戏模式：classic 或 challenge，留空使用配置文件")
	fpsFlag        = flag.Int("fps", 0, "目标帧率：30、60 或 120，0 表示使用已保存的设置")
	scoreboardAddr = flag.String("scoreboard", "", "观战推送监听地址，例如 127.0.0.1:8089，留空不启动")
)

func main() {
	flag.Parse()

	// 注入嵌入的数据文件，磁盘上的同名文件仍然优先
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:         *verbose,
		GameConfigPath:  *configPath,
		AudioConfigPath: *audioPath,
		Mode:            *modeFlag,
		FPS:             *fpsFlag,
		ScoreboardAddr:  *scoreboardAddr,
	})
	if err != nil {
		// 非 verbose 模式下标准日志已被丢弃，直接写 stderr
		fmt.Fprintf(os.Stderr, "游戏初始化失败: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// 关闭窗口前先结束当前一局并保存最高分
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
