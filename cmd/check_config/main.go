// check_config 校验游戏参数文件和音效清单
//
// 用法：
//
//	go run ./cmd/check_config -config data/config/game.yaml -audio data/config/audio.yaml
package main

import (
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/gonewx/ballbounce/pkg/config"
	"github.com/gonewx/ballbounce/pkg/embedded"
	"github.com/gonewx/ballbounce/pkg/game"
)

var (
	configPath = flag.String("config", "data/config/game.yaml", "游戏参数文件（.yaml 或 .toml）")
	audioPath  = flag.String("audio", "data/config/audio.yaml", "音效清单")
	checkFiles = flag.Bool("files", false, "同时检查音频文件是否存在")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadGameConfig(*configPath)
	if err != nil {
		fmt.Printf("❌ 游戏配置无效: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 游戏配置: %s\n", *configPath)
	fmt.Printf("   模式 %s，回合 %.0f 秒，出球间隔 %.1f 秒，上限 %d 个\n",
		cfg.Session.Mode, cfg.Session.RoundSeconds, cfg.Session.SpawnInterval, cfg.Lifecycle.MaxBalls)
	fmt.Printf("   计分环 %d 个：", len(cfg.Scoring.Bands))
	for _, band := range cfg.Scoring.Bands {
		fmt.Printf(" <%.0f:%d", band.MaxDistance, band.Points)
	}
	fmt.Println()

	audioCfg, err := game.LoadAudioConfig(*audioPath)
	if err != nil {
		fmt.Printf("❌ 音效清单无效: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 音效清单: %s（%d 条）\n", *audioPath, len(audioCfg.Cues))

	if !*checkFiles {
		return
	}
	missing := 0
	for _, cue := range audioCfg.Cues {
		full := path.Join(audioCfg.BasePath, cue.Path)
		if !embedded.Exists(full) {
			fmt.Printf("❌ %s: 找不到 %s\n", cue.ID, full)
			missing++
		}
	}
	if missing > 0 {
		fmt.Printf("❌ 有 %d 个音频文件缺失\n", missing)
		os.Exit(1)
	}
	fmt.Printf("✅ 所有音频文件都存在\n")
}
