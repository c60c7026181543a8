package game

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gonewx/ballbounce/pkg/embedded"
)

// AudioConfig 音效资源配置，对应 data/config/audio.yaml
//
// 结构：
//
//	base_path: assets/audio
//	cues:
//	  - id: point8
//	    path: point8.mp3
//	    volume: 1
type AudioConfig struct {
	BasePath string        `yaml:"base_path"` // 所有音频文件的根目录
	Cues     []CueResource `yaml:"cues"`
}

// CueResource 一个音效定义
//
// Volume 为基础音量，播放时再乘以总音量和调用方给出的音量系数。
// Music 为 true 的条目循环播放，并额外乘以音乐音量。
type CueResource struct {
	ID     string  `yaml:"id"`
	Path   string  `yaml:"path"`
	Volume float64 `yaml:"volume"`
	Music  bool    `yaml:"music,omitempty"`
}

// DefaultCueVolumes 内置的基础音量表（配置文件缺失时使用）
var DefaultCueVolumes = map[string]float64{
	"bgMusic":    0.3,
	"bump":       0.5,
	"cartoon":    0.5,
	"ocean":      0.2,
	"spawn":      0.4,
	"sandHit":    0.3,
	"metalHit":   0.5,
	"rubberHit":  0.4,
	"tennisHit":  1,
	"balloonHit": 0.6,
	"point2":     1,
	"point3":     1,
	"point4":     1,
	"point5":     1,
	"point6":     1,
	"point7":     1,
	"point8":     1,
	"lose":       1,
	"countdown":  1,
	"spawnCube":  0.8,
	"merge":      0.4,
	"ballDrop":   0.2,
}

// LoadAudioConfig 从 YAML 文件加载音效配置
func LoadAudioConfig(filePath string) (*AudioConfig, error) {
	data, err := embedded.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio config file: %w", err)
	}

	var cfg AudioConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse audio config YAML: %w", err)
	}

	if err := validateAudioConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid audio config: %w", err)
	}
	return &cfg, nil
}

// validateAudioConfig 验证配置的有效性
func validateAudioConfig(cfg *AudioConfig) error {
	seen := make(map[string]bool, len(cfg.Cues))
	for i, cue := range cfg.Cues {
		if cue.ID == "" {
			return fmt.Errorf("cues[%d].id cannot be empty", i)
		}
		if cue.Path == "" {
			return fmt.Errorf("cue %s: path cannot be empty", cue.ID)
		}
		if cue.Volume < 0 || cue.Volume > 1 {
			return fmt.Errorf("cue %s: volume must be in [0,1], got %f", cue.ID, cue.Volume)
		}
		if seen[cue.ID] {
			return fmt.Errorf("duplicate cue id %s", cue.ID)
		}
		seen[cue.ID] = true
	}
	return nil
}

// buildFullPath 拼接根目录与相对路径
func buildFullPath(basePath, relativePath string) string {
	if basePath == "" {
		return relativePath
	}
	if len(relativePath) > 0 && relativePath[0] == '/' {
		return basePath + relativePath
	}
	return basePath + "/" + relativePath
}
