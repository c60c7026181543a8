package game

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"

	"github.com/gonewx/ballbounce/pkg/embedded"
)

// ResourceManager 集中管理音频资源的加载与缓存
// 非线程安全，只在游戏主循环中使用
type ResourceManager struct {
	audioContext *audio.Context
	audioCache   map[string]*audio.Player // 路径 -> 播放器

	config   *AudioConfig
	cueIndex map[string]CueResource // 音效ID -> 定义
}

// NewResourceManager 创建资源管理器
// audioContext 应在启动时以 48000Hz 创建一次
func NewResourceManager(audioContext *audio.Context) *ResourceManager {
	return &ResourceManager{
		audioContext: audioContext,
		audioCache:   make(map[string]*audio.Player),
		cueIndex:     make(map[string]CueResource),
	}
}

// LoadResourceConfig 加载音效配置并建立ID索引
func (rm *ResourceManager) LoadResourceConfig(configPath string) error {
	cfg, err := LoadAudioConfig(configPath)
	if err != nil {
		return err
	}
	rm.SetAudioConfig(cfg)
	return nil
}

// SetAudioConfig 直接设置音效配置
func (rm *ResourceManager) SetAudioConfig(cfg *AudioConfig) {
	rm.config = cfg
	rm.cueIndex = make(map[string]CueResource, len(cfg.Cues))
	for _, cue := range cfg.Cues {
		rm.cueIndex[cue.ID] = cue
	}
}

// Cue 查询音效定义
func (rm *ResourceManager) Cue(id string) (CueResource, bool) {
	cue, ok := rm.cueIndex[id]
	return cue, ok
}

// CuePath 音效文件的完整路径
func (rm *ResourceManager) CuePath(id string) (string, bool) {
	cue, ok := rm.cueIndex[id]
	if !ok || rm.config == nil {
		return "", false
	}
	return buildFullPath(rm.config.BasePath, cue.Path), true
}

// LoadAudio 加载循环播放的音频（背景音乐、环境音）
func (rm *ResourceManager) LoadAudio(path string) (*audio.Player, error) {
	return rm.loadPlayer(path, true)
}

// LoadSoundEffect 加载单次播放的音效
func (rm *ResourceManager) LoadSoundEffect(path string) (*audio.Player, error) {
	return rm.loadPlayer(path, false)
}

// GetAudioPlayer 获取已缓存的播放器，未加载返回 nil
func (rm *ResourceManager) GetAudioPlayer(path string) *audio.Player {
	return rm.audioCache[path]
}

func (rm *ResourceManager) loadPlayer(path string, loop bool) (*audio.Player, error) {
	if cached, exists := rm.audioCache[path]; exists {
		return cached, nil
	}
	if rm.audioContext == nil {
		return nil, fmt.Errorf("audio context not initialized")
	}

	audioData, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file %s: %w", path, err)
	}
	reader := bytes.NewReader(audioData)

	var stream io.ReadSeeker
	var length int64
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		decoded, err := mp3.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 file %s: %w", path, err)
		}
		stream, length = decoded, decoded.Length()
	case ".ogg":
		decoded, err := vorbis.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG file %s: %w", path, err)
		}
		stream, length = decoded, decoded.Length()
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .ogg)", ext)
	}

	if loop {
		stream = audio.NewInfiniteLoop(stream, length)
	}

	player, err := rm.audioContext.NewPlayer(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player for %s: %w", path, err)
	}

	rm.audioCache[path] = player
	return player, nil
}
