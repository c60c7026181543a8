package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// AudioManager 音频管理器
// 实现 CueSink：按音效名播放，音量 = 基础音量 × 总音量 × 调用方系数；
// 背景音乐和环境音循环播放，额外乘以音乐音量。
//
// resourceManager 为 nil 时（无音频设备或测试环境）所有播放请求都被忽略。
type AudioManager struct {
	resourceManager *ResourceManager
	settingsManager *SettingsManager
	soundPlayers    map[string]*audio.Player // 音效ID -> 播放器
	musicPlayers    map[string]*audio.Player // 音乐ID -> 播放器
	currentMusic    *audio.Player
	currentMusicID  string
	ambient         map[string]*audio.Player // 正在播放的环境音
	paused          bool
}

// NewAudioManager 创建音频管理器
//
// 参数：
//   - rm: 资源管理器（用于加载音频），可为 nil
//   - sm: 设置管理器（用于读取音量设置），可为 nil
func NewAudioManager(rm *ResourceManager, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		resourceManager: rm,
		settingsManager: sm,
		soundPlayers:    make(map[string]*audio.Player),
		musicPlayers:    make(map[string]*audio.Player),
		ambient:         make(map[string]*audio.Player),
	}
}

// PlayCue 播放一次音效
// volume 为 0~1 的系数（碰撞音效按撞击速度给出），超出范围会被截断
func (am *AudioManager) PlayCue(name string, volume float64) {
	if am.paused || !am.settings().SoundEnabled {
		return
	}

	player := am.getSoundPlayer(name)
	if player == nil {
		return
	}

	player.SetVolume(am.cueVolume(name, volume))
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind sound %s: %v", name, err)
	}
	player.Play()
}

// PlayMusic 播放背景音乐（同一时间只有一首）
func (am *AudioManager) PlayMusic(musicID string) bool {
	if !am.settings().MusicEnabled {
		return false
	}

	if am.currentMusicID == musicID && am.currentMusic != nil && am.currentMusic.IsPlaying() {
		return true
	}

	am.StopMusic()

	player := am.getMusicPlayer(musicID)
	if player == nil {
		return false
	}

	volume := am.musicVolume(musicID)
	player.SetVolume(volume)
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind music %s: %v", musicID, err)
	}
	player.Play()

	am.currentMusic = player
	am.currentMusicID = musicID

	log.Printf("[AudioManager] Playing music: %s (volume: %.2f)", musicID, volume)
	return true
}

// PlayAmbient 开始循环播放环境音（与背景音乐并存）
func (am *AudioManager) PlayAmbient(id string) bool {
	if !am.settings().MusicEnabled {
		return false
	}
	if p, ok := am.ambient[id]; ok && p.IsPlaying() {
		return true
	}
	player := am.getMusicPlayer(id)
	if player == nil {
		return false
	}
	player.SetVolume(am.musicVolume(id))
	player.Play()
	am.ambient[id] = player
	return true
}

// CurrentMusic 当前背景音乐ID
func (am *AudioManager) CurrentMusic() string {
	return am.currentMusicID
}

// StopMusic 停止当前背景音乐
func (am *AudioManager) StopMusic() {
	if am.currentMusic != nil {
		am.currentMusic.Pause()
	}
	am.currentMusic = nil
	am.currentMusicID = ""
}

// StopAll 停止背景音乐和所有环境音
func (am *AudioManager) StopAll() {
	am.StopMusic()
	for id, p := range am.ambient {
		p.Pause()
		delete(am.ambient, id)
	}
}

// Pause 暂停所有循环音频，并忽略之后的音效请求
func (am *AudioManager) Pause() {
	am.paused = true
	if am.currentMusic != nil {
		am.currentMusic.Pause()
	}
	for _, p := range am.ambient {
		p.Pause()
	}
}

// Resume 恢复循环音频
func (am *AudioManager) Resume() {
	am.paused = false
	if !am.settings().MusicEnabled {
		return
	}
	if am.currentMusic != nil {
		am.currentMusic.Play()
	}
	for _, p := range am.ambient {
		p.Play()
	}
}

// ApplyVolumes 把设置中的音量应用到正在播放的循环音频
func (am *AudioManager) ApplyVolumes() {
	if am.currentMusic != nil {
		am.currentMusic.SetVolume(am.musicVolume(am.currentMusicID))
	}
	for id, p := range am.ambient {
		p.SetVolume(am.musicVolume(id))
	}
}

func (am *AudioManager) settings() *GameSettings {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings()
	}
	return DefaultSettings()
}

// baseVolume 音效的基础音量，配置优先，其次内置表，未知音效为 1
func (am *AudioManager) baseVolume(id string) float64 {
	if am.resourceManager != nil {
		if cue, ok := am.resourceManager.Cue(id); ok {
			return cue.Volume
		}
	}
	if v, ok := DefaultCueVolumes[id]; ok {
		return v
	}
	return 1
}

func (am *AudioManager) cueVolume(id string, scalar float64) float64 {
	return clampVolume(am.baseVolume(id) * am.settings().MasterVolume * clampVolume(scalar))
}

func (am *AudioManager) musicVolume(id string) float64 {
	s := am.settings()
	return clampVolume(am.baseVolume(id) * s.MasterVolume * s.MusicVolume)
}

func (am *AudioManager) getSoundPlayer(id string) *audio.Player {
	if player, exists := am.soundPlayers[id]; exists {
		return player
	}
	if am.resourceManager == nil {
		return nil
	}

	path, ok := am.resourceManager.CuePath(id)
	if !ok {
		log.Printf("[AudioManager] Warning: Sound not found: %s", id)
		return nil
	}
	player, err := am.resourceManager.LoadSoundEffect(path)
	if err != nil {
		log.Printf("[AudioManager] Warning: Failed to load sound %s: %v", id, err)
		return nil
	}
	am.soundPlayers[id] = player
	return player
}

func (am *AudioManager) getMusicPlayer(id string) *audio.Player {
	if player, exists := am.musicPlayers[id]; exists {
		return player
	}
	if am.resourceManager == nil {
		return nil
	}

	path, ok := am.resourceManager.CuePath(id)
	if !ok {
		log.Printf("[AudioManager] Warning: Music not found: %s", id)
		return nil
	}
	player, err := am.resourceManager.LoadAudio(path)
	if err != nil {
		log.Printf("[AudioManager] Warning: Failed to load music %s: %v", id, err)
		return nil
	}
	am.musicPlayers[id] = player
	return player
}

// PreloadCues 预加载音效，避免首次播放时的延迟
func (am *AudioManager) PreloadCues(ids []string) {
	for _, id := range ids {
		if cue, ok := am.cueResource(id); ok && cue.Music {
			am.getMusicPlayer(id)
			continue
		}
		am.getSoundPlayer(id)
	}
	log.Printf("[AudioManager] Preloaded %d cues", len(ids))
}

func (am *AudioManager) cueResource(id string) (CueResource, bool) {
	if am.resourceManager == nil {
		return CueResource{}, false
	}
	return am.resourceManager.Cue(id)
}
