package game

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/quasilyte/gdata/v2"
)

// 存储路径常量
const (
	highScoreObject   = "highscore"
	highScoreProperty = "best"
)

// HighScoreManager 最高分管理器
// gdataManager 为 nil 时进入降级模式，只在内存中保存
type HighScoreManager struct {
	gdataManager *gdata.Manager
	highScore    int
}

// NewHighScoreManager 创建最高分管理器并加载已保存的最高分
func NewHighScoreManager(gdataManager *gdata.Manager) *HighScoreManager {
	hm := &HighScoreManager{gdataManager: gdataManager}
	if err := hm.Load(); err != nil {
		log.Printf("[HighScoreManager] Warning: Failed to load high score: %v (using 0)", err)
	}
	return hm
}

// Load 从 gdata 读取最高分
func (hm *HighScoreManager) Load() error {
	hm.highScore = 0
	if hm.gdataManager == nil {
		return nil
	}
	if !hm.gdataManager.ObjectPropExists(highScoreObject, highScoreProperty) {
		return nil
	}

	data, err := hm.gdataManager.LoadObjectProp(highScoreObject, highScoreProperty)
	if err != nil {
		return fmt.Errorf("failed to load high score: %w", err)
	}

	score, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return fmt.Errorf("failed to parse high score %q: %w", data, err)
	}
	hm.highScore = score
	return nil
}

// HighScore 当前最高分
func (hm *HighScoreManager) HighScore() int {
	return hm.highScore
}

// SaveHighScore 保存最高分
// 内存值总是更新；降级模式下不报错
func (hm *HighScoreManager) SaveHighScore(score int) error {
	hm.highScore = score
	if hm.gdataManager == nil {
		return nil
	}

	if err := hm.gdataManager.SaveObjectProp(highScoreObject, highScoreProperty, []byte(strconv.Itoa(score))); err != nil {
		return fmt.Errorf("failed to save high score: %w", err)
	}
	log.Printf("[HighScoreManager] High score saved: %d", score)
	return nil
}

// SubmitScore 一局结束时提交分数，只有严格高于已存最高分时才写入
func SubmitScore(store HighScoreStore, score int) SessionResult {
	result := SessionResult{Score: score}
	if store == nil {
		result.HighScore = score
		return result
	}

	best := store.HighScore()
	if score > best {
		if err := store.SaveHighScore(score); err != nil {
			log.Printf("[HighScoreManager] Warning: %v", err)
		}
		result.NewHighScore = true
		best = score
	}
	result.HighScore = best
	return result
}
