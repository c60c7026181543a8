package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/ballbounce/pkg/types"
)

// SceneFactory 按游戏模式创建场景，避免 game 包依赖 scenes 包
type SceneFactory func(mode types.GameMode) Scene

// SceneManager 管理当前活动场景，同一时间只有一个场景被更新和绘制
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
}

// NewSceneManager 创建场景管理器，初始没有活动场景
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 切换活动场景
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadMode 按模式创建新场景并切换过去
func (sm *SceneManager) LoadMode(mode types.GameMode) bool {
	log.Printf("[SceneManager] 加载模式: %s", mode)

	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] 错误: SceneFactory 未设置")
		return false
	}

	newScene := sm.sceneFactory(mode)
	if newScene == nil {
		log.Printf("[SceneManager] 错误: 无法创建场景: %s", mode)
		return false
	}
	sm.SwitchTo(newScene)
	return true
}

// SaveOnExit 当前场景支持保存时执行保存
func (sm *SceneManager) SaveOnExit() bool {
	if saveable, ok := sm.currentScene.(Saveable); ok {
		return saveable.SaveOnExit()
	}
	return true
}

// Update 更新当前场景
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
