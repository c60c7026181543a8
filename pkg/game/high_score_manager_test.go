package game

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// createTestGdataManager 创建测试用的 gdata 管理器，平台不支持时跳过
func createTestGdataManager(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Skipf("gdata not available: %v", err)
	}
	return manager
}

// TestHighScoreManagerPersistence 测试最高分写入后可被新实例读回
func TestHighScoreManagerPersistence(t *testing.T) {
	manager := createTestGdataManager(t, "test_highscore")

	hm := NewHighScoreManager(manager)
	if hm.HighScore() != 0 {
		t.Fatalf("Expected initial high score 0, got %d", hm.HighScore())
	}
	if err := hm.SaveHighScore(420); err != nil {
		t.Fatalf("SaveHighScore error: %v", err)
	}

	reloaded := NewHighScoreManager(manager)
	if reloaded.HighScore() != 420 {
		t.Errorf("Expected reloaded high score 420, got %d", reloaded.HighScore())
	}
}

// TestHighScoreManagerNilGdata 降级模式只保存在内存
func TestHighScoreManagerNilGdata(t *testing.T) {
	hm := NewHighScoreManager(nil)
	if err := hm.SaveHighScore(50); err != nil {
		t.Fatalf("degraded mode should not error: %v", err)
	}
	if hm.HighScore() != 50 {
		t.Errorf("Expected 50, got %d", hm.HighScore())
	}
	if err := hm.Load(); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if hm.HighScore() != 0 {
		t.Errorf("Load in degraded mode resets to 0, got %d", hm.HighScore())
	}
}

type memoryHighScoreStore struct {
	best  int
	saves int
}

func (m *memoryHighScoreStore) HighScore() int { return m.best }

func (m *memoryHighScoreStore) SaveHighScore(score int) error {
	m.best = score
	m.saves++
	return nil
}

// TestSubmitScore 只有严格更高的分数才会写入
func TestSubmitScore(t *testing.T) {
	tests := []struct {
		name      string
		stored    int
		score     int
		wantNew   bool
		wantBest  int
		wantSaves int
	}{
		{"刷新纪录", 100, 150, true, 150, 1},
		{"持平不写入", 100, 100, false, 100, 0},
		{"低于纪录", 100, -20, false, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryHighScoreStore{best: tt.stored}
			result := SubmitScore(store, tt.score)
			if result.NewHighScore != tt.wantNew || result.HighScore != tt.wantBest {
				t.Errorf("unexpected result %+v", result)
			}
			if store.saves != tt.wantSaves {
				t.Errorf("Expected %d saves, got %d", tt.wantSaves, store.saves)
			}
		})
	}
}
