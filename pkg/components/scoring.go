package components

// ScoringComponent 计分倍率（普通球 1，合并大球 3）
type ScoringComponent struct {
	Multiplier int
}
