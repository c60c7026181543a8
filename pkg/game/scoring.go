package game

import (
	"fmt"
	"math"

	"github.com/gonewx/ballbounce/pkg/config"
)

// ScoreEvent 一次落点计分的结果
type ScoreEvent struct {
	Points     int     // 已乘倍率的得分
	ZoneRadius float64 // 高亮环半径，0 表示不高亮
	Cue        string  // 音效名，空表示无
	Label      string  // 弹出文字，如 "+100"
	Distance   float64 // 落点到靶心的距离
}

// HasZone 是否需要高亮得分环
func (e ScoreEvent) HasZone() bool {
	return e.ZoneRadius > 0
}

// Scorer 按得分环计算落点得分
type Scorer struct {
	bands []config.ScoreBand
}

// NewScorer 创建计分器，bands 为空时使用默认得分环
// bands 必须按 MaxDistance 严格递增（由配置校验保证）
func NewScorer(bands []config.ScoreBand) *Scorer {
	if len(bands) == 0 {
		bands = config.DefaultScoreBands()
	}
	return &Scorer{bands: bands}
}

var defaultScorer = NewScorer(nil)

// ScoreForImpact 使用默认得分环计算落点得分
func ScoreForImpact(impactX, impactZ, targetX, targetZ float64, multiplier int) ScoreEvent {
	return defaultScorer.ScoreForImpact(impactX, impactZ, targetX, targetZ, multiplier)
}

// ScoreForImpact 计算落点 (impactX, impactZ) 相对靶心 (targetX, targetZ) 的得分
//
// 距离恰好等于环的上界时归入外一环（严格小于比较）。
// 超出最外环时得分为 0，不高亮也没有音效。
func (s *Scorer) ScoreForImpact(impactX, impactZ, targetX, targetZ float64, multiplier int) ScoreEvent {
	d := math.Hypot(impactX-targetX, impactZ-targetZ)
	event := ScoreEvent{Distance: d, Label: "+0"}

	for _, band := range s.bands {
		if d < band.MaxDistance {
			if band.Points <= 0 {
				return event
			}
			event.Points = band.Points * multiplier
			event.ZoneRadius = band.Radius
			event.Cue = band.Cue
			event.Label = fmt.Sprintf("+%d", event.Points)
			return event
		}
	}
	return event
}
