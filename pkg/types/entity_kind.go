// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import "fmt"

// EntityKind 定义实体的种类
//
// 球的行为差异（质量、弹性、摩擦、贴图）全部由种类查表得到，
// 不通过比较材质对象的身份来区分。
type EntityKind int

const (
	// KindUnknown 未知种类
	KindUnknown EntityKind = iota
	// KindTennisBall 网球
	KindTennisBall
	// KindMetal 金属球
	KindMetal
	// KindRubber 橡胶球
	KindRubber
	// KindBalloon 气球
	KindBalloon
	// KindBonusBall 合并产生的奖励大球（得分 ×3）
	KindBonusBall
	// KindCube 奖励方块
	KindCube
	// KindStaticCube 场景中的静态箱子
	KindStaticCube
	// KindStaticBall 场景中的静态气球
	KindStaticBall
)

// SpawnableBallKinds 球生成器随机抽取的四种普通球
var SpawnableBallKinds = []EntityKind{KindTennisBall, KindMetal, KindRubber, KindBalloon}

// String 返回种类的字符串表示（与配置文件中的键一致）
func (k EntityKind) String() string {
	switch k {
	case KindTennisBall:
		return "tennisBall"
	case KindMetal:
		return "metal"
	case KindRubber:
		return "rubber"
	case KindBalloon:
		return "balloon"
	case KindBonusBall:
		return "bonusBall"
	case KindCube:
		return "cube"
	case KindStaticCube:
		return "staticCube"
	case KindStaticBall:
		return "staticBall"
	default:
		return "unknown"
	}
}

// ParseEntityKind 由配置键解析种类
func ParseEntityKind(s string) (EntityKind, error) {
	for k := KindTennisBall; k <= KindStaticBall; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown entity kind %q", s)
}

// IsBall 是否为球（含静态球）
func (k EntityKind) IsBall() bool {
	switch k {
	case KindTennisBall, KindMetal, KindRubber, KindBalloon, KindBonusBall, KindStaticBall:
		return true
	}
	return false
}

// IsCube 是否为方块（含静态箱子）
func (k EntityKind) IsCube() bool {
	return k == KindCube || k == KindStaticCube
}

// IsStatic 是否为静态场景物体（会话结束时保留）
func (k EntityKind) IsStatic() bool {
	return k == KindStaticCube || k == KindStaticBall
}
