package components

import "github.com/gonewx/ballbounce/pkg/types"

// EntityComponent 标识实体种类
// SpawnTime 为生成时的游戏时钟（秒），用于调试输出和容量淘汰排序
type EntityComponent struct {
	Kind      types.EntityKind
	SpawnTime float64
}
