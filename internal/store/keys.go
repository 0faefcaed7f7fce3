package store

import "time"

const (
	// ViewKeyPrefix 游戏视图快照 Key 前缀
	// Key: codex:game:{name}:view
	ViewKeyPrefix = "codex:game:"

	// GamesIndexKey 进行中游戏名称集合
	GamesIndexKey = "codex:games"

	// DefaultSnapshotTTL 快照默认 TTL
	DefaultSnapshotTTL = 24 * time.Hour
)

// BuildViewKey 构建视图快照 Key
func BuildViewKey(name string) string {
	return ViewKeyPrefix + name + ":view"
}
