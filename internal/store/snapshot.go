package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"sudooom.codex.logic/internal/game/codex"
)

// ErrSnapshotNotFound 快照不存在或已过期
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore Redis 视图快照存储
// 每次动作成功后覆盖写入最新视图，供接入层和重启后的查询使用
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewSnapshotStore 创建快照存储
func NewSnapshotStore(client *redis.Client, ttl time.Duration) *SnapshotStore {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &SnapshotStore{
		client: client,
		ttl:    ttl,
		logger: slog.Default().With("component", "SnapshotStore"),
	}
}

// Save 写入视图并登记到游戏索引
func (s *SnapshotStore) Save(ctx context.Context, view codex.View) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal view %s: %w", view.Name, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, BuildViewKey(view.Name), data, s.ttl)
		pipe.SAdd(ctx, GamesIndexKey, view.Name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save view %s: %w", view.Name, err)
	}
	return nil
}

// Load 读取视图
func (s *SnapshotStore) Load(ctx context.Context, name string) (codex.View, error) {
	data, err := s.client.Get(ctx, BuildViewKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return codex.View{}, ErrSnapshotNotFound
	}
	if err != nil {
		return codex.View{}, fmt.Errorf("load view %s: %w", name, err)
	}

	var view codex.View
	if err := json.Unmarshal(data, &view); err != nil {
		return codex.View{}, fmt.Errorf("unmarshal view %s: %w", name, err)
	}
	return view, nil
}

// Delete 删除视图和索引
func (s *SnapshotStore) Delete(ctx context.Context, name string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, BuildViewKey(name))
		pipe.SRem(ctx, GamesIndexKey, name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete view %s: %w", name, err)
	}
	return nil
}

// List 有快照的游戏名称，顺带清理已过期的索引项
func (s *SnapshotStore) List(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, GamesIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	if len(names) == 0 {
		return nil, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = BuildViewKey(name)
	}
	exists, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	live := make([]string, 0, len(names))
	for i, v := range exists {
		if v == nil {
			if err := s.client.SRem(ctx, GamesIndexKey, names[i]).Err(); err != nil {
				s.logger.Warn("Failed to drop expired game from index", "game", names[i], "error", err)
			}
			continue
		}
		live = append(live, names[i])
	}
	slices.Sort(live)
	return live, nil
}
