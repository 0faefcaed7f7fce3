package game

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"sudooom.codex.logic/internal/game/codex"
	"sudooom.codex.logic/internal/game/core"
)

// DeckSource 为每局游戏提供独立洗好的牌堆
type DeckSource interface {
	NewDecks(rng *rand.Rand) codex.Decks
}

// EvictHook 游戏被淘汰或服务关闭前调用，用于保存未落盘的修改
type EvictHook func(ctx context.Context, s *Session)

// ManagerConfig 管理器配置
type ManagerConfig struct {
	Rules         codex.Rules
	MaxGames      int           // 0 表示不限制
	EvictTimeout  time.Duration // 空闲或结束超过该时长的游戏会被淘汰
	EvictInterval time.Duration // 淘汰检查间隔
}

// GameManager 游戏管理器
type GameManager struct {
	games    sync.Map   // name -> *Session
	createMu sync.Mutex // 保证数量上限检查与插入是原子的

	decks   DeckSource
	config  ManagerConfig
	onEvict EvictHook
	now     func() time.Time
	newRand func() *rand.Rand

	evictTicker *time.Ticker
	stopChan    chan struct{}
	stopOnce    sync.Once

	logger *slog.Logger
}

// NewGameManager 创建游戏管理器并启动淘汰循环
func NewGameManager(decks DeckSource, config ManagerConfig) *GameManager {
	if config.EvictInterval <= 0 {
		config.EvictInterval = 60 * time.Second
	}
	m := &GameManager{
		decks:  decks,
		config: config,
		now:    time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		evictTicker: time.NewTicker(config.EvictInterval),
		stopChan:    make(chan struct{}),
		logger:      slog.Default().With("component", "GameManager"),
	}

	go m.evictLoop()

	return m
}

// SetEvictHook 设置淘汰回调
func (m *GameManager) SetEvictHook(hook EvictHook) {
	m.onEvict = hook
}

// Create 创建游戏，创建者自动加入
func (m *GameManager) Create(name string, playerCount int, founder string) (*Session, error) {
	name = strings.TrimSpace(name)

	m.createMu.Lock()
	defer m.createMu.Unlock()

	if _, ok := m.games.Load(name); ok {
		return nil, core.ErrGameNameTaken.WithContext("game", name)
	}
	if m.config.MaxGames > 0 && m.Count() >= m.config.MaxGames {
		return nil, core.ErrTooManyGames.WithContext("maxGames", m.config.MaxGames)
	}

	g, err := codex.NewGame(name, playerCount, founder, m.decks.NewDecks(m.newRand()), m.config.Rules)
	if err != nil {
		return nil, err
	}

	s := newSession(g, m.now)
	m.games.Store(name, s)
	m.logger.Info("Created game", "game", name, "playerCount", playerCount, "founder", founder)
	return s, nil
}

// Get 获取游戏
func (m *GameManager) Get(name string) (*Session, error) {
	val, ok := m.games.Load(name)
	if !ok {
		return nil, core.ErrGameNotFound.WithContext("game", name)
	}
	return val.(*Session), nil
}

// Delete 删除游戏
func (m *GameManager) Delete(name string) error {
	if _, loaded := m.games.LoadAndDelete(name); !loaded {
		return core.ErrGameNotFound.WithContext("game", name)
	}
	m.logger.Info("Removed game", "game", name)
	return nil
}

// List 按名称排序的游戏摘要
func (m *GameManager) List() []Summary {
	var out []Summary
	m.games.Range(func(_, value any) bool {
		out = append(out, value.(*Session).Summary())
		return true
	})
	slices.SortFunc(out, func(a, b Summary) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Count 返回当前游戏数
func (m *GameManager) Count() int {
	count := 0
	m.games.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// evictLoop 淘汰循环
func (m *GameManager) evictLoop() {
	for {
		select {
		case <-m.evictTicker.C:
			m.evictInactive(context.Background(), m.now())
		case <-m.stopChan:
			m.logger.Info("Evict loop stopped")
			return
		}
	}
}

// evictInactive 淘汰空闲或已结束超时的游戏
func (m *GameManager) evictInactive(ctx context.Context, now time.Time) int {
	if m.config.EvictTimeout <= 0 {
		return 0
	}

	var toEvict []*Session
	m.games.Range(func(_, value any) bool {
		s := value.(*Session)
		since := s.LastActiveTime()
		if finished := s.FinishedAt(); !finished.IsZero() {
			since = finished
		}
		if now.Sub(since) > m.config.EvictTimeout {
			toEvict = append(toEvict, s)
		}
		return true
	})

	for _, s := range toEvict {
		if s.IsDirty() && m.onEvict != nil {
			m.logger.Info("Saving game before eviction", "game", s.Name())
			m.onEvict(ctx, s)
		}
		m.games.CompareAndDelete(s.Name(), s)
		m.logger.Info("Evicted inactive game", "game", s.Name())
	}
	return len(toEvict)
}

// Shutdown 停止淘汰循环并保存所有未落盘的游戏
func (m *GameManager) Shutdown(ctx context.Context) error {
	m.logger.Info("Shutting down GameManager")

	m.stopOnce.Do(func() {
		close(m.stopChan)
		m.evictTicker.Stop()
	})

	m.games.Range(func(_, value any) bool {
		s := value.(*Session)
		if s.IsDirty() && m.onEvict != nil {
			m.logger.Info("Saving game on shutdown", "game", s.Name())
			m.onEvict(ctx, s)
		}
		return ctx.Err() == nil
	})

	m.logger.Info("GameManager shutdown complete")
	return ctx.Err()
}
