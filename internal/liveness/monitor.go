package liveness

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// tracked 玩家在时间轮中的位置
type tracked struct {
	slot    int
	version uint64
}

// Monitor 心跳监控
// 每次心跳把玩家的超时记录移到 timeout 秒之后的槽位，到期未刷新则触发回调
type Monitor struct {
	wheel   *TimeWheel
	pool    *WorkerPool
	timeout int // 秒，1-60

	mu      sync.Mutex
	players map[Key]tracked
	version uint64

	interval  time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	running   bool
	runningMu sync.Mutex

	logger *slog.Logger
}

// NewMonitor 创建心跳监控，timeout 超出 1-60 秒时取边界值
func NewMonitor(timeout time.Duration, workerCount int, onExpire ExpireFunc) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Monitor{
		wheel:    NewTimeWheel(),
		pool:     NewWorkerPool(workerCount, onExpire),
		timeout:  clampDelay(int(timeout / time.Second)),
		players:  make(map[Key]tracked),
		interval: time.Second,
		ctx:      ctx,
		cancel:   cancel,
		logger:   slog.Default().With("component", "LivenessMonitor"),
	}
}

// Start 启动时钟
func (m *Monitor) Start() error {
	m.runningMu.Lock()
	defer m.runningMu.Unlock()
	if m.running {
		return fmt.Errorf("liveness monitor already running")
	}
	m.running = true

	m.pool.Start()
	m.wg.Add(1)
	go m.tickLoop()

	m.logger.Info("Liveness monitor started", "timeoutSeconds", m.timeout)
	return nil
}

func (m *Monitor) tickLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.onTick()
		}
	}
}

// onTick 推进时间轮并提交到期的玩家
func (m *Monitor) onTick() {
	entries := m.wheel.Tick()
	if len(entries) == 0 {
		return
	}

	for _, e := range m.expired(entries) {
		m.logger.Info("Heartbeat timed out", "game", e.Game, "player", e.Player)
		m.pool.Submit(e)
	}
}

// expired 过滤掉已被刷新或取消的记录
func (m *Monitor) expired(entries []entry) []Key {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Key
	for _, e := range entries {
		t, ok := m.players[e.key]
		if !ok || t.version != e.version {
			continue
		}
		delete(m.players, e.key)
		out = append(out, e.key)
	}
	return out
}

// Beat 记录一次心跳
func (m *Monitor) Beat(game, player string) {
	key := Key{Game: game, Player: player}

	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.players[key]; ok {
		m.wheel.remove(key, t.slot)
	}
	m.version++
	slot := m.wheel.add(entry{key: key, version: m.version}, m.timeout)
	m.players[key] = tracked{slot: slot, version: m.version}
}

// Forget 停止监控一个玩家
func (m *Monitor) Forget(game, player string) {
	key := Key{Game: game, Player: player}

	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.players[key]; ok {
		m.wheel.remove(key, t.slot)
		delete(m.players, key)
	}
}

// ForgetGame 停止监控一局游戏的所有玩家
func (m *Monitor) ForgetGame(game string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, t := range m.players {
		if key.Game == game {
			m.wheel.remove(key, t.slot)
			delete(m.players, key)
		}
	}
}

// Tracked 当前被监控的玩家数
func (m *Monitor) Tracked() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.players)
}

// Stop 停止时钟和工作协程
func (m *Monitor) Stop() {
	m.runningMu.Lock()
	defer m.runningMu.Unlock()
	if !m.running {
		return
	}
	m.running = false

	m.cancel()
	m.wg.Wait()
	m.pool.Stop()
	m.logger.Info("Liveness monitor stopped")
}
