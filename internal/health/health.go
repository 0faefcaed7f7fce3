package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

const (
	stateUp   = "connected"
	stateDown = "disconnected"

	probeTimeout = 2 * time.Second
)

// Status 健康状态
type Status struct {
	NATS     string `json:"nats"`
	Redis    string `json:"redis"`
	Database string `json:"database"`
	Games    int    `json:"games"`
	Tracked  int    `json:"tracked"`
}

// Healthy 三个依赖都可用
func (s *Status) Healthy() bool {
	return s.NATS == stateUp && s.Redis == stateUp && s.Database == stateUp
}

// Probe 单个依赖的连通性检查
type Probe func(ctx context.Context) error

// Counter 计数来源
type Counter interface {
	Count() int
}

// Connectivity 消息总线连接状态
type Connectivity interface {
	IsConnected() bool
}

// Checker 健康检查器
type Checker struct {
	nats    Probe
	redis   Probe
	db      Probe
	games   Counter
	tracked func() int
}

// NewChecker 创建健康检查器
func NewChecker(bus Connectivity, redisClient *redis.Client, db *pgxpool.Pool, games Counter, tracked func() int) *Checker {
	return &Checker{
		nats:    NATSProbe(bus),
		redis:   func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		db:      db.Ping,
		games:   games,
		tracked: tracked,
	}
}

// NATSProbe 连接状态检查
func NATSProbe(bus Connectivity) Probe {
	return func(context.Context) error {
		if !bus.IsConnected() {
			return nats.ErrConnectionClosed
		}
		return nil
	}
}

// Check 执行健康检查
func (h *Checker) Check(ctx context.Context) *Status {
	status := &Status{
		NATS:     probe(ctx, h.nats),
		Redis:    probe(ctx, h.redis),
		Database: probe(ctx, h.db),
	}
	if h.games != nil {
		status.Games = h.games.Count()
	}
	if h.tracked != nil {
		status.Tracked = h.tracked()
	}
	return status
}

func probe(ctx context.Context, p Probe) string {
	if p == nil {
		return stateDown
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := p(ctx); err != nil {
		return stateDown
	}
	return stateUp
}

// IsHealthy 检查是否健康
func (h *Checker) IsHealthy(ctx context.Context) bool {
	return h.Check(ctx).Healthy()
}

// ServeHTTP HTTP 健康检查端点
func (h *Checker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := h.Check(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if status.Healthy() {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(status)
}
