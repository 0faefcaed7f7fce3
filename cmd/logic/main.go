package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"sudooom.codex.logic/internal/config"
	"sudooom.codex.logic/internal/game"
	"sudooom.codex.logic/internal/game/catalog"
	"sudooom.codex.logic/internal/game/codex"
	"sudooom.codex.logic/internal/handler"
	"sudooom.codex.logic/internal/health"
	"sudooom.codex.logic/internal/liveness"
	codexNats "sudooom.codex.logic/internal/nats"
	"sudooom.codex.logic/internal/store"
	"sudooom.codex.logic/internal/web"
)

func main() {
	// 加载配置
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 初始化日志
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.App.LogLevel),
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 卡牌目录
	cards, err := catalog.Load(cfg.Game.CatalogPath)
	if err != nil {
		logger.Error("Failed to load card catalog", "path", cfg.Game.CatalogPath, "error", err)
		os.Exit(1)
	}

	// 连接 NATS
	natsClient, err := codexNats.NewClient(cfg.NATS)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer natsClient.Close()
	logger.Info("Connected to NATS", "url", cfg.NATS.URL)

	// 连接 Redis
	redisClient := connectRedis(cfg.Redis)
	defer redisClient.Close()
	logger.Info("Connected to Redis", "host", cfg.Redis.Host)

	// 连接数据库
	db, err := connectDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL", "host", cfg.Database.Host)

	snapshots := store.NewSnapshotStore(redisClient, cfg.Redis.SnapshotTTL)
	archive := store.NewResultArchive(db)
	if err := archive.EnsureSchema(ctx); err != nil {
		logger.Error("Failed to ensure result schema", "error", err)
		os.Exit(1)
	}
	purgeStaleSnapshots(ctx, snapshots, logger)

	manager := game.NewGameManager(cards, game.ManagerConfig{
		Rules: codex.Rules{
			MinPlayers:   cfg.Game.MinPlayers,
			MaxPlayers:   cfg.Game.MaxPlayers,
			WinningScore: cfg.Game.WinningScore,
			GraceRounds:  cfg.Game.GraceRounds,
			HandSize:     cfg.Game.HandSize,
		},
		MaxGames:     cfg.Game.MaxGames,
		EvictTimeout: cfg.Game.EvictTimeout,
	})

	// 心跳超时经由处理器断开玩家，处理器创建在监控器之后
	var gameHandler *handler.GameHandler
	monitor := liveness.NewMonitor(cfg.Heartbeat.Timeout(), 8, func(ctx context.Context, key liveness.Key) {
		gameHandler.HandleHeartbeatTimeout(ctx, key.Game, key.Player)
	})

	publisher := codexNats.NewViewPublisher(natsClient.Conn())
	gameHandler = handler.NewGameHandler(manager, publisher, snapshots, archive, monitor)
	manager.SetEvictHook(gameHandler.Flush)

	if err := monitor.Start(); err != nil {
		logger.Error("Failed to start heartbeat monitor", "error", err)
		os.Exit(1)
	}

	// 启动订阅者
	subscriber := codexNats.NewActionSubscriber(natsClient.Conn(), gameHandler, codexNats.SubscriberConfig{
		WorkerCount: cfg.NATS.WorkerCount,
		BufferSize:  cfg.NATS.BufferSize,
	})
	if err := subscriber.Start(ctx); err != nil {
		logger.Error("Failed to start subscriber", "error", err)
		os.Exit(1)
	}

	// 大厅 HTTP 服务
	tokens := web.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessExpire)
	lobby := web.NewLobbyHandler(manager, gameHandler, archive, tokens)
	apiServer := &http.Server{
		Addr:    cfg.App.HTTPAddr,
		Handler: web.SetupRouter(gin.ReleaseMode, lobby, tokens),
	}
	go serve(apiServer, "Lobby", logger)

	// 健康检查 HTTP 服务
	healthChecker := health.NewChecker(natsClient, redisClient, db, manager, monitor.Tracked)
	healthServer := &http.Server{
		Addr:    cfg.App.HealthAddr,
		Handler: healthMux(healthChecker),
	}
	go serve(healthServer, "Health check", logger)

	logger.Info("Logic service started", "name", cfg.App.Name)

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Lobby server shutdown failed", "error", err)
	}
	if err := subscriber.Stop(); err != nil {
		logger.Warn("Subscriber stop failed", "error", err)
	}
	monitor.Stop()
	if err := manager.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Game manager shutdown failed", "error", err)
	}
	_ = healthServer.Shutdown(shutdownCtx)
	cancel()
	logger.Info("Logic service stopped")
}

// purgeStaleSnapshots 游戏只存在于内存中，重启后上一进程留下的快照已无法恢复
func purgeStaleSnapshots(ctx context.Context, snapshots *store.SnapshotStore, logger *slog.Logger) {
	names, err := snapshots.List(ctx)
	if err != nil {
		logger.Warn("Failed to list snapshots", "error", err)
		return
	}
	for _, name := range names {
		view, err := snapshots.Load(ctx, name)
		if err != nil && !errors.Is(err, store.ErrSnapshotNotFound) {
			logger.Warn("Failed to load snapshot", "game", name, "error", err)
		}
		if err := snapshots.Delete(ctx, name); err != nil {
			logger.Warn("Failed to delete snapshot", "game", name, "error", err)
			continue
		}
		logger.Info("Discarded stale snapshot", "game", name, "phase", view.Phase)
	}
}

func healthMux(checker *health.Checker) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/health", checker)
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if checker.IsHealthy(r.Context()) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Not Ready"))
		}
	})
	return mux
}

func serve(server *http.Server, name string, logger *slog.Logger) {
	logger.Info(name+" server started", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(name+" server failed", "error", err)
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// connectRedis 连接 Redis
func connectRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// connectDatabase 连接 PostgreSQL
func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = 10 * time.Minute

	return pgxpool.NewWithConfig(ctx, poolConfig)
}
