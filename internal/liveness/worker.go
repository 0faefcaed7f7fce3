package liveness

import (
	"context"
	"log/slog"
	"sync"
)

// ExpireFunc 心跳超时回调
type ExpireFunc func(ctx context.Context, key Key)

// WorkerPool 执行超时回调的工作协程池
type WorkerPool struct {
	workerCount int
	jobs        chan Key
	onExpire    ExpireFunc
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	logger      *slog.Logger
}

// NewWorkerPool 创建工作协程池
func NewWorkerPool(workerCount int, onExpire ExpireFunc) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 4
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workerCount: workerCount,
		jobs:        make(chan Key, workerCount*16),
		onExpire:    onExpire,
		ctx:         ctx,
		cancel:      cancel,
		logger:      slog.Default().With("component", "LivenessWorkerPool"),
	}
}

// Start 启动工作协程
func (wp *WorkerPool) Start() {
	for i := range wp.workerCount {
		wp.wg.Add(1)
		go wp.worker(i)
	}
	wp.logger.Info("Worker pool started", "workerCount", wp.workerCount)
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case key := <-wp.jobs:
			wp.execute(id, key)
		}
	}
}

// execute 执行回调，单个回调 panic 不影响其他玩家
func (wp *WorkerPool) execute(workerID int, key Key) {
	defer func() {
		if r := recover(); r != nil {
			wp.logger.Error("Expire callback panic",
				"workerID", workerID,
				"game", key.Game,
				"player", key.Player,
				"panic", r)
		}
	}()

	if wp.onExpire == nil {
		return
	}
	wp.onExpire(wp.ctx, key)
}

// Submit 提交到期的玩家，通道满时阻塞等待
func (wp *WorkerPool) Submit(key Key) {
	select {
	case wp.jobs <- key:
	case <-wp.ctx.Done():
		wp.logger.Warn("Worker pool stopped, dropping expiry", "game", key.Game, "player", key.Player)
	default:
		wp.logger.Warn("Worker pool queue full, expiry delayed", "game", key.Game, "player", key.Player)
		select {
		case wp.jobs <- key:
		case <-wp.ctx.Done():
		}
	}
}

// Stop 停止工作协程
func (wp *WorkerPool) Stop() {
	wp.cancel()
	wp.wg.Wait()
	wp.logger.Info("Worker pool stopped")
}
