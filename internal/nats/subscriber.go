package nats

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"

	"sudooom.codex.logic/pkg/proto"
)

// RequestHandler 动作请求处理器
type RequestHandler interface {
	HandleGameRequest(ctx context.Context, req *proto.GameRequest) *proto.GameResponse
}

// SubscriberConfig Worker Pool 配置
type SubscriberConfig struct {
	WorkerCount int // Worker 数量
	BufferSize  int // 每个 Worker 的缓冲区大小
}

// job 已解析的请求和应答地址
type job struct {
	req   *proto.GameRequest
	reply string
}

// ActionSubscriber 动作请求订阅器
// 同一局游戏的请求总是分到同一个 Worker，保持到达顺序
type ActionSubscriber struct {
	nc           *nats.Conn
	handler      RequestHandler
	logger       *slog.Logger
	subscription *nats.Subscription
	config       SubscriberConfig
	queues       []chan job
	wg           sync.WaitGroup
	cancelFunc   context.CancelFunc
}

// NewActionSubscriber 创建动作请求订阅器
func NewActionSubscriber(nc *nats.Conn, handler RequestHandler, config SubscriberConfig) *ActionSubscriber {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 32
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 1024
	}

	return &ActionSubscriber{
		nc:      nc,
		handler: handler,
		logger:  slog.Default().With("component", "ActionSubscriber"),
		config:  config,
	}
}

// Start 启动订阅
func (s *ActionSubscriber) Start(ctx context.Context) error {
	workerCtx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel

	s.queues = make([]chan job, s.config.WorkerCount)
	for i := range s.queues {
		s.queues[i] = make(chan job, s.config.BufferSize)
		s.wg.Add(1)
		go s.worker(workerCtx, s.queues[i])
	}

	// 队列组实现多实例负载均衡
	sub, err := s.nc.QueueSubscribe(proto.SubjectLogicAction, proto.QueueGroupLogic, s.dispatch)
	if err != nil {
		cancel()
		return err
	}

	s.subscription = sub
	s.logger.Info("NATS subscriber started",
		"subject", proto.SubjectLogicAction,
		"workerCount", s.config.WorkerCount,
		"bufferSize", s.config.BufferSize,
	)
	return nil
}

// dispatch 解析请求并按游戏名称分配 Worker
func (s *ActionSubscriber) dispatch(msg *nats.Msg) {
	var req proto.GameRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.logger.Error("Failed to unmarshal game request", "error", err)
		s.respond(msg.Reply, &proto.GameResponse{
			Error: &proto.ErrorBody{Code: "BAD_REQUEST", Kind: "VALIDATION", Message: err.Error()},
		})
		return
	}

	queue := s.queues[shard(req.Game, len(s.queues))]
	select {
	case queue <- job{req: &req, reply: msg.Reply}:
	default:
		s.logger.Warn("Message buffer full, dropping request",
			"game", req.Game,
			"reqId", req.ReqId,
			"bufferSize", s.config.BufferSize)
	}
}

func shard(game string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(game))
	return int(h.Sum32() % uint32(n))
}

// worker 工作协程
func (s *ActionSubscriber) worker(ctx context.Context, queue <-chan job) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-queue:
			if !ok {
				return
			}
			resp := s.handler.HandleGameRequest(ctx, j.req)
			s.respond(j.reply, resp)
		}
	}
}

// respond 有应答地址时回复
func (s *ActionSubscriber) respond(reply string, resp *proto.GameResponse) {
	if reply == "" || resp == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("Failed to marshal game response", "error", err)
		return
	}
	if err := s.nc.Publish(reply, data); err != nil {
		s.logger.Warn("Failed to reply", "reqId", resp.ReqId, "error", err)
	}
}

// Stop 停止订阅
func (s *ActionSubscriber) Stop() error {
	if s.subscription != nil {
		if err := s.subscription.Unsubscribe(); err != nil {
			s.logger.Error("Failed to unsubscribe", "error", err)
		}
	}

	if s.cancelFunc != nil {
		s.cancelFunc()
	}

	s.wg.Wait()

	s.logger.Info("NATS subscriber stopped")
	return nil
}
