package nats

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"sudooom.codex.logic/pkg/proto"
)

// ViewPublisher 游戏视图发布器
type ViewPublisher struct {
	nc     *nats.Conn
	logger *slog.Logger
}

// NewViewPublisher 创建视图发布器
func NewViewPublisher(nc *nats.Conn) *ViewPublisher {
	return &ViewPublisher{
		nc:     nc,
		logger: slog.Default().With("component", "ViewPublisher"),
	}
}

// PublishView 推送视图到 codex.game.{name}.view
func (p *ViewPublisher) PublishView(game, phase string, version uint64, view json.RawMessage) error {
	push := proto.ViewPush{
		Game:      game,
		Phase:     phase,
		Version:   version,
		View:      view,
		Timestamp: time.Now().UnixMilli(),
	}
	data, err := json.Marshal(push)
	if err != nil {
		p.logger.Error("Failed to marshal view push", "game", game, "error", err)
		return err
	}

	subject := proto.BuildGameViewSubject(game)
	if err := p.nc.Publish(subject, data); err != nil {
		p.logger.Error("Failed to publish view", "game", game, "error", err)
		return err
	}

	p.logger.Debug("Published view", "game", game, "subject", subject, "phase", phase, "version", version)
	return nil
}
