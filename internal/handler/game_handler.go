package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"sudooom.codex.logic/internal/game"
	"sudooom.codex.logic/internal/game/codex"
	"sudooom.codex.logic/internal/game/core"
	"sudooom.codex.logic/internal/store"
	"sudooom.codex.logic/pkg/proto"
)

// ErrUnknownAction 未知的动作类型
var ErrUnknownAction = core.NewGameError(core.KindValidation, "UNKNOWN_ACTION", "未知的动作类型")

// ViewPublisher 视图推送
type ViewPublisher interface {
	PublishView(game, phase string, version uint64, view json.RawMessage) error
}

// SnapshotStore 视图快照存储
type SnapshotStore interface {
	Save(ctx context.Context, view codex.View) error
	Delete(ctx context.Context, name string) error
}

// ResultArchive 结束结果归档
type ResultArchive interface {
	Archive(ctx context.Context, r store.Result) error
}

// HeartbeatTracker 心跳监控
type HeartbeatTracker interface {
	Beat(game, player string)
	Forget(game, player string)
	ForgetGame(game string)
}

// GameHandler 把传输层请求映射到游戏操作
// 每次动作成功后推送视图、写入快照，游戏结束时归档一次结果
type GameHandler struct {
	manager   *game.GameManager
	publisher ViewPublisher
	snapshots SnapshotStore
	archive   ResultArchive
	liveness  HeartbeatTracker
	logger    *slog.Logger
}

// NewGameHandler 创建游戏请求处理器
func NewGameHandler(
	manager *game.GameManager,
	publisher ViewPublisher,
	snapshots SnapshotStore,
	archive ResultArchive,
	liveness HeartbeatTracker,
) *GameHandler {
	return &GameHandler{
		manager:   manager,
		publisher: publisher,
		snapshots: snapshots,
		archive:   archive,
		liveness:  liveness,
		logger:    slog.Default().With("component", "GameHandler"),
	}
}

// HandleGameRequest 处理一条动作请求
func (h *GameHandler) HandleGameRequest(ctx context.Context, req *proto.GameRequest) *proto.GameResponse {
	h.logger.Debug("Game request received",
		"reqId", req.ReqId,
		"game", req.Game,
		"player", req.Player,
		"action", req.Action)

	resp := &proto.GameResponse{
		ReqId:      req.ReqId,
		ResponseId: uuid.NewString(),
		Game:       req.Game,
	}

	s, err := h.manager.Get(req.Game)
	if err != nil {
		return withError(resp, err)
	}

	switch req.Action {
	case proto.ActionHeartbeat:
		if !s.HasPlayer(req.Player) {
			return withError(resp, core.ErrUnknownPlayer.WithContext("player", req.Player))
		}
		if !s.IsOver() {
			h.liveness.Beat(req.Game, req.Player)
		}
		resp.Ok = true
		return resp
	case proto.ActionView:
		resp.View = h.marshal(s.View())
		resp.Ok = true
		return resp
	}

	if err := apply(s, req); err != nil {
		h.logger.Debug("Game action rejected",
			"game", req.Game,
			"player", req.Player,
			"action", req.Action,
			"code", core.CodeOf(err))
		return withError(resp, err)
	}

	switch {
	case req.Action == proto.ActionJoin, req.Action == proto.ActionConnection && req.Connected:
		h.liveness.Beat(req.Game, req.Player)
	case req.Action == proto.ActionConnection:
		h.liveness.Forget(req.Game, req.Player)
	}

	resp.View = h.Sync(ctx, s)
	resp.Ok = true
	return resp
}

// apply 执行动作
func apply(s *game.Session, req *proto.GameRequest) error {
	switch req.Action {
	case proto.ActionJoin:
		return s.Join(req.Player)
	case proto.ActionChooseColor:
		return s.ChooseColor(req.Player, core.PawnColor(strings.ToUpper(req.Color)))
	case proto.ActionPlaceCard:
		return s.PlaceCard(req.Player, core.Coordinate{X: req.X, Y: req.Y}, req.CardId, req.Flipped)
	case proto.ActionDrawFromField:
		return s.DrawFromField(req.Player, req.CardId)
	case proto.ActionDrawResourceDeck:
		return s.DrawFromResourceDeck(req.Player)
	case proto.ActionDrawGoldDeck:
		return s.DrawFromGoldDeck(req.Player)
	case proto.ActionSwitchCardSide:
		return s.SwitchCardSide(req.Player, req.CardId)
	case proto.ActionSetObjective:
		return s.SetObjective(req.Player, req.CardId)
	case proto.ActionConnection:
		return s.SetConnectionStatus(req.Player, req.Connected)
	default:
		return ErrUnknownAction.WithContext("action", string(req.Action))
	}
}

// Sync 推送并保存最新视图，游戏结束时归档结果
// 同一局的推送按版本递增送出，推送和保存失败只记录日志，不影响已经生效的动作
func (h *GameHandler) Sync(ctx context.Context, s *game.Session) json.RawMessage {
	var data json.RawMessage
	view := s.Publish(func(view codex.View) {
		data = h.marshal(view)
		if err := h.publisher.PublishView(view.Name, string(view.Phase), view.Version, data); err != nil {
			h.logger.Warn("Failed to publish view", "game", view.Name, "version", view.Version, "error", err)
		}
		if err := h.snapshots.Save(ctx, view); err != nil {
			h.logger.Warn("Failed to save snapshot", "game", view.Name, "version", view.Version, "error", err)
			return
		}
		s.MarkClean(view.Version)
	})
	if data == nil {
		data = h.marshal(view)
	}

	if result, ok := s.TakeResult(); ok {
		h.liveness.ForgetGame(result.Name)
		r := store.NewResult(result, s.FinishedAt())
		if err := h.archive.Archive(ctx, r); err != nil {
			h.logger.Error("Failed to archive game result", "game", result.Name, "error", err)
		} else {
			h.logger.Info("Game result archived", "game", result.Name, "winners", result.Winners)
		}
	}
	return data
}

// Flush 写入快照，成功后标记为已保存
func (h *GameHandler) Flush(ctx context.Context, s *game.Session) {
	err := s.Persist(func(view codex.View) error {
		return h.snapshots.Save(ctx, view)
	})
	if err != nil {
		h.logger.Warn("Failed to save snapshot", "game", s.Name(), "error", err)
	}
}

// HandleHeartbeatTimeout 心跳超时视为断线
func (h *GameHandler) HandleHeartbeatTimeout(ctx context.Context, name, player string) {
	s, err := h.manager.Get(name)
	if err != nil {
		return
	}
	if err := s.SetConnectionStatus(player, false); err != nil {
		h.logger.Warn("Failed to disconnect timed out player", "game", name, "player", player, "error", err)
		return
	}
	h.logger.Info("Player disconnected by heartbeat timeout", "game", name, "player", player)
	h.Sync(ctx, s)
}

// Remove 删除游戏及其快照
func (h *GameHandler) Remove(ctx context.Context, name string) error {
	if err := h.manager.Delete(name); err != nil {
		return err
	}
	h.liveness.ForgetGame(name)
	if err := h.snapshots.Delete(ctx, name); err != nil {
		h.logger.Warn("Failed to delete snapshot", "game", name, "error", err)
	}
	return nil
}

func (h *GameHandler) marshal(view codex.View) json.RawMessage {
	data, err := json.Marshal(view)
	if err != nil {
		h.logger.Error("Failed to marshal view", "game", view.Name, "error", err)
		return nil
	}
	return data
}

// ErrorBody 把错误转换为 {code, kind, message}
func ErrorBody(err error) *proto.ErrorBody {
	var ge *core.GameError
	if errors.As(err, &ge) {
		return &proto.ErrorBody{Code: ge.Code, Kind: string(ge.Kind), Message: ge.Message}
	}
	return &proto.ErrorBody{Code: "INTERNAL", Kind: "INTERNAL", Message: err.Error()}
}

func withError(resp *proto.GameResponse, err error) *proto.GameResponse {
	resp.Ok = false
	resp.Error = ErrorBody(err)
	return resp
}
