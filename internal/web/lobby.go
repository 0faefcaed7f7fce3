package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sudooom.codex.logic/internal/game"
	"sudooom.codex.logic/internal/game/codex"
	"sudooom.codex.logic/internal/store"
	"sudooom.codex.logic/internal/web/response"
	"sudooom.codex.logic/pkg/proto"
)

// GameService 动作处理，与 NATS 请求走同一条路径
type GameService interface {
	HandleGameRequest(ctx context.Context, req *proto.GameRequest) *proto.GameResponse
	Sync(ctx context.Context, s *game.Session) json.RawMessage
	Remove(ctx context.Context, name string) error
}

// ResultLister 已结束游戏查询
type ResultLister interface {
	Recent(ctx context.Context, limit int) ([]store.Result, error)
}

// CreateGameRequest 创建游戏
type CreateGameRequest struct {
	Name        string `json:"name" binding:"required,max=64"`
	PlayerCount int    `json:"playerCount" binding:"required"`
	Founder     string `json:"founder" binding:"required,max=32"`
}

// JoinGameRequest 加入游戏
type JoinGameRequest struct {
	Player string `json:"player" binding:"required,max=32"`
}

// LobbyHandler 大厅接口
type LobbyHandler struct {
	manager *game.GameManager
	games   GameService
	results ResultLister
	tokens  *TokenService
	logger  *slog.Logger
}

// NewLobbyHandler 创建大厅处理器
func NewLobbyHandler(manager *game.GameManager, games GameService, results ResultLister, tokens *TokenService) *LobbyHandler {
	return &LobbyHandler{
		manager: manager,
		games:   games,
		results: results,
		tokens:  tokens,
		logger:  slog.Default().With("component", "LobbyHandler"),
	}
}

// Create 创建游戏，创建者自动加入并获得 token
// POST /api/v1/games
func (h *LobbyHandler) Create(c *gin.Context) {
	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	founder := strings.TrimSpace(req.Founder)
	if name == "" || founder == "" {
		response.InvalidParams(c, "name and founder must not be blank")
		return
	}

	s, err := h.manager.Create(name, req.PlayerCount, founder)
	if err != nil {
		response.Error(c, err)
		return
	}
	view := h.games.Sync(c.Request.Context(), s)

	token, err := h.tokens.Issue(name, founder)
	if err != nil {
		h.logger.Error("Failed to issue token", "game", name, "player", founder, "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"game": s.Summary(), "view": view, "token": token})
}

// List 游戏列表
// GET /api/v1/games
func (h *LobbyHandler) List(c *gin.Context) {
	list := h.manager.List()
	if list == nil {
		list = []game.Summary{}
	}
	response.Success(c, gin.H{"list": list})
}

// Join 加入或重连
// POST /api/v1/games/:name/join
func (h *LobbyHandler) Join(c *gin.Context) {
	var req JoinGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err.Error())
		return
	}
	name := c.Param("name")
	player := strings.TrimSpace(req.Player)
	if player == "" {
		response.InvalidParams(c, "player must not be blank")
		return
	}

	resp := h.games.HandleGameRequest(c.Request.Context(), &proto.GameRequest{
		ReqId:  uuid.NewString(),
		Game:   name,
		Player: player,
		Action: proto.ActionJoin,
	})
	if !resp.Ok {
		response.Body(c, resp.Error)
		return
	}

	token, err := h.tokens.Issue(name, player)
	if err != nil {
		h.logger.Error("Failed to issue token", "game", name, "player", player, "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"view": resp.View, "token": token})
}

// View 游戏视图，仅限该局玩家
// GET /api/v1/games/:name
func (h *LobbyHandler) View(c *gin.Context) {
	view, ok := h.memberView(c)
	if !ok {
		return
	}
	response.Success(c, view)
}

// Delete 删除游戏，仅限该局玩家
// DELETE /api/v1/games/:name
func (h *LobbyHandler) Delete(c *gin.Context) {
	if _, ok := h.memberView(c); !ok {
		return
	}
	name := c.Param("name")
	if err := h.games.Remove(c.Request.Context(), name); err != nil {
		response.Error(c, err)
		return
	}
	h.logger.Info("Game deleted", "game", name, "by", PlayerFrom(c))
	response.Success(c, gin.H{"name": name})
}

// memberView 取视图并确认调用者是该局玩家，失败时已写好响应
func (h *LobbyHandler) memberView(c *gin.Context) (codex.View, bool) {
	resp := h.games.HandleGameRequest(c.Request.Context(), &proto.GameRequest{
		ReqId:  uuid.NewString(),
		Game:   c.Param("name"),
		Player: PlayerFrom(c),
		Action: proto.ActionView,
	})
	if !resp.Ok {
		response.Body(c, resp.Error)
		return codex.View{}, false
	}

	var view codex.View
	if err := json.Unmarshal(resp.View, &view); err != nil {
		response.Error(c, err)
		return codex.View{}, false
	}
	player := PlayerFrom(c)
	if !slices.ContainsFunc(view.Players, func(p codex.PlayerView) bool { return p.Name == player }) {
		response.Forbidden(c)
		return codex.View{}, false
	}
	return view, true
}

// Results 最近结束的游戏
// GET /api/v1/results?limit=20
func (h *LobbyHandler) Results(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		response.InvalidParams(c, "limit must be in 1..100")
		return
	}

	results, err := h.results.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to query results", "error", err)
		response.Error(c, err)
		return
	}
	if results == nil {
		results = []store.Result{}
	}
	response.Success(c, gin.H{"list": results})
}
