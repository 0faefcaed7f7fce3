package game

import (
	"sync"
	"time"

	"sudooom.codex.logic/internal/game/codex"
	"sudooom.codex.logic/internal/game/core"
)

// Session 一局游戏的并发安全包装
// 所有动作在同一把锁内执行，同一局游戏的请求因此串行化
type Session struct {
	mu sync.Mutex

	// syncMu 串行化同一局的视图发布与保存，保证送出的版本单调递增
	syncMu    sync.Mutex
	published uint64

	game       *codex.Game
	createdAt  time.Time
	lastActive time.Time
	finishedAt time.Time
	version    uint64 // 每次成功动作加一
	dirty      bool   // 视图有未保存的修改
	archived   bool   // 结果已归档

	now func() time.Time
}

// Summary 大厅列表中的一局游戏
type Summary struct {
	Name        string      `json:"name"`
	Phase       codex.Phase `json:"phase"`
	PlayerCount int         `json:"playerCount"`
	Joined      int         `json:"joined"`
	CreatedAt   time.Time   `json:"createdAt"`
}

func newSession(g *codex.Game, now func() time.Time) *Session {
	t := now()
	return &Session{
		game:       g,
		createdAt:  t,
		lastActive: t,
		version:    1,
		dirty:      true,
		now:        now,
	}
}

// Name 游戏名称，创建后不变
func (s *Session) Name() string {
	return s.game.Name()
}

// apply 在锁内执行动作，成功后更新活跃时间
// 失败的动作不修改游戏状态，也不算活跃
func (s *Session) apply(fn func(g *codex.Game) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.game); err != nil {
		return err
	}
	s.touch()
	return nil
}

func (s *Session) touch() {
	s.version++
	s.dirty = true
	s.lastActive = s.now()
	if s.game.IsOver() && s.finishedAt.IsZero() {
		s.finishedAt = s.lastActive
	}
}

// Join 加入或重连
func (s *Session) Join(name string) error {
	return s.apply(func(g *codex.Game) error {
		return g.Join(name)
	})
}

// ChooseColor 选择棋子颜色
func (s *Session) ChooseColor(player string, color core.PawnColor) error {
	return s.apply(func(g *codex.Game) error {
		return g.ChooseColor(player, color)
	})
}

// PlaceCard 放置卡牌，flipped 为 true 时放置背面
func (s *Session) PlaceCard(player string, at core.Coordinate, cardID int, flipped bool) error {
	return s.apply(func(g *codex.Game) error {
		return g.PlaceCard(player, at, cardID, flipped)
	})
}

// DrawFromField 从公共区抽牌
func (s *Session) DrawFromField(player string, cardID int) error {
	return s.apply(func(g *codex.Game) error {
		return g.DrawFromField(player, cardID)
	})
}

// DrawFromResourceDeck 从资源牌堆抽牌
func (s *Session) DrawFromResourceDeck(player string) error {
	return s.apply(func(g *codex.Game) error {
		return g.DrawFromResourceDeck(player)
	})
}

// DrawFromGoldDeck 从金卡牌堆抽牌
func (s *Session) DrawFromGoldDeck(player string) error {
	return s.apply(func(g *codex.Game) error {
		return g.DrawFromGoldDeck(player)
	})
}

// SwitchCardSide 翻转手牌或未放置的起始卡
func (s *Session) SwitchCardSide(player string, cardID int) error {
	return s.apply(func(g *codex.Game) error {
		return g.SwitchCardSide(player, cardID)
	})
}

// SetObjective 选择私人目标
func (s *Session) SetObjective(player string, objectiveID int) error {
	return s.apply(func(g *codex.Game) error {
		return g.SetObjective(player, objectiveID)
	})
}

// SetConnectionStatus 更新连接状态
func (s *Session) SetConnectionStatus(player string, connected bool) error {
	return s.apply(func(g *codex.Game) error {
		return g.SetConnectionStatus(player, connected)
	})
}

// View 当前视图快照，带上当前版本号
func (s *Session) View() codex.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) view() codex.View {
	v := s.game.View()
	v.Version = s.version
	return v
}

// Publish 取最新视图交给 fn，同一局的 Publish 与 Persist 串行执行
// 版本不高于已发布版本时不调用 fn，旧视图因此不会在新视图之后送出
func (s *Session) Publish(fn func(view codex.View)) codex.View {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	view := s.View()
	if view.Version > s.published {
		fn(view)
		s.published = view.Version
	}
	return view
}

// Persist 保存最新视图，成功且期间没有新动作时标记为已保存
func (s *Session) Persist(save func(view codex.View) error) error {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	view := s.View()
	if err := save(view); err != nil {
		return err
	}
	s.MarkClean(view.Version)
	return nil
}

// Summary 列表摘要
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		Name:        s.game.Name(),
		Phase:       s.game.Phase(),
		PlayerCount: s.game.PlayerCount(),
		Joined:      len(s.game.Players()),
		CreatedAt:   s.createdAt,
	}
}

// HasPlayer 玩家是否已加入该局
func (s *Session) HasPlayer(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.game.Player(name)
	return ok
}

// IsOver 游戏是否结束
func (s *Session) IsOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.IsOver()
}

// TakeResult 游戏结束后返回最终视图，每局只返回一次
func (s *Session) TakeResult() (codex.View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.game.IsOver() || s.archived {
		return codex.View{}, false
	}
	s.archived = true
	return s.view(), true
}

// IsDirty 是否有未保存的修改
func (s *Session) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// MarkClean 标记 version 版本已保存，之后又有新动作时仍保持未保存
func (s *Session) MarkClean(version uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version == s.version {
		s.dirty = false
	}
}

// LastActiveTime 最后一次成功动作的时间
func (s *Session) LastActiveTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// FinishedAt 游戏结束时间，未结束时为零值
func (s *Session) FinishedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishedAt
}
