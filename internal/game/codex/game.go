package codex

import (
	"log/slog"

	"sudooom.codex.logic/internal/game/card"
	"sudooom.codex.logic/internal/game/core"
)

// Rules 对局规则参数
type Rules struct {
	MinPlayers   int
	MaxPlayers   int
	WinningScore int // 任一玩家达到该分数触发最后一轮
	GraceRounds  int // 最后一轮之后额外进行的轮数
	HandSize     int
}

// DefaultRules 默认规则
func DefaultRules() Rules {
	return Rules{
		MinPlayers:   2,
		MaxPlayers:   4,
		WinningScore: 20,
		GraceRounds:  1,
		HandSize:     3,
	}
}

// Game 一局游戏的全部状态
// 非并发安全，由上层按局串行调用
type Game struct {
	name        string
	rules       Rules
	playerCount int
	players     []*Player

	phase      Phase
	pausedFrom Phase
	current    int

	starters      *Deck[*card.Card]
	resources     *Deck[*card.Card]
	golds         *Deck[*card.Card]
	objectives    *Deck[card.Objective]
	fieldResource [fieldSlots]*card.Card
	fieldGold     [fieldSlots]*card.Card
	common        []card.Objective

	lastRound       bool
	remainingRounds int
	winners         []string

	logger *slog.Logger
}

// NewGame 创建游戏，创建者自动加入
func NewGame(name string, playerCount int, founder string, decks Decks, rules Rules) (*Game, error) {
	if playerCount < rules.MinPlayers || playerCount > rules.MaxPlayers {
		return nil, core.ErrPlayerCountOutOfRange.
			WithContext("playerCount", playerCount).
			WithContext("min", rules.MinPlayers).
			WithContext("max", rules.MaxPlayers)
	}
	if err := decks.validate(playerCount); err != nil {
		return nil, err
	}

	g := &Game{
		name:        name,
		rules:       rules,
		playerCount: playerCount,
		phase:       PhaseWaitForPlayers,
		starters:    NewDeck(decks.Starters),
		resources:   NewDeck(decks.Resources),
		golds:       NewDeck(decks.Golds),
		objectives:  NewDeck(decks.Objectives),
		logger:      slog.Default().With("component", "Game", "game", name),
	}

	if err := g.Join(founder); err != nil {
		return nil, err
	}
	return g, nil
}

func errNotEnough(deck string, have, need int) error {
	return core.ErrInvalidCatalog.
		WithContext("deck", deck).
		WithContext("have", have).
		WithContext("need", need)
}

func (g *Game) Name() string      { return g.name }
func (g *Game) Phase() Phase      { return g.phase }
func (g *Game) PlayerCount() int  { return g.playerCount }
func (g *Game) IsOver() bool      { return g.phase == PhaseGameOver }
func (g *Game) IsLastRound() bool { return g.lastRound }

// Winners 获胜者，游戏结束前为空
func (g *Game) Winners() []string {
	return append([]string(nil), g.winners...)
}

// Players 按座位顺序返回玩家
func (g *Game) Players() []*Player {
	return append([]*Player(nil), g.players...)
}

// Player 按名称查找玩家
func (g *Game) Player(name string) (*Player, bool) {
	for _, p := range g.players {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

// CurrentPlayer 当前行动玩家，等待玩家阶段为 nil
func (g *Game) CurrentPlayer() *Player {
	if g.phase == PhaseWaitForPlayers || len(g.players) == 0 {
		return nil
	}
	return g.players[g.current]
}

// Join 加入游戏
// 已加入的名称在断线状态下再次加入视为重连
func (g *Game) Join(name string) error {
	if p, ok := g.Player(name); ok {
		if p.connected {
			return core.ErrDuplicatePlayerName.WithContext("player", name)
		}
		return g.SetConnectionStatus(name, true)
	}

	if g.phase != PhaseWaitForPlayers || len(g.players) >= g.playerCount {
		return core.ErrGameFull.WithContext("player", name)
	}

	g.players = append(g.players, newPlayer(name, g.rules.HandSize))
	g.logger.Info("Player joined", "player", name, "players", len(g.players), "playerCount", g.playerCount)

	if len(g.players) == g.playerCount {
		g.start()
	}
	return nil
}

// start 人数已满，发放公共区、公共目标、起始卡和可选目标
func (g *Game) start() {
	for i := range fieldSlots {
		g.fieldResource[i], _ = g.resources.Draw()
		g.fieldGold[i], _ = g.golds.Draw()
	}
	for range commonObjectiveCount {
		o, _ := g.objectives.Draw()
		g.common = append(g.common, o)
	}
	for _, p := range g.players {
		p.starter, _ = g.starters.Draw()
		for range objectiveChoiceCount {
			o, _ := g.objectives.Draw()
			p.choices = append(p.choices, o)
		}
	}

	g.current = 0
	g.setPhase(PhaseInitPlaceStarterCard)
	g.stabilize()
}

func (g *Game) setPhase(p Phase) {
	if g.phase == p {
		return
	}
	g.logger.Debug("Phase changed", "from", g.phase, "to", p)
	g.phase = p
}

// actor 校验玩家、阶段与回合
func (g *Game) actor(name string, phases ...Phase) (*Player, error) {
	p, ok := g.Player(name)
	if !ok {
		return nil, core.ErrUnknownPlayer.WithContext("player", name)
	}

	allowed := false
	for _, ph := range phases {
		if g.phase == ph {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, core.ErrInvalidPhaseForAction.
			WithContext("phase", string(g.phase)).
			WithContext("player", name)
	}

	if g.players[g.current] != p {
		return nil, core.ErrNotYourTurn.
			WithContext("player", name).
			WithContext("current", g.players[g.current].name)
	}
	return p, nil
}

func (g *Game) connectedCount() int {
	n := 0
	for _, p := range g.players {
		if p.connected {
			n++
		}
	}
	return n
}

// hasDrawSource 公共区或任一牌堆是否还有卡
func (g *Game) hasDrawSource() bool {
	if !g.resources.IsEmpty() || !g.golds.IsEmpty() {
		return true
	}
	for i := range fieldSlots {
		if g.fieldResource[i] != nil || g.fieldGold[i] != nil {
			return true
		}
	}
	return false
}

func (g *Game) decksEmpty() bool {
	return g.resources.IsEmpty() && g.golds.IsEmpty()
}
