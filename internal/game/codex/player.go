package codex

import (
	"slices"

	"sudooom.codex.logic/internal/game/board"
	"sudooom.codex.logic/internal/game/card"
	"sudooom.codex.logic/internal/game/core"
)

// Player 玩家
type Player struct {
	name        string
	color       core.PawnColor
	connected   bool
	score       int
	handSize    int
	hand        []*card.Card
	starter     *card.Card
	choices     []card.Objective // 可选目标，选定后清空
	objective   card.Objective
	board       *board.Board
	placedCards int
	initDone    bool
	final       *FinalScore
}

func newPlayer(name string, handSize int) *Player {
	return &Player{
		name:      name,
		connected: true,
		handSize:  handSize,
		board:     board.New(),
	}
}

func (p *Player) Name() string              { return p.name }
func (p *Player) Color() core.PawnColor     { return p.color }
func (p *Player) IsConnected() bool         { return p.connected }
func (p *Player) Score() int                { return p.score }
func (p *Player) Board() *board.Board       { return p.board }
func (p *Player) Objective() card.Objective { return p.objective }
func (p *Player) PlacedCards() int          { return p.placedCards }

// Hand 手牌副本
func (p *Player) Hand() []*card.Card {
	return slices.Clone(p.hand)
}

// addToHand 加入手牌，超过上限返回 ErrHandFull
func (p *Player) addToHand(c *card.Card) error {
	if len(p.hand) >= p.handSize {
		return core.ErrHandFull.WithContext("player", p.name)
	}
	p.hand = append(p.hand, c)
	return nil
}

func (p *Player) handFull() bool {
	return len(p.hand) >= p.handSize
}

func (p *Player) handCard(id int) (*card.Card, bool) {
	for _, c := range p.hand {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

func (p *Player) removeFromHand(id int) {
	p.hand = slices.DeleteFunc(p.hand, func(c *card.Card) bool { return c.ID() == id })
}

func (p *Player) choice(id int) (card.Objective, bool) {
	for _, o := range p.choices {
		if o.ID() == id {
			return o, true
		}
	}
	return nil, false
}

// missing 初始化步骤是否仍未完成
func (p *Player) missing(step initStep) bool {
	switch step {
	case stepPlaceStarter:
		return p.board.Starter() == nil
	case stepChooseColor:
		return p.color == core.PawnUnset
	default:
		return p.objective == nil
	}
}

// FinalScore 终局得分明细
type FinalScore struct {
	TrackPoints         int `json:"trackPoints"`
	ObjectivePoints     int `json:"objectivePoints"`
	ObjectivesCompleted int `json:"objectivesCompleted"`
	Total               int `json:"total"`
}
