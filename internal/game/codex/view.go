package codex

import (
	"sudooom.codex.logic/internal/game/card"
	"sudooom.codex.logic/internal/game/core"
)

// View 游戏状态的只读快照，可直接序列化下发给客户端
type View struct {
	Name                     string          `json:"name"`
	Version                  uint64          `json:"version"` // 由持有游戏的会话填写
	Phase                    Phase           `json:"phase"`
	PausedFrom               Phase           `json:"pausedFrom,omitempty"`
	PlayerCount              int             `json:"playerCount"`
	CurrentPlayer            string          `json:"currentPlayer,omitempty"`
	Players                  []PlayerView    `json:"players"`
	FieldResources           []CardView      `json:"fieldResources"`
	FieldGolds               []CardView      `json:"fieldGolds"`
	ResourceDeck             DeckView        `json:"resourceDeck"`
	GoldDeck                 DeckView        `json:"goldDeck"`
	CommonObjectives         []ObjectiveView `json:"commonObjectives"`
	LastRound                bool            `json:"lastRound"`
	RemainingRoundsToEndGame int             `json:"remainingRoundsToEndGame"`
	Winners                  []string        `json:"winners,omitempty"`
}

// PlayerView 玩家快照
type PlayerView struct {
	Name             string           `json:"name"`
	Color            core.PawnColor   `json:"color,omitempty"`
	Connected        bool             `json:"connected"`
	Score            int              `json:"score"`
	PlacedCards      int              `json:"placedCards"`
	Hand             []CardView       `json:"hand"`
	Starter          *CardView        `json:"starter,omitempty"`
	ObjectiveChoices []ObjectiveView  `json:"objectiveChoices,omitempty"`
	Objective        *ObjectiveView   `json:"objective,omitempty"`
	Board            []PlacedCardView `json:"board"`
	Items            core.ItemStore   `json:"items"`
	Final            *FinalScore      `json:"final,omitempty"`
}

// CardView 卡牌快照
type CardView struct {
	ID      int           `json:"id"`
	Kind    card.Kind     `json:"kind"`
	Color   core.Color    `json:"color"`
	Flipped bool          `json:"flipped"`
	Side    card.SideKind `json:"side"`
}

// PlacedCardView 棋盘上的卡牌
type PlacedCardView struct {
	CardView
	Coordinate     core.Coordinate       `json:"coordinate"`
	PlacementIndex int                   `json:"placementIndex"`
	Covered        []core.CornerPosition `json:"covered,omitempty"`
}

// ObjectiveView 目标卡快照
type ObjectiveView struct {
	ID        int                `json:"id"`
	Kind      card.ObjectiveKind `json:"kind"`
	PointsWon int                `json:"pointsWon"`
}

// DeckView 牌堆快照，卡背公开所以可见堆顶颜色
type DeckView struct {
	Remaining int        `json:"remaining"`
	Top       core.Color `json:"top,omitempty"`
}

// View 生成当前快照
func (g *Game) View() View {
	v := View{
		Name:                     g.name,
		Phase:                    g.phase,
		PausedFrom:               g.pausedFrom,
		PlayerCount:              g.playerCount,
		FieldResources:           fieldView(g.fieldResource),
		FieldGolds:               fieldView(g.fieldGold),
		ResourceDeck:             deckView(g.resources),
		GoldDeck:                 deckView(g.golds),
		LastRound:                g.lastRound,
		RemainingRoundsToEndGame: g.remainingRounds,
		Winners:                  g.Winners(),
	}
	if p := g.CurrentPlayer(); p != nil {
		v.CurrentPlayer = p.name
	}
	for _, o := range g.common {
		v.CommonObjectives = append(v.CommonObjectives, objectiveView(o))
	}
	for _, p := range g.players {
		v.Players = append(v.Players, playerView(p))
	}
	return v
}

func playerView(p *Player) PlayerView {
	pv := PlayerView{
		Name:        p.name,
		Color:       p.color,
		Connected:   p.connected,
		Score:       p.score,
		PlacedCards: p.placedCards,
		Hand:        make([]CardView, 0, len(p.hand)),
		Board:       make([]PlacedCardView, 0, p.board.Len()),
		Items:       p.board.Items(),
	}
	for _, c := range p.hand {
		pv.Hand = append(pv.Hand, cardView(c))
	}
	if p.starter != nil && !p.starter.IsPlaced() {
		sv := cardView(p.starter)
		pv.Starter = &sv
	}
	for _, o := range p.choices {
		pv.ObjectiveChoices = append(pv.ObjectiveChoices, objectiveView(o))
	}
	if p.objective != nil {
		ov := objectiveView(p.objective)
		pv.Objective = &ov
	}
	for _, pl := range p.board.Placements() {
		pcv := PlacedCardView{
			CardView:       cardView(pl.Card),
			Coordinate:     pl.Coordinate,
			PlacementIndex: pl.Card.PlacementIndex(),
		}
		for _, pos := range core.CornerPositions {
			if pl.Card.IsCovered(pos) {
				pcv.Covered = append(pcv.Covered, pos)
			}
		}
		pv.Board = append(pv.Board, pcv)
	}
	if p.final != nil {
		fs := *p.final
		pv.Final = &fs
	}
	return pv
}

func cardView(c *card.Card) CardView {
	return CardView{
		ID:      c.ID(),
		Kind:    c.Kind(),
		Color:   c.Color(),
		Flipped: c.IsFlipped(),
		Side:    c.Current().Kind(),
	}
}

func objectiveView(o card.Objective) ObjectiveView {
	return ObjectiveView{ID: o.ID(), Kind: o.Kind(), PointsWon: o.PointsWon()}
}

func fieldView(slots [fieldSlots]*card.Card) []CardView {
	out := make([]CardView, 0, fieldSlots)
	for _, c := range slots {
		if c != nil {
			out = append(out, cardView(c))
		}
	}
	return out
}

func deckView(d *Deck[*card.Card]) DeckView {
	dv := DeckView{Remaining: d.Len()}
	if top, ok := d.Peek(); ok {
		dv.Top = top.Color()
	}
	return dv
}
