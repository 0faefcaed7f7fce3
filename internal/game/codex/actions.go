package codex

import (
	"sudooom.codex.logic/internal/game/card"
	"sudooom.codex.logic/internal/game/core"
)

// PlaceCard 放置卡牌
// 开局阶段放置起始卡，游戏阶段放置手牌；flipped 为 true 时以背面放置
func (g *Game) PlaceCard(name string, at core.Coordinate, cardID int, flipped bool) error {
	p, err := g.actor(name, PhaseInitPlaceStarterCard, PhasePlaceCard)
	if err != nil {
		return err
	}

	if g.phase == PhaseInitPlaceStarterCard {
		if p.starter == nil || p.starter.ID() != cardID {
			return core.ErrUnknownCard.WithContext("card", cardID)
		}
		if _, err := g.placeOnBoard(p, p.starter, at, flipped); err != nil {
			return err
		}
		g.dealHand(p)
		g.setPhase(PhaseInitChoosePlayerColor)
		return nil
	}

	c, ok := p.handCard(cardID)
	if !ok {
		return core.ErrUnknownCard.WithContext("card", cardID)
	}
	points, err := g.placeOnBoard(p, c, at, flipped)
	if err != nil {
		return err
	}

	p.removeFromHand(cardID)
	p.placedCards++
	p.score += points
	g.logger.Debug("Card placed", "player", name, "card", cardID, "coordinate", at, "points", points, "score", p.score)

	if p.score >= g.rules.WinningScore {
		g.triggerLastRound("score")
	}

	if g.hasDrawSource() {
		g.setPhase(PhaseDrawCard)
	} else {
		g.endTurn()
	}
	g.stabilize()
	return nil
}

// placeOnBoard 以指定朝向放置，失败时恢复原朝向
func (g *Game) placeOnBoard(p *Player, c *card.Card, at core.Coordinate, flipped bool) (int, error) {
	prev := c.IsFlipped()
	c.SetFlipped(flipped)
	points, err := p.board.Place(at, c)
	if err != nil {
		c.SetFlipped(prev)
		return 0, err
	}
	return points, nil
}

// dealHand 起始卡放好后发 2 张资源卡和 1 张金卡
func (g *Game) dealHand(p *Player) {
	for range 2 {
		if c, ok := g.resources.Draw(); ok {
			p.hand = append(p.hand, c)
		}
	}
	if c, ok := g.golds.Draw(); ok {
		p.hand = append(p.hand, c)
	}
}

// ChooseColor 选择棋子颜色
func (g *Game) ChooseColor(name string, color core.PawnColor) error {
	p, err := g.actor(name, PhaseInitChoosePlayerColor)
	if err != nil {
		return err
	}
	if !color.IsValid() || g.colorTaken(color) {
		return core.ErrInvalidColor.WithContext("color", string(color))
	}

	p.color = color
	g.setPhase(PhaseInitChooseObjectiveCard)
	return nil
}

func (g *Game) colorTaken(color core.PawnColor) bool {
	for _, p := range g.players {
		if p.color == color {
			return true
		}
	}
	return false
}

// SetObjective 从两张可选目标中确定一张
func (g *Game) SetObjective(name string, objectiveID int) error {
	p, err := g.actor(name, PhaseInitChooseObjectiveCard)
	if err != nil {
		return err
	}
	o, ok := p.choice(objectiveID)
	if !ok {
		return core.ErrInvalidObjective.WithContext("objective", objectiveID)
	}

	p.objective = o
	p.choices = nil
	g.finishInit(p)
	g.stabilize()
	return nil
}

// DrawFromField 从公共区抽卡，空出的位置由同类牌堆补充
func (g *Game) DrawFromField(name string, cardID int) error {
	p, err := g.actor(name, PhaseDrawCard)
	if err != nil {
		return err
	}

	slot, ok := g.fieldSlot(cardID)
	if !ok {
		return core.ErrUnknownCard.WithContext("card", cardID)
	}
	if p.handFull() {
		return core.ErrHandFull.WithContext("player", name)
	}

	c := *slot
	*slot = nil
	p.hand = append(p.hand, c)
	g.refill(slot, c.Kind())
	g.afterDraw(p, "field")
	return nil
}

// DrawFromResourceDeck 从资源牌堆抽卡
func (g *Game) DrawFromResourceDeck(name string) error {
	return g.drawFromDeck(name, g.resources, "resourceDeck")
}

// DrawFromGoldDeck 从金卡牌堆抽卡
func (g *Game) DrawFromGoldDeck(name string) error {
	return g.drawFromDeck(name, g.golds, "goldDeck")
}

func (g *Game) drawFromDeck(name string, deck *Deck[*card.Card], source string) error {
	p, err := g.actor(name, PhaseDrawCard)
	if err != nil {
		return err
	}
	if deck.IsEmpty() {
		return core.ErrInvalidDrawSource.WithContext("source", source)
	}
	if p.handFull() {
		return core.ErrHandFull.WithContext("player", name)
	}

	c, _ := deck.Draw()
	p.hand = append(p.hand, c)
	g.afterDraw(p, source)
	return nil
}

func (g *Game) afterDraw(p *Player, source string) {
	g.logger.Debug("Card drawn", "player", p.name, "source", source, "hand", len(p.hand))
	if g.decksEmpty() {
		g.triggerLastRound("decks")
	}
	g.endTurn()
	g.stabilize()
}

// fieldSlot 查找公共区中的卡所在位置
func (g *Game) fieldSlot(cardID int) (**card.Card, bool) {
	for i := range fieldSlots {
		if c := g.fieldResource[i]; c != nil && c.ID() == cardID {
			return &g.fieldResource[i], true
		}
		if c := g.fieldGold[i]; c != nil && c.ID() == cardID {
			return &g.fieldGold[i], true
		}
	}
	return nil, false
}

// refill 先用同类牌堆补位，同类为空时用另一类
func (g *Game) refill(slot **card.Card, kind card.Kind) {
	primary, secondary := g.resources, g.golds
	if kind == card.KindGold {
		primary, secondary = g.golds, g.resources
	}
	if c, ok := primary.Draw(); ok {
		*slot = c
		return
	}
	if c, ok := secondary.Draw(); ok {
		*slot = c
	}
}

// SwitchCardSide 翻转手牌（或尚未放置的起始卡），不受回合限制
func (g *Game) SwitchCardSide(name string, cardID int) error {
	p, ok := g.Player(name)
	if !ok {
		return core.ErrUnknownPlayer.WithContext("player", name)
	}
	if g.phase == PhaseGameOver {
		return core.ErrInvalidPhaseForAction.WithContext("phase", string(g.phase))
	}

	if c, ok := p.handCard(cardID); ok {
		c.Flip()
		return nil
	}
	if p.starter != nil && p.starter.ID() == cardID && !p.starter.IsPlaced() {
		p.starter.Flip()
		return nil
	}
	return core.ErrUnknownCard.WithContext("card", cardID)
}

// SetConnectionStatus 连接状态变化
// 断线不是错误：当前玩家断线时自动完成其动作，仅剩一人在线时暂停
func (g *Game) SetConnectionStatus(name string, connected bool) error {
	p, ok := g.Player(name)
	if !ok {
		return core.ErrUnknownPlayer.WithContext("player", name)
	}
	if p.connected == connected {
		return nil
	}

	p.connected = connected
	g.logger.Info("Connection status changed", "player", name, "connected", connected, "phase", g.phase)

	if g.phase == PhasePaused {
		if g.connectedCount() >= 2 {
			g.resume()
		}
		return nil
	}
	g.stabilize()
	return nil
}
