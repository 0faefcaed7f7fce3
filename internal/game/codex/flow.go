package codex

import (
	"sudooom.codex.logic/internal/game/card"
	"sudooom.codex.logic/internal/game/core"
)

// stabilize 推进到需要在线玩家操作的状态
// 在线人数不足两人时暂停；当前玩家断线时自动完成其最小合法动作
func (g *Game) stabilize() {
	for g.phase.InProgress() {
		if g.connectedCount() < 2 {
			g.pause()
			return
		}
		p := g.players[g.current]
		if p.connected {
			return
		}
		g.autoComplete(p)
	}
}

// autoComplete 为断线的当前玩家完成本阶段动作，保证推进回合或阶段
func (g *Game) autoComplete(p *Player) {
	g.logger.Info("Auto completing turn", "player", p.name, "phase", g.phase)

	switch g.phase {
	case PhaseInitPlaceStarterCard, PhaseInitChoosePlayerColor, PhaseInitChooseObjectiveCard:
		g.completeInit(p, stepsFrom(g.phase))
		g.finishInit(p)
	case PhasePlaceCard:
		g.endTurn()
	case PhaseDrawCard:
		g.autoDraw(p)
		g.endTurn()
	}
}

// completeInit 依次执行剩余的初始化步骤，已完成的步骤跳过
func (g *Game) completeInit(p *Player, steps []initStep) {
	for _, step := range steps {
		if !p.missing(step) {
			continue
		}
		switch step {
		case stepPlaceStarter:
			if _, err := g.placeOnBoard(p, p.starter, core.Origin, false); err != nil {
				g.logger.Error("Auto placing starter failed", "player", p.name, "error", err)
				continue
			}
			g.dealHand(p)
		case stepChooseColor:
			for _, c := range core.PawnPalette {
				if !g.colorTaken(c) {
					p.color = c
					break
				}
			}
		case stepChooseObjective:
			if len(p.choices) > 0 {
				p.objective = p.choices[0]
				p.choices = nil
			}
		}
	}
}

// finishInit 玩家完成初始化后：交给下一位未初始化的在线玩家，
// 都完成时为其余玩家补全缺失项并进入放置阶段
func (g *Game) finishInit(p *Player) {
	p.initDone = true

	for i := 1; i <= len(g.players); i++ {
		idx := (g.current + i) % len(g.players)
		next := g.players[idx]
		if next.initDone || !next.connected {
			continue
		}
		g.current = idx
		for _, step := range initSteps {
			if next.missing(step) {
				g.setPhase(step.phase())
				break
			}
		}
		return
	}

	for _, other := range g.players {
		if !other.initDone {
			g.completeInit(other, initSteps)
			other.initDone = true
		}
	}
	g.current = g.firstConnected()
	g.setPhase(PhasePlaceCard)
	g.logger.Info("Initialization finished", "current", g.players[g.current].name)
}

func (g *Game) firstConnected() int {
	for i, p := range g.players {
		if p.connected {
			return i
		}
	}
	return 0
}

// autoDraw 按 资源牌堆 → 金卡牌堆 → 公共区资源卡 → 公共区金卡 的顺序抽第一张可用的卡
func (g *Game) autoDraw(p *Player) {
	if p.handFull() {
		return
	}
	for _, deck := range []*Deck[*card.Card]{g.resources, g.golds} {
		if c, ok := deck.Draw(); ok {
			p.hand = append(p.hand, c)
			return
		}
	}
	for _, row := range []*[fieldSlots]*card.Card{&g.fieldResource, &g.fieldGold} {
		for i := range row {
			if c := row[i]; c != nil {
				row[i] = nil
				p.hand = append(p.hand, c)
				g.refill(&row[i], c.Kind())
				return
			}
		}
	}
}

// endTurn 结束当前回合，轮到下一位在线玩家
// 最后一轮标记后，每回到首位在线玩家消耗一轮，轮数用尽时结束游戏
func (g *Game) endTurn() {
	g.checkEndCondition()

	next, wrapped := g.nextConnected()
	if wrapped && g.lastRound {
		if g.remainingRounds == 0 {
			g.finish()
			return
		}
		g.remainingRounds--
	}
	g.current = next
	g.setPhase(PhasePlaceCard)
}

// nextConnected 当前玩家之后的下一位在线玩家，wrapped 表示本轮已结束
func (g *Game) nextConnected() (int, bool) {
	n := len(g.players)
	for i := 1; i <= n; i++ {
		idx := (g.current + i) % n
		if g.players[idx].connected {
			return idx, idx <= g.current
		}
	}
	return g.current, true
}

func (g *Game) checkEndCondition() {
	for _, p := range g.players {
		if p.score >= g.rules.WinningScore {
			g.triggerLastRound("score")
			return
		}
	}
	if g.decksEmpty() {
		g.triggerLastRound("decks")
	}
}

func (g *Game) triggerLastRound(reason string) {
	if g.lastRound {
		return
	}
	g.lastRound = true
	g.remainingRounds = g.rules.GraceRounds
	g.logger.Info("Last round triggered", "reason", reason, "current", g.players[g.current].name)
}

func (g *Game) pause() {
	g.pausedFrom = g.phase
	g.setPhase(PhasePaused)
	g.logger.Info("Game paused", "from", g.pausedFrom)
}

func (g *Game) resume() {
	g.setPhase(g.pausedFrom)
	g.pausedFrom = ""
	g.logger.Info("Game resumed", "phase", g.phase)
	g.stabilize()
}
