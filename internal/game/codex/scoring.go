package codex

import "sudooom.codex.logic/internal/game/card"

// finish 计算终局得分与获胜者，进入 GAME_OVER
func (g *Game) finish() {
	for _, p := range g.players {
		p.final = g.finalScore(p)
	}
	g.winners = pickWinners(g.players)
	g.setPhase(PhaseGameOver)
	g.logger.Info("Game over", "winners", g.winners)
}

// finalScore 计分轨分数 + 私有目标与两张公共目标在玩家棋盘上的得分
func (g *Game) finalScore(p *Player) *FinalScore {
	fs := &FinalScore{TrackPoints: p.score}

	objectives := make([]card.Objective, 0, len(g.common)+1)
	if p.objective != nil {
		objectives = append(objectives, p.objective)
	}
	objectives = append(objectives, g.common...)

	for _, o := range objectives {
		points := o.Points(p.board)
		if points > 0 {
			fs.ObjectivePoints += points
			fs.ObjectivesCompleted++
		}
	}
	fs.Total = fs.TrackPoints + fs.ObjectivePoints
	return fs
}

// pickWinners 总分最高者获胜；总分相同时比较完成的目标数，仍相同则并列
func pickWinners(players []*Player) []string {
	var best *FinalScore
	var winners []string
	for _, p := range players {
		fs := p.final
		switch {
		case best == nil || fs.Total > best.Total ||
			(fs.Total == best.Total && fs.ObjectivesCompleted > best.ObjectivesCompleted):
			best = fs
			winners = []string{p.name}
		case fs.Total == best.Total && fs.ObjectivesCompleted == best.ObjectivesCompleted:
			winners = append(winners, p.name)
		}
	}
	return winners
}
