package codex

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sudooom.codex.logic/internal/game/card"
	"sudooom.codex.logic/internal/game/core"
)

var testColors = []core.Color{core.ColorRed, core.ColorGreen, core.ColorBlue, core.ColorPurple}

var colorResource = map[core.Color]core.Item{
	core.ColorRed:    core.ItemFungi,
	core.ColorGreen:  core.ItemPlant,
	core.ColorBlue:   core.ItemAnimal,
	core.ColorPurple: core.ItemInsect,
}

func openCorners() card.Corners {
	return card.NewCorners(card.EmptyCorner, card.EmptyCorner, card.EmptyCorner, card.EmptyCorner)
}

func center(item core.Item) core.ItemStore {
	return core.NewItemStore(map[core.Item]int{item: 1})
}

// testDecks 构造未洗牌的测试牌堆，所有角都存在，背面永远可以放置
func testDecks(resources, golds, objectives int) Decks {
	id := 0
	next := func() int {
		id++
		return id
	}

	var d Decks
	for range 4 {
		d.Starters = append(d.Starters, card.New(next(), card.KindStarter, core.ColorNone,
			card.NewPlainFront(openCorners(), 0),
			card.NewBack(openCorners(), center(core.ItemPlant))))
	}
	for i := range resources {
		color := testColors[i%len(testColors)]
		d.Resources = append(d.Resources, card.New(next(), card.KindResource, color,
			card.NewPlainFront(openCorners(), 1),
			card.NewBack(openCorners(), center(colorResource[color]))))
	}
	for i := range golds {
		color := testColors[i%len(testColors)]
		needs := core.NewItemStore(map[core.Item]int{core.ItemFungi: 10})
		d.Golds = append(d.Golds, card.New(next(), card.KindGold, color,
			card.NewGoldResourceFront(openCorners(), 3, needs),
			card.NewBack(openCorners(), center(colorResource[color]))))
	}
	items := []core.Item{core.ItemPlant, core.ItemFungi, core.ItemAnimal, core.ItemInsect}
	for i := range objectives {
		d.Objectives = append(d.Objectives,
			card.NewItemObjective(1000+next(), 2, center(items[i%len(items)])))
	}
	return d
}

// newStartedGame 创建并凑满人数的游戏
func newStartedGame(t *testing.T, rules Rules, names ...string) *Game {
	t.Helper()
	g, err := NewGame("test", len(names), names[0], testDecks(20, 12, 10), rules)
	require.NoError(t, err)
	for _, n := range names[1:] {
		require.NoError(t, g.Join(n))
	}
	return g
}

// initCurrent 当前玩家完成全部初始化动作
func initCurrent(t *testing.T, g *Game) {
	t.Helper()
	p := g.CurrentPlayer()
	require.Equal(t, PhaseInitPlaceStarterCard, g.Phase())
	require.NoError(t, g.PlaceCard(p.Name(), core.Origin, p.starter.ID(), false))
	require.NoError(t, g.ChooseColor(p.Name(), freeColor(g)))
	require.NoError(t, g.SetObjective(p.Name(), p.choices[1].ID()))
}

func freeColor(g *Game) core.PawnColor {
	for _, c := range core.PawnPalette {
		if !g.colorTaken(c) {
			return c
		}
	}
	return core.PawnUnset
}

// playingGame 所有玩家完成初始化，进入 PLACE_CARD
func playingGame(t *testing.T, rules Rules, names ...string) *Game {
	t.Helper()
	g := newStartedGame(t, rules, names...)
	for range names {
		initCurrent(t, g)
	}
	require.Equal(t, PhasePlaceCard, g.Phase())
	return g
}

// placeAnywhere 当前玩家把第一张手牌背面朝上放到第一个可用坐标
func placeAnywhere(t *testing.T, g *Game) {
	t.Helper()
	p := g.CurrentPlayer()
	require.NotEmpty(t, p.hand, "player %s has no card to place", p.Name())
	frontier := p.board.Frontier()
	require.NotEmpty(t, frontier)
	require.NoError(t, g.PlaceCard(p.Name(), frontier[0], p.hand[0].ID(), true))
}
