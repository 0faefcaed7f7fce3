package game

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sudooom.codex.logic/internal/game/card"
	"sudooom.codex.logic/internal/game/codex"
	"sudooom.codex.logic/internal/game/core"
)

// tightDecks 刚好够两人开局的牌堆，开局发完牌后两个牌堆都为空
type tightDecks struct{}

func (tightDecks) NewDecks(*rand.Rand) codex.Decks {
	open := card.NewCorners(card.EmptyCorner, card.EmptyCorner, card.EmptyCorner, card.EmptyCorner)
	back := card.NewBack(open, core.NewItemStore(map[core.Item]int{core.ItemPlant: 1}))

	id := 0
	next := func() int {
		id++
		return id
	}
	var d codex.Decks
	for range 4 {
		d.Starters = append(d.Starters, card.New(next(), card.KindStarter, core.ColorNone, card.NewPlainFront(open, 0), back))
	}
	for range 6 {
		d.Resources = append(d.Resources, card.New(next(), card.KindResource, core.ColorGreen, card.NewPlainFront(open, 1), back))
	}
	for range 4 {
		needs := core.NewItemStore(map[core.Item]int{core.ItemFungi: 5})
		d.Golds = append(d.Golds, card.New(next(), card.KindGold, core.ColorGreen, card.NewGoldResourceFront(open, 3, needs), back))
	}
	for range 6 {
		d.Objectives = append(d.Objectives, card.NewItemObjective(100+next(), 2, core.NewItemStore(map[core.Item]int{core.ItemPlant: 2})))
	}
	return d
}

// fakeClock 可手动推进的时钟
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(t *testing.T, config ManagerConfig) (*GameManager, *fakeClock) {
	t.Helper()
	if config.Rules == (codex.Rules{}) {
		config.Rules = codex.DefaultRules()
	}
	m := NewGameManager(tightDecks{}, config)
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	m.now = clock.Now
	m.newRand = func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })
	return m, clock
}

func playerView(t *testing.T, v codex.View, name string) codex.PlayerView {
	t.Helper()
	for _, p := range v.Players {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("player %s not in view", name)
	return codex.PlayerView{}
}

// initPlayer 当前玩家完成开局三步
func initPlayer(t *testing.T, s *Session, name string, color core.PawnColor) {
	t.Helper()
	pv := playerView(t, s.View(), name)
	require.NotNil(t, pv.Starter)
	require.NoError(t, s.PlaceCard(name, core.Origin, pv.Starter.ID, false))
	require.NoError(t, s.ChooseColor(name, color))
	pv = playerView(t, s.View(), name)
	require.NoError(t, s.SetObjective(name, pv.ObjectiveChoices[0].ID))
}

// playTurn 以背面放置第一张手牌到对角线上，然后从公共区抽一张
func playTurn(t *testing.T, s *Session, name string, step int) {
	t.Helper()
	v := s.View()
	require.Equal(t, name, v.CurrentPlayer)
	pv := playerView(t, v, name)
	at := core.Coordinate{X: step, Y: step}
	require.NoError(t, s.PlaceCard(name, at, pv.Hand[0].ID, true))

	v = s.View()
	if v.Phase != codex.PhaseDrawCard {
		return
	}
	field := append(v.FieldResources, v.FieldGolds...)
	require.NotEmpty(t, field)
	require.NoError(t, s.DrawFromField(name, field[0].ID))
}
