package codex

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudooom.codex.logic/internal/game/core"
)

func TestNewGameValidation(t *testing.T) {
	tests := []struct {
		name        string
		playerCount int
		decks       Decks
		wantErr     error
	}{
		{name: "too few players", playerCount: 1, decks: testDecks(20, 12, 10), wantErr: core.ErrPlayerCountOutOfRange},
		{name: "too many players", playerCount: 5, decks: testDecks(20, 12, 10), wantErr: core.ErrPlayerCountOutOfRange},
		{name: "not enough resources", playerCount: 4, decks: testDecks(9, 12, 10), wantErr: core.ErrInvalidCatalog},
		{name: "not enough objectives", playerCount: 4, decks: testDecks(20, 12, 9), wantErr: core.ErrInvalidCatalog},
		{name: "ok", playerCount: 4, decks: testDecks(10, 6, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGame("g", tt.playerCount, "alice", tt.decks, DefaultRules())
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Equal(t, core.KindConfig, core.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, PhaseWaitForPlayers, g.Phase())
			assert.Len(t, g.Players(), 1)
		})
	}
}

func TestJoin(t *testing.T) {
	g, err := NewGame("g", 2, "alice", testDecks(20, 12, 10), DefaultRules())
	require.NoError(t, err)

	err = g.Join("alice")
	assert.True(t, errors.Is(err, core.ErrDuplicatePlayerName))

	require.NoError(t, g.Join("bob"))
	assert.Equal(t, PhaseInitPlaceStarterCard, g.Phase())
	assert.Equal(t, "alice", g.CurrentPlayer().Name())

	err = g.Join("carol")
	assert.True(t, errors.Is(err, core.ErrGameFull))

	// 开局发放：公共区 2+2，公共目标 2，每人起始卡与 2 张可选目标
	v := g.View()
	assert.Len(t, v.FieldResources, 2)
	assert.Len(t, v.FieldGolds, 2)
	assert.Len(t, v.CommonObjectives, 2)
	for _, p := range v.Players {
		assert.NotNil(t, p.Starter)
		assert.Len(t, p.ObjectiveChoices, 2)
		assert.Empty(t, p.Hand)
	}
}

func TestWaitingView(t *testing.T) {
	g, err := NewGame("g1", 2, "alice", testDecks(12, 8, 6), DefaultRules())
	require.NoError(t, err)

	want := View{
		Name:        "g1",
		Phase:       PhaseWaitForPlayers,
		PlayerCount: 2,
		Players: []PlayerView{{
			Name:      "alice",
			Connected: true,
			Hand:      []CardView{},
			Board:     []PlacedCardView{},
		}},
		FieldResources: []CardView{},
		FieldGolds:     []CardView{},
		ResourceDeck:   DeckView{Remaining: 12, Top: core.ColorRed},
		GoldDeck:       DeckView{Remaining: 8, Top: core.ColorRed},
	}
	if diff := cmp.Diff(want, g.View()); diff != "" {
		t.Errorf("unexpected view (-want +got):\n%s", diff)
	}
}

func TestInitialization(t *testing.T) {
	g := newStartedGame(t, DefaultRules(), "alice", "bob")
	alice, _ := g.Player("alice")

	// 非当前玩家
	err := g.PlaceCard("bob", core.Origin, alice.starter.ID(), false)
	assert.True(t, errors.Is(err, core.ErrNotYourTurn))
	assert.Equal(t, core.KindState, core.KindOf(err))

	// 阶段不对
	err = g.ChooseColor("alice", core.PawnRed)
	assert.True(t, errors.Is(err, core.ErrInvalidPhaseForAction))

	// 不是自己的起始卡
	bob, _ := g.Player("bob")
	err = g.PlaceCard("alice", core.Origin, bob.starter.ID(), false)
	assert.True(t, errors.Is(err, core.ErrUnknownCard))

	// 起始卡只能放在原点，失败时朝向恢复
	err = g.PlaceCard("alice", core.Coordinate{X: 1, Y: 1}, alice.starter.ID(), true)
	assert.True(t, errors.Is(err, core.ErrNotAdjacent))
	assert.False(t, alice.starter.IsFlipped())

	require.NoError(t, g.PlaceCard("alice", core.Origin, alice.starter.ID(), true))
	assert.Equal(t, PhaseInitChoosePlayerColor, g.Phase())
	assert.Len(t, alice.Hand(), 3)
	assert.Equal(t, 1, alice.board.Items().Get(core.ItemPlant), "背面中心的植物计入物品")

	err = g.ChooseColor("alice", core.PawnColor("BLACK"))
	assert.True(t, errors.Is(err, core.ErrInvalidColor))
	require.NoError(t, g.ChooseColor("alice", core.PawnYellow))
	assert.Equal(t, PhaseInitChooseObjectiveCard, g.Phase())

	err = g.SetObjective("alice", 424242)
	assert.True(t, errors.Is(err, core.ErrInvalidObjective))
	chosen := alice.choices[0]
	require.NoError(t, g.SetObjective("alice", chosen.ID()))
	assert.Equal(t, chosen, alice.Objective())

	// 轮到 bob，已被占用的颜色不可选
	assert.Equal(t, "bob", g.CurrentPlayer().Name())
	assert.Equal(t, PhaseInitPlaceStarterCard, g.Phase())
	require.NoError(t, g.PlaceCard("bob", core.Origin, bob.starter.ID(), false))
	err = g.ChooseColor("bob", core.PawnYellow)
	assert.True(t, errors.Is(err, core.ErrInvalidColor))
	require.NoError(t, g.ChooseColor("bob", core.PawnBlue))
	require.NoError(t, g.SetObjective("bob", bob.choices[1].ID()))

	assert.Equal(t, PhasePlaceCard, g.Phase())
	assert.Equal(t, "alice", g.CurrentPlayer().Name())
	assert.NotEqual(t, alice.Objective().ID(), bob.Objective().ID())
}

func TestFailedActionLeavesStateUnchanged(t *testing.T) {
	g := playingGame(t, DefaultRules(), "alice", "bob")
	before := g.View()

	bob, _ := g.Player("bob")
	err := g.PlaceCard("bob", core.Coordinate{X: 1, Y: 1}, bob.hand[0].ID(), true)
	assert.True(t, errors.Is(err, core.ErrNotYourTurn))

	err = g.DrawFromResourceDeck("alice")
	assert.True(t, errors.Is(err, core.ErrInvalidPhaseForAction))

	alice, _ := g.Player("alice")
	err = g.PlaceCard("alice", core.Origin, alice.hand[0].ID(), true)
	assert.True(t, errors.Is(err, core.ErrPositionOccupied))

	err = g.PlaceCard("alice", core.Coordinate{X: 1, Y: 1}, 9999, true)
	assert.True(t, errors.Is(err, core.ErrUnknownCard))

	// 金卡正面资源不足
	gold := alice.hand[2]
	err = g.PlaceCard("alice", core.Coordinate{X: 1, Y: 1}, gold.ID(), false)
	assert.True(t, errors.Is(err, core.ErrInsufficientResources))

	if diff := cmp.Diff(before, g.View()); diff != "" {
		t.Errorf("unexpected view (-want +got):\n%s", diff)
	}
}

func TestPlaceThenDraw(t *testing.T) {
	g := playingGame(t, DefaultRules(), "alice", "bob")
	alice, _ := g.Player("alice")

	c := alice.hand[0]
	require.NoError(t, g.PlaceCard("alice", core.Coordinate{X: 1, Y: 1}, c.ID(), false))
	assert.Equal(t, 1, alice.Score(), "资源卡正面得 1 分")
	assert.Equal(t, 1, alice.PlacedCards())
	assert.Len(t, alice.Hand(), 2)
	assert.Equal(t, PhaseDrawCard, g.Phase())

	// 抽牌阶段仍需本人操作
	err := g.DrawFromGoldDeck("bob")
	assert.True(t, errors.Is(err, core.ErrNotYourTurn))

	field := g.View().FieldGolds[0]
	goldLeft := g.golds.Len()
	require.NoError(t, g.DrawFromField("alice", field.ID))
	assert.Len(t, alice.Hand(), 3)
	assert.Equal(t, goldLeft-1, g.golds.Len(), "公共区空位由金卡牌堆补充")
	assert.Len(t, g.View().FieldGolds, 2)

	assert.Equal(t, PhasePlaceCard, g.Phase())
	assert.Equal(t, "bob", g.CurrentPlayer().Name())
}

func TestHandLimit(t *testing.T) {
	g := playingGame(t, DefaultRules(), "alice", "bob")
	alice, _ := g.Player("alice")
	require.Len(t, alice.Hand(), 3)

	extra, _ := g.resources.Draw()
	err := alice.addToHand(extra)
	assert.True(t, errors.Is(err, core.ErrHandFull))
	assert.Len(t, alice.Hand(), 3)
}

func TestSwitchCardSide(t *testing.T) {
	g := playingGame(t, DefaultRules(), "alice", "bob")
	bob, _ := g.Player("bob")
	c := bob.hand[0]

	// 不受回合限制
	require.NoError(t, g.SwitchCardSide("bob", c.ID()))
	assert.True(t, c.IsFlipped())
	require.NoError(t, g.SwitchCardSide("bob", c.ID()))
	assert.False(t, c.IsFlipped())

	alice, _ := g.Player("alice")
	err := g.SwitchCardSide("bob", alice.hand[0].ID())
	assert.True(t, errors.Is(err, core.ErrUnknownCard))

	err = g.SwitchCardSide("nobody", c.ID())
	assert.True(t, errors.Is(err, core.ErrUnknownPlayer))
}

func TestEndToEndTwoPlayers(t *testing.T) {
	g, err := NewGame("e2e", 2, "alice", testDecks(12, 8, 6), DefaultRules())
	require.NoError(t, err)
	require.NoError(t, g.Join("bob"))

	initCurrent(t, g)
	initCurrent(t, g)
	require.Equal(t, PhasePlaceCard, g.Phase())

	alice, _ := g.Player("alice")
	bob, _ := g.Player("bob")
	assert.NotEqual(t, alice.Color(), bob.Color())
	assert.NotEqual(t, alice.Objective().ID(), bob.Objective().ID())

	for turns := 0; !g.IsOver(); turns++ {
		require.Less(t, turns, 200, "game did not finish")

		switch g.Phase() {
		case PhasePlaceCard:
			placeAnywhere(t, g)
		case PhaseDrawCard:
			cur := g.CurrentPlayer().Name()
			switch {
			case !g.resources.IsEmpty():
				require.NoError(t, g.DrawFromResourceDeck(cur))
			case !g.golds.IsEmpty():
				require.NoError(t, g.DrawFromGoldDeck(cur))
			default:
				v := g.View()
				if len(v.FieldResources) > 0 {
					require.NoError(t, g.DrawFromField(cur, v.FieldResources[0].ID))
				} else {
					require.NoError(t, g.DrawFromField(cur, v.FieldGolds[0].ID))
				}
			}
		default:
			t.Fatalf("unexpected phase %s", g.Phase())
		}
	}

	assert.Equal(t, PhaseGameOver, g.Phase())
	assert.True(t, g.resources.IsEmpty())
	assert.True(t, g.golds.IsEmpty())
	assert.True(t, g.IsLastRound())
	assert.NotEmpty(t, g.Winners())
	assert.Equal(t, alice.PlacedCards(), bob.PlacedCards(), "每位玩家回合数相同")

	v := g.View()
	for _, p := range v.Players {
		require.NotNil(t, p.Final)
		assert.Equal(t, p.Final.TrackPoints+p.Final.ObjectivePoints, p.Final.Total)
	}

	err = g.PlaceCard("alice", core.Coordinate{X: 5, Y: 5}, 1, false)
	assert.True(t, errors.Is(err, core.ErrInvalidPhaseForAction))
}

func TestScoreTriggersLastRound(t *testing.T) {
	rules := DefaultRules()
	rules.WinningScore = 1
	g := playingGame(t, rules, "alice", "bob", "carol")

	// bob 正面放置得 1 分，触发最后一轮
	placeAnywhere(t, g)
	require.NoError(t, g.DrawFromResourceDeck("alice"))
	bob := g.CurrentPlayer()
	require.NoError(t, g.PlaceCard(bob.Name(), core.Coordinate{X: 1, Y: 1}, bob.hand[0].ID(), false))
	assert.True(t, g.IsLastRound())
	assert.Equal(t, 1, g.View().RemainingRoundsToEndGame)
	require.NoError(t, g.DrawFromResourceDeck("bob"))

	// carol 结束本轮后消耗一轮宽限，再完整进行一轮后结束
	placeAnywhere(t, g)
	require.NoError(t, g.DrawFromResourceDeck("carol"))
	assert.Equal(t, 0, g.View().RemainingRoundsToEndGame)

	for range 3 {
		require.False(t, g.IsOver())
		placeAnywhere(t, g)
		require.NoError(t, g.DrawFromResourceDeck(g.CurrentPlayer().Name()))
	}

	assert.True(t, g.IsOver())
	for _, p := range g.Players() {
		assert.Equal(t, 2, p.PlacedCards())
	}

	best := 0
	for _, p := range g.View().Players {
		best = max(best, p.Final.Total)
	}
	for _, name := range g.Winners() {
		p, _ := g.Player(name)
		assert.Equal(t, best, p.final.Total)
	}
}

func TestPickWinnersTieBreak(t *testing.T) {
	players := []*Player{
		{name: "a", final: &FinalScore{Total: 10, ObjectivesCompleted: 1}},
		{name: "b", final: &FinalScore{Total: 10, ObjectivesCompleted: 2}},
		{name: "c", final: &FinalScore{Total: 9, ObjectivesCompleted: 3}},
	}
	assert.Equal(t, []string{"b"}, pickWinners(players))

	players[0].final.ObjectivesCompleted = 2
	assert.Equal(t, []string{"a", "b"}, pickWinners(players))
}
