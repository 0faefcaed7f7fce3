package codex

import "sudooom.codex.logic/internal/game/card"

// Deck 牌堆，下标 0 为堆顶
type Deck[T any] struct {
	cards []T
}

// NewDeck 以给定顺序创建牌堆
func NewDeck[T any](cards []T) *Deck[T] {
	return &Deck[T]{cards: append([]T(nil), cards...)}
}

// Draw 抽取堆顶
func (d *Deck[T]) Draw() (T, bool) {
	var zero T
	if len(d.cards) == 0 {
		return zero, false
	}
	top := d.cards[0]
	d.cards[0] = zero
	d.cards = d.cards[1:]
	return top, true
}

// Peek 查看堆顶但不抽取
func (d *Deck[T]) Peek() (T, bool) {
	var zero T
	if len(d.cards) == 0 {
		return zero, false
	}
	return d.cards[0], true
}

func (d *Deck[T]) Len() int      { return len(d.cards) }
func (d *Deck[T]) IsEmpty() bool { return len(d.cards) == 0 }

// Decks 一局游戏使用的全部牌堆，已洗好
type Decks struct {
	Starters   []*card.Card
	Resources  []*card.Card
	Golds      []*card.Card
	Objectives []card.Objective
}

// fieldSlots 公共区每类卡的翻开数量
const fieldSlots = 2

// commonObjectiveCount 公共目标数量
const commonObjectiveCount = 2

// objectiveChoiceCount 每位玩家可选的目标数量
const objectiveChoiceCount = 2

// validate 检查牌堆是否足够开局
func (d Decks) validate(playerCount int) error {
	switch {
	case len(d.Starters) < playerCount:
		return errNotEnough("starter", len(d.Starters), playerCount)
	case len(d.Resources) < fieldSlots+2*playerCount:
		return errNotEnough("resource", len(d.Resources), fieldSlots+2*playerCount)
	case len(d.Golds) < fieldSlots+playerCount:
		return errNotEnough("gold", len(d.Golds), fieldSlots+playerCount)
	case len(d.Objectives) < commonObjectiveCount+objectiveChoiceCount*playerCount:
		return errNotEnough("objective", len(d.Objectives), commonObjectiveCount+objectiveChoiceCount*playerCount)
	}
	return nil
}
