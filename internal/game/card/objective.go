package card

import "sudooom.codex.logic/internal/game/core"

// ObjectiveKind 目标卡种类
type ObjectiveKind string

const (
	ObjectiveItemCount  ObjectiveKind = "ITEM_COUNT"
	ObjectivePositional ObjectiveKind = "POSITIONAL"
)

// Objective 目标卡，游戏结束时对玩家棋盘计分
// 实现是封闭集合：ItemObjective、PositionalObjective
type Objective interface {
	ID() int
	Kind() ObjectiveKind
	PointsWon() int
	Points(surface Surface) int

	sealed()
}

type objective struct {
	id     int
	points int
}

func (o objective) ID() int        { return o.id }
func (o objective) PointsWon() int { return o.points }
func (objective) sealed()          {}

// ItemObjective 物品数量目标
type ItemObjective struct {
	objective
	need core.ItemStore
}

func NewItemObjective(id, points int, need core.ItemStore) ItemObjective {
	return ItemObjective{objective: objective{id: id, points: points}, need: need}
}

func (ItemObjective) Kind() ObjectiveKind    { return ObjectiveItemCount }
func (o ItemObjective) Need() core.ItemStore { return o.need }

// Points 分值 × 所有要求种类中 floor(拥有数 / 要求数) 的最小值
func (o ItemObjective) Points(surface Surface) int {
	items := surface.Items()
	times := -1
	for _, item := range o.need.NonZero() {
		n := items.Get(item) / o.need.Get(item)
		if times < 0 || n < times {
			times = n
		}
	}
	if times < 0 {
		return 0
	}
	return o.points * times
}

// PositionalObjective 位置图案目标
type PositionalObjective struct {
	objective
	pattern Pattern
}

func NewPositionalObjective(id, points int, pattern Pattern) PositionalObjective {
	return PositionalObjective{objective: objective{id: id, points: points}, pattern: pattern}
}

func (PositionalObjective) Kind() ObjectiveKind { return ObjectivePositional }
func (o PositionalObjective) Pattern() Pattern  { return o.pattern }

func (o PositionalObjective) Points(surface Surface) int {
	return o.points * o.pattern.Count(surface)
}
