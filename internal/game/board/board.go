package board

import (
	"slices"

	"sudooom.codex.logic/internal/game/card"
	"sudooom.codex.logic/internal/game/core"
)

// Board 玩家棋盘
// 稀疏网格 + 物品计数，起始卡固定在原点
type Board struct {
	grid    map[core.Coordinate]*card.Card
	order   []card.Placement // 按放置顺序
	items   core.ItemStore
	starter *card.Card
}

// New 创建空棋盘
func New() *Board {
	return &Board{
		grid: make(map[core.Coordinate]*card.Card),
	}
}

// Items 当前物品计数
func (b *Board) Items() core.ItemStore {
	return b.items
}

// CardAt 查询坐标上的卡牌
func (b *Board) CardAt(at core.Coordinate) (*card.Card, bool) {
	c, ok := b.grid[at]
	return c, ok
}

// Placements 按放置顺序返回所有卡牌
func (b *Board) Placements() []card.Placement {
	return slices.Clone(b.order)
}

// Starter 起始卡，未放置时为 nil
func (b *Board) Starter() *card.Card {
	return b.starter
}

// Len 已放置卡牌数量
func (b *Board) Len() int {
	return len(b.order)
}

// Check 校验放置是否合法，不修改棋盘
// 依次检查：占用、相邻、角兼容、资源
func (b *Board) Check(at core.Coordinate, c *card.Card) error {
	if _, ok := b.grid[at]; ok {
		return core.ErrPositionOccupied.WithContext("coordinate", at)
	}

	if !at.IsOrigin() && len(b.neighbors(at)) == 0 {
		return core.ErrNotAdjacent.WithContext("coordinate", at)
	}

	for pos, n := range b.neighbors(at) {
		if !n.Corner(pos.Opposite()).Present {
			return core.ErrIncompatiblePlacement.
				WithContext("coordinate", at).
				WithContext("neighbor", at.Neighbor(pos)).
				WithContext("corner", pos.Opposite().String())
		}
	}

	if !b.items.Covers(c.Current().Requirement()) {
		return core.ErrInsufficientResources.
			WithContext("coordinate", at).
			WithContext("card", c.ID())
	}

	return nil
}

// Place 放置卡牌并返回得分
// 所有校验通过后才修改棋盘，失败时棋盘保持不变
func (b *Board) Place(at core.Coordinate, c *card.Card) (int, error) {
	if err := b.Check(at, c); err != nil {
		return 0, err
	}

	b.grid[at] = c
	b.order = append(b.order, card.Placement{Coordinate: at, Card: c})
	c.MarkPlaced(len(b.order))
	if at.IsOrigin() {
		b.starter = c
	}

	b.items = b.items.Plus(c.Current().Yield())

	// 覆盖相邻卡朝向本卡的角，被覆盖的物品退出计数
	for pos, n := range b.neighbors(at) {
		facing := pos.Opposite()
		if !n.Cover(facing) {
			continue
		}
		if item := n.Corner(facing).Item; item != core.ItemNone {
			b.items.Add(item, -1)
		}
	}

	return c.Current().Points(at, b), nil
}

// Frontier 返回所有可以放置卡牌的空坐标（不考虑资源要求）
// 按 y 再按 x 升序排列
func (b *Board) Frontier() []core.Coordinate {
	seen := make(map[core.Coordinate]bool)
	var out []core.Coordinate
	for _, pl := range b.order {
		for _, pos := range core.CornerPositions {
			at := pl.Coordinate.Neighbor(pos)
			if seen[at] {
				continue
			}
			seen[at] = true
			if b.geometryOK(at) {
				out = append(out, at)
			}
		}
	}
	slices.SortFunc(out, func(a, c core.Coordinate) int {
		if a.Y != c.Y {
			return a.Y - c.Y
		}
		return a.X - c.X
	})
	return out
}

func (b *Board) geometryOK(at core.Coordinate) bool {
	if _, ok := b.grid[at]; ok {
		return false
	}
	neighbors := b.neighbors(at)
	if len(neighbors) == 0 {
		return false
	}
	for pos, n := range neighbors {
		if !n.Corner(pos.Opposite()).Present {
			return false
		}
	}
	return true
}

// neighbors 返回四个对角方向上已有的卡，键为从 at 出发的方向
func (b *Board) neighbors(at core.Coordinate) map[core.CornerPosition]*card.Card {
	out := make(map[core.CornerPosition]*card.Card, 4)
	for _, pos := range core.CornerPositions {
		if n, ok := b.grid[at.Neighbor(pos)]; ok {
			out[pos] = n
		}
	}
	return out
}
