package card

import (
	"cmp"
	"fmt"
	"slices"

	"sudooom.codex.logic/internal/game/core"
)

// PatternCell 图案中的一格：相对锚点的偏移与要求的颜色
type PatternCell struct {
	Offset core.Coordinate `json:"offset"`
	Color  core.Color      `json:"color"`
}

// Pattern 位置图案，第一格是偏移为 (0,0) 的锚点
type Pattern []PatternCell

// Validate 检查锚点与偏移唯一性
func (p Pattern) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("pattern is empty")
	}
	if !p[0].Offset.IsOrigin() {
		return fmt.Errorf("pattern anchor must be at (0,0), got %s", p[0].Offset)
	}
	seen := make(map[core.Coordinate]bool, len(p))
	for _, cell := range p {
		if seen[cell.Offset] {
			return fmt.Errorf("pattern offset %s repeated", cell.Offset)
		}
		seen[cell.Offset] = true
	}
	return nil
}

// Count 统计棋盘上互不重叠的图案出现次数
// 锚点按图案延伸方向上的投影从小到大尝试，与放置顺序无关，匹配成功的卡不再参与之后的匹配
func (p Pattern) Count(surface Surface) int {
	if len(p) == 0 {
		return 0
	}

	used := make(map[core.Coordinate]bool)
	count := 0
	for _, anchor := range p.anchors(surface) {
		if used[anchor] {
			continue
		}
		cells, ok := p.matchAt(surface, anchor, used)
		if !ok {
			continue
		}
		for _, c := range cells {
			used[c] = true
		}
		count++
	}
	return count
}

// anchors 颜色符合锚点的坐标，沿图案方向排序，投影相同时按 X、Y 排序
func (p Pattern) anchors(surface Surface) []core.Coordinate {
	var dir core.Coordinate
	for _, cell := range p {
		dir = dir.Add(cell.Offset)
	}

	var out []core.Coordinate
	for _, pl := range surface.Placements() {
		if pl.Card.Color() == p[0].Color {
			out = append(out, pl.Coordinate)
		}
	}
	slices.SortFunc(out, func(a, b core.Coordinate) int {
		return cmp.Or(
			cmp.Compare(a.X*dir.X+a.Y*dir.Y, b.X*dir.X+b.Y*dir.Y),
			cmp.Compare(a.X, b.X),
			cmp.Compare(a.Y, b.Y),
		)
	})
	return out
}

// CountThrough 统计经过 at 的图案出现次数
// 每个出现都包含 at 处的卡，按不同锚点计数
func (p Pattern) CountThrough(surface Surface, at core.Coordinate) int {
	count := 0
	anchors := make(map[core.Coordinate]bool, len(p))
	for _, cell := range p {
		anchor := at.Sub(cell.Offset)
		if anchors[anchor] {
			continue
		}
		anchors[anchor] = true
		if _, ok := p.matchAt(surface, anchor, nil); ok {
			count++
		}
	}
	return count
}

// matchAt 以 anchor 为锚点尝试完整匹配，返回匹配到的坐标
func (p Pattern) matchAt(surface Surface, anchor core.Coordinate, used map[core.Coordinate]bool) ([]core.Coordinate, bool) {
	cells := make([]core.Coordinate, 0, len(p))
	for _, cell := range p {
		at := anchor.Add(cell.Offset)
		if used[at] {
			return nil, false
		}
		c, ok := surface.CardAt(at)
		if !ok || c.Color() != cell.Color {
			return nil, false
		}
		cells = append(cells, at)
	}
	return cells, true
}
