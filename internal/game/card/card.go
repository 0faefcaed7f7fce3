package card

import "sudooom.codex.logic/internal/game/core"

// Kind 卡牌类别
type Kind string

const (
	KindStarter  Kind = "STARTER"
	KindResource Kind = "RESOURCE"
	KindGold     Kind = "GOLD"
)

// Card 双面卡牌
// 两个面是不可变的值，翻面只切换当前面的下标
type Card struct {
	id        int
	kind      Kind
	color     core.Color
	sides     [2]Side
	current   int     // 0 正面，1 背面
	placement int     // 放置序号，0 表示未放置
	covered   [4]bool // 按 core.CornerPosition 索引
}

// New 创建卡牌，初始为正面朝上
func New(id int, kind Kind, color core.Color, front, back Side) *Card {
	return &Card{
		id:    id,
		kind:  kind,
		color: color,
		sides: [2]Side{front, back},
	}
}

func (c *Card) ID() int           { return c.id }
func (c *Card) Kind() Kind        { return c.kind }
func (c *Card) Color() core.Color { return c.color }
func (c *Card) Front() Side       { return c.sides[0] }
func (c *Card) Back() Side        { return c.sides[1] }

// Current 当前朝上的面
func (c *Card) Current() Side {
	return c.sides[c.current]
}

// IsFlipped 是否背面朝上
func (c *Card) IsFlipped() bool {
	return c.current == 1
}

// Flip 翻面
func (c *Card) Flip() {
	c.current ^= 1
}

// SetFlipped 指定朝上的面
func (c *Card) SetFlipped(flipped bool) {
	if flipped {
		c.current = 1
	} else {
		c.current = 0
	}
}

// Corner 当前面指定位置的角
func (c *Card) Corner(pos core.CornerPosition) Corner {
	return c.Current().Corner(pos)
}

// IsCovered 指定角是否已被覆盖
func (c *Card) IsCovered(pos core.CornerPosition) bool {
	return c.covered[pos]
}

// Cover 覆盖指定角，每个角只能被覆盖一次，重复覆盖返回 false
func (c *Card) Cover(pos core.CornerPosition) bool {
	if c.covered[pos] {
		return false
	}
	c.covered[pos] = true
	return true
}

// PlacementIndex 放置序号，0 表示尚未放置
func (c *Card) PlacementIndex() int {
	return c.placement
}

// MarkPlaced 记录放置序号，只能设置一次
func (c *Card) MarkPlaced(index int) bool {
	if c.placement != 0 || index <= 0 {
		return false
	}
	c.placement = index
	return true
}

// IsPlaced 是否已放置在棋盘上
func (c *Card) IsPlaced() bool {
	return c.placement != 0
}

// Clone 复制卡牌，两个面为不可变值可以共享
func (c *Card) Clone() *Card {
	cp := *c
	return &cp
}
