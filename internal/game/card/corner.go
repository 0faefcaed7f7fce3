package card

import "sudooom.codex.logic/internal/game/core"

// Corner 卡面上的一个角
// Present 为 false 表示物理上没有这个角，与"有角但为空"不同
type Corner struct {
	Present bool      `json:"present"`
	Item    core.Item `json:"item"`
}

// NoCorner 缺失的角，会阻止相邻放置
var NoCorner = Corner{}

// EmptyCorner 存在但不带物品的角
var EmptyCorner = Corner{Present: true, Item: core.ItemNone}

// CornerWith 存在且带物品的角
func CornerWith(item core.Item) Corner {
	return Corner{Present: true, Item: item}
}

// Corners 按 core.CornerPosition 索引的四个角
type Corners [4]Corner

// NewCorners 按 右上、左上、左下、右下 的顺序构造
func NewCorners(topRight, topLeft, bottomLeft, bottomRight Corner) Corners {
	var c Corners
	c[core.TopRight] = topRight
	c[core.TopLeft] = topLeft
	c[core.BottomLeft] = bottomLeft
	c[core.BottomRight] = bottomRight
	return c
}

// Yield 所有可见角上的物品之和
func (c Corners) Yield() core.ItemStore {
	var s core.ItemStore
	for _, corner := range c {
		if corner.Present && corner.Item != core.ItemNone {
			s.Add(corner.Item, 1)
		}
	}
	return s
}
