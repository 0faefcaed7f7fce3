package core

import (
	"fmt"
	"strings"
)

// Coordinate 斜向网格坐标
// 卡牌只在四个对角方向 (x±1, y±1) 相邻
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Origin 起始卡所在的原点
var Origin = Coordinate{}

// Add 坐标平移
func (c Coordinate) Add(d Coordinate) Coordinate {
	return Coordinate{X: c.X + d.X, Y: c.Y + d.Y}
}

// Sub 坐标差
func (c Coordinate) Sub(d Coordinate) Coordinate {
	return Coordinate{X: c.X - d.X, Y: c.Y - d.Y}
}

// IsOrigin 是否为原点
func (c Coordinate) IsOrigin() bool {
	return c == Origin
}

// Neighbor 返回指定角方向上的相邻坐标
func (c Coordinate) Neighbor(pos CornerPosition) Coordinate {
	return c.Add(pos.offset())
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// CornerPosition 卡面四个角的位置
type CornerPosition int

const (
	TopRight CornerPosition = iota
	TopLeft
	BottomLeft
	BottomRight

	cornerCount
)

// CornerPositions 四个角，按固定顺序
var CornerPositions = [cornerCount]CornerPosition{TopRight, TopLeft, BottomLeft, BottomRight}

var cornerNames = [cornerCount]string{"TOP_RIGHT", "TOP_LEFT", "BOTTOM_LEFT", "BOTTOM_RIGHT"}

var cornerOffsets = [cornerCount]Coordinate{
	TopRight:    {X: 1, Y: 1},
	TopLeft:     {X: -1, Y: 1},
	BottomLeft:  {X: -1, Y: -1},
	BottomRight: {X: 1, Y: -1},
}

func (p CornerPosition) offset() Coordinate {
	return cornerOffsets[p]
}

// Opposite 对角位置：左上方的邻居用它的右下角与本卡相接
func (p CornerPosition) Opposite() CornerPosition {
	return (p + 2) % cornerCount
}

func (p CornerPosition) String() string {
	if p < 0 || p >= cornerCount {
		return fmt.Sprintf("CornerPosition(%d)", int(p))
	}
	return cornerNames[p]
}

// ParseCornerPosition 解析角位置名称
func ParseCornerPosition(s string) (CornerPosition, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range cornerNames {
		if n == name {
			return CornerPosition(i), nil
		}
	}
	return TopRight, fmt.Errorf("unknown corner position %q", s)
}

func (p CornerPosition) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *CornerPosition) UnmarshalText(text []byte) error {
	parsed, err := ParseCornerPosition(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
