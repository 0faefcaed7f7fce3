package core

import (
	"fmt"
	"strings"
)

// Color 卡牌颜色，起始卡为 ColorNone
type Color int

const (
	ColorNone Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorPurple

	colorCount
)

var colorNames = [colorCount]string{"NONE", "RED", "GREEN", "BLUE", "PURPLE"}

func (c Color) String() string {
	if c < 0 || c >= colorCount {
		return fmt.Sprintf("Color(%d)", int(c))
	}
	return colorNames[c]
}

// ParseColor 解析卡牌颜色
func ParseColor(s string) (Color, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range colorNames {
		if n == name {
			return Color(i), nil
		}
	}
	return ColorNone, fmt.Errorf("unknown card color %q", s)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// PawnColor 玩家棋子颜色，每局游戏内唯一
type PawnColor string

const (
	PawnUnset  PawnColor = ""
	PawnRed    PawnColor = "RED"
	PawnBlue   PawnColor = "BLUE"
	PawnGreen  PawnColor = "GREEN"
	PawnYellow PawnColor = "YELLOW"
)

// PawnPalette 可选棋子颜色，顺序即自动分配顺序
var PawnPalette = []PawnColor{PawnRed, PawnBlue, PawnGreen, PawnYellow}

// IsValid 是否属于调色板
func (p PawnColor) IsValid() bool {
	for _, c := range PawnPalette {
		if c == p {
			return true
		}
	}
	return false
}
