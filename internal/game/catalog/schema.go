package catalog

import (
	"errors"
	"fmt"

	"sudooom.codex.logic/internal/game/card"
	"sudooom.codex.logic/internal/game/core"
)

// catalogFile YAML 目录结构
type catalogFile struct {
	Starters   []starterDef   `yaml:"starters"`
	Resources  []resourceDef  `yaml:"resources"`
	Golds      []goldDef      `yaml:"golds"`
	Objectives []objectiveDef `yaml:"objectives"`
}

// faceDef 一个面：四个角按 右上、左上、左下、右下 排列
// 角取值为物品名称，EMPTY 表示空角，ABSENT 表示没有角
type faceDef struct {
	Corners []string       `yaml:"corners"`
	Center  map[string]int `yaml:"center"`
	Points  int            `yaml:"points"`
}

type starterDef struct {
	ID    int     `yaml:"id"`
	Front faceDef `yaml:"front"`
	Back  faceDef `yaml:"back"`
}

type resourceDef struct {
	ID      int        `yaml:"id"`
	Color   core.Color `yaml:"color"`
	Points  int        `yaml:"points"`
	Corners []string   `yaml:"corners"`
}

type goldDef struct {
	ID      int            `yaml:"id"`
	Color   core.Color     `yaml:"color"`
	Points  int            `yaml:"points"`
	Corners []string       `yaml:"corners"`
	Needs   map[string]int `yaml:"needs"`
	Scoring scoringDef     `yaml:"scoring"`
}

// scoringDef 金卡计分方式：空为固定分，ITEM 按物品倍数，POSITIONAL 按图案
type scoringDef struct {
	Type    string       `yaml:"type"`
	Item    core.Item    `yaml:"item"`
	Pattern []patternDef `yaml:"pattern"`
}

type patternDef struct {
	X     int        `yaml:"x"`
	Y     int        `yaml:"y"`
	Color core.Color `yaml:"color"`
}

type objectiveDef struct {
	ID      int            `yaml:"id"`
	Points  int            `yaml:"points"`
	Items   map[string]int `yaml:"items"`
	Pattern []patternDef   `yaml:"pattern"`
}

// colorResource 资源卡背面中心的资源
var colorResource = map[core.Color]core.Item{
	core.ColorRed:    core.ItemFungi,
	core.ColorGreen:  core.ItemPlant,
	core.ColorBlue:   core.ItemAnimal,
	core.ColorPurple: core.ItemInsect,
}

// builder 把定义转换为卡牌，并检查 ID 唯一
type builder struct {
	ids map[int]string
}

func (b *builder) claim(id int, what string) error {
	if id <= 0 {
		return invalid(id, "id must be positive")
	}
	if prev, ok := b.ids[id]; ok {
		return invalid(id, fmt.Sprintf("id already used by %s", prev))
	}
	b.ids[id] = what
	return nil
}

func (b *builder) starter(d starterDef) (*card.Card, error) {
	if err := b.claim(d.ID, "starter"); err != nil {
		return nil, err
	}
	frontCorners, err := parseCorners(d.Front.Corners)
	if err != nil {
		return nil, invalid(d.ID, err.Error())
	}
	backCorners, err := parseCorners(d.Back.Corners)
	if err != nil {
		return nil, invalid(d.ID, err.Error())
	}
	center, err := parseStore(d.Back.Center)
	if err != nil {
		return nil, invalid(d.ID, err.Error())
	}
	return card.New(d.ID, card.KindStarter, core.ColorNone,
		card.NewPlainFront(frontCorners, d.Front.Points),
		card.NewBack(backCorners, center)), nil
}

func (b *builder) resource(d resourceDef) (*card.Card, error) {
	if err := b.claim(d.ID, "resource"); err != nil {
		return nil, err
	}
	corners, err := parseCorners(d.Corners)
	if err != nil {
		return nil, invalid(d.ID, err.Error())
	}
	back, err := defaultBack(d.ID, d.Color)
	if err != nil {
		return nil, err
	}
	return card.New(d.ID, card.KindResource, d.Color, card.NewPlainFront(corners, d.Points), back), nil
}

func (b *builder) gold(d goldDef) (*card.Card, error) {
	if err := b.claim(d.ID, "gold"); err != nil {
		return nil, err
	}
	corners, err := parseCorners(d.Corners)
	if err != nil {
		return nil, invalid(d.ID, err.Error())
	}
	needs, err := parseStore(d.Needs)
	if err != nil {
		return nil, invalid(d.ID, err.Error())
	}
	back, err := defaultBack(d.ID, d.Color)
	if err != nil {
		return nil, err
	}

	var front card.Side
	switch d.Scoring.Type {
	case "", "FIXED":
		front = card.NewGoldResourceFront(corners, d.Points, needs)
	case "ITEM":
		if d.Scoring.Item == core.ItemNone {
			return nil, invalid(d.ID, "item scoring needs an item")
		}
		front = card.NewGoldItemFront(corners, d.Points, needs, d.Scoring.Item)
	case "POSITIONAL":
		pattern := parsePattern(d.Scoring.Pattern)
		if err := pattern.Validate(); err != nil {
			return nil, invalid(d.ID, err.Error())
		}
		front = card.NewGoldPositionalFront(corners, d.Points, needs, pattern)
	default:
		return nil, invalid(d.ID, fmt.Sprintf("unknown scoring type %q", d.Scoring.Type))
	}
	return card.New(d.ID, card.KindGold, d.Color, front, back), nil
}

func (b *builder) objective(d objectiveDef) (card.Objective, error) {
	if err := b.claim(d.ID, "objective"); err != nil {
		return nil, err
	}
	if d.Points <= 0 {
		return nil, invalid(d.ID, "objective points must be positive")
	}

	switch {
	case len(d.Items) > 0 && len(d.Pattern) > 0:
		return nil, invalid(d.ID, "objective has both items and pattern")
	case len(d.Items) > 0:
		need, err := parseStore(d.Items)
		if err != nil {
			return nil, invalid(d.ID, err.Error())
		}
		return card.NewItemObjective(d.ID, d.Points, need), nil
	case len(d.Pattern) > 0:
		pattern := parsePattern(d.Pattern)
		if err := pattern.Validate(); err != nil {
			return nil, invalid(d.ID, err.Error())
		}
		return card.NewPositionalObjective(d.ID, d.Points, pattern), nil
	default:
		return nil, invalid(d.ID, "objective has neither items nor pattern")
	}
}

// defaultBack 资源卡与金卡的背面：四个空角，中心为颜色对应的资源
func defaultBack(id int, color core.Color) (card.Back, error) {
	item, ok := colorResource[color]
	if !ok {
		return card.Back{}, invalid(id, fmt.Sprintf("color %s is not a kingdom", color))
	}
	open := card.NewCorners(card.EmptyCorner, card.EmptyCorner, card.EmptyCorner, card.EmptyCorner)
	return card.NewBack(open, core.NewItemStore(map[core.Item]int{item: 1})), nil
}

func parseCorners(names []string) (card.Corners, error) {
	var corners card.Corners
	if len(names) != len(corners) {
		return corners, fmt.Errorf("need 4 corners, got %d", len(names))
	}
	for i, name := range names {
		switch name {
		case "ABSENT":
			corners[i] = card.NoCorner
		case "EMPTY":
			corners[i] = card.EmptyCorner
		default:
			item, err := core.ParseItem(name)
			if err != nil {
				return corners, err
			}
			corners[i] = card.CornerWith(item)
		}
	}
	return corners, nil
}

func parseStore(m map[string]int) (core.ItemStore, error) {
	var s core.ItemStore
	for name, n := range m {
		item, err := core.ParseItem(name)
		if err != nil {
			return s, err
		}
		if item == core.ItemNone {
			return s, fmt.Errorf("%s is not a countable item", name)
		}
		if n <= 0 {
			return s, fmt.Errorf("amount of %s must be positive", name)
		}
		s.Add(item, n)
	}
	return s, nil
}

func parsePattern(defs []patternDef) card.Pattern {
	p := make(card.Pattern, 0, len(defs))
	for _, d := range defs {
		p = append(p, card.PatternCell{Offset: core.Coordinate{X: d.X, Y: d.Y}, Color: d.Color})
	}
	return p
}

func invalid(id int, reason string) error {
	return core.ErrInvalidCatalog.WithContext("id", id).WithCause(errors.New(reason))
}
