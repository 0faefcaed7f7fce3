package card

import "sudooom.codex.logic/internal/game/core"

// SideKind 卡面种类
type SideKind string

const (
	SidePlain          SideKind = "FRONT_PLAIN"
	SideGoldResource   SideKind = "FRONT_GOLD_RESOURCE"
	SideGoldItem       SideKind = "FRONT_GOLD_ITEM"
	SideGoldPositional SideKind = "FRONT_GOLD_POSITIONAL"
	SideBack           SideKind = "BACK"
)

// Surface 计分时可见的棋盘
type Surface interface {
	// Items 当前物品计数
	Items() core.ItemStore
	// CardAt 查询坐标上的卡牌
	CardAt(c core.Coordinate) (*Card, bool)
	// Placements 按放置顺序返回所有卡牌
	Placements() []Placement
}

// Placement 棋盘上的一张卡及其坐标
type Placement struct {
	Coordinate core.Coordinate
	Card       *Card
}

// Side 卡面行为
// 实现是封闭集合：PlainFront、GoldResourceFront、GoldItemFront、GoldPositionalFront、Back
type Side interface {
	Kind() SideKind
	Corner(pos core.CornerPosition) Corner
	// Yield 放置该面后获得的物品
	Yield() core.ItemStore
	// Requirement 放置前需要拥有的物品
	Requirement() core.ItemStore
	// Points 放置后得分，surface 已包含刚放下的这张卡
	Points(at core.Coordinate, surface Surface) int

	sealed()
}

type face struct {
	corners Corners
}

func (f face) Corner(pos core.CornerPosition) Corner { return f.corners[pos] }
func (f face) Yield() core.ItemStore                 { return f.corners.Yield() }
func (face) sealed()                                 {}

// PlainFront 普通正面，固定分值
type PlainFront struct {
	face
	points int
}

func NewPlainFront(corners Corners, points int) PlainFront {
	return PlainFront{face: face{corners: corners}, points: points}
}

func (PlainFront) Kind() SideKind                        { return SidePlain }
func (PlainFront) Requirement() core.ItemStore           { return core.ItemStore{} }
func (s PlainFront) Points(core.Coordinate, Surface) int { return s.points }
func (s PlainFront) BasePoints() int                     { return s.points }

type gold struct {
	face
	points int
	needs  core.ItemStore
}

func (g gold) Requirement() core.ItemStore { return g.needs }
func (g gold) BasePoints() int             { return g.points }

// GoldResourceFront 金卡正面：满足资源要求后给固定分
type GoldResourceFront struct {
	gold
}

func NewGoldResourceFront(corners Corners, points int, needs core.ItemStore) GoldResourceFront {
	return GoldResourceFront{gold{face: face{corners: corners}, points: points, needs: needs}}
}

func (GoldResourceFront) Kind() SideKind                        { return SideGoldResource }
func (s GoldResourceFront) Points(core.Coordinate, Surface) int { return s.points }

// GoldItemFront 金卡正面：分值 × 放置后玩家拥有的指定物品数量
type GoldItemFront struct {
	gold
	multiplier core.Item
}

func NewGoldItemFront(corners Corners, points int, needs core.ItemStore, multiplier core.Item) GoldItemFront {
	return GoldItemFront{
		gold:       gold{face: face{corners: corners}, points: points, needs: needs},
		multiplier: multiplier,
	}
}

func (GoldItemFront) Kind() SideKind          { return SideGoldItem }
func (s GoldItemFront) Multiplier() core.Item { return s.multiplier }

func (s GoldItemFront) Points(_ core.Coordinate, surface Surface) int {
	return s.points * surface.Items().Get(s.multiplier)
}

// GoldPositionalFront 金卡正面：分值 × 包含本卡的图案出现次数
type GoldPositionalFront struct {
	gold
	pattern Pattern
}

func NewGoldPositionalFront(corners Corners, points int, needs core.ItemStore, pattern Pattern) GoldPositionalFront {
	return GoldPositionalFront{
		gold:    gold{face: face{corners: corners}, points: points, needs: needs},
		pattern: pattern,
	}
}

func (GoldPositionalFront) Kind() SideKind     { return SideGoldPositional }
func (s GoldPositionalFront) Pattern() Pattern { return s.pattern }

func (s GoldPositionalFront) Points(at core.Coordinate, surface Surface) int {
	return s.points * s.pattern.CountThrough(surface, at)
}

// Back 背面：不得分，额外带中心物品
type Back struct {
	face
	center core.ItemStore
}

func NewBack(corners Corners, center core.ItemStore) Back {
	return Back{face: face{corners: corners}, center: center}
}

func (Back) Kind() SideKind                      { return SideBack }
func (Back) Requirement() core.ItemStore         { return core.ItemStore{} }
func (Back) Points(core.Coordinate, Surface) int { return 0 }
func (s Back) Center() core.ItemStore            { return s.center }

func (s Back) Yield() core.ItemStore {
	return s.corners.Yield().Plus(s.center)
}
