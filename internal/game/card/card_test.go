package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudooom.codex.logic/internal/game/core"
)

// fakeSurface 测试用棋盘，按添加顺序记录放置
type fakeSurface struct {
	items  core.ItemStore
	grid   map[core.Coordinate]*Card
	placed []Placement
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{grid: make(map[core.Coordinate]*Card)}
}

func (s *fakeSurface) put(at core.Coordinate, color core.Color) {
	c := New(len(s.placed)+1, KindResource, color, plainFront(0), plainBack())
	c.MarkPlaced(len(s.placed) + 1)
	s.grid[at] = c
	s.placed = append(s.placed, Placement{Coordinate: at, Card: c})
}

func (s *fakeSurface) Items() core.ItemStore { return s.items }

func (s *fakeSurface) CardAt(at core.Coordinate) (*Card, bool) {
	c, ok := s.grid[at]
	return c, ok
}

func (s *fakeSurface) Placements() []Placement { return s.placed }

func allEmpty() Corners {
	return NewCorners(EmptyCorner, EmptyCorner, EmptyCorner, EmptyCorner)
}

func plainFront(points int) Side { return NewPlainFront(allEmpty(), points) }
func plainBack() Side            { return NewBack(allEmpty(), core.ItemStore{}) }

func diagonal(n int) Pattern {
	p := make(Pattern, n)
	for i := range p {
		p[i] = PatternCell{Offset: core.Coordinate{X: i, Y: i}, Color: core.ColorRed}
	}
	return p
}

func TestCardFlip(t *testing.T) {
	front := plainFront(1)
	back := plainBack()
	c := New(7, KindResource, core.ColorGreen, front, back)

	assert.False(t, c.IsFlipped())
	assert.Equal(t, SidePlain, c.Current().Kind())

	c.Flip()
	assert.True(t, c.IsFlipped())
	assert.Equal(t, SideBack, c.Current().Kind())

	c.Flip()
	assert.False(t, c.IsFlipped(), "翻两次应回到原来的面")
	assert.Equal(t, front, c.Current())

	c.SetFlipped(true)
	c.SetFlipped(true)
	assert.True(t, c.IsFlipped())
}

func TestCardPlacementAndCover(t *testing.T) {
	c := New(1, KindStarter, core.ColorNone, plainFront(0), plainBack())

	assert.False(t, c.MarkPlaced(0))
	assert.True(t, c.MarkPlaced(3))
	assert.False(t, c.MarkPlaced(4), "放置序号只能设置一次")
	assert.Equal(t, 3, c.PlacementIndex())

	assert.True(t, c.Cover(core.TopLeft))
	assert.False(t, c.Cover(core.TopLeft))
	assert.True(t, c.IsCovered(core.TopLeft))
	assert.False(t, c.IsCovered(core.TopRight))

	clone := c.Clone()
	clone.Flip()
	assert.False(t, c.IsFlipped(), "克隆体翻面不影响原卡")
}

func TestSideYield(t *testing.T) {
	corners := NewCorners(CornerWith(core.ItemPlant), NoCorner, EmptyCorner, CornerWith(core.ItemPlant))

	front := NewPlainFront(corners, 0)
	assert.Equal(t, 2, front.Yield().Get(core.ItemPlant))
	assert.Equal(t, 0, front.Yield().Get(core.ItemNone))

	back := NewBack(corners, core.NewItemStore(map[core.Item]int{core.ItemFungi: 1}))
	assert.Equal(t, 2, back.Yield().Get(core.ItemPlant))
	assert.Equal(t, 1, back.Yield().Get(core.ItemFungi))
	assert.True(t, back.Requirement().IsEmpty())
	assert.Equal(t, 0, back.Points(core.Origin, newFakeSurface()))

	assert.False(t, front.Corner(core.TopLeft).Present)
	assert.True(t, front.Corner(core.BottomLeft).Present)
}

func TestGoldSidePoints(t *testing.T) {
	needs := core.NewItemStore(map[core.Item]int{core.ItemAnimal: 2})
	surface := newFakeSurface()
	surface.items = core.NewItemStore(map[core.Item]int{core.ItemQuill: 3})

	res := NewGoldResourceFront(allEmpty(), 5, needs)
	assert.Equal(t, 5, res.Points(core.Origin, surface))
	assert.Equal(t, needs, res.Requirement())

	item := NewGoldItemFront(allEmpty(), 1, needs, core.ItemQuill)
	assert.Equal(t, 3, item.Points(core.Origin, surface))

	surface.put(core.Coordinate{X: 0, Y: 0}, core.ColorRed)
	surface.put(core.Coordinate{X: 1, Y: 1}, core.ColorRed)
	surface.put(core.Coordinate{X: -1, Y: -1}, core.ColorRed)
	pos := NewGoldPositionalFront(allEmpty(), 2, needs, diagonal(2))

	// (0,0) 同时是 (-1,-1)->(0,0) 和 (0,0)->(1,1) 两个图案的一部分
	assert.Equal(t, 4, pos.Points(core.Origin, surface))
	assert.Equal(t, 2, pos.Points(core.Coordinate{X: 1, Y: 1}, surface))
}

func TestItemObjective(t *testing.T) {
	tests := []struct {
		name    string
		need    map[core.Item]int
		points  int
		amounts map[core.Item]int
		want    int
	}{
		{
			name:    "single kind",
			need:    map[core.Item]int{core.ItemFungi: 3},
			points:  2,
			amounts: map[core.Item]int{core.ItemFungi: 7},
			want:    4,
		},
		{
			name:    "multi kind uses minimum",
			need:    map[core.Item]int{core.ItemInkwell: 1, core.ItemManuscript: 1, core.ItemQuill: 1},
			points:  3,
			amounts: map[core.Item]int{core.ItemInkwell: 4, core.ItemManuscript: 3, core.ItemQuill: 6},
			want:    9,
		},
		{
			name:    "missing kind scores zero",
			need:    map[core.Item]int{core.ItemInkwell: 1, core.ItemQuill: 1},
			points:  3,
			amounts: map[core.Item]int{core.ItemInkwell: 4},
			want:    0,
		},
		{
			name:   "empty pattern scores zero",
			need:   nil,
			points: 3,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surface := newFakeSurface()
			surface.items = core.NewItemStore(tt.amounts)

			obj := NewItemObjective(1, tt.points, core.NewItemStore(tt.need))
			assert.Equal(t, tt.want, obj.Points(surface))
			assert.Equal(t, ObjectiveItemCount, obj.Kind())
		})
	}
}

func TestPositionalObjective(t *testing.T) {
	tests := []struct {
		name   string
		length int // 斜线上红卡数量
		points int
		want   int
	}{
		{name: "two occurrences at 3 points", length: 6, points: 3, want: 6},
		{name: "two occurrences at 2 points", length: 6, points: 2, want: 4},
		{name: "overlapping cards counted once", length: 4, points: 2, want: 2},
		{name: "too short", length: 2, points: 2, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surface := newFakeSurface()
			surface.put(core.Origin, core.ColorNone)
			for i := 1; i <= tt.length; i++ {
				surface.put(core.Coordinate{X: i, Y: i}, core.ColorRed)
			}

			obj := NewPositionalObjective(2, tt.points, diagonal(3))
			require.NoError(t, obj.Pattern().Validate())
			assert.Equal(t, tt.want, obj.Points(surface))
		})
	}
}

func TestPositionalObjectiveIgnoresPlacementOrder(t *testing.T) {
	orders := [][]int{
		{1, 2, 3, 4, 5, 6},
		{3, 4, 5, 2, 1, 6},
		{6, 5, 4, 3, 2, 1},
		{2, 5, 3, 6, 1, 4},
	}
	obj := NewPositionalObjective(2, 3, diagonal(3))

	for _, order := range orders {
		surface := newFakeSurface()
		surface.put(core.Origin, core.ColorNone)
		for _, i := range order {
			surface.put(core.Coordinate{X: i, Y: i}, core.ColorRed)
		}
		assert.Equal(t, 6, obj.Points(surface), "order %v", order)
	}
}

func TestPatternColorsMustMatch(t *testing.T) {
	// L 形：两张红卡竖向堆叠，右下方一张绿卡
	pattern := Pattern{
		{Offset: core.Coordinate{X: 0, Y: 0}, Color: core.ColorRed},
		{Offset: core.Coordinate{X: 0, Y: 2}, Color: core.ColorRed},
		{Offset: core.Coordinate{X: 1, Y: -1}, Color: core.ColorGreen},
	}

	surface := newFakeSurface()
	surface.put(core.Coordinate{X: 0, Y: 0}, core.ColorRed)
	surface.put(core.Coordinate{X: 0, Y: 2}, core.ColorRed)
	surface.put(core.Coordinate{X: 1, Y: -1}, core.ColorBlue)
	assert.Equal(t, 0, pattern.Count(surface))

	surface.grid[core.Coordinate{X: 1, Y: -1}] = New(99, KindResource, core.ColorGreen, plainFront(0), plainBack())
	surface.placed[2].Card = surface.grid[core.Coordinate{X: 1, Y: -1}]
	assert.Equal(t, 1, pattern.Count(surface))
}

func TestPatternValidate(t *testing.T) {
	assert.Error(t, Pattern{}.Validate())
	assert.Error(t, Pattern{{Offset: core.Coordinate{X: 1, Y: 1}}}.Validate())
	assert.Error(t, Pattern{
		{Offset: core.Origin},
		{Offset: core.Origin},
	}.Validate())
	assert.NoError(t, diagonal(3).Validate())
}
