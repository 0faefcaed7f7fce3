package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCornerPositionOpposite(t *testing.T) {
	tests := []struct {
		pos  CornerPosition
		want CornerPosition
	}{
		{TopRight, BottomLeft},
		{TopLeft, BottomRight},
		{BottomLeft, TopRight},
		{BottomRight, TopLeft},
	}

	for _, tt := range tests {
		t.Run(tt.pos.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pos.Opposite())
			assert.Equal(t, tt.pos, tt.pos.Opposite().Opposite())
		})
	}
}

func TestCoordinateNeighbor(t *testing.T) {
	c := Coordinate{X: 2, Y: -1}

	assert.Equal(t, Coordinate{X: 3, Y: 0}, c.Neighbor(TopRight))
	assert.Equal(t, Coordinate{X: 1, Y: 0}, c.Neighbor(TopLeft))
	assert.Equal(t, Coordinate{X: 1, Y: -2}, c.Neighbor(BottomLeft))
	assert.Equal(t, Coordinate{X: 3, Y: -2}, c.Neighbor(BottomRight))

	// 邻居的对角方向回到自身
	for _, pos := range CornerPositions {
		assert.Equal(t, c, c.Neighbor(pos).Neighbor(pos.Opposite()))
	}
}

func TestItemStore(t *testing.T) {
	var s ItemStore
	assert.True(t, s.IsEmpty())
	assert.Len(t, s.Map(), len(Items()), "计数表必须覆盖全部物品")

	s.Add(ItemFungi, 3)
	s.Add(ItemQuill, 1)
	s.Add(ItemFungi, -1)

	assert.Equal(t, 2, s.Get(ItemFungi))
	assert.Equal(t, 0, s.Get(ItemPlant))
	assert.Equal(t, []Item{ItemFungi, ItemQuill}, s.NonZero())

	need := NewItemStore(map[Item]int{ItemFungi: 2})
	assert.True(t, s.Covers(need))
	need.Add(ItemFungi, 1)
	assert.False(t, s.Covers(need))

	sum := s.Plus(NewItemStore(map[Item]int{ItemPlant: 4}))
	assert.Equal(t, 4, sum.Get(ItemPlant))
	assert.Equal(t, 0, s.Get(ItemPlant), "Plus 不应修改接收者")
}

func TestItemStoreJSON(t *testing.T) {
	s := NewItemStore(map[Item]int{ItemInkwell: 2})

	data, err := s.MarshalJSON()
	require.NoError(t, err)

	var decoded ItemStore
	require.NoError(t, decoded.UnmarshalJSON(data))
	assert.Equal(t, s, decoded)
}

func TestParseItem(t *testing.T) {
	item, err := ParseItem("fungi")
	require.NoError(t, err)
	assert.Equal(t, ItemFungi, item)

	_, err = ParseItem("gold")
	assert.Error(t, err)
}

func TestGameErrorCopiesDoNotMutateSentinel(t *testing.T) {
	err := ErrPositionOccupied.WithContext("coordinate", Origin).WithCause(errors.New("boom"))

	assert.True(t, errors.Is(err, ErrPositionOccupied))
	assert.False(t, errors.Is(err, ErrNotAdjacent))
	assert.Empty(t, ErrPositionOccupied.Context)
	assert.Nil(t, ErrPositionOccupied.Cause)
	assert.Equal(t, KindValidation, KindOf(err))

	wrapped := fmt.Errorf("place: %w", ErrNotYourTurn)
	assert.Equal(t, KindState, KindOf(wrapped))
	assert.Equal(t, "NOT_YOUR_TURN", CodeOf(wrapped))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}

func TestPawnPalette(t *testing.T) {
	for _, c := range PawnPalette {
		assert.True(t, c.IsValid())
	}
	assert.False(t, PawnUnset.IsValid())
	assert.False(t, PawnColor("BLACK").IsValid())
}
