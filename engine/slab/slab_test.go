package slab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlabAllocateGrowsOneChunkAtATime(t *testing.T) {
	s := New(8, WithChunkLength(4))
	assert.Equal(t, 0, s.ChunkCount())

	refs := make([]Ref, 0, 5)
	for i := 0; i < 4; i++ {
		ref, err := s.Allocate()
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	assert.Equal(t, []Ref{0, 1, 2, 3}, refs)
	assert.Equal(t, 1, s.ChunkCount())
	assert.Equal(t, NoRef, s.FreeHead())

	ref, err := s.Allocate()
	require.NoError(t, err)
	assert.Equal(t, Ref(4), ref)
	assert.Equal(t, 2, s.ChunkCount())
	assert.Equal(t, 8, s.Capacity())
	assert.Equal(t, 5, s.Live())
	assert.Equal(t, Ref(5), s.FreeHead())
}

func TestSlabReleaseIsLIFO(t *testing.T) {
	s := New(4, WithChunkLength(8))
	a, _ := s.Allocate()
	b, _ := s.Allocate()
	c, _ := s.Allocate()

	require.NoError(t, s.Release(a))
	require.NoError(t, s.Release(c))

	next, err := s.Allocate()
	require.NoError(t, err)
	assert.Equal(t, c, next)

	next, err = s.Allocate()
	require.NoError(t, err)
	assert.Equal(t, a, next)

	assert.True(t, s.IsLive(b))
	assert.Equal(t, 3, s.Live())
}

func TestSlabPayloadIsStableAcrossGrowth(t *testing.T) {
	s := New(4, WithChunkLength(2))
	first, _ := s.Allocate()
	copy(s.Access(first), []byte{1, 2, 3, 4})

	for i := 0; i < 10; i++ {
		_, err := s.Allocate()
		require.NoError(t, err)
	}
	assert.Equal(t, []byte{1, 2, 3, 4}, s.Access(first))
	assert.Len(t, s.Access(first), 4)
	assert.Equal(t, 4, cap(s.Access(first)))
}

func TestSlabAllocateZeroesRecycledSlot(t *testing.T) {
	s := New(4)
	ref, _ := s.Allocate()
	copy(s.Access(ref), []byte{9, 9, 9, 9})
	require.NoError(t, s.Release(ref))

	again, _ := s.Allocate()
	assert.Equal(t, ref, again)
	assert.Equal(t, []byte{0, 0, 0, 0}, s.Access(again))
}

func TestSlabHeaders(t *testing.T) {
	s := New(4)
	ref, _ := s.Allocate()
	assert.Equal(t, Header{Tag: TagLive, Value: 1}, s.Header(ref))

	require.NoError(t, s.SetShared(ref, 7))
	assert.Equal(t, uint32(7), s.Header(ref).Value)

	require.NoError(t, s.Release(ref))
	assert.Equal(t, TagFree, s.Header(ref).Tag)
	assert.ErrorIs(t, s.SetShared(ref, 2), ErrInvalidRef)
}

func TestSlabReleaseErrors(t *testing.T) {
	s := New(4, WithChunkLength(2))
	ref, _ := s.Allocate()
	require.NoError(t, s.Release(ref))

	assert.ErrorIs(t, s.Release(ref), ErrDoubleFree)
	assert.ErrorIs(t, s.Release(Ref(2)), ErrInvalidRef)
	assert.ErrorIs(t, s.Release(NoRef), ErrInvalidRef)
	assert.Equal(t, 0, s.Live())
}

func TestSlabMaxSlots(t *testing.T) {
	s := New(4, WithChunkLength(4), WithMaxSlots(6))
	for i := 0; i < 6; i++ {
		_, err := s.Allocate()
		require.NoError(t, err)
	}
	_, err := s.Allocate()
	assert.ErrorIs(t, err, ErrExhausted)
	assert.False(t, s.Contains(Ref(6)))
}

func TestNewPanicsOnOversizedSlot(t *testing.T) {
	assert.Panics(t, func() { New(MaxSlotSize + 1) })
	assert.Panics(t, func() { New(0) })
	assert.Panics(t, func() { New(4, WithChunkLength(0)) })
	assert.NotPanics(t, func() { New(MaxSlotSize) })
}
