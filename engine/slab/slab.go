// Package slab provides chunked, fixed-size slot storage with an intrusive free list.
// Slots are never moved: chunks are appended on demand and never compacted, so a Ref handed out by
// Allocate stays valid until it is released.
package slab

import (
	"fmt"
	"math"
)

const (
	// DefaultChunkLength is the number of slots per chunk when WithChunkLength is not given.
	DefaultChunkLength = 64

	// MaxSlotSize is the largest payload, in bytes, a single slot may hold.
	MaxSlotSize = 4096

	// DefaultMaxSlots bounds the number of slots a slab may grow to.
	DefaultMaxSlots = math.MaxInt32
)

// Slab stores fixed-size byte slots in chunks of ChunkLength slots.
// It is not safe for concurrent use.
type Slab struct {
	freeList
	slotSize int
	chunks   [][]byte
}

// New creates an empty Slab for slots of slotSize bytes. No chunk is allocated until the first Allocate.
// Panics if slotSize is not in (0, MaxSlotSize] or if the configured chunk length is not positive.
//
// Parameters:
//   - slotSize: payload size of each slot in bytes
//   - options: functional options to configure chunk length and slot limit
//
// Returns:
//   - *Slab: the new slab
func New(slotSize int, options ...SlabBuilderOption) *Slab {
	if slotSize <= 0 || slotSize > MaxSlotSize {
		panic(fmt.Sprintf("slab: slot size %d outside (0, %d]", slotSize, MaxSlotSize))
	}
	cfg := slabConfig{
		chunkLength: DefaultChunkLength,
		maxSlots:    DefaultMaxSlots,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.chunkLength <= 0 {
		panic(fmt.Sprintf("slab: chunk length %d must be positive", cfg.chunkLength))
	}
	return &Slab{
		freeList: newFreeList(cfg.chunkLength, cfg.maxSlots),
		slotSize: slotSize,
	}
}

// Allocate pops a free slot, growing the slab by one chunk if none is free.
// The returned slot is live with a share count of 1 and a zeroed payload.
//
// Returns:
//   - Ref: the allocated slot
//   - error: ErrExhausted if the slot limit has been reached
func (s *Slab) Allocate() (Ref, error) {
	ref, ok := s.pop()
	if !ok {
		return NoRef, ErrExhausted
	}
	for len(s.chunks) < len(s.headers) {
		s.chunks = append(s.chunks, make([]byte, s.chunkLength*s.slotSize))
	}
	clear(s.Access(ref))
	return ref, nil
}

// Release pushes ref onto the head of the free list.
//
// Parameters:
//   - ref: a live slot
//
// Returns:
//   - error: ErrInvalidRef for unknown refs, ErrDoubleFree if the slot is already free
func (s *Slab) Release(ref Ref) error {
	return s.push(ref)
}

// Access returns the payload of ref as a slice aliasing the chunk memory.
// Panics if ref is out of range; use Contains to validate untrusted refs.
//
// Parameters:
//   - ref: the slot to resolve
//
// Returns:
//   - []byte: a SlotSize-long view of the slot payload
func (s *Slab) Access(ref Ref) []byte {
	chunk := s.chunks[int(ref)/s.chunkLength]
	off := (int(ref) % s.chunkLength) * s.slotSize
	return chunk[off : off+s.slotSize : off+s.slotSize]
}

// Contains reports whether ref lies inside an allocated chunk.
func (s *Slab) Contains(ref Ref) bool {
	return s.contains(ref)
}

// Header returns a copy of the bookkeeping word for ref. Panics if ref is out of range.
func (s *Slab) Header(ref Ref) Header {
	return *s.header(ref)
}

// IsLive reports whether ref is in range and currently allocated.
func (s *Slab) IsLive(ref Ref) bool {
	return s.contains(ref) && s.header(ref).Tag == TagLive
}

// SetShared overwrites the share count of a live slot.
//
// Parameters:
//   - ref: a live slot
//   - count: the new share count
//
// Returns:
//   - error: ErrInvalidRef if ref is out of range or not live
func (s *Slab) SetShared(ref Ref, count uint32) error {
	if !s.IsLive(ref) {
		return ErrInvalidRef
	}
	s.header(ref).Value = count
	return nil
}

// SlotSize returns the payload size of each slot in bytes.
func (s *Slab) SlotSize() int {
	return s.slotSize
}

// ChunkLength returns the number of slots per chunk.
func (s *Slab) ChunkLength() int {
	return s.chunkLength
}

// ChunkCount returns the number of chunks allocated so far.
func (s *Slab) ChunkCount() int {
	return len(s.chunks)
}

// Capacity returns the number of slots across all allocated chunks.
func (s *Slab) Capacity() int {
	return s.capacity()
}

// Live returns the number of allocated slots.
func (s *Slab) Live() int {
	return s.live
}

// FreeHead returns the slot the next Allocate will return without growing, or NoRef.
func (s *Slab) FreeHead() Ref {
	return s.head
}
