package slab

import "math"

// Ref is a stable reference to a slot. It decomposes into (ref / chunkLength, ref % chunkLength).
type Ref uint32

// NoRef terminates the free list.
const NoRef Ref = math.MaxUint32

// Tag says whether a slot is threaded on the free list or owned by a caller.
type Tag uint8

const (
	// TagFree marks a slot on the free list. Header.Value holds the next free Ref.
	TagFree Tag = iota

	// TagLive marks an allocated slot. Header.Value holds the slot's share count.
	TagLive
)

// Header is the per-slot bookkeeping word. The tag is explicit instead of overlapping the
// free-list link with the share count in the same memory.
type Header struct {
	Tag   Tag
	Value uint32
}

// freeList owns the chunked headers and the intrusive free list shared by Slab and Arena.
// Chunks are appended and never removed, so a Ref stays valid for the lifetime of its owner.
type freeList struct {
	chunkLength int
	maxSlots    int
	headers     [][]Header
	head        Ref
	live        int
}

func newFreeList(chunkLength, maxSlots int) freeList {
	return freeList{
		chunkLength: chunkLength,
		maxSlots:    maxSlots,
		head:        NoRef,
	}
}

func (f *freeList) capacity() int {
	return len(f.headers) * f.chunkLength
}

func (f *freeList) contains(ref Ref) bool {
	return ref != NoRef && int(ref) < f.capacity() && int(ref) < f.maxSlots
}

func (f *freeList) header(ref Ref) *Header {
	return &f.headers[int(ref)/f.chunkLength][int(ref)%f.chunkLength]
}

// grow appends one chunk and threads its slots onto the free list with the lowest index at the head.
// Slots past maxSlots are left tagged free but unreachable.
func (f *freeList) grow() bool {
	base := f.capacity()
	if base >= f.maxSlots {
		return false
	}
	hdrs := make([]Header, f.chunkLength)
	last := min(f.chunkLength, f.maxSlots-base)
	next := f.head
	for i := last - 1; i >= 0; i-- {
		hdrs[i] = Header{Tag: TagFree, Value: uint32(next)}
		next = Ref(base + i)
	}
	for i := last; i < f.chunkLength; i++ {
		hdrs[i] = Header{Tag: TagFree, Value: uint32(NoRef)}
	}
	f.headers = append(f.headers, hdrs)
	f.head = next
	return true
}

// pop takes the free-list head, growing by exactly one chunk when the list is empty.
func (f *freeList) pop() (Ref, bool) {
	if f.head == NoRef && !f.grow() {
		return NoRef, false
	}
	ref := f.head
	h := f.header(ref)
	f.head = Ref(h.Value)
	*h = Header{Tag: TagLive, Value: 1}
	f.live++
	return ref, true
}

// push returns ref to the head of the free list.
func (f *freeList) push(ref Ref) error {
	if !f.contains(ref) {
		return ErrInvalidRef
	}
	h := f.header(ref)
	if h.Tag == TagFree {
		return ErrDoubleFree
	}
	*h = Header{Tag: TagFree, Value: uint32(f.head)}
	f.head = ref
	f.live--
	return nil
}
