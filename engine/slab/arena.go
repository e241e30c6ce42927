package slab

import "fmt"

// Arena is the typed counterpart of Slab: it stores values of T in chunks with the same
// free-list and growth policy. Pointers returned by Allocate and Get stay valid until release
// because chunks are never reallocated.
type Arena[T any] struct {
	freeList
	chunks [][]T
}

// NewArena creates an empty Arena.
// Panics if the configured chunk length is not positive.
//
// Parameters:
//   - options: functional options to configure chunk length and slot limit
//
// Returns:
//   - *Arena[T]: the new arena
func NewArena[T any](options ...SlabBuilderOption) *Arena[T] {
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
	return &Arena[T]{freeList: newFreeList(cfg.chunkLength, cfg.maxSlots)}
}

// Allocate reserves a zeroed element and returns its reference and address.
//
// Returns:
//   - Ref: the element reference
//   - *T: pointer to the element storage
//   - error: ErrExhausted if the slot limit has been reached
func (a *Arena[T]) Allocate() (Ref, *T, error) {
	ref, ok := a.pop()
	if !ok {
		return NoRef, nil, ErrExhausted
	}
	for len(a.chunks) < len(a.headers) {
		a.chunks = append(a.chunks, make([]T, a.chunkLength))
	}
	p := a.at(ref)
	var zero T
	*p = zero
	return ref, p, nil
}

// Get returns the element stored at ref, or nil if ref is not live.
func (a *Arena[T]) Get(ref Ref) *T {
	if !a.contains(ref) || a.header(ref).Tag != TagLive {
		return nil
	}
	return a.at(ref)
}

// Release frees ref for reuse.
//
// Returns:
//   - error: ErrInvalidRef for unknown refs, ErrDoubleFree if the element is already free
func (a *Arena[T]) Release(ref Ref) error {
	if err := a.push(ref); err != nil {
		return err
	}
	var zero T
	*a.at(ref) = zero
	return nil
}

// Len returns the number of live elements.
func (a *Arena[T]) Len() int {
	return a.live
}

func (a *Arena[T]) at(ref Ref) *T {
	return &a.chunks[int(ref)/a.chunkLength][int(ref)%a.chunkLength]
}
