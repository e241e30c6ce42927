package slab

import "errors"

var (
	ErrInvalidRef = errors.New("slab: reference out of range")
	ErrDoubleFree = errors.New("slab: slot is already free")
	ErrExhausted  = errors.New("slab: maximum slot count reached")
)
