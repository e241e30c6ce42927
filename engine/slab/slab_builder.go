package slab

type slabConfig struct {
	chunkLength int
	maxSlots    int
}

// SlabBuilderOption is a function that configures a Slab or Arena during construction.
type SlabBuilderOption func(*slabConfig)

// WithChunkLength is an option builder that sets the number of slots per chunk.
//
// Parameters:
//   - n: slots per chunk (must be positive)
//
// Returns:
//   - SlabBuilderOption: a function that applies the chunk length option
func WithChunkLength(n int) SlabBuilderOption {
	return func(c *slabConfig) {
		c.chunkLength = n
	}
}

// WithMaxSlots is an option builder that caps the total number of slots the storage may grow to.
//
// Parameters:
//   - n: maximum slot count
//
// Returns:
//   - SlabBuilderOption: a function that applies the slot limit option
func WithMaxSlots(n int) SlabBuilderOption {
	return func(c *slabConfig) {
		c.maxSlots = n
	}
}
