package material

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/slab"
)

// TemplateID is the dense identifier of a loaded template. It occupies the high 16 bits of a Material.
type TemplateID uint16

// Slot describes one named uniform within a template's instance layout.
type Slot struct {
	// Name is the uniform name, also used to resolve Location.
	Name string
	// Kind is the uniform type stored in the slot.
	Kind shader.UniformKind
	// Offset is the byte offset of the slot inside an instance payload.
	Offset int
	// Location is the uniform location resolved from the template's program, or -1.
	Location int32
}

// Template is the read-only view of a loaded material template.
// A template is immutable once loaded and lives as long as its Manager.
type Template interface {
	// ID returns the template's identifier.
	ID() TemplateID

	// Path returns the cleaned absolute path of the schema the template was loaded from.
	Path() string

	// Program returns the compiled shader program used by materials of this template.
	Program() shader.Program

	// Slots returns a copy of the slot layout, sorted by name.
	Slots() []Slot

	// SlotIndex finds a slot by name using binary search over the sorted layout.
	//
	// Parameters:
	//   - name: the slot name
	//
	// Returns:
	//   - int: the slot index
	//   - bool: false if no slot has that name
	SlotIndex(name string) (int, bool)

	// InstanceSize returns the payload size of one instance in bytes.
	InstanceSize() int

	// SlotSize returns the accounted size of one instance slot: payload plus the header word.
	SlotSize() int

	// Live returns the number of live instance slots, including the default.
	Live() int

	// ChunkCount returns the number of chunks backing the template's instances.
	ChunkCount() int
}

// template is the descriptor stored in the manager's template arena.
type template struct {
	id        TemplateID
	path      string
	program   shader.Program
	slots     []Slot
	size      int
	instances *slab.Slab
}

var _ Template = &template{}

func (t *template) ID() TemplateID {
	return t.id
}

func (t *template) Path() string {
	return t.path
}

func (t *template) Program() shader.Program {
	return t.program
}

func (t *template) Slots() []Slot {
	out := make([]Slot, len(t.slots))
	copy(out, t.slots)
	return out
}

func (t *template) SlotIndex(name string) (int, bool) {
	i := sort.Search(len(t.slots), func(i int) bool {
		return t.slots[i].Name >= name
	})
	if i < len(t.slots) && t.slots[i].Name == name {
		return i, true
	}
	return -1, false
}

func (t *template) InstanceSize() int {
	return t.size
}

func (t *template) SlotSize() int {
	return t.size + headerSize
}

func (t *template) Live() int {
	return t.instances.Live()
}

func (t *template) ChunkCount() int {
	return t.instances.ChunkCount()
}

// payload returns the instance bytes of ref, trimmed to the layout size.
func (t *template) payload(ref slab.Ref) []byte {
	return t.instances.Access(ref)[:t.size]
}
