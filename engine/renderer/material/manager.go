// Package material stores shader uniform values for many material instances.
//
// A Template describes one shader program and its sorted, typed uniform slots. Every template owns a
// slab of fixed-size instance slots; slot 0 holds the template's defaults and is never freed. A Material
// is a 32-bit handle naming a template and an instance slot. Handles alias the same slot until a write
// through SetValue copies the slot (copy-on-write), so materials that are never edited cost nothing.
//
// A Manager is not safe for concurrent use. All calls must come from the goroutine that owns the
// graphics context.
package material

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/slab"
	"github.com/Carmen-Shannon/oxy-gl/log"
)

const (
	// MaxTemplates is the number of templates a Manager can hold; IDs use 16 bits.
	MaxTemplates = math.MaxUint16 + 1

	// MaxInstances is the number of instance slots a template can hold; instance IDs use 16 bits.
	MaxInstances = math.MaxUint16 + 1

	// DefaultWorkers is the worker count PreloadTemplates uses when WithWorkers is not given.
	DefaultWorkers = 4
)

var logger = log.New("material")

// Manager owns every loaded template and all material instance data.
type Manager interface {
	// LoadTemplate loads a schema document, or returns the cached template for a path loaded before.
	// Nothing is committed unless the whole document validates and its program compiles.
	//
	// Parameters:
	//   - path: the schema file (.json, .toml, .yaml or .yml)
	//
	// Returns:
	//   - TemplateID: the template identifier, equal for every load of the same cleaned absolute path
	//   - error: a schema, IO or compile error
	LoadTemplate(path string) (TemplateID, error)

	// PreloadTemplates reads and validates many schema documents concurrently, then compiles and commits
	// them in argument order on the calling goroutine. Failed documents are reported together and do not
	// prevent the others from committing.
	//
	// Parameters:
	//   - paths: the schema files to load
	//
	// Returns:
	//   - error: the joined errors of every document that failed, or nil
	PreloadTemplates(paths ...string) error

	// Template returns the template with the given identifier.
	//
	// Parameters:
	//   - id: the template identifier
	//
	// Returns:
	//   - Template: the read-only template view
	//   - error: ErrUnknownTemplate if no template has that identifier
	Template(id TemplateID) (Template, error)

	// TemplateByPath returns a previously loaded template by schema path without loading it.
	//
	// Parameters:
	//   - path: the schema file path
	//
	// Returns:
	//   - Template: the read-only template view
	//   - error: ErrUnknownTemplate if the path has not been loaded
	TemplateByPath(path string) (Template, error)

	// Templates returns every loaded template in identifier order.
	Templates() []Template

	// CreateMaterial returns a handle aliasing the template's default instance. It allocates nothing.
	//
	// Parameters:
	//   - id: the template identifier
	//
	// Returns:
	//   - Material: the default handle of the template
	//   - error: ErrUnknownTemplate if no template has that identifier
	CreateMaterial(id TemplateID) (Material, error)

	// LoadMaterial loads a material document, loading its template on demand. When the document
	// overrides slots the result is a unique instance holding the overrides, otherwise it is the
	// template's default handle.
	//
	// Parameters:
	//   - path: the material document (.json, .toml, .yaml or .yml)
	//
	// Returns:
	//   - Material: the new handle
	//   - error: a schema, IO, compile or usage error; no instance is leaked on failure
	LoadMaterial(path string) (Material, error)

	// Clone copies a handle, incrementing the share count of its instance. Default handles are not counted.
	//
	// Parameters:
	//   - m: the handle to copy
	//
	// Returns:
	//   - Material: the copy, which must be released separately
	//   - error: a usage error if m is not live
	Clone(m Material) (Material, error)

	// MakeUnique ensures m is the only handle on its instance, copying the instance when it is shared
	// or is the template default. The handle is updated in place.
	//
	// Parameters:
	//   - m: the handle to make unique
	//
	// Returns:
	//   - error: a usage error, or ErrInstanceExhaustion if the template has no free instance
	MakeUnique(m *Material) error

	// SetValue writes a slot of m after making it unique. Values of other handles are never affected.
	//
	// Parameters:
	//   - m: the handle to modify, updated in place when a copy is made
	//   - name: the slot name
	//   - v: the new value, whose kind must equal the slot's kind
	//
	// Returns:
	//   - error: ErrUnknownSlot, ErrKindMismatch, or another usage error
	SetValue(m *Material, name string, v Value) error

	// Value reads a slot of m.
	//
	// Parameters:
	//   - m: the handle to read
	//   - name: the slot name
	//
	// Returns:
	//   - Value: the stored value
	//   - error: ErrUnknownSlot or another usage error
	Value(m Material, name string) (Value, error)

	// Release drops one reference to m's instance, freeing it when the last reference goes.
	// Releasing a default handle is a no-op.
	//
	// Parameters:
	//   - m: the handle to release
	//
	// Returns:
	//   - error: ErrDoubleRelease if the instance is already free, or another usage error
	Release(m Material) error

	// SharedCount returns the number of handles aliasing m's instance. Default instances always report 1.
	//
	// Parameters:
	//   - m: the handle to inspect
	//
	// Returns:
	//   - int: the share count
	//   - error: a usage error if m is not live
	SharedCount(m Material) (int, error)

	// Use binds m's program and uploads every slot in layout order.
	//
	// Parameters:
	//   - m: the material to bind
	//
	// Returns:
	//   - error: a usage error or an upload error
	Use(m Material) error

	// UseBatched uploads every slot of m to the program bound by a previous Use of the same template.
	//
	// Parameters:
	//   - m: the material to upload
	//
	// Returns:
	//   - error: a usage error or an upload error
	UseBatched(m Material) error

	// Close deletes every compiled program. The manager must not be used afterwards.
	Close()
}

// manager is the implementation of the Manager interface.
type manager struct {
	compiler    shader.Compiler
	chunkLength int
	workers     int

	templates *slab.Arena[template]
	byPath    map[string]TemplateID
	programs  map[string]shader.Program
}

var _ Manager = &manager{}

// NewManager creates an empty Manager.
// Panics if no compiler is configured.
//
// Parameters:
//   - options: variadic list of ManagerBuilderOption functions to configure the manager
//
// Returns:
//   - Manager: the new manager
func NewManager(options ...ManagerBuilderOption) Manager {
	m := &manager{
		compiler:    shader.CompileGL,
		chunkLength: slab.DefaultChunkLength,
		workers:     DefaultWorkers,
		byPath:      make(map[string]TemplateID),
		programs:    make(map[string]shader.Program),
	}
	for _, opt := range options {
		opt(m)
	}
	if m.compiler == nil {
		panic("material: manager requires a shader compiler")
	}
	m.templates = slab.NewArena[template](slab.WithMaxSlots(MaxTemplates))
	return m
}

func (m *manager) LoadTemplate(path string) (TemplateID, error) {
	abs, err := canonicalPath(path)
	if err != nil {
		return 0, fmt.Errorf("material: load template %q: %w", path, err)
	}
	if id, ok := m.byPath[abs]; ok {
		return id, nil
	}
	l, err := readLayout(abs)
	if err != nil {
		return 0, fmt.Errorf("material: load template %q: %w", path, err)
	}
	id, err := m.commit(l)
	if err != nil {
		return 0, fmt.Errorf("material: load template %q: %w", path, err)
	}
	return id, nil
}

// commit compiles the program of a validated layout and registers the template.
// The manager is unchanged if an error is returned.
func (m *manager) commit(l layout) (TemplateID, error) {
	if m.templates.Len() >= MaxTemplates {
		return 0, ErrTooManyTemplates
	}
	program, err := m.program(l.paths)
	if err != nil {
		return 0, err
	}

	ref, t, err := m.templates.Allocate()
	if err != nil {
		return 0, ErrTooManyTemplates
	}
	*t = template{
		id:      TemplateID(ref),
		path:    l.path,
		program: program,
		slots:   l.slots,
		size:    l.size,
		// Slabs reject empty slots, so a template without uniforms still reserves one byte.
		instances: slab.New(max(l.size, 1),
			slab.WithChunkLength(m.chunkLength),
			slab.WithMaxSlots(MaxInstances),
		),
	}
	for i := range t.slots {
		t.slots[i].Location = program.UniformLocation(t.slots[i].Name)
	}

	def, err := t.instances.Allocate()
	if err != nil || def != 0 {
		panic(fmt.Sprintf("material: default instance of %q allocated at %d: %v", l.path, def, err))
	}
	copy(t.payload(def), l.defaults)

	m.byPath[l.path] = t.id
	logger.Debugf("loaded template %d from %s (%d slots, %d bytes per instance)", t.id, l.path, len(t.slots), t.SlotSize())
	return t.id, nil
}

// program returns the compiled program for paths, compiling it on first use.
func (m *manager) program(paths shader.Paths) (shader.Program, error) {
	key := paths.Key()
	if p, ok := m.programs[key]; ok {
		return p, nil
	}
	src, err := shader.LoadSources(paths)
	if err != nil {
		return nil, err
	}
	p, err := m.compiler(src)
	if err != nil {
		return nil, fmt.Errorf("failed to compile program: %w", err)
	}
	m.programs[key] = p
	return p, nil
}

func (m *manager) Template(id TemplateID) (Template, error) {
	t, err := m.template(id)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (m *manager) TemplateByPath(path string) (Template, error) {
	abs, err := canonicalPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrUnknownTemplate, path, err)
	}
	id, ok := m.byPath[abs]
	if !ok {
		return nil, fmt.Errorf("%w: %q has not been loaded", ErrUnknownTemplate, path)
	}
	return m.Template(id)
}

func (m *manager) Templates() []Template {
	out := make([]Template, 0, m.templates.Len())
	for id := 0; id < m.templates.Len(); id++ {
		if t := m.templates.Get(slab.Ref(id)); t != nil {
			out = append(out, t)
		}
	}
	return out
}

func (m *manager) template(id TemplateID) (*template, error) {
	t := m.templates.Get(slab.Ref(id))
	if t == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTemplate, id)
	}
	return t, nil
}

// resolve validates a handle and returns its template and live instance slot.
func (m *manager) resolve(mat Material) (*template, slab.Ref, error) {
	t, err := m.template(mat.TemplateID())
	if err != nil {
		return nil, 0, err
	}
	ref := slab.Ref(mat.InstanceID())
	if !t.instances.Contains(ref) {
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalidMaterial, mat)
	}
	if !t.instances.IsLive(ref) {
		return nil, 0, fmt.Errorf("%w: %s", ErrReleased, mat)
	}
	return t, ref, nil
}

// slot resolves a slot name of t.
func (t *template) slot(name string) (Slot, error) {
	i, ok := t.SlotIndex(name)
	if !ok {
		return Slot{}, fmt.Errorf("%w: %q in %s", ErrUnknownSlot, name, t.path)
	}
	return t.slots[i], nil
}

func (m *manager) Close() {
	for key, p := range m.programs {
		p.Delete()
		delete(m.programs, key)
	}
}

