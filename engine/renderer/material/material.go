package material

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-gl/engine/slab"
)

// Material is a handle to one material instance: the template ID in the high 16 bits and the
// instance slot in the low 16 bits. Handles are plain values; every handle obtained from a Manager
// must be released exactly once, and copies must be made with Manager.Clone.
type Material uint32

// NewHandle packs a template ID and an instance slot into a Material.
func NewHandle(template TemplateID, instance uint16) Material {
	return Material(uint32(template)<<16 | uint32(instance))
}

// TemplateID returns the template half of the handle.
func (m Material) TemplateID() TemplateID {
	return TemplateID(m >> 16)
}

// InstanceID returns the instance slot half of the handle.
func (m Material) InstanceID() uint16 {
	return uint16(m)
}

// IsDefault reports whether the handle aliases its template's default instance.
func (m Material) IsDefault() bool {
	return m.InstanceID() == 0
}

func (m Material) String() string {
	return fmt.Sprintf("material(%d:%d)", m.TemplateID(), m.InstanceID())
}

func (m *manager) CreateMaterial(id TemplateID) (Material, error) {
	if _, err := m.template(id); err != nil {
		return 0, err
	}
	return NewHandle(id, 0), nil
}

func (m *manager) LoadMaterial(path string) (Material, error) {
	abs, err := canonicalPath(path)
	if err != nil {
		return 0, fmt.Errorf("material: load material %q: %w", path, err)
	}
	doc, err := readMaterialDocument(abs)
	if err != nil {
		return 0, fmt.Errorf("material: load material %q: %w", path, err)
	}
	id, err := m.LoadTemplate(doc.Template)
	if err != nil {
		return 0, fmt.Errorf("material: load material %q: %w", path, err)
	}
	t, err := m.template(id)
	if err != nil {
		return 0, err
	}

	overrides, err := t.overrides(doc.Slots)
	if err != nil {
		return 0, fmt.Errorf("material: load material %q: %w", path, err)
	}
	mat := NewHandle(id, 0)
	if len(overrides) == 0 {
		return mat, nil
	}
	if err := m.MakeUnique(&mat); err != nil {
		return 0, fmt.Errorf("material: load material %q: %w", path, err)
	}
	payload := t.payload(slab.Ref(mat.InstanceID()))
	for _, o := range overrides {
		o.value.encode(payload[o.slot.Offset:])
	}
	logger.Debugf("loaded %s from %s with %d overrides", mat, abs, len(overrides))
	return mat, nil
}

type override struct {
	slot  Slot
	value Value
}

// overrides converts document literals into typed values, in slot order, before anything is allocated.
func (t *template) overrides(literals map[string]any) ([]override, error) {
	out := make([]override, 0, len(literals))
	for name, literal := range literals {
		s, err := t.slot(name)
		if err != nil {
			return nil, err
		}
		v, err := ValueFromLiteral(s.Kind, literal)
		if err != nil {
			return nil, fmt.Errorf("slot %q: %w", name, err)
		}
		out = append(out, override{slot: s, value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].slot.Offset < out[j].slot.Offset
	})
	return out, nil
}

func (m *manager) Clone(mat Material) (Material, error) {
	t, ref, err := m.resolve(mat)
	if err != nil {
		return 0, err
	}
	if mat.IsDefault() {
		return mat, nil
	}
	h := t.instances.Header(ref)
	if err := t.instances.SetShared(ref, h.Value+1); err != nil {
		return 0, err
	}
	return mat, nil
}

func (m *manager) MakeUnique(mat *Material) error {
	t, src, err := m.resolve(*mat)
	if err != nil {
		return err
	}
	count := t.instances.Header(src).Value
	if !mat.IsDefault() && count == 1 {
		return nil
	}

	dst, err := t.instances.Allocate()
	if err != nil {
		if errors.Is(err, slab.ErrExhausted) {
			return fmt.Errorf("%w: template %d", ErrInstanceExhaustion, t.id)
		}
		return err
	}
	copy(t.payload(dst), t.payload(src))
	if !mat.IsDefault() {
		if err := t.instances.SetShared(src, count-1); err != nil {
			return err
		}
	}
	*mat = NewHandle(t.id, uint16(dst))
	return nil
}

func (m *manager) SetValue(mat *Material, name string, v Value) error {
	t, _, err := m.resolve(*mat)
	if err != nil {
		return err
	}
	s, err := t.slot(name)
	if err != nil {
		return err
	}
	if v.Kind() != s.Kind {
		return fmt.Errorf("%w: slot %q is %s, value is %s", ErrKindMismatch, name, s.Kind, v.Kind())
	}
	if err := m.MakeUnique(mat); err != nil {
		return err
	}
	v.encode(t.payload(slab.Ref(mat.InstanceID()))[s.Offset:])
	return nil
}

func (m *manager) Value(mat Material, name string) (Value, error) {
	t, ref, err := m.resolve(mat)
	if err != nil {
		return Value{}, err
	}
	s, err := t.slot(name)
	if err != nil {
		return Value{}, err
	}
	return decodeValue(s.Kind, t.payload(ref)[s.Offset:]), nil
}

func (m *manager) Release(mat Material) error {
	t, ref, err := m.resolve(mat)
	if err != nil {
		if errors.Is(err, ErrReleased) {
			return fmt.Errorf("%w: %s", ErrDoubleRelease, mat)
		}
		return err
	}
	if mat.IsDefault() {
		return nil
	}
	count := t.instances.Header(ref).Value
	if count > 1 {
		return t.instances.SetShared(ref, count-1)
	}
	return t.instances.Release(ref)
}

func (m *manager) SharedCount(mat Material) (int, error) {
	t, ref, err := m.resolve(mat)
	if err != nil {
		return 0, err
	}
	return int(t.instances.Header(ref).Value), nil
}
