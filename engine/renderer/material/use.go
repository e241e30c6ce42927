package material

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/slab"
)

func (m *manager) Use(mat Material) error {
	t, ref, err := m.resolve(mat)
	if err != nil {
		return err
	}
	t.program.Use()
	return t.upload(ref)
}

func (m *manager) UseBatched(mat Material) error {
	t, ref, err := m.resolve(mat)
	if err != nil {
		return err
	}
	return t.upload(ref)
}

// upload sends every slot of an instance to the template's program in layout order.
func (t *template) upload(ref slab.Ref) error {
	payload := t.payload(ref)
	for _, s := range t.slots {
		data := payload[s.Offset : s.Offset+s.Kind.Size()]
		if err := t.program.Upload(s.Location, s.Kind, data); err != nil {
			return fmt.Errorf("material: upload %q of template %d: %w", s.Name, t.id, err)
		}
	}
	return nil
}
