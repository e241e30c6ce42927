package scene

// ComponentKind tags a family of components. Nodes index their components by kind.
type ComponentKind string

// Component is anything attached to a node, such as a mesh renderer.
type Component interface {
	// Kind returns the registry key of the component.
	Kind() ComponentKind
}

// Releaser is implemented by components that hold resources which must be returned when
// their node is destroyed, like a material handle.
type Releaser interface {
	Release() error
}

// components is a node's typed component registry.
type components map[ComponentKind][]Component

func (c components) add(comp Component) {
	c[comp.Kind()] = append(c[comp.Kind()], comp)
}

func (c components) list(kind ComponentKind) []Component {
	list := c[kind]
	if len(list) == 0 {
		return nil
	}
	out := make([]Component, len(list))
	copy(out, list)
	return out
}

func (c components) remove(kind ComponentKind) []Component {
	list := c[kind]
	delete(c, kind)
	return list
}
