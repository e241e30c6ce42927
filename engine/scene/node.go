package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Node is one element of a scene tree. Every node except the root has exactly one parent while
// attached, and child names are unique per parent.
type Node interface {
	// Name returns the node name.
	Name() string

	// Path returns the slash-separated names from the topmost ancestor to this node.
	// For attached nodes the first segment is the scene name.
	Path() string

	// Scene returns the scene the node was created in.
	Scene() Scene

	// Parent returns the parent node, or nil for the root and detached nodes.
	Parent() Node

	// Children returns the direct children sorted by name.
	Children() []Node

	// Child returns the direct child with the given name.
	//
	// Parameters:
	//   - name: the child name
	//
	// Returns:
	//   - Node: the child
	//   - bool: false if there is no such child
	Child(name string) (Node, bool)

	// Attached reports whether the node is reachable from its scene's root.
	Attached() bool

	// NewChild creates a node under this one. The new node starts dirty at the origin.
	//
	// Parameters:
	//   - name: the child name, unique among this node's children
	//
	// Returns:
	//   - Node: the new child
	//   - error: ErrEmptyName, ErrInvalidName, ErrNameConflict or ErrDestroyed
	NewChild(name string) (Node, error)

	// AttachChild adopts a detached node of the same scene. The child is marked dirty.
	//
	// Parameters:
	//   - child: a node previously returned by DetachChild
	//
	// Returns:
	//   - error: ErrNameConflict, ErrAlreadyAttached, ErrForeignScene, ErrCycle, ErrRootOperation or ErrDestroyed
	AttachChild(child Node) error

	// DetachChild unlinks a child. The child and its subtree leave the dirty set and keep their
	// transforms, so they can be attached again elsewhere.
	//
	// Parameters:
	//   - name: the child name
	//
	// Returns:
	//   - Node: the detached child
	//   - error: ErrNotAttached if there is no such child
	DetachChild(name string) (Node, error)

	// Destroy detaches the node and destroys its subtree, releasing every component that
	// implements Releaser. Release failures are returned after the whole subtree is destroyed.
	//
	// Returns:
	//   - error: ErrRootOperation, ErrDestroyed, or the joined release errors
	Destroy() error

	// Position returns the local translation.
	Position() mgl32.Vec3

	// Rotation returns the local orientation.
	Rotation() mgl32.Quat

	// SetPosition sets the local translation and marks the node dirty.
	SetPosition(position mgl32.Vec3)

	// SetRotation sets the local orientation and marks the node dirty.
	SetRotation(rotation mgl32.Quat)

	// SetTransform sets translation and orientation together and marks the node dirty.
	SetTransform(position mgl32.Vec3, rotation mgl32.Quat)

	// Dirty reports whether the cached local matrix is stale.
	Dirty() bool

	// TransformMatrix returns the local matrix, recomputing it if the node is dirty. A recompute
	// marks the direct children dirty.
	TransformMatrix() mgl32.Mat4

	// GlobalTransformMatrix returns parent.global * local, recomputing stale ancestors top-down.
	// The root's global matrix is its local matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	//   - error: ErrDetached if the node is not reachable from the root, ErrDestroyed if destroyed
	GlobalTransformMatrix() (mgl32.Mat4, error)

	// AddComponent registers c under c.Kind().
	AddComponent(c Component)

	// Components returns the components registered under kind, in insertion order.
	Components(kind ComponentKind) []Component

	// RemoveComponents unregisters and returns every component of kind without releasing them.
	RemoveComponents(kind ComponentKind) []Component
}

// matrixCache is a memoized matrix with an explicit validity flag.
type matrixCache struct {
	value mgl32.Mat4
	valid bool
}

// node is the implementation of the Node interface.
type node struct {
	scene    *scene
	name     string
	parent   *node
	children map[string]*node

	position mgl32.Vec3
	rotation mgl32.Quat
	dirty    bool
	local    matrixCache
	global   matrixCache

	attached  bool
	destroyed bool

	components components
}

var _ Node = &node{}

func newNode(s *scene, name string) *node {
	return &node{
		scene:      s,
		name:       name,
		children:   make(map[string]*node),
		rotation:   mgl32.QuatIdent(),
		components: make(components),
	}
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func (n *node) Name() string {
	return n.name
}

func (n *node) Path() string {
	var parts []string
	for cur := n; cur != nil; cur = cur.parent {
		parts = append(parts, cur.name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

func (n *node) Scene() Scene {
	return n.scene
}

func (n *node) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) Children() []Node {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Node, len(names))
	for i, name := range names {
		out[i] = n.children[name]
	}
	return out
}

func (n *node) Child(name string) (Node, bool) {
	c, ok := n.children[name]
	if !ok {
		return nil, false
	}
	return c, true
}

func (n *node) Attached() bool {
	return n.attached
}

func (n *node) NewChild(name string) (Node, error) {
	if n.destroyed {
		return nil, ErrDestroyed
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if _, ok := n.children[name]; ok {
		return nil, fmt.Errorf("%w: %q under %q", ErrNameConflict, name, n.Path())
	}
	c := newNode(n.scene, name)
	c.parent = n
	c.attached = n.attached
	n.children[name] = c
	c.markDirty()
	return c, nil
}

func (n *node) AttachChild(child Node) error {
	c, ok := child.(*node)
	if !ok || c.scene != n.scene {
		return ErrForeignScene
	}
	switch {
	case n.destroyed || c.destroyed:
		return ErrDestroyed
	case c == n.scene.root:
		return ErrRootOperation
	case c.parent != nil:
		return fmt.Errorf("%w: %q", ErrAlreadyAttached, c.Path())
	}
	for cur := n; cur != nil; cur = cur.parent {
		if cur == c {
			return fmt.Errorf("%w: %q is an ancestor of %q", ErrCycle, c.name, n.Path())
		}
	}
	if _, ok := n.children[c.name]; ok {
		return fmt.Errorf("%w: %q under %q", ErrNameConflict, c.name, n.Path())
	}

	c.parent = n
	n.children[c.name] = c
	c.setAttached(n.attached)
	// The new parent changes the child's world matrix; marking it dirty cascades to its subtree.
	c.markDirty()
	return nil
}

func (n *node) DetachChild(name string) (Node, error) {
	c, ok := n.children[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q under %q", ErrNotAttached, name, n.Path())
	}
	n.unlink(c)
	return c, nil
}

func (n *node) unlink(c *node) {
	delete(n.children, c.name)
	c.parent = nil
	c.global.valid = false
	c.setAttached(false)
}

func (n *node) Destroy() error {
	if n == n.scene.root {
		return ErrRootOperation
	}
	if n.destroyed {
		return ErrDestroyed
	}
	if n.parent != nil {
		n.parent.unlink(n)
	}
	var errs []error
	n.destroy(&errs)
	if len(errs) > 0 {
		logger.Warningf("destroying %q: %d components failed to release", n.name, len(errs))
	}
	return errors.Join(errs...)
}

func (n *node) destroy(errs *[]error) {
	for _, c := range n.children {
		c.destroy(errs)
	}
	for _, list := range n.components {
		for _, comp := range list {
			if r, ok := comp.(Releaser); ok {
				if err := r.Release(); err != nil {
					*errs = append(*errs, fmt.Errorf("scene: release %s component of %q: %w", comp.Kind(), n.name, err))
				}
			}
		}
	}
	delete(n.scene.dirty, n)
	n.destroyed = true
	n.attached = false
	n.parent = nil
	n.children = map[string]*node{}
	n.components = components{}
}

// setAttached updates reachability of the subtree rooted at n and keeps the dirty set in sync.
func (n *node) setAttached(attached bool) {
	n.attached = attached
	if attached && n.dirty {
		n.scene.dirty[n] = struct{}{}
	} else if !attached {
		delete(n.scene.dirty, n)
	}
	for _, c := range n.children {
		c.setAttached(attached)
	}
}

func (n *node) walk(fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		c.(*node).walk(fn)
	}
}

func (n *node) AddComponent(c Component) {
	n.components.add(c)
}

func (n *node) Components(kind ComponentKind) []Component {
	return n.components.list(kind)
}

func (n *node) RemoveComponents(kind ComponentKind) []Component {
	return n.components.remove(kind)
}
