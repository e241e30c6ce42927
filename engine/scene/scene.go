// Package scene implements the scene graph: a tree of named nodes with local transforms, lazily
// cached local and global matrices, and a per-scene dirty set of nodes whose local matrix is stale.
//
// A Scene is not safe for concurrent use. All mutation and queries must come from the goroutine
// that runs the engine loop.
package scene

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-gl/log"
)

var logger = log.New("scene")

// Scene owns one node tree and the set of its dirty nodes.
type Scene interface {
	// Name returns the scene name, which is also the name of its root node.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Root returns the root node. The root has no parent and cannot be destroyed or attached elsewhere.
	//
	// Returns:
	//   - Node: the root node
	Root() Node

	// DirtyNodes returns the attached nodes whose local transform is stale, sorted by path.
	//
	// Returns:
	//   - []Node: the dirty nodes
	DirtyNodes() []Node

	// DirtyCount returns the size of the dirty set.
	//
	// Returns:
	//   - int: the number of dirty nodes
	DirtyCount() int

	// IsDirty reports whether n is in this scene's dirty set.
	//
	// Parameters:
	//   - n: the node to check
	//
	// Returns:
	//   - bool: true if n is attached to this scene and dirty
	IsDirty(n Node) bool

	// Flush recomputes the global matrix of every dirty node, repeating until the dirty set is empty.
	// Recomputing a node marks its children dirty, so moved subtrees are refreshed entirely.
	//
	// Returns:
	//   - int: the number of global matrices recomputed
	Flush() int

	// Walk visits the attached tree depth-first, parents before children, children in name order.
	//
	// Parameters:
	//   - fn: called for every node; returning false skips the node's children
	Walk(fn func(n Node) bool)

	// Find resolves a node by path relative to the root, e.g. "arm/hand".
	//
	// Parameters:
	//   - path: slash-separated child names; empty resolves to the root
	//
	// Returns:
	//   - Node: the node
	//   - bool: false if any segment is missing
	Find(path string) (Node, bool)
}

// scene is the implementation of the Scene interface.
type scene struct {
	name  string
	root  *node
	dirty map[*node]struct{}

	// chain is scratch space for global matrix resolution.
	chain []*node
}

var _ Scene = &scene{}

// NewScene creates a scene whose root node carries the scene's name.
// Panics if name is empty or contains a path separator.
//
// Parameters:
//   - name: the scene name
//   - options: variadic list of SceneBuilderOption functions to configure the root transform
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	if err := validateName(name); err != nil {
		panic(err)
	}
	s := &scene{
		name:  name,
		dirty: make(map[*node]struct{}),
	}
	s.root = newNode(s, name)
	s.root.attached = true
	for _, opt := range options {
		opt(s)
	}
	s.root.markDirty()
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Root() Node {
	return s.root
}

func (s *scene) DirtyNodes() []Node {
	out := make([]*node, 0, len(s.dirty))
	for n := range s.dirty {
		out = append(out, n)
	}
	return sortedByPath(out)
}

func (s *scene) DirtyCount() int {
	return len(s.dirty)
}

func (s *scene) IsDirty(n Node) bool {
	nn, ok := n.(*node)
	if !ok || nn.scene != s {
		return false
	}
	_, ok = s.dirty[nn]
	return ok
}

func (s *scene) Flush() int {
	recomputed := 0
	pending := make([]*node, 0, len(s.dirty))
	for len(s.dirty) > 0 {
		pending = pending[:0]
		for n := range s.dirty {
			pending = append(pending, n)
		}
		for _, n := range pending {
			if !n.dirty {
				continue
			}
			_, k, err := n.resolveGlobal()
			if err != nil {
				// Only attached nodes are registered, so this is a broken invariant.
				panic(err)
			}
			recomputed += k
		}
	}
	return recomputed
}

func (s *scene) Walk(fn func(n Node) bool) {
	s.root.walk(fn)
}

func (s *scene) Find(path string) (Node, bool) {
	cur := s.root
	for _, name := range splitPath(path) {
		next, ok := cur.children[name]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func sortedByPath(nodes []*node) []Node {
	paths := make(map[*node]string, len(nodes))
	for _, n := range nodes {
		paths[n] = n.Path()
	}
	sort.Slice(nodes, func(i, j int) bool {
		return paths[nodes[i]] < paths[nodes[j]]
	})
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}
