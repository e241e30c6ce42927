package scene

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func mustChild(t *testing.T, parent Node, name string) Node {
	t.Helper()
	c, err := parent.NewChild(name)
	require.NoError(t, err)
	return c
}

func paths(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Path()
	}
	return out
}

// chain builds root -> a -> b -> c with distinct transforms and returns the nodes root first.
func chain(t *testing.T) (Scene, []Node) {
	t.Helper()
	s := NewScene("root")
	a := mustChild(t, s.Root(), "a")
	b := mustChild(t, a, "b")
	c := mustChild(t, b, "c")
	a.SetTransform(mgl32.Vec3{1, 0, 0}, common.EulerRotation(0, 90, 0))
	b.SetTransform(mgl32.Vec3{0, 2, 0}, common.EulerRotation(30, 0, 0))
	c.SetTransform(mgl32.Vec3{0, 0, 3}, common.EulerRotation(0, 0, 45))
	return s, []Node{s.Root(), a, b, c}
}

func eager(nodes []Node) mgl32.Mat4 {
	mats := make([]mgl32.Mat4, len(nodes))
	for i, n := range nodes {
		mats[i] = common.LocalMatrix(n.Position(), n.Rotation())
	}
	return common.MulChain(mats...)
}

func TestNewScene(t *testing.T) {
	s := NewScene("world", WithRootPosition(mgl32.Vec3{0, 1, 0}))
	assert.Equal(t, "world", s.Name())
	assert.Equal(t, "world", s.Root().Path())
	assert.Nil(t, s.Root().Parent())
	assert.True(t, s.Root().Attached())
	assert.Equal(t, []string{"world"}, paths(s.DirtyNodes()))

	g, err := s.Root().GlobalTransformMatrix()
	require.NoError(t, err)
	assert.Equal(t, s.Root().TransformMatrix(), g, "root global equals its local")
	assert.Equal(t, mgl32.Translate3D(0, 1, 0), g)
	assert.Zero(t, s.DirtyCount())

	assert.Panics(t, func() { NewScene("") })
	assert.Panics(t, func() { NewScene("a/b") })
}

func TestGlobalMatchesEagerProductAfterRootMutation(t *testing.T) {
	s, nodes := chain(t)
	c := nodes[3]

	_, err := c.GlobalTransformMatrix()
	require.NoError(t, err)

	nodes[0].SetTransform(mgl32.Vec3{5, -1, 2}, common.EulerRotation(10, 20, 30))
	assert.True(t, s.IsDirty(nodes[0]))

	got, err := c.GlobalTransformMatrix()
	require.NoError(t, err)
	assert.True(t, common.Mat4ApproxEqual(eager(nodes), got, tol), "got %v want %v", got, eager(nodes))
	for _, n := range nodes {
		assert.False(t, s.IsDirty(n), n.Path())
		assert.False(t, n.Dirty(), n.Path())
	}
	assert.Zero(t, s.DirtyCount())
}

func TestGlobalOfEveryChainNode(t *testing.T) {
	_, nodes := chain(t)
	for i := range nodes {
		got, err := nodes[i].GlobalTransformMatrix()
		require.NoError(t, err)
		assert.True(t, common.Mat4ApproxEqual(eager(nodes[:i+1]), got, tol), nodes[i].Path())
	}
}

func TestLocalRecomputeMarksDirectChildrenOnly(t *testing.T) {
	s, nodes := chain(t)
	s.Flush()
	a, b, c := nodes[1], nodes[2], nodes[3]

	a.SetPosition(mgl32.Vec3{9, 9, 9})
	assert.Equal(t, []string{"root/a"}, paths(s.DirtyNodes()))

	local := a.TransformMatrix()
	assert.Equal(t, mgl32.Vec4{9, 9, 9, 1}, local.Col(3))
	assert.False(t, a.Dirty())
	assert.True(t, b.Dirty())
	assert.False(t, c.Dirty())
	assert.Equal(t, []string{"root/a/b"}, paths(s.DirtyNodes()))

	// c is not dirty yet its parent is; the global query still picks up the change.
	got, err := c.GlobalTransformMatrix()
	require.NoError(t, err)
	assert.True(t, common.Mat4ApproxEqual(eager(nodes), got, tol))
	assert.Zero(t, s.DirtyCount())
}

func TestSiblingSeesAncestorChangeAfterAnotherQuery(t *testing.T) {
	s := NewScene("root")
	a := mustChild(t, s.Root(), "a")
	b := mustChild(t, a, "b")
	left := mustChild(t, b, "left")
	right := mustChild(t, b, "right")
	left.SetPosition(mgl32.Vec3{-1, 0, 0})
	right.SetPosition(mgl32.Vec3{1, 0, 0})
	s.Flush()

	a.SetRotation(common.EulerRotation(0, 0, 90))
	_, err := left.GlobalTransformMatrix()
	require.NoError(t, err)
	assert.True(t, s.IsDirty(right))

	got, err := right.GlobalTransformMatrix()
	require.NoError(t, err)
	assert.True(t, common.Mat4ApproxEqual(eager([]Node{s.Root(), a, b, right}), got, tol))
}

func TestFlushEmptiesDirtySet(t *testing.T) {
	s, nodes := chain(t)
	d := mustChild(t, nodes[1], "d")
	d.SetPosition(mgl32.Vec3{0, 0, -1})
	require.Equal(t, 5, s.DirtyCount())

	assert.Equal(t, 5, s.Flush())
	assert.Zero(t, s.DirtyCount())
	assert.Zero(t, s.Flush())

	nodes[1].SetPosition(mgl32.Vec3{})
	assert.Equal(t, 4, s.Flush(), "a and its whole subtree are recomputed")
	got, err := nodes[3].GlobalTransformMatrix()
	require.NoError(t, err)
	assert.True(t, common.Mat4ApproxEqual(eager(nodes), got, tol))
}

func TestRepeatedQueryIsCached(t *testing.T) {
	_, nodes := chain(t)
	c := nodes[3].(*node)
	_, k, err := c.resolveGlobal()
	require.NoError(t, err)
	assert.Equal(t, 4, k)
	_, k, err = c.resolveGlobal()
	require.NoError(t, err)
	assert.Zero(t, k)
}

func TestNameConflictLeavesTreeUnchanged(t *testing.T) {
	s, nodes := chain(t)
	a := nodes[1]
	before := paths(a.Children())

	_, err := a.NewChild("b")
	assert.ErrorIs(t, err, ErrNameConflict)

	other := mustChild(t, s.Root(), "other")
	b2 := mustChild(t, other, "b")
	detached, err := other.DetachChild("b")
	require.NoError(t, err)
	assert.Same(t, b2, detached)

	assert.ErrorIs(t, a.AttachChild(detached), ErrNameConflict)
	assert.Equal(t, before, paths(a.Children()))
	assert.Nil(t, detached.Parent())
	assert.False(t, detached.Attached())
}

func TestHierarchyErrors(t *testing.T) {
	s, nodes := chain(t)
	root, a, b := nodes[0], nodes[1], nodes[2]

	_, err := a.NewChild("")
	assert.ErrorIs(t, err, ErrEmptyName)
	_, err = a.NewChild("x/y")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = a.DetachChild("nope")
	assert.ErrorIs(t, err, ErrNotAttached)

	assert.ErrorIs(t, b.AttachChild(root), ErrRootOperation)
	assert.ErrorIs(t, root.Destroy(), ErrRootOperation)
	assert.ErrorIs(t, root.AttachChild(b), ErrAlreadyAttached)
	assert.ErrorIs(t, root.AttachChild(NewScene("elsewhere").Root()), ErrForeignScene)

	detachedA, err := root.DetachChild("a")
	require.NoError(t, err)
	assert.ErrorIs(t, b.AttachChild(detachedA), ErrCycle)
	assert.Equal(t, []string{"a/b"}, paths(detachedA.Children()))

	_, err = b.GlobalTransformMatrix()
	assert.ErrorIs(t, err, ErrDetached)
	require.NoError(t, root.AttachChild(detachedA))
	_, err = b.GlobalTransformMatrix()
	assert.NoError(t, err)

	assert.Equal(t, []string{"root/a"}, paths(s.Root().Children()))
}

func TestDetachRemovesSubtreeFromDirtySet(t *testing.T) {
	s, nodes := chain(t)
	require.Equal(t, 4, s.DirtyCount())

	a, err := s.Root().DetachChild("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"root"}, paths(s.DirtyNodes()))
	assert.True(t, nodes[3].Dirty(), "detached nodes keep their flag")

	nodes[3].SetPosition(mgl32.Vec3{1, 1, 1})
	assert.Equal(t, 1, s.DirtyCount())

	// The local matrix of a detached node is still available.
	assert.Equal(t, mgl32.Translate3D(1, 1, 1).Col(3), nodes[3].TransformMatrix().Col(3))

	require.NoError(t, s.Root().AttachChild(a))
	assert.Equal(t, []string{"root", "root/a", "root/a/b"}, paths(s.DirtyNodes()))
	assert.True(t, s.IsDirty(a))

	got, err := nodes[3].GlobalTransformMatrix()
	require.NoError(t, err)
	assert.True(t, common.Mat4ApproxEqual(eager(nodes), got, tol))
}

func TestReattachUnderNewParentRefreshesSubtree(t *testing.T) {
	s, nodes := chain(t)
	s.Flush()
	pivot := mustChild(t, s.Root(), "pivot")
	pivot.SetPosition(mgl32.Vec3{0, 10, 0})

	b, err := nodes[1].DetachChild("b")
	require.NoError(t, err)
	require.NoError(t, pivot.AttachChild(b))
	assert.Equal(t, "root/pivot/b/c", nodes[3].Path())

	got, err := nodes[3].GlobalTransformMatrix()
	require.NoError(t, err)
	assert.True(t, common.Mat4ApproxEqual(eager([]Node{s.Root(), pivot, b, nodes[3]}), got, tol))
}

type fakeRelease struct {
	kind     ComponentKind
	released int
	err      error
}

func (f *fakeRelease) Kind() ComponentKind { return f.kind }

func (f *fakeRelease) Release() error {
	f.released++
	return f.err
}

type tag struct{}

func (tag) Kind() ComponentKind { return "tag" }

func TestDestroyReleasesComponents(t *testing.T) {
	s, nodes := chain(t)
	a, b, c := nodes[1], nodes[2], nodes[3]
	ra := &fakeRelease{kind: "mesh"}
	rc := &fakeRelease{kind: "mesh", err: errors.New("boom")}
	a.AddComponent(ra)
	a.AddComponent(tag{})
	c.AddComponent(rc)

	err := a.Destroy()
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, 1, ra.released)
	assert.Equal(t, 1, rc.released)
	assert.Empty(t, s.Root().Children())
	assert.Equal(t, []string{"root"}, paths(s.DirtyNodes()))

	assert.ErrorIs(t, a.Destroy(), ErrDestroyed)
	_, err = b.NewChild("x")
	assert.ErrorIs(t, err, ErrDestroyed)
	_, err = c.GlobalTransformMatrix()
	assert.ErrorIs(t, err, ErrDestroyed)
	assert.ErrorIs(t, s.Root().AttachChild(b), ErrDestroyed)
	assert.Equal(t, 1, rc.released)
}

func TestComponentRegistry(t *testing.T) {
	s := NewScene("root")
	n := mustChild(t, s.Root(), "n")
	first := &fakeRelease{kind: "mesh"}
	second := &fakeRelease{kind: "mesh"}
	n.AddComponent(first)
	n.AddComponent(tag{})
	n.AddComponent(second)

	assert.Equal(t, []Component{first, second}, n.Components("mesh"))
	assert.Equal(t, []Component{tag{}}, n.Components("tag"))
	assert.Nil(t, n.Components("light"))

	removed := n.RemoveComponents("mesh")
	assert.Equal(t, []Component{first, second}, removed)
	assert.Nil(t, n.Components("mesh"))
	assert.Zero(t, first.released)
}

func TestWalkAndFind(t *testing.T) {
	s := NewScene("root")
	b := mustChild(t, s.Root(), "b")
	mustChild(t, s.Root(), "a")
	mustChild(t, b, "z")
	mustChild(t, b, "y")

	var visited []string
	s.Walk(func(n Node) bool {
		visited = append(visited, n.Path())
		return n.Name() != "a"
	})
	assert.Equal(t, []string{"root", "root/a", "root/b", "root/b/y", "root/b/z"}, visited)

	var pruned []string
	s.Walk(func(n Node) bool {
		pruned = append(pruned, n.Name())
		return n.Name() != "b"
	})
	assert.Equal(t, []string{"root", "a", "b"}, pruned)

	n, ok := s.Find("b/z")
	require.True(t, ok)
	assert.Equal(t, "root/b/z", n.Path())
	root, ok := s.Find("")
	require.True(t, ok)
	assert.Same(t, s.Root(), root)
	_, ok = s.Find("b/x")
	assert.False(t, ok)

	child, ok := b.Child("y")
	require.True(t, ok)
	assert.Same(t, b, child.Parent())
	_, ok = b.Child("nope")
	assert.False(t, ok)
}
