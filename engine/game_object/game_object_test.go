package game_object

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
)

func newNode(t *testing.T, s scene.Scene, name string) scene.Node {
	t.Helper()
	n, err := s.Root().NewChild(name)
	require.NoError(t, err)
	return n
}

func TestUpdateSceneMovesNodes(t *testing.T) {
	s := scene.NewScene("world")
	mover := newNode(t, s, "mover")
	still := newNode(t, s, "still")
	obj := NewGameObject(mover, WithVelocity(mgl32.Vec3{2, 0, 0}))
	NewGameObject(still)
	s.Flush()

	assert.Equal(t, []scene.Component{obj}, mover.Components(Kind))
	assert.Equal(t, 1, UpdateScene(s, 0.5))
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, mover.Position())
	assert.True(t, s.IsDirty(mover))
	assert.False(t, s.IsDirty(still), "objects without motion leave their node clean")
}

func TestUpdateSpinsAroundLocalAxes(t *testing.T) {
	s := scene.NewScene("world")
	n := newNode(t, s, "spinner")
	obj := NewGameObject(n, WithRotationSpeed(0, math32.Pi/2, 0))

	require.True(t, obj.Update(1))
	require.True(t, obj.Update(1))
	rotated := n.Rotation().Rotate(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, -1, rotated[0], 1e-5)
	assert.InDelta(t, 0, rotated[2], 1e-5)
	assert.InDelta(t, 1, n.Rotation().Len(), 1e-5)
}

func TestDisabledObjectsDoNotMove(t *testing.T) {
	s := scene.NewScene("world")
	n := newNode(t, s, "paused")
	obj := NewGameObject(n, WithEnabled(false), WithVelocity(mgl32.Vec3{1, 1, 1}))

	assert.False(t, obj.Update(1))
	obj.SetEnabled(true)
	assert.False(t, obj.Update(0), "zero ticks do nothing")
	assert.True(t, obj.Update(1))
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, n.Position())
}

func TestIDsAreUnique(t *testing.T) {
	s := scene.NewScene("world")
	a := NewGameObject(newNode(t, s, "a"))
	b := NewGameObject(newNode(t, s, "b"))
	c := NewGameObject(newNode(t, s, "c"), WithID(99))
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, uint64(99), c.ID())
	assert.Panics(t, func() { NewGameObject(nil) })
}
