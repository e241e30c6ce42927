package light

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
)

func TestGatherResolvesWorldSpace(t *testing.T) {
	s := scene.NewScene("world")
	arm, err := s.Root().NewChild("arm")
	require.NoError(t, err)
	arm.SetTransform(mgl32.Vec3{0, 5, 0}, mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1}))
	bulb, err := arm.NewChild("bulb")
	require.NoError(t, err)
	bulb.SetPosition(mgl32.Vec3{2, 0, 0})

	bulb.AddComponent(NewLight(LightTypePoint, WithColor(mgl32.Vec3{1, 0.5, 0}), WithIntensity(2), WithRange(4)))
	arm.AddComponent(NewLight(LightTypeDirectional, WithDirection(mgl32.Vec3{3, 0, 0})))
	arm.AddComponent(NewLight(LightTypePoint, WithEnabled(false)))
	s.Flush()

	samples := Gather(s)
	require.Len(t, samples, 2)

	sun := samples[0]
	assert.Equal(t, LightTypeDirectional, sun.Type)
	assert.InDelta(t, 0, sun.Vector[0], 1e-5)
	assert.InDelta(t, 1, sun.Vector[1], 1e-5, "the arm's rotation turns +X into +Y")
	assert.Equal(t, float32(0), sun.Uniform()[3])

	point := samples[1]
	assert.InDelta(t, 0, point.Vector[0], 1e-5)
	assert.InDelta(t, 7, point.Vector[1], 1e-5)
	assert.Equal(t, mgl32.Vec3{2, 1, 0}, point.Radiance)
	assert.Equal(t, float32(4), point.Range)
	assert.Equal(t, float32(1), point.Uniform()[3])
}

func TestSetDirectionIgnoresZero(t *testing.T) {
	l := NewLight(LightTypeDirectional)
	l.SetDirection(mgl32.Vec3{})
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, l.Direction())
	l.SetDirection(mgl32.Vec3{0, 0, -10})
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, l.Direction())
	assert.Equal(t, Kind, l.Kind())
}

func TestGatherSkipsDetachedNodes(t *testing.T) {
	s := scene.NewScene("world")
	n, err := s.Root().NewChild("lamp")
	require.NoError(t, err)
	n.AddComponent(NewLight(LightTypePoint))
	_, err = s.Root().DetachChild("lamp")
	require.NoError(t, err)
	assert.Empty(t, Gather(s))
}
