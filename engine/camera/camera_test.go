package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestOrbitControllerPlacesEyeOnSphere(t *testing.T) {
	cc := NewOrbitController(WithRadius(5), WithElevation(0), WithTarget(mgl32.Vec3{1, 2, 3}))
	assert.True(t, cc.Position().ApproxEqual(mgl32.Vec3{1, 2, 8}), "azimuth 0 puts the eye on +Z: %v", cc.Position())

	cc.Orbit(math32.Pi/2, 0)
	assert.True(t, cc.Position().ApproxEqualThreshold(mgl32.Vec3{6, 2, 3}, 1e-5), "%v", cc.Position())
	assert.InDelta(t, 5, cc.Position().Sub(cc.Target()).Len(), 1e-5)
}

func TestOrbitControllerClamps(t *testing.T) {
	cc := NewOrbitController(WithRadiusBounds(1, 3), WithRadius(2), WithElevationBounds(-0.5, 0.5), WithElevation(0))

	cc.Zoom(10)
	assert.Equal(t, float32(1), cc.Radius())
	cc.Zoom(-10)
	assert.Equal(t, float32(3), cc.Radius())

	cc.Orbit(0, 2)
	assert.Equal(t, float32(0.5), cc.Elevation())
	cc.Orbit(0, -2)
	assert.Equal(t, float32(-0.5), cc.Elevation())
}

func TestPanPreservesOrbit(t *testing.T) {
	cc := NewOrbitController(WithRadius(4), WithElevation(0.3), WithAzimuth(0.7))
	offset := cc.Position().Sub(cc.Target())

	cc.PanRight(2)
	cc.PanUp(-1)
	cc.PanForward(0.5)

	assert.True(t, offset.ApproxEqualThreshold(cc.Position().Sub(cc.Target()), 1e-5))
	assert.False(t, cc.Target().ApproxEqual(mgl32.Vec3{}))
}

func TestCameraViewProjection(t *testing.T) {
	cc := NewOrbitController(WithRadius(6))
	c := NewCamera(WithController(cc), WithAspect(16.0/9.0), WithClipPlanes(0.5, 50))

	view := mgl32.LookAtV(cc.Position(), cc.Target(), mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(c.Fov(), 16.0/9.0, 0.5, 50)
	assert.Equal(t, view, c.View())
	assert.Equal(t, proj, c.Projection())
	assert.True(t, common.Mat4ApproxEqual(proj.Mul4(view), c.ViewProjection(), 1e-6))

	cc.OrbitRight()
	assert.Equal(t, view, c.View(), "the camera only reads the controller on Update")
	c.Update()
	assert.NotEqual(t, view, c.View())

	c.SetAspect(0)
	assert.Equal(t, float32(16.0/9.0), c.Aspect())
	c.SetAspect(2)
	assert.Equal(t, mgl32.Perspective(c.Fov(), 2, 0.5, 50), c.Projection())
}

func TestCameraWithoutController(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, mgl32.Ident4(), c.View())
	assert.Equal(t, c.Projection(), c.ViewProjection())
	c.Update()
	assert.Nil(t, c.Controller())
}
