package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Controller owns the camera's eye and target. The eye sits on a sphere around the target,
// described by radius, azimuth around +Y and elevation above the XZ plane. Panning moves eye and
// target together so the orbit is preserved.
type Controller interface {
	// Position returns the eye position in world space.
	Position() mgl32.Vec3

	// Target returns the look-at point.
	Target() mgl32.Vec3

	// SetTarget moves the pivot and recomputes the eye from the orbit angles.
	SetTarget(target mgl32.Vec3)

	// Orbit rotates the eye around the target. Elevation is clamped to the configured bounds.
	//
	// Parameters:
	//   - dAzimuth: radians added to the azimuth
	//   - dElevation: radians added to the elevation
	Orbit(dAzimuth, dElevation float32)

	// OrbitLeft rotates the eye left by one orbit speed step.
	OrbitLeft()

	// OrbitRight rotates the eye right by one orbit speed step.
	OrbitRight()

	// OrbitUp tilts the eye up by one orbit speed step.
	OrbitUp()

	// OrbitDown tilts the eye down by one orbit speed step.
	OrbitDown()

	// Zoom moves the eye toward the target. Positive delta zooms in; the radius is clamped.
	//
	// Parameters:
	//   - delta: zoom amount scaled by the zoom speed
	Zoom(delta float32)

	// Radius returns the distance from eye to target.
	Radius() float32

	// Azimuth returns the horizontal angle in radians; 0 places the eye on +Z.
	Azimuth() float32

	// Elevation returns the vertical angle in radians.
	Elevation() float32

	// PanRight translates eye and target along the camera's right axis.
	PanRight(delta float32)

	// PanUp translates eye and target along the camera's up axis.
	PanUp(delta float32)

	// PanForward translates eye and target along the view direction.
	PanForward(delta float32)
}

// orbitController is the implementation of Controller.
type orbitController struct {
	position mgl32.Vec3
	target   mgl32.Vec3

	radius    float32
	azimuth   float32
	elevation float32

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	orbitSpeed float32
	zoomSpeed  float32
	panSpeed   float32
}

var _ Controller = &orbitController{}

// NewOrbitController creates a Controller looking at the origin from 10 units away, 30 degrees up.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewOrbitController(options ...ControllerBuilderOption) Controller {
	cc := &orbitController{
		radius:    10,
		elevation: math32.Pi / 6,

		minRadius:    0.5,
		maxRadius:    500,
		minElevation: -math32.Pi/2 + 0.05,
		maxElevation: math32.Pi/2 - 0.05,

		orbitSpeed: 0.03,
		zoomSpeed:  1,
		panSpeed:   1,
	}
	for _, option := range options {
		option(cc)
	}
	cc.radius = mgl32.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = mgl32.Clamp(cc.elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
	return cc
}

// updatePosition places the eye from the spherical coordinates around the target.
func (cc *orbitController) updatePosition() {
	sinElev, cosElev := math32.Sincos(cc.elevation)
	sinAzim, cosAzim := math32.Sincos(cc.azimuth)
	cc.position = cc.target.Add(mgl32.Vec3{
		cc.radius * cosElev * sinAzim,
		cc.radius * sinElev,
		cc.radius * cosElev * cosAzim,
	})
}

// localAxes returns the right, up and forward axes matching mgl32.LookAtV with world up +Y.
// All three are zero when eye and target coincide.
func (cc *orbitController) localAxes() (right, up, forward mgl32.Vec3) {
	back := cc.position.Sub(cc.target)
	if back.Len() < 1e-8 {
		return
	}
	back = back.Normalize()
	right = mgl32.Vec3{0, 1, 0}.Cross(back)
	if right.Len() < 1e-8 {
		return mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{}
	}
	right = right.Normalize()
	return right, back.Cross(right), back.Mul(-1)
}

func (cc *orbitController) Position() mgl32.Vec3 {
	return cc.position
}

func (cc *orbitController) Target() mgl32.Vec3 {
	return cc.target
}

func (cc *orbitController) SetTarget(target mgl32.Vec3) {
	cc.target = target
	cc.updatePosition()
}

func (cc *orbitController) Orbit(dAzimuth, dElevation float32) {
	cc.azimuth += dAzimuth
	cc.elevation = mgl32.Clamp(cc.elevation+dElevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *orbitController) OrbitLeft() {
	cc.Orbit(-cc.orbitSpeed, 0)
}

func (cc *orbitController) OrbitRight() {
	cc.Orbit(cc.orbitSpeed, 0)
}

func (cc *orbitController) OrbitUp() {
	cc.Orbit(0, cc.orbitSpeed)
}

func (cc *orbitController) OrbitDown() {
	cc.Orbit(0, -cc.orbitSpeed)
}

func (cc *orbitController) Zoom(delta float32) {
	cc.radius = mgl32.Clamp(cc.radius-delta*cc.zoomSpeed, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *orbitController) Radius() float32 {
	return cc.radius
}

func (cc *orbitController) Azimuth() float32 {
	return cc.azimuth
}

func (cc *orbitController) Elevation() float32 {
	return cc.elevation
}

func (cc *orbitController) PanRight(delta float32) {
	right, _, _ := cc.localAxes()
	cc.pan(right.Mul(delta * cc.panSpeed))
}

func (cc *orbitController) PanUp(delta float32) {
	_, up, _ := cc.localAxes()
	cc.pan(up.Mul(delta * cc.panSpeed))
}

func (cc *orbitController) PanForward(delta float32) {
	_, _, forward := cc.localAxes()
	cc.pan(forward.Mul(delta * cc.panSpeed))
}

func (cc *orbitController) pan(offset mgl32.Vec3) {
	cc.target = cc.target.Add(offset)
	cc.position = cc.position.Add(offset)
}
