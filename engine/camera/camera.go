// Package camera provides a perspective camera whose eye and target come from an orbit controller.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera holds perspective settings and the view, projection and view-projection matrices
// derived from an attached Controller.
type Camera interface {
	// Up returns the camera's up vector.
	Up() mgl32.Vec3

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// View returns the world-to-view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	View() mgl32.Mat4

	// Projection returns the perspective projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	Projection() mgl32.Mat4

	// ViewProjection returns Projection * View, the matrix the renderer uploads as u_view_projection.
	//
	// Returns:
	//   - mgl32.Mat4: the combined matrix
	ViewProjection() mgl32.Mat4

	// Controller returns the attached Controller, or nil.
	Controller() Controller

	// SetController attaches a Controller and recomputes the matrices.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl Controller)

	// Update reads eye and target from the controller and recomputes the matrices.
	// Call once per tick after moving the controller. Does nothing without a controller.
	Update()

	// SetUp sets the up vector and recomputes the matrices.
	SetUp(up mgl32.Vec3)

	// SetFov sets the vertical field of view in radians and recomputes the matrices.
	SetFov(fov float32)

	// SetAspect sets the aspect ratio and recomputes the matrices. Non-positive values are ignored.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes the matrices.
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes the matrices.
	SetFar(far float32)
}

// camera is the implementation of the Camera interface.
type camera struct {
	up mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	view           mgl32.Mat4
	projection     mgl32.Mat4
	viewProjection mgl32.Mat4

	controller Controller
}

var _ Camera = &camera{}

// NewCamera creates a Camera with a 45 degree field of view. Without a controller the view
// matrix is the identity.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &camera{
		up:     mgl32.Vec3{0, 1, 0},
		fov:    45 * math32.Pi / 180,
		aspect: 1,
		near:   0.1,
		far:    100,
		view:   mgl32.Ident4(),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *camera) Up() mgl32.Vec3 {
	return c.up
}

func (c *camera) Fov() float32 {
	return c.fov
}

func (c *camera) Aspect() float32 {
	return c.aspect
}

func (c *camera) Near() float32 {
	return c.near
}

func (c *camera) Far() float32 {
	return c.far
}

func (c *camera) View() mgl32.Mat4 {
	return c.view
}

func (c *camera) Projection() mgl32.Mat4 {
	return c.projection
}

func (c *camera) ViewProjection() mgl32.Mat4 {
	return c.viewProjection
}

func (c *camera) Controller() Controller {
	return c.controller
}

func (c *camera) SetController(ctrl Controller) {
	c.controller = ctrl
	c.updateMatrices()
}

func (c *camera) Update() {
	if c.controller == nil {
		return
	}
	c.updateMatrices()
}

func (c *camera) SetUp(up mgl32.Vec3) {
	c.up = up
	c.updateMatrices()
}

func (c *camera) SetFov(fov float32) {
	c.fov = fov
	c.updateMatrices()
}

func (c *camera) SetAspect(aspect float32) {
	if aspect <= 0 || math32.IsNaN(aspect) || math32.IsInf(aspect, 0) {
		return
	}
	c.aspect = aspect
	c.updateMatrices()
}

func (c *camera) SetNear(near float32) {
	c.near = near
	c.updateMatrices()
}

func (c *camera) SetFar(far float32) {
	c.far = far
	c.updateMatrices()
}

// updateMatrices recalculates the projection, and the view when a controller is attached.
func (c *camera) updateMatrices() {
	if c.controller != nil {
		c.view = mgl32.LookAtV(c.controller.Position(), c.controller.Target(), c.up)
	}
	c.projection = mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
	c.viewProjection = c.projection.Mul4(c.view)
}
