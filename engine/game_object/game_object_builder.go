package game_object

import "github.com/go-gl/mathgl/mgl32"

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID overrides the generated identifier.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithEnabled sets whether the GameObject starts enabled. Objects are enabled by default.
//
// Parameters:
//   - enabled: false to create the object paused
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithVelocity sets the initial linear velocity.
//
// Parameters:
//   - v: velocity in parent units per second
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the velocity
func WithVelocity(v mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.velocity = v
	}
}

// WithRotationSpeed sets the initial spin.
//
// Parameters:
//   - rx, ry, rz: radians per second around the local X, Y and Z axes
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation speed
func WithRotationSpeed(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotationSpeed = mgl32.Vec3{rx, ry, rz}
	}
}
