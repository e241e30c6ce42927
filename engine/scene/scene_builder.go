package scene

import "github.com/go-gl/mathgl/mgl32"

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithRootPosition sets the initial position of the root node.
//
// Parameters:
//   - position: the root translation
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRootPosition(position mgl32.Vec3) SceneBuilderOption {
	return func(s *scene) {
		s.root.position = position
	}
}

// WithRootRotation sets the initial rotation of the root node.
//
// Parameters:
//   - rotation: the root orientation
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRootRotation(rotation mgl32.Quat) SceneBuilderOption {
	return func(s *scene) {
		s.root.rotation = rotation
	}
}
