// Package game_object attaches simple per-tick motion to scene nodes: a linear velocity and a
// spin around the node's local axes. Moving a node marks it dirty, so the renderer's next flush
// picks the change up.
package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind is the component kind game objects register under on their node.
const Kind scene.ComponentKind = "game_object"

var nextID atomic.Uint64

type gameObject struct {
	id      uint64
	enabled atomic.Bool
	node    scene.Node

	velocity      mgl32.Vec3
	rotationSpeed mgl32.Vec3
}

// GameObject is a component driving its node's transform once per engine tick.
type GameObject interface {
	scene.Component

	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Node returns the scene node this object moves.
	Node() scene.Node

	// Enabled returns whether Update moves the node.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled pauses or resumes the object.
	//
	// Parameters:
	//   - enabled: true to resume
	SetEnabled(enabled bool)

	// Velocity returns the linear velocity in parent units per second.
	Velocity() mgl32.Vec3

	// SetVelocity sets the linear velocity in parent units per second.
	//
	// Parameters:
	//   - v: the new velocity
	SetVelocity(v mgl32.Vec3)

	// RotationSpeed returns the spin in radians per second around the local X, Y and Z axes.
	RotationSpeed() mgl32.Vec3

	// SetRotationSpeed sets the spin in radians per second around the local X, Y and Z axes.
	//
	// Parameters:
	//   - speed: the new spin
	SetRotationSpeed(speed mgl32.Vec3)

	// Update advances the node's transform by dt seconds.
	//
	// Parameters:
	//   - dt: the tick duration in seconds
	//
	// Returns:
	//   - bool: true if the node was moved
	Update(dt float32) bool
}

var _ GameObject = &gameObject{}

// NewGameObject creates a GameObject driving node and registers it as one of node's components.
// Panics if node is nil.
//
// Parameters:
//   - node: the node to move
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(node scene.Node, options ...GameObjectBuilderOption) GameObject {
	if node == nil {
		panic("game_object: node is required")
	}
	obj := &gameObject{
		id:   nextID.Add(1),
		node: node,
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	node.AddComponent(obj)
	return obj
}

// UpdateScene updates every game object attached to s.
//
// Parameters:
//   - s: the scene to advance
//   - dt: the tick duration in seconds
//
// Returns:
//   - int: the number of nodes moved
func UpdateScene(s scene.Scene, dt float32) int {
	moved := 0
	s.Walk(func(n scene.Node) bool {
		for _, c := range n.Components(Kind) {
			if c.(GameObject).Update(dt) {
				moved++
			}
		}
		return true
	})
	return moved
}

func (g *gameObject) Kind() scene.ComponentKind {
	return Kind
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Node() scene.Node {
	return g.node
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Velocity() mgl32.Vec3 {
	return g.velocity
}

func (g *gameObject) SetVelocity(v mgl32.Vec3) {
	g.velocity = v
}

func (g *gameObject) RotationSpeed() mgl32.Vec3 {
	return g.rotationSpeed
}

func (g *gameObject) SetRotationSpeed(speed mgl32.Vec3) {
	g.rotationSpeed = speed
}

func (g *gameObject) Update(dt float32) bool {
	if !g.Enabled() || dt <= 0 {
		return false
	}
	moving := g.velocity != mgl32.Vec3{}
	spinning := g.rotationSpeed != mgl32.Vec3{}
	if !moving && !spinning {
		return false
	}

	position, rotation := g.node.Position(), g.node.Rotation()
	if moving {
		position = position.Add(g.velocity.Mul(dt))
	}
	if spinning {
		step := g.rotationSpeed.Mul(dt)
		rotation = rotation.Mul(mgl32.AnglesToQuat(step[0], step[1], step[2], mgl32.XYZ)).Normalize()
	}
	g.node.SetTransform(position, rotation)
	return true
}
