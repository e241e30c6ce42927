// Package light provides light components for scene nodes. A light takes its position and
// orientation from the node it is attached to, so moving the node moves the light.
package light

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind is the component kind lights register under on their node.
const Kind scene.ComponentKind = "light"

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources like the sun or moon. Affects all fragments
	// uniformly with no distance attenuation.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position.
	// Attenuates with distance up to a configurable range.
	LightTypePoint
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType  LightType
	direction  mgl32.Vec3
	color      mgl32.Vec3
	intensity  float32
	lightRange float32
	enabled    bool
}

// Light is a light source component. Attach it to a node with Node.AddComponent.
type Light interface {
	scene.Component

	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional or point)
	Type() LightType

	// Direction returns the normalized light direction in the node's local space.
	// Meaningless for point lights.
	//
	// Returns:
	//   - mgl32.Vec3: the local direction
	Direction() mgl32.Vec3

	// Color returns the RGB color of the light.
	Color() mgl32.Vec3

	// Intensity returns the scalar intensity multiplier for the light.
	Intensity() float32

	// Range returns the maximum attenuation distance of a point light.
	Range() float32

	// Enabled returns whether this light is collected for rendering.
	Enabled() bool

	// SetDirection sets the local light direction. Zero vectors are ignored.
	//
	// Parameters:
	//   - d: the new direction, normalized before storing
	SetDirection(d mgl32.Vec3)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - c: the new color
	SetColor(c mgl32.Vec3)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the new intensity
	SetIntensity(intensity float32)

	// SetRange sets the attenuation distance of a point light.
	//
	// Parameters:
	//   - lightRange: the new range
	SetRange(lightRange float32)

	// SetEnabled enables or disables the light.
	//
	// Parameters:
	//   - enabled: true to enable the light
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the given type configured by the provided options.
// Defaults: white, intensity 1, range 10, pointing down the negative Y axis, enabled.
//
// Parameters:
//   - lightType: the kind of light source
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: the newly created light
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:  lightType,
		direction:  mgl32.Vec3{0, -1, 0},
		color:      mgl32.Vec3{1, 1, 1},
		intensity:  1.0,
		lightRange: 10.0,
		enabled:    true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Kind() scene.ComponentKind {
	return Kind
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	return l.direction
}

func (l *lightImpl) Color() mgl32.Vec3 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetDirection(d mgl32.Vec3) {
	if d.Len() == 0 {
		return
	}
	l.direction = d.Normalize()
}

func (l *lightImpl) SetColor(c mgl32.Vec3) {
	l.color = c
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetRange(lightRange float32) {
	l.lightRange = lightRange
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

// Sample is a light resolved to world space for one frame.
type Sample struct {
	Type LightType
	// Vector is the world position of a point light or the world direction of a directional light.
	Vector mgl32.Vec3
	// Radiance is the color scaled by intensity.
	Radiance mgl32.Vec3
	Range    float32
}

// Uniform returns the sample packed as the vec4 shaders read from u_light_vector: xyz is the
// position or direction and w is 1 for point lights and 0 for directional lights.
func (s Sample) Uniform() mgl32.Vec4 {
	w := float32(0)
	if s.Type == LightTypePoint {
		w = 1
	}
	return s.Vector.Vec4(w)
}

// Gather resolves every enabled light attached to s, in walk order. The scene must be flushed
// so global matrices are current.
//
// Parameters:
//   - s: the scene to search
//
// Returns:
//   - []Sample: the world-space lights
func Gather(s scene.Scene) []Sample {
	var out []Sample
	s.Walk(func(n scene.Node) bool {
		comps := n.Components(Kind)
		if len(comps) == 0 {
			return true
		}
		global, err := n.GlobalTransformMatrix()
		if err != nil {
			return true
		}
		for _, c := range comps {
			l := c.(Light)
			if !l.Enabled() {
				continue
			}
			sample := Sample{
				Type:     l.Type(),
				Radiance: l.Color().Mul(l.Intensity()),
				Range:    l.Range(),
			}
			if l.Type() == LightTypePoint {
				sample.Vector = global.Col(3).Vec3()
			} else {
				sample.Vector = global.Mul4x1(l.Direction().Vec4(0)).Vec3().Normalize()
			}
			out = append(out, sample)
		}
		return true
	})
	return out
}
