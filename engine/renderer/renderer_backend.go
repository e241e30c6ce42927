package renderer

import "github.com/go-gl/mathgl/mgl32"

// RendererBackendType identifies the graphics API implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeGL selects the OpenGL 4.1 core backend.
	BackendTypeGL RendererBackendType = iota

	// BackendTypeHeadless selects a backend that issues no graphics calls. Draw calls still reach
	// each Mesh, so meshes decide what drawing means.
	BackendTypeHeadless
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeGL:
		return "gl"
	case BackendTypeHeadless:
		return "headless"
	default:
		return "unknown"
	}
}

// RendererBackend owns the frame-level graphics state: the clear color, the depth buffer and the
// viewport. Per-draw state belongs to materials and meshes.
type RendererBackend interface {
	// Type reports which implementation this is.
	Type() RendererBackendType

	// BeginFrame clears the color and depth buffers.
	//
	// Parameters:
	//   - clearColor: RGBA color the color buffer is cleared to
	BeginFrame(clearColor mgl32.Vec4)

	// Resize updates the viewport to the new framebuffer size in pixels.
	Resize(width, height int)
}

// headlessBackend is a RendererBackend that only records what it was asked to do.
type headlessBackend struct {
	frames        int
	width, height int
	clearColor    mgl32.Vec4
}

var _ RendererBackend = &headlessBackend{}

// NewHeadlessBackend creates a backend that makes no graphics calls, for tools and tests
// that run without a window.
//
// Returns:
//   - RendererBackend: the headless backend
func NewHeadlessBackend() RendererBackend {
	return &headlessBackend{}
}

func (b *headlessBackend) Type() RendererBackendType {
	return BackendTypeHeadless
}

func (b *headlessBackend) BeginFrame(clearColor mgl32.Vec4) {
	b.frames++
	b.clearColor = clearColor
}

func (b *headlessBackend) Resize(width, height int) {
	b.width, b.height = width, height
}
