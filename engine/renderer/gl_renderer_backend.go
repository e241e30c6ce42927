package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// glBackend is the OpenGL implementation of RendererBackend.
type glBackend struct{}

var _ RendererBackend = &glBackend{}

// NewGLBackend loads the OpenGL function pointers and enables depth testing and back-face culling.
// A current OpenGL 4.1 core context must be bound to the calling thread.
//
// Returns:
//   - RendererBackend: the OpenGL backend
//   - error: error if the OpenGL bindings cannot be initialized
func NewGLBackend() (RendererBackend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("renderer: init OpenGL: %w", err)
	}
	logger.Infof("OpenGL %s (%s)", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	return &glBackend{}, nil
}

func (b *glBackend) Type() RendererBackendType {
	return BackendTypeGL
}

// Clear clears the bound framebuffer's color and depth buffers.
//
// Parameters:
//   - color: RGBA clear color
func Clear(color mgl32.Vec4) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (b *glBackend) BeginFrame(clearColor mgl32.Vec4) {
	Clear(clearColor)
}

func (b *glBackend) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}
