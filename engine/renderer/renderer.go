// Package renderer draws a scene graph. It walks the attached nodes, collects their MeshRenderer
// components and issues one draw per component, grouping draws by material template so each
// template's program is bound once per frame.
package renderer

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/Carmen-Shannon/oxy-gl/log"
	"github.com/go-gl/mathgl/mgl32"
)

var logger = log.New("renderer")

// Stats describes one rendered frame.
type Stats struct {
	// Draws is the number of meshes drawn.
	Draws int
	// TemplateSwitches counts program binds, one per template group.
	TemplateSwitches int
	// Flushed is the number of global matrices recomputed by the scene flush before drawing.
	Flushed int
}

// Renderer draws scenes through a backend.
type Renderer interface {
	// Render flushes the scene's dirty set and draws every MeshRenderer on an attached node.
	// Draws are grouped by template: the first material of a group is bound with Use and the
	// rest with UseBatched. u_view_projection is uploaded once per group and u_model per draw.
	//
	// Parameters:
	//   - s: the scene to draw
	//   - viewProjection: the camera's projection * view matrix
	//
	// Returns:
	//   - Stats: counters for the frame
	//   - error: the first material or upload error; drawing stops there
	Render(s scene.Scene, viewProjection mgl32.Mat4) (Stats, error)

	// Resize updates the viewport after a framebuffer resize.
	//
	// Parameters:
	//   - width: new width in pixels
	//   - height: new height in pixels
	Resize(width, height int)

	// Backend returns the graphics backend in use.
	Backend() RendererBackend
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	manager    material.Manager
	backend    RendererBackend
	clearColor mgl32.Vec4

	width, height int

	// queue is reused between frames.
	queue []drawItem
}

var _ Renderer = &renderer{}

// drawItem is one MeshRenderer with the world matrix of its node.
type drawItem struct {
	mesh     *MeshRenderer
	model    mgl32.Mat4
	template material.TemplateID
}

// NewRenderer creates a Renderer drawing through backend. Panics if manager or backend is nil.
//
// Parameters:
//   - manager: the material manager owning every material drawn
//   - backend: the graphics backend
//   - options: variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the renderer
func NewRenderer(manager material.Manager, backend RendererBackend, options ...RendererBuilderOption) Renderer {
	if manager == nil || backend == nil {
		panic("renderer: NewRenderer requires a material manager and a backend")
	}
	r := &renderer{
		manager:    manager,
		backend:    backend,
		clearColor: mgl32.Vec4{0.1, 0.1, 0.12, 1},
	}
	for _, opt := range options {
		opt(r)
	}
	if r.width > 0 && r.height > 0 {
		backend.Resize(r.width, r.height)
	}
	return r
}

// NewGLRenderer creates a Renderer on the OpenGL backend. A current OpenGL context is required.
//
// Parameters:
//   - manager: the material manager owning every material drawn
//   - options: variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the renderer
//   - error: error if OpenGL cannot be initialized
func NewGLRenderer(manager material.Manager, options ...RendererBuilderOption) (Renderer, error) {
	backend, err := NewGLBackend()
	if err != nil {
		return nil, err
	}
	return NewRenderer(manager, backend, options...), nil
}

func (r *renderer) Backend() RendererBackend {
	return r.backend
}

func (r *renderer) Resize(width, height int) {
	r.width, r.height = width, height
	r.backend.Resize(width, height)
}

func (r *renderer) Render(s scene.Scene, viewProjection mgl32.Mat4) (Stats, error) {
	stats := Stats{Flushed: s.Flush()}
	r.backend.BeginFrame(r.clearColor)

	if err := r.collect(s); err != nil {
		return stats, err
	}
	lights := light.Gather(s)

	var (
		program  shader.Program
		modelLoc int32
		current  material.TemplateID
	)
	viewProjectionData := material.Mat4(viewProjection).Bytes()
	for i, item := range r.queue {
		mat := item.mesh.Material()
		if i == 0 || item.template != current {
			t, err := r.manager.Template(item.template)
			if err != nil {
				return stats, fmt.Errorf("renderer: %s: %w", mat, err)
			}
			if err := r.manager.Use(mat); err != nil {
				return stats, fmt.Errorf("renderer: use %s: %w", mat, err)
			}
			program = t.Program()
			modelLoc = program.UniformLocation(shader.UniformModelName)
			vpLoc := program.UniformLocation(shader.UniformViewProjectionName)
			if err := program.Upload(vpLoc, shader.UniformMat4, viewProjectionData); err != nil {
				return stats, fmt.Errorf("renderer: upload view projection: %w", err)
			}
			if len(lights) > 0 {
				if err := uploadLight(program, lights[0]); err != nil {
					return stats, fmt.Errorf("renderer: upload light: %w", err)
				}
			}
			current = item.template
			stats.TemplateSwitches++
		} else if err := r.manager.UseBatched(mat); err != nil {
			return stats, fmt.Errorf("renderer: use %s: %w", mat, err)
		}

		if err := program.Upload(modelLoc, shader.UniformMat4, material.Mat4(item.model).Bytes()); err != nil {
			return stats, fmt.Errorf("renderer: upload model matrix: %w", err)
		}
		item.mesh.Mesh().Draw()
		stats.Draws++
	}
	return stats, nil
}

// collect fills the draw queue in walk order, then stable-sorts it by template.
func (r *renderer) collect(s scene.Scene) error {
	r.queue = r.queue[:0]
	var walkErr error
	s.Walk(func(n scene.Node) bool {
		components := n.Components(MeshRendererKind)
		if len(components) == 0 {
			return true
		}
		model, err := n.GlobalTransformMatrix()
		if err != nil {
			walkErr = fmt.Errorf("renderer: %q: %w", n.Path(), err)
			return false
		}
		for _, c := range components {
			mr, ok := c.(*MeshRenderer)
			if !ok || mr.released {
				continue
			}
			r.queue = append(r.queue, drawItem{
				mesh:     mr,
				model:    model,
				template: mr.Material().TemplateID(),
			})
		}
		return true
	})
	if walkErr != nil {
		logger.Errorf("collect: %v", walkErr)
		return walkErr
	}
	sort.SliceStable(r.queue, func(i, j int) bool {
		return r.queue[i].template < r.queue[j].template
	})
	return nil
}

// uploadLight fills the lighting snippet's uniforms of the bound program. Programs that do not
// include the snippet resolve every name to -1 and the uploads are skipped.
func uploadLight(program shader.Program, l light.Sample) error {
	uploads := []struct {
		name  string
		value material.Value
	}{
		{shader.UniformLightVectorName, material.Vec4(l.Uniform())},
		{shader.UniformLightRadianceName, material.Vec3(l.Radiance)},
		{shader.UniformLightRangeName, material.Float(l.Range)},
	}
	for _, u := range uploads {
		if err := program.Upload(program.UniformLocation(u.name), u.value.Kind(), u.value.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
