package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
)

// MeshRendererKind is the component kind under which MeshRenderers are registered on scene nodes.
const MeshRendererKind scene.ComponentKind = "mesh_renderer"

// MeshRenderer draws a mesh with a material at its node's global transform. It owns one
// reference to its material handle and releases it when the node is destroyed.
type MeshRenderer struct {
	manager  material.Manager
	mesh     Mesh
	material material.Material
	released bool
}

var (
	_ scene.Component = &MeshRenderer{}
	_ scene.Releaser  = &MeshRenderer{}
)

// NewMeshRenderer creates a MeshRenderer taking ownership of mat.
//
// Parameters:
//   - manager: the manager mat belongs to
//   - mesh: the geometry to draw
//   - mat: the material handle; the component releases it
//
// Returns:
//   - *MeshRenderer: the component, ready for Node.AddComponent
func NewMeshRenderer(manager material.Manager, mesh Mesh, mat material.Material) *MeshRenderer {
	if manager == nil || mesh == nil {
		panic("renderer: NewMeshRenderer requires a manager and a mesh")
	}
	return &MeshRenderer{
		manager:  manager,
		mesh:     mesh,
		material: mat,
	}
}

func (r *MeshRenderer) Kind() scene.ComponentKind {
	return MeshRendererKind
}

// Mesh returns the geometry.
func (r *MeshRenderer) Mesh() Mesh {
	return r.mesh
}

// Material returns the current handle. It changes when SetValue copies a shared instance.
func (r *MeshRenderer) Material() material.Material {
	return r.material
}

// SetValue writes one slot of this renderer's material without affecting other holders of the
// same instance.
//
// Parameters:
//   - name: the slot name
//   - v: the value, whose kind must match the slot
//
// Returns:
//   - error: error from material.Manager.SetValue, or if the renderer was released
func (r *MeshRenderer) SetValue(name string, v material.Value) error {
	if r.released {
		return fmt.Errorf("renderer: set %q: %w", name, material.ErrReleased)
	}
	return r.manager.SetValue(&r.material, name, v)
}

// SetMaterial replaces the material, releasing the previous handle.
//
// Parameters:
//   - mat: the new handle; the component takes ownership
//
// Returns:
//   - error: error from releasing the previous handle
func (r *MeshRenderer) SetMaterial(mat material.Material) error {
	if r.released {
		return fmt.Errorf("renderer: set material: %w", material.ErrReleased)
	}
	prev := r.material
	r.material = mat
	return r.manager.Release(prev)
}

// Release returns the material handle to its manager. The mesh is not deleted because meshes are
// usually shared between renderers.
func (r *MeshRenderer) Release() error {
	if r.released {
		return fmt.Errorf("renderer: %s: %w", r.material, material.ErrDoubleRelease)
	}
	r.released = true
	return r.manager.Release(r.material)
}
