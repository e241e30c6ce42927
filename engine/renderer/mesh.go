package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Vertex attribute locations used by every mesh built in this package. Shaders declare them with
// layout(location = N).
const (
	AttribPosition = 0
	AttribUV       = 1
)

// vertexStride is the number of float32 values per vertex: position xyz then uv.
const vertexStride = 5

// Mesh is drawable geometry. Draw is called with the material's program already bound and its
// uniforms uploaded.
type Mesh interface {
	// Draw issues the draw call for the whole mesh.
	Draw()

	// Delete releases the mesh's GPU buffers.
	Delete()
}

// glMesh is an indexed triangle mesh stored in a vertex array object.
type glMesh struct {
	vao, vbo, ibo uint32
	count         int32
}

var _ Mesh = &glMesh{}

// NewMesh uploads interleaved vertices and triangle indices to the GPU.
// A current OpenGL context is required.
//
// Parameters:
//   - vertices: interleaved position (xyz) and uv values, five floats per vertex
//   - indices: triangle list indices into vertices
//
// Returns:
//   - Mesh: the uploaded mesh
//   - error: error if the vertex data is not a whole number of vertices or an index is out of range
func NewMesh(vertices []float32, indices []uint32) (Mesh, error) {
	if len(vertices) == 0 || len(vertices)%vertexStride != 0 {
		return nil, fmt.Errorf("renderer: %d floats is not a whole number of vertices", len(vertices))
	}
	if len(indices) == 0 || len(indices)%3 != 0 {
		return nil, fmt.Errorf("renderer: %d indices is not a triangle list", len(indices))
	}
	n := uint32(len(vertices) / vertexStride)
	for _, i := range indices {
		if i >= n {
			return nil, fmt.Errorf("renderer: index %d out of range for %d vertices", i, n)
		}
	}

	m := &glMesh{count: int32(len(indices))}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(AttribPosition)
	gl.VertexAttribPointerWithOffset(AttribPosition, 3, gl.FLOAT, false, vertexStride*4, 0)
	gl.EnableVertexAttribArray(AttribUV)
	gl.VertexAttribPointerWithOffset(AttribUV, 2, gl.FLOAT, false, vertexStride*4, 3*4)

	gl.GenBuffers(1, &m.ibo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ibo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return m, nil
}

// NewQuadMesh uploads a unit quad in the XY plane centered on the origin, facing +Z.
//
// Returns:
//   - Mesh: the quad
//   - error: error from NewMesh
func NewQuadMesh() (Mesh, error) {
	return NewMesh(QuadVertices())
}

// NewCubeMesh uploads a unit cube centered on the origin with per-face uvs.
//
// Returns:
//   - Mesh: the cube
//   - error: error from NewMesh
func NewCubeMesh() (Mesh, error) {
	return NewMesh(CubeVertices())
}

// QuadVertices returns the geometry uploaded by NewQuadMesh.
func QuadVertices() ([]float32, []uint32) {
	return []float32{
			-0.5, -0.5, 0, 0, 0,
			0.5, -0.5, 0, 1, 0,
			0.5, 0.5, 0, 1, 1,
			-0.5, 0.5, 0, 0, 1,
		}, []uint32{
			0, 1, 2,
			2, 3, 0,
		}
}

// CubeVertices returns the geometry uploaded by NewCubeMesh. Faces wind counter-clockwise seen from outside.
func CubeVertices() ([]float32, []uint32) {
	// Each face is a quad spanned by two axes u, v around a center c on the face normal.
	faces := [6][3][3]float32{
		{{0, 0, 0.5}, {1, 0, 0}, {0, 1, 0}},   // +Z
		{{0, 0, -0.5}, {-1, 0, 0}, {0, 1, 0}}, // -Z
		{{0.5, 0, 0}, {0, 0, -1}, {0, 1, 0}},  // +X
		{{-0.5, 0, 0}, {0, 0, 1}, {0, 1, 0}},  // -X
		{{0, 0.5, 0}, {1, 0, 0}, {0, 0, -1}},  // +Y
		{{0, -0.5, 0}, {1, 0, 0}, {0, 0, 1}},  // -Y
	}
	corners := [4][2]float32{{-0.5, -0.5}, {0.5, -0.5}, {0.5, 0.5}, {-0.5, 0.5}}

	vertices := make([]float32, 0, 6*4*vertexStride)
	indices := make([]uint32, 0, 6*6)
	for f, face := range faces {
		c, u, v := face[0], face[1], face[2]
		for _, k := range corners {
			for axis := 0; axis < 3; axis++ {
				vertices = append(vertices, c[axis]+k[0]*u[axis]+k[1]*v[axis])
			}
			vertices = append(vertices, k[0]+0.5, k[1]+0.5)
		}
		base := uint32(f * 4)
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return vertices, indices
}

func (m *glMesh) Draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, 0)
}

func (m *glMesh) Delete() {
	if m.vao == 0 {
		return
	}
	gl.DeleteBuffers(1, &m.ibo)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteVertexArrays(1, &m.vao)
	m.vao, m.vbo, m.ibo = 0, 0, 0
}
