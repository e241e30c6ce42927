package shader

import "fmt"

// UniformKind identifies the GLSL type of a uniform slot. Every kind is stored as 4-byte
// components: matrices are column-major with Columns()*Rows() components.
type UniformKind uint8

const (
	UniformFloat UniformKind = iota
	UniformVec2
	UniformVec3
	UniformVec4
	UniformInt
	UniformIVec2
	UniformIVec3
	UniformIVec4
	UniformUint
	UniformUVec2
	UniformUVec3
	UniformUVec4
	UniformMat2
	UniformMat3
	UniformMat4
	UniformMat2x3
	UniformMat3x2
	UniformMat2x4
	UniformMat4x2
	UniformMat3x4
	UniformMat4x3

	// UniformSampler2D holds the texture unit a sampler2D uniform reads from.
	UniformSampler2D

	uniformKindCount
)

// BaseType is the scalar storage type of a UniformKind's components.
type BaseType uint8

const (
	BaseFloat32 BaseType = iota
	BaseInt32
	BaseUint32
)

// ComponentSize is the byte size of one uniform component.
const ComponentSize = 4

type kindInfo struct {
	name    string
	base    BaseType
	columns int
	rows    int
}

var kindTable = [uniformKindCount]kindInfo{
	UniformFloat:     {"float", BaseFloat32, 1, 1},
	UniformVec2:      {"vec2", BaseFloat32, 1, 2},
	UniformVec3:      {"vec3", BaseFloat32, 1, 3},
	UniformVec4:      {"vec4", BaseFloat32, 1, 4},
	UniformInt:       {"int", BaseInt32, 1, 1},
	UniformIVec2:     {"ivec2", BaseInt32, 1, 2},
	UniformIVec3:     {"ivec3", BaseInt32, 1, 3},
	UniformIVec4:     {"ivec4", BaseInt32, 1, 4},
	UniformUint:      {"uint", BaseUint32, 1, 1},
	UniformUVec2:     {"uivec2", BaseUint32, 1, 2},
	UniformUVec3:     {"uivec3", BaseUint32, 1, 3},
	UniformUVec4:     {"uivec4", BaseUint32, 1, 4},
	UniformMat2:      {"mat2", BaseFloat32, 2, 2},
	UniformMat3:      {"mat3", BaseFloat32, 3, 3},
	UniformMat4:      {"mat4", BaseFloat32, 4, 4},
	UniformMat2x3:    {"mat2x3", BaseFloat32, 2, 3},
	UniformMat3x2:    {"mat3x2", BaseFloat32, 3, 2},
	UniformMat2x4:    {"mat2x4", BaseFloat32, 2, 4},
	UniformMat4x2:    {"mat4x2", BaseFloat32, 4, 2},
	UniformMat3x4:    {"mat3x4", BaseFloat32, 3, 4},
	UniformMat4x3:    {"mat4x3", BaseFloat32, 4, 3},
	UniformSampler2D: {"sampler2D", BaseInt32, 1, 1},
}

var kindByName = func() map[string]UniformKind {
	m := make(map[string]UniformKind, uniformKindCount)
	for k := UniformKind(0); k < uniformKindCount; k++ {
		m[kindTable[k].name] = k
	}
	return m
}()

// ParseUniformKind resolves a schema type name such as "vec3" or "mat4x3".
//
// Parameters:
//   - name: the type name as written in a material schema
//
// Returns:
//   - UniformKind: the matching kind
//   - error: error if the name is not a recognized type
func ParseUniformKind(name string) (UniformKind, error) {
	k, ok := kindByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown uniform type %q", name)
	}
	return k, nil
}

// UniformKinds returns every valid kind in declaration order.
func UniformKinds() []UniformKind {
	out := make([]UniformKind, 0, uniformKindCount)
	for k := UniformKind(0); k < uniformKindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Valid reports whether k is one of the declared kinds.
func (k UniformKind) Valid() bool {
	return k < uniformKindCount
}

func (k UniformKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("UniformKind(%d)", uint8(k))
	}
	return kindTable[k].name
}

// Base returns the scalar storage type of the kind's components.
func (k UniformKind) Base() BaseType {
	return kindTable[k].base
}

// Columns returns the matrix column count, or 1 for scalars and vectors.
func (k UniformKind) Columns() int {
	return kindTable[k].columns
}

// Rows returns the matrix row count, or the vector width for scalars and vectors.
func (k UniformKind) Rows() int {
	return kindTable[k].rows
}

// Components returns the number of 4-byte components the kind occupies.
func (k UniformKind) Components() int {
	return kindTable[k].columns * kindTable[k].rows
}

// Size returns the byte size of one value of the kind.
func (k UniformKind) Size() int {
	return k.Components() * ComponentSize
}

// IsMatrix reports whether the kind is a matrix type.
func (k UniformKind) IsMatrix() bool {
	return kindTable[k].columns > 1
}
