package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reflectVertex = `#version 410 core
//@oxy:include transforms
uniform mat4 u_model;
uniform mat4 u_view_projection;
layout(location = 0) in vec3 a_position;
// uniform vec4 u_commented;
/* uniform float u_block_commented;
   still inside */
uniform highp float u_time, u_weights[4];
uniform Lights { vec4 color; } lights;
void main() { gl_Position = u_view_projection * u_model * vec4(a_position, 1.0); }
`

const reflectFragment = `#version 410 core
uniform float u_time;
uniform uvec2 u_cell;
uniform mat3x3 u_basis;
uniform samplerCube u_sky;
out vec4 frag;
void main() { frag = vec4(1.0); }
`

func reflectSources() Sources {
	return Sources{Stages: map[ShaderType]string{
		ShaderTypeVertex:   reflectVertex,
		ShaderTypeFragment: reflectFragment,
	}}
}

func TestReflectListsUniformsInDeclarationOrder(t *testing.T) {
	decls, err := Reflect(reflectSources())
	require.NoError(t, err)

	names := make([]string, len(decls))
	for i, d := range decls {
		names[i] = d.Name
	}
	assert.Equal(t, []string{"u_model", "u_view_projection", "u_time", "u_weights", "u_cell", "u_basis", "u_sky"}, names)

	assert.Equal(t, UniformFloat, decls[2].Kind)
	assert.Equal(t, ShaderTypeVertex, decls[2].Stage, "the first declaring stage wins")
	assert.Equal(t, 4, decls[3].Count)
	assert.Equal(t, UniformUVec2, decls[4].Kind)
	assert.Equal(t, "uvec2", decls[4].Type)
	assert.Equal(t, UniformMat3, decls[5].Kind)
	assert.False(t, decls[6].Kind.Valid())
	assert.Equal(t, ShaderTypeFragment, decls[6].Stage)
}

func TestReflectRejectsConflictingStages(t *testing.T) {
	src := reflectSources()
	src.Stages[ShaderTypeFragment] = "uniform vec2 u_time;\n"
	_, err := Reflect(src)
	assert.ErrorContains(t, err, `"u_time"`)
}

func TestReflectRejectsMalformedDeclarators(t *testing.T) {
	src := Sources{Stages: map[ShaderType]string{ShaderTypeVertex: "uniform float a b;\n"}}
	_, err := Reflect(src)
	assert.Error(t, err)
}

func TestStripBlockComments(t *testing.T) {
	assert.Equal(t, "a b", stripBlockComments("a/* x */b"))
	assert.Equal(t, "a ", stripBlockComments("a/* unterminated"))
	assert.Equal(t, "a  */", stripBlockComments("a/* /* */ */"), "block comments do not nest")
}

func TestCompileReflectChecksUploads(t *testing.T) {
	p, err := CompileReflect(reflectSources())
	require.NoError(t, err)

	assert.Equal(t, int32(0), p.UniformLocation(UniformModelName))
	assert.Equal(t, int32(2), p.UniformLocation("u_time"))
	assert.Equal(t, int32(-1), p.UniformLocation("u_missing"))

	assert.NoError(t, p.Upload(2, UniformFloat, make([]byte, 4)))
	assert.NoError(t, p.Upload(-1, UniformVec4, make([]byte, 16)), "unknown locations are ignored")
	assert.ErrorContains(t, p.Upload(2, UniformInt, make([]byte, 4)), "declared float")
	assert.Error(t, p.Upload(2, UniformFloat, make([]byte, 8)))
	assert.Error(t, p.Upload(99, UniformFloat, make([]byte, 4)))

	uniforms, ok := Uniforms(p)
	require.True(t, ok)
	assert.Len(t, uniforms, 7)
}

func TestCompileReflectRequiresStages(t *testing.T) {
	_, err := CompileReflect(Sources{Stages: map[ShaderType]string{ShaderTypeVertex: ""}})
	assert.Error(t, err)
}
