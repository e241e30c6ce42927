package shader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreProcessorInclude(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("#version 410 core\n//@oxy:include transforms\nvoid main() {}")
	require.NoError(t, err)

	assert.Contains(t, out, "uniform mat4 u_model;")
	assert.Contains(t, out, "uniform mat4 u_view_projection;")
	assert.NotContains(t, out, "@oxy")
	require.Len(t, pp.Declarations(), 1)
	assert.Equal(t, Annotation{Type: AnnotationTypeInclude, Snippet: SnippetTransforms, Line: 2}, pp.Declarations()[0])
}

func TestPreProcessorErrors(t *testing.T) {
	pp := NewPreProcessor()
	for _, src := range []string{
		"//@oxy:include",
		"//@oxy:include nope",
		"//@oxy:include transforms extra",
		"//@oxy:bogus x",
		"  // @oxy:",
	} {
		_, err := pp.Process(src)
		assert.Error(t, err, src)
	}

	out, err := pp.Process("float x; // not an annotation")
	require.NoError(t, err)
	assert.Equal(t, "float x; // not an annotation", out)
	assert.Empty(t, pp.Declarations())
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "a.vert")
	frag := filepath.Join(dir, "a.frag")
	require.NoError(t, os.WriteFile(vert, []byte("//@oxy:include transforms\nvoid main() {}"), 0o644))
	require.NoError(t, os.WriteFile(frag, []byte("void main() {}"), 0o644))

	src, err := LoadSources(Paths{Vertex: vert, Fragment: frag})
	require.NoError(t, err)
	assert.Len(t, src.Stages, 2)
	assert.True(t, strings.HasPrefix(src.Stages[ShaderTypeVertex], "uniform mat4 u_model;"))
	assert.True(t, src.Includes(SnippetTransforms))

	_, err = LoadSources(Paths{Vertex: vert})
	assert.Error(t, err)
	_, err = LoadSources(Paths{Vertex: vert, Fragment: frag, Geometry: filepath.Join(dir, "missing.geom")})
	assert.Error(t, err)
}
