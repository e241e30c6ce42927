package material

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreloadTemplates(t *testing.T) {
	f := newFixture(t, WithWorkers(2))
	a := f.write(t, "a.json", colorSchema)
	bad := f.write(t, "bad.json", `{"shaders": {"vert": "basic.vert", "frag": "basic.frag"}, "slots": {"x": {"type": "vec9"}}}`)
	b := f.write(t, "b.yaml", "shaders: {vert: basic.vert, frag: basic.frag}\nslots:\n  tint: {type: vec4, default: [1, 1, 1, 1]}\n")

	err := f.mgr.PreloadTemplates(a, bad, b, a)
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.ErrorContains(t, err, "bad.json")

	require.Len(t, f.mgr.Templates(), 2)
	ta, err := f.mgr.TemplateByPath(a)
	require.NoError(t, err)
	tb, err := f.mgr.TemplateByPath(b)
	require.NoError(t, err)
	assert.Equal(t, TemplateID(0), ta.ID(), "committed in argument order")
	assert.Equal(t, TemplateID(1), tb.ID())

	// Already loaded paths are skipped without touching the disk again.
	require.NoError(t, f.mgr.PreloadTemplates(a, b))
	assert.Len(t, f.mgr.Templates(), 2)
	assert.Len(t, f.compiler.Programs, 1)

	id, err := f.mgr.LoadTemplate(filepath.Join(f.dir, "b.yaml"))
	require.NoError(t, err)
	assert.Equal(t, tb.ID(), id)
}

func TestPreloadTemplatesEmpty(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.mgr.PreloadTemplates())
	assert.Empty(t, f.mgr.Templates())
}
