package material

import (
	"os"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWatcherFixture(t *testing.T) (*fixture, *watcher) {
	t.Helper()
	f := newFixture(t)
	f.write(t, "color.json", colorSchema)
	w, err := NewWatcher(f.mgr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return f, w.(*watcher)
}

func TestWatcherPollReappliesDocument(t *testing.T) {
	f, w := newWatcherFixture(t)
	path := f.write(t, "red.json", `{"template": "color.json", "slots": {"intensity": 2}}`)

	m, err := w.Watch(path)
	require.NoError(t, err)
	again, err := w.Watch(path)
	require.NoError(t, err)
	assert.Equal(t, m, again)
	shared, err := f.mgr.Clone(m)
	require.NoError(t, err)

	f.write(t, "red.json", `{"template": "color.json", "slots": {"color": [0, 0, 1]}}`)
	w.mu.Lock()
	w.pending[path] = struct{}{}
	w.mu.Unlock()

	reloads, err := w.Poll()
	require.NoError(t, err)
	require.Len(t, reloads, 1)
	assert.Equal(t, m, reloads[0].Previous)
	assert.NotEqual(t, m, reloads[0].Current, "shared instance is copied before writing")

	cur, ok := w.Material(path)
	require.True(t, ok)
	assert.Equal(t, reloads[0].Current, cur)
	assert.Equal(t, Vec3(mgl32.Vec3{0, 0, 1}), f.value(t, cur, "color"))
	assert.Equal(t, Float(1), f.value(t, cur, "intensity"), "dropped override falls back to the default")
	assert.Equal(t, Float(2), f.value(t, shared, "intensity"))
}

func TestWatcherPollKeepsInstanceOnInvalidDocument(t *testing.T) {
	f, w := newWatcherFixture(t)
	path := f.write(t, "red.yaml", "template: color.json\nslots: {intensity: 2}\n")
	m, err := w.Watch(path)
	require.NoError(t, err)

	f.write(t, "red.yaml", "template: color.json\nslots: {intensity: [1, 2]}\n")
	w.mu.Lock()
	w.pending[path] = struct{}{}
	w.mu.Unlock()

	reloads, err := w.Poll()
	assert.ErrorIs(t, err, ErrLiteralCount)
	assert.Empty(t, reloads)
	cur, _ := w.Material(path)
	assert.Equal(t, m, cur)
	assert.Equal(t, Float(2), f.value(t, cur, "intensity"))
}

func TestWatcherPicksUpFileChanges(t *testing.T) {
	f, w := newWatcherFixture(t)
	path := f.write(t, "live.json", `{"template": "color.json", "slots": {"intensity": 2}}`)
	_, err := w.Watch(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"template": "color.json", "slots": {"intensity": 5}}`), 0o644))

	deadline := time.Now().Add(5 * time.Second)
	var reloads []Reload
	for len(reloads) == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
		reloads, err = w.Poll()
		require.NoError(t, err)
	}
	require.NotEmpty(t, reloads, "no file event within deadline")
	cur, _ := w.Material(path)
	assert.Equal(t, Float(5), f.value(t, cur, "intensity"))
}

func TestWatcherCloseReleasesHandles(t *testing.T) {
	f, w := newWatcherFixture(t)
	m, err := w.Watch(f.write(t, "red.json", `{"template": "color.json", "slots": {"intensity": 2}}`))
	require.NoError(t, err)
	tmpl, _ := f.mgr.Template(m.TemplateID())
	assert.Equal(t, 2, tmpl.Live())

	require.NoError(t, w.Close())
	assert.Equal(t, 1, tmpl.Live())
}
