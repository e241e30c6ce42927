package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"basic.vert": "#version 410 core\n//@oxy:include transforms\nvoid main() {}\n",
		"good.frag":  "#version 410 core\nuniform vec3 color;\nuniform vec4 tint;\nvoid main() {}\n",
		"bad.frag":   "#version 410 core\nuniform ivec3 color;\nvoid main() {}\n",
		"good.json": `{"shaders": {"vert": "basic.vert", "frag": "good.frag"},
			"slots": {"color": {"type": "vec3", "default": [1, 0, 0]}, "ghost": {"type": "float"}}}`,
		"bad.json": `{"shaders": {"vert": "basic.vert", "frag": "bad.frag"},
			"slots": {"color": {"type": "vec3"}}}`,
		"red.yaml": "template: good.json\nslots:\n  color: [1, 0, 0]\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func newReflectManager() material.Manager {
	return material.NewManager(material.WithCompiler(shader.CompileReflect))
}

func TestInspectPrintsLayout(t *testing.T) {
	dir := writeFixtures(t)
	var buf bytes.Buffer
	require.NoError(t, inspect(&buf, newReflectManager(), []string{filepath.Join(dir, "good.json")}))

	out := buf.String()
	assert.Contains(t, out, "template 0:")
	assert.Contains(t, out, "instance size 16 bytes")
	assert.Contains(t, out, "vec3[1 0 0]")
	assert.Contains(t, out, "ghost")
	assert.Contains(t, out, "uniforms without a slot: tint")
}

func TestInspectFailsOnMissingSchema(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, inspect(&buf, newReflectManager(), []string{filepath.Join(t.TempDir(), "none.json")}))
}

func TestValidateWarnsOnUndeclaredSlots(t *testing.T) {
	dir := writeFixtures(t)
	red := filepath.Join(dir, "red.yaml")

	var buf bytes.Buffer
	require.NoError(t, validate(&buf, newReflectManager(), []string{red}, false, false))
	assert.Contains(t, buf.String(), `slot "ghost" is not declared`)
	assert.Contains(t, buf.String(), "ok   "+red)

	buf.Reset()
	assert.Error(t, validate(&buf, newReflectManager(), []string{red}, false, true), "strict mode fails on warnings")
}

func TestValidateReportsTypeMismatches(t *testing.T) {
	dir := writeFixtures(t)
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")

	var buf bytes.Buffer
	err := validate(&buf, newReflectManager(), []string{good, bad}, true, false)
	require.Error(t, err)
	assert.ErrorContains(t, err, "declared ivec3")
	assert.Contains(t, buf.String(), "ok   "+good)
	assert.Contains(t, buf.String(), "FAIL "+bad)
}
