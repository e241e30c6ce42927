package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMergesOverDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[window]
title = "demo"
vsync = false

[engine]
frame_limit = 144

[material]
preload = ["materials/flat.toml", "/abs/tinted.json"]
`), "/game")
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, "demo", cfg.Window.Title)
	assert.Equal(t, def.Window.Width, cfg.Window.Width)
	assert.False(t, cfg.Window.VSyncEnabled(), "explicit false is kept")
	assert.Equal(t, float64(60), cfg.Engine.TickRate)
	assert.Equal(t, float64(144), cfg.Engine.FrameLimit)
	assert.Equal(t, "notice", cfg.Log.Level)
	assert.Equal(t, 256, cfg.Material.ChunkLength)
	assert.Equal(t, []string{filepath.Join("/game", "materials/flat.toml"), "/abs/tinted.json"}, cfg.Material.Preload)
}

func TestParseEmptyDocumentIsDefault(t *testing.T) {
	cfg, err := Parse(nil, "/game")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.Window.VSyncEnabled())
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"unknown key":   "[window]\ntitel = \"x\"\n",
		"bad syntax":    "[window\n",
		"negative size": "[window]\nwidth = -1\n",
		"negative tick": "[engine]\ntick_rate = -5.0\n",
		"bad level":     "[log]\nlevel = \"loud\"\n",
		"wrong type":    "[material]\nchunk_length = \"big\"\n",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc), "/game")
		assert.Error(t, err, name)
	}
}

func TestLoadResolvesAgainstConfigDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oxy.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nfile = \"logs/oxy.log\"\nlevel = \"debug\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "logs", "oxy.log"), cfg.Log.File)
	assert.Equal(t, "debug", cfg.Log.Level)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}
