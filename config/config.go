// Package config loads the engine's TOML configuration file.
//
// Every field is optional. Missing or zero values fall back to Default, and relative paths are
// resolved against the directory holding the file so a config can travel with its assets.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/log"
	"github.com/pelletier/go-toml/v2"
)

// Window configures the desktop window.
type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	// VSync is a pointer so an explicit false survives merging with the defaults.
	VSync *bool `toml:"vsync"`
}

// Engine configures the frame loop.
type Engine struct {
	// TickRate is the fixed update rate in ticks per second.
	TickRate float64 `toml:"tick_rate"`
	// FrameLimit caps rendered frames per second; 0 leaves the loop uncapped.
	FrameLimit float64 `toml:"frame_limit"`
	Profiling  bool    `toml:"profiling"`
}

// Log configures the log package.
type Log struct {
	// Level is one of debug, info, notice, warning or error.
	Level string `toml:"level"`
	// File routes output to a rotating file instead of stderr when set.
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Material configures the material manager.
type Material struct {
	// ChunkLength is the number of instance slots per slab chunk.
	ChunkLength int `toml:"chunk_length"`
	// Workers is the number of documents read in parallel by preloading.
	Workers int `toml:"workers"`
	// Preload lists template schemas loaded at startup.
	Preload []string `toml:"preload"`
	// Watch enables hot reload of material documents.
	Watch bool `toml:"watch"`
}

// Config is the decoded configuration file.
type Config struct {
	Window   Window   `toml:"window"`
	Engine   Engine   `toml:"engine"`
	Log      Log      `toml:"log"`
	Material Material `toml:"material"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	vsync := true
	return Config{
		Window: Window{
			Title:  "oxy-gl",
			Width:  1280,
			Height: 720,
			VSync:  &vsync,
		},
		Engine: Engine{
			TickRate: 60,
		},
		Log: Log{
			Level:      "notice",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Material: Material{
			ChunkLength: 256,
			Workers:     4,
		},
	}
}

// Load reads a configuration file and merges it over Default. Unknown keys are rejected so
// typos do not silently fall back to defaults.
//
// Parameters:
//   - path: the TOML file
//
// Returns:
//   - Config: the merged configuration with paths made absolute
//   - error: an IO, decode or validation error
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(data, filepath.Dir(abs))
}

// Parse decodes TOML data and merges it over Default.
//
// Parameters:
//   - data: the TOML document
//   - dir: the directory relative paths are resolved against
//
// Returns:
//   - Config: the merged configuration
//   - error: a decode or validation error
func Parse(data []byte, dir string) (Config, error) {
	var file Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg := merge(file, Default())
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	if cfg.Log.File != "" {
		cfg.Log.File = resolve(dir, cfg.Log.File)
	}
	for i, p := range cfg.Material.Preload {
		cfg.Material.Preload[i] = resolve(dir, p)
	}
	return cfg, nil
}

func merge(file, def Config) Config {
	out := file
	out.Window.Title = common.Coalesce(file.Window.Title, def.Window.Title)
	out.Window.Width = common.Coalesce(file.Window.Width, def.Window.Width)
	out.Window.Height = common.Coalesce(file.Window.Height, def.Window.Height)
	out.Window.VSync = common.Coalesce(file.Window.VSync, def.Window.VSync)
	out.Engine.TickRate = common.Coalesce(file.Engine.TickRate, def.Engine.TickRate)
	out.Log.Level = common.Coalesce(file.Log.Level, def.Log.Level)
	out.Log.MaxSizeMB = common.Coalesce(file.Log.MaxSizeMB, def.Log.MaxSizeMB)
	out.Log.MaxBackups = common.Coalesce(file.Log.MaxBackups, def.Log.MaxBackups)
	out.Material.ChunkLength = common.Coalesce(file.Material.ChunkLength, def.Material.ChunkLength)
	out.Material.Workers = common.Coalesce(file.Material.Workers, def.Material.Workers)
	return out
}

func (c Config) validate() error {
	switch {
	case c.Window.Width < 0 || c.Window.Height < 0:
		return fmt.Errorf("config: window size %dx%d is negative", c.Window.Width, c.Window.Height)
	case c.Engine.TickRate < 0:
		return fmt.Errorf("config: tick_rate %v is negative", c.Engine.TickRate)
	case c.Engine.FrameLimit < 0:
		return fmt.Errorf("config: frame_limit %v is negative", c.Engine.FrameLimit)
	case c.Material.ChunkLength < 0:
		return fmt.Errorf("config: chunk_length %d is negative", c.Material.ChunkLength)
	case c.Material.Workers < 0:
		return fmt.Errorf("config: workers %d is negative", c.Material.Workers)
	}
	switch c.Log.Level {
	case "debug", "info", "notice", "warning", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	return nil
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

// VSyncEnabled reports the effective vsync setting.
func (w Window) VSyncEnabled() bool {
	return w.VSync == nil || *w.VSync
}

// ApplyLog configures the log package from c. When a log file is configured the returned closer
// must be closed on shutdown; otherwise it is a no-op.
//
// Returns:
//   - io.Closer: the file sink, or a no-op closer
func (c Config) ApplyLog() io.Closer {
	var closer io.Closer = nopCloser{}
	if c.Log.File != "" {
		closer = log.SetFileSink(c.Log.File, log.FileSinkOptions{
			MaxSizeMB:  c.Log.MaxSizeMB,
			MaxBackups: c.Log.MaxBackups,
		})
	}
	log.SetLevel(log.ParseLevel(c.Log.Level))
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
