// Package engine runs the frame loop: window events, fixed-rate ticks, material hot reload,
// scene rendering and buffer swaps, all on the goroutine that owns the window and its OpenGL context.
package engine

import (
	"maps"
	"slices"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
	"github.com/Carmen-Shannon/oxy-gl/log"
)

var logger = log.New("engine")

// maxTicksPerFrame bounds catch-up ticks after a stall so a slow frame cannot snowball.
const maxTicksPerFrame = 5

// engine implements the Engine interface.
type engine struct {
	running bool
	quit    bool

	window   window.Window
	renderer renderer.Renderer
	camera   camera.Camera
	watcher  material.Watcher

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	accumulator    time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)
	reloadCallback func(reloads []material.Reload)

	scenes map[int]scene.Scene

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	lastFrame time.Time
	stats     renderer.Stats

	now   func() time.Time
	sleep func(time.Duration)
}

// Engine is the main entry point for the engine.
// It drives ticks and rendering from the window's message loop on a single goroutine, so scene
// and material state never needs locking.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer used to draw registered scenes, or nil.
	Renderer() renderer.Renderer

	// Camera returns the camera whose view-projection is used for every scene, or nil.
	Camera() camera.Camera

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each fixed-rate tick.
	// Use this for game logic and scene mutation.
	//
	// Parameters:
	//   - callback: function receiving the fixed tick duration in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called once per frame after the scenes are drawn
	// and before the buffers are swapped.
	//
	// Parameters:
	//   - callback: function receiving the frame time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetReloadCallback registers the function called after a frame's material hot reloads are applied.
	//
	// Parameters:
	//   - callback: function receiving the reloads applied this frame
	SetReloadCallback(callback func(reloads []material.Reload))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key.
	// Scenes are rendered in ascending key order.
	//
	// Parameters:
	//   - key: the z-index determining render order (lower renders first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Stats returns the renderer counters of the last frame, summed over all scenes.
	Stats() renderer.Stats

	// Run drives the window's message loop until the window closes or Quit is called.
	// Must be called from the goroutine that created the window.
	Run()

	// Quit asks the loop to stop after the current frame. Safe to call multiple times and
	// from inside callbacks.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Panics if no window was provided, since every frame ends in a buffer swap.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		scenes:         make(map[int]scene.Scene),
		profiler:       profiler.NewProfiler(time.Second),
		engineTickRate: time.Second / 60,
		now:            time.Now,
		sleep:          time.Sleep,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.window == nil {
		panic("engine: a window is required")
	}

	e.window.SetResizeCallback(func(width, height int) {
		if e.renderer != nil {
			e.renderer.Resize(width, height)
		}
		if e.camera != nil && height > 0 {
			e.camera.SetAspect(float32(width) / float32(height))
		}
	})
	if e.camera != nil && e.window.Height() > 0 {
		e.camera.SetAspect(float32(e.window.Width()) / float32(e.window.Height()))
	}
	if e.renderer != nil {
		e.renderer.Resize(e.window.Width(), e.window.Height())
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Run() {
	e.running = true
	e.quit = false
	e.lastFrame = e.now()
	e.window.SetUpdateCallback(e.frame)
	e.window.ProcessMessages()
	e.running = false
	logger.Info("engine loop stopped")
}

func (e *engine) Quit() {
	if e.quit {
		return
	}
	e.quit = true
	e.window.RequestClose()
}

// frame runs one iteration of the loop. The window calls it after polling events.
func (e *engine) frame() {
	if e.quit {
		return
	}
	start := e.now()
	elapsed := start.Sub(e.lastFrame)
	e.lastFrame = start

	e.tick(elapsed)
	if e.quit {
		return
	}
	e.reload()
	e.render(float32(elapsed.Seconds()))

	e.window.SwapBuffers()

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(start); remaining > 0 {
			e.sleep(remaining)
		}
	}
}

// tick runs the fixed-rate callback as many times as elapsed time allows, up to maxTicksPerFrame.
func (e *engine) tick(elapsed time.Duration) {
	e.accumulator += elapsed
	ticks := 0
	for e.accumulator >= e.engineTickRate {
		e.accumulator -= e.engineTickRate
		if ticks == maxTicksPerFrame {
			logger.Warningf("dropping %s of tick time", e.accumulator+e.engineTickRate)
			e.accumulator = 0
			break
		}
		ticks++
		if e.tickCallback != nil {
			e.tickCallback(float32(e.engineTickRate.Seconds()))
		}
		if e.quit {
			return
		}
	}
	if ticks > 0 && e.camera != nil {
		e.camera.Update()
	}
}

func (e *engine) reload() {
	if e.watcher == nil {
		return
	}
	reloads, err := e.watcher.Poll()
	if err != nil {
		logger.Errorf("material reload: %v", err)
	}
	if len(reloads) > 0 {
		logger.Infof("reloaded %d materials", len(reloads))
		if e.reloadCallback != nil {
			e.reloadCallback(reloads)
		}
	}
}

func (e *engine) render(dt float32) {
	e.stats = renderer.Stats{}
	if e.renderer != nil {
		viewProjection := e.viewProjection()
		for _, k := range slices.Sorted(maps.Keys(e.scenes)) {
			stats, err := e.renderer.Render(e.scenes[k], viewProjection)
			e.stats.Draws += stats.Draws
			e.stats.TemplateSwitches += stats.TemplateSwitches
			e.stats.Flushed += stats.Flushed
			if err != nil {
				logger.Errorf("render scene %q: %v", e.scenes[k].Name(), err)
			}
		}
	}

	if e.renderCallback != nil {
		e.renderCallback(dt)
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickRate(fps float64) {
	e.engineTickRate = tickDuration(fps)
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetReloadCallback(callback func(reloads []material.Reload)) {
	e.reloadCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	return maps.Clone(e.scenes)
}

func (e *engine) Stats() renderer.Stats {
	return e.stats
}
