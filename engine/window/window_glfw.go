package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow is the GLFW implementation of the Window interface.
type glfwWindow struct {
	settings  settings
	callbacks callbacks

	window  *glfw.Window
	running bool
	width   int
	height  int
}

var _ Window = &glfwWindow{}

var mouseButtons = map[glfw.MouseButton]MouseButton{
	glfw.MouseButtonLeft:   MouseButtonLeft,
	glfw.MouseButtonRight:  MouseButtonRight,
	glfw.MouseButtonMiddle: MouseButtonMiddle,
}

// newGLFWWindow initializes GLFW and opens a window with a 4.1 core context.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func newGLFWWindow(s settings) (*glfwWindow, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// 4.1 core is the newest profile macOS provides.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(s.width, s.height, s.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}

	w := &glfwWindow{settings: s, window: win, running: true}
	win.MakeContextCurrent()
	if s.vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	win.SetSizeLimits(s.minWidth, s.minHeight, glfwLimit(s.maxWidth), glfwLimit(s.maxHeight))

	win.SetKeyCallback(w.onKey)
	win.SetScrollCallback(w.onScroll)
	win.SetMouseButtonCallback(w.onMouseButton)
	win.SetCursorPosCallback(w.onCursorPos)
	// The framebuffer size is what the viewport needs; on high-DPI displays it is larger than
	// the window size in screen coordinates.
	win.SetFramebufferSizeCallback(w.onFramebufferSize)

	w.width, w.height = win.GetFramebufferSize()
	return w, nil
}

func glfwLimit(v int) int {
	if v <= 0 {
		return glfw.DontCare
	}
	return v
}

func (w *glfwWindow) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press && w.settings.closeOnEscape {
		w.RequestClose()
		return
	}
	if w.callbacks.key == nil {
		return
	}
	switch action {
	case glfw.Press, glfw.Repeat:
		w.callbacks.key(uint32(key), true)
	case glfw.Release:
		w.callbacks.key(uint32(key), false)
	}
}

func (w *glfwWindow) onScroll(_ *glfw.Window, _, yoff float64) {
	if w.callbacks.scroll != nil {
		w.callbacks.scroll(float32(yoff))
	}
}

func (w *glfwWindow) onMouseButton(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	b, ok := mouseButtons[button]
	if !ok || w.callbacks.mouseButton == nil {
		return
	}
	x, y := win.GetCursorPos()
	w.callbacks.mouseButton(b, action == glfw.Press, int32(x), int32(y))
}

func (w *glfwWindow) onCursorPos(_ *glfw.Window, x, y float64) {
	if w.callbacks.mouseMove != nil {
		w.callbacks.mouseMove(int32(x), int32(y))
	}
}

func (w *glfwWindow) onFramebufferSize(_ *glfw.Window, width, height int) {
	w.width, w.height = width, height
	if w.callbacks.resize != nil {
		w.callbacks.resize(width, height)
	}
}

func (w *glfwWindow) SetUpdateCallback(callback func()) {
	w.callbacks.update = callback
}

func (w *glfwWindow) SetResizeCallback(callback func(width, height int)) {
	w.callbacks.resize = callback
}

func (w *glfwWindow) SetScrollCallback(callback func(delta float32)) {
	w.callbacks.scroll = callback
}

func (w *glfwWindow) SetKeyCallback(callback func(keyCode uint32, pressed bool)) {
	w.callbacks.key = callback
}

func (w *glfwWindow) SetMouseButtonCallback(callback func(button MouseButton, pressed bool, x, y int32)) {
	w.callbacks.mouseButton = callback
}

func (w *glfwWindow) SetMouseMoveCallback(callback func(x, y int32)) {
	w.callbacks.mouseMove = callback
}

func (w *glfwWindow) MakeCurrent() {
	if w.window != nil {
		w.window.MakeContextCurrent()
	}
}

func (w *glfwWindow) SwapBuffers() {
	if w.window != nil {
		w.window.SwapBuffers()
	}
}

func (w *glfwWindow) IsRunning() bool {
	return w.window != nil && w.running && !w.window.ShouldClose()
}

func (w *glfwWindow) RequestClose() {
	w.running = false
	if w.window != nil {
		w.window.SetShouldClose(true)
	}
}

func (w *glfwWindow) Close() error {
	if w.window == nil {
		return errors.New("window: already closed")
	}
	w.running = false
	w.window.Destroy()
	w.window = nil
	glfw.Terminate()
	return nil
}

// ProcessMessages polls events without blocking so the update callback runs as often as the
// swap interval allows.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func (w *glfwWindow) ProcessMessages() {
	for w.IsRunning() {
		glfw.PollEvents()
		if !w.IsRunning() {
			break
		}
		if w.callbacks.update != nil {
			w.callbacks.update()
		}
	}
}

func (w *glfwWindow) Width() int {
	return w.width
}

func (w *glfwWindow) Height() int {
	return w.height
}
