// Package window opens a desktop window that owns an OpenGL 4.1 core context.
//
// Every method must be called from the goroutine that created the window; NewWindow locks that
// goroutine to its OS thread because GLFW and OpenGL require it.
package window

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/log"
)

var logger = log.New("window")

// MouseButton identifies a mouse button in button events.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "left"
	case MouseButtonRight:
		return "right"
	case MouseButtonMiddle:
		return "middle"
	default:
		return fmt.Sprintf("MouseButton(%d)", int(b))
	}
}

// Window provides the OpenGL context, the message loop and input events.
// Sizes are framebuffer pixels, which differ from screen coordinates on high-DPI displays.
type Window interface {
	// SetUpdateCallback sets the function called once per message loop iteration, after events
	// were dispatched.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse wheel events.
	//
	// Parameters:
	//   - callback: function receiving the vertical delta (positive = away from the user)
	SetScrollCallback(callback func(delta float32))

	// SetKeyCallback sets the callback for key events. Held keys repeat as presses.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code and whether the key went down
	SetKeyCallback(callback func(keyCode uint32, pressed bool))

	// SetMouseButtonCallback sets the callback for mouse button events.
	//
	// Parameters:
	//   - callback: function receiving the button, whether it went down and the cursor position
	SetMouseButtonCallback(callback func(button MouseButton, pressed bool, x, y int32))

	// SetMouseMoveCallback sets the callback for cursor movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor position
	SetMouseMoveCallback(callback func(x, y int32))

	// MakeCurrent binds the window's OpenGL context to the calling thread.
	MakeCurrent()

	// SwapBuffers presents the back buffer. With vsync this blocks until the next refresh.
	SwapBuffers()

	// IsRunning reports whether the message loop should keep going.
	IsRunning() bool

	// RequestClose asks the message loop to exit after the current iteration. The window stays
	// valid until Close.
	RequestClose()

	// Close destroys the window and its context.
	//
	// Returns:
	//   - error: error if the window was already closed
	Close() error

	// ProcessMessages runs the message loop until the window is asked to close.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// settings is the window configuration collected from builder options.
type settings struct {
	title         string
	width         int
	height        int
	minWidth      int
	minHeight     int
	maxWidth      int
	maxHeight     int
	vsync         bool
	closeOnEscape bool
}

// callbacks are the user handlers; nil entries are skipped.
type callbacks struct {
	update      func()
	resize      func(width, height int)
	scroll      func(delta float32)
	key         func(keyCode uint32, pressed bool)
	mouseButton func(button MouseButton, pressed bool, x, y int32)
	mouseMove   func(x, y int32)
}

// Unlimited leaves a size limit unset.
const Unlimited = -1

func defaultSettings() settings {
	return settings{
		title:         "oxy-gl",
		width:         1280,
		height:        720,
		minWidth:      320,
		minHeight:     200,
		maxWidth:      Unlimited,
		maxHeight:     Unlimited,
		vsync:         true,
		closeOnEscape: true,
	}
}

// NewWindow creates the window and its OpenGL context, which is current on return.
// Panics if GLFW or the context cannot be created.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
func NewWindow(options ...WindowBuilderOption) Window {
	s := defaultSettings()
	for _, opt := range options {
		opt(&s)
	}
	w, err := newGLFWWindow(s)
	if err != nil {
		panic(fmt.Sprintf("window: %v", err))
	}
	logger.Infof("opened %q with a %dx%d framebuffer", s.title, w.width, w.height)
	return w
}
