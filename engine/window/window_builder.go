package window

// WindowBuilderOption is a functional option for configuring a window before it opens.
type WindowBuilderOption func(s *settings)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(s *settings) {
		s.title = title
	}
}

// WithSize sets the initial window size in screen coordinates. Non-positive values are ignored.
//
// Parameters:
//   - width, height: the requested size
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(s *settings) {
		if width > 0 {
			s.width = width
		}
		if height > 0 {
			s.height = height
		}
	}
}

// WithMinSize sets the smallest size the user can resize the window to.
//
// Parameters:
//   - width, height: the minimum size, or Unlimited
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinSize(width, height int) WindowBuilderOption {
	return func(s *settings) {
		s.minWidth, s.minHeight = width, height
	}
}

// WithMaxSize sets the largest size the user can resize the window to. Unlimited by default.
//
// Parameters:
//   - width, height: the maximum size, or Unlimited
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(s *settings) {
		s.maxWidth, s.maxHeight = width, height
	}
}

// WithVSync sets whether SwapBuffers waits for the display refresh. Enabled by default.
//
// Parameters:
//   - enabled: true to sync buffer swaps to the refresh rate
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithVSync(enabled bool) WindowBuilderOption {
	return func(s *settings) {
		s.vsync = enabled
	}
}

// WithCloseOnEscape sets whether pressing Escape closes the window. Enabled by default.
//
// Parameters:
//   - enabled: false to deliver Escape to the key callback instead
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithCloseOnEscape(enabled bool) WindowBuilderOption {
	return func(s *settings) {
		s.closeOnEscape = enabled
	}
}
