package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderOptions(t *testing.T) {
	s := defaultSettings()
	assert.True(t, s.vsync)
	assert.True(t, s.closeOnEscape)
	assert.Equal(t, Unlimited, s.maxWidth)

	for _, opt := range []WindowBuilderOption{
		WithTitle("demo"),
		WithSize(800, 0),
		WithMinSize(100, 50),
		WithMaxSize(1920, 1080),
		WithVSync(false),
		WithCloseOnEscape(false),
	} {
		opt(&s)
	}
	assert.Equal(t, settings{
		title:     "demo",
		width:     800,
		height:    720,
		minWidth:  100,
		minHeight: 50,
		maxWidth:  1920,
		maxHeight: 1080,
	}, s)
}

func TestMouseButtonString(t *testing.T) {
	assert.Equal(t, "middle", MouseButtonMiddle.String())
	assert.Equal(t, "MouseButton(7)", MouseButton(7).String())
}
