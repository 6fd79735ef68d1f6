package window

// RGBA is a window background colour.
type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Background describes the platform-conditional window background.
type Background struct {
	// Translucent lets the OS blur show through (vibrancy on macOS).
	Translucent bool `json:"translucent"`
	Colour      RGBA `json:"colour"`
}

// Options are the fixed creation parameters of the single window.
type Options struct {
	Title      string     `json:"title"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	MinWidth   int        `json:"min_width"`
	MinHeight  int        `json:"min_height"`
	Frameless  bool       `json:"frameless"`
	Background Background `json:"background"`
}

const (
	DefaultWidth     = 1200
	DefaultHeight    = 800
	DefaultMinWidth  = 450
	DefaultMinHeight = 500
)

var opaqueDark = RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}

// DefaultOptions returns the creation parameters for goos: a frameless
// 1200x800 window with a 450x500 minimum, translucent on darwin and opaque
// dark everywhere else.
func DefaultOptions(goos string) Options {
	return Options{
		Title:      "Agent Shell",
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		MinWidth:   DefaultMinWidth,
		MinHeight:  DefaultMinHeight,
		Frameless:  true,
		Background: BackgroundFor(goos),
	}
}

// BackgroundFor returns the background treatment for a platform.
func BackgroundFor(goos string) Background {
	if goos == "darwin" {
		return Background{Translucent: true, Colour: RGBA{}}
	}
	return Background{Translucent: false, Colour: opaqueDark}
}
