package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/threadworms/core"
	"github.com/lixenwraith/threadworms/parameter"
)

// TrueColor converts an RGB triple to a tcell color
func TrueColor(c core.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

var (
	RgbBackground = TrueColor(parameter.ColorBackground)
	RgbGridDot    = TrueColor(parameter.ColorGridDot)
	RgbStatusText = TrueColor(parameter.ColorStatusText)
	RgbStatusBar  = TrueColor(parameter.ColorStatusBg)
	RgbPaused     = TrueColor(parameter.ColorPaused)
)

// segmentStyle is the two-tone worm cell: darkened border as background, full color glyph on top
func segmentStyle(c core.RGB) tcell.Style {
	return tcell.StyleDefault.
		Background(TrueColor(c.Darken(parameter.SegmentShade))).
		Foreground(TrueColor(c))
}
