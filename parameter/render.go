package parameter

import "github.com/lixenwraith/threadworms/core"

// Layout
const (
	// CellWidth is the number of terminal columns drawn per grid cell
	CellWidth = 2

	// StatusBarHeight is the rows reserved under the grid
	StatusBarHeight = 1

	// SegmentShade is subtracted from a worm color for the segment border
	SegmentShade = 50
)

// Palette
var (
	ColorBackground = core.RGB{R: 0, G: 0, B: 0}
	ColorGridDot    = core.RGB{R: 40, G: 40, B: 40}
	ColorStatusText = core.RGB{R: 200, G: 200, B: 200}
	ColorStatusBg   = core.RGB{R: 26, G: 27, B: 38}
	ColorPaused     = core.RGB{R: 255, G: 165, B: 0}
	ColorWall       = core.RGB{R: 192, G: 192, B: 192}
)
