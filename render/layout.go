package render

// Layout places the grid on the terminal, centered above the status bar
type Layout struct {
	CellWidth int
	OffsetX   int
	OffsetY   int
	Cols      int // grid columns that fit on screen
	Rows      int // grid rows that fit on screen
	StatusY   int
	Width     int
	Height    int
}

// ComputeLayout fits a gridW x gridH grid into a screenW x screenH terminal
// Grids larger than the screen are clipped at the right and bottom
func ComputeLayout(screenW, screenH, gridW, gridH, cellWidth, statusHeight int) Layout {
	cellWidth = max(cellWidth, 1)
	areaH := max(screenH-statusHeight, 0)

	l := Layout{
		CellWidth: cellWidth,
		Cols:      min(gridW, screenW/cellWidth),
		Rows:      min(gridH, areaH),
		StatusY:   max(screenH-1, 0),
		Width:     screenW,
		Height:    screenH,
	}
	l.OffsetX = (screenW - l.Cols*cellWidth) / 2
	l.OffsetY = (areaH - l.Rows) / 2
	return l
}

// ScreenX returns the first terminal column of grid column x
func (l Layout) ScreenX(x int) int {
	return l.OffsetX + x*l.CellWidth
}

// ScreenY returns the terminal row of grid row y
func (l Layout) ScreenY(y int) int {
	return l.OffsetY + y
}
