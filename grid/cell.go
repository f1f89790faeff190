package grid

import "github.com/lixenwraith/threadworms/core"

// Cell is one grid slot; the zero value is Empty
// Ownership is tagged by color alone, no worm id is stored
type Cell struct {
	Occupied bool
	Color    core.RGB
}

// Empty is the unoccupied cell
var Empty = Cell{}

// Occupied returns a cell owned by color
func Occupied(color core.RGB) Cell {
	return Cell{Occupied: true, Color: color}
}

// Frame is a value copy of the whole grid, filled by Store.Snapshot
type Frame struct {
	Width  int
	Height int
	Cells  []Cell // 1D array: index = y*Width + x
}

// NewFrame creates an all-Empty frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Cells:  make([]Cell, width*height),
	}
}

// At returns the cell at (x, y); out of bounds reads as Empty
func (f *Frame) At(x, y int) Cell {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return Empty
	}
	return f.Cells[y*f.Width+x]
}

// Occupied returns the number of occupied cells
func (f *Frame) Occupied() int {
	n := 0
	for i := range f.Cells {
		if f.Cells[i].Occupied {
			n++
		}
	}
	return n
}

// fit resets f to the given size if it does not match, dropping previous values
func (f *Frame) fit(width, height int) {
	if f.Width == width && f.Height == height && len(f.Cells) == width*height {
		return
	}
	f.Width = width
	f.Height = height
	f.Cells = make([]Cell, width*height)
}
