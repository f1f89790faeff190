package grid

import (
	"errors"
	"strings"

	"github.com/lixenwraith/threadworms/core"
	"github.com/lixenwraith/threadworms/parameter"
)

// ErrPatternEmpty is returned when a pattern has no rows after trimming
var ErrPatternEmpty = errors.New("grid: empty pattern")

// ApplyPattern seeds static cells from rows of text
// '.' leaves a cell untouched, ' ' forces it Empty, any other rune forces Occupied(color)
// A single leading and trailing blank line is dropped; rows and columns past the grid are clipped
// Each cell write takes that cell's lock individually. Returns the number of cells written
func ApplyPattern(store Store, pattern string, color core.RGB) (int, error) {
	rows := strings.Split(pattern, "\n")
	if len(rows) > 0 && rows[0] == "" {
		rows = rows[1:]
	}
	if len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return 0, ErrPatternEmpty
	}

	written := 0
	for y := 0; y < min(len(rows), store.Height()); y++ {
		x := 0
		for _, ch := range rows[y] {
			if x >= store.Width() {
				break
			}
			p := core.Point{X: x, Y: y}
			switch ch {
			case parameter.PatternKeep:
			case parameter.PatternClear:
				store.Set(p, Empty)
				written++
			default:
				store.Set(p, Occupied(color))
				written++
			}
			x++
		}
	}
	return written, nil
}
