package core

import (
	"fmt"
	"math/rand/v2"
)

// Point represents a 2D grid coordinate
type Point struct {
	X, Y int
}

// Add returns p shifted by q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is a heading on the grid
type Direction uint8

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists every valid heading in scan order
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// Valid reports whether d is one of the four defined headings
func (d Direction) Valid() bool {
	return d <= DirRight
}

// Offset returns the unit step for d
// ok is false for values outside the enum
func (d Direction) Offset() (step Point, ok bool) {
	switch d {
	case DirUp:
		return Point{0, -1}, true
	case DirDown:
		return Point{0, 1}, true
	case DirLeft:
		return Point{-1, 0}, true
	case DirRight:
		return Point{1, 0}, true
	}
	return Point{}, false
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// RandomDirection picks a heading uniformly
func RandomDirection(rng *rand.Rand) Direction {
	return Directions[rng.IntN(len(Directions))]
}
