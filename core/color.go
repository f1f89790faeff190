package core

import (
	"fmt"
	"math/rand/v2"
)

// RGB stores explicit 8-bit color channels, decoupled from tcell
type RGB struct {
	R, G, B uint8
}

// Darken subtracts amount from every channel, clamping at zero
func (c RGB) Darken(amount uint8) RGB {
	return RGB{
		R: c.R - min(c.R, amount),
		G: c.G - min(c.G, amount),
		B: c.B - min(c.B, amount),
	}
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RandomRGB returns a color with every channel in [lo, 255]
func RandomRGB(rng *rand.Rand, lo uint8) RGB {
	span := 256 - int(lo)
	return RGB{
		R: lo + uint8(rng.IntN(span)),
		G: lo + uint8(rng.IntN(span)),
		B: lo + uint8(rng.IntN(span)),
	}
}
