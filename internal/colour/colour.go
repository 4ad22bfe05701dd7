// Package colour provides colour space conversion, perceptual distance
// metrics and palette quantization for pattern generation.
package colour

import (
	"fmt"
	"image/color"
	"math"
)

// RGB represents a colour in 8-bit RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ToRGB converts a color.Color to RGB. Alpha is ignored.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255].
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// Lab represents a colour in CIELAB space (D65 white point).
// L is lightness (nominally 0-100), A runs green to red, B blue to yellow.
type Lab struct {
	L float64
	A float64
	B float64
}

// D65 reference white, 2° observer.
const (
	refWhiteX = 95.047
	refWhiteY = 100.000
	refWhiteZ = 108.883
)

// RGBToLab converts an 8-bit sRGB colour to CIELAB (D65).
// Total over all inputs; any 8-bit triple is valid.
func RGBToLab(c RGB) Lab {
	r := invCompand(float64(c.R) / 255.0)
	g := invCompand(float64(c.G) / 255.0)
	b := invCompand(float64(c.B) / 255.0)

	// Scale to [0, 100] and apply the sRGB -> XYZ matrix (D65).
	r, g, b = r*100, g*100, b*100
	x := r*0.4124 + g*0.3576 + b*0.1805
	y := r*0.2126 + g*0.7152 + b*0.0722
	z := r*0.0193 + g*0.1192 + b*0.9505

	fx := labF(x / refWhiteX)
	fy := labF(y / refWhiteY)
	fz := labF(z / refWhiteZ)

	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// invCompand applies inverse sRGB companding to a normalized channel.
func invCompand(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// labF is the CIE XYZ -> Lab transfer function.
func labF(t float64) float64 {
	if t > 0.008856 {
		return math.Cbrt(t)
	}
	return (903.3*t + 16) / 116
}
