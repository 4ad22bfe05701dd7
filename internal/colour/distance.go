package colour

import (
	"fmt"
	"math"

	"github.com/spf13/pflag"
)

// Metric selects the distance function used when matching colours against a
// reference palette. The set is closed; a single switch dispatches per call.
type Metric int

// Metric doubles as a CLI flag value.
var _ pflag.Value = (*Metric)(nil)

const (
	// MetricCIELab compares colours by Euclidean distance in Lab space (CIE76).
	MetricCIELab Metric = iota
	// MetricCIE94 compares colours by the CIE94 weighted distance with
	// textiles constants, which suits thread matching.
	MetricCIE94
	// MetricRGB compares colours by raw Euclidean distance in RGB space,
	// with no Lab conversion at all.
	MetricRGB
)

// String returns the metric's flag spelling.
func (m Metric) String() string {
	switch m {
	case MetricCIELab:
		return "cielab"
	case MetricCIE94:
		return "cie94"
	case MetricRGB:
		return "rgb"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// Set implements pflag.Value so a Metric can be used directly as a CLI flag.
func (m *Metric) Set(s string) error {
	switch s {
	case "cielab":
		*m = MetricCIELab
	case "cie94":
		*m = MetricCIE94
	case "rgb":
		*m = MetricRGB
	default:
		return fmt.Errorf("unknown metric: %q (valid: cielab, cie94, rgb)", s)
	}
	return nil
}

// Type implements pflag.Value.
func (m *Metric) Type() string {
	return "metric"
}

// Distance computes the distance between two colours under the metric.
// Both the RGB and precomputed Lab forms of each colour are taken so that
// reference palettes can amortize the Lab conversion across calls.
func (m Metric) Distance(c1 RGB, l1 Lab, c2 RGB, l2 Lab) float64 {
	switch m {
	case MetricCIE94:
		return DeltaE94(l1, l2, true)
	case MetricRGB:
		return rgbDistance(c1, c2)
	default:
		return DeltaE76(l1, l2)
	}
}

// DeltaE76 returns the CIE76 colour difference: plain Euclidean distance in
// Lab space. It is symmetric and satisfies the triangle inequality.
func DeltaE76(l1, l2 Lab) float64 {
	dL := l1.L - l2.L
	dA := l1.A - l2.A
	dB := l1.B - l2.B
	return math.Sqrt(dL*dL + dA*dA + dB*dB)
}

// DeltaE94 returns the CIE94 colour difference between two Lab colours.
// When textiles is true the textile weighting constants are used
// (kL=2, k1=0.048, k2=0.014), otherwise the graphic-arts constants
// (kL=1, k1=0.045, k2=0.015). The first operand supplies the chroma used
// for the sC and sH weights, so the function is not symmetric.
func DeltaE94(l1, l2 Lab, textiles bool) float64 {
	kL, k1, k2 := 1.0, 0.045, 0.015
	if textiles {
		kL, k1, k2 = 2.0, 0.048, 0.014
	}

	c1 := math.Sqrt(l1.A*l1.A + l1.B*l1.B)
	c2 := math.Sqrt(l2.A*l2.A + l2.B*l2.B)

	dL := l1.L - l2.L
	dA := l1.A - l2.A
	dB := l1.B - l2.B
	dC := c1 - c2
	// Rounding can push the radicand a hair below zero for near-identical
	// colours.
	dH := math.Sqrt(math.Max(0, dA*dA+dB*dB-dC*dC))

	sC := 1 + k1*c1
	sH := 1 + k2*c1

	tL := dL / (kL * 1.0)
	tC := dC / sC
	tH := dH / sH
	return math.Sqrt(tL*tL + tC*tC + tH*tH)
}

// rgbDistance returns the Euclidean distance between two colours in RGB
// space.
func rgbDistance(c1, c2 RGB) float64 {
	dr := float64(c1.R) - float64(c2.R)
	dg := float64(c1.G) - float64(c2.G)
	db := float64(c1.B) - float64(c2.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}
