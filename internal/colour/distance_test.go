package colour

import (
	"math"
	"testing"
)

var labPoints = []Lab{
	{L: 0, A: 0, B: 0},
	{L: 100, A: 0, B: 0},
	{L: 53.2, A: 80.1, B: 67.2},
	{L: 87.7, A: -86.2, B: 83.2},
	{L: 32.3, A: 79.2, B: -107.9},
	{L: 50, A: 0.5, B: -0.5},
}

func TestDeltaE76Identity(t *testing.T) {
	for _, p := range labPoints {
		if d := DeltaE76(p, p); d != 0 {
			t.Errorf("DeltaE76(%+v, same) = %f, want 0", p, d)
		}
	}
}

func TestDeltaE76Symmetry(t *testing.T) {
	for _, p := range labPoints {
		for _, q := range labPoints {
			if d1, d2 := DeltaE76(p, q), DeltaE76(q, p); d1 != d2 {
				t.Errorf("DeltaE76 not symmetric: %f vs %f", d1, d2)
			}
		}
	}
}

func TestDeltaE76TriangleInequality(t *testing.T) {
	const eps = 1e-9
	for _, p := range labPoints {
		for _, q := range labPoints {
			for _, r := range labPoints {
				if DeltaE76(p, r) > DeltaE76(p, q)+DeltaE76(q, r)+eps {
					t.Errorf("triangle inequality violated for %+v %+v %+v", p, q, r)
				}
			}
		}
	}
}

func TestDeltaE94Identity(t *testing.T) {
	for _, textiles := range []bool{true, false} {
		for _, p := range labPoints {
			if d := DeltaE94(p, p, textiles); d != 0 {
				t.Errorf("DeltaE94(%+v, same, textiles=%v) = %f, want 0", p, textiles, d)
			}
		}
	}
}

func TestDeltaE94Weighting(t *testing.T) {
	// The textile constants halve the lightness term, so a pure lightness
	// difference scores lower under textiles.
	p := Lab{L: 40, A: 10, B: 10}
	q := Lab{L: 60, A: 10, B: 10}
	graphics := DeltaE94(p, q, false)
	textiles := DeltaE94(p, q, true)
	if textiles >= graphics {
		t.Errorf("textiles = %f, graphics = %f; want textiles < graphics", textiles, graphics)
	}
	if math.Abs(graphics-20) > 1e-9 {
		t.Errorf("pure dL=20 under graphics constants = %f, want 20", graphics)
	}
	if math.Abs(textiles-10) > 1e-9 {
		t.Errorf("pure dL=20 under textile constants = %f, want 10", textiles)
	}
}

func TestMetricDistance(t *testing.T) {
	red := RGB{R: 255}
	blue := RGB{B: 255}
	redLab := RGBToLab(red)
	blueLab := RGBToLab(blue)

	tests := []struct {
		name   string
		metric Metric
		want   float64
	}{
		{
			name:   "rgb metric is raw Euclidean distance",
			metric: MetricRGB,
			want:   math.Sqrt(2) * 255,
		},
		{
			name:   "cielab metric is CIE76",
			metric: MetricCIELab,
			want:   DeltaE76(redLab, blueLab),
		},
		{
			name:   "cie94 metric uses textile constants",
			metric: MetricCIE94,
			want:   DeltaE94(redLab, blueLab, true),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.metric.Distance(red, redLab, blue, blueLab)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Distance() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestMetricFlagValue(t *testing.T) {
	tests := []struct {
		input   string
		want    Metric
		wantErr bool
	}{
		{input: "cielab", want: MetricCIELab},
		{input: "cie94", want: MetricCIE94},
		{input: "rgb", want: MetricRGB},
		{input: "hsv", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var m Metric
			err := m.Set(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Set(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set(%q) error: %v", tt.input, err)
			}
			if m != tt.want {
				t.Errorf("Set(%q) = %v, want %v", tt.input, m, tt.want)
			}
			if m.String() != tt.input {
				t.Errorf("String() = %q, want %q", m.String(), tt.input)
			}
		})
	}
}
