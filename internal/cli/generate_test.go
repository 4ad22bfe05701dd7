package cli

import (
	"context"
	"encoding/json"
	stdimage "image"
	stdcolor "image/color"
	"strings"
	"testing"

	"github.com/philpinto/stitchery/internal/colour"
	"github.com/philpinto/stitchery/internal/image"
	"github.com/philpinto/stitchery/internal/pattern"
	"github.com/philpinto/stitchery/internal/threads"
)

// testPattern generates a small pattern against a synthetic palette.
func testPattern(t *testing.T) *pattern.Pattern {
	t.Helper()

	palette, err := threads.New([]threads.Thread{
		{Code: "R1", Name: "Red", RGB: colour.RGB{R: 255}},
		{Code: "B1", Name: "Blue", RGB: colour.RGB{B: 255}},
	})
	if err != nil {
		t.Fatalf("threads.New() error: %v", err)
	}

	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, stdcolor.RGBA{R: 230, A: 255})
		}
	}

	builder := pattern.NewBuilder(palette, pattern.ResizerFunc(image.Resize))
	pat, err := builder.Generate(context.Background(), img, pattern.Config{
		Width:      4,
		Height:     4,
		MaxColours: 2,
		Metric:     colour.MetricCIELab,
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	return pat
}

func TestFormatPatternText(t *testing.T) {
	pat := testPattern(t)

	output, err := formatPattern(pat, "text")
	if err != nil {
		t.Fatalf("formatPattern() error: %v", err)
	}

	if !strings.Contains(output, "4 x 4, 16 stitches, 1 colours:") {
		t.Errorf("summary line missing from output:\n%s", output)
	}
	if !strings.Contains(output, "DMC R1") {
		t.Errorf("thread key missing from output:\n%s", output)
	}
}

func TestFormatPatternJSON(t *testing.T) {
	pat := testPattern(t)

	output, err := formatPattern(pat, "json")
	if err != nil {
		t.Fatalf("formatPattern() error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["width"] != float64(4) || decoded["height"] != float64(4) {
		t.Errorf("width/height = %v/%v, want 4/4", decoded["width"], decoded["height"])
	}
}

func TestFormatPatternPreview(t *testing.T) {
	pat := testPattern(t)

	output, err := formatPattern(pat, "preview")
	if err != nil {
		t.Fatalf("formatPattern() error: %v", err)
	}
	if !strings.Contains(output, "\033[48;2;") {
		t.Errorf("preview output has no ANSI background sequences:\n%q", output)
	}
}

func TestFormatPatternUnsupported(t *testing.T) {
	pat := testPattern(t)

	if _, err := formatPattern(pat, "pdf"); err == nil {
		t.Error("formatPattern(pdf) succeeded, want error")
	}
}
