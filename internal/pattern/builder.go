package pattern

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/hashicorp/go-hclog"

	"github.com/philpinto/stitchery/internal/colour"
	"github.com/philpinto/stitchery/internal/threads"
)

// Invalid-configuration errors: always caller-caused, never retried.
var (
	// ErrInvalidDimensions reports a non-positive target width or height.
	ErrInvalidDimensions = errors.New("target dimensions must be positive")
	// ErrInvalidColourCount reports a non-positive maximum colour count.
	ErrInvalidColourCount = errors.New("maximum colour count must be positive")
)

// Empty-result errors: the input was degenerate rather than the request
// invalid. Distinct from configuration errors so callers can tell the two
// apart.
var (
	// ErrNoPixels reports that pixel extraction produced nothing.
	ErrNoPixels = errors.New("image produced no pixels")
	// ErrNoColours reports that quantization produced no representative colours.
	ErrNoColours = errors.New("quantization produced no colours")
	// ErrEmptyWorkingPalette reports that matching produced no working palette.
	ErrEmptyWorkingPalette = errors.New("matching produced an empty working palette")
)

// Phase names one stage of the generation pipeline, for progress reporting.
type Phase string

const (
	PhaseResize    Phase = "resize"
	PhaseQuantize  Phase = "quantize"
	PhaseMatch     Phase = "match"
	PhaseMap       Phase = "map"
	PhaseAggregate Phase = "aggregate"
)

// ProgressFunc receives the fraction of the pipeline completed after each
// named phase. It carries no correctness obligation and may be nil.
type ProgressFunc func(phase Phase, done float64)

// Resizer scales an image to exactly the requested dimensions. The builder
// treats it as a black box and only requires exact output dimensions.
type Resizer interface {
	Resize(img image.Image, width, height int) image.Image
}

// ResizerFunc adapts a function to the Resizer interface.
type ResizerFunc func(img image.Image, width, height int) image.Image

// Resize implements Resizer.
func (f ResizerFunc) Resize(img image.Image, width, height int) image.Image {
	return f(img, width, height)
}

// Config holds the generation parameters for one pattern.
type Config struct {
	// Width and Height are the requested grid dimensions in cells.
	Width  int
	Height int
	// LockAspect keeps the source image's aspect ratio, shrinking one of
	// the requested dimensions to fit.
	LockAspect bool
	// MaxColours bounds the size of the working palette.
	MaxColours int
	// Metric selects the distance function for thread matching.
	Metric colour.Metric
}

// Validate reports configuration errors before any work is done.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, c.Width, c.Height)
	}
	if c.MaxColours <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidColourCount, c.MaxColours)
	}
	return nil
}

// Builder generates patterns from images against a fixed reference palette.
// The palette is read-only and may be shared across concurrent builders.
type Builder struct {
	palette  *threads.Palette
	resizer  Resizer
	logger   hclog.Logger
	progress ProgressFunc
}

// NewBuilder creates a Builder over the given reference palette.
func NewBuilder(palette *threads.Palette, resizer Resizer) *Builder {
	return &Builder{
		palette: palette,
		resizer: resizer,
		logger:  hclog.NewNullLogger(),
	}
}

// WithLogger sets the builder's logger and returns the builder.
func (b *Builder) WithLogger(logger hclog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithProgress sets a progress callback invoked at phase checkpoints and
// returns the builder.
func (b *Builder) WithProgress(fn ProgressFunc) *Builder {
	b.progress = fn
	return b
}

// Generate runs the full pipeline: resolve dimensions, resize, flatten,
// quantize, match a unique working palette, assign every pixel its closest
// working-palette thread, and aggregate palette entries.
//
// The pipeline stops at the first failing phase; every failure is a
// deterministic function of the input, so nothing is retried. Cancellation
// is checked between phases only.
func (b *Builder) Generate(ctx context.Context, img image.Image, cfg Config) (*Pattern, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	width, height, err := resolveDimensions(img, cfg)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("resolved target dimensions", "width", width, "height", height,
		"lock_aspect", cfg.LockAspect)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resized := b.resizer.Resize(img, width, height)
	b.report(PhaseResize, 0.2)

	pixels := flatten(resized)
	if len(pixels) == 0 {
		return nil, ErrNoPixels
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	representatives := colour.Quantize(pixels, cfg.MaxColours)
	if len(representatives) == 0 {
		return nil, ErrNoColours
	}
	b.logger.Debug("quantized image", "pixels", len(pixels), "colours", len(representatives))
	b.report(PhaseQuantize, 0.4)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	working, err := b.palette.MatchUnique(representatives, cfg.Metric)
	if err != nil {
		return nil, fmt.Errorf("matching working palette: %w", err)
	}
	if len(working) == 0 {
		return nil, ErrEmptyWorkingPalette
	}
	b.logger.Debug("matched working palette", "threads", len(working), "metric", cfg.Metric.String())
	b.report(PhaseMatch, 0.6)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pat := NewPattern(width, height)
	assignStitches(pat, pixels, working, cfg.Metric)
	b.report(PhaseMap, 0.8)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pat.RebuildPalette()
	b.logger.Debug("pattern complete", "width", pat.Width, "height", pat.Height,
		"palette", len(pat.Palette), "stitches", pat.StitchCount())
	b.report(PhaseAggregate, 1.0)

	return pat, nil
}

// resolveDimensions computes the target grid size, optionally locking to
// the source image's aspect ratio. Locking prefers to fill the requested
// width, deriving the height from it; when that height exceeds the
// requested bound the width is derived from the height instead.
func resolveDimensions(img image.Image, cfg Config) (int, int, error) {
	width, height := cfg.Width, cfg.Height
	if cfg.LockAspect {
		srcW := img.Bounds().Dx()
		srcH := img.Bounds().Dy()
		if srcW <= 0 || srcH <= 0 {
			return 0, 0, ErrNoPixels
		}
		derived := int(math.Round(float64(cfg.Width) * float64(srcH) / float64(srcW)))
		if derived <= cfg.Height {
			height = derived
		} else {
			width = int(math.Round(float64(cfg.Height) * float64(srcW) / float64(srcH)))
		}
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: computed %dx%d", ErrInvalidDimensions, width, height)
	}
	return width, height, nil
}

// flatten enumerates an image's pixels as 8-bit RGB in row-major order.
func flatten(img image.Image) []colour.RGB {
	bounds := img.Bounds()
	pixels := make([]colour.RGB, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pixels = append(pixels, colour.ToRGB(img.At(x, y)))
		}
	}
	return pixels
}

// assignStitches maps every pixel independently to its closest thread in
// the working palette. Each pixel's match is independent of every other's;
// distinct colours are memoized so repeated pixels match once.
func assignStitches(pat *Pattern, pixels []colour.RGB, working []threads.Thread, metric colour.Metric) {
	memo := make(map[colour.RGB]int)
	for i, px := range pixels {
		idx, ok := memo[px]
		if !ok {
			idx = closestWorking(px, working, metric)
			memo[px] = idx
		}
		pat.cells[i] = &Stitch{Thread: working[idx], Style: StyleFull}
	}
}

// closestWorking scans the working palette in order with a strictly-less
// comparison, so the first minimal thread wins ties.
func closestWorking(px colour.RGB, working []threads.Thread, metric colour.Metric) int {
	var lab colour.Lab
	if metric != colour.MetricRGB {
		lab = colour.RGBToLab(px)
	}
	best := 0
	bestDist := math.MaxFloat64
	for i, t := range working {
		if d := metric.Distance(px, lab, t.RGB, t.Lab); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (b *Builder) report(phase Phase, done float64) {
	if b.progress != nil {
		b.progress(phase, done)
	}
}
