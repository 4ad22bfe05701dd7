package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/philpinto/stitchery/internal/colour"
	"github.com/philpinto/stitchery/internal/image"
	"github.com/philpinto/stitchery/internal/pattern"
	"github.com/philpinto/stitchery/internal/threads"
)

var (
	// Generate command flags
	generateWidth      int
	generateHeight     int
	generateLockAspect bool
	generateColours    int
	generateMetric     = colour.MetricCIELab
	generateFormat     string
	generateOutput     string
	generateProgress   bool
)

// generateCmd represents the generate command.
var generateCmd = &cobra.Command{
	Use:   "generate <image>",
	Short: "Generate an embroidery pattern from an image",
	Long: `Generate a counted-thread embroidery pattern from an image.

The image is resized to the requested grid dimensions, its colours are
reduced with median-cut quantization, and each reduced colour is matched
to a distinct DMC thread under the selected distance metric. Every cell
of the resulting grid carries exactly one matched thread.

Supported image formats: JPEG, PNG, GIF, WebP

Examples:
  # A 120x90 pattern with at most 24 thread colours
  stitchery generate --width 120 --height 90 --colours 24 photo.jpg

  # Keep the photo's aspect ratio within the requested bounds
  stitchery generate -W 100 -H 100 --lock-aspect photo.png

  # Match threads by raw RGB distance instead of CIELAB
  stitchery generate --metric rgb photo.jpg

  # Emit the pattern as JSON for downstream tools
  stitchery generate --format json -o pattern.json photo.jpg

  # Preview the grid with ANSI colours in the terminal
  stitchery generate --format preview photo.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVarP(&generateWidth, "width", "W", 100, "grid width in cells")
	generateCmd.Flags().IntVarP(&generateHeight, "height", "H", 100, "grid height in cells")
	generateCmd.Flags().BoolVar(&generateLockAspect, "lock-aspect", false, "keep the source aspect ratio within the requested bounds")
	generateCmd.Flags().IntVarP(&generateColours, "colours", "c", 16, "maximum number of thread colours")
	generateCmd.Flags().VarP(&generateMetric, "metric", "m", "colour distance metric (cielab, cie94, rgb)")
	generateCmd.Flags().StringVarP(&generateFormat, "format", "f", "text", "output format (text, json, preview)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "output file (default: stdout)")
	generateCmd.Flags().BoolVar(&generateProgress, "progress", false, "report per-phase progress on stderr")
}

// runGenerate executes the generate command.
func runGenerate(cmd *cobra.Command, args []string) error {
	imagePath := args[0]
	logger := newLogger(cmd, "generate")

	if err := image.ValidatePath(imagePath); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	img, err := image.Load(imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	logger.Debug("image loaded", "path", imagePath, "width", bounds.Dx(), "height", bounds.Dy())

	palette, err := threads.Load()
	if err != nil {
		return fmt.Errorf("failed to load thread database: %w", err)
	}

	cfg := pattern.Config{
		Width:      generateWidth,
		Height:     generateHeight,
		LockAspect: generateLockAspect,
		MaxColours: generateColours,
		Metric:     generateMetric,
	}

	builder := pattern.NewBuilder(palette, pattern.ResizerFunc(image.Resize)).
		WithLogger(logger)
	if generateProgress {
		builder = builder.WithProgress(func(phase pattern.Phase, done float64) {
			fmt.Fprintf(os.Stderr, "%s: %3.0f%%\n", phase, done*100)
		})
	}

	pat, err := builder.Generate(cmd.Context(), img, cfg)
	if err != nil {
		return fmt.Errorf("failed to generate pattern: %w", err)
	}

	output, err := formatPattern(pat, generateFormat)
	if err != nil {
		return err
	}

	if generateOutput != "" {
		if err := os.WriteFile(generateOutput, []byte(output), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Debug("pattern written", "path", generateOutput)
	} else {
		fmt.Print(output)
	}

	return nil
}

// formatPattern renders a finished pattern in the requested format.
func formatPattern(pat *pattern.Pattern, format string) (string, error) {
	switch format {
	case "text":
		return formatText(pat), nil
	case "json":
		data, err := pat.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(data) + "\n", nil
	case "preview":
		return formatPreview(pat), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: text, json, preview)", format)
	}
}

// formatText renders the symbol grid followed by the thread key.
func formatText(pat *pattern.Pattern) string {
	output := pat.SymbolGrid()
	output += fmt.Sprintf("\n%d x %d, %d stitches, %d colours:\n",
		pat.Width, pat.Height, pat.StitchCount(), len(pat.Palette))
	for _, e := range pat.Palette {
		output += fmt.Sprintf("  %c  DMC %-6s %-28s %s  %d stitches\n",
			e.Symbol, e.Thread.Code, e.Thread.Name, e.Thread.RGB.Hex(), e.Count)
	}
	return output
}

// formatPreview renders each cell as a coloured block, with the thread key
// below. Grids wider than the terminal are noted rather than wrapped.
func formatPreview(pat *pattern.Pattern) string {
	output := ""
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && pat.Width*2 > w {
		output += fmt.Sprintf("(grid is %d cells wide; terminal fits %d)\n", pat.Width, w/2)
	}

	for y := 0; y < pat.Height; y++ {
		for x := 0; x < pat.Width; x++ {
			s := pat.At(x, y)
			if s == nil {
				output += "  "
				continue
			}
			output += colour.Preview(s.Thread.RGB, 2)
		}
		output += "\n"
	}

	output += "\n"
	for _, e := range pat.Palette {
		output += colour.PreviewWithText(e.Thread.RGB, string(e.Symbol), 4)
		output += fmt.Sprintf("  DMC %-6s %-28s %d stitches\n", e.Thread.Code, e.Thread.Name, e.Count)
	}
	return output
}
