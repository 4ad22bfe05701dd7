package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philpinto/stitchery/internal/colour"
	"github.com/philpinto/stitchery/internal/threads"
)

var (
	// Threads command flags
	threadsSearch  string
	threadsPreview bool
)

// threadsCmd represents the threads command.
var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "List or search the DMC thread database",
	Long: `List the reference database of DMC threads used for pattern matching.

Examples:
  # List every thread in the database
  stitchery threads

  # Search by catalog code or name substring
  stitchery threads --search lavender
  stitchery threads -s 310

  # Show colour swatches in the terminal
  stitchery threads --preview`,
	RunE: runThreads,
}

func init() {
	threadsCmd.Flags().StringVarP(&threadsSearch, "search", "s", "", "filter threads by code or name substring")
	threadsCmd.Flags().BoolVar(&threadsPreview, "preview", false, "show colour swatches in the terminal")
}

// runThreads executes the threads command.
func runThreads(cmd *cobra.Command, args []string) error {
	palette, err := threads.Load()
	if err != nil {
		return fmt.Errorf("failed to load thread database: %w", err)
	}

	matches := palette.Search(threadsSearch)
	if len(matches) == 0 {
		return fmt.Errorf("no threads match %q", threadsSearch)
	}

	for _, t := range matches {
		if threadsPreview {
			fmt.Printf("%s  DMC %-6s %-28s %s\n",
				colour.Preview(t.RGB, 4), t.Code, t.Name, t.RGB.Hex())
		} else {
			fmt.Printf("DMC %-6s %-28s %s\n", t.Code, t.Name, t.RGB.Hex())
		}
	}
	fmt.Printf("%d threads\n", len(matches))

	return nil
}
