// Package pattern builds counted-thread embroidery patterns from images.
package pattern

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/philpinto/stitchery/internal/colour"
	"github.com/philpinto/stitchery/internal/threads"
)

// StitchStyle tags how a cell is stitched. The generator only ever emits
// full stitches; other styles exist for editing and export collaborators.
type StitchStyle string

const (
	// StyleFull is a full cross stitch covering the whole cell.
	StyleFull StitchStyle = "full"
	// StyleHalf is a half stitch.
	StyleHalf StitchStyle = "half"
	// StyleQuarter is a quarter stitch.
	StyleQuarter StitchStyle = "quarter"
)

// Stitch is one covered cell of the grid: a reference to a matched thread,
// a completion flag and a style tag.
type Stitch struct {
	Thread    threads.Thread
	Completed bool
	Style     StitchStyle
}

// PaletteEntry is one working-palette colour in a finished pattern: the
// thread, its assigned display symbol and the number of cells using it.
type PaletteEntry struct {
	Thread threads.Thread
	Symbol rune
	Count  int
}

// Pattern is a width x height grid of optional stitches plus the palette
// entries accumulated from it. A nil cell is uncovered.
type Pattern struct {
	Width   int
	Height  int
	cells   []*Stitch
	Palette []PaletteEntry
}

// symbolAlphabet is the ordered set of display symbols assigned to palette
// entries, cycled when colours outnumber symbols.
var symbolAlphabet = []rune("●○■□▲△▼▽◆◇★☆✕✚◐◑♥♦♣♠✿❖⬟⬡☾☼♪➤▰▱✦✧%&#@=~?!")

// NewPattern creates an empty pattern with every cell uncovered.
func NewPattern(width, height int) *Pattern {
	return &Pattern{
		Width:  width,
		Height: height,
		cells:  make([]*Stitch, width*height),
	}
}

// At returns the stitch at (x, y), or nil for an uncovered cell.
func (p *Pattern) At(x, y int) *Stitch {
	return p.cells[y*p.Width+x]
}

// Set places a stitch at (x, y). A nil stitch uncovers the cell.
func (p *Pattern) Set(x, y int, s *Stitch) {
	p.cells[y*p.Width+x] = s
}

// StitchCount returns the number of covered cells.
func (p *Pattern) StitchCount() int {
	n := 0
	for _, s := range p.cells {
		if s != nil {
			n++
		}
	}
	return n
}

// RebuildPalette recomputes the palette entries from the grid contents:
// occurrences are counted per thread code, symbols are assigned in
// descending-count order from the symbol alphabet (cycling when colours
// outnumber symbols) and only threads with a nonzero count are kept.
func (p *Pattern) RebuildPalette() {
	counts := make(map[string]int)
	byCode := make(map[string]threads.Thread)
	for _, s := range p.cells {
		if s == nil {
			continue
		}
		counts[s.Thread.Code]++
		byCode[s.Thread.Code] = s.Thread
	}

	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if counts[codes[i]] != counts[codes[j]] {
			return counts[codes[i]] > counts[codes[j]]
		}
		return codes[i] < codes[j]
	})

	entries := make([]PaletteEntry, len(codes))
	for i, code := range codes {
		entries[i] = PaletteEntry{
			Thread: byCode[code],
			Symbol: symbolAlphabet[i%len(symbolAlphabet)],
			Count:  counts[code],
		}
	}
	p.Palette = entries
}

// SymbolGrid renders the pattern as one line per row, each covered cell as
// its palette symbol and each uncovered cell as a space.
func (p *Pattern) SymbolGrid() string {
	symbols := make(map[string]rune, len(p.Palette))
	for _, e := range p.Palette {
		symbols[e.Thread.Code] = e.Symbol
	}

	var sb strings.Builder
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			if s := p.At(x, y); s != nil {
				sb.WriteRune(symbols[s.Thread.Code])
			} else {
				sb.WriteRune(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// cellJSON is one covered cell in the JSON projection.
type cellJSON struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Thread string `json:"thread"`
	Style  string `json:"style"`
}

// entryJSON is one palette entry in the JSON projection.
type entryJSON struct {
	Code   string     `json:"code"`
	Name   string     `json:"name"`
	RGB    colour.RGB `json:"rgb"`
	Hex    string     `json:"hex"`
	Symbol string     `json:"symbol"`
	Count  int        `json:"count"`
}

// patternJSON is the JSON projection of a finished pattern, consumed by
// rendering and export collaborators.
type patternJSON struct {
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	Palette []entryJSON `json:"palette"`
	Cells   []cellJSON  `json:"cells"`
}

// ToJSON serializes the pattern for downstream collaborators.
func (p *Pattern) ToJSON() ([]byte, error) {
	out := patternJSON{
		Width:   p.Width,
		Height:  p.Height,
		Palette: make([]entryJSON, len(p.Palette)),
	}
	for i, e := range p.Palette {
		out.Palette[i] = entryJSON{
			Code:   e.Thread.Code,
			Name:   e.Thread.Name,
			RGB:    e.Thread.RGB,
			Hex:    e.Thread.RGB.Hex(),
			Symbol: string(e.Symbol),
			Count:  e.Count,
		}
	}
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			if s := p.At(x, y); s != nil {
				out.Cells = append(out.Cells, cellJSON{
					X:      x,
					Y:      y,
					Thread: s.Thread.Code,
					Style:  string(s.Style),
				})
			}
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
