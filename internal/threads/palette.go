// Package threads holds the reference database of named embroidery threads
// and the matching of arbitrary colours against it.
package threads

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/philpinto/stitchery/internal/colour"
)

//go:embed dmc.json
var dmcData []byte

// Thread is one named reference colour: a catalog code (unique,
// case-sensitive), a human-readable name, its RGB value and the Lab value
// precomputed at load time.
type Thread struct {
	Code string
	Name string
	RGB  colour.RGB
	Lab  colour.Lab
}

// threadRecord is the on-disk form of a reference table entry.
type threadRecord struct {
	Code string     `json:"code"`
	Name string     `json:"name"`
	RGB  colour.RGB `json:"rgb"`
}

// Palette is an immutable, ordered collection of reference threads. It is
// safe to share across any number of concurrent pipeline runs.
type Palette struct {
	threads []Thread
	byCode  map[string]int
}

// Load parses the embedded DMC reference table and precomputes Lab values
// for every record. An empty or corrupt table is a startup-fatal condition
// for every feature that depends on matching.
func Load() (*Palette, error) {
	return Parse(dmcData)
}

// Parse builds a Palette from a JSON reference table.
func Parse(data []byte) (*Palette, error) {
	var records []threadRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse thread reference table: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("thread reference table is empty")
	}

	threads := make([]Thread, len(records))
	byCode := make(map[string]int, len(records))
	for i, r := range records {
		if r.Code == "" {
			return nil, fmt.Errorf("thread record %d has no code", i)
		}
		if _, dup := byCode[r.Code]; dup {
			return nil, fmt.Errorf("duplicate thread code: %s", r.Code)
		}
		threads[i] = Thread{
			Code: r.Code,
			Name: r.Name,
			RGB:  r.RGB,
			Lab:  colour.RGBToLab(r.RGB),
		}
		byCode[r.Code] = i
	}

	return &Palette{threads: threads, byCode: byCode}, nil
}

// New builds a Palette from already-constructed threads, precomputing each
// Lab value. Intended for tests with small synthetic palettes.
func New(entries []Thread) (*Palette, error) {
	records := make([]threadRecord, len(entries))
	for i, t := range entries {
		records[i] = threadRecord{Code: t.Code, Name: t.Name, RGB: t.RGB}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Len returns the number of threads in the palette.
func (p *Palette) Len() int {
	return len(p.threads)
}

// At returns the thread at the given position in load order.
func (p *Palette) At(i int) Thread {
	return p.threads[i]
}

// ByCode returns the thread with the given catalog code.
func (p *Palette) ByCode(code string) (Thread, bool) {
	i, ok := p.byCode[code]
	if !ok {
		return Thread{}, false
	}
	return p.threads[i], true
}

// Search returns all threads whose code or name contains the query,
// case-insensitively, in load order. An empty query returns every thread.
func (p *Palette) Search(query string) []Thread {
	q := strings.ToLower(query)
	var matches []Thread
	for _, t := range p.threads {
		if strings.Contains(strings.ToLower(t.Code), q) ||
			strings.Contains(strings.ToLower(t.Name), q) {
			matches = append(matches, t)
		}
	}
	return matches
}

// All returns an iterator over all threads in load order.
func (p *Palette) All() func(func(int, Thread) bool) {
	return func(yield func(int, Thread) bool) {
		for i, t := range p.threads {
			if !yield(i, t) {
				return
			}
		}
	}
}
