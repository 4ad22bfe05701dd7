package threads

import (
	"fmt"
	"math"
	"sort"

	"github.com/philpinto/stitchery/internal/colour"
)

// ClosestMatch returns the reference thread closest to the query colour
// under the given metric. The palette is scanned in load order with a
// strictly-less comparison, so the first minimal entry wins ties.
// Fails only when the palette is empty.
func (p *Palette) ClosestMatch(c colour.RGB, metric colour.Metric) (Thread, error) {
	if len(p.threads) == 0 {
		return Thread{}, fmt.Errorf("reference palette is empty")
	}

	// The RGB metric never touches Lab space; skip the conversion there.
	var lab colour.Lab
	if metric != colour.MetricRGB {
		lab = colour.RGBToLab(c)
	}

	best := 0
	bestDist := math.MaxFloat64
	for i, t := range p.threads {
		if d := metric.Distance(c, lab, t.RGB, t.Lab); d < bestDist {
			best, bestDist = i, d
		}
	}
	return p.threads[best], nil
}

// MatchUnique maps each input colour to a reference thread, preferring that
// no two inputs resolve to the same catalog code.
//
// Inputs are assigned in order of distinctiveness: each colour's score is
// its minimum CIE76 distance to every other input (always in Lab space,
// whatever the metric), and the most isolated colours claim their best
// match first. When every thread is already claimed the assignment falls
// back to the unconstrained closest match, permitting duplicates. Results
// are returned in the original input order.
func (p *Palette) MatchUnique(colours []colour.RGB, metric colour.Metric) ([]Thread, error) {
	if len(p.threads) == 0 {
		return nil, fmt.Errorf("reference palette is empty")
	}
	if len(colours) == 0 {
		return nil, nil
	}

	labs := make([]colour.Lab, len(colours))
	for i, c := range colours {
		labs[i] = colour.RGBToLab(c)
	}

	scores := make([]float64, len(colours))
	for i := range colours {
		minDist := math.MaxFloat64
		for j := range colours {
			if i == j {
				continue
			}
			if d := colour.DeltaE76(labs[i], labs[j]); d < minDist {
				minDist = d
			}
		}
		scores[i] = minDist
	}

	order := make([]int, len(colours))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	claimed := make(map[string]bool, len(colours))
	results := make([]Thread, len(colours))
	for _, idx := range order {
		t, ok := p.closestUnclaimed(colours[idx], labs[idx], metric, claimed)
		if !ok {
			// More quantized colours than reference threads; duplicates are
			// now unavoidable.
			var err error
			t, err = p.ClosestMatch(colours[idx], metric)
			if err != nil {
				return nil, err
			}
		}
		claimed[t.Code] = true
		results[idx] = t
	}
	return results, nil
}

// closestUnclaimed scans the palette in load order for the nearest thread
// whose code has not been claimed yet. Reports false when every thread is
// claimed.
func (p *Palette) closestUnclaimed(c colour.RGB, lab colour.Lab, metric colour.Metric, claimed map[string]bool) (Thread, bool) {
	best := -1
	bestDist := math.MaxFloat64
	for i, t := range p.threads {
		if claimed[t.Code] {
			continue
		}
		if d := metric.Distance(c, lab, t.RGB, t.Lab); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Thread{}, false
	}
	return p.threads[best], true
}

// MatchAll maps each input colour to its closest reference thread with no
// uniqueness bookkeeping, preserving input order.
func (p *Palette) MatchAll(colours []colour.RGB, metric colour.Metric) ([]Thread, error) {
	results := make([]Thread, len(colours))
	for i, c := range colours {
		t, err := p.ClosestMatch(c, metric)
		if err != nil {
			return nil, err
		}
		results[i] = t
	}
	return results, nil
}
