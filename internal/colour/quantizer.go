package colour

import (
	"math"
	"sort"
)

// channel identifies an RGB axis for bucket splitting.
type channel int

const (
	channelR channel = iota
	channelG
	channelB
)

// bucketEntry is one distinct colour and the number of source pixels that
// carry it.
type bucketEntry struct {
	colour RGB
	count  int
}

// bucket is an ordered collection of distinct colours with occurrence
// counts. The counts, not the entry count, define the bucket's weight.
type bucket []bucketEntry

// weight returns the total number of source pixels the bucket represents.
func (b bucket) weight() int {
	total := 0
	for _, e := range b {
		total += e.count
	}
	return total
}

// widestChannel returns the channel with the greatest numeric range across
// the bucket's colours. Ties resolve R over G over B.
func (b bucket) widestChannel() channel {
	minC := RGB{R: 255, G: 255, B: 255}
	maxC := RGB{}
	for _, e := range b {
		minC.R = min(minC.R, e.colour.R)
		minC.G = min(minC.G, e.colour.G)
		minC.B = min(minC.B, e.colour.B)
		maxC.R = max(maxC.R, e.colour.R)
		maxC.G = max(maxC.G, e.colour.G)
		maxC.B = max(maxC.B, e.colour.B)
	}
	rSpan := maxC.R - minC.R
	gSpan := maxC.G - minC.G
	bSpan := maxC.B - minC.B
	if rSpan >= gSpan && rSpan >= bSpan {
		return channelR
	}
	if gSpan >= bSpan {
		return channelG
	}
	return channelB
}

// split divides the bucket at the weighted median of its widest channel.
// Neither returned half is empty; the receiver must hold at least two
// distinct colours.
func (b bucket) split() (bucket, bucket) {
	ch := b.widestChannel()
	sort.SliceStable(b, func(i, j int) bool {
		return channelValue(b[i].colour, ch) < channelValue(b[j].colour, ch)
	})

	// Weighted median: accumulate pixel counts, not entry indices, so that
	// frequent colours pull the cut toward themselves.
	total := b.weight()
	cut := len(b) - 1
	sum := 0
	for i, e := range b {
		sum += e.count
		if sum*2 >= total {
			cut = i + 1
			break
		}
	}
	if cut >= len(b) {
		cut = len(b) - 1
	}
	return b[:cut], b[cut:]
}

// average returns the occurrence-weighted mean colour of the bucket,
// rounded to the nearest integer per channel.
func (b bucket) average() RGB {
	var r, g, bl, total float64
	for _, e := range b {
		w := float64(e.count)
		r += float64(e.colour.R) * w
		g += float64(e.colour.G) * w
		bl += float64(e.colour.B) * w
		total += w
	}
	return RGB{
		R: uint8(math.Round(r / total)),
		G: uint8(math.Round(g / total)),
		B: uint8(math.Round(bl / total)),
	}
}

func channelValue(c RGB, ch channel) uint8 {
	switch ch {
	case channelR:
		return c.R
	case channelG:
		return c.G
	default:
		return c.B
	}
}

// Quantize reduces a multiset of pixels to at most k representative colours
// using median-cut bucket splitting in RGB space.
//
// Identical pixels are deduplicated first, so the working set is bounded by
// the number of distinct colours rather than the image resolution. When the
// input holds no more than k distinct colours they are returned unchanged.
func Quantize(pixels []RGB, k int) []RGB {
	if k <= 0 || len(pixels) == 0 {
		return nil
	}

	counts := make(map[RGB]int, len(pixels))
	var distinct []RGB
	for _, p := range pixels {
		if counts[p] == 0 {
			distinct = append(distinct, p)
		}
		counts[p]++
	}

	if len(distinct) <= k {
		return distinct
	}

	initial := make(bucket, len(distinct))
	for i, c := range distinct {
		initial[i] = bucketEntry{colour: c, count: counts[c]}
	}
	buckets := []bucket{initial}

	// Split until the bucket count reaches the next power of two >= k, then
	// truncate the representatives to exactly k.
	target := nextPowerOfTwo(k)
	for len(buckets) < target {
		idx := -1
		best := 0
		for i, b := range buckets {
			if len(b) < 2 {
				continue
			}
			// >= so that of equal-weight candidates the later one wins.
			if w := b.weight(); idx < 0 || w >= best {
				idx, best = i, w
			}
		}
		if idx < 0 {
			break
		}
		left, right := buckets[idx].split()
		buckets[idx] = left
		buckets = append(buckets, right)
	}

	result := make([]RGB, 0, k)
	for _, b := range buckets {
		if len(result) == k {
			break
		}
		result = append(result, b.average())
	}
	return result
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
