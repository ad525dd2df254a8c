package binmatch

import "golang.org/x/sync/errgroup"

// FindMatchesWithIndexParallel returns the same captures as
// FindMatchesWithIndex, in the same order, scanning partitions of haystack
// on up to workers goroutines.
//
// The window starts [0, len(haystack)-p.Len()] are split into contiguous
// ranges. Each goroutine scans its range over a sub-slice that extends
// p.Len()-1 bytes past the range end, so windows straddling a partition
// boundary are not lost, and shifts its captures by the partition offset.
// Partition results are concatenated in order.
//
// workers <= 0 uses Config.Workers. Haystacks smaller than
// Config.ParallelThreshold are scanned serially.
func (p *Pattern) FindMatchesWithIndexParallel(haystack []byte, workers int) []Capture {
	captures, _ := p.FindMatchesWithIndexParallelStats(haystack, workers)
	return captures
}

// FindMatchesWithIndexParallelStats is FindMatchesWithIndexParallel that
// also reports how the prefilter performed, summed over all partitions.
// Each partition runs its own tracker, so Retired is set when any of them
// abandoned the anchor search.
func (p *Pattern) FindMatchesWithIndexParallelStats(haystack []byte, workers int) ([]Capture, ScanStats) {
	n := len(p.elements)
	if n == 0 || len(p.holes) == 0 || len(haystack) < n {
		return nil, ScanStats{}
	}
	if workers <= 0 {
		workers = p.config.Workers
	}

	windows := len(haystack) - n + 1
	if workers > windows {
		workers = windows
	}
	if workers <= 1 || len(haystack) < p.config.ParallelThreshold {
		return p.appendMatches(nil, haystack, 0)
	}

	per := (windows + workers - 1) / workers
	parts := make([][]Capture, workers)
	partStats := make([]ScanStats, workers)

	var g errgroup.Group
	for i := range workers {
		lo := i * per
		if lo >= windows {
			break
		}
		hi := min(lo+per, windows)
		g.Go(func() error {
			parts[i], partStats[i] = p.appendMatches(nil, haystack[lo:hi+n-1], lo)
			return nil
		})
	}
	_ = g.Wait() // partitions never fail

	var stats ScanStats
	total := 0
	for i, part := range parts {
		total += len(part)
		stats.merge(partStats[i])
	}
	if total == 0 {
		return nil, stats
	}
	out := make([]Capture, 0, total)
	for _, part := range parts {
		out = append(out, part...)
	}
	return out, stats
}
