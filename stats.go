package binmatch

import "github.com/coregx/binmatch/prefilter"

// ScanStats reports how the anchor prefilter performed during a scan. It
// describes cost only; matches are the same with or without a prefilter.
type ScanStats struct {
	// Anchored reports whether the scan searched for an anchor at all.
	Anchored bool
	// Candidates is the number of windows the anchor search proposed.
	Candidates uint64
	// Confirms is the number of proposed windows that matched.
	Confirms uint64
	// Retired reports whether the anchor search was abandoned mid-scan
	// because too few candidates matched.
	Retired bool
}

func scanStatsFrom(t prefilter.TrackerStats) ScanStats {
	return ScanStats{
		Anchored:   true,
		Candidates: t.Candidates,
		Confirms:   t.Confirms,
		Retired:    t.Retired,
	}
}

// Efficiency returns the share of candidates that matched, or 0 without
// candidates.
func (s ScanStats) Efficiency() float64 {
	return s.tracker().Efficiency()
}

func (s ScanStats) tracker() prefilter.TrackerStats {
	return prefilter.TrackerStats{Candidates: s.Candidates, Confirms: s.Confirms, Retired: s.Retired}
}

// merge folds the stats of a parallel partition into s.
func (s *ScanStats) merge(o ScanStats) {
	t := s.tracker()
	t.Add(o.tracker())
	*s = ScanStats{
		Anchored:   s.Anchored || o.Anchored,
		Candidates: t.Candidates,
		Confirms:   t.Confirms,
		Retired:    t.Retired,
	}
}
