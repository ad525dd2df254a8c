package prefilter

// TrackerConfig holds configuration for the effectiveness tracker.
type TrackerConfig struct {
	// CheckInterval is the number of candidates between two efficiency
	// checks. Zero is treated as 1.
	// Default: 64
	CheckInterval uint64

	// MinEfficiency is the confirm/candidate ratio below which the
	// prefilter is retired.
	// Default: 0.1
	MinEfficiency float64

	// WarmupPeriod is the number of candidates seen before the first check.
	// Default: 128
	WarmupPeriod uint64
}

// DefaultTrackerConfig returns the default tracker configuration.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		CheckInterval: 64,
		MinEfficiency: 0.1,
		WarmupPeriod:  128,
	}
}

// TrackerStats summarizes how a prefilter performed during one scan.
type TrackerStats struct {
	// Candidates is the number of window starts the prefilter proposed.
	Candidates uint64
	// Confirms is the number of candidates that verified as matches.
	Confirms uint64
	// Retired reports whether the prefilter was switched off mid-scan.
	Retired bool
}

// Efficiency returns Confirms/Candidates, or 0 without candidates.
func (s TrackerStats) Efficiency() float64 {
	if s.Candidates == 0 {
		return 0
	}
	return float64(s.Confirms) / float64(s.Candidates)
}

// Add merges the stats of another scan, e.g. a parallel partition. The
// result is retired if either side was.
func (s *TrackerStats) Add(o TrackerStats) {
	s.Candidates += o.Candidates
	s.Confirms += o.Confirms
	s.Retired = s.Retired || o.Retired
}

// Tracker drives a Prefilter through one scan and retires it when too few
// candidates verify. A weak anchor such as "00" in a zero-filled dump
// proposes nearly every window; past that point a search call per window
// costs more than comparing windows one by one.
//
// A Tracker is not safe for concurrent use; create one per scan.
//
//	t := prefilter.NewTracker(pf, config)
//	start := 0
//	for t.Active() {
//	    w := t.Find(haystack, start)
//	    if w == -1 {
//	        break
//	    }
//	    if verify(haystack[w : w+n]) {
//	        t.Confirm()
//	    }
//	    start = w + 1
//	}
//	// if t.Active() is false, continue window by window from start
type Tracker struct {
	pf        Prefilter
	config    TrackerConfig
	stats     TrackerStats
	nextCheck uint64
}

// NewTracker returns a tracker for pf.
func NewTracker(pf Prefilter, config TrackerConfig) *Tracker {
	if config.CheckInterval == 0 {
		config.CheckInterval = 1
	}
	return &Tracker{pf: pf, config: config, nextCheck: config.WarmupPeriod}
}

// Find returns the next candidate window start at or after start, or -1
// when there is none or the tracker is retired.
//
// The candidate that triggers retirement is still returned, so the caller
// never loses a position it has not verified.
func (t *Tracker) Find(haystack []byte, start int) int {
	if t.stats.Retired {
		return -1
	}
	w := t.pf.Find(haystack, start)
	if w < 0 {
		return -1
	}
	t.stats.Candidates++
	if t.stats.Candidates >= t.nextCheck {
		t.nextCheck = t.stats.Candidates + t.config.CheckInterval
		t.stats.Retired = t.stats.Efficiency() < t.config.MinEfficiency
	}
	return w
}

// Confirm records that the last candidate verified.
func (t *Tracker) Confirm() {
	t.stats.Confirms++
}

// Active reports whether the prefilter is still in use.
func (t *Tracker) Active() bool {
	return !t.stats.Retired
}

// Stats returns the counters collected so far.
func (t *Tracker) Stats() TrackerStats {
	return t.stats
}
