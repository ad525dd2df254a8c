package binmatch

import (
	"runtime"

	"github.com/coregx/binmatch/prefilter"
)

// Config controls how a compiled Pattern scans. It never changes what a scan
// returns, only how fast it gets there.
//
// Example:
//
//	config := binmatch.DefaultConfig()
//	config.Workers = 4
//	p, err := binmatch.CompileWithConfig("48 8B 05 ?? ?? ?? ??", config)
type Config struct {
	// Prefilter enables anchor search: the rarest literal run of the pattern
	// is located with SIMD byte search and only windows containing it are
	// compared. Patterns without literals always scan window by window.
	// Default: true
	Prefilter bool

	// Workers is the goroutine count used by the parallel scan when the
	// caller passes workers <= 0.
	// Default: runtime.GOMAXPROCS(0), capped at 1,024
	Workers int

	// ParallelThreshold is the haystack size in bytes below which the
	// parallel scan runs serially.
	// Default: 1 MiB
	ParallelThreshold int

	// Tracker tunes when an ineffective prefilter is retired mid-scan.
	// Default: prefilter.DefaultTrackerConfig()
	Tracker prefilter.TrackerConfig
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Prefilter:         true,
		Workers:           min(runtime.GOMAXPROCS(0), 1024),
		ParallelThreshold: 1 << 20,
		Tracker:           prefilter.DefaultTrackerConfig(),
	}
}

// Validate checks if the configuration is valid.
//
// Valid ranges:
//   - Workers: 1 to 1,024
//   - ParallelThreshold: >= 0
//   - Tracker.CheckInterval: >= 1 (when Prefilter is enabled)
//   - Tracker.MinEfficiency: 0.0 to 1.0 (when Prefilter is enabled)
func (c Config) Validate() error {
	if c.Workers < 1 || c.Workers > 1024 {
		return &ConfigError{Field: "Workers", Message: "must be between 1 and 1,024"}
	}
	if c.ParallelThreshold < 0 {
		return &ConfigError{Field: "ParallelThreshold", Message: "must not be negative"}
	}
	if c.Prefilter {
		if c.Tracker.CheckInterval < 1 {
			return &ConfigError{Field: "Tracker.CheckInterval", Message: "must be at least 1"}
		}
		if c.Tracker.MinEfficiency < 0 || c.Tracker.MinEfficiency > 1 {
			return &ConfigError{Field: "Tracker.MinEfficiency", Message: "must be between 0 and 1"}
		}
	}
	return nil
}
