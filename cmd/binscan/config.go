package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/coregx/binmatch"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Configuration keys. Every key can also be set in the config file or as a
// BINSCAN_ environment variable, e.g. BINSCAN_LOG_LEVEL=debug.
const (
	keyWorkers           = "workers"
	keyParallelFiles     = "parallel_files"
	keyParallelThreshold = "parallel_threshold"
	keyPrefilter         = "prefilter"
	keyFormat            = "format"
	keyIndex             = "index"
	keyColor             = "color"
	keyTags              = "tags"
	keyLogLevel          = "log.level"
	keyLogFile           = "log.file"
)

var cfg = newConfig()

func newConfig() *viper.Viper {
	v := viper.New()
	v.SetDefault(keyWorkers, 0)
	v.SetDefault(keyParallelFiles, 4)
	v.SetDefault(keyParallelThreshold, binmatch.DefaultConfig().ParallelThreshold)
	v.SetDefault(keyPrefilter, true)
	v.SetDefault(keyFormat, "text")
	v.SetDefault(keyIndex, false)
	v.SetDefault(keyColor, "auto")
	v.SetDefault(keyLogLevel, "info")

	v.SetEnvPrefix("BINSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// initConfig reads path, or $HOME/.binscan.yaml when path is empty. A
// missing default file is not an error.
func initConfig(path string) error {
	if path != "" {
		cfg.SetConfigFile(path)
		if err := cfg.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config %s", path)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	cfg.SetConfigFile(filepath.Join(home, ".binscan.yaml"))
	if err := cfg.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || errors.As(err, new(viper.ConfigFileNotFoundError)) {
			return nil
		}
		return errors.Wrap(err, "reading config")
	}
	return nil
}

// settings is the resolved scan configuration.
type settings struct {
	Workers           int
	ParallelFiles     int
	ParallelThreshold int
	Prefilter         bool
	Format            string
	Index             bool
	Color             string
	Tags              []string
}

// loadSettings resolves v into settings. Values from the config file or the
// environment are converted strictly, so "workers: many" is reported instead
// of silently becoming 0.
func loadSettings(v *viper.Viper) (settings, error) {
	var s settings
	var err error

	if s.Workers, err = cast.ToIntE(v.Get(keyWorkers)); err != nil {
		return s, errors.Wrapf(err, "config %s", keyWorkers)
	}
	switch {
	case s.Workers < 0:
		return s, errors.Newf("config %s: must not be negative, got %d", keyWorkers, s.Workers)
	case s.Workers == 0:
		// Resolved here, after GOMAXPROCS has been matched to the CPU quota.
		s.Workers = binmatch.DefaultConfig().Workers
	}
	if s.ParallelFiles, err = cast.ToIntE(v.Get(keyParallelFiles)); err != nil {
		return s, errors.Wrapf(err, "config %s", keyParallelFiles)
	}
	if s.ParallelFiles < 1 {
		return s, errors.Newf("config %s: must be at least 1, got %d", keyParallelFiles, s.ParallelFiles)
	}
	if s.ParallelThreshold, err = cast.ToIntE(v.Get(keyParallelThreshold)); err != nil {
		return s, errors.Wrapf(err, "config %s", keyParallelThreshold)
	}
	if s.Prefilter, err = cast.ToBoolE(v.Get(keyPrefilter)); err != nil {
		return s, errors.Wrapf(err, "config %s", keyPrefilter)
	}
	if s.Index, err = cast.ToBoolE(v.Get(keyIndex)); err != nil {
		return s, errors.Wrapf(err, "config %s", keyIndex)
	}

	s.Format = strings.ToLower(cast.ToString(v.Get(keyFormat)))
	switch s.Format {
	case "text", "json":
	default:
		return s, errors.WithHint(
			errors.Newf("unknown output format %q", s.Format),
			"use --format text or --format json")
	}

	s.Color = strings.ToLower(cast.ToString(v.Get(keyColor)))
	switch s.Color {
	case "auto", "always", "never":
	default:
		return s, errors.WithHint(
			errors.Newf("unknown color mode %q", s.Color),
			"use auto, always or never")
	}

	if s.Tags, err = toStrings(v.Get(keyTags)); err != nil {
		return s, errors.Wrapf(err, "config %s", keyTags)
	}
	return s, nil
}

// toStrings accepts a YAML list or a comma-separated string.
func toStrings(val any) ([]string, error) {
	if val == nil {
		return nil, nil
	}
	if str, ok := val.(string); ok {
		var out []string
		for _, part := range strings.Split(str, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	}
	return cast.ToStringSliceE(val)
}

// matchConfig builds the pattern configuration for s.
func (s settings) matchConfig() (binmatch.Config, error) {
	c := binmatch.DefaultConfig()
	c.Workers = s.Workers
	c.ParallelThreshold = s.ParallelThreshold
	c.Prefilter = s.Prefilter
	if err := c.Validate(); err != nil {
		return c, errors.Wrap(err, "scan configuration")
	}
	return c, nil
}
