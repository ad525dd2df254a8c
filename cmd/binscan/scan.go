package main

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/coregx/binmatch"
	"github.com/coregx/binmatch/internal/haystack"
	"github.com/coregx/binmatch/prefilter"
	"github.com/coregx/binmatch/signature"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	scanPatterns    []string
	scanRulesPath   string
	scanNoPrefilter bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [paths...]",
	Short: "Scan files for binary signatures",
	Long: `Scan files, directories (recursively) or standard input ("-") for binary
signatures. Zstandard-compressed inputs are decompressed before scanning.

Without -p or -r the builtin signatures are used.`,
	Example: `  binscan scan -p "48 8B 05 ?? ?? ?? ??" ./vmlinux
  binscan scan -r rules/ --format json firmware.bin
  cat dump.bin | binscan scan -p "DE AD ?? ??" -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

func init() {
	flags := scanCmd.Flags()
	flags.StringArrayVarP(&scanPatterns, "pattern", "p", nil, "Signature to search for (repeatable)")
	flags.StringVarP(&scanRulesPath, "rules", "r", "", "Path to a signatures file or directory")
	flags.BoolVar(&scanNoPrefilter, "no-prefilter", false, "Compare every window instead of searching for an anchor first")
	flags.Int("workers", 0, "Goroutines per large input (0: GOMAXPROCS)")
	flags.Int("parallel-files", 4, "Inputs scanned concurrently")
	flags.String("format", "text", "Output format: text, json")
	flags.Bool("index", false, "Report the offset of every captured byte")
	flags.String("color", "auto", "Colorize output: auto, always, never")
	flags.StringSlice("tag", nil, "Only use signatures with one of these tags")

	bindScanFlags()
}

// bindScanFlags binds config keys to the scan flags, so a flag given on the
// command line overrides the environment and the config file.
func bindScanFlags() {
	keys := map[string]string{
		keyWorkers:       "workers",
		keyParallelFiles: "parallel-files",
		keyFormat:        "format",
		keyIndex:         "index",
		keyColor:         "color",
		keyTags:          "tag",
	}
	for key, name := range keys {
		if err := cfg.BindPFlag(key, scanCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// Finding is one matching window.
type Finding struct {
	Path      string             `json:"path"`
	Signature string             `json:"signature"`
	Name      string             `json:"name"`
	Offset    int                `json:"offset"`
	Captured  string             `json:"captured,omitempty"`
	Captures  []binmatch.Capture `json:"captures,omitempty"`
}

// fileResult collects the findings for one input.
type fileResult struct {
	path     string
	size     int
	findings []Finding
	skipped  int
}

func runScan(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cfg)
	if err != nil {
		return err
	}
	if scanNoPrefilter {
		s.Prefilter = false
	}
	mc, err := s.matchConfig()
	if err != nil {
		return err
	}

	sigs, err := loadSignatures(scanPatterns, scanRulesPath, mc)
	if err != nil {
		return err
	}
	sigs = signature.Filter(sigs, s.Tags...)
	if len(sigs) == 0 {
		return errors.WithHint(errors.New("no signatures selected"), "check the --tag values")
	}

	screen, err := buildScreen(sigs)
	if err != nil {
		return err
	}

	inputs, err := expandInputs(args)
	if err != nil {
		return err
	}

	logger.Debug("starting scan",
		zap.Int("signatures", len(sigs)),
		zap.Int("inputs", len(inputs)),
		zap.Bool("prefilter", s.Prefilter),
		zap.Int("workers", s.Workers))

	start := time.Now()
	results := make([]fileResult, len(inputs))

	g := new(errgroup.Group)
	g.SetLimit(s.ParallelFiles)
	for i, path := range inputs {
		g.Go(func() error {
			h, err := openInput(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer h.Close()

			results[i] = scanHaystack(path, h.Bytes(), sigs, screen, s)
			logger.Debug("scanned",
				zap.String("path", path),
				zap.Int("bytes", h.Len()),
				zap.Bool("compressed", h.Compressed()),
				zap.Int("findings", len(results[i].findings)),
				zap.Int("skipped_signatures", results[i].skipped))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var findings []Finding
	var scanned int
	for _, r := range results {
		findings = append(findings, r.findings...)
		scanned += r.size
	}

	logger.Info("scan complete",
		zap.Int("inputs", len(inputs)),
		zap.Int("bytes", scanned),
		zap.Int("findings", len(findings)),
		zap.Duration("elapsed", time.Since(start)))

	return writeFindings(cmd.OutOrStdout(), findings, s)
}

// loadSignatures returns the command line patterns and the rules at
// rulesPath, or the builtin signatures when neither is given.
func loadSignatures(patterns []string, rulesPath string, mc binmatch.Config) ([]*signature.Signature, error) {
	loader := signature.NewLoader().WithConfig(mc)

	var sigs []*signature.Signature
	for i, p := range patterns {
		sig, err := signature.Parse("pattern."+strconv.Itoa(i), p, mc)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}

	if rulesPath != "" {
		loaded, err := loader.LoadPath(rulesPath)
		if err != nil {
			return nil, errors.Wrap(err, "loading rules")
		}
		sigs = append(sigs, loaded...)
	}

	if len(patterns) == 0 && rulesPath == "" {
		builtin, err := loader.LoadBuiltin()
		if err != nil {
			return nil, errors.Wrap(err, "loading builtin signatures")
		}
		sigs = builtin
	}
	return sigs, nil
}

// buildScreen returns a screen over the signatures' anchors, or nil for a
// single signature.
func buildScreen(sigs []*signature.Signature) (*prefilter.Screen, error) {
	if len(sigs) < 2 {
		return nil, nil
	}
	anchors := make([][]byte, len(sigs))
	for i, sig := range sigs {
		if needle, _, ok := sig.Compiled().Anchor(); ok {
			anchors[i] = needle
		}
	}
	screen, err := prefilter.NewScreen(anchors)
	if err != nil {
		return nil, errors.Wrap(err, "building signature screen")
	}
	return screen, nil
}

// expandInputs replaces directories with the regular files below them, in
// lexical order. "-" is kept as is.
func expandInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		if arg == "-" {
			inputs = append(inputs, arg)
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "input %s", arg)
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() {
				inputs = append(inputs, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walking %s", arg)
		}
	}
	return inputs, nil
}

func openInput(path string, stdin io.Reader) (*haystack.Haystack, error) {
	if path != "-" {
		return haystack.Open(path)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, errors.Wrap(err, "reading standard input")
	}
	h, err := haystack.FromBytes(data)
	if err != nil {
		return nil, errors.Wrap(err, "decoding standard input")
	}
	return h, nil
}

// scanHaystack runs every signature the screen lets through over data.
// Findings are ordered by signature, then offset.
func scanHaystack(path string, data []byte, sigs []*signature.Signature, screen *prefilter.Screen, s settings) fileResult {
	r := fileResult{path: path, size: len(data)}

	candidates := allIndices(len(sigs))
	if screen != nil {
		candidates = screen.Candidates(data)
		r.skipped = len(sigs) - len(candidates)
	}

	for _, i := range candidates {
		sig := sigs[i]
		windows, stats := findWindows(sig.Compiled(), data, s.Workers)
		if stats.Anchored {
			logger.Debug("anchor search",
				zap.String("path", path),
				zap.String("signature", sig.ID),
				zap.Uint64("candidates", stats.Candidates),
				zap.Uint64("confirms", stats.Confirms),
				zap.Float64("efficiency", stats.Efficiency()),
				zap.Bool("retired", stats.Retired))
		}
		for _, w := range windows {
			f := Finding{
				Path:      path,
				Signature: sig.ID,
				Name:      sig.Name,
				Offset:    w.offset,
				Captured:  hexBytes(w.captures),
			}
			if s.Index {
				f.Captures = w.captures
			}
			r.findings = append(r.findings, f)
		}
	}
	return r
}

type window struct {
	offset   int
	captures []binmatch.Capture
}

// findWindows returns the matching windows of p in data and how its anchor
// search performed. Captures come from the parallel scanner; every window
// contributes exactly NumPlaceholders of them, so they are regrouped by
// window.
func findWindows(p *binmatch.Pattern, data []byte, workers int) ([]window, binmatch.ScanStats) {
	holes := p.NumPlaceholders()
	if holes == 0 {
		starts, stats := p.FindAllIndexWithStats(data)
		out := make([]window, len(starts))
		for i, start := range starts {
			out[i] = window{offset: start}
		}
		return out, stats
	}

	first := firstPlaceholder(p)
	caps, stats := p.FindMatchesWithIndexParallelStats(data, workers)
	out := make([]window, 0, len(caps)/holes)
	for i := 0; i+holes <= len(caps); i += holes {
		out = append(out, window{
			offset:   caps[i].Index - first,
			captures: caps[i : i+holes : i+holes],
		})
	}
	return out, stats
}

func firstPlaceholder(p *binmatch.Pattern) int {
	for i, e := range p.Elements() {
		if _, ok := e.(binmatch.Placeholder); ok {
			return i
		}
	}
	return -1
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// sortFindings orders findings by path, keeping the per-file order.
func sortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Path < findings[j].Path
	})
}
