package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/coregx/binmatch"
	"github.com/spf13/cobra"
)

var (
	inspectFormat      string
	inspectNoPrefilter bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <pattern>",
	Short: "Show how a signature compiles",
	Long: `Compile a signature and print its canonical form, its length, the number of
placeholders, its elements and the anchor the prefilter searches for.`,
	Example: `  binscan inspect "48 8b 05 ?? ?? ?? ??"`,
	Args:    cobra.ExactArgs(1),
	RunE:    runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "Output format: text, json")
	inspectCmd.Flags().BoolVar(&inspectNoPrefilter, "no-prefilter", false, "Compile without a prefilter")
}

// patternInfo describes a compiled pattern.
type patternInfo struct {
	Source       string   `json:"source"`
	Canonical    string   `json:"canonical"`
	Length       int      `json:"length"`
	Placeholders int      `json:"placeholders"`
	Elements     []string `json:"elements"`
	Anchor       string   `json:"anchor,omitempty"`
	AnchorOffset int      `json:"anchor_offset"`
}

func describe(p *binmatch.Pattern) patternInfo {
	info := patternInfo{
		Source:       p.Source(),
		Canonical:    p.String(),
		Length:       p.Len(),
		Placeholders: p.NumPlaceholders(),
		Elements:     []string{},
		AnchorOffset: -1,
	}
	for _, e := range p.Elements() {
		info.Elements = append(info.Elements, e.String())
	}
	if needle, offset, ok := p.Anchor(); ok {
		parts := make([]string, len(needle))
		for i, b := range needle {
			parts[i] = fmt.Sprintf("%02X", b)
		}
		info.Anchor = strings.Join(parts, " ")
		info.AnchorOffset = offset
	}
	return info
}

func runInspect(cmd *cobra.Command, args []string) error {
	config := binmatch.DefaultConfig()
	config.Prefilter = !inspectNoPrefilter

	p, err := binmatch.CompileWithConfig(args[0], config)
	if err != nil {
		return err
	}
	info := describe(p)

	out := cmd.OutOrStdout()
	switch inspectFormat {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	case "text":
	default:
		return errors.WithHint(
			errors.Newf("unknown output format %q", inspectFormat),
			"use --format text or --format json")
	}

	fmt.Fprintf(out, "Pattern:      %s\n", info.Canonical)
	fmt.Fprintf(out, "Length:       %d\n", info.Length)
	fmt.Fprintf(out, "Placeholders: %d\n", info.Placeholders)
	fmt.Fprintf(out, "Elements:\n")
	for i, e := range info.Elements {
		kind := "literal"
		if e == "??" {
			kind = "placeholder"
		}
		fmt.Fprintf(out, "  %4d  %s  %s\n", i, e, kind)
	}
	if info.Anchor != "" {
		fmt.Fprintf(out, "Anchor:       %s at offset %d\n", info.Anchor, info.AnchorOffset)
	} else {
		fmt.Fprintf(out, "Anchor:       none (every window is compared)\n")
	}
	return nil
}
