package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coregx/binmatch"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// styles holds the text output colors.
type styles struct {
	path      *color.Color
	offset    *color.Color
	signature *color.Color
	captured  *color.Color
	dim       *color.Color
}

func newStyles(enabled bool) *styles {
	s := &styles{
		path:      color.New(color.Bold, color.FgHiWhite),
		offset:    color.New(color.FgHiGreen),
		signature: color.New(color.Bold, color.FgHiBlue),
		captured:  color.New(color.FgYellow),
		dim:       color.New(color.FgHiBlack),
	}
	if !enabled {
		s.path.DisableColor()
		s.offset.DisableColor()
		s.signature.DisableColor()
		s.captured.DisableColor()
		s.dim.DisableColor()
	}
	return s
}

// colorEnabled resolves a --color mode. "auto" colors only terminals and
// honors NO_COLOR.
func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writeFindings(w io.Writer, findings []Finding, s settings) error {
	sortFindings(findings)

	if s.Format == "json" {
		if findings == nil {
			findings = []Finding{}
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(findings)
	}

	st := newStyles(colorEnabled(s.Color, w))
	for _, f := range findings {
		line := fmt.Sprintf("%s:%s  %s",
			st.path.Sprint(f.Path),
			st.offset.Sprintf("0x%08x", f.Offset),
			st.signature.Sprint(f.Signature))
		if f.Name != "" && f.Name != f.Signature {
			line += " " + st.dim.Sprintf("(%s)", f.Name)
		}
		switch {
		case s.Index && len(f.Captures) > 0:
			line += "  " + st.captured.Sprint(indexedBytes(f.Captures))
		case f.Captured != "":
			line += "  " + st.captured.Sprint(f.Captured)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// hexBytes formats capture values as "10 20 30".
func hexBytes(caps []binmatch.Capture) string {
	if len(caps) == 0 {
		return ""
	}
	var b strings.Builder
	for i, c := range caps {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", c.Value)
	}
	return b.String()
}

// indexedBytes formats captures as "10@0x00000004 20@0x00000005".
func indexedBytes(caps []binmatch.Capture) string {
	var b strings.Builder
	for i, c := range caps {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X@0x%08x", c.Value, c.Index)
	}
	return b.String()
}
