package jitcss

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/yacobolo/jitcss/internal/jit"
	"github.com/yacobolo/jitcss/internal/log"
)

// Report describes one build.
type Report struct {
	Source string
	// Classes is the number of candidates resolved so far, with or without
	// rules.
	Classes int
	// Rules is the number of distinct generated rules.
	Rules      int
	Base       int
	Components int
	Utilities  int
	Variants   int
	// Contexts is the number of live compiled configs.
	Contexts            int
	ContentMatchEntries int
	Duration            time.Duration
}

func newReport(source string, ctx jit.ContextStats, reg jit.Stats, d time.Duration) Report {
	return Report{
		Source:              source,
		Classes:             ctx.ClassCache,
		Rules:               ctx.RuleCache,
		Base:                ctx.Base,
		Components:          ctx.Components,
		Utilities:           ctx.Utilities,
		Variants:            ctx.VariantRules,
		Contexts:            reg.Contexts,
		ContentMatchEntries: reg.ContentMatchEntries,
		Duration:            d,
	}
}

// ReportFormat selects how reports are written.
type ReportFormat string

// Report formats.
const (
	ReportText ReportFormat = "text"
	ReportJSON ReportFormat = "json"
)

// ParseReportFormat validates a report format name. Empty means text.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch s {
	case "", "text":
		return ReportText, nil
	case "json":
		return ReportJSON, nil
	}
	return "", fmt.Errorf("unknown report format %q (want text or json)", s)
}

// ShouldUseColors reports whether terminal colors should be used.
func ShouldUseColors(force bool) bool {
	if force {
		return true
	}

	// FORCE_COLOR is set by CI systems such as GitHub Actions.
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	fileInfo, err := os.Stdout.Stat()
	return err == nil && fileInfo.Mode()&os.ModeCharDevice != 0
}

// WriteReport writes reports in format.
func WriteReport(w io.Writer, reports []Report, format ReportFormat, useColors bool) error {
	switch format {
	case ReportJSON:
		return WriteJSON(w, reports)
	default:
		writeText(w, reports, useColors)
		return nil
	}
}

func writeText(w io.Writer, reports []Report, useColors bool) {
	for _, r := range reports {
		name := r.Source
		if name == "" {
			name = "<stdin>"
		}
		fmt.Fprintf(w, "%s %s %s\n",
			log.RenderStyle(log.StyleOK, "built", useColors),
			log.RenderStyle(log.StyleInfo, name, useColors),
			log.RenderStyle(log.StyleDebug, "in "+r.Duration.Round(time.Microsecond).String(), useColors),
		)
		fmt.Fprintf(w, "  classes: %d  rules: %d\n", r.Classes, r.Rules)
		fmt.Fprintf(w, "  base: %d  components: %d  utilities: %d  variants: %d\n",
			r.Base, r.Components, r.Utilities, r.Variants)
		fmt.Fprintf(w, "  %s\n", log.RenderStyle(log.StyleDebug,
			fmt.Sprintf("contexts: %d  cached lines: %d", r.Contexts, r.ContentMatchEntries), useColors))
	}
}
