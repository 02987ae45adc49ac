// Package log prints the engine's user-facing console messages.
package log

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Terminal styles for the level markers.
// Lipgloss automatically degrades colors based on terminal capabilities.
var (
	// StyleInfo marks informational lines such as the watch banner.
	StyleInfo = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	// StyleWarn marks deprecations and recoverable configuration issues.
	StyleWarn = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	// StyleRisk marks settings that are likely to produce broken output.
	StyleRisk = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	// StyleDebug marks timing and cache statistics.
	StyleDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	// StyleOK marks successful builds.
	StyleOK = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
)

// RenderStyle applies a lipgloss style to text when colors are enabled.
// When useColors is false, the text is returned unmodified.
func RenderStyle(style lipgloss.Style, text string, useColors bool) string {
	if !useColors {
		return text
	}
	return style.Render(text)
}

// Logger writes leveled messages. The zero value is not usable; use New.
type Logger struct {
	mu        sync.Mutex
	w         io.Writer
	useColors bool
	debug     bool
	once      map[string]struct{}
}

// New creates a logger writing to w.
func New(w io.Writer, useColors, debug bool) *Logger {
	return &Logger{w: w, useColors: useColors, debug: debug, once: make(map[string]struct{})}
}

// Discard drops everything.
func Discard() *Logger {
	return New(io.Discard, false, false)
}

// DebugEnabled reports whether Debugf output is printed.
func (l *Logger) DebugEnabled() bool { return l.debug }

// Info prints each line with an info marker.
func (l *Logger) Info(lines ...string) { l.print(StyleInfo, "info", lines) }

// Warn prints each line with a warn marker.
func (l *Logger) Warn(lines ...string) { l.print(StyleWarn, "warn", lines) }

// Risk prints each line with a risk marker.
func (l *Logger) Risk(lines ...string) { l.print(StyleRisk, "risk", lines) }

// WarnOnce prints the lines only the first time key is seen.
func (l *Logger) WarnOnce(key string, lines ...string) {
	l.mu.Lock()
	_, seen := l.once[key]
	l.once[key] = struct{}{}
	l.mu.Unlock()
	if !seen {
		l.Warn(lines...)
	}
}

// Debugf prints a formatted debug line when debugging is enabled.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.debug {
		return
	}
	l.print(StyleDebug, "debug", []string{fmt.Sprintf(format, args...)})
}

func (l *Logger) print(style lipgloss.Style, level string, lines []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	marker := RenderStyle(style, level, l.useColors)
	for _, line := range lines {
		line = strings.TrimRight(line, "\n")
		fmt.Fprintf(l.w, "%s - %s\n", marker, line)
	}
}
