package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// minMarkdownWrap keeps narrow overlays from wrapping every word.
const minMarkdownWrap = 24

// markdownRenderer turns todo descriptions into styled terminal text. The
// details overlay is redrawn every frame, so the last result is memoized.
type markdownRenderer struct {
	wrap     int
	term     *glamour.TermRenderer
	lastIn   string
	lastWrap int
	lastOut  string
}

// render returns source as styled text wrapped to width. Rendering errors
// fall back to the trimmed source.
func (r *markdownRenderer) render(source string, width int) string {
	source = strings.TrimSpace(source)
	if source == "" {
		return ""
	}
	wrap := max(width, minMarkdownWrap)
	if source == r.lastIn && wrap == r.lastWrap {
		return r.lastOut
	}

	out := source
	if term, err := r.termFor(wrap); err == nil {
		if styled, err := term.Render(source); err == nil {
			out = strings.TrimRight(styled, "\n")
		}
	}
	r.lastIn, r.lastWrap, r.lastOut = source, wrap, out
	return out
}

// termFor returns a renderer for wrap, rebuilding it when the width changes.
func (r *markdownRenderer) termFor(wrap int) (*glamour.TermRenderer, error) {
	if r.term != nil && r.wrap == wrap {
		return r.term, nil
	}
	term, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil, err
	}
	r.term, r.wrap = term, wrap
	return term, nil
}
