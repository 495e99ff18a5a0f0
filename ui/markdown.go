package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

const markdownStyle = "dracula"

var (
	mdRendererMu sync.Mutex
	// Keyed by wrap width. A fixed style avoids the terminal background query
	// that WithAutoStyle performs.
	mdRenderers = map[int]*glamour.TermRenderer{}
)

// renderMarkdown renders the analysis reason wrapped to width. It falls back
// to the raw text if glamour fails.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	width = max(width, 10)

	mdRendererMu.Lock()
	defer mdRendererMu.Unlock()

	r := mdRenderers[width]
	if r == nil {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(markdownStyle),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRenderers[width] = r
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
