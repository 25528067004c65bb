package tui

import (
	"fmt"
	"strings"
	"sync"

	"lessons-cli/internal/docs"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	mdMu sync.Mutex
	// Rendered help keyed by style and width. Building a glamour renderer is
	// slow enough to notice on every keypress.
	mdCache = map[string]string{}
)

func markdownStyle() string {
	if lipgloss.ColorProfile() == termenv.Ascii {
		return "notty"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	width = max(width, 20)
	style := markdownStyle()
	key := fmt.Sprintf("%s:%d:%d", style, width, len(md))

	mdMu.Lock()
	out, ok := mdCache[key]
	mdMu.Unlock()
	if ok {
		return out
	}

	out, err := docs.Render(md, width, style)
	if err != nil {
		return md
	}
	out = strings.Trim(out, "\n")

	mdMu.Lock()
	mdCache[key] = out
	mdMu.Unlock()
	return out
}

func renderHelp(width int) string {
	body, ok := docs.Get("keys")
	if !ok {
		return ""
	}
	return renderMarkdown(body, width)
}
