package tui

import (
	"fmt"
	"io"
	"strings"

	"lessons-cli/internal/model"
	"lessons-cli/internal/ordered"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type lessonItem struct {
	lesson model.Lesson
	pos    int
}

func (i lessonItem) FilterValue() string { return i.lesson.Title }
func (i lessonItem) Title() string       { return i.lesson.Title }

// lessonDelegate renders one line per lesson. The highlighted row follows the
// controller's selection, not the list cursor, so "no selection" shows nothing.
type lessonDelegate struct {
	selected int
	normal   lipgloss.Style
	active   lipgloss.Style
	position lipgloss.Style
}

func newLessonDelegate(selected int) lessonDelegate {
	return lessonDelegate{
		selected: selected,
		normal:   lipgloss.NewStyle().Foreground(colorSurfaceFg),
		active: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		position: styleMuted(),
	}
}

func (d lessonDelegate) Height() int                             { return 1 }
func (d lessonDelegate) Spacing() int                            { return 0 }
func (d lessonDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d lessonDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	it, ok := item.(lessonItem)
	if contentW < 8 || !ok {
		return
	}

	marker := "  "
	style := d.normal
	if d.selected != ordered.NoSelection && index == d.selected {
		marker = "> "
		style = d.active
	}
	prefix := fmt.Sprintf("%s%3d. ", marker, it.pos)
	titleW := contentW - xansi.StringWidth(prefix)

	title := it.lesson.Title
	if xansi.StringWidth(title) > titleW {
		title = xansi.Truncate(title, titleW, "…")
	}
	line := prefix + title
	if pad := contentW - xansi.StringWidth(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	fmt.Fprint(w, style.Render(line))
}

func newLessonList() list.Model {
	l := list.New(nil, newLessonDelegate(ordered.NoSelection), 0, 0)
	// Chrome is drawn by appModel; the list only pages rows.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}
