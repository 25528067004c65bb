package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lessons-cli/internal/client"
	"lessons-cli/internal/model"
	"lessons-cli/internal/ordered"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type dialogKind int

const (
	dialogNone dialogKind = iota
	dialogAdd
	dialogEdit
	dialogHelp
)

const resubscribeAfter = 5 * time.Second

// Header and footer lines around the list.
const chromeHeight = 4

type (
	// opDoneMsg reports that an asynchronous controller operation returned.
	opDoneMsg struct{}

	subscribedMsg struct{ ch <-chan client.Change }
	changeMsg     struct{ change client.Change }
	// feedReloadedMsg follows the reload triggered by a change event.
	feedReloadedMsg struct{}
	feedClosedMsg   struct{ err error }
	resubscribeMsg  struct{}
)

type appModel struct {
	ctx    context.Context
	ctl    ordered.Controller
	remote bool
	source string

	subscribe func(ctx context.Context) (<-chan client.Change, error)
	changes   <-chan client.Change

	keys  keyMap
	help  help.Model
	list  list.Model
	input textinput.Model

	dialog dialogKind
	width  int
	height int
	status string
}

func newAppModel(ctx context.Context, opts Options) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 500
	ti.Placeholder = "Lesson title"
	// A static cursor needs no blink ticks.
	ti.Cursor.SetMode(cursor.CursorStatic)

	m := appModel{
		ctx:       ctx,
		ctl:       opts.Controller,
		remote:    opts.Remote,
		source:    strings.TrimSpace(opts.Source),
		subscribe: opts.Subscribe,
		keys:      defaultKeyMap(),
		help:      help.New(),
		list:      newLessonList(),
		input:     ti,
	}
	m.syncList()
	return m
}

func (m appModel) Init() tea.Cmd {
	if !m.remote {
		return nil
	}
	cmds := []tea.Cmd{m.runOp(func(ctx context.Context) { m.ctl.Reload(ctx) })}
	if m.subscribe != nil {
		cmds = append(cmds, m.subscribeCmd())
	}
	return tea.Batch(cmds...)
}

// runOp applies fn to the controller. Remote controllers block on the network,
// so they run as a command and report back with opDoneMsg.
func (m *appModel) runOp(fn func(ctx context.Context)) tea.Cmd {
	if !m.remote {
		fn(m.ctx)
		m.syncList()
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		fn(ctx)
		return opDoneMsg{}
	}
}

func (m appModel) subscribeCmd() tea.Cmd {
	ctx, subscribe := m.ctx, m.subscribe
	return func() tea.Msg {
		ch, err := subscribe(ctx)
		if err != nil {
			return feedClosedMsg{err: err}
		}
		return subscribedMsg{ch: ch}
	}
}

func waitForChange(ch <-chan client.Change) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return feedClosedMsg{}
		}
		return changeMsg{change: c}
	}
}

// syncList copies the controller snapshot into the list widget.
func (m *appModel) syncList() {
	snap := m.ctl.Snapshot()
	items := make([]list.Item, 0, len(snap.Items))
	for i, l := range snap.Items {
		items = append(items, lessonItem{lesson: l, pos: i + 1})
	}
	m.list.SetItems(items)
	m.list.SetDelegate(newLessonDelegate(snap.Selected))
	if snap.HasSelection() {
		m.list.Select(snap.Selected)
	}
}

func (m *appModel) resize() {
	m.list.SetSize(m.width, max(m.height-chromeHeight, 1))
	m.help.Width = m.width
	m.input.Width = max(modalBodyWidth(m.width)-1, 1)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case opDoneMsg:
		m.syncList()
		return m, nil

	case subscribedMsg:
		m.changes = msg.ch
		m.status = ""
		return m, waitForChange(msg.ch)

	case changeMsg:
		ctl, ctx := m.ctl, m.ctx
		return m, func() tea.Msg {
			ctl.Reload(ctx)
			return feedReloadedMsg{}
		}

	case feedReloadedMsg:
		m.syncList()
		if m.changes == nil {
			return m, nil
		}
		return m, waitForChange(m.changes)

	case feedClosedMsg:
		m.changes = nil
		if m.ctx.Err() != nil || m.subscribe == nil {
			return m, nil
		}
		m.status = "live updates unavailable; retrying"
		return m, tea.Tick(resubscribeAfter, func(time.Time) tea.Msg { return resubscribeMsg{} })

	case resubscribeMsg:
		if m.ctx.Err() != nil || m.subscribe == nil {
			return m, nil
		}
		return m, m.subscribeCmd()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.dialog {
		case dialogAdd, dialogEdit:
			return m.updateInput(msg)
		case dialogHelp:
			switch msg.String() {
			case "esc", "?", "q", "enter":
				m.dialog = dialogNone
			}
			return m, nil
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.dialog == dialogEdit {
			m.ctl.ClearSelection()
		}
		m.ctl.SetInput("")
		m.input.Reset()
		m.input.Blur()
		m.dialog = dialogNone
		m.syncList()
		return m, nil

	case "enter":
		title := m.input.Value()
		if model.NormalizeTitle(title) == "" {
			// Keep the dialog open; an empty title is never submitted.
			return m, nil
		}
		kind := m.dialog
		m.dialog = dialogNone
		m.input.Blur()
		m.ctl.SetInput(title)
		if kind == dialogEdit {
			return m, m.runOp(func(ctx context.Context) { m.ctl.Edit(ctx, title) })
		}
		return m, m.runOp(func(ctx context.Context) { m.ctl.Add(ctx, title) })
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctl.SetInput(m.input.Value())
	return m, cmd
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Status lines last until the next keypress.
	m.status = ""
	snap := m.ctl.Snapshot()
	n := len(snap.Items)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case msg.String() == "esc":
		m.ctl.ClearSelection()
		m.syncList()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if n == 0 {
			return m, nil
		}
		next := n - 1
		if snap.HasSelection() {
			next = max(snap.Selected-1, 0)
		}
		m.ctl.Select(next)
		m.syncList()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if n == 0 {
			return m, nil
		}
		next := 0
		if snap.HasSelection() {
			next = min(snap.Selected+1, n-1)
		}
		m.ctl.Select(next)
		m.syncList()
		return m, nil

	case key.Matches(msg, m.keys.MoveUp), key.Matches(msg, m.keys.MoveDown):
		if !snap.HasSelection() {
			return m, nil
		}
		dir := model.Down
		if key.Matches(msg, m.keys.MoveUp) {
			dir = model.Up
		}
		idx := snap.Selected
		if _, ok := ordered.Target(idx, dir, n); !ok {
			return m, nil
		}
		return m, m.runOp(func(ctx context.Context) { m.ctl.Move(ctx, idx, dir) })

	case key.Matches(msg, m.keys.Add):
		m.dialog = dialogAdd
		m.input.SetValue(m.ctl.Input())
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Edit):
		if !m.ctl.BeginEdit() {
			m.status = "select a lesson to edit"
			return m, nil
		}
		m.dialog = dialogEdit
		m.input.SetValue(m.ctl.Input())
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Delete):
		if !snap.HasSelection() {
			m.status = "select a lesson to delete"
			return m, nil
		}
		return m, m.runOp(func(ctx context.Context) { m.ctl.Delete(ctx) })

	case key.Matches(msg, m.keys.Reload):
		return m, m.runOp(func(ctx context.Context) { m.ctl.Reload(ctx) })

	case key.Matches(msg, m.keys.Copy):
		l, ok := m.ctl.SelectedLesson()
		if !ok {
			return m, nil
		}
		if err := copyToClipboard(l.Title); err != nil {
			m.status = "copy failed: " + err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("copied %q", l.Title)
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.dialog = dialogHelp
		return m, nil
	}
	return m, nil
}

func (m appModel) View() string {
	snap := m.ctl.Snapshot()

	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("Lessons")
	meta := fmt.Sprintf("%d item(s)", len(snap.Items))
	if m.source != "" {
		meta = m.source + " · " + meta
	}
	header := title + "  " + styleMuted().Render(meta)

	bodyH := max(m.height-chromeHeight, 1)
	var body string
	switch m.dialog {
	case dialogAdd:
		body = placeCenter(m.width, bodyH, renderInputModal(m.width, "Add lesson", m.input.View()))
	case dialogEdit:
		body = placeCenter(m.width, bodyH, renderInputModal(m.width, "Edit lesson", m.input.View()))
	case dialogHelp:
		body = placeCenter(m.width, bodyH, renderModalBox(m.width, "Help", renderHelp(modalBodyWidth(m.width))))
	default:
		if len(snap.Items) == 0 {
			body = styleMuted().Render(`No lessons yet. Press "a" to add one.`)
		} else {
			body = m.list.View()
		}
	}

	footer := m.help.View(m.keys)
	if m.status != "" {
		footer = styleMuted().Render(m.status) + "\n" + footer
	}
	return strings.Join([]string{header, "", body, footer}, "\n")
}
