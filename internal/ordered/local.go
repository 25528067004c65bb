package ordered

import (
	"context"
	"strconv"

	"lessons-cli/internal/model"
)

const localIDPrefix = "local-"

// Local is the client-only controller: every operation is an in-memory mutation.
type Local struct {
	*State
	seq int
}

var _ Controller = (*Local)(nil)

func NewLocal(st *State) *Local {
	if st == nil {
		st = NewState(nil)
	}
	return &Local{State: st, seq: st.Len()}
}

// nextID synthesizes an identity from the append sequence. Sequence numbers are
// never reused, so ids stay unique after deletes and swaps.
func (l *Local) nextID() string {
	for {
		id := localIDPrefix + strconv.Itoa(l.seq)
		l.seq++
		if !l.hasID(id) {
			return id
		}
	}
}

func (l *Local) hasID(id string) bool {
	for _, it := range l.items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func (l *Local) Add(_ context.Context, title string) {
	title = model.NormalizeTitle(title)
	if title == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, model.Lesson{ID: l.nextID(), Title: title})
	l.input = ""
}

func (l *Local) Edit(_ context.Context, title string) {
	title = model.NormalizeTitle(title)
	if title == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.selected < 0 || l.selected >= len(l.items) {
		return
	}
	l.items[l.selected].Title = title
	l.input = ""
	l.selected = NoSelection
}

func (l *Local) Delete(_ context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.selected < 0 || l.selected >= len(l.items) {
		return
	}
	i := l.selected
	l.items = append(l.items[:i:i], l.items[i+1:]...)
	l.selected = NoSelection
}

func (l *Local) Move(_ context.Context, index int, dir model.Direction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	next, ok := Target(index, dir, len(l.items))
	if !ok {
		return
	}
	l.items[index], l.items[next] = l.items[next], l.items[index]
	l.selected = next
}

// Reload is a no-op: the local list is its own source of truth.
func (l *Local) Reload(context.Context) {}
