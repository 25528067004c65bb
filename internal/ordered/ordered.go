// Package ordered holds the list controller behind every lessons front end.
//
// A controller owns a *State (items, selection, pending input) and applies
// add/edit/delete/move against it. Local mutates the state directly; Remote
// issues the command to a Source and then resynchronizes the whole list from it.
package ordered

import (
	"context"

	"lessons-cli/internal/model"
)

// NoSelection is the selection value meaning "nothing selected".
const NoSelection = -1

// Source is the authoritative list that a Remote controller resynchronizes from.
type Source interface {
	List(ctx context.Context) ([]model.Lesson, error)
	Create(ctx context.Context, title string) (model.Lesson, error)
	Update(ctx context.Context, id, title string) (model.Lesson, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, oldIndex, newIndex int) error
}

// Controller is implemented by Local and Remote.
//
// Mutating operations never return errors: failures are logged and leave the
// state as it was.
type Controller interface {
	Add(ctx context.Context, title string)
	Edit(ctx context.Context, title string)
	Delete(ctx context.Context)
	Move(ctx context.Context, index int, dir model.Direction)
	Reload(ctx context.Context)

	Select(i int)
	ClearSelection()
	SetInput(s string)
	Input() string
	BeginEdit() bool
	SelectedLesson() (model.Lesson, bool)
	Snapshot() Snapshot
}

// Snapshot is a copy of the controller state, safe to keep and render.
type Snapshot struct {
	Items    []model.Lesson
	Selected int
	Input    string
}

// HasSelection reports whether Selected points at an existing item.
func (s Snapshot) HasSelection() bool {
	return s.Selected >= 0 && s.Selected < len(s.Items)
}

// Target returns the index an item at index moves to in a list of length n,
// and whether the move is allowed at all.
func Target(index int, dir model.Direction, n int) (int, bool) {
	delta := dir.Delta()
	if delta == 0 || index < 0 || index >= n {
		return index, false
	}
	next := index + delta
	if next < 0 || next >= n {
		return index, false
	}
	return next, true
}
