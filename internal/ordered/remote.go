package ordered

import (
	"context"

	"lessons-cli/internal/logging"
	"lessons-cli/internal/model"
)

// Remote applies every mutation as "command, then resynchronize": the command
// goes to the Source and the whole list is fetched again. Nothing is applied
// optimistically, so a failed command needs no rollback.
type Remote struct {
	*State
	src Source
	log *logging.Logger
}

var _ Controller = (*Remote)(nil)

func NewRemote(st *State, src Source, log *logging.Logger) *Remote {
	if st == nil {
		st = NewState(nil)
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Remote{State: st, src: src, log: log.WithComponent("controller")}
}

// Reload replaces the items wholesale. The selection is left alone; callers
// that shrink the list are responsible for clearing it.
func (r *Remote) Reload(ctx context.Context) {
	items, err := r.src.List(ctx)
	if err != nil {
		r.log.Error("error fetching lessons", "op", "reload", "err", err)
		return
	}
	r.replaceItems(items)
	r.log.Debug("lessons reloaded", "count", len(items))
}

func (r *Remote) Add(ctx context.Context, title string) {
	title = model.NormalizeTitle(title)
	if title == "" {
		return
	}
	if _, err := r.src.Create(ctx, title); err != nil {
		r.log.Error("error adding lesson", "op", "add", "err", err)
		return
	}
	r.Reload(ctx)
	r.SetInput("")
}

func (r *Remote) Edit(ctx context.Context, title string) {
	title = model.NormalizeTitle(title)
	if title == "" {
		return
	}
	if _, ok := r.Selected(); !ok {
		return
	}
	target, ok := r.SelectedLesson()
	if !ok {
		r.log.Warn("selection no longer matches a lesson", "op", "edit")
		return
	}
	if _, err := r.src.Update(ctx, target.ID, title); err != nil {
		r.log.Error("error editing lesson", "op", "edit", "id", target.ID, "err", err)
		return
	}
	r.Reload(ctx)
	r.SetInput("")
	r.ClearSelection()
}

func (r *Remote) Delete(ctx context.Context) {
	if _, ok := r.Selected(); !ok {
		return
	}
	target, ok := r.SelectedLesson()
	if !ok {
		r.log.Warn("selection no longer matches a lesson", "op", "delete")
		return
	}
	if err := r.src.Delete(ctx, target.ID); err != nil {
		r.log.Error("error deleting lesson", "op", "delete", "id", target.ID, "err", err)
		return
	}
	r.Reload(ctx)
	r.ClearSelection()
}

// Move asks the source to reorder and then selects the computed index without
// checking that the reloaded list actually put the moved lesson there. If the
// reloaded list is too short for that index, the selection is cleared instead.
func (r *Remote) Move(ctx context.Context, index int, dir model.Direction) {
	next, ok := Target(index, dir, r.Len())
	if !ok {
		return
	}
	if err := r.src.Reorder(ctx, index, next); err != nil {
		r.log.Error("error moving lesson", "op", "move", "from", index, "to", next, "err", err)
		return
	}
	r.Reload(ctx)
	r.Select(next)
}
