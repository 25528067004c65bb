package ordered

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"lessons-cli/internal/model"
)

var errTransport = errors.New("connection refused")

// fakeSource is an in-memory Source with per-operation failure injection.
type fakeSource struct {
	mu     sync.Mutex
	items  []model.Lesson
	seq    int
	failOn map[string]error
	calls  []string
}

func newFakeSource(titles ...string) *fakeSource {
	f := &fakeSource{failOn: map[string]error{}}
	for _, t := range titles {
		f.items = append(f.items, f.newLesson(t))
	}
	return f
}

func (f *fakeSource) newLesson(title string) model.Lesson {
	f.seq++
	return model.Lesson{ID: fmt.Sprintf("lesson-%d", f.seq), Title: title}
}

func (f *fakeSource) record(op string) error {
	f.calls = append(f.calls, op)
	return f.failOn[op]
}

func (f *fakeSource) List(context.Context) ([]model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("list"); err != nil {
		return nil, err
	}
	return append([]model.Lesson(nil), f.items...), nil
}

func (f *fakeSource) Create(_ context.Context, title string) (model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("create"); err != nil {
		return model.Lesson{}, err
	}
	it := f.newLesson(title)
	f.items = append(f.items, it)
	return it, nil
}

func (f *fakeSource) Update(_ context.Context, id, title string) (model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("update"); err != nil {
		return model.Lesson{}, err
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Title = title
			return f.items[i], nil
		}
	}
	return model.Lesson{}, fmt.Errorf("lesson not found: %s", id)
}

func (f *fakeSource) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delete"); err != nil {
		return err
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("lesson not found: %s", id)
}

func (f *fakeSource) Reorder(_ context.Context, oldIndex, newIndex int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("reorder"); err != nil {
		return err
	}
	if oldIndex < 0 || oldIndex >= len(f.items) || newIndex < 0 || newIndex >= len(f.items) {
		return errors.New("index out of range")
	}
	moved := f.items[oldIndex]
	rest := append(append([]model.Lesson(nil), f.items[:oldIndex]...), f.items[oldIndex+1:]...)
	out := append([]model.Lesson(nil), rest[:newIndex]...)
	out = append(out, moved)
	f.items = append(out, rest[newIndex:]...)
	return nil
}

func titles(items []model.Lesson) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
