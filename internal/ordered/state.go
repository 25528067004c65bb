package ordered

import (
	"sync"

	"lessons-cli/internal/model"
)

// State is the mutable list state shared by reference with exactly one controller.
//
// The mutex only keeps concurrent reads and writes memory-safe. It does not
// serialize operations: two mutations issued together interleave their round trips.
type State struct {
	mu       sync.Mutex
	items    []model.Lesson
	selected int
	input    string
}

// NewState returns a state holding a copy of items with nothing selected.
func NewState(items []model.Lesson) *State {
	return &State{
		items:    append([]model.Lesson(nil), items...),
		selected: NoSelection,
	}
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Items:    append([]model.Lesson(nil), s.items...),
		Selected: s.selected,
		Input:    s.input,
	}
}

// Select points the selection at i. Out-of-range values clear it instead.
func (s *State) Select(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.items) {
		s.selected = NoSelection
		return
	}
	s.selected = i
}

func (s *State) ClearSelection() {
	s.mu.Lock()
	s.selected = NoSelection
	s.mu.Unlock()
}

// Selected returns the selected index, if any. The index is returned as stored,
// even when a reload has since shortened the list.
func (s *State) Selected() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.selected != NoSelection
}

// SelectedLesson returns the lesson under the selection when it still exists.
func (s *State) SelectedLesson() (model.Lesson, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected < 0 || s.selected >= len(s.items) {
		return model.Lesson{}, false
	}
	return s.items[s.selected], true
}

func (s *State) SetInput(v string) {
	s.mu.Lock()
	s.input = v
	s.mu.Unlock()
}

func (s *State) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// BeginEdit pre-fills the input with the selected title.
func (s *State) BeginEdit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected < 0 || s.selected >= len(s.items) {
		return false
	}
	s.input = s.items[s.selected].Title
	return true
}

func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *State) replaceItems(items []model.Lesson) {
	s.mu.Lock()
	s.items = append([]model.Lesson(nil), items...)
	s.mu.Unlock()
}
