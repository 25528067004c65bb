package store

import (
	"strings"
	"testing"
)

func TestNewRandomID_LessonShape(t *testing.T) {
	id, err := newRandomID(lessonIDPrefix)
	if err != nil {
		t.Fatalf("newRandomID: %v", err)
	}
	if !strings.HasPrefix(id, "lesson-") {
		t.Fatalf("expected lesson prefix, got %q", id)
	}
	if got, want := len(strings.TrimPrefix(id, "lesson-")), 8; got != want {
		t.Fatalf("suffix len = %d, want %d (%q)", got, want, id)
	}
	if !IsLessonID(id) {
		t.Fatalf("IsLessonID(%q) = false", id)
	}
}

func TestIsLessonID(t *testing.T) {
	tests := map[string]bool{
		"lesson-abcd2345":   true,
		" lesson-abcd2345 ": true,
		"lesson-ABCD2345":   false,
		"lesson-abcd234":    false,
		"lesson-abcd2341":   false,
		"item-abcd2345":     false,
		"list":              false,
	}
	for in, want := range tests {
		if got := IsLessonID(in); got != want {
			t.Errorf("IsLessonID(%q) = %v, want %v", in, got, want)
		}
	}
}
