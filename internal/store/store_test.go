package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"lessons-cli/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "lessons.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustCreate(t *testing.T, s *Store, titles ...string) []model.Lesson {
	t.Helper()
	out := make([]model.Lesson, 0, len(titles))
	for _, title := range titles {
		l, err := s.Create(context.Background(), title)
		if err != nil {
			t.Fatalf("Create(%q): %v", title, err)
		}
		out = append(out, l)
	}
	return out
}

func listTitles(t *testing.T, s *Store) []string {
	t.Helper()
	ls, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Title)
	}
	return out
}

func TestStore_CreateAppendsInOrder(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	created := mustCreate(t, s, "Intro", "  Loops ", "Closures")
	if got := listTitles(t, s); !sameIDs(got, []string{"Intro", "Loops", "Closures"}) {
		t.Fatalf("titles = %v", got)
	}
	if !IsLessonID(created[0].ID) {
		t.Fatalf("unexpected id %q", created[0].ID)
	}
	if created[0].Rank >= created[1].Rank || created[1].Rank >= created[2].Rank {
		t.Fatalf("ranks not increasing: %q %q %q", created[0].Rank, created[1].Rank, created[2].Rank)
	}
}

func TestStore_EmptyListIsNotNil(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	ls, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if ls == nil || len(ls) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", ls)
	}
}

func TestStore_RejectsEmptyTitle(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, "   "); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("Create err = %v, want ErrEmptyTitle", err)
	}
	l := mustCreate(t, s, "A")[0]
	if _, err := s.Update(ctx, l.ID, ""); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("Update err = %v, want ErrEmptyTitle", err)
	}
}

func TestStore_UpdateAndGet(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	l := mustCreate(t, s, "A", "B")[1]
	s.now = func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }

	got, err := s.Update(ctx, l.ID, " B2 ")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "B2" || got.ID != l.ID || got.Rank != l.Rank {
		t.Fatalf("unexpected updated lesson %+v", got)
	}
	if !got.UpdatedAt.Equal(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("updatedAt = %v", got.UpdatedAt)
	}
	if again, err := s.Get(ctx, l.ID); err != nil || again.Title != "B2" {
		t.Fatalf("Get = %+v, %v", again, err)
	}
}

func TestStore_NotFound(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "lesson-missing0")
	var nf NotFoundError
	if !errors.As(err, &nf) || nf.ID != "lesson-missing0" || nf.Kind != "lesson" {
		t.Fatalf("Get err = %v, want NotFoundError", err)
	}
	if _, err := s.Update(ctx, "nope", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete err = %v, want ErrNotFound", err)
	}
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	ls := mustCreate(t, s, "A", "B", "C")
	if err := s.Delete(context.Background(), ls[1].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := listTitles(t, s); !sameIDs(got, []string{"A", "C"}) {
		t.Fatalf("titles = %v, want [A C]", got)
	}
}

func TestStore_Reorder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{name: "up", from: 1, to: 0, want: []string{"B", "A", "C", "D"}},
		{name: "down", from: 1, to: 2, want: []string{"A", "C", "B", "D"}},
		{name: "first to last", from: 0, to: 3, want: []string{"B", "C", "D", "A"}},
		{name: "last to first", from: 3, to: 0, want: []string{"D", "A", "B", "C"}},
		{name: "same", from: 2, to: 2, want: []string{"A", "B", "C", "D"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := openTestStore(t)
			mustCreate(t, s, "A", "B", "C", "D")

			if err := s.Reorder(context.Background(), tt.from, tt.to); err != nil {
				t.Fatalf("Reorder: %v", err)
			}
			if got := listTitles(t, s); !sameIDs(got, tt.want) {
				t.Fatalf("titles = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStore_ReorderOutOfRange(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	mustCreate(t, s, "A", "B")

	for _, idx := range [][2]int{{-1, 0}, {0, 2}, {5, 0}} {
		if err := s.Reorder(context.Background(), idx[0], idx[1]); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Reorder(%d, %d) err = %v, want ErrIndexOutOfRange", idx[0], idx[1], err)
		}
	}
	if got := listTitles(t, s); !sameIDs(got, []string{"A", "B"}) {
		t.Fatalf("titles changed: %v", got)
	}
}

func TestStore_RepeatedSwapsKeepOrder(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, "A", "B", "C")

	// Bouncing one lesson back and forth keeps halving the same gap.
	for i := 0; i < 60; i++ {
		if err := s.Reorder(ctx, 1, 0); err != nil {
			t.Fatalf("swap %d: %v", i, err)
		}
	}
	if got := listTitles(t, s); !sameIDs(got, []string{"A", "B", "C"}) {
		t.Fatalf("titles = %v, want [A B C] after an even number of swaps", got)
	}
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "lessons.sqlite")
	ctx := context.Background()

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	mustCreate(t, s, "A", "B")
	if err := s.Reorder(ctx, 1, 0); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if got := listTitles(t, s2); !sameIDs(got, []string{"B", "A"}) {
		t.Fatalf("titles = %v, want [B A]", got)
	}
}

func TestOpen_InMemory(t *testing.T) {
	t.Parallel()
	s, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	mustCreate(t, s, "A")
	if got := listTitles(t, s); !sameIDs(got, []string{"A"}) {
		t.Fatalf("titles = %v", got)
	}
}

func TestStore_CorruptRankIsReported(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)
	mustCreate(t, s, "A")

	if _, err := s.db.ExecContext(ctx, `UPDATE lessons SET rank = 'm!'`); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create(ctx, "B"); !errors.Is(err, errRankCharacter) {
		t.Fatalf("Create after corrupt rank err = %v, want invalid rank character", err)
	}
	if got := listTitles(t, s); len(got) != 1 {
		t.Fatalf("failed create must not insert, got %v", got)
	}
}
