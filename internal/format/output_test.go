package format

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type lesson struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Rank      string    `json:"rank,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type envelope struct {
	Data any `json:"data"`
}

func sample() envelope {
	return envelope{Data: []lesson{
		{ID: "lesson-aaaa2222", Title: "Intro", CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{ID: "lesson-bbbb3333", Title: `Say "hi"`, Rank: "h"},
	}}
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"data": []int{1, 2}}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got, want := buf.String(), "{\"data\":[1,2]}\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	buf.Reset()
	if err := Write(&buf, map[string]any{"data": 1}, "json", true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got, want := buf.String(), "{\n  \"data\": 1\n}\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWrite_EDN(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, sample(), "edn", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `{:data [{:createdAt "2026-01-02T03:04:05Z" :id "lesson-aaaa2222" :title "Intro"} ` +
		`{:createdAt "0001-01-01T00:00:00Z" :id "lesson-bbbb3333" :rank "h" :title "Say \"hi\""}]}` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestWrite_EDNPrettyAndScalars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := map[string]any{"n": 3, "f": 1.5, "ok": true, "none": nil, "empty": []any{}, "m": map[string]any{}}
	if err := WriteEDN(&buf, v, true); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	want := "{\n  :empty []\n  :f 1.5\n  :m {}\n  :n 3\n  :none nil\n  :ok true\n}\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestWrite_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, sample(), "yaml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"data:", "createdAt:", "id: lesson-aaaa2222", "title: Intro", "rank: h"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Write(&bytes.Buffer{}, 1, "xml", false); err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
	if Valid("xml") || !Valid("") || !Valid("YAML") {
		t.Fatal("Valid disagrees with Write")
	}
}
