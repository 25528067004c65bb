package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lessons-cli/internal/api"
	"lessons-cli/internal/logging"
	"lessons-cli/internal/model"
	"lessons-cli/internal/store"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	srv, err := api.NewServer(st, logging.Nop())
	if err != nil {
		t.Fatalf("api.NewServer: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = st.Close()
	})
	return ts
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	c, err := New(baseURL, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func titles(ls []model.Lesson) string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Title)
	}
	return strings.Join(out, ",")
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "localhost:3000", "ftp://host", "http://"} {
		if _, err := New(in); err == nil {
			t.Errorf("New(%q) should fail", in)
		}
	}
	c := newTestClient(t, " http://localhost:3000/ ")
	if got := c.BaseURL(); got != "http://localhost:3000" {
		t.Fatalf("BaseURL() = %q", got)
	}
}

func TestClient_RoundTrip(t *testing.T) {
	t.Parallel()
	ts := newAPIServer(t)
	c := newTestClient(t, ts.URL)
	ctx := context.Background()

	if err := c.Health(ctx); err != nil {
		t.Fatalf("Health: %v", err)
	}
	ls, err := c.List(ctx)
	if err != nil || ls == nil || len(ls) != 0 {
		t.Fatalf("List on empty = %#v, %v", ls, err)
	}

	a, err := c.Create(ctx, "A")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, _ := c.Create(ctx, "B")
	if _, err := c.Create(ctx, "C"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := c.Update(ctx, b.ID, "B2"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := c.Reorder(ctx, 2, 0); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if err := c.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	ls, err = c.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := titles(ls); got != "C,B2" {
		t.Fatalf("titles = %s, want C,B2", got)
	}
	got, err := c.Get(ctx, b.ID)
	if err != nil || got.Title != "B2" {
		t.Fatalf("Get = %+v, %v", got, err)
	}
}

func TestClient_StatusErrors(t *testing.T) {
	t.Parallel()
	ts := newAPIServer(t)
	c := newTestClient(t, ts.URL)
	ctx := context.Background()

	_, err := c.Update(ctx, "lesson-zzzzzzzz", "x")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %T %v", err, err)
	}
	if se.Code != http.StatusNotFound || se.Method != http.MethodPut || se.Path != "/lessons/lesson-zzzzzzzz" {
		t.Fatalf("unexpected status error %+v", se)
	}
	if !strings.Contains(se.Message, "lesson-zzzzzzzz") || !IsNotFound(err) {
		t.Fatalf("message = %q", se.Message)
	}

	_, err = c.Create(ctx, "  ")
	if !errors.As(err, &se) || se.Code != http.StatusBadRequest {
		t.Fatalf("empty title err = %v", err)
	}
	if err := c.Reorder(ctx, 0, 1); !errors.As(err, &se) || se.Code != http.StatusBadRequest {
		t.Fatalf("reorder on empty list err = %v", err)
	}
}

func TestClient_MalformedJSON(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": `))
	}))
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).List(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("expected decode error, got %v", err)
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Fatal("decode failure must not look like a status error")
	}
}

func TestClient_PlainTextErrorBody(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer ts.Close()

	err := newTestClient(t, ts.URL).Delete(context.Background(), "x")
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusBadGateway || se.Message != "upstream unavailable" {
		t.Fatalf("err = %#v", err)
	}
}

func TestClient_Timeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	c := newTestClient(t, ts.URL, WithTimeout(50*time.Millisecond))
	start := time.Now()
	if _, err := c.List(context.Background()); err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("timeout not applied")
	}
}

func TestClient_TransportError(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := newTestClient(t, url).List(context.Background())
	if err == nil {
		t.Fatal("expected error against closed server")
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Fatalf("transport failure reported as status error: %v", err)
	}
}

func TestSubscribe_DeliversChangesAndClosesOnCancel(t *testing.T) {
	t.Parallel()
	ts := newAPIServer(t)
	c := newTestClient(t, ts.URL)

	ctx, cancel := context.WithCancel(context.Background())
	changes, err := c.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if _, err := c.Create(context.Background(), "A"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	select {
	case ch := <-changes:
		if ch.Type != "changed" || ch.Version != 1 {
			t.Fatalf("change = %+v", ch)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change received")
	}

	cancel()
	select {
	case _, ok := <-changes:
		if ok {
			// A buffered change may still be in flight; the next receive must close.
			if _, ok := <-changes; ok {
				t.Fatal("channel not closed after cancel")
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
