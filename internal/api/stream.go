package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lessons-cli/internal/model"

	"github.com/starfederation/datastar-go/datastar"
)

const (
	datastarScriptURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"
	lessonsSelector   = "#lessons"
	streamKeepAlive   = 25 * time.Second
)

type pageVM struct {
	DatastarURL string
	StreamURL   string
	Lessons     []model.Lesson
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) renderLessons(ctx context.Context) (string, error) {
	lessons, err := s.store.List(ctx)
	if err != nil {
		return "", err
	}
	return s.renderTemplate("lessons", pageVM{Lessons: lessons})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	lessons, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	html, err := s.renderTemplate("page", pageVM{
		DatastarURL: datastarScriptURL,
		StreamURL:   "/lessons/stream",
		Lessons:     lessons,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

// handleStream keeps an SSE connection open and re-renders #lessons after
// every change.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	ch, cancel := s.hub.subscribe()
	defer cancel()

	sse := datastar.NewSSE(w, r)
	patch := func() {
		html, err := s.renderLessons(sse.Context())
		if err != nil {
			s.log.Error("render lessons", "err", err)
			_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
			return
		}
		_ = sse.PatchElements(html, datastar.WithSelector(lessonsSelector), datastar.WithMode(datastar.ElementPatchModeOuter))
		_ = sse.MarshalAndPatchSignals(map[string]any{"version": s.Version()})
	}
	patch()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			patch()
		}
	}
}
