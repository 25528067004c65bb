// Package api serves the lessons REST interface plus live change feeds.
package api

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"sync/atomic"

	"lessons-cli/internal/logging"
	"lessons-cli/internal/model"
)

//go:embed templates/*.html
var assetsFS embed.FS

// Store is the persistence the server fronts.
type Store interface {
	List(ctx context.Context) ([]model.Lesson, error)
	Get(ctx context.Context, id string) (model.Lesson, error)
	Create(ctx context.Context, title string) (model.Lesson, error)
	Update(ctx context.Context, id, title string) (model.Lesson, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, oldIndex, newIndex int) error
}

type Server struct {
	store Store
	log   *logging.Logger
	tmpl  *template.Template

	hub     *changeHub
	version atomic.Int64
}

func NewServer(st Store, log *logging.Logger) (*Server, error) {
	if st == nil {
		return nil, errors.New("api: store is nil")
	}
	if log == nil {
		log = logging.Nop()
	}
	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim": strings.TrimSpace,
		"inc":  func(i int) int { return i + 1 },
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		store: st,
		log:   log.WithComponent("api"),
		tmpl:  tmpl,
		hub:   newChangeHub(),
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /lessons", s.handleList)
	mux.HandleFunc("POST /lessons", s.handleCreate)
	mux.HandleFunc("PUT /lessons/reorder", s.handleReorder)
	mux.HandleFunc("GET /lessons/events", s.handleEvents)
	mux.HandleFunc("GET /lessons/stream", s.handleStream)
	mux.HandleFunc("GET /lessons/{id}", s.handleGet)
	mux.HandleFunc("PUT /lessons/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /lessons/{id}", s.handleDelete)
	mux.HandleFunc("GET /{$}", s.handleHome)
	return s.withRequestLogging(mux)
}

// Version counts successful mutations since the server started.
func (s *Server) Version() int64 { return s.version.Load() }

// changed records a mutation and wakes every subscriber.
func (s *Server) changed() {
	v := s.version.Add(1)
	s.log.Debug("lessons changed", "version", v)
	s.hub.broadcast()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
