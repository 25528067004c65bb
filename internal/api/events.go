package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const (
	wsPingInterval = 25 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// ChangeEvent is pushed to /lessons/events subscribers after each mutation.
type ChangeEvent struct {
	Type    string `json:"type"`
	Version int64  `json:"version"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			return true
		}
		return strings.Contains(origin, "://"+strings.TrimSpace(r.Host))
	},
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the handshake completes so no change slips between
	// the client's dial returning and the first read.
	ch, cancel := s.hub.subscribe()
	defer cancel()

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		s.log.Debug("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	// The request context survives the hijack and is cancelled with the
	// server's base context.
	ctx, stop := context.WithCancel(r.Context())
	defer stop()

	// Reading is required to process pings and notice the peer closing.
	go func() {
		defer stop()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		case <-ch:
			b, err := json.Marshal(ChangeEvent{Type: "changed", Version: s.Version()})
			if err != nil {
				s.log.Error("encode change event", "err", err)
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		}
	}
}
