package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hersh/blockfall/internal/protocol"
)

// Handler serves the websocket endpoint and the JSON status routes.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	mux.HandleFunc("/sessions", h.serveSessions)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.cfg.logger().Warn("upgrade", "err", err)
		return
	}

	c := newConn(ws, h.cfg.logger().With("remote", r.RemoteAddr))
	go c.writePump()

	s := h.Open(r.URL.Query().Get("name"), c.send)
	c.log = c.log.With("session", s.ID)

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)

	// Blocks until the client goes away.
	c.readPump(h, s)

	cancel()
	<-s.Done()
	h.Close(s.ID)
	c.close()
}

func (h *Hub) serveSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, protocol.ErrorResponse{Error: "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, protocol.ListSessionsResponse{
		Sessions: h.List(),
		Count:    h.roster.Count(),
		Alive:    h.roster.CountAlive(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
