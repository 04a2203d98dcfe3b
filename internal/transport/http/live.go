package http

import (
	"log"
	"net/http"

	"challenge-quiz-service/internal/app"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// LiveHandler streams leaderboard snapshots for a problem over a
// websocket. Each stored submission triggers a fresh snapshot.
type LiveHandler struct {
	service  *app.EvaluationService
	hub      *app.StandingsHub
	upgrader websocket.Upgrader
}

func NewLiveHandler(service *app.EvaluationService, hub *app.StandingsHub) *LiveHandler {
	return &LiveHandler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *LiveHandler) ServeLive(w http.ResponseWriter, r *http.Request) {
	problemID := chi.URLParam(r, "problemID")
	if problemID == "" {
		http.Error(w, "missing problem id", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.hub.Subscribe(problemID)
	defer cancel()

	// Current scoreboard first so clients don't wait for the next submission.
	if initial, err := h.service.Standings(r.Context(), problemID, "", 0); err == nil {
		if err := conn.WriteJSON(initial); err != nil {
			return
		}
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case standings, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(standings); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-closed:
			return
		}
	}
}
