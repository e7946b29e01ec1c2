package web

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rustyeddy/papertrade/market"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS policy for the API is wide open already; the stream matches.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type tick struct {
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	Time   time.Time `json:"time"`
}

// handleStream pushes one simulated price tick per second over a
// websocket until the client goes away. Each tick advances the shared
// random walk, so stream watchers and poll clients see the same series.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	if !market.Valid(symbol) {
		s.writeError(w, http.StatusBadRequest, "Invalid symbol")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("websocket upgrade")
		return
	}
	defer conn.Close()

	// Drain client frames so pings and close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		t := tick{
			Symbol: symbol,
			Price:  s.sim.CurrentPrice(symbol),
			Time:   time.Now().UTC(),
		}
		if err := conn.WriteJSON(t); err != nil {
			return
		}
	}
}
