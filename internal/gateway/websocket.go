package gateway

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWS mirrors the reference server's behavior: greet on connect, then
// treat the first (and every) text message received as a symbol and push
// a live order-count line once a second until the connection drops.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("Connected to WebSocket. Please send a symbol.")); err != nil {
		conn.Close()
		return
	}

	connTomb, _ := tomb.WithContext(r.Context())
	defer func() {
		connTomb.Kill(nil)
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		symbol := string(msg)
		connTomb.Go(func() error {
			return s.pushOrderCount(connTomb, conn, symbol)
		})
	}
}

func (s *Server) pushOrderCount(t *tomb.Tomb, conn *websocket.Conn, symbol string) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-t.Dying():
			return nil
		case <-ticker.C:
			count := s.engine.Count(symbol)
			text := fmt.Sprintf("Live %s Order Count: %d", symbol, count)
			if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
				t.Kill(err)
				return err
			}
		}
	}
}
