package main

import (
	"net/http"
	"time"

	"genquiz"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleWS streams status changes, countdown ticks and answers to the page
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	v := s.visitorFor(w, r)

	// subscribed before the handshake completes so no event slips between the two
	events := v.subscribe()
	defer v.unsubscribe(events)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		genquiz.Log().WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	closed := make(chan struct{})
	go readPump(conn, closed)
	writePump(conn, events, closed)
}

// readPump discards client messages and reports when the connection goes away
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				genquiz.VerboseLog("WebSocket read error: %v", err)
			}
			return
		}
	}
}

func writePump(conn *websocket.Conn, events <-chan event, closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case <-closed:
			return
		case e := <-events:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(e); err != nil {
				genquiz.VerboseLog("WebSocket write error: %v", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
