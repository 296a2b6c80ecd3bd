package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// NewMux wires the hub's HTTP surface: health, diagnostics, seat claiming,
// and the WebSocket session endpoint.
func NewMux(hub *Hub) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w http.ResponseWriter, r *http.Request) {
		payload := struct {
			Status     string              `json:"status"`
			ServerTime int64               `json:"serverTime"`
			Players    []diagnosticsPlayer `json:"players"`
			TickRate   int                 `json:"tickRate"`
			Heartbeat  int64               `json:"heartbeatMillis"`
			Telemetry  telemetrySnapshot   `json:"telemetry"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			Players:    hub.DiagnosticsSnapshot(),
			TickRate:   tickRate,
			Heartbeat:  heartbeatInterval.Milliseconds(),
			Telemetry:  hub.TelemetrySnapshot(),
		}

		data, err := json.Marshal(payload)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/join", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		join, err := hub.Join()
		if errors.Is(err, ErrMatchFull) {
			http.Error(w, "match is full", http.StatusConflict)
			return
		}
		if err != nil {
			http.Error(w, "join failed", http.StatusInternalServerError)
			return
		}

		data, err := json.Marshal(join)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		playerID := r.URL.Query().Get("id")
		if playerID == "" {
			http.Error(w, "missing id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade failed for %s: %v", playerID, err)
			return
		}

		sub, ok := hub.Subscribe(playerID, conn)
		if !ok {
			message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unknown player")
			conn.WriteMessage(websocket.CloseMessage, message)
			conn.Close()
			return
		}

		serveSession(hub, sub, playerID, conn)
	})

	return mux
}

// serveSession pumps a single client connection until it drops.
func serveSession(hub *Hub, sub *subscriber, playerID string, conn *websocket.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			hub.Disconnect(playerID)
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Printf("discarding malformed message from %s: %v", playerID, err)
			continue
		}

		switch msg.Type {
		case "input":
			if !hub.SetKey(playerID, msg.Action, msg.Down) {
				log.Printf("input ignored for %s: action %q", playerID, msg.Action)
			}
		case "restart":
			if !hub.Restart(playerID) {
				log.Printf("restart ignored for unknown player %s", playerID)
			}
		case "heartbeat":
			now := time.Now()
			rtt, ok := hub.UpdateHeartbeat(playerID, now, msg.SentAt)
			if !ok {
				continue
			}

			ack := heartbeatMessage{
				Ver:        ProtocolVersion,
				Type:       "heartbeat",
				ServerTime: now.UnixMilli(),
				ClientTime: msg.SentAt,
				RTTMillis:  rtt.Milliseconds(),
			}

			data, err := json.Marshal(ack)
			if err != nil {
				log.Printf("failed to marshal heartbeat ack for %s: %v", playerID, err)
				continue
			}

			sub.mu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				sub.mu.Unlock()
				hub.Disconnect(playerID)
				return
			}
			sub.mu.Unlock()
		default:
			log.Printf("unknown message type %q from %s", msg.Type, playerID)
		}
	}
}
