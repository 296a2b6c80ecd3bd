package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"marble-run/server/logging"
	matchlog "marble-run/server/logging/match"
)

// ErrMatchFull is returned when every player slot is claimed.
var ErrMatchFull = errors.New("match is full")

// Hub owns the world and all live client seats. The world itself is not
// locked; every access goes through the hub mutex.
type Hub struct {
	mu          sync.Mutex
	world       *World
	config      matchConfig
	publisher   logging.Publisher
	telemetry   *telemetryCounters
	seats       map[string]*seat
	subscribers map[string]*subscriber
}

// seat binds a connected client to one of the fixed player slots.
type seat struct {
	id            string
	index         int
	lastHeartbeat time.Time
	lastRTT       time.Duration
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewHub creates a hub simulating a fresh match for the given configuration.
func NewHub(cfg MatchConfig, publisher logging.Publisher) *Hub {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	normalized := cfg.internal().normalized()
	return &Hub{
		world:       NewWorld(normalized, publisher),
		config:      normalized,
		publisher:   publisher,
		telemetry:   newTelemetryCounters(),
		seats:       make(map[string]*seat),
		subscribers: make(map[string]*subscriber),
	}
}

// Join claims the lowest free player slot and returns the initial snapshot.
// The client ID doubles as the ball ID for the claimed slot.
func (h *Hub) Join() (joinResponse, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	index := -1
	taken := make(map[int]bool, len(h.seats))
	for _, s := range h.seats {
		taken[s.index] = true
	}
	for i := 0; i < h.world.PlayerCount(); i++ {
		if !taken[i] {
			index = i
			break
		}
	}
	if index < 0 {
		return joinResponse{}, ErrMatchFull
	}

	playerID := h.world.players[index].ID
	h.seats[playerID] = &seat{
		id:            playerID,
		index:         index,
		lastHeartbeat: time.Now(),
	}
	matchlog.PlayerJoined(context.Background(), h.publisher, h.world.currentTick, playerID, matchlog.SeatPayload{PlayerIndex: index})

	snap := h.world.Snapshot()
	return joinResponse{
		Ver:         ProtocolVersion,
		ID:          playerID,
		PlayerIndex: index,
		Balls:       snap.Balls,
		Platforms:   snap.Platforms,
		Obstacles:   snap.Obstacles,
		Config:      snap.Config,
	}, nil
}

// Subscribe associates a WebSocket connection with a seated client.
func (h *Hub) Subscribe(playerID string, conn *websocket.Conn) (*subscriber, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.seats[playerID]
	if !ok {
		return nil, false
	}
	s.lastHeartbeat = time.Now()

	if existing, ok := h.subscribers[playerID]; ok {
		existing.conn.Close()
	}

	sub := &subscriber{conn: conn}
	h.subscribers[playerID] = sub
	return sub, true
}

// Disconnect releases a seat and closes its connection. The ball stays in the
// simulation with all keys cleared; a later join reclaims the slot.
func (h *Hub) Disconnect(playerID string) {
	h.mu.Lock()
	sub, subOK := h.subscribers[playerID]
	if subOK {
		delete(h.subscribers, playerID)
	}
	if s, ok := h.seats[playerID]; ok {
		h.releaseSeatLocked(s, "disconnect")
	}
	h.mu.Unlock()

	if subOK {
		sub.conn.Close()
	}
}

func (h *Hub) releaseSeatLocked(s *seat, cause string) {
	for _, action := range []Action{ActionForward, ActionBack, ActionLeft, ActionRight, ActionJump} {
		h.world.SetKeyState(s.index, action, false)
	}
	delete(h.seats, s.id)
	matchlog.PlayerLeft(context.Background(), h.publisher, h.world.currentTick, s.id, matchlog.SeatPayload{PlayerIndex: s.index, Cause: cause})
}

// SetKey records a press or release for a seated client.
func (h *Hub) SetKey(playerID, action string, down bool) bool {
	parsed, ok := parseAction(action)
	if !ok {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.seats[playerID]
	if !ok {
		return false
	}
	return h.world.SetKeyState(s.index, parsed, down)
}

// Restart rebuilds the match from its seed. Any seated client may request it.
func (h *Hub) Restart(playerID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.seats[playerID]; !ok {
		return false
	}
	h.world.Reset()
	return true
}

// UpdateHeartbeat records the most recent heartbeat time and RTT for a client.
func (h *Hub) UpdateHeartbeat(playerID string, receivedAt time.Time, clientSent int64) (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.seats[playerID]
	if !ok {
		return 0, false
	}

	s.lastHeartbeat = receivedAt

	if clientSent > 0 {
		clientTime := time.UnixMilli(clientSent)
		if clientTime.Before(receivedAt.Add(5 * time.Second)) {
			rtt := receivedAt.Sub(clientTime)
			if rtt < 0 {
				rtt = 0
			}
			s.lastRTT = rtt
		}
	}

	return s.lastRTT, true
}

// advance runs a single simulation step and returns the snapshot plus any
// subscribers dropped for heartbeat timeout.
func (h *Hub) advance(now time.Time, dt float64) (Snapshot, []*subscriber) {
	h.mu.Lock()

	toClose := make([]*subscriber, 0)
	for id, s := range h.seats {
		if now.Sub(s.lastHeartbeat) > disconnectAfter {
			if sub, ok := h.subscribers[id]; ok {
				toClose = append(toClose, sub)
				delete(h.subscribers, id)
			}
			h.releaseSeatLocked(s, "heartbeat timeout")
			log.Printf("disconnecting %s due to heartbeat timeout", id)
		}
	}

	h.world.Advance(dt)
	snap := h.world.Snapshot()
	h.mu.Unlock()

	return snap, toClose
}

// RunSimulation drives the fixed-rate tick loop until the stop channel closes.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = 1.0 / float64(tickRate)
			}
			last = now

			tickStart := time.Now()
			snap, toClose := h.advance(now, dt)
			for _, sub := range toClose {
				sub.conn.Close()
			}
			h.broadcastState(snap)
			h.telemetry.RecordTickDuration(time.Since(tickStart))
		}
	}
}

// DiagnosticsSnapshot exposes heartbeat data for the diagnostics endpoint.
func (h *Hub) DiagnosticsSnapshot() []diagnosticsPlayer {
	h.mu.Lock()
	defer h.mu.Unlock()

	players := make([]diagnosticsPlayer, 0, len(h.seats))
	for _, s := range h.seats {
		players = append(players, diagnosticsPlayer{
			Ver:           ProtocolVersion,
			ID:            s.id,
			PlayerIndex:   s.index,
			LastHeartbeat: s.lastHeartbeat.UnixMilli(),
			RTTMillis:     s.lastRTT.Milliseconds(),
		})
	}
	return players
}

// TelemetrySnapshot exposes broadcast and tick counters.
func (h *Hub) TelemetrySnapshot() telemetrySnapshot {
	return h.telemetry.Snapshot()
}

// broadcastState sends the latest snapshot to every subscriber.
func (h *Hub) broadcastState(snap Snapshot) {
	msg := stateMessage{
		Ver:        ProtocolVersion,
		Type:       "state",
		Balls:      snap.Balls,
		Platforms:  snap.Platforms,
		Obstacles:  snap.Obstacles,
		Scores:     snap.Scores,
		Status:     snap.Status,
		Tick:       snap.Tick,
		ServerTime: time.Now().UnixMilli(),
		Config:     snap.Config,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("failed to marshal state message: %v", err)
		return
	}
	h.telemetry.RecordBroadcast(len(data), len(snap.Balls)+len(snap.Platforms)+len(snap.Obstacles))

	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		sub.mu.Lock()
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := sub.conn.WriteMessage(websocket.TextMessage, data)
		sub.mu.Unlock()
		if err != nil {
			log.Printf("failed to send update to %s: %v", id, err)
			h.Disconnect(id)
		}
	}
}
