// Package match provides typed helpers for publishing match lifecycle and
// gameplay events.
package match

import (
	"context"

	"marble-run/server/logging"
)

const (
	// EventPlayerSpawned is emitted when a ball is placed on the start pad.
	EventPlayerSpawned logging.EventType = "match.player_spawned"
	// EventPlayerJoined is emitted when a client claims a player slot.
	EventPlayerJoined logging.EventType = "match.player_joined"
	// EventPlayerLeft is emitted when a seat is released, voluntarily or by
	// heartbeat timeout.
	EventPlayerLeft logging.EventType = "match.player_left"
	// EventPlatformReached is emitted the first time a player lands on a
	// platform index.
	EventPlatformReached logging.EventType = "match.platform_reached"
	// EventCheckpointCrossed is emitted once per checkpoint index crossed.
	EventCheckpointCrossed logging.EventType = "match.checkpoint_crossed"
	// EventPlayerFell is emitted when a ball drops below the death plane.
	EventPlayerFell logging.EventType = "match.player_fell"
	// EventMatchEnded is emitted exactly once when a versus match resolves.
	EventMatchEnded logging.EventType = "match.ended"
	// EventMatchReset is emitted when the world is restored to spawn state.
	EventMatchReset logging.EventType = "match.reset"
)

// SpawnPayload records where a ball entered the level.
type SpawnPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func PlayerSpawned(ctx context.Context, pub logging.Publisher, tick uint64, playerID string, payload SpawnPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerSpawned,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

// SeatPayload records which slot a lifecycle transition concerns.
type SeatPayload struct {
	PlayerIndex int    `json:"playerIndex"`
	Cause       string `json:"cause,omitempty"`
}

func PlayerJoined(ctx context.Context, pub logging.Publisher, tick uint64, playerID string, payload SeatPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerJoined,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

func PlayerLeft(ctx context.Context, pub logging.Publisher, tick uint64, playerID string, payload SeatPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerLeft,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

// PlatformReachedPayload records a first-touch platform award.
type PlatformReachedPayload struct {
	PlatformIndex int `json:"platformIndex"`
	Points        int `json:"points"`
	Score         int `json:"score"`
}

func PlatformReached(ctx context.Context, pub logging.Publisher, tick uint64, playerID string, payload PlatformReachedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlatformReached,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

// CheckpointCrossedPayload records a checkpoint bonus.
type CheckpointCrossedPayload struct {
	CheckpointIndex int `json:"checkpointIndex"`
	Score           int `json:"score"`
}

func CheckpointCrossed(ctx context.Context, pub logging.Publisher, tick uint64, playerID string, payload CheckpointCrossedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCheckpointCrossed,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

// PlayerFellPayload records a death transition.
type PlayerFellPayload struct {
	Score int     `json:"score"`
	Y     float64 `json:"y"`
}

func PlayerFell(ctx context.Context, pub logging.Publisher, tick uint64, playerID string, payload PlayerFellPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerFell,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

// EndedPayload records the adjudicated outcome of a versus match.
type EndedPayload struct {
	Winner int    `json:"winner"`
	Reason string `json:"reason"`
	Score1 int    `json:"score1"`
	Score2 int    `json:"score2"`
}

func Ended(ctx context.Context, pub logging.Publisher, tick uint64, payload EndedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMatchEnded,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindMatch},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

func Reset(ctx context.Context, pub logging.Publisher, tick uint64) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMatchReset,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindMatch},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
	})
}
