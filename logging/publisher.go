package logging

import (
	"context"
	"time"
)

type EventType string

type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

type EntityKind string

const (
	EntityKindUnknown  EntityKind = "unknown"
	EntityKindPlayer   EntityKind = "player"
	EntityKindPlatform EntityKind = "platform"
	EntityKindObstacle EntityKind = "obstacle"
	EntityKindMatch    EntityKind = "match"
	EntityKindWorld    EntityKind = "world"
)

type Event struct {
	Type     EventType      `json:"type"`
	Tick     uint64         `json:"tick"`
	Time     time.Time      `json:"time"`
	Actor    EntityRef      `json:"actor"`
	Severity Severity       `json:"severity"`
	Category string         `json:"category,omitempty"`
	Payload  any            `json:"payload,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

type EntityRef struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
}

const (
	CategoryGameplay  = "gameplay"
	CategoryLifecycle = "lifecycle"
	CategorySystem    = "system"
)

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	if f == nil {
		return
	}
	f(ctx, event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

// NopPublisher returns a publisher that discards every event.
func NopPublisher() Publisher {
	return nopPublisher{}
}
