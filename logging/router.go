package logging

import (
	"context"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Sink receives routed events. Implementations must tolerate concurrent Close.
type Sink interface {
	Write(Event) error
	Close(context.Context) error
}

// Router fans published events out to the enabled sinks through a buffered
// queue. Publish never blocks the simulation loop; when the queue is full the
// event is dropped and counted.
type Router struct {
	cfg      Config
	queue    chan Event
	sinks    []namedSink
	clock    Clock
	fallback *log.Logger
	done     chan struct{}
	closed   atomic.Bool
	wg       sync.WaitGroup

	eventsTotal  atomic.Uint64
	droppedTotal atomic.Uint64
	lastDropWarn atomic.Int64
}

type namedSink struct {
	name string
	sink Sink
}

type RouterStats struct {
	EventsTotal  uint64
	DroppedTotal uint64
}

func NewRouter(cfg Config, clock Clock, fallback *log.Logger, sinks map[string]Sink) (*Router, error) {
	if clock == nil {
		clock = SystemClock{}
	}
	if fallback == nil {
		fallback = log.New(os.Stderr, "[logging] ", log.LstdFlags)
	}
	bufferSize := cfg.BufferSize
	if bufferSize <= 0 {
		bufferSize = 512
	}

	r := &Router{
		cfg:      cfg,
		queue:    make(chan Event, bufferSize),
		clock:    clock,
		fallback: fallback,
		done:     make(chan struct{}),
	}
	for _, name := range cfg.EnabledSinks {
		sink, ok := sinks[name]
		if !ok || sink == nil {
			continue
		}
		r.sinks = append(r.sinks, namedSink{name: name, sink: sink})
	}

	r.wg.Add(1)
	go r.dispatch()
	return r, nil
}

// Publish enqueues an event for delivery. Implements Publisher.
func (r *Router) Publish(_ context.Context, event Event) {
	if r == nil || r.closed.Load() {
		return
	}
	if event.Severity < r.cfg.MinimumSeverity {
		return
	}
	if event.Time.IsZero() {
		event.Time = r.clock.Now()
	}
	select {
	case r.queue <- event:
		r.eventsTotal.Add(1)
	default:
		r.droppedTotal.Add(1)
		r.warnDropped()
	}
}

func (r *Router) warnDropped() {
	interval := r.cfg.DropWarnInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	now := r.clock.Now().UnixNano()
	last := r.lastDropWarn.Load()
	if now-last < interval.Nanoseconds() {
		return
	}
	if r.lastDropWarn.CompareAndSwap(last, now) {
		r.fallback.Printf("event queue full, dropped %d events total", r.droppedTotal.Load())
	}
}

func (r *Router) dispatch() {
	defer r.wg.Done()
	for {
		select {
		case <-r.done:
			for {
				select {
				case event := <-r.queue:
					r.forward(event)
				default:
					return
				}
			}
		case event := <-r.queue:
			r.forward(event)
		}
	}
}

func (r *Router) forward(event Event) {
	for _, named := range r.sinks {
		if err := named.sink.Write(event); err != nil {
			r.fallback.Printf("sink %s rejected event %s: %v", named.name, event.Type, err)
		}
	}
}

// Close drains the queue and closes every sink.
func (r *Router) Close(ctx context.Context) error {
	if r == nil || !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(r.done)
	r.wg.Wait()

	var firstErr error
	for _, named := range r.sinks {
		if err := named.sink.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Router) Stats() RouterStats {
	return RouterStats{
		EventsTotal:  r.eventsTotal.Load(),
		DroppedTotal: r.droppedTotal.Load(),
	}
}
