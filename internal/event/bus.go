package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Type string

const (
	TypeSocialLogin Type = "auth.social_login"
)

type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

type Handler interface {
	Handle(ctx context.Context, event Event) error
	CanHandle(eventType Type) bool
}

// Publisher is what producers depend on.
type Publisher interface {
	Publish(eventType Type, payload any) error
}

// Bus dispatches events to subscribed handlers on a background goroutine.
// Publishing never blocks; when the buffer is full the event is dropped.
type Bus struct {
	handlers   []Handler
	eventChan  chan Event
	done       chan struct{}
	mu         sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
	bufferSize int
	startOnce  sync.Once
}

func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Bus{
		eventChan:  make(chan Event, bufferSize),
		done:       make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
		bufferSize: bufferSize,
	}
}

func (bus *Bus) Publish(eventType Type, payload any) error {
	event := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}

	select {
	case <-bus.ctx.Done():
		return fmt.Errorf("event bus is stopped")
	default:
	}

	select {
	case bus.eventChan <- event:
		log.Debug().
			Str("event_id", event.ID).
			Str("event_type", string(event.Type)).
			Msg("Event published")
		return nil
	default:
		return fmt.Errorf("event channel is full, dropping event %s", event.ID)
	}
}

func (bus *Bus) Subscribe(handler Handler) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	bus.handlers = append(bus.handlers, handler)
	log.Debug().
		Str("handler_type", fmt.Sprintf("%T", handler)).
		Int("total_handlers", len(bus.handlers)).
		Msg("Event handler subscribed")
}

func (bus *Bus) Start() {
	bus.startOnce.Do(func() {
		log.Info().Int("buffer_size", bus.bufferSize).Msg("Starting event bus")
		go bus.processEvents()
	})
}

// Stop cancels the bus and waits for queued events to be handled.
func (bus *Bus) Stop(timeout time.Duration) error {
	bus.cancel()
	bus.Start()

	select {
	case <-bus.done:
		log.Info().Msg("Event bus stopped")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("timeout waiting for event bus to stop")
	}
}

func (bus *Bus) processEvents() {
	defer close(bus.done)

	for {
		select {
		case event := <-bus.eventChan:
			bus.handleEvent(event)
		case <-bus.ctx.Done():
			for {
				select {
				case event := <-bus.eventChan:
					bus.handleEvent(event)
				default:
					return
				}
			}
		}
	}
}

func (bus *Bus) handleEvent(event Event) {
	bus.mu.RLock()
	handlers := make([]Handler, len(bus.handlers))
	copy(handlers, bus.handlers)
	bus.mu.RUnlock()

	for _, h := range handlers {
		if !h.CanHandle(event.Type) {
			continue
		}
		bus.dispatch(h, event)
	}
}

func (bus *Bus) dispatch(h Handler, event Event) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("event_id", event.ID).
				Str("handler_type", fmt.Sprintf("%T", h)).
				Msg("Event handler panicked")
		}
	}()

	if err := h.Handle(context.Background(), event); err != nil {
		log.Error().
			Err(err).
			Str("event_id", event.ID).
			Str("event_type", string(event.Type)).
			Str("handler_type", fmt.Sprintf("%T", h)).
			Msg("Error handling event")
		return
	}
	log.Debug().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Str("handler_type", fmt.Sprintf("%T", h)).
		Dur("duration", time.Since(start)).
		Msg("Event handled successfully")
}
