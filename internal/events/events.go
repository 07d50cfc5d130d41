package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/AbbasAlizada1380/mellat/config"
	"github.com/AbbasAlizada1380/mellat/internal/database"
	"github.com/AbbasAlizada1380/mellat/internal/logger"

	"github.com/valkey-io/valkey-go"
)

const (
	VALKEY_CHANNEL    = "mellat:events"
	SUBSCRIBER_BUFFER = 64
)

type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel"`
	Action    string         `json:"action,omitempty"`
	UserID    uint           `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// EventBus fans events out to in-process subscribers. With a valkey client
// the fan-out goes through a pub/sub channel so every server instance sees
// every event.
type EventBus struct {
	client      database.CacheClient
	log         logger.Logger
	mu          sync.RWMutex
	subscribers map[int]chan Event
	nextID      int
	cancel      context.CancelFunc
	done        chan struct{}
	closeOnce   sync.Once
}

func New(client database.CacheClient, config config.Config) *EventBus {
	bus := &EventBus{
		client:      client,
		log:         logger.New("events"),
		subscribers: make(map[int]chan Event),
		done:        make(chan struct{}),
	}

	if client == nil {
		close(bus.done)
		return bus
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus.cancel = cancel
	go bus.receive(ctx)

	bus.log.Info("Event bus using valkey", "channel", VALKEY_CHANNEL, "env", config.AppEnv)
	return bus
}

func (b *EventBus) receive(ctx context.Context) {
	defer close(b.done)
	log := b.log.Function("receive")

	for {
		err := b.client.Receive(
			ctx,
			b.client.B().Subscribe().Channel(VALKEY_CHANNEL).Build(),
			func(msg valkey.PubSubMessage) {
				var event Event
				if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
					log.Er("failed to decode event", err, "payload", msg.Message)
					return
				}
				b.dispatch(event)
			},
		)
		if ctx.Err() != nil {
			return
		}
		log.Er("valkey subscription ended, retrying", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

// Publish delivers event on channel. Delivery is best effort: slow
// subscribers drop events rather than block writers.
func (b *EventBus) Publish(channel string, event Event) error {
	event.Channel = channel
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if b.client == nil {
		b.dispatch(event)
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return b.log.Function("Publish").Err("failed to encode event", err, "type", event.Type)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cmd := b.client.B().Publish().Channel(VALKEY_CHANNEL).Message(string(payload)).Build()
	if err := b.client.Do(ctx, cmd).Error(); err != nil {
		return b.log.Function("Publish").Err("failed to publish event", err, "type", event.Type)
	}

	return nil
}

func (b *EventBus) dispatch(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.log.Function("dispatch").Warn("dropping event for slow subscriber", "subscriber", id, "type", event.Type)
		}
	}
}

// Subscribe registers a receiver. The returned func unsubscribes and closes
// the channel.
func (b *EventBus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, SUBSCRIBER_BUFFER)
	b.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if existing, ok := b.subscribers[id]; ok {
				delete(b.subscribers, id)
				close(existing)
			}
		})
	}
}

func (b *EventBus) Close() error {
	b.closeOnce.Do(func() {
		if b.cancel != nil {
			b.cancel()
		}
		<-b.done

		b.mu.Lock()
		defer b.mu.Unlock()
		for id, ch := range b.subscribers {
			delete(b.subscribers, id)
			close(ch)
		}
	})
	return nil
}
