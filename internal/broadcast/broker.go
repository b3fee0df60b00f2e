// Package broadcast is the in-process stand-in for the real-time channel
// clients subscribe to. The engine publishes typed events; SSE handlers
// stream the encoded frames.
package broadcast

import (
	"encoding/json"
	"sync"

	"github.com/fliparcade/coinroyale/internal/game"
)

// envelope is the wire frame: the event name plus its payload.
type envelope struct {
	Event string     `json:"event"`
	Data  game.Event `json:"data"`
}

// Broker is an in-process pub/sub keyed by tournament id.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel receiving JSON-encoded event frames for the
// given tournament.
func (b *Broker) Subscribe(tournamentID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[tournamentID] == nil {
		b.subs[tournamentID] = make(map[chan []byte]struct{})
	}
	b.subs[tournamentID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the tournament's subscribers.
func (b *Broker) Unsubscribe(tournamentID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[tournamentID], ch)
	if len(b.subs[tournamentID]) == 0 {
		delete(b.subs, tournamentID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given tournament.
func (b *Broker) Publish(tournamentID string, event game.Event) {
	data, err := json.Marshal(envelope{Event: event.EventName(), Data: event})
	if err != nil {
		return
	}
	b.mu.RLock()
	for ch := range b.subs[tournamentID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
