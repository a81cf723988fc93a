// Package events fans controller state changes out to presentation layers.
package events

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"alarm-clock-backend/internal/model"
)

// Kind identifies an event.
type Kind string

const (
	KindAlarmsChanged  Kind = "alarms_changed"
	KindRinging        Kind = "ringing"
	KindRingingCleared Kind = "ringing_cleared"
)

// Event is a single state change. Alarms is set for KindAlarmsChanged and
// Alarm for KindRinging.
type Event struct {
	Kind   Kind          `json:"kind"`
	Alarms []model.Alarm `json:"alarms"`
	Alarm  *model.Alarm  `json:"alarm"`
}

// MarshalJSON encodes only the payload that belongs to the kind. An
// alarms_changed event always carries its collection, empty or not.
func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case KindAlarmsChanged:
		alarms := e.Alarms
		if alarms == nil {
			alarms = []model.Alarm{}
		}
		return json.Marshal(struct {
			Kind   Kind          `json:"kind"`
			Alarms []model.Alarm `json:"alarms"`
		}{e.Kind, alarms})
	case KindRinging:
		return json.Marshal(struct {
			Kind  Kind         `json:"kind"`
			Alarm *model.Alarm `json:"alarm"`
		}{e.Kind, e.Alarm})
	default:
		return json.Marshal(struct {
			Kind Kind `json:"kind"`
		}{e.Kind})
	}
}

// Publisher accepts events.
type Publisher interface {
	Publish(e Event)
}

// Broker delivers published events to every open subscription.
type Broker struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
	log  *zap.Logger
}

// NewBroker creates a broker with no subscribers.
func NewBroker(log *zap.Logger) *Broker {
	return &Broker{
		subs: make(map[*Subscription]struct{}),
		log:  log.Named("events"),
	}
}

var _ Publisher = (*Broker)(nil)

// Subscription receives events until closed.
type Subscription struct {
	broker *Broker
	c      chan Event
	once   sync.Once
}

// C returns the event channel. It is closed when the subscription is closed.
func (s *Subscription) C() <-chan Event {
	return s.c
}

// Close unsubscribes and closes the channel. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.broker.mu.Lock()
		delete(s.broker.subs, s)
		close(s.c)
		s.broker.mu.Unlock()
	})
}

// Subscribe registers a subscription with the given channel buffer.
func (b *Broker) Subscribe(buffer int) *Subscription {
	sub := &Subscription{broker: b, c: make(chan Event, buffer)}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Publish never blocks: a subscriber whose buffer is full misses the event.
func (b *Broker) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		select {
		case sub.c <- e:
		default:
			b.log.Warn("subscriber is behind, dropping event", zap.String("kind", string(e.Kind)))
		}
	}
}

// Subscribers returns the number of open subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
