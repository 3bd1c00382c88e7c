package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dyluth/roulette/pkg/roster"
)

// RoundEvent is published after a round column has been committed.
type RoundEvent struct {
	RosterID     string       `json:"roster_id"`
	Name         string       `json:"name"`
	Column       string       `json:"column"`
	Round        int          `json:"round"`
	Participants int          `json:"participants"`
	Groups       []EventGroup `json:"groups"`
	DrawnAtMs    int64        `json:"drawn_at_ms"`
}

// EventGroup is one group of a drawn round, in label order of first appearance.
type EventGroup struct {
	Label   string   `json:"label"`
	Members []string `json:"members"`
}

// newRoundEvent summarises the round column of a freshly updated record.
func newRoundEvent(rec *Record, column string) *RoundEvent {
	ev := &RoundEvent{
		RosterID:  rec.ID,
		Name:      rec.Name,
		Column:    column,
		DrawnAtMs: rec.UpdatedAtMs,
	}
	if n, ok := roster.RoundNumber(rec.Prefix, column); ok {
		ev.Round = n
	}

	nameIdx, ok := rec.Table.ColumnIndex(roster.NameColumn)
	if !ok {
		return ev
	}
	colIdx, ok := rec.Table.ColumnIndex(column)
	if !ok {
		return ev
	}

	index := make(map[string]int)
	for _, row := range rec.Table.Rows {
		name, label := row[nameIdx], row[colIdx]
		if name == "" || label == "" {
			continue
		}
		ev.Participants++
		i, ok := index[label]
		if !ok {
			i = len(ev.Groups)
			index[label] = i
			ev.Groups = append(ev.Groups, EventGroup{Label: label})
		}
		ev.Groups[i].Members = append(ev.Groups[i].Members, name)
	}
	return ev
}

// Subscription represents an active Pub/Sub subscription to round events.
// Caller must call Close() when done to clean up resources.
type Subscription struct {
	events <-chan *RoundEvent
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events returns the channel of round events.
// The channel will be closed when the subscription is closed or the context is cancelled.
func (s *Subscription) Events() <-chan *RoundEvent {
	return s.events
}

// Errors returns the channel of subscription errors.
// The subscription continues after errors - malformed messages are skipped.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription. Safe to call multiple times.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// SubscribeRoundEvents subscribes to round events for this namespace.
// Context cancellation also stops the subscription.
//
// Delivery is at-most-once: events published while nobody listens are lost.
func (s *RedisStore) SubscribeRoundEvents(ctx context.Context) (*Subscription, error) {
	pubsub := s.rdb.Subscribe(ctx, RoundEventsChannel(s.namespace))

	// Wait for the subscription to be confirmed so no event published after
	// this call returns is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to round events: %w", err)
	}

	eventsChan := make(chan *RoundEvent, 10)
	errorsChan := make(chan error, 10)
	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()

		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var ev RoundEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal round event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- &ev:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}, nil
}
