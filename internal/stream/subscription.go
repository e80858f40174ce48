package stream

import (
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned by Send once a Subscription has terminated.
var ErrClosed = errors.New("subscription closed")

// Event is one message pushed through a Subscription. The boundary layer
// renders it as an SSE event or a websocket frame.
type Event struct {
	ID   string      `json:"id"`
	Name string      `json:"event"`
	Data interface{} `json:"data"`
}

// Subscription is one live streaming connection for a user. It moves from
// active to terminated exactly once, whether the trigger is client
// completion, the lifetime timeout, a send error, or an administrative
// unsubscribe; every path runs the same removal hook.
type Subscription struct {
	ID     string
	UserID string

	events  chan Event
	done    chan struct{}
	once    sync.Once
	timer   *time.Timer
	onClose func(*Subscription)
}

// Events is the channel the transport handler drains to the client.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Done is closed when the Subscription terminates.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Send queues an event for delivery without blocking. A terminated
// Subscription returns ErrClosed. A full buffer means the client stopped
// draining; the Subscription is closed and the send reported as failed.
func (s *Subscription) Send(ev Event) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}

	select {
	case s.events <- ev:
		return nil
	case <-s.done:
		return ErrClosed
	default:
		s.Close()
		return ErrClosed
	}
}

// Close terminates the Subscription. It is safe to call concurrently and
// more than once; the removal hook runs exactly once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		close(s.done)
		if s.timer != nil {
			s.timer.Stop()
		}
		if s.onClose != nil {
			s.onClose(s)
		}
	})
}
