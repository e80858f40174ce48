package stream

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// eventBuffer bounds the per-connection backlog. A client that falls this
// far behind is treated as disconnected.
const eventBuffer = 16

// Registry owns the mapping from user ID to that user's live Subscriptions.
// It is the only synchronization boundary around that state: subscribe,
// remove, unsubscribe, and dispatcher reads may all run concurrently.
type Registry struct {
	mu      sync.Mutex
	subs    map[string][]*Subscription
	timeout time.Duration
	logger  *logrus.Logger
}

// NewRegistry creates a Registry whose Subscriptions live at most timeout.
func NewRegistry(timeout time.Duration, logger *logrus.Logger) *Registry {
	return &Registry{
		subs:    make(map[string][]*Subscription),
		timeout: timeout,
		logger:  logger,
	}
}

// Subscribe creates and registers a new Subscription for userID and delivers
// the initial acknowledgment event. A Subscription that cannot accept its
// first event is already dead: it is removed and an error returned.
func (r *Registry) Subscribe(userID string) (*Subscription, error) {
	sub := &Subscription{
		ID:     uuid.NewString(),
		UserID: userID,
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
	sub.onClose = func(s *Subscription) {
		r.Remove(userID, s)
		r.logger.Debugf("Stream connection closed: user_id=%s sub_id=%s", userID, s.ID)
	}

	// Idle connections are reaped after the lifetime ceiling. Armed before
	// registration so no other goroutine can race the assignment.
	sub.timer = time.AfterFunc(r.timeout, sub.Close)

	r.mu.Lock()
	r.subs[userID] = append(r.subs[userID], sub)
	total := len(r.subs[userID])
	r.mu.Unlock()

	init := Event{
		ID:   fmt.Sprintf("INIT-%d", time.Now().UnixMilli()),
		Name: "INIT",
		Data: "stream connection established for userId=" + userID,
	}
	if err := sub.Send(init); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to send INIT event to user %s: %w", userID, err)
	}

	r.logger.Infof("Stream connection added: user_id=%s sub_id=%s total=%d", userID, sub.ID, total)
	return sub, nil
}

// Remove drops one Subscription from the user's collection. Idempotent; the
// user key is dropped as soon as its collection empties.
func (r *Registry) Remove(userID string, sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.subs[userID]
	if !ok {
		return
	}
	for i, s := range list {
		if s == sub {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(r.subs, userID)
	} else {
		r.subs[userID] = list
	}
}

// Unsubscribe terminates every Subscription for userID. No-op when the user
// has none.
func (r *Registry) Unsubscribe(userID string) {
	r.mu.Lock()
	list := append([]*Subscription(nil), r.subs[userID]...)
	r.mu.Unlock()

	for _, sub := range list {
		sub.Close()
	}
	r.logger.Debugf("All stream connections removed: user_id=%s", userID)
}

// Get returns a snapshot of the user's live Subscriptions, safe to iterate
// while terminations race against the caller.
func (r *Registry) Get(userID string) []*Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Subscription(nil), r.subs[userID]...)
}

// Count reports the number of live Subscriptions for userID.
func (r *Registry) Count(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs[userID])
}
