package realtime

import "sync"

// Event names a part of a page that changed and should be re-rendered.
type Event string

// subscriberBuffer is how many events a slow subscriber may lag before drops.
const subscriberBuffer = 10

// Subscription receives events from a Broadcaster until closed.
type Subscription struct {
	C <-chan Event

	ch   chan Event
	hub  *Broadcaster
	once sync.Once
}

// Close detaches the subscription and closes C. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s.ch)
	})
}

// Broadcaster fans events out to SSE subscribers.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[chan Event]struct{}),
	}
}

// Subscribe registers a new subscriber.
func (b *Broadcaster) Subscribe() *Subscription {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return &Subscription{C: ch, ch: ch, hub: b}
}

func (b *Broadcaster) remove(ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Len returns the number of live subscribers.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish delivers events to all subscribers.
func (b *Broadcaster) Publish(events ...Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		for _, event := range events {
			select {
			case ch <- event:
			default:
				// Lagging subscriber; the next event re-renders from a fresh snapshot.
			}
		}
	}
}

// CloseAll closes every subscription, ending their streams.
func (b *Broadcaster) CloseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}
