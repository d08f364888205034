package app

import "sync"

// broadcaster fans snapshots out to subscribers. Slow subscribers only ever
// see the latest snapshot.
type broadcaster[T any] struct {
	mu          sync.Mutex
	subscribers map[chan T]struct{}
}

func newBroadcaster[T any]() *broadcaster[T] {
	return &broadcaster[T]{subscribers: make(map[chan T]struct{})}
}

// subscribe registers a channel primed with initial. The caller must invoke
// the returned cancel function to avoid leaks.
func (b *broadcaster[T]) subscribe(initial T) (<-chan T, func()) {
	ch := make(chan T, 8)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	ch <- initial

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *broadcaster[T]) publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		select {
		case ch <- v:
		default:
			// drop the oldest queued snapshot to make room
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}
