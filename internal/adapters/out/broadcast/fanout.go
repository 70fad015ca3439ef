package broadcast

import "sync"

// fanout delivers values to a changing set of one-slot subscribers.
type fanout[T any] struct {
	mu   sync.Mutex
	subs map[chan T]struct{}
}

func newFanout[T any]() fanout[T] {
	return fanout[T]{subs: map[chan T]struct{}{}}
}

func (f *fanout[T]) send(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for sub := range f.subs {
		offer(sub, v)
	}
}

func (f *fanout[T]) subscribe() (<-chan T, func()) {
	sub := make(chan T, 1)

	f.mu.Lock()
	f.subs[sub] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return sub, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs, sub)
			close(sub)
		})
	}
}

func (f *fanout[T]) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// offer puts v into a one-slot buffer, discarding an unread older value.
// Callers hold the lock, so no other sender races for the slot.
func offer[T any](sub chan T, v T) {
	select {
	case <-sub:
	default:
	}
	select {
	case sub <- v:
	default:
	}
}
