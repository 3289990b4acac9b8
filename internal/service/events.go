package service

import "sync"

// listeners is a set of callbacks notified on every snapshot change
type listeners[T any] struct {
	mu     sync.RWMutex
	fns    map[uint64]func(T)
	nextID uint64
}

func newListeners[T any]() *listeners[T] {
	return &listeners[T]{fns: make(map[uint64]func(T))}
}

// add registers fn and returns a function that removes it
func (l *listeners[T]) add(fn func(T)) func() {
	if fn == nil {
		panic("listener cannot be nil")
	}

	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.fns[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.fns, id)
		l.mu.Unlock()
	}
}

// notify calls every listener outside the lock so a listener may unsubscribe
func (l *listeners[T]) notify(v T) {
	l.mu.RLock()
	fns := make([]func(T), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
}
