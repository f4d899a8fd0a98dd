// Package lock serialises critical sections per key, in process or across
// instances through Redis.
package lock

import (
	"context"
	"sync"
)

// Locker runs f while holding the lock for key.
type Locker interface {
	WithLock(ctx context.Context, key string, f func() error) error
}

// KeyedMutex is an in-process Locker with one mutex per key.
// Mutexes are dropped once nobody holds or waits for them.
type KeyedMutex struct {
	mapMutex sync.Mutex
	keys     map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{keys: make(map[string]*entry)}
}

func (l *KeyedMutex) acquire(key string) *entry {
	l.mapMutex.Lock()
	e, ok := l.keys[key]
	if !ok {
		e = &entry{}
		l.keys[key] = e
	}
	e.refs++
	l.mapMutex.Unlock()

	e.mu.Lock()
	return e
}

func (l *KeyedMutex) release(key string, e *entry) {
	e.mu.Unlock()

	l.mapMutex.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.keys, key)
	}
	l.mapMutex.Unlock()
}

func (l *KeyedMutex) WithLock(_ context.Context, key string, f func() error) error {
	e := l.acquire(key)
	defer l.release(key, e)
	return f()
}

// size is the number of tracked keys.
func (l *KeyedMutex) size() int {
	l.mapMutex.Lock()
	defer l.mapMutex.Unlock()
	return len(l.keys)
}
