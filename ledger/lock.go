package ledger

import (
	"fmt"
	"sync"
)

// keyedMutex hands out one mutex per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

// Lock blocks until key is free and returns the matching unlock.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func userKey(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

// chainKey names one running-balance chain: a session, or the user's
// unsessioned trades.
func chainKey(userID int64, sessionID *int64) string {
	if sessionID == nil {
		return fmt.Sprintf("chain:%d", userID)
	}
	return fmt.Sprintf("session:%d", *sessionID)
}
