package app

import (
	"context"
	"sync"
)

// FetchLimiter borne le nombre de requêtes sortantes simultanées vers
// les pages sources, pour respecter la capacité du site amont.
// Le plafond peut être modifié à chaud via SetLimit.
//
// Acquire respecte le contexte.
type FetchLimiter struct {
	mu       sync.Mutex
	limit    int
	inFlight int
	notify   chan struct{}
}

func NewFetchLimiter(limit int) *FetchLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &FetchLimiter{limit: limit, notify: make(chan struct{})}
}

func (l *FetchLimiter) Limit() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limit
}

func (l *FetchLimiter) InFlight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inFlight
}

func (l *FetchLimiter) SetLimit(limit int) {
	if limit <= 0 {
		limit = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.limit == limit {
		return
	}
	l.limit = limit
	l.signalLocked()
}

func (l *FetchLimiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		limit := l.limit
		if limit <= 0 {
			limit = 1
		}
		if l.inFlight < limit {
			l.inFlight++
			l.mu.Unlock()
			return nil
		}
		ch := l.notify
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

func (l *FetchLimiter) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inFlight > 0 {
		l.inFlight--
	}
	l.signalLocked()
}

func (l *FetchLimiter) signalLocked() {
	// Réveille tous les waiters en fermant le channel et en recréant.
	// C'est OK même si aucun waiter n'écoute.
	close(l.notify)
	l.notify = make(chan struct{})
}
