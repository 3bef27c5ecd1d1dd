// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package flow

import (
	"context"
	"sync"
)

// store holds a controller's current snapshot.  Every transition replaces
// the snapshot under the lock and publishes it to subscribers.
type store[S any] struct {
	mu    sync.Mutex
	state S
	busy  bool
	subs  map[chan S]struct{}
}

func newStore[S any](initial S) *store[S] {
	return &store[S]{state: initial, subs: map[chan S]struct{}{}}
}

func (s *store[S]) get() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// update applies fn to the snapshot.
func (s *store[S]) update(fn func(S) S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(fn(s.state))
}

// swap applies fn to the snapshot and reports fn's result.
func (s *store[S]) swap(fn func(S) (S, bool)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := fn(s.state)
	s.setLocked(next)
	return ok
}

// idle applies fn only when no action is in flight and reports whether it
// did.
func (s *store[S]) idle(fn func(S) S) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.setLocked(fn(s.state))
	return true
}

// begin starts an action.  It returns ErrBusy when one is already in flight.
// Otherwise fn builds the next snapshot and reports whether the action goes
// on to a remote call, in which case the store stays busy until finish.
func (s *store[S]) begin(fn func(S) (S, bool)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false, ErrBusy
	}
	next, proceed := fn(s.state)
	s.busy = proceed
	s.setLocked(next)
	return proceed, nil
}

// finish ends the action started by begin.
func (s *store[S]) finish(fn func(S) S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.setLocked(fn(s.state))
}

func (s *store[S]) setLocked(next S) {
	s.state = next
	for ch := range s.subs {
		// keep only the newest snapshot for slow readers
		select {
		case <-ch:
		default:
		}
		ch <- next
	}
}

// subscribe returns a channel that receives the current snapshot and then
// every later one.  A reader that falls behind only sees the newest
// snapshot.  The channel is closed when ctx is done.
func (s *store[S]) subscribe(ctx context.Context) <-chan S {
	ch := make(chan S, 1)
	s.mu.Lock()
	ch <- s.state
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, ch)
		close(ch)
	}()
	return ch
}
