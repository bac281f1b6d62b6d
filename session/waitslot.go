package session

import "github.com/gostdlib/base/concurrency/sync"

// waitSlot is a single-slot park/wake primitive: at most one channel is
// outstanding at a time, and every waiter that observed it before a wake
// sees that same close. This is the Go counterpart of the task-park handle
// spec.md's SessionContext keeps per slot; channels give every concurrent
// waiter the wakeup for free, which is strictly stronger than "at most one
// parked task" but preserves the invariant that a waiter is never lost.
type waitSlot struct {
	mu sync.Mutex
	ch chan struct{}
}

// wait returns the channel that closes on the next wake. Calling wait
// repeatedly before a wake returns the same channel.
func (s *waitSlot) wait() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// wake releases every current waiter. It is a no-op if nothing is parked.
func (s *waitSlot) wake() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil {
		close(s.ch)
		s.ch = nil
	}
}
