package dashboard

import (
	"context"
	"fmt"
	"sync"

	"nathanbeddoewebdev/skyglass/internal/domain"
)

// Ticket identifies one refresh request. Its context is cancelled as soon
// as a newer request is started or the selection changes.
type Ticket struct {
	Seq          uint64
	Subscription string
	Ctx          context.Context
}

// Session owns the subscription selection and decides which refresh
// result is shown. Only the most recently issued ticket may commit, so a
// slow response for an older request can never overwrite a newer one.
type Session struct {
	mu        sync.Mutex
	selection string
	seq       uint64
	cancel    context.CancelFunc
	current   ViewModel
}

// NewSession returns a session with no selection.
func NewSession() *Session {
	return &Session{}
}

// Selection returns the selected subscription ID, or "" if none.
func (s *Session) Selection() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Select replaces the selection and cancels the in-flight request. The
// selection can be replaced but never cleared.
func (s *Session) Select(subscriptionID string) error {
	if subscriptionID == "" {
		return fmt.Errorf("select: %w", domain.ErrInvalidSelection)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = subscriptionID
	s.seq++ // invalidate outstanding tickets
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return nil
}

// Begin issues a ticket for refreshing the current selection. Any earlier
// in-flight request is cancelled.
func (s *Session) Begin(parent context.Context) Ticket {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.seq++
	return Ticket{Seq: s.seq, Subscription: s.selection, Ctx: ctx}
}

// Commit installs vm if t is still the latest ticket and reports whether
// it did. Stale results are dropped.
func (s *Session) Commit(t Ticket, vm ViewModel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Seq != s.seq || t.Subscription != s.selection {
		return false
	}
	s.current = vm
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}

// Current returns the last committed view-model.
func (s *Session) Current() ViewModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Refresh runs build for the current selection and commits the result.
// It returns the view-model that is current afterwards and whether this
// call's result was the one committed.
func (s *Session) Refresh(parent context.Context, build func(ctx context.Context, subscriptionID string) ViewModel) (ViewModel, bool) {
	t := s.Begin(parent)
	vm := build(t.Ctx, t.Subscription)
	ok := s.Commit(t, vm)
	return s.Current(), ok
}
