package progress

import "sync"

// TokenState holds the tracked state of one progress stream. A TokenState
// exists in the store only while its stream is active; absence means "not
// running".
type TokenState struct {
	Busy       bool
	Percentage *int
}

// Store maps worker → token → TokenState. It is safe for concurrent use.
// Entries are created and removed purely by Apply; an orphaned begin with no
// matching end persists until the worker detaches.
type Store struct {
	mu      sync.RWMutex
	workers map[string]map[string]TokenState
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{workers: make(map[string]map[string]TokenState)}
}

// Apply mutates the store according to the event kind and reports whether the
// event was accepted. Begin and report upsert the token with the event's
// percentage as the new authoritative value; end and other remove it.
// Removing an unknown token is a no-op, never a failure.
func (s *Store) Apply(evt Event) bool {
	if err := evt.Validate(); err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch evt.Kind {
	case KindBegin, KindReport:
		tokens := s.workers[evt.Worker]
		if tokens == nil {
			tokens = make(map[string]TokenState)
			s.workers[evt.Worker] = tokens
		}
		tokens[evt.Token] = TokenState{Busy: true, Percentage: evt.Percentage}
	case KindEnd, KindOther:
		if tokens := s.workers[evt.Worker]; tokens != nil {
			delete(tokens, evt.Token)
			if len(tokens) == 0 {
				delete(s.workers, evt.Worker)
			}
		}
	}
	return true
}

// Tokens returns a copy of the live token states for one worker. The result
// is nil when the worker has no active streams.
func (s *Store) Tokens(worker string) map[string]TokenState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tokens := s.workers[worker]
	if len(tokens) == 0 {
		return nil
	}
	out := make(map[string]TokenState, len(tokens))
	for tok, st := range tokens {
		out[tok] = st
	}
	return out
}

// ClearWorker drops every token tracked for the worker and reports whether
// anything was removed. Used when a worker detaches or restarts, so stale
// streams cannot show as permanently busy.
func (s *Store) ClearWorker(worker string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.workers[worker]) == 0 {
		delete(s.workers, worker)
		return false
	}
	delete(s.workers, worker)
	return true
}

// ActiveWorkerCount reports how many workers currently have at least one live
// token.
func (s *Store) ActiveWorkerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workers)
}

// TokenCount reports the total number of live tokens across all workers.
func (s *Store) TokenCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, tokens := range s.workers {
		n += len(tokens)
	}
	return n
}
