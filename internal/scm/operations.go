// Package scm provides the repository abstraction gitbar observes.
// This file tracks the set of currently running repository operations.
package scm

import (
	"sort"
	"sync"
)

// OperationSet tracks which operation kinds are currently running.
// The same kind may be started more than once; it stays active until
// every start has been matched by an end.
type OperationSet struct {
	mu      sync.Mutex
	running map[OperationKind]int
}

// NewOperationSet creates an empty OperationSet.
func NewOperationSet() *OperationSet {
	return &OperationSet{running: make(map[OperationKind]int)}
}

// Start marks kind as running.
func (s *OperationSet) Start(kind OperationKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running[kind]++
}

// End marks one running instance of kind as finished.
// Ending a kind that is not running is a no-op.
func (s *OperationSet) End(kind OperationKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[kind] <= 1 {
		delete(s.running, kind)
		return
	}
	s.running[kind]--
}

// IsRunning reports whether at least one instance of kind is active.
func (s *OperationSet) IsRunning(kind OperationKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running[kind] > 0
}

// AnyRunning reports whether any of the given kinds is active.
func (s *OperationSet) AnyRunning(kinds ...OperationKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, kind := range kinds {
		if s.running[kind] > 0 {
			return true
		}
	}
	return false
}

// Active returns the sorted list of currently running kinds.
func (s *OperationSet) Active() []OperationKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]OperationKind, 0, len(s.running))
	for kind := range s.running {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
