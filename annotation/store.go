package annotation

import (
	"fmt"
	"sync"
)

// Store is the ordered annotation collection for one active document
// session. Insertion order is preserved so repeated renders stay stable.
// The mutex makes it safe to share between the HTTP handlers and the
// conversation pipeline; within one goroutine every operation is
// synchronous and atomic.
type Store struct {
	mu    sync.Mutex
	order []string
	byID  map[string]Annotation
}

func NewStore() *Store {
	return &Store{byID: make(map[string]Annotation)}
}

// Add appends annotations to the collection. Ids must be unique; a
// duplicate is a caller error and rejects the whole batch with nothing
// applied.
func (s *Store) Add(anns ...Annotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range anns {
		if _, ok := s.byID[a.ID]; ok {
			return fmt.Errorf("duplicate annotation id %q", a.ID)
		}
	}
	for _, a := range anns {
		s.byID[a.ID] = a
		s.order = append(s.order, a.ID)
	}
	return nil
}

// ReplaceAll swaps the entire collection, keeping the order given.
func (s *Store) ReplaceAll(anns []Annotation) error {
	byID := make(map[string]Annotation, len(anns))
	order := make([]string, 0, len(anns))
	for _, a := range anns {
		if _, ok := byID[a.ID]; ok {
			return fmt.Errorf("duplicate annotation id %q", a.ID)
		}
		byID[a.ID] = a
		order = append(order, a.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = byID
	s.order = order
	return nil
}

// Remove deletes one annotation by id, reporting whether it existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, got := range s.order {
		if got == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns every annotation in insertion order.
func (s *Store) All() []Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(func(Annotation) bool { return true })
}

// Len reports the number of stored annotations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// FilterForPage returns, in insertion order, every annotation belonging to
// the given page plus every global annotation (page 0 / no page encoded in
// the id).
func (s *Store) FilterForPage(page int) []Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(func(a Annotation) bool {
		p := a.EffectivePage()
		return p == 0 || p == page
	})
}

// ClearPage removes every annotation belonging to the given page, leaving
// global annotations untouched.
func (s *Store) ClearPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := s.order[:0]
	for _, id := range s.order {
		if s.byID[id].EffectivePage() == page {
			delete(s.byID, id)
			continue
		}
		order = append(order, id)
	}
	s.order = order
}

// snapshot copies matching annotations; callers hold s.mu.
func (s *Store) snapshot(keep func(Annotation) bool) []Annotation {
	out := make([]Annotation, 0, len(s.order))
	for _, id := range s.order {
		if a := s.byID[id]; keep(a) {
			out = append(out, a)
		}
	}
	return out
}
