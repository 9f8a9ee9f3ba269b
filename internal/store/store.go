// Package store keeps the products of the API simulator in memory.
package store

import (
	"strconv"
	"sync"

	"github.com/fairyhunter13/inventory-ui/internal/model"
)

// Store is a concurrency-safe product table that preserves insertion order.
type Store struct {
	mu    sync.RWMutex
	seq   Sequencer
	order []model.ID
	m     map[model.ID]model.Product
}

func New() *Store {
	return &Store{m: make(map[model.ID]model.Product)}
}

// List returns all products in insertion order.
func (s *Store) List() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.m[id])
	}
	return out
}

func (s *Store) Get(id model.ID) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.m[id]
	return p, ok
}

// Create assigns the next free sequential identifier to p and stores it.
func (s *Store) Create(p model.Product) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		p.ID = model.ID(strconv.FormatUint(s.seq.Next(), 10))
		if _, taken := s.m[p.ID]; !taken {
			break
		}
	}
	s.insert(p)
	return p
}

// Seed stores products with the identifiers they already carry, replacing
// existing entries with the same identifier.
func (s *Store) Seed(products ...model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		if _, ok := s.m[p.ID]; ok {
			s.m[p.ID] = p
			continue
		}
		s.insert(p)
	}
}

// Delete removes the product and reports whether it existed.
func (s *Store) Delete(id model.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[id]; !ok {
		return false
	}
	delete(s.m, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of stored products.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

func (s *Store) insert(p model.Product) {
	s.m[p.ID] = p
	s.order = append(s.order, p.ID)
}
