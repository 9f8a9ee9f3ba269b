package store

import (
	"strconv"
	"sync"
	"time"

	"github.com/fairyhunter13/inventory-ui/internal/model"
)

// Orders keeps orders in memory and records the completion stream.
type Orders struct {
	mu        sync.RWMutex
	seq       Sequencer
	m         map[model.ID]model.Order
	completed []model.Order
}

func NewOrders() *Orders {
	return &Orders{m: make(map[model.ID]model.Order)}
}

// Create assigns the next sequential identifier to o and stores it.
func (s *Orders) Create(o model.Order) model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = model.ID(strconv.FormatUint(s.seq.Next(), 10))
	s.m[o.ID] = o
	return o
}

func (s *Orders) Get(id model.ID) (model.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.m[id]
	return o, ok
}

// Complete moves a pending order to completed and appends it to the
// completion stream. It reports false when the order is unknown or no longer
// pending.
func (s *Orders) Complete(id model.ID, at time.Time) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.m[id]
	if !ok || o.Status != model.OrderPending {
		return o, false
	}
	o.Status = model.OrderCompleted
	o.CompletedAt = at
	s.m[id] = o
	s.completed = append(s.completed, o)
	return o, true
}

// Completed returns the completion stream in the order events happened.
func (s *Orders) Completed() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Order, len(s.completed))
	copy(out, s.completed)
	return out
}
