package card

import (
	"context"
	"fmt"
	"sync"

	"github.com/onecard-bot/onecard_bot/internal/ledger"
)

type memoryRepository struct {
	mu         sync.RWMutex
	storage    map[string]Card
	byCustomer map[string]string
}

// NewMemoryRepository constructs an in-memory repository. One card is kept per customer.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		storage:    make(map[string]Card),
		byCustomer: make(map[string]string),
	}
}

func (r *memoryRepository) Create(_ context.Context, card Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[card.ID]; exists {
		return fmt.Errorf("card %s exists", card.ID)
	}
	r.storage[card.ID] = card
	if _, ok := r.byCustomer[card.CustomerID]; !ok {
		r.byCustomer[card.CustomerID] = card.ID
	}
	return nil
}

func (r *memoryRepository) GetByCustomer(_ context.Context, customerID string) (Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byCustomer[customerID]
	if !ok {
		return Card{}, ledger.ErrCardNotFound
	}
	return r.storage[id], nil
}
