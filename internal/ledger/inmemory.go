package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is a concurrency-safe in-memory Store. Read-modify-write calls
// are serialized per record; the maps themselves sit behind a single RWMutex
// so a customer update and its transaction insert become visible together.
type MemoryStore struct {
	mu           sync.RWMutex
	customers    map[string]Customer
	phones       map[string]string
	transactions map[string]Transaction
	byCustomer   map[string][]string

	locks recordLocks
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		customers:    make(map[string]Customer),
		phones:       make(map[string]string),
		transactions: make(map[string]Transaction),
		byCustomer:   make(map[string][]string),
		locks:        recordLocks{m: make(map[string]*sync.Mutex)},
	}
}

func (s *MemoryStore) CreateCustomer(_ context.Context, c Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.phones[c.Phone]; exists {
		return ErrDuplicatePhone
	}
	if _, exists := s.customers[c.ID]; exists {
		return fmt.Errorf("customer %s already exists", c.ID)
	}
	s.customers[c.ID] = c.Clone()
	s.phones[c.Phone] = c.ID
	return nil
}

func (s *MemoryStore) GetCustomer(_ context.Context, id string) (Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return Customer{}, ErrCustomerNotFound
	}
	return c.Clone(), nil
}

func (s *MemoryStore) GetCustomerByPhone(_ context.Context, phone string) (Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.phones[phone]
	if !ok {
		return Customer{}, ErrCustomerNotFound
	}
	return s.customers[id].Clone(), nil
}

func (s *MemoryStore) CountCustomers(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.customers), nil
}

func (s *MemoryStore) UpdateCustomer(_ context.Context, id string, fn CustomerMutation) (Customer, error) {
	unlock := s.locks.lock("customer:" + id)
	defer unlock()

	s.mu.RLock()
	current, ok := s.customers[id]
	s.mu.RUnlock()
	if !ok {
		return Customer{}, ErrCustomerNotFound
	}

	updated, txn, err := applyCustomerMutation(current, fn)
	if err != nil {
		return Customer{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if txn != nil {
		if _, exists := s.transactions[txn.ID]; exists {
			return Customer{}, ErrDuplicateTransaction
		}
		s.transactions[txn.ID] = *txn
		s.byCustomer[id] = append(s.byCustomer[id], txn.ID)
	}
	s.customers[id] = updated
	return updated.Clone(), nil
}

func (s *MemoryStore) InsertTransaction(_ context.Context, t Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[t.CustomerID]; !ok {
		return ErrCustomerNotFound
	}
	if _, exists := s.transactions[t.ID]; exists {
		return ErrDuplicateTransaction
	}
	s.transactions[t.ID] = t
	s.byCustomer[t.CustomerID] = append(s.byCustomer[t.CustomerID], t.ID)
	return nil
}

func (s *MemoryStore) GetTransaction(_ context.Context, id string) (Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[id]
	if !ok {
		return Transaction{}, ErrTransactionNotFound
	}
	return t, nil
}

func (s *MemoryStore) UpdateTransaction(_ context.Context, id string, fn TransactionMutation) (Transaction, error) {
	unlock := s.locks.lock("transaction:" + id)
	defer unlock()

	s.mu.RLock()
	current, ok := s.transactions[id]
	s.mu.RUnlock()
	if !ok {
		return Transaction{}, ErrTransactionNotFound
	}

	updated, err := applyTransactionMutation(current, fn)
	if err != nil {
		return Transaction{}, err
	}

	s.mu.Lock()
	s.transactions[id] = updated
	s.mu.Unlock()
	return updated, nil
}

func (s *MemoryStore) ListTransactions(_ context.Context, customerID string, limit int) ([]Transaction, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	if _, ok := s.customers[customerID]; !ok {
		s.mu.RUnlock()
		return nil, ErrCustomerNotFound
	}
	ids := s.byCustomer[customerID]
	out := make([]Transaction, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, s.transactions[ids[i]])
	}
	s.mu.RUnlock()

	// ids are newest-inserted first; the stable sort keeps that order for equal dates
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// recordLocks hands out one mutex per record key. Records are never deleted,
// so the map only grows with the data set.
type recordLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (l *recordLocks) lock(key string) (unlock func()) {
	l.mu.Lock()
	m, ok := l.m[key]
	if !ok {
		m = &sync.Mutex{}
		l.m[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
