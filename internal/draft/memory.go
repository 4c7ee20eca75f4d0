package draft

import (
	"context"
	"encoding/json"
	"sync"

	"decokart/internal/model"
)

// memoryStore is an in-memory Store for tests and local development. Values
// go through a JSON round trip so behaviour matches the Redis store.
type memoryStore struct {
	mu       sync.Mutex
	drafts   map[string][]byte
	markers  map[string]string
	attempts map[string]int
}

// NewMemoryStore creates an in-memory draft store.
func NewMemoryStore() Store {
	return &memoryStore{
		drafts:   make(map[string][]byte),
		markers:  make(map[string]string),
		attempts: make(map[string]int),
	}
}

func (s *memoryStore) SaveDraft(ctx context.Context, draft *model.CheckoutDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draft.TransactionID] = data
	return nil
}

func (s *memoryStore) LoadDraft(ctx context.Context, transactionID string) (*model.CheckoutDraft, error) {
	s.mu.Lock()
	data, ok := s.drafts[transactionID]
	s.mu.Unlock()

	if !ok {
		return nil, model.ErrDraftNotFound
	}

	var draft model.CheckoutDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *memoryStore) DeleteDraft(ctx context.Context, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, transactionID)
	delete(s.attempts, transactionID)
	return nil
}

func (s *memoryStore) MarkOrderPlaced(ctx context.Context, transactionID, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[transactionID] = orderID
	return nil
}

func (s *memoryStore) OrderPlaced(ctx context.Context, transactionID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orderID, ok := s.markers[transactionID]
	return orderID, ok, nil
}

func (s *memoryStore) IncrementPollAttempts(ctx context.Context, transactionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[transactionID]++
	return s.attempts[transactionID], nil
}
