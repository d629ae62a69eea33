package offline

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps the queue in process memory. It backs the
// not-configured startup mode and the tests; queued work does not
// survive a restart.
type MemoryStore struct {
	mu  sync.Mutex
	ops []*Operation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Enqueue(_ context.Context, op *Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *op
	s.ops = append(s.ops, &copied)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]*Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Operation, len(s.ops))
	for i, op := range s.ops {
		copied := *op
		out[i] = &copied
	}
	return out, nil
}

func (s *MemoryStore) Remove(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, op := range s.ops {
		if op.ID == id {
			s.ops = append(s.ops[:i], s.ops[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) SetRetryCount(_ context.Context, id uuid.UUID, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range s.ops {
		if op.ID == id {
			op.RetryCount = count
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ops), nil
}
