package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/user/retroboard/internal/types"
)

// MemoryStore holds the document as serialized bytes, so every Load hands
// out an independent copy just like the durable stores do.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (*types.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return decodeDocument(s.data)
}

func (s *MemoryStore) Save(_ context.Context, doc *types.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}
