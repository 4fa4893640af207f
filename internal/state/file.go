// internal/state/file.go
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/retroboard/internal/types"
)

// FileStore keeps the whole registry document in a single JSON file.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileStore creates a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file path used by this store.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the document. A missing file is an empty registry.
func (s *FileStore) Load(_ context.Context) (*types.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.NewDocument(), nil
		}
		return nil, fmt.Errorf("read board file: %w", err)
	}
	return decodeDocument(data)
}

// Save replaces the document using atomic write (temp file + rename).
func (s *FileStore) Save(_ context.Context, doc *types.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create board dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp board file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp board file: %w", err)
	}
	return nil
}

func decodeDocument(data []byte) (*types.Document, error) {
	doc := types.NewDocument()
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("unmarshal board: %w", err)
	}
	if doc.Sessions == nil {
		doc.Sessions = make(map[types.SessionID]*types.Session)
	}
	return doc, nil
}
