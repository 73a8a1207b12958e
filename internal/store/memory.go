package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/hsabsaboun/backend/internal/finance"
)

// MemoryStore implements Store interface with in-memory storage. Documents
// are kept as JSON so loads return the same loosely-typed shape the other
// backends do.
type MemoryStore struct {
	mu sync.RWMutex

	documents map[string][]byte
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		documents: make(map[string][]byte),
	}
}

func (m *MemoryStore) LoadUserData(ctx context.Context, userID string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.documents[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return decodeDocument(b)
}

func (m *MemoryStore) SaveUserData(ctx context.Context, userID string, data *finance.UserData) error {
	b, err := encodeUserData(data)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.documents[userID] = b
	return nil
}

// PutDocument stores a raw document as is, for seeding legacy shapes.
func (m *MemoryStore) PutDocument(userID string, doc Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.documents[userID] = b
	return nil
}

func (m *MemoryStore) DeleteUserData(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.documents, userID)
	return nil
}

func (m *MemoryStore) ListUserIDs(ctx context.Context, pageSize int32, pageToken string) ([]string, string, error) {
	cursor, err := DecodePageToken(pageToken)
	if err != nil {
		return nil, "", fmt.Errorf("invalid page token: %w", err)
	}

	m.mu.RLock()
	ids := make([]string, 0, len(m.documents))
	for id := range m.documents {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	page, next := paginateIDs(ids, pageSize, cursor)
	return page, next, nil
}

// paginateIDs applies cursor-based pagination to a slice of IDs. Returns the
// page after cursor and the next page token (empty if no more pages).
func paginateIDs(ids []string, pageSize int32, cursor string) ([]string, string) {
	size := int(defaultPageSize(pageSize))

	sort.Strings(ids)

	start := 0
	if cursor != "" {
		start = sort.SearchStrings(ids, cursor)
		if start < len(ids) && ids[start] == cursor {
			start++
		}
	}
	if start >= len(ids) {
		return []string{}, ""
	}

	end := start + size
	if end >= len(ids) {
		return ids[start:], ""
	}
	return ids[start:end], EncodePageToken(ids[end-1])
}
