package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Storage persists one JSON snapshot of a session's lines. Load returns
// (nil, nil) when nothing is stored for the session.
type Storage interface {
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Save(ctx context.Context, sessionID string, payload []byte) error
}

func encodeLines(lines []Line) ([]byte, error) {
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(lines)
}

// decodeLines parses a snapshot. Lines that could never have been produced
// by the engine (non-positive quantity, duplicate product) fail the whole
// snapshot, which the engine treats as an empty cart.
func decodeLines(payload []byte) ([]Line, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	var lines []Line
	if err := json.Unmarshal(payload, &lines); err != nil {
		return nil, fmt.Errorf("decode cart snapshot: %w", err)
	}
	seen := make(map[int]bool, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, fmt.Errorf("decode cart snapshot: product %d has quantity %d", l.ProductID, l.Quantity)
		}
		if seen[l.ProductID] {
			return nil, fmt.Errorf("decode cart snapshot: product %d appears twice", l.ProductID)
		}
		seen[l.ProductID] = true
	}
	return lines, nil
}

// MemoryStorage keeps snapshots in process memory.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(ctx context.Context, sessionID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payload, ok := m.data[sessionID]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), payload...), nil
}

func (m *MemoryStorage) Save(ctx context.Context, sessionID string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID] = append([]byte(nil), payload...)
	return nil
}
