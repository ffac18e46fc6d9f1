package emulator

import (
	"context"
	"sync"

	"github.com/tidecraft/ballast/internal/properties"
)

// Store persists the merged service properties per account and service kind.
// Implementations return (nil, nil) for accounts that have never been
// written; the handler falls back to the service defaults.
type Store interface {
	Get(ctx context.Context, account string, kind properties.ServiceKind) (*properties.ServiceProperties, error)
	Set(ctx context.Context, account string, kind properties.ServiceKind, props *properties.ServiceProperties) error
}

// MemoryStore keeps properties in process. The default for tests and
// single-node runs.
type MemoryStore struct {
	mu    sync.RWMutex
	props map[storeKey]*properties.ServiceProperties
}

type storeKey struct {
	account string
	kind    properties.ServiceKind
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{props: make(map[storeKey]*properties.ServiceProperties)}
}

// Get returns the stored properties, or nil when the account has never been
// written for this kind.
func (s *MemoryStore) Get(_ context.Context, account string, kind properties.ServiceKind) (*properties.ServiceProperties, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.props[storeKey{account, kind}], nil
}

// Set replaces the stored properties for the account and kind.
func (s *MemoryStore) Set(_ context.Context, account string, kind properties.ServiceKind, props *properties.ServiceProperties) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.props[storeKey{account, kind}] = props
	return nil
}
