package memory

import (
	"context"
	"slices"
	"sync"

	id "saasbase/pkg/domain"
	"saasbase/pkg/platform/audit"
	"saasbase/pkg/platform/tx"
)

// Store is an in-memory audit.Store. Appends made inside a unit of work are
// withdrawn if the unit rolls back.
type Store struct {
	mu      sync.RWMutex
	entries []audit.Entry
}

func New() *Store {
	return &Store{}
}

func (s *Store) Append(ctx context.Context, entry audit.Entry) error {
	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()

	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.entries = slices.DeleteFunc(s.entries, func(e audit.Entry) bool { return e.ID == entry.ID })
	})
	return nil
}

// ListByTenant returns the tenant's entries newest first.
func (s *Store) ListByTenant(_ context.Context, tenantID id.TenantID, limit int) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []audit.Entry
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].TenantID != tenantID {
			continue
		}
		out = append(out, s.entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// All returns every entry in append order.
func (s *Store) All() []audit.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}
