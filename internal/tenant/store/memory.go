package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"saasbase/internal/tenant/models"
	id "saasbase/pkg/domain"
	"saasbase/pkg/platform/sentinel"
	"saasbase/pkg/platform/tx"
)

// InMemory keeps tenants in process memory. Writes made inside a unit of work
// register undo actions so a rollback leaves no trace.
type InMemory struct {
	mu           sync.RWMutex
	tenants      map[id.TenantID]models.Tenant
	subdomainIdx map[string]id.TenantID
}

func NewInMemory() *InMemory {
	return &InMemory{
		tenants:      make(map[id.TenantID]models.Tenant),
		subdomainIdx: make(map[string]id.TenantID),
	}
}

// CreateIfSubdomainAvailable inserts t unless its subdomain is taken.
func (s *InMemory) CreateIfSubdomainAvailable(ctx context.Context, t *models.Tenant) error {
	if t == nil {
		return fmt.Errorf("tenant is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.subdomainIdx[t.Subdomain]; exists {
		return fmt.Errorf("subdomain %q: %w", t.Subdomain, sentinel.ErrAlreadyUsed)
	}
	s.tenants[t.ID] = *t
	s.subdomainIdx[t.Subdomain] = t.ID

	tenantID, subdomain := t.ID, t.Subdomain
	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.tenants, tenantID)
		delete(s.subdomainIdx, subdomain)
	})
	return nil
}

func (s *InMemory) FindByID(_ context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tenants[tenantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &t, nil
}

func (s *InMemory) FindBySubdomain(_ context.Context, subdomain string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tenantID, ok := s.subdomainIdx[subdomain]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	t := s.tenants[tenantID]
	return &t, nil
}

// List returns every tenant, newest first.
func (s *InMemory) List(_ context.Context) ([]*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		out = append(out, &t)
	}
	slices.SortFunc(out, func(a, b *models.Tenant) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

// Update replaces the stored tenant. The subdomain is immutable.
func (s *InMemory) Update(ctx context.Context, t *models.Tenant) error {
	if t == nil {
		return fmt.Errorf("tenant is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.tenants[t.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	next := *t
	next.Subdomain = prev.Subdomain
	s.tenants[t.ID] = next

	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.tenants[prev.ID] = prev
	})
	return nil
}

// LockLimits reads the tenant's quotas. The in-memory runner already
// serializes units of work, so no row lock is needed.
func (s *InMemory) LockLimits(_ context.Context, tenantID id.TenantID) (models.Limits, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tenants[tenantID]
	if !ok {
		return models.Limits{}, sentinel.ErrNotFound
	}
	return t.Limits(), nil
}
