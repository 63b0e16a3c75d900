package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"saasbase/internal/project/models"
	id "saasbase/pkg/domain"
	"saasbase/pkg/platform/sentinel"
	"saasbase/pkg/platform/tx"
)

// InMemory keeps projects in process memory. Writes register undo steps
// with the surrounding unit of work.
type InMemory struct {
	mu       sync.RWMutex
	projects map[id.ProjectID]models.Project
}

func NewInMemory() *InMemory {
	return &InMemory{projects: make(map[id.ProjectID]models.Project)}
}

func (s *InMemory) Create(ctx context.Context, p *models.Project) error {
	if p == nil {
		return fmt.Errorf("project is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.projects[p.ID]; exists {
		return fmt.Errorf("project %s: %w", p.ID, sentinel.ErrAlreadyUsed)
	}
	s.projects[p.ID] = *p

	projectID := p.ID
	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.projects, projectID)
	})
	return nil
}

// FindInTenant hides projects of other tenants behind ErrNotFound.
func (s *InMemory) FindInTenant(_ context.Context, tenantID id.TenantID, projectID id.ProjectID) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[projectID]
	if !ok || p.TenantID != tenantID {
		return nil, fmt.Errorf("project not found: %w", sentinel.ErrNotFound)
	}
	return &p, nil
}

// ListByTenant returns matching projects, newest first.
func (s *InMemory) ListByTenant(_ context.Context, tenantID id.TenantID, filter models.ListFilter) ([]*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Project
	for _, p := range s.projects {
		if p.TenantID == tenantID && filter.Matches(&p) {
			out = append(out, &p)
		}
	}
	slices.SortFunc(out, func(a, b *models.Project) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (s *InMemory) CountByTenant(_ context.Context, tenantID id.TenantID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, p := range s.projects {
		if p.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

// Update stores name, description, status and UpdatedAt.
func (s *InMemory) Update(ctx context.Context, p *models.Project) error {
	if p == nil {
		return fmt.Errorf("project is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.projects[p.ID]
	if !ok || prev.TenantID != p.TenantID {
		return fmt.Errorf("project not found: %w", sentinel.ErrNotFound)
	}
	next := prev
	next.Name = p.Name
	next.Description = p.Description
	next.Status = p.Status
	next.UpdatedAt = p.UpdatedAt
	s.projects[p.ID] = next

	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.projects[prev.ID] = prev
	})
	return nil
}

func (s *InMemory) Delete(ctx context.Context, tenantID id.TenantID, projectID id.ProjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.projects[projectID]
	if !ok || prev.TenantID != tenantID {
		return fmt.Errorf("project not found: %w", sentinel.ErrNotFound)
	}
	delete(s.projects, projectID)

	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.projects[prev.ID] = prev
	})
	return nil
}

// ReleaseUser clears the creator of every project userID created.
func (s *InMemory) ReleaseUser(ctx context.Context, tenantID id.TenantID, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var released []id.ProjectID
	for pid, p := range s.projects {
		if p.TenantID == tenantID && p.CreatedByUser(userID) {
			p.CreatedBy = nil
			s.projects[pid] = p
			released = append(released, pid)
		}
	}
	if len(released) == 0 {
		return nil
	}
	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, pid := range released {
			if p, ok := s.projects[pid]; ok {
				creator := userID
				p.CreatedBy = &creator
				s.projects[pid] = p
			}
		}
	})
	return nil
}
