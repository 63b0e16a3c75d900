package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"saasbase/internal/task/models"
	id "saasbase/pkg/domain"
	"saasbase/pkg/platform/sentinel"
	"saasbase/pkg/platform/tx"
)

// InMemory keeps tasks in process memory.
type InMemory struct {
	mu    sync.RWMutex
	tasks map[id.TaskID]models.Task
}

func NewInMemory() *InMemory {
	return &InMemory{tasks: make(map[id.TaskID]models.Task)}
}

func (s *InMemory) Create(ctx context.Context, t *models.Task) error {
	if t == nil {
		return fmt.Errorf("task is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[t.ID]; exists {
		return fmt.Errorf("task %s: %w", t.ID, sentinel.ErrAlreadyUsed)
	}
	s.tasks[t.ID] = *t

	taskID := t.ID
	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.tasks, taskID)
	})
	return nil
}

func (s *InMemory) FindInTenant(_ context.Context, tenantID id.TenantID, taskID id.TaskID) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[taskID]
	if !ok || t.TenantID != tenantID {
		return nil, fmt.Errorf("task not found: %w", sentinel.ErrNotFound)
	}
	return &t, nil
}

// ListByProject returns matching tasks in listing order (see models.Less).
func (s *InMemory) ListByProject(_ context.Context, tenantID id.TenantID, projectID id.ProjectID, filter models.ListFilter) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Task
	for _, t := range s.tasks {
		if t.TenantID == tenantID && t.ProjectID == projectID && filter.Matches(&t) {
			out = append(out, &t)
		}
	}
	slices.SortFunc(out, models.Less)
	return out, nil
}

func (s *InMemory) CountByProjects(_ context.Context, tenantID id.TenantID, projectIDs []id.ProjectID) (map[id.ProjectID]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[id.ProjectID]int, len(projectIDs))
	for _, t := range s.tasks {
		if t.TenantID == tenantID && slices.Contains(projectIDs, t.ProjectID) {
			counts[t.ProjectID]++
		}
	}
	return counts, nil
}

// Update stores every mutable field of t.
func (s *InMemory) Update(ctx context.Context, t *models.Task) error {
	if t == nil {
		return fmt.Errorf("task is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.tasks[t.ID]
	if !ok || prev.TenantID != t.TenantID {
		return fmt.Errorf("task not found: %w", sentinel.ErrNotFound)
	}
	next := prev
	next.Title = t.Title
	next.Description = t.Description
	next.Status = t.Status
	next.Priority = t.Priority
	next.AssignedTo = t.AssignedTo
	next.DueDate = t.DueDate
	next.UpdatedAt = t.UpdatedAt
	s.tasks[t.ID] = next

	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.tasks[prev.ID] = prev
	})
	return nil
}

func (s *InMemory) Delete(ctx context.Context, tenantID id.TenantID, taskID id.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.tasks[taskID]
	if !ok || prev.TenantID != tenantID {
		return fmt.Errorf("task not found: %w", sentinel.ErrNotFound)
	}
	delete(s.tasks, taskID)

	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.tasks[prev.ID] = prev
	})
	return nil
}

// DeleteByProject removes every task of a project and reports how many went.
func (s *InMemory) DeleteByProject(ctx context.Context, tenantID id.TenantID, projectID id.ProjectID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []models.Task
	for tid, t := range s.tasks {
		if t.TenantID == tenantID && t.ProjectID == projectID {
			removed = append(removed, t)
			delete(s.tasks, tid)
		}
	}
	if len(removed) > 0 {
		tx.OnRollback(ctx, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for _, t := range removed {
				s.tasks[t.ID] = t
			}
		})
	}
	return len(removed), nil
}

// ReleaseUser unassigns the user's tasks and clears their creator column.
func (s *InMemory) ReleaseUser(ctx context.Context, tenantID id.TenantID, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var prev []models.Task
	for tid, t := range s.tasks {
		if t.TenantID != tenantID {
			continue
		}
		assigned := t.AssignedTo != nil && *t.AssignedTo == userID
		created := t.CreatedBy != nil && *t.CreatedBy == userID
		if !assigned && !created {
			continue
		}
		prev = append(prev, t)
		if assigned {
			t.AssignedTo = nil
		}
		if created {
			t.CreatedBy = nil
		}
		s.tasks[tid] = t
	}
	if len(prev) > 0 {
		tx.OnRollback(ctx, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for _, t := range prev {
				s.tasks[t.ID] = t
			}
		})
	}
	return nil
}
