package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"saasbase/internal/user/models"
	id "saasbase/pkg/domain"
	"saasbase/pkg/platform/sentinel"
	"saasbase/pkg/platform/tx"
)

// InMemory keeps users in process memory with the same uniqueness rules as
// the PostgreSQL indexes: email per tenant, and email among super-admins.
type InMemory struct {
	mu       sync.RWMutex
	users    map[id.UserID]models.User
	emailIdx map[string]id.UserID
}

func NewInMemory() *InMemory {
	return &InMemory{
		users:    make(map[id.UserID]models.User),
		emailIdx: make(map[string]id.UserID),
	}
}

func emailKey(tenantID *id.TenantID, email string) string {
	if tenantID == nil {
		return "*|" + email
	}
	return tenantID.String() + "|" + email
}

func (s *InMemory) Create(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is required")
	}
	key := emailKey(u.TenantID, u.Email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.emailIdx[key]; exists {
		return fmt.Errorf("email %q: %w", u.Email, sentinel.ErrAlreadyUsed)
	}
	s.users[u.ID] = *u
	s.emailIdx[key] = u.ID

	userID := u.ID
	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.users, userID)
		delete(s.emailIdx, key)
	})
	return nil
}

func (s *InMemory) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	return &u, nil
}

// FindInTenant hides users of other tenants behind ErrNotFound.
func (s *InMemory) FindInTenant(ctx context.Context, tenantID id.TenantID, userID id.UserID) (*models.User, error) {
	u, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.BelongsTo(tenantID) {
		return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	return u, nil
}

func (s *InMemory) FindByTenantAndEmail(_ context.Context, tenantID id.TenantID, email string) (*models.User, error) {
	return s.findByKey(emailKey(&tenantID, email))
}

func (s *InMemory) FindSuperAdminByEmail(_ context.Context, email string) (*models.User, error) {
	return s.findByKey(emailKey(nil, email))
}

func (s *InMemory) findByKey(key string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.emailIdx[key]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	u := s.users[userID]
	return &u, nil
}

// ListByTenant returns matching members, newest first.
func (s *InMemory) ListByTenant(_ context.Context, tenantID id.TenantID, filter models.ListFilter) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.User
	for _, u := range s.users {
		if u.BelongsTo(tenantID) && filter.Matches(&u) {
			out = append(out, &u)
		}
	}
	slices.SortFunc(out, func(a, b *models.User) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (s *InMemory) CountByTenant(_ context.Context, tenantID id.TenantID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, u := range s.users {
		if u.BelongsTo(tenantID) {
			count++
		}
	}
	return count, nil
}

// NamesByIDs maps the tenant's members among userIDs to their full names.
func (s *InMemory) NamesByIDs(_ context.Context, tenantID id.TenantID, userIDs []id.UserID) (map[id.UserID]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make(map[id.UserID]string, len(userIDs))
	for _, userID := range userIDs {
		if u, ok := s.users[userID]; ok && u.BelongsTo(tenantID) {
			names[userID] = u.FullName
		}
	}
	return names, nil
}

// Update stores the mutable fields of u: full name, role, active flag and hash.
func (s *InMemory) Update(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.users[u.ID]
	if !ok {
		return fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	next := prev
	next.FullName = u.FullName
	next.Role = u.Role
	next.IsActive = u.IsActive
	next.PasswordHash = u.PasswordHash
	next.UpdatedAt = u.UpdatedAt
	s.users[u.ID] = next

	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.users[prev.ID] = prev
	})
	return nil
}

func (s *InMemory) Delete(ctx context.Context, tenantID id.TenantID, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.users[userID]
	if !ok || !prev.BelongsTo(tenantID) {
		return fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	key := emailKey(prev.TenantID, prev.Email)
	delete(s.users, userID)
	delete(s.emailIdx, key)

	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.users[prev.ID] = prev
		s.emailIdx[key] = prev.ID
	})
	return nil
}
