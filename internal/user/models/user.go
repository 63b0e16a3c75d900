package models

import (
	"strings"
	"time"

	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
)

// User is an account. TenantID is nil exactly when Role is super_admin.
type User struct {
	ID           id.UserID    `json:"id"`
	TenantID     *id.TenantID `json:"tenantId"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	FullName     string       `json:"fullName"`
	Role         id.Role      `json:"role"`
	IsActive     bool         `json:"isActive"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewTenantUser creates an active member of tenantID.
func NewTenantUser(userID id.UserID, tenantID id.TenantID, email, passwordHash, fullName string, role id.Role, now time.Time) (*User, error) {
	if !role.IsTenantRole() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "role must be tenant_admin or user")
	}
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant members need a tenant")
	}
	u, err := newUser(userID, email, passwordHash, fullName, role, now)
	if err != nil {
		return nil, err
	}
	u.TenantID = &tenantID
	return u, nil
}

// NewSuperAdmin creates a platform-wide administrator with no tenant.
func NewSuperAdmin(userID id.UserID, email, passwordHash, fullName string, now time.Time) (*User, error) {
	return newUser(userID, email, passwordHash, fullName, id.RoleSuperAdmin, now)
}

func newUser(userID id.UserID, email, passwordHash, fullName string, role id.Role, now time.Time) (*User, error) {
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "email cannot be empty")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash cannot be empty")
	}
	if strings.TrimSpace(fullName) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "full name cannot be empty")
	}
	return &User{
		ID:           userID,
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		FullName:     fullName,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) IsSuperAdmin() bool {
	return u.Role == id.RoleSuperAdmin
}

// BelongsTo reports whether u is a member of tenantID.
func (u *User) BelongsTo(tenantID id.TenantID) bool {
	return u.TenantID != nil && *u.TenantID == tenantID
}

// ListFilter narrows tenant user listings. Zero values match everything.
type ListFilter struct {
	// Search matches email or full name, case-insensitively.
	Search string
	Role   id.Role
}

// Matches applies the filter in memory.
func (f ListFilter) Matches(u *User) bool {
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(u.Email), needle) ||
		strings.Contains(strings.ToLower(u.FullName), needle)
}
