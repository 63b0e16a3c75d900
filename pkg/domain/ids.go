// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "saasbase/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing UserID where TenantID is expected.
type (
	UserID    uuid.UUID
	TenantID  uuid.UUID
	ProjectID uuid.UUID
	TaskID    uuid.UUID
	AuditID   uuid.UUID
)

// Parse functions - use at trust boundaries (handlers, API inputs, token claims).

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID(s, "user ID")
	return UserID(id), err
}

func ParseTenantID(s string) (TenantID, error) {
	id, err := parseUUID(s, "tenant ID")
	return TenantID(id), err
}

func ParseProjectID(s string) (ProjectID, error) {
	id, err := parseUUID(s, "project ID")
	return ProjectID(id), err
}

func ParseTaskID(s string) (TaskID, error) {
	id, err := parseUUID(s, "task ID")
	return TaskID(id), err
}

// New constructors - use when minting fresh identities.

func NewUserID() UserID       { return UserID(uuid.New()) }
func NewTenantID() TenantID   { return TenantID(uuid.New()) }
func NewProjectID() ProjectID { return ProjectID(uuid.New()) }
func NewTaskID() TaskID       { return TaskID(uuid.New()) }
func NewAuditID() AuditID     { return AuditID(uuid.New()) }

// String methods - for logging and debugging.

func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id TenantID) String() string  { return uuid.UUID(id).String() }
func (id ProjectID) String() string { return uuid.UUID(id).String() }
func (id TaskID) String() string    { return uuid.UUID(id).String() }
func (id AuditID) String() string   { return uuid.UUID(id).String() }

// IsNil checks - used for service-layer validation.

func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id TenantID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ProjectID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id TaskID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id AuditID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets typed IDs serialize as plain UUID strings in JSON.

func (id UserID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id TenantID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id ProjectID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id TaskID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id AuditID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }

func parseUUID(s, label string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, label+" is required")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "invalid "+label)
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, label+" cannot be nil")
	}
	return id, nil
}
