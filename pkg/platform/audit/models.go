package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "saasbase/pkg/domain"
)

// Action names a mutation recorded in the audit trail.
type Action string

const (
	ActionCreateUser     Action = "CREATE_USER"
	ActionUpdateUser     Action = "UPDATE_USER"
	ActionDeleteUser     Action = "DELETE_USER"
	ActionCreateProject  Action = "CREATE_PROJECT"
	ActionUpdateProject  Action = "UPDATE_PROJECT"
	ActionDeleteProject  Action = "DELETE_PROJECT"
	ActionCreateTask     Action = "CREATE_TASK"
	ActionUpdateTask     Action = "UPDATE_TASK"
	ActionDeleteTask     Action = "DELETE_TASK"
	ActionUpgradePlan    Action = "UPGRADE_PLAN"
	ActionUpdateTenant   Action = "UPDATE_TENANT"
	ActionSuspendTenant  Action = "SUSPEND_TENANT"
	ActionActivateTenant Action = "ACTIVATE_TENANT"
	ActionLogin          Action = "LOGIN"
	ActionLogout         Action = "LOGOUT"
)

// EntityType names the kind of row an entry refers to.
type EntityType string

const (
	EntityTenant  EntityType = "tenant"
	EntityUser    EntityType = "user"
	EntityProject EntityType = "project"
	EntityTask    EntityType = "task"
)

// Entry is one append-only audit row. Neither UserID nor EntityID carries a
// foreign key, so entries outlive the actor and the entity they describe.
type Entry struct {
	ID         id.AuditID  `json:"id"`
	TenantID   id.TenantID `json:"tenantId"`
	UserID     id.UserID   `json:"userId"`
	Action     Action      `json:"action"`
	EntityType EntityType  `json:"entityType"`
	EntityID   uuid.UUID   `json:"entityId"`
	IPAddress  string      `json:"ipAddress,omitempty"`
	UserAgent  string      `json:"userAgent,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// Store persists entries. It has no update or delete.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListByTenant(ctx context.Context, tenantID id.TenantID, limit int) ([]Entry, error)
}

// Mirror receives committed entries for downstream consumers.
type Mirror interface {
	Publish(ctx context.Context, entry Entry) error
}
