package models

import (
	"strings"
	"time"

	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return s, nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid status")
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority defaults an empty value to medium.
func ParsePriority(raw string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid priority")
	}
}

// Rank orders priorities for listing; lower ranks come first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// DateLayout is the wire format of due dates.
const DateLayout = "2006-01-02"

// Task is a unit of work inside a project. TenantID always equals the
// project's tenant.
type Task struct {
	ID          id.TaskID    `json:"id"`
	ProjectID   id.ProjectID `json:"projectId"`
	TenantID    id.TenantID  `json:"tenantId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      Status       `json:"status"`
	Priority    Priority     `json:"priority"`
	AssignedTo  *id.UserID   `json:"assignedTo"`
	CreatedBy   *id.UserID   `json:"createdBy"`
	DueDate     *time.Time   `json:"dueDate"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func NewTask(taskID id.TaskID, projectID id.ProjectID, tenantID id.TenantID, title, description string, priority Priority, createdBy id.UserID, now time.Time) (*Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "task title cannot be empty")
	}
	if projectID.IsNil() || tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "task needs a project and a tenant")
	}
	if priority == "" {
		priority = PriorityMedium
	}
	return &Task{
		ID:          taskID,
		ProjectID:   projectID,
		TenantID:    tenantID,
		Title:       title,
		Description: description,
		Status:      StatusTodo,
		Priority:    priority,
		CreatedBy:   &createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Owners lists the users besides admins who may modify t.
func (t *Task) Owners() []*id.UserID {
	return []*id.UserID{t.CreatedBy, t.AssignedTo}
}

// Less orders tasks by priority (high first), then due date with undated
// tasks last, then newest first.
func Less(a, b *Task) int {
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra - rb
	}
	switch {
	case a.DueDate == nil && b.DueDate != nil:
		return 1
	case a.DueDate != nil && b.DueDate == nil:
		return -1
	case a.DueDate != nil && b.DueDate != nil:
		if c := a.DueDate.Compare(*b.DueDate); c != 0 {
			return c
		}
	}
	return b.CreatedAt.Compare(a.CreatedAt)
}

// ListFilter narrows task listings. Zero values match everything.
type ListFilter struct {
	Status     Status
	AssignedTo *id.UserID
}

func (f ListFilter) Matches(t *Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.AssignedTo != nil && (t.AssignedTo == nil || *t.AssignedTo != *f.AssignedTo) {
		return false
	}
	return true
}
