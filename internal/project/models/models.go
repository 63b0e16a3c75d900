package models

import (
	"strings"
	"time"

	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusArchived  Status = "archived"
	StatusCompleted Status = "completed"
)

// ParseStatus accepts the known project statuses, case-insensitively.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusActive, StatusArchived, StatusCompleted:
		return s, nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid project status")
	}
}

// Project belongs to exactly one tenant. CreatedBy becomes nil when the
// creator is deleted.
type Project struct {
	ID          id.ProjectID `json:"id"`
	TenantID    id.TenantID  `json:"tenantId"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Status      Status       `json:"status"`
	CreatedBy   *id.UserID   `json:"createdBy"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func NewProject(projectID id.ProjectID, tenantID id.TenantID, name, description string, status Status, createdBy id.UserID, now time.Time) (*Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "project name cannot be empty")
	}
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "project needs a tenant")
	}
	if status == "" {
		status = StatusActive
	}
	return &Project{
		ID:          projectID,
		TenantID:    tenantID,
		Name:        name,
		Description: description,
		Status:      status,
		CreatedBy:   &createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CreatedByUser reports whether userID created p.
func (p *Project) CreatedByUser(userID id.UserID) bool {
	return p.CreatedBy != nil && *p.CreatedBy == userID
}

// Summary is a project as listed: with the creator's name and its task count.
type Summary struct {
	*Project
	CreatorName string `json:"creatorName"`
	TaskCount   int    `json:"taskCount"`
}

// ListFilter narrows project listings. Zero values match everything.
type ListFilter struct {
	Status Status
	// Search matches the project name, case-insensitively.
	Search string
}

func (f ListFilter) Matches(p *Project) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	return f.Search == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search))
}
