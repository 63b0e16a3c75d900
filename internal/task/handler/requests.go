package handler

import (
	"saasbase/internal/task/service"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/validation"
)

type CreateTaskRequest struct {
	// ProjectID is read only on POST /tasks; the nested route takes it from the path.
	ProjectID   string `json:"projectId"`
	Title       string `json:"title" validate:"required,notblank"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	AssignedTo  string `json:"assignedTo"`
	DueDate     string `json:"dueDate"`
}

func (r *CreateTaskRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

func (r *CreateTaskRequest) toCommand() service.CreateCommand {
	return service.CreateCommand{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		AssignedTo:  r.AssignedTo,
		DueDate:     r.DueDate,
	}
}

// UpdateTaskRequest fields are optional. An empty assignedTo unassigns the
// task and an empty dueDate clears it.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	AssignedTo  *string `json:"assignedTo"`
	DueDate     *string `json:"dueDate"`
}

func (r *UpdateTaskRequest) Validate() error {
	if r == nil || (r.Title == nil && r.Description == nil && r.Priority == nil && r.AssignedTo == nil && r.DueDate == nil) {
		return dErrors.New(dErrors.CodeBadRequest, "nothing to update")
	}
	return nil
}

func (r *UpdateTaskRequest) toCommand() service.UpdateCommand {
	return service.UpdateCommand{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		AssignedTo:  r.AssignedTo,
		DueDate:     r.DueDate,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (r *UpdateStatusRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}
