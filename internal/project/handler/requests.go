package handler

import (
	"saasbase/internal/project/service"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/validation"
)

type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,notblank"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (r *CreateProjectRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

func (r *CreateProjectRequest) toCommand() service.CreateCommand {
	return service.CreateCommand{Name: r.Name, Description: r.Description, Status: r.Status}
}

// UpdateProjectRequest fields are optional; absent fields are left unchanged.
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (r *UpdateProjectRequest) Validate() error {
	if r == nil || (r.Name == nil && r.Description == nil && r.Status == nil) {
		return dErrors.New(dErrors.CodeBadRequest, "nothing to update")
	}
	return nil
}

func (r *UpdateProjectRequest) toCommand() service.UpdateCommand {
	return service.UpdateCommand{Name: r.Name, Description: r.Description, Status: r.Status}
}
