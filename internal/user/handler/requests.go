package handler

import (
	"saasbase/internal/user/service"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/validation"
)

type AddUserRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"fullName" validate:"required,notblank"`
	Role     string `json:"role"`
}

func (r *AddUserRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

func (r *AddUserRequest) toCommand() service.AddUserCommand {
	return service.AddUserCommand{
		Email:    r.Email,
		Password: r.Password,
		FullName: r.FullName,
		Role:     id.Role(r.Role),
	}
}

// UpdateUserRequest fields are optional; absent fields are left unchanged.
type UpdateUserRequest struct {
	FullName *string `json:"fullName"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

func (r *UpdateUserRequest) Validate() error {
	if r == nil || (r.FullName == nil && r.Role == nil && r.IsActive == nil) {
		return dErrors.New(dErrors.CodeBadRequest, "nothing to update")
	}
	return nil
}

func (r *UpdateUserRequest) toCommand() service.UpdateUserCommand {
	cmd := service.UpdateUserCommand{FullName: r.FullName, IsActive: r.IsActive}
	if r.Role != nil {
		role := id.Role(*r.Role)
		cmd.Role = &role
	}
	return cmd
}
