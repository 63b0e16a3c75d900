package handler

import (
	"saasbase/internal/auth/service"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/validation"
)

type LoginRequest struct {
	Email     string `json:"email" validate:"required,notblank"`
	Password  string `json:"password" validate:"required"`
	Subdomain string `json:"subdomain"`
}

func (r *LoginRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

func (r *LoginRequest) toCommand() service.LoginCommand {
	return service.LoginCommand{
		Email:     r.Email,
		Password:  r.Password,
		Subdomain: r.Subdomain,
	}
}
