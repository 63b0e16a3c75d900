package service

import (
	"strings"

	"saasbase/internal/project/models"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/validation"
)

type CreateCommand struct {
	Name        string
	Description string
	// Status defaults to active when empty.
	Status string
}

func (c *CreateCommand) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
}

func (c *CreateCommand) Validate() error {
	if c.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "project name is required")
	}
	if err := validation.CheckStringLength("project name", c.Name, validation.MaxProjectNameLength); err != nil {
		return err
	}
	return validation.CheckStringLength("description", c.Description, validation.MaxDescriptionLength)
}

func (c *CreateCommand) status() (models.Status, error) {
	if strings.TrimSpace(c.Status) == "" {
		return models.StatusActive, nil
	}
	return models.ParseStatus(c.Status)
}

// UpdateCommand carries optional changes; nil fields are left alone.
type UpdateCommand struct {
	Name        *string
	Description *string
	Status      *string
}

func (c *UpdateCommand) Normalize() {
	c.Name = trimmed(c.Name)
	c.Description = trimmed(c.Description)
}

func (c *UpdateCommand) Validate() error {
	if c.Name != nil {
		if *c.Name == "" {
			return dErrors.New(dErrors.CodeValidation, "project name must not be blank")
		}
		if err := validation.CheckStringLength("project name", *c.Name, validation.MaxProjectNameLength); err != nil {
			return err
		}
	}
	if c.Description != nil {
		if err := validation.CheckStringLength("description", *c.Description, validation.MaxDescriptionLength); err != nil {
			return err
		}
	}
	if c.Status != nil {
		if _, err := models.ParseStatus(*c.Status); err != nil {
			return err
		}
	}
	return nil
}

func (c *UpdateCommand) apply(p *models.Project) {
	if c.Name != nil {
		p.Name = *c.Name
	}
	if c.Description != nil {
		p.Description = *c.Description
	}
	if c.Status != nil {
		// Validate already rejected unknown statuses.
		p.Status, _ = models.ParseStatus(*c.Status)
	}
}

// ListQuery holds the raw list filters.
type ListQuery struct {
	Status string
	Search string
}

func (q ListQuery) toFilter() (models.ListFilter, error) {
	search := strings.TrimSpace(q.Search)
	if err := validation.CheckStringLength("search", search, validation.MaxSearchLength); err != nil {
		return models.ListFilter{}, err
	}
	filter := models.ListFilter{Search: search}
	if strings.TrimSpace(q.Status) != "" {
		status, err := models.ParseStatus(q.Status)
		if err != nil {
			return models.ListFilter{}, err
		}
		filter.Status = status
	}
	return filter, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
