package service

import (
	"strings"
	"time"

	"saasbase/internal/task/models"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/validation"
)

type CreateCommand struct {
	Title       string
	Description string
	// Priority defaults to medium when empty.
	Priority string
	// AssignedTo and DueDate are optional; empty means unset.
	AssignedTo string
	DueDate    string
}

func (c *CreateCommand) Normalize() {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	c.AssignedTo = strings.TrimSpace(c.AssignedTo)
	c.DueDate = strings.TrimSpace(c.DueDate)
}

func (c *CreateCommand) Validate() error {
	if c.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "task title is required")
	}
	if err := validation.CheckStringLength("task title", c.Title, validation.MaxTaskTitleLength); err != nil {
		return err
	}
	return validation.CheckStringLength("description", c.Description, validation.MaxDescriptionLength)
}

type createFields struct {
	priority   models.Priority
	assignedTo *id.UserID
	dueDate    *time.Time
}

func (c *CreateCommand) parse() (createFields, error) {
	var f createFields
	var err error
	if f.priority, err = models.ParsePriority(c.Priority); err != nil {
		return f, err
	}
	if f.assignedTo, err = parseAssignee(c.AssignedTo); err != nil {
		return f, err
	}
	if f.dueDate, err = parseDueDate(c.DueDate); err != nil {
		return f, err
	}
	return f, nil
}

// UpdateCommand carries optional changes; nil fields are left alone. An
// empty AssignedTo unassigns the task and an empty DueDate clears it.
type UpdateCommand struct {
	Title       *string
	Description *string
	Priority    *string
	AssignedTo  *string
	DueDate     *string
}

func (c *UpdateCommand) Normalize() {
	for _, field := range []**string{&c.Title, &c.Description, &c.AssignedTo, &c.DueDate} {
		if *field != nil {
			v := strings.TrimSpace(**field)
			*field = &v
		}
	}
}

func (c *UpdateCommand) Validate() error {
	if c.Title != nil {
		if *c.Title == "" {
			return dErrors.New(dErrors.CodeValidation, "task title must not be blank")
		}
		if err := validation.CheckStringLength("task title", *c.Title, validation.MaxTaskTitleLength); err != nil {
			return err
		}
	}
	if c.Description != nil {
		return validation.CheckStringLength("description", *c.Description, validation.MaxDescriptionLength)
	}
	return nil
}

// apply copies the command onto t and returns the new assignee when the
// assignment changed to a user.
func (c *UpdateCommand) apply(t *models.Task) (*id.UserID, error) {
	if c.Priority != nil {
		p, err := models.ParsePriority(*c.Priority)
		if err != nil {
			return nil, err
		}
		t.Priority = p
	}
	var newAssignee *id.UserID
	if c.AssignedTo != nil {
		a, err := parseAssignee(*c.AssignedTo)
		if err != nil {
			return nil, err
		}
		t.AssignedTo = a
		newAssignee = a
	}
	if c.DueDate != nil {
		d, err := parseDueDate(*c.DueDate)
		if err != nil {
			return nil, err
		}
		t.DueDate = d
	}
	if c.Title != nil {
		t.Title = *c.Title
	}
	if c.Description != nil {
		t.Description = *c.Description
	}
	return newAssignee, nil
}

// ListQuery holds the raw list filters.
type ListQuery struct {
	Status     string
	AssignedTo string
}

func (q ListQuery) toFilter() (models.ListFilter, error) {
	var filter models.ListFilter
	if strings.TrimSpace(q.Status) != "" {
		status, err := models.ParseStatus(q.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = status
	}
	assignee, err := parseAssignee(strings.TrimSpace(q.AssignedTo))
	if err != nil {
		return filter, err
	}
	filter.AssignedTo = assignee
	return filter, nil
}

func parseAssignee(raw string) (*id.UserID, error) {
	if raw == "" {
		return nil, nil
	}
	userID, err := id.ParseUserID(raw)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid assignee id")
	}
	return &userID, nil
}

func parseDueDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "due date must be YYYY-MM-DD")
	}
	return &d, nil
}
