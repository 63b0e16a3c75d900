package models

import (
	"strings"

	dErrors "saasbase/pkg/domain-errors"
)

// Plan is a subscription tier.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// Limits are the per-tenant quotas a plan grants.
type Limits struct {
	MaxUsers    int
	MaxProjects int
}

var planLimits = map[Plan]Limits{
	PlanFree:       {MaxUsers: 5, MaxProjects: 3},
	PlanPro:        {MaxUsers: 20, MaxProjects: 10},
	PlanEnterprise: {MaxUsers: 100, MaxProjects: 50},
}

// ParsePlan accepts a plan name case-insensitively.
func ParsePlan(raw string) (Plan, error) {
	plan := Plan(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := planLimits[plan]; !ok {
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid plan")
	}
	return plan, nil
}

func (p Plan) IsValid() bool {
	_, ok := planLimits[p]
	return ok
}

// Limits returns the plan's quotas; unknown plans get none.
func (p Plan) Limits() Limits {
	return planLimits[p]
}
