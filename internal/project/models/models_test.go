package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
)

func TestNewProject(t *testing.T) {
	creator := id.NewUserID()
	p, err := NewProject(id.NewProjectID(), id.NewTenantID(), "Website", "", "", creator, time.Now())
	require.NoError(t, err)
	assert.Equal(t, StatusActive, p.Status)
	assert.True(t, p.CreatedByUser(creator))
	assert.False(t, p.CreatedByUser(id.NewUserID()))

	_, err = NewProject(id.NewProjectID(), id.NewTenantID(), "  ", "", "", creator, time.Now())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = NewProject(id.NewProjectID(), id.TenantID{}, "Website", "", "", creator, time.Now())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Archived")
	require.NoError(t, err)
	assert.Equal(t, StatusArchived, s)

	_, err = ParseStatus("deleted")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestListFilter(t *testing.T) {
	p := &Project{Name: "Website Redesign", Status: StatusActive}
	assert.True(t, ListFilter{}.Matches(p))
	assert.True(t, ListFilter{Search: "redesign"}.Matches(p))
	assert.False(t, ListFilter{Search: "mobile"}.Matches(p))
	assert.False(t, ListFilter{Status: StatusArchived}.Matches(p))
}

func TestSummaryFlattensProject(t *testing.T) {
	p, err := NewProject(id.NewProjectID(), id.NewTenantID(), "Website", "", "", id.NewUserID(), time.Now())
	require.NoError(t, err)

	raw, err := json.Marshal(Summary{Project: p, CreatorName: "Jane", TaskCount: 2})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "Website", out["name"])
	assert.Equal(t, "Jane", out["creatorName"])
	assert.EqualValues(t, 2, out["taskCount"])
}
