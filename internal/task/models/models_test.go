package models

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
)

func TestNewTask(t *testing.T) {
	creator := id.NewUserID()
	task, err := NewTask(id.NewTaskID(), id.NewProjectID(), id.NewTenantID(), "Design mockups", "", "", creator, time.Now())
	require.NoError(t, err)
	assert.Equal(t, StatusTodo, task.Status)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Nil(t, task.AssignedTo)
	assert.Equal(t, []*id.UserID{task.CreatedBy, nil}, task.Owners())

	_, err = NewTask(id.NewTaskID(), id.NewProjectID(), id.NewTenantID(), "", "", "", creator, time.Now())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = NewTask(id.NewTaskID(), id.ProjectID{}, id.NewTenantID(), "x", "", "", creator, time.Now())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestParse(t *testing.T) {
	s, err := ParseStatus("IN_PROGRESS")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)
	_, err = ParseStatus("done")
	assert.EqualError(t, err, "invalid status")

	p, err := ParsePriority("")
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, p)
	_, err = ParsePriority("urgent")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestLessOrdersByPriorityThenDueDate(t *testing.T) {
	day := func(d int) *time.Time {
		v := time.Date(2026, 5, d, 0, 0, 0, 0, time.UTC)
		return &v
	}
	tasks := []*Task{
		{Title: "low-early", Priority: PriorityLow, DueDate: day(1)},
		{Title: "high-undated", Priority: PriorityHigh},
		{Title: "medium-late", Priority: PriorityMedium, DueDate: day(20)},
		{Title: "high-late", Priority: PriorityHigh, DueDate: day(15)},
		{Title: "high-early", Priority: PriorityHigh, DueDate: day(2)},
	}
	slices.SortFunc(tasks, Less)

	var titles []string
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"high-early", "high-late", "high-undated", "medium-late", "low-early"}, titles)
}

func TestListFilter(t *testing.T) {
	assignee := id.NewUserID()
	task := &Task{Status: StatusTodo, AssignedTo: &assignee}
	other := id.NewUserID()

	assert.True(t, ListFilter{}.Matches(task))
	assert.True(t, ListFilter{Status: StatusTodo, AssignedTo: &assignee}.Matches(task))
	assert.False(t, ListFilter{Status: StatusCompleted}.Matches(task))
	assert.False(t, ListFilter{AssignedTo: &other}.Matches(task))
	assert.False(t, ListFilter{AssignedTo: &assignee}.Matches(&Task{}))
}
