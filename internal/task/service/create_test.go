package service

import (
	"context"
	"time"

	"go.uber.org/mock/gomock"

	"saasbase/internal/authz"
	"saasbase/internal/task/models"
	userModels "saasbase/internal/user/models"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/audit"
	"saasbase/pkg/platform/sentinel"
)

func (s *TaskServiceSuite) TestCreate() {
	s.Run("creates with defaults and records the audit entry", func() {
		s.expectProject()
		var stored *models.Task
		s.mockTasks.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, t *models.Task) error {
			stored = t
			return nil
		})
		s.mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Entry) error {
			s.Equal(audit.ActionCreateTask, e.Action)
			s.Equal(audit.EntityTask, e.EntityType)
			s.Equal(s.creator.UserID(), e.UserID)
			return nil
		})

		task, err := s.service.Create(s.ctx, s.creator, s.projectID, CreateCommand{Title: "  Design mockups "})
		s.Require().NoError(err)
		s.Same(stored, task)
		s.Equal("Design mockups", task.Title)
		s.Equal(models.StatusTodo, task.Status)
		s.Equal(models.PriorityMedium, task.Priority)
		s.Equal(s.tenantID, task.TenantID)
		s.Nil(task.AssignedTo)
	})

	s.Run("assignee and due date", func() {
		assignee := s.assignee.UserID()
		s.expectProject()
		s.mockMembers.EXPECT().FindInTenant(gomock.Any(), s.tenantID, assignee).Return(&userModels.User{ID: assignee}, nil)
		s.mockTasks.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		s.mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

		task, err := s.service.Create(s.ctx, s.creator, s.projectID, CreateCommand{
			Title: "Launch", Priority: "high", AssignedTo: assignee.String(), DueDate: "2026-07-01",
		})
		s.Require().NoError(err)
		s.Equal(models.PriorityHigh, task.Priority)
		s.Equal(&assignee, task.AssignedTo)
		s.Require().NotNil(task.DueDate)
		s.True(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC).Equal(*task.DueDate))
	})

	s.Run("project of another tenant is not found", func() {
		s.mockProjects.EXPECT().FindInTenant(gomock.Any(), s.tenantID, s.projectID).
			Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Create(s.ctx, s.creator, s.projectID, CreateCommand{Title: "x"})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.EqualError(err, "project not found")
	})

	s.Run("assignee outside the tenant is rejected", func() {
		outsider := id.NewUserID()
		s.expectProject()
		s.mockMembers.EXPECT().FindInTenant(gomock.Any(), s.tenantID, outsider).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Create(s.ctx, s.creator, s.projectID, CreateCommand{Title: "x", AssignedTo: outsider.String()})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
		s.EqualError(err, "assignee must belong to this tenant")
	})

	s.Run("invalid input never reaches the stores", func() {
		for _, cmd := range []CreateCommand{
			{Title: " "},
			{Title: "x", Priority: "urgent"},
			{Title: "x", AssignedTo: "bob"},
			{Title: "x", DueDate: "01/07/2026"},
		} {
			_, err := s.service.Create(s.ctx, s.creator, s.projectID, cmd)
			s.Error(err)
			s.False(dErrors.HasCode(err, dErrors.CodeInternal), cmd)
		}
	})

	s.Run("super-admins are not tenant members", func() {
		_, err := s.service.Create(s.ctx, authz.SuperAdmin{ID: id.NewUserID()}, s.projectID, CreateCommand{Title: "x"})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("audit failure fails the create", func() {
		s.expectProject()
		s.mockTasks.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		s.mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(assertErr)

		_, err := s.service.Create(s.ctx, s.creator, s.projectID, CreateCommand{Title: "x"})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *TaskServiceSuite) TestList() {
	s.Run("filters pass through", func() {
		assignee := s.assignee.UserID()
		s.expectProject()
		s.mockTasks.EXPECT().ListByProject(gomock.Any(), s.tenantID, s.projectID, models.ListFilter{
			Status: models.StatusInProgress, AssignedTo: &assignee,
		}).Return(nil, nil)

		tasks, err := s.service.List(s.ctx, s.bystander, nil, s.projectID, ListQuery{Status: "in_progress", AssignedTo: assignee.String()})
		s.Require().NoError(err)
		s.NotNil(tasks)
		s.Empty(tasks)
	})

	s.Run("unknown project", func() {
		s.mockProjects.EXPECT().FindInTenant(gomock.Any(), s.tenantID, s.projectID).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.List(s.ctx, s.bystander, nil, s.projectID, ListQuery{})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("bad status filter", func() {
		_, err := s.service.List(s.ctx, s.bystander, nil, s.projectID, ListQuery{Status: "blocked"})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("cross-tenant request", func() {
		other := id.NewTenantID()
		_, err := s.service.List(s.ctx, s.bystander, &other, s.projectID, ListQuery{})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}
