package service

import (
	"errors"

	"go.uber.org/mock/gomock"

	"saasbase/internal/authz"
	"saasbase/internal/task/models"
	userModels "saasbase/internal/user/models"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/sentinel"
)

var assertErr = errors.New("store unavailable")

func strPtr(s string) *string { return &s }

func (s *TaskServiceSuite) TestUpdatePermissions() {
	for _, tc := range []struct {
		name    string
		caller  func() authz.Principal
		allowed bool
	}{
		{"admin", func() authz.Principal { return s.admin }, true},
		{"creator", func() authz.Principal { return s.creator }, true},
		{"assignee", func() authz.Principal { return s.assignee }, true},
		{"bystander", func() authz.Principal { return s.bystander }, false},
	} {
		s.Run(tc.name, func() {
			task := s.existingTask()
			s.mockTasks.EXPECT().FindInTenant(gomock.Any(), s.tenantID, task.ID).Return(task, nil)
			if tc.allowed {
				s.mockTasks.EXPECT().Update(gomock.Any(), task).Return(nil)
				s.mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
			}

			updated, err := s.service.Update(s.ctx, tc.caller(), nil, task.ID, UpdateCommand{Title: strPtr("Rewrite copy")})
			if !tc.allowed {
				s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
				return
			}
			s.Require().NoError(err)
			s.Equal("Rewrite copy", updated.Title)
		})
	}
}

func (s *TaskServiceSuite) TestUpdateFields() {
	s.Run("reassign, reprioritize and clear the due date", func() {
		task := s.existingTask()
		newAssignee := s.bystander.UserID()
		s.mockTasks.EXPECT().FindInTenant(gomock.Any(), s.tenantID, task.ID).Return(task, nil)
		s.mockMembers.EXPECT().FindInTenant(gomock.Any(), s.tenantID, newAssignee).Return(&userModels.User{ID: newAssignee}, nil)
		s.mockTasks.EXPECT().Update(gomock.Any(), task).Return(nil)
		s.mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

		updated, err := s.service.Update(s.ctx, s.creator, nil, task.ID, UpdateCommand{
			AssignedTo: strPtr(newAssignee.String()),
			Priority:   strPtr("low"),
			DueDate:    strPtr(""),
		})
		s.Require().NoError(err)
		s.Equal(&newAssignee, updated.AssignedTo)
		s.Equal(models.PriorityLow, updated.Priority)
		s.Nil(updated.DueDate)
	})

	s.Run("empty assignee unassigns without a member lookup", func() {
		task := s.existingTask()
		s.mockTasks.EXPECT().FindInTenant(gomock.Any(), s.tenantID, task.ID).Return(task, nil)
		s.mockTasks.EXPECT().Update(gomock.Any(), task).Return(nil)
		s.mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

		updated, err := s.service.Update(s.ctx, s.admin, nil, task.ID, UpdateCommand{AssignedTo: strPtr("")})
		s.Require().NoError(err)
		s.Nil(updated.AssignedTo)
	})

	s.Run("foreign assignee", func() {
		task := s.existingTask()
		outsider := id.NewUserID()
		s.mockTasks.EXPECT().FindInTenant(gomock.Any(), s.tenantID, task.ID).Return(task, nil)
		s.mockMembers.EXPECT().FindInTenant(gomock.Any(), s.tenantID, outsider).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Update(s.ctx, s.admin, nil, task.ID, UpdateCommand{AssignedTo: strPtr(outsider.String())})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("missing task", func() {
		taskID := id.NewTaskID()
		s.mockTasks.EXPECT().FindInTenant(gomock.Any(), s.tenantID, taskID).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Update(s.ctx, s.admin, nil, taskID, UpdateCommand{Title: strPtr("x")})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.EqualError(err, "task not found")
	})

	s.Run("store failure is internal", func() {
		task := s.existingTask()
		s.mockTasks.EXPECT().FindInTenant(gomock.Any(), s.tenantID, task.ID).Return(task, nil)
		s.mockTasks.EXPECT().Update(gomock.Any(), task).Return(assertErr)

		_, err := s.service.Update(s.ctx, s.admin, nil, task.ID, UpdateCommand{Title: strPtr("x")})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *TaskServiceSuite) TestUpdateStatus() {
	s.Run("assignee completes the task", func() {
		task := s.existingTask()
		s.mockTasks.EXPECT().FindInTenant(gomock.Any(), s.tenantID, task.ID).Return(task, nil)
		s.mockTasks.EXPECT().Update(gomock.Any(), task).Return(nil)
		s.mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

		updated, err := s.service.UpdateStatus(s.ctx, s.assignee, nil, task.ID, "completed")
		s.Require().NoError(err)
		s.Equal(models.StatusCompleted, updated.Status)
	})

	s.Run("invalid status", func() {
		_, err := s.service.UpdateStatus(s.ctx, s.assignee, nil, id.NewTaskID(), "done")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
		s.EqualError(err, "invalid status")
	})

	s.Run("bystander", func() {
		task := s.existingTask()
		s.mockTasks.EXPECT().FindInTenant(gomock.Any(), s.tenantID, task.ID).Return(task, nil)

		_, err := s.service.UpdateStatus(s.ctx, s.bystander, nil, task.ID, "in_progress")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *TaskServiceSuite) TestDelete() {
	s.Run("assignee may not delete", func() {
		task := s.existingTask()
		s.mockTasks.EXPECT().FindInTenant(gomock.Any(), s.tenantID, task.ID).Return(task, nil)

		err := s.service.Delete(s.ctx, s.assignee, nil, task.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("creator deletes", func() {
		task := s.existingTask()
		s.mockTasks.EXPECT().FindInTenant(gomock.Any(), s.tenantID, task.ID).Return(task, nil)
		s.mockTasks.EXPECT().Delete(gomock.Any(), s.tenantID, task.ID).Return(nil)
		s.mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

		s.NoError(s.service.Delete(s.ctx, s.creator, nil, task.ID))
	})

	s.Run("super-admin names the tenant", func() {
		task := s.existingTask()
		s.mockTasks.EXPECT().FindInTenant(gomock.Any(), s.tenantID, task.ID).Return(task, nil)
		s.mockTasks.EXPECT().Delete(gomock.Any(), s.tenantID, task.ID).Return(nil)
		s.mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

		s.NoError(s.service.Delete(s.ctx, authz.SuperAdmin{ID: id.NewUserID()}, &s.tenantID, task.ID))
	})
}
