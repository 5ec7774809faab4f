package service

import (
	"context"
	"fmt"

	"github.com/akulinav/sprint-tracker/internal/models"
	"github.com/google/uuid"
)

const (
	defaultBacklogLimit = 50
	maxBacklogLimit     = 200
)

// AssignToSprint массово переносит задачи в спринт (nil — в бэклог).
// Эпики в наборе отклоняются до записи: эпик никогда не несет ссылку
// на спринт, в том числе через массовый путь.
func (s *Service) AssignToSprint(ctx context.Context, req models.AssignSprintRequest) error {
	if len(req.IssueIDs) == 0 {
		return fmt.Errorf("%w: issue_ids must not be empty", models.ErrInvalidInput)
	}

	if req.SprintID != nil {
		if _, err := s.repo.GetSprint(ctx, *req.SprintID); err != nil {
			return fmt.Errorf("sprint: %w", err)
		}
	}

	issues, err := s.repo.ListIssuesByIDs(ctx, req.IssueIDs)
	if err != nil {
		return err
	}

	formerSprints := make(map[uuid.UUID]bool)
	for _, is := range issues {
		if is.IsEpic() {
			return fmt.Errorf("%w: issue %s", models.ErrEpicNotSprintable, is.Key)
		}
		if is.SprintID != nil {
			formerSprints[*is.SprintID] = true
		}
	}

	if err := s.repo.AssignIssuesToSprint(ctx, req.IssueIDs, req.SprintID); err != nil {
		return err
	}

	// Агрегаты устаревают и у приемника, и у всех спринтов-доноров
	if err := s.recalcSprint(ctx, req.SprintID); err != nil {
		return err
	}
	for sprintID := range formerSprints {
		if req.SprintID != nil && sprintID == *req.SprintID {
			continue
		}
		id := sprintID
		if err := s.recalcSprint(ctx, &id); err != nil {
			return err
		}
	}
	return nil
}

// MoveIssueAndDescendants переносит задачу в спринт вместе с ее прямыми
// подзадачами, сохраняя их спринт-консистентность. Для эпиков операция
// запрещена.
func (s *Service) MoveIssueAndDescendants(ctx context.Context, issueID uuid.UUID, sprintID *uuid.UUID) error {
	issue, err := s.repo.GetIssue(ctx, issueID)
	if err != nil {
		return err
	}
	if issue.IsEpic() {
		return fmt.Errorf("%w: epic %s cannot be moved into a sprint", models.ErrInvalidOperation, issue.Key)
	}

	if sprintID != nil {
		if _, err := s.repo.GetSprint(ctx, *sprintID); err != nil {
			return fmt.Errorf("sprint: %w", err)
		}
	}

	former := issue.SprintID

	if err := s.repo.MoveIssueWithSubtasks(ctx, issueID, sprintID); err != nil {
		return err
	}

	if err := s.recalcSprint(ctx, sprintID); err != nil {
		return err
	}
	if former != nil && (sprintID == nil || *former != *sprintID) {
		if err := s.recalcSprint(ctx, former); err != nil {
			return err
		}
	}
	return nil
}

// ListBacklog возвращает задачи проекта без спринта, по умолчанию
// новые сверху
func (s *Service) ListBacklog(ctx context.Context, projectID uuid.UUID, f models.BacklogFilter) ([]models.Issue, error) {
	if projectID == uuid.Nil {
		return nil, fmt.Errorf("%w: project_id is required", models.ErrInvalidInput)
	}

	if f.Limit <= 0 {
		f.Limit = defaultBacklogLimit
	}
	if f.Limit > maxBacklogLimit {
		f.Limit = maxBacklogLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	issues, err := s.repo.ListBacklog(ctx, projectID, f)
	if err != nil {
		return nil, err
	}
	if issues == nil {
		issues = []models.Issue{}
	}
	return issues, nil
}
