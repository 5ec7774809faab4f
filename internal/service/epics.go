package service

import (
	"context"
	"fmt"

	"github.com/akulinav/sprint-tracker/internal/models"
	"github.com/google/uuid"
)

// CreateEpic создает эпик — запись верхнего уровня без родителя и спринта
func (s *Service) CreateEpic(ctx context.Context, req models.CreateIssueRequest) (*models.Issue, error) {
	req.Type = models.IssueTypeEpic
	return s.CreateIssue(ctx, req)
}

// GetEpic получает эпик; не-эпик по этому пути не виден
func (s *Service) GetEpic(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	epic, err := s.repo.GetIssue(ctx, id)
	if err != nil {
		return nil, err
	}
	if !epic.IsEpic() {
		return nil, models.ErrNotFound
	}
	return epic, nil
}

// UpdateEpic применяет частичное обновление эпика
func (s *Service) UpdateEpic(ctx context.Context, id uuid.UUID, req models.UpdateIssueRequest) (*models.Issue, error) {
	if _, err := s.GetEpic(ctx, id); err != nil {
		return nil, err
	}
	return s.UpdateIssue(ctx, id, req)
}

// CloseEpic закрывает эпик с политикой разрешения дочерних задач:
// keep — оставить, move — перенести под другой эпик, backlog — отвязать
// от эпика и спринта, cancel — отменить незавершенные
func (s *Service) CloseEpic(ctx context.Context, id uuid.UUID, req models.CloseEpicRequest) (*models.Issue, error) {
	epic, err := s.GetEpic(ctx, id)
	if err != nil {
		return nil, err
	}

	policy := req.Policy
	if policy == "" {
		policy = models.EpicCloseKeep
	}

	switch policy {
	case models.EpicCloseKeep, models.EpicCloseBacklog, models.EpicCloseCancel:
		if req.TargetEpicID != nil {
			return nil, fmt.Errorf("%w: target_epic_id is only valid with the move policy", models.ErrInvalidInput)
		}
	case models.EpicCloseMove:
		if req.TargetEpicID == nil {
			return nil, fmt.Errorf("%w: move policy requires target_epic_id", models.ErrInvalidInput)
		}
		if *req.TargetEpicID == id {
			return nil, fmt.Errorf("%w: cannot move issues into the epic being closed", models.ErrInvalidInput)
		}
		target, err := s.repo.GetIssue(ctx, *req.TargetEpicID)
		if err != nil {
			return nil, fmt.Errorf("target epic: %w", err)
		}
		if !target.IsEpic() {
			return nil, fmt.Errorf("%w: move target %s is not an epic", models.ErrInvalidHierarchy, target.Key)
		}
	default:
		return nil, fmt.Errorf("%w: unknown close policy %q", models.ErrInvalidInput, policy)
	}

	if err := s.repo.CloseEpic(ctx, id, policy, req.TargetEpicID); err != nil {
		return nil, err
	}

	epic.Status = models.EpicStatusClosed
	return epic, nil
}

// CreateFeature создает фичу; ссылка на эпик, если задана, должна
// указывать на существующий эпик
func (s *Service) CreateFeature(ctx context.Context, req models.CreateFeatureRequest) (*models.Feature, error) {
	if req.ProjectID == uuid.Nil || req.Name == "" {
		return nil, fmt.Errorf("%w: project_id and name are required", models.ErrInvalidInput)
	}

	if req.EpicID != nil {
		if _, err := s.GetEpic(ctx, *req.EpicID); err != nil {
			return nil, fmt.Errorf("epic: %w", err)
		}
	}

	feature := &models.Feature{
		ProjectID:   req.ProjectID,
		EpicID:      req.EpicID,
		Name:        req.Name,
		Description: req.Description,
		Status:      models.FeatureStatusTodo,
		Priority:    req.Priority,
		Points:      req.Points,
		OwnerID:     req.OwnerID,
	}
	if feature.Priority == "" {
		feature.Priority = models.PriorityMedium
	}

	if err := s.repo.CreateFeature(ctx, feature); err != nil {
		return nil, err
	}
	return feature, nil
}

// GetFeature получает фичу по ID
func (s *Service) GetFeature(ctx context.Context, id uuid.UUID) (*models.Feature, error) {
	return s.repo.GetFeature(ctx, id)
}

// UpdateFeature применяет частичное обновление фичи
func (s *Service) UpdateFeature(ctx context.Context, id uuid.UUID, req models.UpdateFeatureRequest) (*models.Feature, error) {
	feature, err := s.repo.GetFeature(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		feature.Name = *req.Name
	}
	if req.Description != nil {
		feature.Description = *req.Description
	}
	if req.Status != nil {
		feature.Status = *req.Status
	}
	if req.Priority != nil {
		feature.Priority = *req.Priority
	}
	if req.Points != nil {
		feature.Points = *req.Points
	}
	if req.EpicID != nil {
		if _, err := s.GetEpic(ctx, *req.EpicID); err != nil {
			return nil, fmt.Errorf("epic: %w", err)
		}
		feature.EpicID = req.EpicID
	}
	if req.OwnerID != nil {
		feature.OwnerID = req.OwnerID
	}

	if err := s.repo.UpdateFeature(ctx, feature); err != nil {
		return nil, err
	}
	return feature, nil
}
