package service

import (
	"context"
	"fmt"

	"github.com/akulinav/sprint-tracker/internal/models"
	"github.com/akulinav/sprint-tracker/internal/progress"
	"github.com/google/uuid"
)

// CreateSprint создает спринт в статусе PLANNED вместе с участниками
func (s *Service) CreateSprint(ctx context.Context, req models.CreateSprintRequest) (*models.Sprint, error) {
	if req.ProjectID == uuid.Nil || req.Name == "" {
		return nil, fmt.Errorf("%w: project_id and name are required", models.ErrInvalidInput)
	}

	sprint := &models.Sprint{
		ProjectID:     req.ProjectID,
		Name:          req.Name,
		Key:           req.Key,
		Goal:          req.Goal,
		Notes:         req.Notes,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Capacity:      req.Capacity,
		PlannedPoints: req.PlannedPoints,
	}

	members := make([]models.SprintMember, 0, len(req.Members))
	for _, m := range req.Members {
		members = append(members, models.SprintMember{
			UserID:        m.UserID,
			CapacityHours: m.CapacityHours,
		})
	}

	if err := s.repo.CreateSprint(ctx, sprint, members); err != nil {
		return nil, err
	}
	return sprint, nil
}

// GetSprint получает спринт по ID
func (s *Service) GetSprint(ctx context.Context, id uuid.UUID) (*models.Sprint, error) {
	return s.repo.GetSprint(ctx, id)
}

// UpdateSprint применяет частичное обновление спринта.
// Статус здесь — ручная правка данных (например, в CANCELLED);
// автоматических переходов в CANCELLED у движка нет.
func (s *Service) UpdateSprint(ctx context.Context, id uuid.UUID, req models.UpdateSprintRequest) (*models.Sprint, error) {
	sprint, err := s.repo.GetSprint(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		sprint.Name = *req.Name
	}
	if req.Key != nil {
		sprint.Key = *req.Key
	}
	if req.Goal != nil {
		sprint.Goal = *req.Goal
	}
	if req.Notes != nil {
		sprint.Notes = *req.Notes
	}
	if req.StartDate != nil {
		sprint.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		sprint.EndDate = req.EndDate
	}
	if req.Capacity != nil {
		sprint.Capacity = *req.Capacity
	}
	if req.PlannedPoints != nil {
		sprint.PlannedPoints = *req.PlannedPoints
	}
	if req.Velocity != nil {
		sprint.Velocity = *req.Velocity
	}
	if req.Status != nil {
		sprint.Status = *req.Status
	}

	if err := s.repo.UpdateSprint(ctx, sprint); err != nil {
		return nil, err
	}
	return sprint, nil
}

// StartSprint переводит спринт PLANNED -> ACTIVE.
// Старт не меняет задачи спринта. Инвариант "один активный спринт
// на проект" проверяется здесь и гарантируется ограничением в хранилище.
func (s *Service) StartSprint(ctx context.Context, id uuid.UUID) (*models.Sprint, error) {
	sprint, err := s.repo.GetSprint(ctx, id)
	if err != nil {
		return nil, err
	}
	if sprint.Status != models.SprintPlanned {
		return nil, fmt.Errorf("%w: cannot start sprint in status %s", models.ErrInvalidTransition, sprint.Status)
	}

	if err := s.repo.ActivateSprint(ctx, id); err != nil {
		return nil, err
	}
	sprint.Status = models.SprintActive

	s.notify("sprint started", s.notifier.SprintStarted(ctx, sprint))
	return sprint, nil
}

// CompleteSprint переводит спринт ACTIVE -> COMPLETED. Незавершенные задачи
// уходят в target-спринт или в бэклог; DONE-задачи остаются привязанными
// к завершенному спринту как исторический срез, его агрегаты не трогаем.
func (s *Service) CompleteSprint(ctx context.Context, id uuid.UUID, target *uuid.UUID) (*models.Sprint, error) {
	sprint, err := s.repo.GetSprint(ctx, id)
	if err != nil {
		return nil, err
	}
	if sprint.Status != models.SprintActive {
		return nil, fmt.Errorf("%w: cannot complete sprint in status %s", models.ErrInvalidTransition, sprint.Status)
	}

	if target != nil {
		if _, err := s.repo.GetSprint(ctx, *target); err != nil {
			return nil, fmt.Errorf("target sprint: %w", err)
		}
	}

	if err := s.repo.CompleteSprint(ctx, id, target); err != nil {
		return nil, err
	}
	sprint.Status = models.SprintCompleted

	// Спринт-приемник получил новые задачи — его агрегаты устарели
	if err := s.recalcSprint(ctx, target); err != nil {
		return nil, err
	}

	s.notify("sprint completed", s.notifier.SprintCompleted(ctx, sprint))
	return sprint, nil
}

// DeleteSprint удаляет спринт из любого статуса; все его задачи
// возвращаются в бэклог
func (s *Service) DeleteSprint(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteSprint(ctx, id)
}

// SprintStatistics пересчитывает агрегаты спринта и строит burndown-серию.
// Требует заданного диапазона дат спринта.
func (s *Service) SprintStatistics(ctx context.Context, id uuid.UUID) (*models.SprintStatistics, error) {
	sprint, err := s.repo.GetSprint(ctx, id)
	if err != nil {
		return nil, err
	}
	if sprint.StartDate == nil || sprint.EndDate == nil {
		return nil, models.ErrMissingDateRange
	}

	issues, err := s.repo.ListSprintIssues(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := &models.SprintStatistics{}
	if len(issues) == 0 {
		// Пустой состав: завершенность обнуляется, сумма остается прежней
		stats.TotalPoints = sprint.TotalPoints
		stats.CompletedPoints = 0
	} else {
		totals := progress.Compute(issues)
		stats.TotalPoints = totals.TotalPoints
		stats.CompletedPoints = totals.CompletedPoints
	}

	if err := s.repo.UpdateSprintPoints(ctx, id, stats.TotalPoints, stats.CompletedPoints); err != nil {
		return nil, err
	}

	stats.BurnDown = progress.BuildBurndown(*sprint.StartDate, *sprint.EndDate, issues, s.now())
	return stats, nil
}

// recalcSprint — единая точка инвалидации производных агрегатов спринта.
// Вызывается после каждой мутации, меняющей состав, статусы или оценки
// задач спринта. nil-идентификатор означает бэклог — пересчитывать нечего.
func (s *Service) recalcSprint(ctx context.Context, sprintID *uuid.UUID) error {
	if sprintID == nil {
		return nil
	}

	issues, err := s.repo.ListSprintIssues(ctx, *sprintID)
	if err != nil {
		return err
	}

	if len(issues) == 0 {
		sprint, err := s.repo.GetSprint(ctx, *sprintID)
		if err != nil {
			return err
		}
		return s.repo.UpdateSprintPoints(ctx, *sprintID, sprint.TotalPoints, 0)
	}

	totals := progress.Compute(issues)
	return s.repo.UpdateSprintPoints(ctx, *sprintID, totals.TotalPoints, totals.CompletedPoints)
}
