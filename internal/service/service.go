package service

import (
	"context"
	"time"

	"github.com/akulinav/sprint-tracker/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repository — слой данных, которым пользуется движок
type Repository interface {
	CreateSprint(ctx context.Context, s *models.Sprint, members []models.SprintMember) error
	GetSprint(ctx context.Context, id uuid.UUID) (*models.Sprint, error)
	UpdateSprint(ctx context.Context, s *models.Sprint) error
	ActivateSprint(ctx context.Context, id uuid.UUID) error
	CompleteSprint(ctx context.Context, id uuid.UUID, target *uuid.UUID) error
	DeleteSprint(ctx context.Context, id uuid.UUID) error
	UpdateSprintPoints(ctx context.Context, id uuid.UUID, total, completed float64) error
	ListSprintIssues(ctx context.Context, sprintID uuid.UUID) ([]models.Issue, error)

	CreateIssue(ctx context.Context, is *models.Issue) error
	GetIssue(ctx context.Context, id uuid.UUID) (*models.Issue, error)
	UpdateIssue(ctx context.Context, is *models.Issue) error
	DeleteIssue(ctx context.Context, id uuid.UUID) error
	ListIssuesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Issue, error)
	AssignIssuesToSprint(ctx context.Context, ids []uuid.UUID, sprintID *uuid.UUID) error
	MoveIssueWithSubtasks(ctx context.Context, id uuid.UUID, sprintID *uuid.UUID) error
	ListBacklog(ctx context.Context, projectID uuid.UUID, f models.BacklogFilter) ([]models.Issue, error)
	ListProjectIssues(ctx context.Context, projectID uuid.UUID) ([]models.Issue, error)
	CloseEpic(ctx context.Context, epicID uuid.UUID, policy models.EpicClosePolicy, target *uuid.UUID) error

	CreateFeature(ctx context.Context, f *models.Feature) error
	GetFeature(ctx context.Context, id uuid.UUID) (*models.Feature, error)
	UpdateFeature(ctx context.Context, f *models.Feature) error
}

type Service struct {
	repo     Repository
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// New создает сервис доменного движка
func New(repo Repository, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// notify выполняет отправку уведомления как "мягкий" побочный эффект:
// ошибка доставки логируется и не влияет на результат основной операции
func (s *Service) notify(event string, err error) {
	if err != nil {
		s.logger.Warn("notification dispatch failed",
			zap.String("event", event),
			zap.Error(err),
		)
	}
}
