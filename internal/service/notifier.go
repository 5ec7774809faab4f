package service

import (
	"context"

	"github.com/akulinav/sprint-tracker/internal/models"
	"go.uber.org/zap"
)

// Notifier — внешний коллаборатор для доставки событий движка.
// Семантика доставки не входит в зону ответственности ядра.
type Notifier interface {
	IssueAssigned(ctx context.Context, issue *models.Issue) error
	IssueStatusChanged(ctx context.Context, issue *models.Issue, old models.IssueStatus) error
	SprintStarted(ctx context.Context, sprint *models.Sprint) error
	SprintCompleted(ctx context.Context, sprint *models.Sprint) error
}

// LogNotifier пишет события в лог вместо реальной доставки
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) IssueAssigned(_ context.Context, issue *models.Issue) error {
	n.logger.Info("event: issue assigned",
		zap.String("issue_key", issue.Key),
		zap.Any("assignee_id", issue.AssigneeID),
	)
	return nil
}

func (n *LogNotifier) IssueStatusChanged(_ context.Context, issue *models.Issue, old models.IssueStatus) error {
	n.logger.Info("event: issue status changed",
		zap.String("issue_key", issue.Key),
		zap.String("from", string(old)),
		zap.String("to", string(issue.Status)),
	)
	return nil
}

func (n *LogNotifier) SprintStarted(_ context.Context, sprint *models.Sprint) error {
	n.logger.Info("event: sprint started", zap.String("sprint", sprint.Name))
	return nil
}

func (n *LogNotifier) SprintCompleted(_ context.Context, sprint *models.Sprint) error {
	n.logger.Info("event: sprint completed", zap.String("sprint", sprint.Name))
	return nil
}
