package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/akulinav/sprint-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateIssue создает задачу, выделяя ей очередной порядковый номер
// и человекочитаемый ключ вида PROJ-42 в одной транзакции
func (r *Repository) CreateIssue(ctx context.Context, is *models.Issue) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var projectKey string
	err = tx.QueryRow(ctx, `SELECT key FROM projects WHERE id = $1`, is.ProjectID).Scan(&projectKey)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get project key: %w", err)
	}

	// Блокировка строк проекта не нужна: уникальный индекс (project_id, sequence)
	// отлавливает конкурентную выдачу одного номера
	seqQuery := `SELECT COALESCE(MAX(sequence), 0) + 1 FROM issues WHERE project_id = $1`
	if err = tx.QueryRow(ctx, seqQuery, is.ProjectID).Scan(&is.Sequence); err != nil {
		return fmt.Errorf("failed to allocate issue sequence: %w", err)
	}
	is.Key = projectKey + "-" + strconv.FormatInt(is.Sequence, 10)

	insertQuery := `
        INSERT INTO issues (project_id, sequence, key, type, title, description, status, priority,
                            assignee_id, reporter_id, sprint_id, parent_id, epic_id, feature_id,
                            points, estimated_hours, order_index, start_date, end_date, tags)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
        RETURNING id, created_at, updated_at
    `
	err = tx.QueryRow(ctx, insertQuery,
		is.ProjectID, is.Sequence, is.Key, is.Type, is.Title, is.Description, is.Status, is.Priority,
		is.AssigneeID, is.ReporterID, is.SprintID, is.ParentID, is.EpicID, is.FeatureID,
		is.Points, is.EstimatedHours, is.OrderIndex, is.StartDate, is.EndDate, is.Tags,
	).Scan(&is.ID, &is.CreatedAt, &is.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetIssue получает задачу по ID
func (r *Repository) GetIssue(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	var is models.Issue
	query := `SELECT ` + issueColumns + ` FROM issues WHERE id = $1`
	err := scanIssue(r.pool.QueryRow(ctx, query, id), &is)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}
	return &is, nil
}

// UpdateIssue сохраняет изменяемые поля задачи
func (r *Repository) UpdateIssue(ctx context.Context, is *models.Issue) error {
	query := `
        UPDATE issues
        SET title = $1, description = $2, status = $3, priority = $4,
            assignee_id = $5, feature_id = $6, points = $7,
            estimated_hours = $8, actual_hours = $9, order_index = $10,
            start_date = $11, end_date = $12, tags = $13, updated_at = NOW()
        WHERE id = $14
    `
	tag, err := r.pool.Exec(ctx, query,
		is.Title, is.Description, is.Status, is.Priority,
		is.AssigneeID, is.FeatureID, is.Points,
		is.EstimatedHours, is.ActualHours, is.OrderIndex,
		is.StartDate, is.EndDate, is.Tags, is.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteIssue удаляет задачу; ссылки дочерних записей обнуляются на уровне БД
func (r *Repository) DeleteIssue(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM issues WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListIssuesByIDs возвращает задачи по набору идентификаторов
func (r *Repository) ListIssuesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues by ids: %w", err)
	}

	issues, err := collectIssues(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan issues: %w", err)
	}
	return issues, nil
}

// AssignIssuesToSprint массово переписывает ссылку на спринт (nil — в бэклог)
func (r *Repository) AssignIssuesToSprint(ctx context.Context, ids []uuid.UUID, sprintID *uuid.UUID) error {
	query := `UPDATE issues SET sprint_id = $1, updated_at = NOW() WHERE id = ANY($2)`
	if _, err := r.pool.Exec(ctx, query, sprintID, ids); err != nil {
		return fmt.Errorf("failed to assign issues to sprint: %w", err)
	}
	return nil
}

// MoveIssueWithSubtasks переносит задачу в спринт вместе с ее прямыми
// подзадачами (один уровень), сохраняя консистентность истории и подзадач
func (r *Repository) MoveIssueWithSubtasks(ctx context.Context, id uuid.UUID, sprintID *uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE issues SET sprint_id = $1, updated_at = NOW() WHERE id = $2`, sprintID, id)
	if err != nil {
		return fmt.Errorf("failed to move issue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	subtasksQuery := `
        UPDATE issues
        SET sprint_id = $1, updated_at = NOW()
        WHERE parent_id = $2 AND type = $3
    `
	if _, err = tx.Exec(ctx, subtasksQuery, sprintID, id, models.IssueTypeSubtask); err != nil {
		return fmt.Errorf("failed to move subtasks: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListBacklog возвращает задачи проекта без спринта с фильтрами
// по типу/приоритету/тексту и пагинацией, новые сверху
func (r *Repository) ListBacklog(ctx context.Context, projectID uuid.UUID, f models.BacklogFilter) ([]models.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE project_id = $1 AND sprint_id IS NULL`
	args := []any{projectID}

	if f.Type != "" {
		args = append(args, f.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		query += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR key ILIKE $%d)", len(args), len(args))
	}

	query += " ORDER BY sequence DESC"

	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list backlog: %w", err)
	}

	issues, err := collectIssues(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan backlog issues: %w", err)
	}
	return issues, nil
}

// ListProjectIssues возвращает все задачи проекта для построения иерархии
func (r *Repository) ListProjectIssues(ctx context.Context, projectID uuid.UUID) ([]models.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE project_id = $1 ORDER BY order_index, sequence`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project issues: %w", err)
	}

	issues, err := collectIssues(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan project issues: %w", err)
	}
	return issues, nil
}

// CloseEpic закрывает эпик и применяет политику разрешения дочерних
// задач в одной транзакции
func (r *Repository) CloseEpic(ctx context.Context, epicID uuid.UUID, policy models.EpicClosePolicy, target *uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	closeQuery := `
        UPDATE issues
        SET status = $1, updated_at = NOW()
        WHERE id = $2 AND type = $3
    `
	tag, err := tx.Exec(ctx, closeQuery, models.EpicStatusClosed, epicID, models.IssueTypeEpic)
	if err != nil {
		return fmt.Errorf("failed to close epic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	switch policy {
	case models.EpicCloseKeep:
		// Дочерние задачи не трогаем

	case models.EpicCloseMove:
		if _, err = tx.Exec(ctx,
			`UPDATE issues SET epic_id = $1, updated_at = NOW() WHERE epic_id = $2`,
			target, epicID,
		); err != nil {
			return fmt.Errorf("failed to move epic issues: %w", err)
		}
		if _, err = tx.Exec(ctx,
			`UPDATE features SET epic_id = $1, updated_at = NOW() WHERE epic_id = $2`,
			target, epicID,
		); err != nil {
			return fmt.Errorf("failed to move epic features: %w", err)
		}

	case models.EpicCloseBacklog:
		if _, err = tx.Exec(ctx,
			`UPDATE issues SET epic_id = NULL, sprint_id = NULL, updated_at = NOW() WHERE epic_id = $1`,
			epicID,
		); err != nil {
			return fmt.Errorf("failed to detach epic issues: %w", err)
		}

	case models.EpicCloseCancel:
		cancelQuery := `
            UPDATE issues
            SET status = $1, updated_at = NOW()
            WHERE epic_id = $2 AND status NOT IN ($3, $4)
        `
		if _, err = tx.Exec(ctx, cancelQuery,
			models.StatusCancelled, epicID, models.StatusDone, models.StatusCancelled,
		); err != nil {
			return fmt.Errorf("failed to cancel epic issues: %w", err)
		}

	default:
		return fmt.Errorf("%w: unknown epic close policy %q", models.ErrInvalidInput, policy)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
