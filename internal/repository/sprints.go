package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/akulinav/sprint-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const sprintColumns = `id, project_id, name, key, goal, notes, start_date, end_date, status,
        capacity, planned_points, total_points, completed_points, velocity, created_at, updated_at`

func scanSprint(row rowScanner, s *models.Sprint) error {
	return row.Scan(
		&s.ID, &s.ProjectID, &s.Name, &s.Key, &s.Goal, &s.Notes,
		&s.StartDate, &s.EndDate, &s.Status,
		&s.Capacity, &s.PlannedPoints, &s.TotalPoints, &s.CompletedPoints, &s.Velocity,
		&s.CreatedAt, &s.UpdatedAt,
	)
}

// CreateSprint создает спринт в статусе PLANNED вместе с составом участников
func (r *Repository) CreateSprint(ctx context.Context, s *models.Sprint, members []models.SprintMember) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
        INSERT INTO sprints (project_id, name, key, goal, notes, start_date, end_date, status,
                             capacity, planned_points)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, status, created_at, updated_at
    `
	err = tx.QueryRow(ctx, insertQuery,
		s.ProjectID, s.Name, s.Key, s.Goal, s.Notes, s.StartDate, s.EndDate, models.SprintPlanned,
		s.Capacity, s.PlannedPoints,
	).Scan(&s.ID, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create sprint: %w", err)
	}

	// Массово добавляем участников одним запросом
	if len(members) > 0 {
		userIDs := make([]uuid.UUID, len(members))
		capacities := make([]float64, len(members))
		for i, m := range members {
			userIDs[i] = m.UserID
			capacities[i] = m.CapacityHours
		}

		membersQuery := `
            INSERT INTO sprint_members (sprint_id, user_id, capacity_hours)
            SELECT $1, * FROM unnest($2::uuid[], $3::double precision[])
        `
		if _, err = tx.Exec(ctx, membersQuery, s.ID, userIDs, capacities); err != nil {
			return fmt.Errorf("failed to add sprint members: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	for i := range members {
		members[i].SprintID = s.ID
	}
	s.Members = members
	return nil
}

// GetSprint получает спринт по ID вместе со списком участников
func (r *Repository) GetSprint(ctx context.Context, id uuid.UUID) (*models.Sprint, error) {
	var s models.Sprint
	query := `SELECT ` + sprintColumns + ` FROM sprints WHERE id = $1`
	err := scanSprint(r.pool.QueryRow(ctx, query, id), &s)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sprint: %w", err)
	}

	membersQuery := `
        SELECT sprint_id, user_id, capacity_hours
        FROM sprint_members
        WHERE sprint_id = $1
        ORDER BY user_id
    `
	rows, err := r.pool.Query(ctx, membersQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sprint members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.SprintMember
		if err := rows.Scan(&m.SprintID, &m.UserID, &m.CapacityHours); err != nil {
			return nil, fmt.Errorf("failed to scan sprint member: %w", err)
		}
		s.Members = append(s.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sprint members: %w", err)
	}

	return &s, nil
}

// UpdateSprint сохраняет изменяемые поля спринта
func (r *Repository) UpdateSprint(ctx context.Context, s *models.Sprint) error {
	query := `
        UPDATE sprints
        SET name = $1, key = $2, goal = $3, notes = $4, start_date = $5, end_date = $6,
            status = $7, capacity = $8, planned_points = $9, velocity = $10, updated_at = NOW()
        WHERE id = $11
    `
	tag, err := r.pool.Exec(ctx, query,
		s.Name, s.Key, s.Goal, s.Notes, s.StartDate, s.EndDate,
		s.Status, s.Capacity, s.PlannedPoints, s.Velocity, s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update sprint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ActivateSprint переводит спринт PLANNED -> ACTIVE.
// Условный UPDATE плюс частичный уникальный индекс закрывают гонку
// двух конкурентных стартов: проигравший получает ErrConflictingActiveSprint.
func (r *Repository) ActivateSprint(ctx context.Context, id uuid.UUID) error {
	query := `
        UPDATE sprints
        SET status = $1, updated_at = NOW()
        WHERE id = $2 AND status = $3
    `
	tag, err := r.pool.Exec(ctx, query, models.SprintActive, id, models.SprintPlanned)
	if err != nil {
		if isUniqueViolation(err, "one_active_sprint_per_project") {
			return models.ErrConflictingActiveSprint
		}
		return fmt.Errorf("failed to activate sprint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.sprintTransitionError(ctx, id)
	}
	return nil
}

// CompleteSprint переводит спринт ACTIVE -> COMPLETED и мигрирует
// незавершенные задачи: в target-спринт, если он задан, иначе в бэклог.
// DONE-задачи остаются привязанными к спринту как исторические записи.
func (r *Repository) CompleteSprint(ctx context.Context, id uuid.UUID, target *uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	statusQuery := `
        UPDATE sprints
        SET status = $1, updated_at = NOW()
        WHERE id = $2 AND status = $3
    `
	tag, err := tx.Exec(ctx, statusQuery, models.SprintCompleted, id, models.SprintActive)
	if err != nil {
		return fmt.Errorf("failed to complete sprint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.sprintTransitionError(ctx, id)
	}

	migrateQuery := `
        UPDATE issues
        SET sprint_id = $1, updated_at = NOW()
        WHERE sprint_id = $2 AND status != $3
    `
	if _, err = tx.Exec(ctx, migrateQuery, target, id, models.StatusDone); err != nil {
		return fmt.Errorf("failed to migrate incomplete issues: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// sprintTransitionError различает "спринт не найден" и "недопустимый переход"
func (r *Repository) sprintTransitionError(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM sprints WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check sprint existence: %w", err)
	}
	if !exists {
		return models.ErrNotFound
	}
	return models.ErrInvalidTransition
}

// DeleteSprint удаляет спринт из любого статуса: сначала отвязывает все
// задачи в бэклог и удаляет состав, затем сам спринт
func (r *Repository) DeleteSprint(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, `UPDATE issues SET sprint_id = NULL, updated_at = NOW() WHERE sprint_id = $1`, id); err != nil {
		return fmt.Errorf("failed to detach sprint issues: %w", err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM sprint_members WHERE sprint_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete sprint members: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM sprints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sprint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateSprintPoints записывает производные агрегаты на спринт
func (r *Repository) UpdateSprintPoints(ctx context.Context, id uuid.UUID, total, completed float64) error {
	query := `
        UPDATE sprints
        SET total_points = $1, completed_points = $2, updated_at = NOW()
        WHERE id = $3
    `
	tag, err := r.pool.Exec(ctx, query, total, completed, id)
	if err != nil {
		return fmt.Errorf("failed to update sprint points: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListSprintIssues возвращает все задачи спринта
func (r *Repository) ListSprintIssues(ctx context.Context, sprintID uuid.UUID) ([]models.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE sprint_id = $1 ORDER BY order_index, sequence`
	rows, err := r.pool.Query(ctx, query, sprintID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprint issues: %w", err)
	}

	issues, err := collectIssues(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan sprint issues: %w", err)
	}
	return issues, nil
}
