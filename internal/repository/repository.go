package repository

import (
	"errors"

	"github.com/akulinav/sprint-tracker/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// isUniqueViolation проверяет, что ошибка — нарушение уникального
// ограничения с указанным именем
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
	}
	return false
}

// rowScanner покрывает и pgx.Row, и pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

const issueColumns = `id, project_id, sequence, key, type, title, description, status, priority,
        assignee_id, reporter_id, sprint_id, parent_id, epic_id, feature_id,
        points, estimated_hours, actual_hours, order_index, start_date, end_date, tags,
        created_at, updated_at`

func scanIssue(row rowScanner, is *models.Issue) error {
	return row.Scan(
		&is.ID, &is.ProjectID, &is.Sequence, &is.Key, &is.Type, &is.Title, &is.Description,
		&is.Status, &is.Priority,
		&is.AssigneeID, &is.ReporterID, &is.SprintID, &is.ParentID, &is.EpicID, &is.FeatureID,
		&is.Points, &is.EstimatedHours, &is.ActualHours, &is.OrderIndex,
		&is.StartDate, &is.EndDate, &is.Tags,
		&is.CreatedAt, &is.UpdatedAt,
	)
}

// collectIssues вычитывает все строки результата в срез задач
func collectIssues(rows pgx.Rows) ([]models.Issue, error) {
	defer rows.Close()

	var issues []models.Issue
	for rows.Next() {
		var is models.Issue
		if err := scanIssue(rows, &is); err != nil {
			return nil, err
		}
		issues = append(issues, is)
	}
	return issues, rows.Err()
}
