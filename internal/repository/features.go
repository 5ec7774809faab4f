package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/akulinav/sprint-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const featureColumns = `id, project_id, epic_id, name, description, status, priority, points,
        owner_id, created_at, updated_at`

func scanFeature(row rowScanner, f *models.Feature) error {
	return row.Scan(
		&f.ID, &f.ProjectID, &f.EpicID, &f.Name, &f.Description, &f.Status, &f.Priority,
		&f.Points, &f.OwnerID, &f.CreatedAt, &f.UpdatedAt,
	)
}

// CreateFeature создает фичу
func (r *Repository) CreateFeature(ctx context.Context, f *models.Feature) error {
	query := `
        INSERT INTO features (project_id, epic_id, name, description, status, priority, points, owner_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at
    `
	err := r.pool.QueryRow(ctx, query,
		f.ProjectID, f.EpicID, f.Name, f.Description, f.Status, f.Priority, f.Points, f.OwnerID,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create feature: %w", err)
	}
	return nil
}

// GetFeature получает фичу по ID
func (r *Repository) GetFeature(ctx context.Context, id uuid.UUID) (*models.Feature, error) {
	var f models.Feature
	query := `SELECT ` + featureColumns + ` FROM features WHERE id = $1`
	err := scanFeature(r.pool.QueryRow(ctx, query, id), &f)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feature: %w", err)
	}
	return &f, nil
}

// UpdateFeature сохраняет изменяемые поля фичи
func (r *Repository) UpdateFeature(ctx context.Context, f *models.Feature) error {
	query := `
        UPDATE features
        SET name = $1, description = $2, status = $3, priority = $4,
            points = $5, epic_id = $6, owner_id = $7, updated_at = NOW()
        WHERE id = $8
    `
	tag, err := r.pool.Exec(ctx, query,
		f.Name, f.Description, f.Status, f.Priority, f.Points, f.EpicID, f.OwnerID, f.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update feature: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
