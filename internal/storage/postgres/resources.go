package postgres

import (
	"context"
	"errors"
	"fmt"

	"survey_backend/internal/models"
	"survey_backend/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (r *PostgresRepo) SaveResource(ctx context.Context, title, description string, value float64) (models.Resource, error) {
	const op = "storage.postgres.SaveResource"

	query := `
		INSERT INTO resources (id, title, description, value)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, description, value, created_at, updated_at;
	`

	res, err := scanResource(r.pool.QueryRow(ctx, query, uuid.NewString(), title, description, value))
	if err != nil {
		return models.Resource{}, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

func (r *PostgresRepo) Resources(ctx context.Context) ([]models.Resource, error) {
	const op = "storage.postgres.Resources"

	query := `
		SELECT id, title, description, value, created_at, updated_at
		FROM resources
		ORDER BY created_at;
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	resources := []models.Resource{}

	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		resources = append(resources, res)
	}

	return resources, rows.Err()
}

func (r *PostgresRepo) ResourceByID(ctx context.Context, id string) (models.Resource, error) {
	const op = "storage.postgres.ResourceByID"

	query := `
		SELECT id, title, description, value, created_at, updated_at
		FROM resources
		WHERE id = $1;
	`

	res, err := scanResource(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Resource{}, storage.ErrResourceNotFound
		}

		return models.Resource{}, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

func (r *PostgresRepo) UpdateResource(ctx context.Context, id string, upd storage.ResourceUpdate) (models.Resource, error) {
	const op = "storage.postgres.UpdateResource"

	var set setBuilder

	if upd.Title != nil {
		set.add("title", *upd.Title)
	}
	if upd.Description != nil {
		set.add("description", *upd.Description)
	}
	if upd.Value != nil {
		set.add("value", *upd.Value)
	}

	if set.empty() {
		return r.ResourceByID(ctx, id)
	}

	query := fmt.Sprintf(`
		UPDATE resources
		SET %s, updated_at = NOW()
		WHERE id = $%d
		RETURNING id, title, description, value, created_at, updated_at;
	`, set.clause(), set.next())

	res, err := scanResource(r.pool.QueryRow(ctx, query, set.with(id)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Resource{}, storage.ErrResourceNotFound
		}

		return models.Resource{}, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

func (r *PostgresRepo) DeleteResource(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteResource"

	tag, err := r.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrResourceNotFound
	}

	return nil
}

func scanResource(row pgx.Row) (models.Resource, error) {
	var res models.Resource

	err := row.Scan(
		&res.ID,
		&res.Title,
		&res.Description,
		&res.Value,
		&res.CreatedAt,
		&res.UpdatedAt,
	)

	return res, err
}
