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

// SaveResponse stamps the submission date server-side.
func (r *PostgresRepo) SaveResponse(ctx context.Context, responses, scores map[string]any) (models.SurveyResponse, error) {
	const op = "storage.postgres.SaveResponse"

	query := `
		INSERT INTO survey_responses (id, date, responses, scores)
		VALUES ($1, NOW(), $2, $3)
		RETURNING id, date, responses, scores;
	`

	resp, err := scanResponse(r.pool.QueryRow(ctx, query, uuid.NewString(), responses, scores))
	if err != nil {
		return models.SurveyResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

func (r *PostgresRepo) Responses(ctx context.Context) ([]models.SurveyResponse, error) {
	const op = "storage.postgres.Responses"

	query := `
		SELECT id, date, responses, scores
		FROM survey_responses
		ORDER BY date;
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	responses := []models.SurveyResponse{}

	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		responses = append(responses, resp)
	}

	return responses, rows.Err()
}

func (r *PostgresRepo) ResponseByID(ctx context.Context, id string) (models.SurveyResponse, error) {
	const op = "storage.postgres.ResponseByID"

	query := `
		SELECT id, date, responses, scores
		FROM survey_responses
		WHERE id = $1;
	`

	resp, err := scanResponse(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.SurveyResponse{}, storage.ErrResponseNotFound
		}

		return models.SurveyResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

func (r *PostgresRepo) UpdateResponse(ctx context.Context, id string, upd storage.ResponseUpdate) (models.SurveyResponse, error) {
	const op = "storage.postgres.UpdateResponse"

	var set setBuilder

	if upd.Responses != nil {
		set.add("responses", upd.Responses)
	}
	if upd.Scores != nil {
		set.add("scores", upd.Scores)
	}

	if set.empty() {
		return r.ResponseByID(ctx, id)
	}

	query := fmt.Sprintf(`
		UPDATE survey_responses
		SET %s
		WHERE id = $%d
		RETURNING id, date, responses, scores;
	`, set.clause(), set.next())

	resp, err := scanResponse(r.pool.QueryRow(ctx, query, set.with(id)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.SurveyResponse{}, storage.ErrResponseNotFound
		}

		return models.SurveyResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

func (r *PostgresRepo) DeleteResponse(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteResponse"

	tag, err := r.pool.Exec(ctx, `DELETE FROM survey_responses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrResponseNotFound
	}

	return nil
}

func scanResponse(row pgx.Row) (models.SurveyResponse, error) {
	var resp models.SurveyResponse

	err := row.Scan(
		&resp.ID,
		&resp.Date,
		&resp.Responses,
		&resp.Scores,
	)

	return resp, err
}
