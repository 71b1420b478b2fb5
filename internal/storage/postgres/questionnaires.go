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

func (r *PostgresRepo) SaveQuestionnaire(ctx context.Context, q models.Questionnaire) (models.Questionnaire, error) {
	const op = "storage.postgres.SaveQuestionnaire"

	query := `
		INSERT INTO questionnaires (id, title, author, standard_frequency, description, scoring_schema, questions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, title, author, standard_frequency, description, scoring_schema, questions;
	`

	saved, err := scanQuestionnaire(r.pool.QueryRow(ctx, query,
		uuid.NewString(), q.Title, q.Author, q.StandardFrequency, q.Description, q.ScoringSchema, q.Questions))
	if err != nil {
		return models.Questionnaire{}, fmt.Errorf("%s: %w", op, err)
	}

	return saved, nil
}

func (r *PostgresRepo) Questionnaires(ctx context.Context) ([]models.Questionnaire, error) {
	const op = "storage.postgres.Questionnaires"

	query := `
		SELECT id, title, author, standard_frequency, description, scoring_schema, questions
		FROM questionnaires
		ORDER BY title;
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	questionnaires := []models.Questionnaire{}

	for rows.Next() {
		q, err := scanQuestionnaire(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		questionnaires = append(questionnaires, q)
	}

	return questionnaires, rows.Err()
}

func (r *PostgresRepo) QuestionnaireByID(ctx context.Context, id string) (models.Questionnaire, error) {
	const op = "storage.postgres.QuestionnaireByID"

	query := `
		SELECT id, title, author, standard_frequency, description, scoring_schema, questions
		FROM questionnaires
		WHERE id = $1;
	`

	q, err := scanQuestionnaire(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Questionnaire{}, storage.ErrQuestionnaireNotFound
		}

		return models.Questionnaire{}, fmt.Errorf("%s: %w", op, err)
	}

	return q, nil
}

func (r *PostgresRepo) UpdateQuestionnaire(ctx context.Context, id string, upd storage.QuestionnaireUpdate) (models.Questionnaire, error) {
	const op = "storage.postgres.UpdateQuestionnaire"

	var set setBuilder

	if upd.Title != nil {
		set.add("title", *upd.Title)
	}
	if upd.Author != nil {
		set.add("author", *upd.Author)
	}
	if upd.StandardFrequency != nil {
		set.add("standard_frequency", *upd.StandardFrequency)
	}
	if upd.Description != nil {
		set.add("description", *upd.Description)
	}
	if upd.ScoringSchema != nil {
		set.add("scoring_schema", upd.ScoringSchema)
	}
	if upd.Questions != nil {
		set.add("questions", upd.Questions)
	}

	if set.empty() {
		return r.QuestionnaireByID(ctx, id)
	}

	query := fmt.Sprintf(`
		UPDATE questionnaires
		SET %s
		WHERE id = $%d
		RETURNING id, title, author, standard_frequency, description, scoring_schema, questions;
	`, set.clause(), set.next())

	q, err := scanQuestionnaire(r.pool.QueryRow(ctx, query, set.with(id)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Questionnaire{}, storage.ErrQuestionnaireNotFound
		}

		return models.Questionnaire{}, fmt.Errorf("%s: %w", op, err)
	}

	return q, nil
}

func (r *PostgresRepo) DeleteQuestionnaire(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteQuestionnaire"

	tag, err := r.pool.Exec(ctx, `DELETE FROM questionnaires WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrQuestionnaireNotFound
	}

	return nil
}

func scanQuestionnaire(row pgx.Row) (models.Questionnaire, error) {
	var q models.Questionnaire

	err := row.Scan(
		&q.ID,
		&q.Title,
		&q.Author,
		&q.StandardFrequency,
		&q.Description,
		&q.ScoringSchema,
		&q.Questions,
	)

	return q, err
}
