package repository

import (
	"context"
	"database/sql"

	"github.com/khushhal7/EduSync-Backend/internal/models"
	"github.com/rs/zerolog"
)

type ResultRepository interface {
	Create(ctx context.Context, result *models.Result) error
	GetByID(ctx context.Context, id string) (*models.ResultWithDetails, error)
	GetByUserID(ctx context.Context, userID string) ([]models.ResultWithDetails, error)
	GetByAssessmentID(ctx context.Context, assessmentID string) ([]models.ResultWithDetails, error)
}

type resultRepository struct {
	*PostgresRepository
}

func NewResultRepository(db *sql.DB, logger zerolog.Logger) ResultRepository {
	return &resultRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

// Create пишет результат одним INSERT внутри транзакции,
// чтобы фиксация была атомарной точкой для post-commit хука.
func (r *resultRepository) Create(ctx context.Context, result *models.Result) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO results (id, assessment_id, user_id, score, attempt_date)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = tx.ExecContext(ctx, query,
		result.ID,
		result.AssessmentID,
		result.UserID,
		result.Score,
		result.AttemptDate,
	)
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *resultRepository) GetByID(ctx context.Context, id string) (*models.ResultWithDetails, error) {
	query := `
		SELECT r.id, r.assessment_id, r.user_id, r.score, r.attempt_date,
			a.title as assessment_title,
			u.name as user_name
		FROM results r
		JOIN assessments a ON r.assessment_id = a.id
		JOIN users u ON r.user_id = u.id
		WHERE r.id = $1
	`

	result := &models.ResultWithDetails{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&result.ID,
		&result.AssessmentID,
		&result.UserID,
		&result.Score,
		&result.AttemptDate,
		&result.AssessmentTitle,
		&result.UserName,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return result, err
}

func (r *resultRepository) GetByUserID(ctx context.Context, userID string) ([]models.ResultWithDetails, error) {
	query := `
		SELECT r.id, r.assessment_id, r.user_id, r.score, r.attempt_date,
			a.title as assessment_title,
			u.name as user_name
		FROM results r
		JOIN assessments a ON r.assessment_id = a.id
		JOIN users u ON r.user_id = u.id
		WHERE r.user_id = $1
		ORDER BY r.attempt_date DESC
	`

	return r.queryResults(ctx, query, userID)
}

func (r *resultRepository) GetByAssessmentID(ctx context.Context, assessmentID string) ([]models.ResultWithDetails, error) {
	query := `
		SELECT r.id, r.assessment_id, r.user_id, r.score, r.attempt_date,
			a.title as assessment_title,
			u.name as user_name
		FROM results r
		JOIN assessments a ON r.assessment_id = a.id
		JOIN users u ON r.user_id = u.id
		WHERE r.assessment_id = $1
		ORDER BY r.attempt_date DESC
	`

	return r.queryResults(ctx, query, assessmentID)
}

func (r *resultRepository) queryResults(ctx context.Context, query string, arg interface{}) ([]models.ResultWithDetails, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.ResultWithDetails
	for rows.Next() {
		var result models.ResultWithDetails
		err := rows.Scan(
			&result.ID,
			&result.AssessmentID,
			&result.UserID,
			&result.Score,
			&result.AttemptDate,
			&result.AssessmentTitle,
			&result.UserName,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, rows.Err()
}
