package repository

import (
	"context"
	"database/sql"

	"github.com/khushhal7/EduSync-Backend/internal/models"
	"github.com/rs/zerolog"
)

type AssessmentRepository interface {
	Create(ctx context.Context, assessment *models.Assessment) error
	GetByID(ctx context.Context, id string) (*models.Assessment, error)
	GetByCourseID(ctx context.Context, courseID string) ([]models.Assessment, error)
	Update(ctx context.Context, assessment *models.Assessment) (bool, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

type assessmentRepository struct {
	*PostgresRepository
}

func NewAssessmentRepository(db *sql.DB, logger zerolog.Logger) AssessmentRepository {
	return &assessmentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	query := `
		INSERT INTO assessments (id, course_id, title, questions, max_score)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		assessment.ID,
		assessment.CourseID,
		assessment.Title,
		assessment.Questions,
		assessment.MaxScore,
	)

	return err
}

func (r *assessmentRepository) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	query := `
		SELECT id, course_id, title, questions, max_score
		FROM assessments
		WHERE id = $1
	`

	assessment := &models.Assessment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&assessment.ID,
		&assessment.CourseID,
		&assessment.Title,
		&assessment.Questions,
		&assessment.MaxScore,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return assessment, err
}

func (r *assessmentRepository) GetByCourseID(ctx context.Context, courseID string) ([]models.Assessment, error) {
	query := `
		SELECT id, course_id, title, questions, max_score
		FROM assessments
		WHERE course_id = $1
		ORDER BY title
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []models.Assessment
	for rows.Next() {
		var assessment models.Assessment
		err := rows.Scan(
			&assessment.ID,
			&assessment.CourseID,
			&assessment.Title,
			&assessment.Questions,
			&assessment.MaxScore,
		)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, assessment)
	}

	return assessments, rows.Err()
}

func (r *assessmentRepository) Update(ctx context.Context, assessment *models.Assessment) (bool, error) {
	query := `
		UPDATE assessments
		SET title = $1, questions = $2, max_score = $3
		WHERE id = $4
	`

	res, err := r.db.ExecContext(ctx, query,
		assessment.Title,
		assessment.Questions,
		assessment.MaxScore,
		assessment.ID,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *assessmentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM assessments WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *assessmentRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM assessments WHERE id = $1)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	return exists, err
}
