package repository

import (
	"context"
	"database/sql"

	"github.com/khushhal7/EduSync-Backend/internal/models"
	"github.com/rs/zerolog"
)

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.CourseWithInstructor, error)
	GetAll(ctx context.Context) ([]models.CourseWithInstructor, error)
	Update(ctx context.Context, course *models.Course) (bool, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

type courseRepository struct {
	*PostgresRepository
}

func NewCourseRepository(db *sql.DB, logger zerolog.Logger) CourseRepository {
	return &courseRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (id, title, description, instructor_id, media_url)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.InstructorID,
		course.MediaURL,
	)

	return err
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.CourseWithInstructor, error) {
	query := `
		SELECT c.id, c.title, c.description, c.instructor_id, c.media_url,
			u.name as instructor_name
		FROM courses c
		JOIN users u ON c.instructor_id = u.id
		WHERE c.id = $1
	`

	course := &models.CourseWithInstructor{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.InstructorID,
		&course.MediaURL,
		&course.InstructorName,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return course, err
}

func (r *courseRepository) GetAll(ctx context.Context) ([]models.CourseWithInstructor, error) {
	query := `
		SELECT c.id, c.title, c.description, c.instructor_id, c.media_url,
			u.name as instructor_name
		FROM courses c
		JOIN users u ON c.instructor_id = u.id
		ORDER BY c.title
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []models.CourseWithInstructor
	for rows.Next() {
		var course models.CourseWithInstructor
		err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.Description,
			&course.InstructorID,
			&course.MediaURL,
			&course.InstructorName,
		)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	return courses, rows.Err()
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) (bool, error) {
	query := `
		UPDATE courses
		SET title = $1, description = $2, instructor_id = $3, media_url = $4
		WHERE id = $5
	`

	res, err := r.db.ExecContext(ctx, query,
		course.Title,
		course.Description,
		course.InstructorID,
		course.MediaURL,
		course.ID,
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

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM courses WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *courseRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	return exists, err
}
