package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/khushhal7/EduSync-Backend/internal/apperror"
	"github.com/khushhal7/EduSync-Backend/internal/models"
	"github.com/khushhal7/EduSync-Backend/internal/repository"
	"github.com/rs/zerolog"
)

type CourseService interface {
	Create(ctx context.Context, req *models.CreateCourseRequest) (*models.CourseWithInstructor, error)
	GetByID(ctx context.Context, id string) (*models.CourseWithInstructor, error)
	GetAll(ctx context.Context) ([]models.CourseWithInstructor, error)
	Update(ctx context.Context, id string, req *models.CreateCourseRequest) error
	Delete(ctx context.Context, id string) error
}

type courseService struct {
	courseRepo repository.CourseRepository
	userRepo   repository.UserRepository
	logger     zerolog.Logger
}

func NewCourseService(courseRepo repository.CourseRepository, userRepo repository.UserRepository, logger zerolog.Logger) CourseService {
	return &courseService{
		courseRepo: courseRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

func (s *courseService) Create(ctx context.Context, req *models.CreateCourseRequest) (*models.CourseWithInstructor, error) {
	if req.Title == "" {
		return nil, apperror.InvalidArgument("title is required")
	}

	instructor, err := s.lookupInstructor(ctx, req.InstructorID)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		ID:           uuid.New().String(),
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: req.InstructorID,
		MediaURL:     req.MediaURL,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info().
		Str("course_id", course.ID).
		Str("instructor_id", course.InstructorID).
		Msg("Course created")

	return &models.CourseWithInstructor{
		Course:         *course,
		InstructorName: instructor.Name,
	}, nil
}

func (s *courseService) GetByID(ctx context.Context, id string) (*models.CourseWithInstructor, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, apperror.NotFound("Course", id)
	}

	return course, nil
}

func (s *courseService) GetAll(ctx context.Context) ([]models.CourseWithInstructor, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get courses: %w", err)
	}

	return courses, nil
}

func (s *courseService) Update(ctx context.Context, id string, req *models.CreateCourseRequest) error {
	existing, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get course: %w", err)
	}
	if existing == nil {
		return apperror.NotFound("Course", id)
	}

	if req.InstructorID != existing.InstructorID {
		if _, err := s.lookupInstructor(ctx, req.InstructorID); err != nil {
			return err
		}
	}

	course := &models.Course{
		ID:           id,
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: req.InstructorID,
		MediaURL:     req.MediaURL,
	}

	updated, err := s.courseRepo.Update(ctx, course)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	if !updated {
		// Строка исчезла между чтением и записью: считаем not found.
		return apperror.NotFound("Course", id)
	}

	return nil
}

func (s *courseService) Delete(ctx context.Context, id string) error {
	exists, err := s.courseRepo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check course existence: %w", err)
	}
	if !exists {
		return apperror.NotFound("Course", id)
	}

	return s.courseRepo.Delete(ctx, id)
}

func (s *courseService) lookupInstructor(ctx context.Context, instructorID string) (*models.User, error) {
	instructor, err := s.userRepo.GetByID(ctx, instructorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get instructor: %w", err)
	}
	if instructor == nil || instructor.Role != models.RoleInstructor {
		return nil, apperror.InvalidArgument("Invalid Instructor ID or user is not an Instructor.")
	}

	return instructor, nil
}
