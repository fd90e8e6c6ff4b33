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

type AssessmentService interface {
	Create(ctx context.Context, req *models.CreateAssessmentRequest) (*models.Assessment, error)
	GetByID(ctx context.Context, id string) (*models.Assessment, error)
	GetByCourse(ctx context.Context, courseID string) ([]models.Assessment, error)
	Update(ctx context.Context, id string, req *models.UpdateAssessmentRequest) error
	Delete(ctx context.Context, id string) error
}

type assessmentService struct {
	assessmentRepo repository.AssessmentRepository
	courseRepo     repository.CourseRepository
	logger         zerolog.Logger
}

func NewAssessmentService(assessmentRepo repository.AssessmentRepository, courseRepo repository.CourseRepository, logger zerolog.Logger) AssessmentService {
	return &assessmentService{
		assessmentRepo: assessmentRepo,
		courseRepo:     courseRepo,
		logger:         logger,
	}
}

func (s *assessmentService) Create(ctx context.Context, req *models.CreateAssessmentRequest) (*models.Assessment, error) {
	if req.Title == "" {
		return nil, apperror.InvalidArgument("title is required")
	}
	if req.MaxScore <= 0 {
		return nil, apperror.InvalidArgument("maxScore must be a positive integer")
	}

	exists, err := s.courseRepo.Exists(ctx, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course existence: %w", err)
	}
	if !exists {
		return nil, apperror.NotFound("Course", req.CourseID)
	}

	assessment := &models.Assessment{
		ID:        uuid.New().String(),
		CourseID:  req.CourseID,
		Title:     req.Title,
		Questions: req.Questions,
		MaxScore:  req.MaxScore,
	}

	if err := s.assessmentRepo.Create(ctx, assessment); err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}

	s.logger.Info().
		Str("assessment_id", assessment.ID).
		Str("course_id", assessment.CourseID).
		Int("max_score", assessment.MaxScore).
		Msg("Assessment created")

	return assessment, nil
}

func (s *assessmentService) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	if assessment == nil {
		return nil, apperror.NotFound("Assessment", id)
	}

	return assessment, nil
}

func (s *assessmentService) GetByCourse(ctx context.Context, courseID string) ([]models.Assessment, error) {
	exists, err := s.courseRepo.Exists(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course existence: %w", err)
	}
	if !exists {
		return nil, apperror.NotFound("Course", courseID)
	}

	assessments, err := s.assessmentRepo.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assessments by course: %w", err)
	}

	return assessments, nil
}

func (s *assessmentService) Update(ctx context.Context, id string, req *models.UpdateAssessmentRequest) error {
	if req.MaxScore <= 0 {
		return apperror.InvalidArgument("maxScore must be a positive integer")
	}

	existing, err := s.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get assessment: %w", err)
	}
	if existing == nil {
		return apperror.NotFound("Assessment", id)
	}

	assessment := &models.Assessment{
		ID:        id,
		CourseID:  existing.CourseID,
		Title:     req.Title,
		Questions: req.Questions,
		MaxScore:  req.MaxScore,
	}

	updated, err := s.assessmentRepo.Update(ctx, assessment)
	if err != nil {
		return fmt.Errorf("failed to update assessment: %w", err)
	}
	if !updated {
		return apperror.NotFound("Assessment", id)
	}

	return nil
}

// Delete каскадно удаляет и все results этого assessment (FK в схеме).
func (s *assessmentService) Delete(ctx context.Context, id string) error {
	exists, err := s.assessmentRepo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check assessment existence: %w", err)
	}
	if !exists {
		return apperror.NotFound("Assessment", id)
	}

	return s.assessmentRepo.Delete(ctx, id)
}
