package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/khushhal7/EduSync-Backend/internal/apperror"
	"github.com/khushhal7/EduSync-Backend/internal/metrics"
	"github.com/khushhal7/EduSync-Backend/internal/models"
	"github.com/khushhal7/EduSync-Backend/internal/repository"
	"github.com/khushhal7/EduSync-Backend/internal/service/integration"
	"github.com/rs/zerolog"
)

type ResultService interface {
	Submit(ctx context.Context, req *models.CreateResultRequest) (*models.ResultWithDetails, error)
	GetByID(ctx context.Context, id string) (*models.ResultWithDetails, error)
	GetByUser(ctx context.Context, userID string) ([]models.ResultWithDetails, error)
	GetByAssessment(ctx context.Context, assessmentID string) ([]models.ResultWithDetails, error)
}

type resultService struct {
	resultRepo     repository.ResultRepository
	assessmentRepo repository.AssessmentRepository
	userRepo       repository.UserRepository
	publisher      integration.EventPublisher
	collector      metrics.Collector
	logger         zerolog.Logger
}

func NewResultService(
	resultRepo repository.ResultRepository,
	assessmentRepo repository.AssessmentRepository,
	userRepo repository.UserRepository,
	publisher integration.EventPublisher,
	collector metrics.Collector,
	logger zerolog.Logger,
) ResultService {
	return &resultService{
		resultRepo:     resultRepo,
		assessmentRepo: assessmentRepo,
		userRepo:       userRepo,
		publisher:      publisher,
		collector:      collector,
		logger:         logger,
	}
}

// Submit валидирует попытку, durably пишет результат и уже после коммита
// best-effort публикует событие. Отказ транспорта не откатывает запись.
func (s *resultService) Submit(ctx context.Context, req *models.CreateResultRequest) (*models.ResultWithDetails, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, req.AssessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	if assessment == nil {
		return nil, apperror.NotFound("Assessment", req.AssessmentID)
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperror.NotFound("User", req.UserID)
	}

	if user.Role != models.RoleStudent {
		return nil, apperror.Forbidden(fmt.Sprintf(
			"User with ID %s is not a student and cannot submit results.", req.UserID,
		))
	}

	if req.Score < 0 || req.Score > assessment.MaxScore {
		return nil, apperror.InvalidArgument(fmt.Sprintf(
			"Score (%d) must be between 0 and the maximum score (%d) for this assessment.",
			req.Score, assessment.MaxScore,
		))
	}

	result := &models.Result{
		ID:           uuid.New().String(),
		AssessmentID: req.AssessmentID,
		UserID:       req.UserID,
		Score:        req.Score,
		AttemptDate:  time.Now().UTC(),
	}

	if err := s.resultRepo.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to create result: %w", err)
	}
	s.collector.RecordResultCreated()

	record := &models.ResultWithDetails{
		Result:          *result,
		AssessmentTitle: assessment.Title,
		UserName:        user.Name,
	}

	s.logger.Info().
		Str("result_id", result.ID).
		Str("assessment_id", result.AssessmentID).
		Str("user_id", result.UserID).
		Int("score", result.Score).
		Msg("Result recorded")

	s.publishRecorded(ctx, record)

	return record, nil
}

// publishRecorded — post-commit хук: ошибка логируется и отбрасывается.
func (s *resultService) publishRecorded(ctx context.Context, record *models.ResultWithDetails) {
	if s.publisher == nil {
		return
	}

	event := models.NewResultRecordedEvent(record)
	if err := s.publisher.PublishResultRecorded(ctx, event); err != nil {
		s.collector.RecordEventPublishFailure()
		s.logger.Error().Err(err).
			Str("result_id", record.ID).
			Msg("Failed to publish result recorded event")
		return
	}
	s.collector.RecordEventPublished()
}

func (s *resultService) GetByID(ctx context.Context, id string) (*models.ResultWithDetails, error) {
	result, err := s.resultRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	if result == nil {
		return nil, apperror.NotFound("Result", id)
	}

	return result, nil
}

func (s *resultService) GetByUser(ctx context.Context, userID string) ([]models.ResultWithDetails, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if !exists {
		return nil, apperror.NotFound("User", userID)
	}

	results, err := s.resultRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get results by user: %w", err)
	}

	return results, nil
}

func (s *resultService) GetByAssessment(ctx context.Context, assessmentID string) ([]models.ResultWithDetails, error) {
	exists, err := s.assessmentRepo.Exists(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check assessment existence: %w", err)
	}
	if !exists {
		return nil, apperror.NotFound("Assessment", assessmentID)
	}

	results, err := s.resultRepo.GetByAssessmentID(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get results by assessment: %w", err)
	}

	return results, nil
}
