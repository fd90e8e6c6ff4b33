package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khushhal7/EduSync-Backend/internal/apperror"
	"github.com/khushhal7/EduSync-Backend/internal/metrics"
	"github.com/khushhal7/EduSync-Backend/internal/models"
	"github.com/khushhal7/EduSync-Backend/internal/repository"
	"github.com/khushhal7/EduSync-Backend/internal/service/integration"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const genericResetMessage = "If an account with that email exists, a password reset link has been sent."

type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.UserResponse, error)
	ForgotPassword(ctx context.Context, email string) string
	ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error
}

type AuthConfig struct {
	ResetBaseURL string
	TokenTTL     time.Duration
	SendTimeout  time.Duration
	BcryptCost   int
}

type authService struct {
	userRepo  repository.UserRepository
	email     integration.EmailClient
	cfg       AuthConfig
	collector metrics.Collector
	logger    zerolog.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	email integration.EmailClient,
	cfg AuthConfig,
	collector metrics.Collector,
	logger zerolog.Logger,
) AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	return &authService{
		userRepo:  userRepo,
		email:     email,
		cfg:       cfg,
		collector: collector,
		logger:    logger,
	}
}

func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, apperror.InvalidArgument("name, email and password are required")
	}
	if !models.IsValidRole(req.Role) {
		return nil, apperror.InvalidArgument(fmt.Sprintf("Role must be %q or %q.", models.RoleStudent, models.RoleInstructor))
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, apperror.InvalidArgument("Email already exists.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		Role:         models.Role(req.Role),
		PasswordHash: string(hash),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("role", user.Role.String()).
		Msg("User registered")

	return toUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if user == nil {
		return nil, apperror.InvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	return toUserResponse(user), nil
}

// ForgotPassword всегда возвращает один и тот же ответ: по нему нельзя
// определить, существует ли учётная запись.
func (s *authService) ForgotPassword(ctx context.Context, email string) string {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to look up user for password reset")
		return genericResetMessage
	}
	if user == nil {
		return genericResetMessage
	}

	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	expiry := time.Now().UTC().Add(s.cfg.TokenTTL)

	if err := s.userRepo.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to store reset token")
		return genericResetMessage
	}
	s.collector.RecordResetTokenIssued()

	s.sendResetLink(ctx, user, token)

	return genericResetMessage
}

// sendResetLink — best-effort побочный эффект после записи токена:
// отказ почты не откатывает выдачу и не виден вызывающему.
func (s *authService) sendResetLink(ctx context.Context, user *models.User, token string) {
	if s.email == nil {
		return
	}

	resetLink := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(s.cfg.ResetBaseURL, "/"), token)

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()

	if err := s.email.SendPasswordResetEmail(sendCtx, user.Email, user.Name, resetLink); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", user.ID).
			Msg("Failed to send password reset email")
	}
}

func (s *authService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if req.Token == "" || req.NewPassword == "" {
		return apperror.InvalidArgument("token and newPassword are required")
	}
	if req.NewPassword != req.ConfirmPassword {
		return apperror.InvalidArgument("Passwords do not match.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	redeemed, err := s.userRepo.RedeemResetToken(ctx, req.Token, string(hash), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to redeem reset token: %w", err)
	}
	if !redeemed {
		return apperror.InvalidToken()
	}

	s.logger.Info().Msg("Password reset completed")

	return nil
}

func toUserResponse(user *models.User) *models.UserResponse {
	return &models.UserResponse{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role.String(),
	}
}
