package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/khushhal7/EduSync-Backend/internal/config"
	"github.com/khushhal7/EduSync-Backend/internal/delivery/httpd"
	"github.com/khushhal7/EduSync-Backend/internal/metrics"
	"github.com/khushhal7/EduSync-Backend/internal/middleware"
	"github.com/khushhal7/EduSync-Backend/internal/repository"
	"github.com/khushhal7/EduSync-Backend/internal/service"
	"github.com/khushhal7/EduSync-Backend/internal/service/integration"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

// Лимит на auth-эндпоинты: 30 запросов в минуту с одного адреса.
const (
	authRequestsPerMinute = 30
	authBurst             = 10
)

type App struct {
	server      *http.Server
	logger      zerolog.Logger
	config      *config.Config
	db          *sql.DB
	publisher   integration.EventPublisher
	authLimiter *middleware.RateLimiter
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	// Создаем интеграционные клиенты
	publisher, err := integration.NewRabbitMQPublisher(
		cfg.Events.URL,
		cfg.Events.Exchange,
		cfg.Events.RoutingKey,
		cfg.Events.QueueName,
		cfg.Events.PublishTimeout,
		cfg.Events.MaxPayloadSize,
		log,
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create RabbitMQ publisher")
		// Продолжаем без брокера, публикация событий best-effort
		publisher = nil
	}

	emailClient := integration.NewSMTPEmailClient(
		cfg.Email.Host,
		cfg.Email.Port,
		cfg.Email.Username,
		cfg.Email.Password,
		cfg.Email.SenderEmail,
		cfg.Email.SenderName,
		log,
	)

	blobRepo, err := repository.NewMinIORepository(
		cfg.Blob.Endpoint,
		cfg.Blob.AccessKey,
		cfg.Blob.SecretKey,
		cfg.Blob.Bucket,
		cfg.Blob.Region,
		cfg.Blob.UseSSL,
		cfg.Blob.ConnectTimeout,
		log,
	)
	if err != nil {
		return nil, err
	}

	// Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewPrometheusCollector(registry)

	// Создаем репозитории
	userRepo := repository.NewUserRepository(db, log)
	courseRepo := repository.NewCourseRepository(db, log)
	assessmentRepo := repository.NewAssessmentRepository(db, log)
	resultRepo := repository.NewResultRepository(db, log)

	// Создаем сервисы
	resultService := service.NewResultService(resultRepo, assessmentRepo, userRepo, publisher, collector, log)
	fileService := service.NewFileService(blobRepo, cfg.Blob.MaxUploadSize, collector, log)
	authService := service.NewAuthService(userRepo, emailClient, service.AuthConfig{
		ResetBaseURL: cfg.Reset.BaseURL,
		TokenTTL:     cfg.Reset.TokenTTL,
		SendTimeout:  cfg.Email.SendTimeout,
	}, collector, log)
	courseService := service.NewCourseService(courseRepo, userRepo, log)
	assessmentService := service.NewAssessmentService(assessmentRepo, courseRepo, log)

	authLimiter := middleware.NewRateLimiter(authRequestsPerMinute, authBurst)

	// Создаем обработчики
	handler := httpd.NewHandler(
		resultService,
		fileService,
		authService,
		courseService,
		assessmentService,
		authLimiter,
		metrics.Handler(registry),
		log,
	)

	// Создаем роутер
	router := chi.NewRouter()

	// Настраиваем middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Timeout(60 * time.Second))

	// Настраиваем CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	// Регистрируем маршруты
	handler.RegisterRoutes(router)

	// Создаем HTTP сервер
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:      server,
		logger:      log,
		config:      cfg,
		db:          db,
		publisher:   publisher,
		authLimiter: authLimiter,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting EduSync backend on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down EduSync backend...")

	a.authLimiter.Stop()

	// Закрываем соединение с брокером
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	// Закрываем соединение с БД
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	// Останавливаем сервер
	return a.server.Shutdown(ctx)
}
