package httpd

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/khushhal7/EduSync-Backend/internal/middleware"
	"github.com/khushhal7/EduSync-Backend/internal/service"
	"github.com/rs/zerolog"
)

type Handler struct {
	resultService     service.ResultService
	fileService       service.FileService
	authService       service.AuthService
	courseService     service.CourseService
	assessmentService service.AssessmentService
	authLimiter       *middleware.RateLimiter
	metricsHandler    http.Handler
	logger            zerolog.Logger
}

func NewHandler(
	resultService service.ResultService,
	fileService service.FileService,
	authService service.AuthService,
	courseService service.CourseService,
	assessmentService service.AssessmentService,
	authLimiter *middleware.RateLimiter,
	metricsHandler http.Handler,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		resultService:     resultService,
		fileService:       fileService,
		authService:       authService,
		courseService:     courseService,
		assessmentService: assessmentService,
		authLimiter:       authLimiter,
		metricsHandler:    metricsHandler,
		logger:            logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)
	if h.metricsHandler != nil {
		router.Method(http.MethodGet, "/metrics", h.metricsHandler)
	}

	router.Route("/results", func(r chi.Router) {
		r.Post("/", h.CreateResult)
		r.Get("/{id}", h.GetResultByID)
		r.Get("/user/{userId}", h.GetResultsForUser)
		r.Get("/assessment/{assessmentId}", h.GetResultsForAssessment)
	})

	router.Route("/files", func(r chi.Router) {
		r.Post("/upload", h.UploadFile)
		r.Get("/download/{blobName}", h.DownloadFile)
	})

	router.Route("/auth", func(r chi.Router) {
		if h.authLimiter != nil {
			r.Use(h.authLimiter.Middleware)
		}
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password", h.ResetPassword)
	})

	router.Route("/courses", func(r chi.Router) {
		r.Post("/", h.CreateCourse)
		r.Get("/", h.GetAllCourses)
		r.Get("/{id}", h.GetCourseByID)
		r.Put("/{id}", h.UpdateCourse)
		r.Delete("/{id}", h.DeleteCourse)
		r.Get("/{courseId}/assessments", h.GetAssessmentsForCourse)
	})

	router.Route("/assessments", func(r chi.Router) {
		r.Post("/", h.CreateAssessment)
		r.Get("/{id}", h.GetAssessmentByID)
		r.Put("/{id}", h.UpdateAssessment)
		r.Delete("/{id}", h.DeleteAssessment)
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "edusync-backend",
		"timestamp": time.Now().UTC(),
	})
}
