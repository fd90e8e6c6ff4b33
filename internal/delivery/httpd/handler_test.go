package httpd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/khushhal7/EduSync-Backend/internal/apperror"
	"github.com/khushhal7/EduSync-Backend/internal/models"
	"github.com/khushhal7/EduSync-Backend/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Стабы сервисов: каждый хендлер-тест подменяет только нужные функции.

type stubResultService struct {
	submitFn          func(ctx context.Context, req *models.CreateResultRequest) (*models.ResultWithDetails, error)
	getByIDFn         func(ctx context.Context, id string) (*models.ResultWithDetails, error)
	getByUserFn       func(ctx context.Context, userID string) ([]models.ResultWithDetails, error)
	getByAssessmentFn func(ctx context.Context, assessmentID string) ([]models.ResultWithDetails, error)
}

func (s *stubResultService) Submit(ctx context.Context, req *models.CreateResultRequest) (*models.ResultWithDetails, error) {
	return s.submitFn(ctx, req)
}

func (s *stubResultService) GetByID(ctx context.Context, id string) (*models.ResultWithDetails, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubResultService) GetByUser(ctx context.Context, userID string) ([]models.ResultWithDetails, error) {
	return s.getByUserFn(ctx, userID)
}

func (s *stubResultService) GetByAssessment(ctx context.Context, assessmentID string) ([]models.ResultWithDetails, error) {
	return s.getByAssessmentFn(ctx, assessmentID)
}

type stubFileService struct {
	uploadFn   func(ctx context.Context, fileName, contentType string, content io.Reader, size int64) (*models.UploadFileResponse, error)
	downloadFn func(ctx context.Context, blobName string) (*service.DownloadFileResponse, error)
}

func (s *stubFileService) Upload(ctx context.Context, fileName, contentType string, content io.Reader, size int64) (*models.UploadFileResponse, error) {
	return s.uploadFn(ctx, fileName, contentType, content, size)
}

func (s *stubFileService) Download(ctx context.Context, blobName string) (*service.DownloadFileResponse, error) {
	return s.downloadFn(ctx, blobName)
}

type stubAuthService struct {
	registerFn       func(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error)
	loginFn          func(ctx context.Context, req *models.LoginRequest) (*models.UserResponse, error)
	forgotPasswordFn func(ctx context.Context, email string) string
	resetPasswordFn  func(ctx context.Context, req *models.ResetPasswordRequest) error
}

func (s *stubAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error) {
	return s.registerFn(ctx, req)
}

func (s *stubAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.UserResponse, error) {
	return s.loginFn(ctx, req)
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, email string) string {
	return s.forgotPasswordFn(ctx, email)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	return s.resetPasswordFn(ctx, req)
}

type stubCourseService struct {
	createFn  func(ctx context.Context, req *models.CreateCourseRequest) (*models.CourseWithInstructor, error)
	getByIDFn func(ctx context.Context, id string) (*models.CourseWithInstructor, error)
	getAllFn  func(ctx context.Context) ([]models.CourseWithInstructor, error)
	updateFn  func(ctx context.Context, id string, req *models.CreateCourseRequest) error
	deleteFn  func(ctx context.Context, id string) error
}

func (s *stubCourseService) Create(ctx context.Context, req *models.CreateCourseRequest) (*models.CourseWithInstructor, error) {
	return s.createFn(ctx, req)
}

func (s *stubCourseService) GetByID(ctx context.Context, id string) (*models.CourseWithInstructor, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubCourseService) GetAll(ctx context.Context) ([]models.CourseWithInstructor, error) {
	return s.getAllFn(ctx)
}

func (s *stubCourseService) Update(ctx context.Context, id string, req *models.CreateCourseRequest) error {
	return s.updateFn(ctx, id, req)
}

func (s *stubCourseService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type stubAssessmentService struct {
	createFn      func(ctx context.Context, req *models.CreateAssessmentRequest) (*models.Assessment, error)
	getByIDFn     func(ctx context.Context, id string) (*models.Assessment, error)
	getByCourseFn func(ctx context.Context, courseID string) ([]models.Assessment, error)
	updateFn      func(ctx context.Context, id string, req *models.UpdateAssessmentRequest) error
	deleteFn      func(ctx context.Context, id string) error
}

func (s *stubAssessmentService) Create(ctx context.Context, req *models.CreateAssessmentRequest) (*models.Assessment, error) {
	return s.createFn(ctx, req)
}

func (s *stubAssessmentService) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubAssessmentService) GetByCourse(ctx context.Context, courseID string) ([]models.Assessment, error) {
	return s.getByCourseFn(ctx, courseID)
}

func (s *stubAssessmentService) Update(ctx context.Context, id string, req *models.UpdateAssessmentRequest) error {
	return s.updateFn(ctx, id, req)
}

func (s *stubAssessmentService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type testServer struct {
	router     chi.Router
	result     *stubResultService
	file       *stubFileService
	auth       *stubAuthService
	course     *stubCourseService
	assessment *stubAssessmentService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		result:     &stubResultService{},
		file:       &stubFileService{},
		auth:       &stubAuthService{},
		course:     &stubCourseService{},
		assessment: &stubAssessmentService{},
	}

	handler := NewHandler(ts.result, ts.file, ts.auth, ts.course, ts.assessment, nil, nil, zerolog.Nop())

	ts.router = chi.NewRouter()
	handler.RegisterRoutes(ts.router)

	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp models.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Message
}

func sampleRecord() *models.ResultWithDetails {
	return &models.ResultWithDetails{
		Result: models.Result{
			ID:           uuid.New().String(),
			AssessmentID: uuid.New().String(),
			UserID:       uuid.New().String(),
			Score:        85,
		},
		AssessmentTitle: "Algebra Quiz",
		UserName:        "Alice",
	}
}

func TestCreateResult(t *testing.T) {
	ts := newTestServer(t)
	record := sampleRecord()
	ts.result.submitFn = func(ctx context.Context, req *models.CreateResultRequest) (*models.ResultWithDetails, error) {
		return record, nil
	}

	rec := ts.do(t, http.MethodPost, "/results", models.CreateResultRequest{
		AssessmentID: record.AssessmentID,
		UserID:       record.UserID,
		Score:        85,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)

	var got models.ResultWithDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, "Algebra Quiz", got.AssessmentTitle)

	// Внешние имена полей — camelCase.
	assert.Contains(t, rec.Body.String(), `"resultId"`)
	assert.Contains(t, rec.Body.String(), `"assessmentTitle"`)
	assert.Contains(t, rec.Body.String(), `"attemptDate"`)
}

func TestCreateResult_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"assessment missing", apperror.NotFound("Assessment", "x"), http.StatusNotFound},
		{"not a student", apperror.Forbidden("User with ID x is not a student and cannot submit results."), http.StatusForbidden},
		{"score out of range", apperror.InvalidArgument("Score (150) must be between 0 and the maximum score (100) for this assessment."), http.StatusBadRequest},
		{"storage down", apperror.Dependency("insert result", io.ErrUnexpectedEOF), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.result.submitFn = func(ctx context.Context, req *models.CreateResultRequest) (*models.ResultWithDetails, error) {
				return nil, tt.err
			}

			rec := ts.do(t, http.MethodPost, "/results", models.CreateResultRequest{Score: 1})
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCreateResult_MalformedBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/results", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetResultByID_InvalidUUID(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/results/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetResultsForUser_EmptyList(t *testing.T) {
	ts := newTestServer(t)
	ts.result.getByUserFn = func(ctx context.Context, userID string) ([]models.ResultWithDetails, error) {
		return nil, nil
	}

	rec := ts.do(t, http.MethodGet, "/results/user/"+uuid.New().String(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	// Пустой список сериализуется как [], не null.
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestGetResultsForAssessment_NotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.result.getByAssessmentFn = func(ctx context.Context, assessmentID string) ([]models.ResultWithDetails, error) {
		return nil, apperror.NotFound("Assessment", assessmentID)
	}

	rec := ts.do(t, http.MethodGet, "/results/assessment/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadFile(t *testing.T) {
	ts := newTestServer(t)
	ts.file.uploadFn = func(ctx context.Context, fileName, contentType string, content io.Reader, size int64) (*models.UploadFileResponse, error) {
		assert.Equal(t, "notes.pdf", fileName)
		data, err := io.ReadAll(content)
		require.NoError(t, err)
		assert.Equal(t, "lecture notes", string(data))
		return &models.UploadFileResponse{
			URL:      "http://localhost:9000/edusync-media/abc_notes.pdf",
			BlobName: "abc_notes.pdf",
		}, nil
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "notes.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("lecture notes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/files/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.UploadFileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "abc_notes.pdf", resp.BlobName)
	assert.Contains(t, rec.Body.String(), `"url"`)
	assert.Contains(t, rec.Body.String(), `"blobName"`)
}

func TestUploadFile_MissingFilePart(t *testing.T) {
	ts := newTestServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("name", "notes"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/files/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadFile_Oversized(t *testing.T) {
	ts := newTestServer(t)
	ts.file.uploadFn = func(ctx context.Context, fileName, contentType string, content io.Reader, size int64) (*models.UploadFileResponse, error) {
		return nil, apperror.PayloadTooLarge("File size exceeds the 10MB limit.")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "big.bin")
	require.NoError(t, err)
	_, err = part.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/files/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "File size exceeds the 10MB limit.", decodeMessage(t, rec))
}

func TestDownloadFile(t *testing.T) {
	ts := newTestServer(t)
	ts.file.downloadFn = func(ctx context.Context, blobName string) (*service.DownloadFileResponse, error) {
		return &service.DownloadFileResponse{
			Content:     io.NopCloser(strings.NewReader("stored bytes")),
			ContentType: "application/pdf",
			Size:        12,
			BlobName:    blobName,
		}, nil
	}

	rec := ts.do(t, http.MethodGet, "/files/download/abc_notes.pdf", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stored bytes", rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "abc_notes.pdf")
}

func TestDownloadFile_NotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.file.downloadFn = func(ctx context.Context, blobName string) (*service.DownloadFileResponse, error) {
		return nil, apperror.NotFoundMsg("File not found.")
	}

	rec := ts.do(t, http.MethodGet, "/files/download/missing.bin", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestForgotPassword_AlwaysOK(t *testing.T) {
	ts := newTestServer(t)
	const generic = "If an account with that email exists, a password reset link has been sent."
	ts.auth.forgotPasswordFn = func(ctx context.Context, email string) string {
		return generic
	}

	rec := ts.do(t, http.MethodPost, "/auth/forgot-password", models.ForgotPasswordRequest{Email: "nobody@example.com"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, generic, decodeMessage(t, rec))
}

func TestResetPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.resetPasswordFn = func(ctx context.Context, req *models.ResetPasswordRequest) error {
		return nil
	}

	rec := ts.do(t, http.MethodPost, "/auth/reset-password", models.ResetPasswordRequest{
		Token:           "token",
		NewPassword:     "newsecret456",
		ConfirmPassword: "newsecret456",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResetPassword_InvalidToken(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.resetPasswordFn = func(ctx context.Context, req *models.ResetPasswordRequest) error {
		return apperror.InvalidToken()
	}

	rec := ts.do(t, http.MethodPost, "/auth/reset-password", models.ResetPasswordRequest{
		Token:           "used",
		NewPassword:     "newsecret456",
		ConfirmPassword: "newsecret456",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid or expired password reset token.", decodeMessage(t, rec))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.loginFn = func(ctx context.Context, req *models.LoginRequest) (*models.UserResponse, error) {
		return nil, apperror.InvalidCredentials()
	}

	rec := ts.do(t, http.MethodPost, "/auth/login", models.LoginRequest{Email: "a@b.c", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.registerFn = func(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error) {
		return &models.UserResponse{
			UserID: uuid.New().String(),
			Name:   req.Name,
			Email:  req.Email,
			Role:   req.Role,
		}, nil
	}

	rec := ts.do(t, http.MethodPost, "/auth/register", models.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret123", Role: "Student",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId"`)
	// Пароль и его хэш никогда не попадают в ответ.
	assert.NotContains(t, rec.Body.String(), "secret123")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestCourseRoutes(t *testing.T) {
	ts := newTestServer(t)
	courseID := uuid.New().String()
	course := &models.CourseWithInstructor{
		Course: models.Course{
			ID:           courseID,
			Title:        "Algebra 101",
			InstructorID: uuid.New().String(),
		},
		InstructorName: "Bob",
	}

	ts.course.createFn = func(ctx context.Context, req *models.CreateCourseRequest) (*models.CourseWithInstructor, error) {
		return course, nil
	}
	ts.course.getByIDFn = func(ctx context.Context, id string) (*models.CourseWithInstructor, error) {
		return course, nil
	}
	ts.course.getAllFn = func(ctx context.Context) ([]models.CourseWithInstructor, error) {
		return []models.CourseWithInstructor{*course}, nil
	}
	ts.course.updateFn = func(ctx context.Context, id string, req *models.CreateCourseRequest) error {
		return nil
	}
	ts.course.deleteFn = func(ctx context.Context, id string) error {
		return nil
	}

	rec := ts.do(t, http.MethodPost, "/courses", models.CreateCourseRequest{Title: "Algebra 101"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"instructorName"`)

	rec = ts.do(t, http.MethodGet, "/courses", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/courses/"+courseID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPut, "/courses/"+courseID, models.CreateCourseRequest{Title: "Algebra 102"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/courses/"+courseID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGetAssessmentsForCourse(t *testing.T) {
	ts := newTestServer(t)
	courseID := uuid.New().String()
	ts.assessment.getByCourseFn = func(ctx context.Context, gotCourseID string) ([]models.Assessment, error) {
		assert.Equal(t, courseID, gotCourseID)
		return []models.Assessment{{
			ID:       uuid.New().String(),
			CourseID: courseID,
			Title:    "Midterm",
			MaxScore: 100,
		}}, nil
	}

	rec := ts.do(t, http.MethodGet, "/courses/"+courseID+"/assessments", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"maxScore"`)
}

func TestAssessmentRoutes(t *testing.T) {
	ts := newTestServer(t)
	assessmentID := uuid.New().String()
	assessment := &models.Assessment{
		ID:       assessmentID,
		CourseID: uuid.New().String(),
		Title:    "Midterm",
		MaxScore: 100,
	}

	ts.assessment.createFn = func(ctx context.Context, req *models.CreateAssessmentRequest) (*models.Assessment, error) {
		return assessment, nil
	}
	ts.assessment.getByIDFn = func(ctx context.Context, id string) (*models.Assessment, error) {
		return assessment, nil
	}
	ts.assessment.updateFn = func(ctx context.Context, id string, req *models.UpdateAssessmentRequest) error {
		return nil
	}
	ts.assessment.deleteFn = func(ctx context.Context, id string) error {
		return apperror.NotFound("Assessment", id)
	}

	rec := ts.do(t, http.MethodPost, "/assessments", models.CreateAssessmentRequest{Title: "Midterm", MaxScore: 100})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodGet, "/assessments/"+assessmentID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPut, "/assessments/"+assessmentID, models.UpdateAssessmentRequest{Title: "Final", MaxScore: 50})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/assessments/"+assessmentID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
}
