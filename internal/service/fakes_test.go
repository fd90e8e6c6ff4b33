package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/khushhal7/EduSync-Backend/internal/models"
)

// Фейки in-memory: интерфейсы репозиториев позволяют тестировать сервисы
// без Postgres, MinIO и RabbitMQ.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User

	setResetTokenErr error
	getByEmailErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) add(user *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := *user
	f.users[user.ID] = &u
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.add(user)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Exists(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserRepo) SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error {
	if f.setResetTokenErr != nil {
		return f.setResetTokenErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	u.ResetToken = &token
	u.ResetTokenExpiry = &expiry
	return nil
}

func (f *fakeUserRepo) RedeemResetToken(ctx context.Context, token, passwordHash string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ResetToken != nil && *u.ResetToken == token && u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(now) {
			u.PasswordHash = passwordHash
			u.ResetToken = nil
			u.ResetTokenExpiry = nil
			return true, nil
		}
	}
	return false, nil
}

type fakeAssessmentRepo struct {
	mu          sync.Mutex
	assessments map[string]*models.Assessment
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{assessments: make(map[string]*models.Assessment)}
}

func (f *fakeAssessmentRepo) add(a *models.Assessment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *a
	f.assessments[a.ID] = &copied
}

func (f *fakeAssessmentRepo) Create(ctx context.Context, a *models.Assessment) error {
	f.add(a)
	return nil
}

func (f *fakeAssessmentRepo) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.assessments[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeAssessmentRepo) GetByCourseID(ctx context.Context, courseID string) ([]models.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Assessment
	for _, a := range f.assessments {
		if a.CourseID == courseID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssessmentRepo) Update(ctx context.Context, a *models.Assessment) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.assessments[a.ID]; !ok {
		return false, nil
	}
	copied := *a
	f.assessments[a.ID] = &copied
	return true, nil
}

func (f *fakeAssessmentRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.assessments, id)
	return nil
}

func (f *fakeAssessmentRepo) Exists(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.assessments[id]
	return ok, nil
}

type fakeCourseRepo struct {
	mu      sync.Mutex
	courses map[string]*models.CourseWithInstructor
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[string]*models.CourseWithInstructor)}
}

func (f *fakeCourseRepo) add(c *models.CourseWithInstructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *c
	f.courses[c.ID] = &copied
}

func (f *fakeCourseRepo) Create(ctx context.Context, c *models.Course) error {
	f.add(&models.CourseWithInstructor{Course: *c})
	return nil
}

func (f *fakeCourseRepo) GetByID(ctx context.Context, id string) (*models.CourseWithInstructor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.courses[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeCourseRepo) GetAll(ctx context.Context) ([]models.CourseWithInstructor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CourseWithInstructor
	for _, c := range f.courses {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, c *models.Course) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.courses[c.ID]
	if !ok {
		return false, nil
	}
	existing.Course = *c
	return true, nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseRepo) Exists(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.courses[id]
	return ok, nil
}

type fakeResultRepo struct {
	mu        sync.Mutex
	results   []models.Result
	createErr error

	assessmentTitle string
	userName        string
}

func (f *fakeResultRepo) Create(ctx context.Context, r *models.Result) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, *r)
	return nil
}

func (f *fakeResultRepo) withDetails(r models.Result) models.ResultWithDetails {
	return models.ResultWithDetails{
		Result:          r,
		AssessmentTitle: f.assessmentTitle,
		UserName:        f.userName,
	}
}

func (f *fakeResultRepo) GetByID(ctx context.Context, id string) (*models.ResultWithDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.results {
		if r.ID == id {
			record := f.withDetails(r)
			return &record, nil
		}
	}
	return nil, nil
}

func (f *fakeResultRepo) GetByUserID(ctx context.Context, userID string) ([]models.ResultWithDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ResultWithDetails
	for _, r := range f.results {
		if r.UserID == userID {
			out = append(out, f.withDetails(r))
		}
	}
	return out, nil
}

func (f *fakeResultRepo) GetByAssessmentID(ctx context.Context, assessmentID string) ([]models.ResultWithDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ResultWithDetails
	for _, r := range f.results {
		if r.AssessmentID == assessmentID {
			out = append(out, f.withDetails(r))
		}
	}
	return out, nil
}

type fakePublisher struct {
	mu      sync.Mutex
	events  []*models.ResultRecordedEvent
	failErr error
}

func (f *fakePublisher) PublishResultRecorded(ctx context.Context, event *models.ResultRecordedEvent) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type fakeEmailClient struct {
	mu      sync.Mutex
	sent    []string
	links   []string
	failErr error
}

func (f *fakeEmailClient) SendPasswordResetEmail(ctx context.Context, toEmail, userName, resetLink string) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, toEmail)
	f.links = append(f.links, resetLink)
	return nil
}

type fakeBlobRepo struct {
	mu        sync.Mutex
	blobs     map[string]fakeBlob
	uploadErr error
}

type fakeBlob struct {
	data        []byte
	contentType string
}

func newFakeBlobRepo() *fakeBlobRepo {
	return &fakeBlobRepo{blobs: make(map[string]fakeBlob)}
}

func (f *fakeBlobRepo) Upload(ctx context.Context, blobName string, content io.Reader, size int64, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[blobName] = fakeBlob{data: data, contentType: contentType}
	return nil
}

func (f *fakeBlobRepo) Download(ctx context.Context, blobName string) (io.ReadCloser, string, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	blob, ok := f.blobs[blobName]
	if !ok {
		return nil, "", 0, errors.New("blob not found")
	}
	return io.NopCloser(bytes.NewReader(blob.data)), blob.contentType, int64(len(blob.data)), nil
}

func (f *fakeBlobRepo) URL(blobName string) string {
	return "http://localhost:9000/edusync-media/" + blobName
}
