package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/khushhal7/EduSync-Backend/internal/models"
)

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	course, err := h.courseService.Create(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, course)
}

func (h *Handler) GetAllCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.GetAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if courses == nil {
		courses = []models.CourseWithInstructor{}
	}

	writeJSON(w, http.StatusOK, courses)
}

func (h *Handler) GetCourseByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid course ID format.")
		return
	}

	course, err := h.courseService.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, course)
}

func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid course ID format.")
		return
	}

	var req models.CreateCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.courseService.Update(r.Context(), id, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid course ID format.")
		return
	}

	if err := h.courseService.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetAssessmentsForCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseId")
	if _, err := uuid.Parse(courseID); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid course ID format.")
		return
	}

	assessments, err := h.assessmentService.GetByCourse(r.Context(), courseID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if assessments == nil {
		assessments = []models.Assessment{}
	}

	writeJSON(w, http.StatusOK, assessments)
}
