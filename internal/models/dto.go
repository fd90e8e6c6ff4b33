package models

// Data Transfer Objects

type CreateResultRequest struct {
	AssessmentID string `json:"assessmentId"`
	UserID       string `json:"userId"`
	Score        int    `json:"score"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type CreateCourseRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	InstructorID string `json:"instructorId"`
	MediaURL     string `json:"mediaUrl"`
}

type CreateAssessmentRequest struct {
	CourseID  string `json:"courseId"`
	Title     string `json:"title"`
	Questions string `json:"questions"`
	MaxScore  int    `json:"maxScore"`
}

type UpdateAssessmentRequest struct {
	Title     string `json:"title"`
	Questions string `json:"questions"`
	MaxScore  int    `json:"maxScore"`
}

type UploadFileResponse struct {
	URL      string `json:"url"`
	BlobName string `json:"blobName"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
