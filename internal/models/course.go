package models

type Course struct {
	ID           string `json:"courseId" db:"id"`
	Title        string `json:"title" db:"title"`
	Description  string `json:"description" db:"description"`
	InstructorID string `json:"instructorId" db:"instructor_id"`
	MediaURL     string `json:"mediaUrl" db:"media_url"`
}

type CourseWithInstructor struct {
	Course
	InstructorName string `json:"instructorName" db:"instructor_name"`
}
