package models

// Questions хранится как непрозрачный JSON-документ, ядро его не разбирает.
type Assessment struct {
	ID        string `json:"assessmentId" db:"id"`
	CourseID  string `json:"courseId" db:"course_id"`
	Title     string `json:"title" db:"title"`
	Questions string `json:"questions" db:"questions"`
	MaxScore  int    `json:"maxScore" db:"max_score"`
}
