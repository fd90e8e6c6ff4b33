package models

import (
	"time"
)

// Result неизменяем после создания: операций обновления нет нигде в коде.
type Result struct {
	ID           string    `json:"resultId" db:"id"`
	AssessmentID string    `json:"assessmentId" db:"assessment_id"`
	UserID       string    `json:"userId" db:"user_id"`
	Score        int       `json:"score" db:"score"`
	AttemptDate  time.Time `json:"attemptDate" db:"attempt_date"`
}

type ResultWithDetails struct {
	Result
	AssessmentTitle string `json:"assessmentTitle" db:"assessment_title"`
	UserName        string `json:"userName" db:"user_name"`
}
