package models

import (
	"time"
)

// ResultRecordedEvent публикуется один раз на каждую успешную запись Result.
// Без sequence number и dedup key: потребители должны переживать at-most-once.
type ResultRecordedEvent struct {
	ResultID        string    `json:"resultId"`
	AssessmentID    string    `json:"assessmentId"`
	AssessmentTitle string    `json:"assessmentTitle"`
	UserID          string    `json:"userId"`
	UserName        string    `json:"userName"`
	Score           int       `json:"score"`
	AttemptDate     time.Time `json:"attemptDate"`
}

func NewResultRecordedEvent(r *ResultWithDetails) *ResultRecordedEvent {
	return &ResultRecordedEvent{
		ResultID:        r.ID,
		AssessmentID:    r.AssessmentID,
		AssessmentTitle: r.AssessmentTitle,
		UserID:          r.UserID,
		UserName:        r.UserName,
		Score:           r.Score,
		AttemptDate:     r.AttemptDate,
	}
}
