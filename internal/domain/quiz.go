package domain

import (
	"encoding/json"
	"time"
)

// Quiz is a generated practice exam for a document. Questions are stored as
// the generator's JSON so the schema can evolve without migrations; the
// grading package owns the typed view.
type Quiz struct {
	ID               string
	DocumentID       string
	UserID           string
	Title            string
	Description      string
	Questions        json.RawMessage
	TotalPoints      int
	TimeLimitMinutes int
	CreatedAt        time.Time
}

// QuizSubmission is a graded attempt at a quiz.
type QuizSubmission struct {
	ID         string
	QuizID     string
	UserID     string
	Answers    json.RawMessage
	Results    json.RawMessage
	Score      int
	MaxScore   int
	Percentage float64
	CreatedAt  time.Time
}
