package grading

import (
	"context"
	"strings"
)

// QuestionType enumerates the exam question kinds produced by the generator.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeTrueFalse      QuestionType = "true_false"
	TypeShortAnswer    QuestionType = "short_answer"
	TypeEssay          QuestionType = "essay"
)

// Question is a single exam question with its grading key.
type Question struct {
	ID             int          `json:"id"`
	Type           QuestionType `json:"type"`
	Question       string       `json:"question"`
	Options        []string     `json:"options,omitempty"`
	CorrectAnswer  string       `json:"correct_answer,omitempty"`
	ExpectedTopics []string     `json:"expected_topics,omitempty"`
	Points         int          `json:"points"`
}

// QuestionResult is the graded outcome of one question.
type QuestionResult struct {
	QuestionID    int    `json:"question_id"`
	Correct       bool   `json:"correct"`
	PointsAwarded int    `json:"points_awarded"`
	Answer        string `json:"answer"`
}

// Result is a full graded submission.
type Result struct {
	Questions  []QuestionResult `json:"questions"`
	Score      int              `json:"score"`
	MaxScore   int              `json:"max_score"`
	Percentage float64          `json:"percentage"`
}

// FreeTextGrader judges short-answer and essay responses. The production
// implementation delegates to the LLM gateway; offline callers use
// TopicGrader.
type FreeTextGrader interface {
	GradeFreeText(ctx context.Context, q Question, answer string) (bool, error)
}

// Grade scores a submission against the question set. Objective questions use
// normalized exact matching; free-text questions go through the grader, and a
// grader failure scores the question as incorrect rather than failing the
// whole submission.
func Grade(ctx context.Context, questions []Question, answers map[int]string, grader FreeTextGrader) Result {
	res := Result{Questions: make([]QuestionResult, 0, len(questions))}
	for _, q := range questions {
		res.MaxScore += q.Points
		answer := answers[q.ID]

		qr := QuestionResult{QuestionID: q.ID, Answer: answer}
		if strings.TrimSpace(answer) != "" {
			qr.Correct = isCorrect(ctx, q, answer, grader)
		}
		if qr.Correct {
			qr.PointsAwarded = q.Points
			res.Score += q.Points
		}
		res.Questions = append(res.Questions, qr)
	}
	if res.MaxScore > 0 {
		res.Percentage = float64(res.Score) / float64(res.MaxScore) * 100
	}
	return res
}

func isCorrect(ctx context.Context, q Question, answer string, grader FreeTextGrader) bool {
	switch q.Type {
	case TypeMultipleChoice, TypeTrueFalse:
		return Normalize(answer) == Normalize(q.CorrectAnswer)
	case TypeShortAnswer, TypeEssay:
		if grader == nil {
			grader = TopicGrader{}
		}
		ok, err := grader.GradeFreeText(ctx, q, answer)
		if err != nil {
			return false
		}
		return ok
	default:
		return false
	}
}

// Normalize lowercases and collapses internal whitespace so "  True " and
// "true" compare equal.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// TopicGrader is the offline fallback for free-text questions: the answer
// passes when at least half of the expected topics are mentioned.
type TopicGrader struct{}

func (TopicGrader) GradeFreeText(_ context.Context, q Question, answer string) (bool, error) {
	if len(q.ExpectedTopics) == 0 {
		return false, nil
	}
	normalized := Normalize(answer)
	hits := 0
	for _, topic := range q.ExpectedTopics {
		if strings.Contains(normalized, Normalize(topic)) {
			hits++
		}
	}
	return hits*2 >= len(q.ExpectedTopics), nil
}
