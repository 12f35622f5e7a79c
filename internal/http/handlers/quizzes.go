package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"docmind/internal/domain"
	"docmind/internal/grading"
	"docmind/internal/limits"
	"docmind/internal/providers/llm"
	"docmind/internal/sqlinline"
)

type quizDTO struct {
	ID               string          `json:"id"`
	DocumentID       string          `json:"document_id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Questions        json.RawMessage `json:"questions"`
	TotalPoints      int             `json:"total_points"`
	TimeLimitMinutes int             `json:"time_limit_minutes"`
	CreatedAt        time.Time       `json:"created_at"`
}

// QuizzesGenerate creates a practice exam from a document. Exam simulation is
// a pro feature.
func (a *App) QuizzesGenerate(w http.ResponseWriter, r *http.Request) {
	doc, ok := a.loadOwnedDocument(w, r)
	if !ok {
		return
	}
	plan := a.currentPlan(r)
	if !limits.IsFeatureEnabled(plan, limits.FeatureExamSimulation) {
		a.error(w, http.StatusForbidden, "feature_not_enabled", "exam simulation requires the pro plan")
		return
	}
	if a.LLM == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "quiz provider not configured")
		return
	}

	payload, err := a.LLM.GenerateQuiz(r.Context(), doc.Content)
	if err != nil {
		a.Log.Error().Err(err).Str("document_id", doc.ID).Msg("generate quiz")
		switch {
		case errors.Is(err, llm.ErrRateLimited):
			a.error(w, http.StatusTooManyRequests, "rate_limited", "quiz provider is rate limited, try again shortly")
		case errors.Is(err, llm.ErrOutOfCredits):
			a.error(w, http.StatusPaymentRequired, "out_of_credits", "quiz provider credits exhausted")
		default:
			a.error(w, http.StatusBadGateway, "provider_failure", "quiz provider failed")
		}
		return
	}

	questions, err := json.Marshal(payload.Questions)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to encode questions")
		return
	}
	quiz := domain.Quiz{
		ID:               uuid.NewString(),
		DocumentID:       doc.ID,
		UserID:           a.currentUserID(r),
		Title:            payload.Title,
		Description:      payload.Description,
		Questions:        questions,
		TotalPoints:      payload.TotalPoints,
		TimeLimitMinutes: payload.TimeLimitMinutes,
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertQuiz,
		quiz.ID, quiz.DocumentID, quiz.UserID, quiz.Title, quiz.Description,
		quiz.Questions, quiz.TotalPoints, quiz.TimeLimitMinutes)
	if err := row.Scan(&quiz.CreatedAt); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to save quiz")
		return
	}

	a.json(w, http.StatusCreated, quizDTO{
		ID:               quiz.ID,
		DocumentID:       quiz.DocumentID,
		Title:            quiz.Title,
		Description:      quiz.Description,
		Questions:        quiz.Questions,
		TotalPoints:      quiz.TotalPoints,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
		CreatedAt:        quiz.CreatedAt,
	})
}

type submissionRequest struct {
	Answers map[int]string `json:"answers"`
}

type submissionDTO struct {
	ID         string                   `json:"id"`
	QuizID     string                   `json:"quiz_id"`
	Questions  []grading.QuestionResult `json:"questions"`
	Score      int                      `json:"score"`
	MaxScore   int                      `json:"max_score"`
	Percentage float64                  `json:"percentage"`
	CreatedAt  time.Time                `json:"created_at"`
}

// QuizSubmissionsCreate grades an attempt. Objective questions are matched
// locally; free-text answers go through the AI grader, and a grader outage
// only costs those questions their points.
func (a *App) QuizSubmissionsCreate(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "id")
	userID := a.currentUserID(r)

	var req submissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	quiz, err := a.loadQuiz(r, quizID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "quiz not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load quiz")
		return
	}
	if quiz.UserID != userID {
		a.error(w, http.StatusNotFound, "not_found", "quiz not found")
		return
	}

	var questions []grading.Question
	if err := json.Unmarshal(quiz.Questions, &questions); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "stored quiz is malformed")
		return
	}

	var grader grading.FreeTextGrader = grading.TopicGrader{}
	if a.LLM != nil {
		grader = a.LLM
	}
	result := grading.Grade(r.Context(), questions, req.Answers, grader)

	answers, _ := json.Marshal(req.Answers)
	results, err := json.Marshal(result.Questions)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to encode results")
		return
	}

	submission := domain.QuizSubmission{
		ID:         uuid.NewString(),
		QuizID:     quiz.ID,
		UserID:     userID,
		Answers:    answers,
		Results:    results,
		Score:      result.Score,
		MaxScore:   result.MaxScore,
		Percentage: result.Percentage,
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertQuizSubmission,
		submission.ID, submission.QuizID, submission.UserID, submission.Answers,
		submission.Results, submission.Score, submission.MaxScore, submission.Percentage)
	if err := row.Scan(&submission.CreatedAt); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to save submission")
		return
	}

	a.json(w, http.StatusCreated, submissionDTO{
		ID:         submission.ID,
		QuizID:     submission.QuizID,
		Questions:  result.Questions,
		Score:      submission.Score,
		MaxScore:   submission.MaxScore,
		Percentage: submission.Percentage,
		CreatedAt:  submission.CreatedAt,
	})
}

func (a *App) loadQuiz(r *http.Request, id string) (*domain.Quiz, error) {
	var quiz domain.Quiz
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectQuizByID, id)
	err := row.Scan(&quiz.ID, &quiz.DocumentID, &quiz.UserID, &quiz.Title,
		&quiz.Description, &quiz.Questions, &quiz.TotalPoints,
		&quiz.TimeLimitMinutes, &quiz.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}
