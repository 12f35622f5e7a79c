package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"docmind/internal/domain"
	"docmind/internal/limits"
	"docmind/internal/providers/llm"
	"docmind/internal/sqlinline"
)

type analysisRequest struct {
	Type string `json:"type"`
	// Async pushes the work onto the job queue instead of running inline.
	Async bool `json:"async"`
}

type analysisDTO struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Type       string    `json:"type"`
	Result     string    `json:"result"`
	CreatedAt  time.Time `json:"created_at"`
}

// featureForAnalysis maps an analysis type to the plan feature that gates it.
func featureForAnalysis(t domain.AnalysisType) limits.Feature {
	switch t {
	case domain.AnalysisSummary:
		return limits.FeatureSummary
	case domain.AnalysisSimple:
		return limits.FeatureSimpleExplanation
	case domain.AnalysisSuggestions:
		return limits.FeatureSuggestions
	case domain.AnalysisImproved:
		return limits.FeatureImprovedVersion
	}
	return ""
}

func (a *App) AnalysesCreate(w http.ResponseWriter, r *http.Request) {
	doc, ok := a.loadOwnedDocument(w, r)
	if !ok {
		return
	}
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	analysisType := domain.AnalysisType(req.Type)
	if !domain.ValidAnalysisType(analysisType) {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown analysis type")
		return
	}

	userID := a.currentUserID(r)
	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load user")
		return
	}
	if !limits.IsFeatureEnabled(user.Plan, featureForAnalysis(analysisType)) {
		a.error(w, http.StatusForbidden, "feature_not_enabled", "analysis type not available on your plan")
		return
	}
	ok, err = limits.CanRunAnalysis(user.Plan, user.AnalysesUsed)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to check plan limits")
		return
	}
	if !ok {
		a.error(w, http.StatusForbidden, "plan_limit", "analysis limit reached for your plan")
		return
	}

	if req.Async {
		jobID := uuid.NewString()
		var createdAt time.Time
		row := a.SQL.QueryRow(r.Context(), sqlinline.QEnqueueAnalysisJob, jobID, doc.ID, userID, string(analysisType))
		if err := row.Scan(&createdAt); err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to enqueue analysis")
			return
		}
		a.json(w, http.StatusAccepted, map[string]any{
			"job_id":     jobID,
			"status":     string(domain.JobQueued),
			"created_at": createdAt,
		})
		return
	}

	if a.LLM == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "analysis provider not configured")
		return
	}
	llmReq := llm.AnalysisRequest{Type: analysisType, Content: doc.Content}
	if doc.IsImage && doc.StorageKey != "" && a.Store != nil {
		if raw, err := a.Store.Read(r.Context(), doc.StorageKey); err == nil {
			llmReq.ImageBase64 = base64.StdEncoding.EncodeToString(raw)
		}
	}
	result, err := a.LLM.Analyse(r.Context(), llmReq)
	if err != nil {
		a.Log.Error().Err(err).Str("document_id", doc.ID).Msg("run analysis")
		switch {
		case errors.Is(err, llm.ErrRateLimited):
			a.error(w, http.StatusTooManyRequests, "rate_limited", "analysis provider is rate limited, try again shortly")
		case errors.Is(err, llm.ErrOutOfCredits):
			a.error(w, http.StatusPaymentRequired, "out_of_credits", "analysis provider credits exhausted")
		default:
			a.error(w, http.StatusBadGateway, "provider_failure", "analysis provider failed")
		}
		return
	}

	analysis := &domain.Analysis{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		Type:       analysisType,
		Result:     result,
	}
	if err := a.Documents.SaveAnalysis(r.Context(), analysis); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to save analysis")
		return
	}
	if err := a.Users.IncrementAnalysesUsed(r.Context(), userID); err != nil {
		a.Log.Error().Err(err).Str("user_id", userID).Msg("increment analyses used")
	}

	a.json(w, http.StatusCreated, analysisDTO{
		ID:         analysis.ID,
		DocumentID: analysis.DocumentID,
		Type:       string(analysis.Type),
		Result:     analysis.Result,
		CreatedAt:  analysis.CreatedAt,
	})
}

// AnalysisJobStatus reports where a queued analysis is in its lifecycle.
func (a *App) AnalysisJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	var job domain.AnalysisJob
	var jobType, status string
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectAnalysisJob, jobID)
	err := row.Scan(&job.ID, &job.DocumentID, &job.UserID, &jobType, &status,
		&job.Error, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load job")
		return
	}
	if job.UserID != a.currentUserID(r) {
		a.error(w, http.StatusNotFound, "not_found", "job not found")
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"id":          job.ID,
		"document_id": job.DocumentID,
		"type":        jobType,
		"status":      status,
		"error":       job.Error,
		"created_at":  job.CreatedAt,
		"updated_at":  job.UpdatedAt,
	})
}

func (a *App) AnalysesList(w http.ResponseWriter, r *http.Request) {
	doc, ok := a.loadOwnedDocument(w, r)
	if !ok {
		return
	}
	analyses, err := a.Documents.ListAnalyses(r.Context(), doc.ID)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to list analyses")
		return
	}
	items := make([]analysisDTO, 0, len(analyses))
	for _, an := range analyses {
		items = append(items, analysisDTO{
			ID:         an.ID,
			DocumentID: an.DocumentID,
			Type:       string(an.Type),
			Result:     an.Result,
			CreatedAt:  an.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
