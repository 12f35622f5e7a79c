package handlers

import (
	"errors"
	"net/http"

	"docmind/internal/domain"
	"docmind/internal/limits"
	"docmind/internal/middleware"
)

type userProfileDTO struct {
	ID             string   `json:"id"`
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	Locale         string   `json:"locale"`
	Plan           string   `json:"plan"`
	DocumentsCount int      `json:"documents_count"`
	AnalysesUsed   int      `json:"analyses_used"`
	DocumentLimit  int      `json:"document_limit"`
	PageLimit      int      `json:"page_limit"`
	AnalysisLimit  int      `json:"analysis_limit"`
	Features       []string `json:"features"`
}

// Me returns the authenticated user's profile together with the entitlements
// of their plan. Unknown plan values fall back to the free tier.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	user, err := a.Users.GetByID(r.Context(), a.currentUserID(r))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load user")
		return
	}

	plan := limits.LimitsFor(user.Plan)
	features := make([]string, 0, len(plan.Features))
	for _, f := range plan.Features {
		features = append(features, string(f))
	}
	locale := user.Locale
	if locale == "" {
		locale = middleware.LocaleFromContext(r.Context())
	}
	a.json(w, http.StatusOK, userProfileDTO{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		Locale:         locale,
		Plan:           string(plan.ID),
		DocumentsCount: user.DocumentsCount,
		AnalysesUsed:   user.AnalysesUsed,
		DocumentLimit:  plan.DocumentLimit,
		PageLimit:      plan.PageLimit,
		AnalysisLimit:  plan.AnalysisLimit,
		Features:       features,
	})
}
