package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"docmind/internal/domain"
	"docmind/internal/infra"
	"docmind/internal/middleware"
	"docmind/internal/providers/llm"
	"docmind/internal/providers/payment"
	"docmind/internal/storage"
)

// App carries the dependencies the HTTP handlers need. Providers may be nil
// when the corresponding integration is not configured; handlers answer 503
// for those routes.
type App struct {
	SQL         infra.SQLExecutor
	Users       domain.UserRepository
	Documents   domain.DocumentRepository
	LLM         *llm.Client
	Stripe      *payment.StripeClient
	PayPal      *payment.PayPalClient
	MobileMoney *payment.MobileMoneyClient
	Store       *storage.FileStore
	Log         zerolog.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": slug, "message": message},
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// currentPlan prefers the fresh database value over the token claim so a
// plan change takes effect without re-login.
func (a *App) currentPlan(r *http.Request) string {
	if a.Users != nil {
		if user, err := a.Users.GetByID(r.Context(), a.currentUserID(r)); err == nil {
			return user.Plan
		}
	}
	return middleware.PlanFromContext(r.Context())
}
