package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"docmind/internal/http/handlers"
	"docmind/internal/middleware"
)

// Options carries the cross-cutting configuration the router needs.
type Options struct {
	JWTSecret       string
	AllowedOrigins  []string
	DefaultLocale   string
	RateLimitPerMin int
	CountryLookup   middleware.CountryLookup
	Log             zerolog.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
		middleware.Logger(opts.Log),
	)
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/pricing", app.Pricing)
	r.Get("/v1/currencies", app.Currencies)
	r.Post("/v1/payments/mobile-money/callback", app.PaymentsMobileMoneyCallback)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(opts.JWTSecret))

		r.Get("/v1/me", app.Me)

		r.Route("/v1/documents", func(r chi.Router) {
			r.Post("/", app.DocumentsCreate)
			r.Get("/", app.DocumentsList)
			r.Get("/{id}", app.DocumentsGet)
			r.Delete("/{id}", app.DocumentsDelete)
			r.Get("/{id}/export", app.DocumentsExport)
			r.Post("/{id}/analyses", app.AnalysesCreate)
			r.Get("/{id}/analyses", app.AnalysesList)
			r.Post("/{id}/quiz", app.QuizzesGenerate)
		})

		r.Get("/v1/jobs/{id}", app.AnalysisJobStatus)
		r.Post("/v1/quizzes/{id}/submissions", app.QuizSubmissionsCreate)

		r.Route("/v1/payments", func(r chi.Router) {
			r.Post("/checkout", app.PaymentsStripeCheckout)
			r.Post("/paypal", app.PaymentsPayPal)
			r.Post("/mobile-money", app.PaymentsMobileMoney)
		})
	})

	return r
}
