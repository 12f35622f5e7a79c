package handlers

import (
	"net/http"

	"docmind/internal/limits"
	"docmind/internal/middleware"
	"docmind/internal/pricing"
)

type planPricingDTO struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Price         pricing.PriceQuote `json:"price"`
	DocumentLimit int                `json:"document_limit"`
	PageLimit     int                `json:"page_limit"`
	AnalysisLimit int                `json:"analysis_limit"`
	Features      []string           `json:"features"`
}

// Pricing quotes every plan in the visitor's display currency. An explicit
// ?currency= query wins over the locale middleware's detection (header, then
// GeoIP country).
func (a *App) Pricing(w http.ResponseWriter, r *http.Request) {
	currency := middleware.CurrencyFromContext(r.Context())
	if code := r.URL.Query().Get("currency"); code != "" {
		c, ok := pricing.CurrencyByCode(code)
		if !ok {
			a.error(w, http.StatusBadRequest, "unknown_currency", "unsupported currency code")
			return
		}
		currency = c
	}

	var items []planPricingDTO
	for _, plan := range limits.Plans() {
		quote, err := pricing.Quote(plan.BasePrice, currency)
		if err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to quote plan prices")
			return
		}
		features := make([]string, 0, len(plan.Features))
		for _, f := range plan.Features {
			features = append(features, string(f))
		}
		items = append(items, planPricingDTO{
			ID:            string(plan.ID),
			Name:          plan.Name,
			Price:         quote,
			DocumentLimit: plan.DocumentLimit,
			PageLimit:     plan.PageLimit,
			AnalysisLimit: plan.AnalysisLimit,
			Features:      features,
		})
	}
	a.json(w, http.StatusOK, map[string]any{
		"currency": currency.Code,
		"plans":    items,
	})
}

// Currencies lists the supported display currencies for the picker.
func (a *App) Currencies(w http.ResponseWriter, _ *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"items": pricing.Currencies()})
}
