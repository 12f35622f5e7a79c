package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"docmind/internal/domain"
	"docmind/internal/limits"
	"docmind/internal/middleware"
	"docmind/internal/pricing"
	"docmind/internal/providers/payment"
	"docmind/internal/sqlinline"
)

type checkoutRequest struct {
	Plan   string               `json:"plan"`
	Period domain.BillingPeriod `json:"period"`
	Phone  string               `json:"phone"` // mobile money only
}

func (a *App) parseCheckout(w http.ResponseWriter, r *http.Request) (checkoutRequest, bool) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return req, false
	}
	if req.Period == "" {
		req.Period = domain.BillingMonthly
	}
	if !domain.ValidBillingPeriod(req.Period) {
		a.error(w, http.StatusBadRequest, "bad_request", "period must be monthly or yearly")
		return req, false
	}
	if req.Plan != string(limits.PlanStandard) && req.Plan != string(limits.PlanPro) {
		a.error(w, http.StatusBadRequest, "bad_request", "plan must be standard or pro")
		return req, false
	}
	return req, true
}

func (a *App) recordPayment(r *http.Request, p domain.Payment) {
	var createdAt time.Time
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertPayment,
		p.ID, p.UserID, string(p.Provider), p.ProviderRef, p.Plan,
		string(p.Period), p.Amount, p.Currency, p.Status)
	if err := row.Scan(&createdAt); err != nil {
		a.Log.Error().Err(err).Str("provider_ref", p.ProviderRef).Msg("record payment")
	}
}

// PaymentsStripeCheckout starts a Stripe subscription checkout.
func (a *App) PaymentsStripeCheckout(w http.ResponseWriter, r *http.Request) {
	if a.Stripe == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "card payments not configured")
		return
	}
	req, ok := a.parseCheckout(w, r)
	if !ok {
		return
	}
	userID := a.currentUserID(r)
	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load user")
		return
	}

	session, err := a.Stripe.CreateCheckoutSession(r.Context(), user.Email, req.Plan, req.Period)
	if err != nil {
		if errors.Is(err, payment.ErrUnknownPlan) {
			a.error(w, http.StatusBadRequest, "bad_request", "no price configured for plan")
			return
		}
		a.Log.Error().Err(err).Str("plan", req.Plan).Msg("stripe checkout")
		a.error(w, http.StatusBadGateway, "provider_failure", "payment provider failed")
		return
	}

	a.recordPayment(r, domain.Payment{
		ID:          uuid.NewString(),
		UserID:      userID,
		Provider:    domain.ProviderStripe,
		ProviderRef: session.ID,
		Plan:        req.Plan,
		Period:      req.Period,
		Currency:    "USD",
		Status:      "pending",
	})
	a.json(w, http.StatusOK, map[string]string{"url": session.URL})
}

// PaymentsPayPal creates a PayPal order priced in the visitor's currency.
func (a *App) PaymentsPayPal(w http.ResponseWriter, r *http.Request) {
	if a.PayPal == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "paypal payments not configured")
		return
	}
	req, ok := a.parseCheckout(w, r)
	if !ok {
		return
	}

	plan := limits.LimitsFor(req.Plan)
	base := plan.BasePrice
	if req.Period == domain.BillingYearly {
		base *= 12
	}
	currency := middleware.CurrencyFromContext(r.Context())
	quote, err := pricing.Quote(base, currency)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to price plan")
		return
	}

	userID := a.currentUserID(r)
	requestID := uuid.NewString()
	order, err := a.PayPal.CreateOrder(r.Context(), requestID, req.Plan, quote)
	if err != nil {
		a.Log.Error().Err(err).Str("plan", req.Plan).Msg("paypal order")
		a.error(w, http.StatusBadGateway, "provider_failure", "payment provider failed")
		return
	}

	a.recordPayment(r, domain.Payment{
		ID:          uuid.NewString(),
		UserID:      userID,
		Provider:    domain.ProviderPayPal,
		ProviderRef: order.ID,
		Plan:        req.Plan,
		Period:      req.Period,
		Amount:      quote.Amount,
		Currency:    quote.CurrencyCode,
		Status:      "pending",
	})
	a.json(w, http.StatusOK, map[string]string{
		"order_id":    order.ID,
		"approve_url": order.ApproveURL,
	})
}

// PaymentsMobileMoney pushes a wallet charge to a Mozambican phone number.
func (a *App) PaymentsMobileMoney(w http.ResponseWriter, r *http.Request) {
	if a.MobileMoney == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "mobile money payments not configured")
		return
	}
	req, ok := a.parseCheckout(w, r)
	if !ok {
		return
	}

	userID := a.currentUserID(r)
	charge, err := a.MobileMoney.InitiateCharge(r.Context(), req.Phone, req.Plan, req.Period)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidPhone) {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid mozambican phone number")
			return
		}
		if errors.Is(err, payment.ErrUnknownPlan) {
			a.error(w, http.StatusBadRequest, "bad_request", "no price configured for plan")
			return
		}
		a.Log.Error().Err(err).Str("plan", req.Plan).Msg("mobile money charge")
		a.error(w, http.StatusBadGateway, "provider_failure", "payment provider failed")
		return
	}

	a.recordPayment(r, domain.Payment{
		ID:          uuid.NewString(),
		UserID:      userID,
		Provider:    domain.ProviderMobileMoney,
		ProviderRef: charge.Reference,
		Plan:        req.Plan,
		Period:      req.Period,
		Amount:      charge.Amount,
		Currency:    "MZN",
		Status:      charge.Status,
	})
	a.json(w, http.StatusOK, map[string]any{
		"reference": charge.Reference,
		"status":    charge.Status,
		"amount":    charge.Amount,
		"currency":  "MZN",
	})
}

type mobileMoneyCallback struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// PaymentsMobileMoneyCallback receives the aggregator's settlement
// notification and updates the pending payment record. Plan activation stays
// manual (cmd/userplan) until the record is verified.
func (a *App) PaymentsMobileMoneyCallback(w http.ResponseWriter, r *http.Request) {
	var cb mobileMoneyCallback
	if err := json.NewDecoder(r.Body).Decode(&cb); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if cb.Reference == "" || cb.Status == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "reference and status are required")
		return
	}

	tag, err := a.SQL.Exec(r.Context(), sqlinline.QUpdatePaymentStatus,
		cb.Reference, cb.Status, string(domain.ProviderMobileMoney))
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to update payment")
		return
	}
	if tag.RowsAffected() == 0 {
		a.error(w, http.StatusNotFound, "not_found", "payment not found")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "updated"})
}
