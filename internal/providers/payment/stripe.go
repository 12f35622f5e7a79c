package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"docmind/internal/domain"
)

const stripeDefaultTimeout = 20 * time.Second

// ErrUnknownPlan is returned when no price is configured for the plan/period pair.
var ErrUnknownPlan = errors.New("payment: unknown plan or billing period")

// StripeOptions configures the Stripe checkout client.
type StripeOptions struct {
	SecretKey  string
	SiteURL    string
	PriceIDs   map[string]map[domain.BillingPeriod]string // plan -> period -> price id
	HTTPClient *http.Client
}

// StripeClient creates Checkout sessions through Stripe's REST API.
type StripeClient struct {
	secretKey string
	siteURL   string
	priceIDs  map[string]map[domain.BillingPeriod]string
	client    *http.Client
}

// CheckoutSession is the subset of Stripe's session object the frontend needs.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func NewStripeClient(opts StripeOptions) (*StripeClient, error) {
	if opts.SecretKey == "" {
		return nil, errors.New("payment: stripe secret key is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: stripeDefaultTimeout}
	}
	priceIDs := opts.PriceIDs
	if priceIDs == nil {
		priceIDs = map[string]map[domain.BillingPeriod]string{
			"standard": {
				domain.BillingMonthly: "price_1SnTvvJyrbptChEXV8NZwsE7",
				domain.BillingYearly:  "price_1SnTw6JyrbptChEX9R9VOr62",
			},
			"pro": {
				domain.BillingMonthly: "price_1SnTwIJyrbptChEX5psXX6oF",
				domain.BillingYearly:  "price_1SnTwRJyrbptChEXhMOUopEf",
			},
		}
	}
	return &StripeClient{
		secretKey: opts.SecretKey,
		siteURL:   strings.TrimRight(opts.SiteURL, "/"),
		priceIDs:  priceIDs,
		client:    client,
	}, nil
}

// CreateCheckoutSession starts a subscription checkout for the given plan and
// returns the hosted payment page URL.
func (s *StripeClient) CreateCheckoutSession(ctx context.Context, email, plan string, period domain.BillingPeriod) (*CheckoutSession, error) {
	priceID := s.priceIDs[plan][period]
	if priceID == "" {
		return nil, ErrUnknownPlan
	}

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("customer_email", email)
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", s.siteURL+"/dashboard?checkout=success")
	form.Set("cancel_url", s.siteURL+"/?checkout=canceled")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.stripe.com/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.secretKey, "")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: stripe status %d", domain.ErrProviderFailure, resp.StatusCode)
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("payment: decode session: %w", err)
	}
	if session.URL == "" {
		return nil, fmt.Errorf("%w: session missing url", domain.ErrProviderFailure)
	}
	return &session, nil
}
