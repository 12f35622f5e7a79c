package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"docmind/internal/domain"
	"docmind/internal/pricing"
)

const paypalDefaultTimeout = 20 * time.Second

// PayPalOptions configures the PayPal orders client. BaseURL selects the
// environment (sandbox or live).
type PayPalOptions struct {
	ClientID   string
	Secret     string
	BaseURL    string
	HTTPClient *http.Client
}

// PayPalClient creates orders through PayPal's Orders v2 API.
type PayPalClient struct {
	clientID string
	secret   string
	baseURL  string
	client   *http.Client
}

// PayPalOrder carries the order id and the buyer approval link.
type PayPalOrder struct {
	ID         string `json:"id"`
	ApproveURL string `json:"approve_url"`
}

func NewPayPalClient(opts PayPalOptions) (*PayPalClient, error) {
	if opts.ClientID == "" || opts.Secret == "" {
		return nil, errors.New("payment: paypal credentials are required")
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "https://api-m.paypal.com"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: paypalDefaultTimeout}
	}
	return &PayPalClient{
		clientID: opts.ClientID,
		secret:   opts.Secret,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   client,
	}, nil
}

func (p *PayPalClient) accessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v1/oauth2/token", strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.clientID, p.secret)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: paypal token status %d", domain.ErrProviderFailure, resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("payment: decode token: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", domain.ErrProviderFailure)
	}
	return body.AccessToken, nil
}

// CreateOrder creates a one-time order priced in the buyer's currency.
// requestID deduplicates retries via the PayPal-Request-Id header.
func (p *PayPalClient) CreateOrder(ctx context.Context, requestID, plan string, quote pricing.PriceQuote) (*PayPalOrder, error) {
	token, err := p.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"description": "DocMind " + plan + " plan",
			"amount": map[string]any{
				"currency_code": quote.CurrencyCode,
				"value":         fmt.Sprintf("%.2f", quote.Amount),
			},
		}},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v2/checkout/orders", strings.NewReader(string(raw)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if requestID != "" {
		req.Header.Set("PayPal-Request-Id", requestID)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: paypal order status %d", domain.ErrProviderFailure, resp.StatusCode)
	}

	var body struct {
		ID    string `json:"id"`
		Links []struct {
			Rel  string `json:"rel"`
			Href string `json:"href"`
		} `json:"links"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("payment: decode order: %w", err)
	}

	order := &PayPalOrder{ID: body.ID}
	for _, link := range body.Links {
		if link.Rel == "approve" {
			order.ApproveURL = link.Href
			break
		}
	}
	if order.ApproveURL == "" {
		return nil, fmt.Errorf("%w: order missing approve link", domain.ErrProviderFailure)
	}
	return order, nil
}
