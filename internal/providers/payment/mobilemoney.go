package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"docmind/internal/domain"
)

const mobileMoneyDefaultTimeout = 30 * time.Second

// MobileMoneyMethod is a Mozambican mobile wallet network.
type MobileMoneyMethod string

const (
	MethodMpesa MobileMoneyMethod = "mpesa"
	MethodEmola MobileMoneyMethod = "emola"
)

// ErrInvalidPhone is returned for phone numbers outside the local format.
var ErrInvalidPhone = errors.New("payment: invalid mozambican phone number")

// mznPrices are the charge amounts in meticais per plan and period.
var mznPrices = map[string]map[domain.BillingPeriod]float64{
	"standard": {
		domain.BillingMonthly: 319.31,
		domain.BillingYearly:  3832.86,
	},
	"pro": {
		domain.BillingMonthly: 637.98,
		domain.BillingYearly:  7665.73,
	},
}

// Local numbers are 84/85 (mpesa) or 86/87 (emola) plus seven digits.
var phonePattern = regexp.MustCompile(`^8[4-7]\d{7}$`)

// MobileMoneyOptions configures the aggregator client.
type MobileMoneyOptions struct {
	BaseURL    string
	APIKey     string
	MerchantID string
	HTTPClient *http.Client
}

// MobileMoneyClient initiates wallet charges through a payment aggregator.
type MobileMoneyClient struct {
	baseURL    string
	apiKey     string
	merchantID string
	client     *http.Client
}

// Charge is the aggregator's response to a payment initiation.
type Charge struct {
	Reference string  `json:"reference"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
}

func NewMobileMoneyClient(opts MobileMoneyOptions) (*MobileMoneyClient, error) {
	if opts.BaseURL == "" || opts.APIKey == "" {
		return nil, errors.New("payment: mobile money base url and api key are required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: mobileMoneyDefaultTimeout}
	}
	return &MobileMoneyClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		merchantID: opts.MerchantID,
		client:     client,
	}, nil
}

// PriceMZN returns the charge amount for a plan and period, or ErrUnknownPlan.
func PriceMZN(plan string, period domain.BillingPeriod) (float64, error) {
	amount := mznPrices[plan][period]
	if amount == 0 {
		return 0, ErrUnknownPlan
	}
	return amount, nil
}

// NormalizePhone strips country prefixes and validates the local number.
func NormalizePhone(phone string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	cleaned = strings.TrimPrefix(cleaned, "258")
	if !phonePattern.MatchString(cleaned) {
		return "", ErrInvalidPhone
	}
	return cleaned, nil
}

// methodFor maps a number's network prefix to the wallet that serves it.
func methodFor(phone string) MobileMoneyMethod {
	if strings.HasPrefix(phone, "84") || strings.HasPrefix(phone, "85") {
		return MethodMpesa
	}
	return MethodEmola
}

// InitiateCharge pushes a USSD payment prompt to the subscriber's handset.
func (m *MobileMoneyClient) InitiateCharge(ctx context.Context, phone, plan string, period domain.BillingPeriod) (*Charge, error) {
	number, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	amount, err := PriceMZN(plan, period)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"method":   string(methodFor(number)),
		"phone":    number,
		"amount":   amount,
		"currency": "MZN",
		"context":  "docmind " + plan + " " + string(period),
	}
	if m.merchantID != "" {
		payload["merchant_id"] = m.merchantID
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.baseURL+"/v1/payments", strings.NewReader(string(raw)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: aggregator status %d", domain.ErrProviderFailure, resp.StatusCode)
	}

	var charge Charge
	if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
		return nil, fmt.Errorf("payment: decode charge: %w", err)
	}
	if charge.Reference == "" {
		return nil, fmt.Errorf("%w: charge missing reference", domain.ErrProviderFailure)
	}
	return &charge, nil
}
