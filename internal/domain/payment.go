package domain

import "time"

// BillingPeriod enumerates subscription billing cadences.
type BillingPeriod string

const (
	BillingMonthly BillingPeriod = "monthly"
	BillingYearly  BillingPeriod = "yearly"
)

// ValidBillingPeriod reports whether p is a supported cadence.
func ValidBillingPeriod(p BillingPeriod) bool {
	return p == BillingMonthly || p == BillingYearly
}

// PaymentProvider enumerates supported checkout providers.
type PaymentProvider string

const (
	ProviderStripe      PaymentProvider = "stripe"
	ProviderPayPal      PaymentProvider = "paypal"
	ProviderMobileMoney PaymentProvider = "mobile_money"
)

// Payment records an initiated checkout so callbacks can be reconciled.
type Payment struct {
	ID          string
	UserID      string
	Provider    PaymentProvider
	ProviderRef string // session/order/charge id at the provider
	Plan        string
	Period      BillingPeriod
	Amount      float64
	Currency    string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
