package pricing

import (
	"errors"
	"math"
)

var (
	// ErrInvalidAmount is returned for negative or non-finite monetary input.
	ErrInvalidAmount = errors.New("pricing: invalid amount")
	// ErrUnknownCurrency is returned when a currency code is not configured.
	ErrUnknownCurrency = errors.New("pricing: unknown currency")
)

// PriceQuote is the ephemeral result of converting a base price into a display
// currency. It is recomputed on every request, never persisted.
type PriceQuote struct {
	CurrencyCode string  `json:"currency"`
	Amount       float64 `json:"amount"`
	Display      string  `json:"display"`
}

// Convert converts an amount denominated in the accounting currency (MZN) into
// the target display currency. The single rate convention is RateToBase =
// base units (USD) per one target unit, so the conversion always goes
// accounting -> base -> target.
//
// Displayed prices never under-quote what will be charged: the result rounds
// UP to the smallest charge unit, which is a whole unit for large-denomination
// currencies and a hundredth otherwise.
func Convert(amount float64, target Currency) (float64, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}
	accounting, ok := CurrencyByCode(AccountingCurrency)
	if !ok {
		return 0, ErrUnknownCurrency
	}
	if _, ok := CurrencyByCode(target.Code); !ok {
		return 0, ErrUnknownCurrency
	}

	base := amount * accounting.RateToBase
	raw := base / target.RateToBase

	if target.IsLargeDenomination() {
		return ceilToUnit(raw, 1), nil
	}
	return ceilToUnit(raw, 100), nil
}

// ConvertToBase converts an amount in the given display currency back into the
// accounting currency, without display rounding. Used for round-trip checks
// and reconciliation, not for quoting.
func ConvertToBase(amount float64, from Currency) (float64, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}
	accounting, ok := CurrencyByCode(AccountingCurrency)
	if !ok {
		return 0, ErrUnknownCurrency
	}
	if _, ok := CurrencyByCode(from.Code); !ok {
		return 0, ErrUnknownCurrency
	}
	return amount * from.RateToBase / accounting.RateToBase, nil
}

// Quote converts and formats a base price for display in the target currency.
func Quote(basePrice float64, target Currency) (PriceQuote, error) {
	amount, err := Convert(basePrice, target)
	if err != nil {
		return PriceQuote{}, err
	}
	return PriceQuote{
		CurrencyCode: target.Code,
		Amount:       amount,
		Display:      Format(amount, target),
	}, nil
}

// ceilToUnit rounds x up to 1/scale units. Values within a float ulp of an
// exact multiple are treated as exact so binary representation noise (e.g.
// 1500*0.016 = 24.000000000000004) does not inflate a price by a full unit.
func ceilToUnit(x float64, scale float64) float64 {
	scaled := x * scale
	if nearest := math.Round(scaled); math.Abs(scaled-nearest) < 1e-9 {
		scaled = nearest
	}
	return math.Ceil(scaled) / scale
}
