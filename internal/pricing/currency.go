package pricing

import "strings"

// Currency describes a supported display currency. RateToBase is the amount of
// base currency (USD) one unit of this currency is worth; USD itself carries a
// rate of exactly 1.
type Currency struct {
	Code       string
	Symbol     string
	Name       string
	Country    string
	RateToBase float64
}

// AccountingCurrency is the currency base prices are authored in.
const AccountingCurrency = "MZN"

// largeDenominationThreshold classifies currencies whose unit is worth less
// than a cent of base currency. Prices in those currencies display as whole
// numbers.
const largeDenominationThreshold = 0.01

// IsLargeDenomination reports whether prices in this currency display without
// decimals.
func (c Currency) IsLargeDenomination() bool {
	return c.RateToBase < largeDenominationThreshold
}

// currencies is the static display-currency table. Loaded once, never mutated.
var currencies = []Currency{
	// Africa
	{Code: "MZN", Symbol: "MT", Name: "Metical", Country: "MZ", RateToBase: 0.016},
	{Code: "ZAR", Symbol: "R", Name: "Rand", Country: "ZA", RateToBase: 0.055},
	{Code: "KES", Symbol: "KSh", Name: "Shilling", Country: "KE", RateToBase: 0.0078},
	{Code: "NGN", Symbol: "₦", Name: "Naira", Country: "NG", RateToBase: 0.00065},
	{Code: "GHS", Symbol: "GH₵", Name: "Cedi", Country: "GH", RateToBase: 0.083},
	{Code: "UGX", Symbol: "USh", Name: "Shilling", Country: "UG", RateToBase: 0.00027},
	{Code: "TZS", Symbol: "TSh", Name: "Shilling", Country: "TZ", RateToBase: 0.00039},
	{Code: "RWF", Symbol: "FRw", Name: "Franc", Country: "RW", RateToBase: 0.00077},
	{Code: "ZMW", Symbol: "ZK", Name: "Kwacha", Country: "ZM", RateToBase: 0.039},
	{Code: "BWP", Symbol: "P", Name: "Pula", Country: "BW", RateToBase: 0.074},
	{Code: "MWK", Symbol: "MK", Name: "Kwacha", Country: "MW", RateToBase: 0.00058},
	{Code: "AOA", Symbol: "Kz", Name: "Kwanza", Country: "AO", RateToBase: 0.0012},
	{Code: "EGP", Symbol: "E£", Name: "Pound", Country: "EG", RateToBase: 0.032},
	{Code: "MAD", Symbol: "DH", Name: "Dirham", Country: "MA", RateToBase: 0.10},

	// Americas
	{Code: "USD", Symbol: "$", Name: "Dollar", Country: "US", RateToBase: 1},
	{Code: "BRL", Symbol: "R$", Name: "Real", Country: "BR", RateToBase: 0.20},
	{Code: "CAD", Symbol: "C$", Name: "Dollar", Country: "CA", RateToBase: 0.74},
	{Code: "MXN", Symbol: "MX$", Name: "Peso", Country: "MX", RateToBase: 0.059},
	{Code: "ARS", Symbol: "AR$", Name: "Peso", Country: "AR", RateToBase: 0.0012},
	{Code: "COP", Symbol: "CO$", Name: "Peso", Country: "CO", RateToBase: 0.00024},
	{Code: "CLP", Symbol: "CL$", Name: "Peso", Country: "CL", RateToBase: 0.0011},
	{Code: "PEN", Symbol: "S/", Name: "Sol", Country: "PE", RateToBase: 0.27},

	// Europe
	{Code: "EUR", Symbol: "€", Name: "Euro", Country: "EU", RateToBase: 1.08},
	{Code: "GBP", Symbol: "£", Name: "Pound", Country: "GB", RateToBase: 1.27},
	{Code: "CHF", Symbol: "Fr", Name: "Franc", Country: "CH", RateToBase: 1.13},
	{Code: "SEK", Symbol: "kr", Name: "Krona", Country: "SE", RateToBase: 0.095},
	{Code: "NOK", Symbol: "kr", Name: "Krone", Country: "NO", RateToBase: 0.091},
	{Code: "DKK", Symbol: "kr", Name: "Krone", Country: "DK", RateToBase: 0.14},
	{Code: "PLN", Symbol: "zł", Name: "Złoty", Country: "PL", RateToBase: 0.25},
	{Code: "CZK", Symbol: "Kč", Name: "Koruna", Country: "CZ", RateToBase: 0.043},

	// Asia & Oceania
	{Code: "JPY", Symbol: "¥", Name: "Yen", Country: "JP", RateToBase: 0.0067},
	{Code: "CNY", Symbol: "¥", Name: "Yuan", Country: "CN", RateToBase: 0.14},
	{Code: "INR", Symbol: "₹", Name: "Rupee", Country: "IN", RateToBase: 0.012},
	{Code: "KRW", Symbol: "₩", Name: "Won", Country: "KR", RateToBase: 0.00074},
	{Code: "SGD", Symbol: "S$", Name: "Dollar", Country: "SG", RateToBase: 0.74},
	{Code: "HKD", Symbol: "HK$", Name: "Dollar", Country: "HK", RateToBase: 0.13},
	{Code: "TWD", Symbol: "NT$", Name: "Dollar", Country: "TW", RateToBase: 0.031},
	{Code: "THB", Symbol: "฿", Name: "Baht", Country: "TH", RateToBase: 0.029},
	{Code: "MYR", Symbol: "RM", Name: "Ringgit", Country: "MY", RateToBase: 0.22},
	{Code: "IDR", Symbol: "Rp", Name: "Rupiah", Country: "ID", RateToBase: 0.000063},
	{Code: "PHP", Symbol: "₱", Name: "Peso", Country: "PH", RateToBase: 0.018},
	{Code: "VND", Symbol: "₫", Name: "Dong", Country: "VN", RateToBase: 0.000040},
	{Code: "AUD", Symbol: "A$", Name: "Dollar", Country: "AU", RateToBase: 0.65},
	{Code: "NZD", Symbol: "NZ$", Name: "Dollar", Country: "NZ", RateToBase: 0.60},

	// Middle East
	{Code: "AED", Symbol: "د.إ", Name: "Dirham", Country: "AE", RateToBase: 0.27},
	{Code: "SAR", Symbol: "﷼", Name: "Riyal", Country: "SA", RateToBase: 0.27},
	{Code: "ILS", Symbol: "₪", Name: "Shekel", Country: "IL", RateToBase: 0.27},
	{Code: "TRY", Symbol: "₺", Name: "Lira", Country: "TR", RateToBase: 0.031},
}

var currencyIndex = func() map[string]Currency {
	idx := make(map[string]Currency, len(currencies))
	for _, c := range currencies {
		idx[c.Code] = c
	}
	return idx
}()

// Currencies returns a copy of the supported currency table.
func Currencies() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies)
	return out
}

// CurrencyByCode looks up a currency by its three-letter code.
func CurrencyByCode(code string) (Currency, bool) {
	c, ok := currencyIndex[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// defaultCurrencyByCountry maps ISO country codes to the display currency a
// visitor from that country sees by default.
var defaultCurrencyByCountry = func() map[string]string {
	m := make(map[string]string, len(currencies))
	for _, c := range currencies {
		m[c.Country] = c.Code
	}
	// Eurozone members share EUR.
	for _, iso := range []string{"AT", "BE", "DE", "ES", "FI", "FR", "GR", "IE", "IT", "LU", "NL", "PT", "SK", "SI", "EE", "LV", "LT", "CY", "MT", "HR"} {
		m[iso] = "EUR"
	}
	return m
}()

// DefaultCurrencyForCountry returns the default display currency for visitors
// from the given ISO country code. Unknown countries fall back to USD.
func DefaultCurrencyForCountry(iso string) Currency {
	if code, ok := defaultCurrencyByCountry[strings.ToUpper(strings.TrimSpace(iso))]; ok {
		if c, ok := CurrencyByCode(code); ok {
			return c
		}
	}
	c, _ := CurrencyByCode("USD")
	return c
}
