package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func runI18N(t *testing.T, configure func(*http.Request), lookup CountryLookup) (locale, country, currency string) {
	t.Helper()
	handler := I18N("en", lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale = LocaleFromContext(r.Context())
		country = CountryFromContext(r.Context())
		currency = CurrencyFromContext(r.Context()).Code
	}))
	req := httptest.NewRequest("GET", "/pricing", nil)
	if configure != nil {
		configure(req)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return locale, country, currency
}

func TestI18NExplicitHeadersWin(t *testing.T) {
	locale, country, currency := runI18N(t, func(r *http.Request) {
		r.Header.Set("X-Locale", "pt-BR")
		r.Header.Set("X-Country-Code", "mz")
		r.Header.Set("X-Currency", "eur")
	}, nil)

	if locale != "pt" {
		t.Fatalf("locale = %q, want pt", locale)
	}
	if country != "MZ" {
		t.Fatalf("country = %q, want MZ", country)
	}
	if currency != "EUR" {
		t.Fatalf("currency = %q, want EUR", currency)
	}
}

func TestI18NAcceptLanguageRegionPicksCurrency(t *testing.T) {
	locale, country, currency := runI18N(t, func(r *http.Request) {
		r.Header.Set("Accept-Language", "pt-MZ,pt;q=0.9,en;q=0.5")
	}, nil)

	if locale != "pt" {
		t.Fatalf("locale = %q, want pt", locale)
	}
	if country != "MZ" {
		t.Fatalf("country = %q, want MZ", country)
	}
	if currency != "MZN" {
		t.Fatalf("currency = %q, want MZN", currency)
	}
}

func TestI18NGeoIPFallback(t *testing.T) {
	lookup := func(ip string) (string, error) { return "BR", nil }
	locale, country, currency := runI18N(t, func(r *http.Request) {
		r.RemoteAddr = "203.0.113.9:1234"
	}, lookup)

	if country != "BR" {
		t.Fatalf("country = %q, want BR", country)
	}
	if currency != "BRL" {
		t.Fatalf("currency = %q, want BRL", currency)
	}
	if locale != "pt" {
		t.Fatalf("locale = %q, want pt for BR", locale)
	}
}

func TestI18NDefaultsToDollar(t *testing.T) {
	locale, country, currency := runI18N(t, nil, nil)

	if locale != "en" {
		t.Fatalf("locale = %q, want en", locale)
	}
	if country != "" {
		t.Fatalf("country = %q, want empty", country)
	}
	if currency != "USD" {
		t.Fatalf("currency = %q, want USD", currency)
	}
}

func TestI18NRejectsUnknownCurrencyHeader(t *testing.T) {
	_, _, currency := runI18N(t, func(r *http.Request) {
		r.Header.Set("X-Currency", "DOGE")
	}, nil)

	if currency != "USD" {
		t.Fatalf("currency = %q, want USD fallback", currency)
	}
}
