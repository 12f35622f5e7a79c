package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"docmind/internal/pricing"
)

type localeContextKey struct{}
type countryContextKey struct{}
type currencyContextKey struct{}

var (
	LocaleKey   = localeContextKey{}
	CountryKey  = countryContextKey{}
	CurrencyKey = currencyContextKey{}
)

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// localeMatcher drives Accept-Language matching. Portuguese first: it is
// the product's primary audience.
var localeMatcher = language.NewMatcher([]language.Tag{
	language.Portuguese,
	language.English,
})

// I18N detects the request locale, country, and display currency and stores
// them on the context. Explicit headers win over Accept-Language, which wins
// over GeoIP.
func I18N(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := ResolveCountry(r, lookup)
			locale := detectLocale(r, defaultLocale, country)
			currency := detectCurrency(r, country)

			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			ctx = context.WithValue(ctx, CurrencyKey, currency)
			if country != "" {
				ctx = context.WithValue(ctx, CountryKey, strings.ToUpper(country))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback string, country string) string {
	if v := r.Header.Get("X-Locale"); v != "" {
		return normalizeLocale(v)
	}
	if tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language")); err == nil && len(tags) > 0 {
		_, idx, conf := localeMatcher.Match(tags...)
		if conf > language.No {
			if idx == 0 {
				return "pt"
			}
			return "en"
		}
	}
	switch strings.ToUpper(country) {
	case "MZ", "BR", "PT", "AO":
		return "pt"
	}
	if fallback != "" {
		return normalizeLocale(fallback)
	}
	return "en"
}

func detectCurrency(r *http.Request, country string) pricing.Currency {
	if code := strings.TrimSpace(r.Header.Get("X-Currency")); code != "" {
		if c, ok := pricing.CurrencyByCode(code); ok {
			return c
		}
	}
	return pricing.DefaultCurrencyForCountry(country)
}

func normalizeLocale(locale string) string {
	locale = strings.ToLower(locale)
	if strings.HasPrefix(locale, "pt") {
		return "pt"
	}
	return "en"
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return "en"
}

// CountryFromContext returns the ISO country code stored in the request context.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CountryKey).(string); ok {
		return v
	}
	return ""
}

// CurrencyFromContext returns the display currency detected for the request.
func CurrencyFromContext(ctx context.Context) pricing.Currency {
	if v, ok := ctx.Value(CurrencyKey).(pricing.Currency); ok {
		return v
	}
	return pricing.DefaultCurrencyForCountry("")
}

// ResolveCountry resolves a best-effort ISO country code for the given request.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	for _, key := range []string{"X-Country-Code", "CF-IPCountry", "X-Appengine-Country"} {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			return strings.ToUpper(val)
		}
	}
	if region := localeRegion(r.Header.Get("X-Locale")); region != "" {
		return region
	}
	if region := localeRegion(r.Header.Get("Accept-Language")); region != "" {
		return region
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil && country != "" {
				return strings.ToUpper(country)
			}
		}
	}
	return ""
}

// localeRegion extracts the region subtag from the first locale in an
// Accept-Language style header, e.g. "pt-MZ" yields "MZ".
func localeRegion(accept string) string {
	for _, part := range strings.Split(accept, ",") {
		token := strings.TrimSpace(strings.Split(part, ";")[0])
		if token == "" {
			continue
		}
		tag, err := language.Parse(token)
		if err != nil {
			continue
		}
		if region, conf := tag.Region(); conf > language.No && region.IsCountry() {
			return region.String()
		}
	}
	return ""
}
