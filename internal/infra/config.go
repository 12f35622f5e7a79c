package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string

	DBMaxConns int32
	DBMinConns int32

	StoragePath    string
	GeoIPDBPath    string
	AllowedOrigins []string

	LLMBaseURL   string
	LLMAPIKey    string
	LLMModel     string
	LLMProModel  string
	LLMMaxTokens int

	StripeSecretKey string
	SiteURL         string

	PayPalBaseURL  string
	PayPalClientID string
	PayPalSecret   string

	MobileMoneyBaseURL    string
	MobileMoneyAPIKey     string
	MobileMoneyMerchantID string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		DBMaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
		DBMinConns: int32(getEnvInt("DB_MIN_CONNS", 1)),

		StoragePath:    getEnv("STORAGE_PATH", "./data/uploads"),
		GeoIPDBPath:    os.Getenv("GEOIP_DB_PATH"),
		AllowedOrigins: splitEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"),

		LLMBaseURL:   getEnv("LLM_BASE_URL", "https://ai.gateway.lovable.dev/v1"),
		LLMAPIKey:    os.Getenv("LLM_API_KEY"),
		LLMModel:     getEnv("LLM_MODEL", "google/gemini-2.5-flash"),
		LLMProModel:  getEnv("LLM_PRO_MODEL", "google/gemini-2.5-pro"),
		LLMMaxTokens: getEnvInt("LLM_MAX_TOKENS", 4000),

		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		SiteURL:         getEnv("SITE_URL", "http://localhost:5173"),

		PayPalBaseURL:  getEnv("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com"),
		PayPalClientID: os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalSecret:   os.Getenv("PAYPAL_SECRET"),

		MobileMoneyBaseURL:    os.Getenv("MOBILE_MONEY_PROVIDER_BASE_URL"),
		MobileMoneyAPIKey:     os.Getenv("MOBILE_MONEY_PROVIDER_API_KEY"),
		MobileMoneyMerchantID: os.Getenv("MOBILE_MONEY_MERCHANT_ID"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitEnv(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, fallback), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
