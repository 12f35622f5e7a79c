package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"docmind/internal/adapter/repo"
	"docmind/internal/http/handlers"
	"docmind/internal/http/httpapi"
	"docmind/internal/infra"
	"docmind/internal/infra/geoip"
	"docmind/internal/providers/llm"
	"docmind/internal/providers/payment"
	"docmind/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)

	store, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure storage")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	var countryLookup func(ip string) (string, error)
	if resolver != nil {
		countryLookup = resolver.CountryCode
	}

	app := &handlers.App{
		SQL:       runner,
		Users:     repo.NewUserRepository(runner),
		Documents: repo.NewDocumentRepository(runner),
		Store:     store,
		Log:       logger,
	}

	if cfg.LLMAPIKey != "" {
		client, err := llm.NewClient(llm.Options{
			APIKey:    cfg.LLMAPIKey,
			BaseURL:   cfg.LLMBaseURL,
			Model:     cfg.LLMModel,
			ProModel:  cfg.LLMProModel,
			MaxTokens: cfg.LLMMaxTokens,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure llm client")
		}
		app.LLM = client
	} else {
		logger.Warn().Msg("LLM_API_KEY missing, analyses and quizzes disabled")
	}

	if cfg.StripeSecretKey != "" {
		stripe, err := payment.NewStripeClient(payment.StripeOptions{
			SecretKey: cfg.StripeSecretKey,
			SiteURL:   cfg.SiteURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure stripe client")
		}
		app.Stripe = stripe
	}
	if cfg.PayPalClientID != "" && cfg.PayPalSecret != "" {
		paypal, err := payment.NewPayPalClient(payment.PayPalOptions{
			ClientID: cfg.PayPalClientID,
			Secret:   cfg.PayPalSecret,
			BaseURL:  cfg.PayPalBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure paypal client")
		}
		app.PayPal = paypal
	}
	if cfg.MobileMoneyBaseURL != "" && cfg.MobileMoneyAPIKey != "" {
		mm, err := payment.NewMobileMoneyClient(payment.MobileMoneyOptions{
			BaseURL:    cfg.MobileMoneyBaseURL,
			APIKey:     cfg.MobileMoneyAPIKey,
			MerchantID: cfg.MobileMoneyMerchantID,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure mobile money client")
		}
		app.MobileMoney = mm
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:       cfg.JWTSecret,
		AllowedOrigins:  cfg.AllowedOrigins,
		DefaultLocale:   "pt",
		RateLimitPerMin: cfg.RateLimitPerMin,
		CountryLookup:   countryLookup,
		Log:             logger,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
