package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"docmind/internal/infra"
	"docmind/internal/limits"
	"docmind/internal/sqlinline"
)

func main() {
	var (
		idFlag        string
		emailFlag     string
		planFlag      string
		keepUsageFlag bool
	)

	flag.StringVar(&idFlag, "id", "", "user ID to update (UUID)")
	flag.StringVar(&emailFlag, "email", "", "user email to update")
	flag.StringVar(&planFlag, "plan", "pro", "plan to assign (free, standard, pro)")
	flag.BoolVar(&keepUsageFlag, "keep-usage", false, "preserve analyses_used instead of resetting to 0")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	email := strings.TrimSpace(emailFlag)
	plan := strings.TrimSpace(strings.ToLower(planFlag))

	if userID == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}
	switch limits.PlanID(plan) {
	case limits.PlanFree, limits.PlanStandard, limits.PlanPro:
	default:
		exitWithError(fmt.Errorf("unsupported plan %q", plan))
	}

	_ = godotenv.Load()
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "userplan").Logger()
	runner := infra.NewSQLRunner(pool, logger)

	if userID == "" {
		lookupCtx, cancelLookup := context.WithTimeout(ctx, 5*time.Second)
		row := runner.QueryRow(lookupCtx, sqlinline.QSelectUserByEmail, email)
		var user struct {
			ID, Email, Name, Locale, Currency, Role, Plan string
			DocumentsCount, AnalysesUsed                  int
			CreatedAt, UpdatedAt                          time.Time
		}
		err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Locale, &user.Currency,
			&user.Role, &user.Plan, &user.DocumentsCount, &user.AnalysesUsed,
			&user.CreatedAt, &user.UpdatedAt)
		cancelLookup()
		if err != nil {
			exitWithError(fmt.Errorf("failed to load user: %w", err))
		}
		userID = user.ID
	}

	updateCtx, cancelUpdate := context.WithTimeout(ctx, 5*time.Second)
	defer cancelUpdate()
	row := runner.QueryRow(updateCtx, sqlinline.QUpdateUserPlan, userID, plan, keepUsageFlag)

	var updatedID, updatedEmail, updatedPlan string
	if err := row.Scan(&updatedID, &updatedEmail, &updatedPlan); err != nil {
		exitWithError(fmt.Errorf("failed to update user plan: %w", err))
	}

	fmt.Printf("updated %s (%s) to plan %s\n", updatedEmail, updatedID, updatedPlan)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "userplan:", err)
	os.Exit(1)
}
