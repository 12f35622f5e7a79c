package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"docmind/internal/domain"
	"docmind/internal/infra"
	"docmind/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

// GetByID fetches a user by UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByID, id))
}

// GetByEmail fetches a user by email address, case-insensitively.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByEmail, email))
}

// SetPlan assigns a plan and resets the analysis usage counter.
func (r *UserRepositoryPG) SetPlan(ctx context.Context, id, plan string) error {
	var userID, email, updated string
	err := r.sql.QueryRow(ctx, sqlinline.QUpdateUserPlan, id, plan, false).Scan(&userID, &email, &updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// AdjustDocumentsCount moves the live document counter by delta, clamped at zero.
func (r *UserRepositoryPG) AdjustDocumentsCount(ctx context.Context, id string, delta int) error {
	_, err := r.sql.Exec(ctx, sqlinline.QAdjustDocumentsCount, id, delta)
	return err
}

// IncrementAnalysesUsed bumps the lifetime analysis counter.
func (r *UserRepositoryPG) IncrementAnalysesUsed(ctx context.Context, id string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QIncrementAnalysesUsed, id)
	return err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Locale, &u.Currency, &u.Role, &u.Plan,
		&u.DocumentsCount, &u.AnalysesUsed, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
