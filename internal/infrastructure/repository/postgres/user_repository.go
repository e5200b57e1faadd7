package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rfp-optimize/platform/internal/core/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, email, password_hash, role, created_at)
VALUES ($1,$2,$3,$4,$5)
`, user.ID, strings.ToLower(user.Email), user.PasswordHash, string(user.Role), user.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "users_email_key") {
			return domain.WrapError(domain.ErrConflict, "create user", err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, email, password_hash, role, created_at FROM users WHERE email = $1
`, strings.ToLower(email))
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, email, password_hash, role, created_at FROM users WHERE id = $1
`, id)
	return scanUser(row)
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var role string
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.Role = domain.Role(role)
	return &user, nil
}
