package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/dental-admin/internal/model"
)

type userRepository struct {
	q sqlx.ExtContext
}

const userColumns = `id, username, password_hash, name, role, created_at`

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (username, password_hash, name, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	user.CreatedAt = time.Now().UTC()

	err := r.q.QueryRowxContext(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Name,
		user.Role,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	var user model.User
	if err := sqlx.GetContext(ctx, r.q, &user, query, username); err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", notFound(err))
	}
	return &user, nil
}
