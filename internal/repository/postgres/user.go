package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/team-access-service/internal/domain"
)

// UserRepository реализует repository.UserRepository для PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository создает новый экземпляр UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateOrUpdate создает нового пользователя или обновляет существующего
func (r *UserRepository) CreateOrUpdate(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (user_id, username)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username,
		    updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, user.UserID, user.Username); err != nil {
		return storageErr(err)
	}
	return nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, username
		FROM users
		WHERE user_id = $1
	`

	var user domain.User
	err := r.db.QueryRow(ctx, query, userID).Scan(&user.UserID, &user.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storageErr(err)
	}

	return &user, nil
}
