package repository

import (
	"context"
	"fmt"
	"go-gin-seat-reservation/internal/model"
	apperrors "go-gin-seat-reservation/pkg/app_errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	SetBlocked(ctx context.Context, id int, blocked bool) (*model.User, error)

	// Transaction methods
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.User, error)
}

type UserRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &UserRepositoryImpl{
		pool: pool,
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
		INSERT INTO users (name, email, blocked)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, blocked, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		user.Name, user.Email, user.Blocked,
	).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Blocked,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "") {
			return nil, fmt.Errorf("email %q already registered: %w", user.Email, apperrors.ErrInvalidInput)
		}
		return nil, err
	}

	return user, nil
}

func (r *UserRepositoryImpl) List(ctx context.Context) ([]*model.User, error) {
	query := `
		SELECT id, name, email, blocked, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		var user model.User
		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.Blocked,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id int) (*model.User, error) {
	query := `
		SELECT id, name, email, blocked, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	return scanUser(r.pool.QueryRow(ctx, query, id))
}

// FindByIDWithLock 鎖住使用者資料列，同一使用者的訂位請求會在此排隊
func (r *UserRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.User, error) {
	query := `
		SELECT id, name, email, blocked, created_at, updated_at
		FROM users
		WHERE id = $1
		FOR UPDATE
	`

	return scanUser(tx.QueryRow(ctx, query, id))
}

func (r *UserRepositoryImpl) SetBlocked(ctx context.Context, id int, blocked bool) (*model.User, error) {
	query := `
		UPDATE users
		SET blocked = $1, updated_at = $2
		WHERE id = $3
		RETURNING id, name, email, blocked, created_at, updated_at
	`

	return scanUser(r.pool.QueryRow(ctx, query, blocked, time.Now().UTC(), id))
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Blocked,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
