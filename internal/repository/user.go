package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/medical-inventory/internal/model"
	"github.com/tuanvumaihuynh/medical-inventory/internal/storage/db"
)

type UserRepository interface {
	WithDB(db db.DB) UserRepository
	ListUsers(ctx context.Context) ([]model.User, error)
}

type userRepository struct {
	db db.DB
}

func NewUserRepository(db db.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r userRepository) WithDB(db db.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

type userRow struct {
	UserID   int64  `db:"user_id"`
	Name     string `db:"name"`
	Role     string `db:"role"`
	Email    string `db:"email"`
	Password string `db:"password"`
}

func (r userRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, name, role, email, password
		FROM users
		ORDER BY user_id;
	`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[userRow])
	if err != nil {
		return nil, fmt.Errorf("collect users: %w", err)
	}

	users := make([]model.User, 0, len(results))
	for _, row := range results {
		users = append(users, model.User{
			ID:       row.UserID,
			Name:     row.Name,
			Role:     row.Role,
			Email:    row.Email,
			Password: row.Password,
		})
	}

	return users, nil
}
