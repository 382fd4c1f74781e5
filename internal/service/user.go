package service

import (
	"context"
	"fmt"

	"github.com/tuanvumaihuynh/medical-inventory/internal/model"
	"github.com/tuanvumaihuynh/medical-inventory/internal/repository"
	"github.com/tuanvumaihuynh/medical-inventory/internal/storage/db"
)

type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
}

type userService struct {
	db       db.DB
	userRepo repository.UserRepository
}

func NewUserService(db db.DB, userRepo repository.UserRepository) UserService {
	return &userService{
		db:       db,
		userRepo: userRepo,
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithConn(ctx, func(conn db.DB) error {
		var err error
		users, err = s.userRepo.WithDB(conn).ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("user repository list users: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return users, nil
}
