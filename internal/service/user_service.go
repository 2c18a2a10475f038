package service

import (
	"context"
	"errors"
	"strings"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
)

type UserService struct {
	userRepo db.IUserRepository
}

func NewUserService(userRepo db.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (u *UserService) CreateUser(ctx context.Context, name, email string) (*model.User, error) {
	name, email = strings.TrimSpace(name), strings.ToLower(strings.TrimSpace(email))
	if name == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidUser
	}

	if _, err := u.userRepo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	return u.userRepo.CreateUser(ctx, &model.User{Name: name, Email: email, IsActive: true})
}

func (u *UserService) GetUser(ctx context.Context, userID uint) (*model.User, error) {
	return u.userRepo.GetUserByID(ctx, userID)
}

func (u *UserService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}
