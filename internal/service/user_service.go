package service

import (
	"context"
	"net/mail"
	"strings"

	"go-gin-seat-reservation/internal/model"
	"go-gin-seat-reservation/internal/repository"
	apperrors "go-gin-seat-reservation/pkg/app_errors"
)

type UserService interface {
	Register(ctx context.Context, name, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Block(ctx context.Context, id int) (*model.User, error)
	Unblock(ctx context.Context, id int) (*model.User, error)
}

type UserServiceImpl struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &UserServiceImpl{repo: repo}
}

func (s *UserServiceImpl) Register(ctx context.Context, name, email string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, apperrors.ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.ErrInvalidInput
	}
	return s.repo.Create(ctx, &model.User{Name: name, Email: email})
}

func (s *UserServiceImpl) List(ctx context.Context) ([]*model.User, error) {
	return s.repo.List(ctx)
}

// Block 被封鎖的使用者無法建立新訂位，既有訂位不受影響
func (s *UserServiceImpl) Block(ctx context.Context, id int) (*model.User, error) {
	return s.repo.SetBlocked(ctx, id, true)
}

func (s *UserServiceImpl) Unblock(ctx context.Context, id int) (*model.User, error) {
	return s.repo.SetBlocked(ctx, id, false)
}
