package domain

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/railbook/railbook/internal/model"
	"github.com/railbook/railbook/internal/repository"
	"github.com/railbook/railbook/internal/service"
	"github.com/railbook/railbook/internal/token"
)

type AuthService interface {
	Register(ctx context.Context, name, password string) (*model.User, string, error)
	Login(ctx context.Context, name, password string) (*model.User, string, error)
	GetProfile(ctx context.Context, userID uint) (*model.User, error)
}

type authService struct {
	repo   repository.UserRepo
	tokens *token.Service
}

var _ AuthService = (*authService)(nil)

func NewAuthService(userRepo repository.UserRepo, tokens *token.Service) *authService {
	return &authService{
		repo:   userRepo,
		tokens: tokens,
	}
}

func (s *authService) Register(ctx context.Context, name, password string) (*model.User, string, error) {
	if _, err := s.repo.GetByName(name); err == nil {
		return nil, "", ErrNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Name:           name,
		HashedPassword: string(hashed),
		Role:           model.RoleUser,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, "", err
	}

	tok, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", err
	}
	return user, tok, nil
}

func (s *authService) Login(ctx context.Context, name, password string) (*model.User, string, error) {
	user, err := s.repo.GetByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrBadCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, "", ErrBadCredentials
	}

	tok, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", err
	}
	return user, tok, nil
}

func (s *authService) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
