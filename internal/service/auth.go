package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/witthaya/shopapi/internal/models"
	"github.com/witthaya/shopapi/internal/repo"
	"github.com/witthaya/shopapi/pkg/hash"
	"github.com/witthaya/shopapi/pkg/logging"
	"github.com/witthaya/shopapi/pkg/tokens"
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	Events    EventPublisher
}

type AuthResult struct {
	Token string
	User  *models.User
}

func (s *AuthService) Register(ctx context.Context, name, password string, age *int, imageFilename string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if name == "" || password == "" {
		return nil, fmt.Errorf("%w: name and password are required", ErrValidation)
	}

	if _, err := s.Repo.GetUserByName(ctx, name); err == nil {
		l.Warn("register_failed", "status", 409, "reason", "name taken")
		return nil, fmt.Errorf("%w: username already exists", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Name:          name,
		PasswordHash:  pwHash,
		Role:          models.RoleUser,
		Age:           age,
		ImageFilename: imageFilename,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}

	token, _, err := tokens.SignAccessToken(user.ID, user.Name, user.Role, s.JWTSecret)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, TopicUserEvents, entityKey(user.ID), map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"name":   user.Name,
	})

	l.Info("register_success", "user_id", user.ID)
	return &AuthResult{Token: token, User: &user}, nil
}

func (s *AuthService) Login(ctx context.Context, name, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if name == "" || password == "" {
		return nil, fmt.Errorf("%w: name and password are required", ErrValidation)
	}

	user, err := s.Repo.GetUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown user")
			return nil, fmt.Errorf("%w: invalid name or password", ErrCredentials)
		}
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch", "user_id", user.ID)
		return nil, fmt.Errorf("%w: invalid name or password", ErrCredentials)
	}

	token, _, err := tokens.SignAccessToken(user.ID, user.Name, user.Role, s.JWTSecret)
	if err != nil {
		return nil, err
	}

	l.Info("login_success", "user_id", user.ID)
	return &AuthResult{Token: token, User: user}, nil
}
