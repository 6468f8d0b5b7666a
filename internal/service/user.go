package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/witthaya/shopapi/internal/models"
	"github.com/witthaya/shopapi/internal/repo"
	"github.com/witthaya/shopapi/internal/storage"
	"github.com/witthaya/shopapi/internal/transport"
	"github.com/witthaya/shopapi/pkg/hash"
	"github.com/witthaya/shopapi/pkg/logging"
)

type UserService struct {
	Repo   *repo.GormRepo
	Images *storage.ImageStore
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "user", ID: id}
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint, req transport.UpdateUserRequest, newImage string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.update", "user_id", id)

	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "user", ID: id}
		}
		return nil, err
	}

	if req.Name != nil && *req.Name != "" && *req.Name != user.Name {
		if existing, err := s.Repo.GetUserByName(ctx, *req.Name); err == nil && existing.ID != id {
			return nil, fmt.Errorf("%w: username already exists", ErrConflict)
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Name = *req.Name
	}
	if req.Age != nil {
		user.Age = req.Age
	}
	if req.Password != nil && *req.Password != "" {
		pwHash, err := hash.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = pwHash
	}

	oldImage := user.ImageFilename
	if newImage != "" {
		user.ImageFilename = newImage
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	if newImage != "" && oldImage != "" {
		s.Images.Remove(ctx, oldImage)
	}

	l.Info("update_user_success")
	return user, nil
}

// DeleteUser removes the record and returns it for the response body;
// the stored image goes away best-effort.
func (s *UserService) DeleteUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "user", ID: id}
		}
		return nil, err
	}

	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		return nil, err
	}

	s.Images.Remove(ctx, user.ImageFilename)
	return user, nil
}
