package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/userhub/admin-api/internal/access"
	"github.com/userhub/admin-api/internal/model"
	"github.com/userhub/admin-api/internal/repository"
	apperrors "github.com/userhub/admin-api/pkg/errors"
)

type Servicer interface {
	CreateProfile(ctx context.Context, caller access.Caller, req *model.CreateProfileRequest) (*model.Profile, error)
	GetProfile(ctx context.Context, caller access.Caller, name string) (*model.Profile, error)
	DeleteProfile(ctx context.Context, caller access.Caller, name string) error
	ListProfiles(ctx context.Context, caller access.Caller) ([]*model.Profile, error)
}

type Service struct {
	repo   repository.ProfileRepository
	admins *access.AdminSet
}

func NewService(repo repository.ProfileRepository, admins *access.AdminSet) *Service {
	return &Service{repo: repo, admins: admins}
}

func (s *Service) CreateProfile(ctx context.Context, caller access.Caller, req *model.CreateProfileRequest) (*model.Profile, error) {
	if !s.admins.IsAdmin(caller) {
		return nil, apperrors.PermissionDenied("only admins may create profiles")
	}

	profile := &model.Profile{
		Name:           req.Name,
		MaxConnections: req.MaxConnections,
		IdleTimeoutSec: req.IdleTimeoutSec,
		StorageQuotaMB: req.StorageQuotaMB,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.BadRequest(fmt.Sprintf("profile %q already exists", req.Name), nil)
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

func (s *Service) GetProfile(ctx context.Context, caller access.Caller, name string) (*model.Profile, error) {
	if !s.admins.IsAdmin(caller) {
		return nil, apperrors.PermissionDenied("only admins may read profiles")
	}

	profile, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("profile")
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (s *Service) DeleteProfile(ctx context.Context, caller access.Caller, name string) error {
	if !s.admins.IsAdmin(caller) {
		return apperrors.PermissionDenied("only admins may delete profiles")
	}

	if err := s.repo.DeleteByName(ctx, name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("profile")
		}
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

func (s *Service) ListProfiles(ctx context.Context, caller access.Caller) ([]*model.Profile, error) {
	if !s.admins.IsAdmin(caller) {
		return nil, apperrors.PermissionDenied("only admins may list profiles")
	}

	profiles, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}
