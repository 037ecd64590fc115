package group

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/userhub/admin-api/internal/access"
	"github.com/userhub/admin-api/internal/model"
	"github.com/userhub/admin-api/internal/repository"
	apperrors "github.com/userhub/admin-api/pkg/errors"
)

type Servicer interface {
	CreateGroup(ctx context.Context, caller access.Caller, name string) (*model.Group, error)
	DeleteGroup(ctx context.Context, caller access.Caller, name string) error
	ListGroups(ctx context.Context, caller access.Caller) ([]*model.Group, error)
	AddMember(ctx context.Context, caller access.Caller, groupName string, userID uuid.UUID) error
	RemoveMember(ctx context.Context, caller access.Caller, groupName string, userID uuid.UUID) error
	ListMembers(ctx context.Context, caller access.Caller, groupName string) ([]*model.User, error)
}

type Service struct {
	repo   repository.GroupRepository
	admins *access.AdminSet
}

func NewService(repo repository.GroupRepository, admins *access.AdminSet) *Service {
	return &Service{repo: repo, admins: admins}
}

func (s *Service) CreateGroup(ctx context.Context, caller access.Caller, name string) (*model.Group, error) {
	if !s.admins.IsAdmin(caller) {
		return nil, apperrors.PermissionDenied("only admins may create groups")
	}

	group := &model.Group{Name: name}
	if err := s.repo.Create(ctx, group); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.BadRequest(fmt.Sprintf("group %q already exists", name), nil)
		}
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return group, nil
}

func (s *Service) DeleteGroup(ctx context.Context, caller access.Caller, name string) error {
	if !s.admins.IsAdmin(caller) {
		return apperrors.PermissionDenied("only admins may delete groups")
	}

	if err := s.repo.DeleteByName(ctx, name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("group")
		}
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

func (s *Service) ListGroups(ctx context.Context, caller access.Caller) ([]*model.Group, error) {
	if !s.admins.IsAdmin(caller) {
		return nil, apperrors.PermissionDenied("only admins may list groups")
	}

	groups, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

func (s *Service) AddMember(ctx context.Context, caller access.Caller, groupName string, userID uuid.UUID) error {
	if !s.admins.IsAdmin(caller) {
		return apperrors.PermissionDenied("only admins may manage group membership")
	}

	group, err := s.resolve(ctx, groupName)
	if err != nil {
		return err
	}

	if err := s.repo.AddMember(ctx, group.ID, userID); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

func (s *Service) RemoveMember(ctx context.Context, caller access.Caller, groupName string, userID uuid.UUID) error {
	if !s.admins.IsAdmin(caller) {
		return apperrors.PermissionDenied("only admins may manage group membership")
	}

	group, err := s.resolve(ctx, groupName)
	if err != nil {
		return err
	}

	if err := s.repo.RemoveMember(ctx, group.ID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

func (s *Service) ListMembers(ctx context.Context, caller access.Caller, groupName string) ([]*model.User, error) {
	if !s.admins.IsAdmin(caller) {
		return nil, apperrors.PermissionDenied("only admins may list group members")
	}

	group, err := s.resolve(ctx, groupName)
	if err != nil {
		return nil, err
	}

	users, err := s.repo.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return users, nil
}

func (s *Service) resolve(ctx context.Context, name string) (*model.Group, error) {
	group, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("group")
		}
		return nil, fmt.Errorf("failed to resolve group: %w", err)
	}
	return group, nil
}
